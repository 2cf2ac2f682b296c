// Package metrics centralizes metric naming and histogram buckets so
// every subsystem exports under one consistent namespace.
package metrics

import "strings"

const namePrefix = "ankigen_"

// MetricName returns name with the project prefix applied exactly once.
func MetricName(name string) string {
	if strings.HasPrefix(name, namePrefix) {
		return name
	}
	return namePrefix + name
}

// MetricNameWithSubsystem builds "<prefix><subsystem>_<name>", trimming
// stray underscores from the subsystem. Names that already carry the
// prefix pass through untouched.
func MetricNameWithSubsystem(subsystem, name string) string {
	if strings.HasPrefix(name, namePrefix) {
		return name
	}
	sub := strings.Trim(subsystem, "_")
	if sub == "" {
		return MetricName(name)
	}
	if name == "" {
		return namePrefix + sub
	}
	return namePrefix + sub + "_" + name
}
