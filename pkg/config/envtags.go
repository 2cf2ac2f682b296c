package config

import (
	"reflect"
	"sync"
)

var (
	envTagOnce  sync.Once
	envTagTable map[string]string
)

// envTagPaths maps explicit env struct tags to koanf paths. Most
// variables follow the ANKIGEN_<SECTION>_<FIELD> convention that
// transformEnvKey handles; the tags pin down the names the convention
// would resolve wrong, such as fields whose section differs from the
// variable name.
func envTagPaths() map[string]string {
	envTagOnce.Do(func() {
		envTagTable = make(map[string]string)
		collectEnvTags(reflect.TypeOf(Config{}), "", envTagTable)
	})
	return envTagTable
}

// collectEnvTags walks t and records every env-tagged field keyed by
// variable name, valued with its dot-delimited koanf path.
func collectEnvTags(t reflect.Type, prefix string, out map[string]string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("koanf")
		if name == "" || name == "-" {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if tag := field.Tag.Get("env"); tag != "" && tag != "-" {
			out[tag] = path
		}
		// Recurse into nested sections, but not into stdlib types
		// like time.Time.
		if field.Type.Kind() == reflect.Struct && field.Type.PkgPath() != "time" {
			collectEnvTags(field.Type, path, out)
		}
	}
}
