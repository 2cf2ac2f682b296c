package helpers

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/ankigen/ankigen/pkg/config"
)

// Mode selects how commands present progress and results.
type Mode string

const (
	// ModeInteractive renders styled output for a human at a terminal.
	ModeInteractive Mode = "interactive"
	// ModePlain renders line-oriented output for pipes and CI.
	ModePlain Mode = "plain"
)

// isRunningInCI checks if we're running in a CI/CD environment.
func isRunningInCI() bool {
	if os.Getenv("CI") != "" {
		return true
	}
	ciVars := []string{
		"JENKINS_HOME",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"BUILDKITE",
		"DRONE",
		"TEAMCITY_VERSION",
		"CONTINUOUS_INTEGRATION",
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// stdoutIsTerminal reports whether stdout is attached to a terminal.
func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// DetectMode resolves cli.mode from configuration. "auto" falls back
// to terminal detection: interactive only when stdout is a terminal
// outside CI.
func DetectMode(cfg *config.Config) Mode {
	switch cfg.CLI.Mode {
	case string(ModeInteractive):
		return ModeInteractive
	case string(ModePlain):
		return ModePlain
	}
	if isRunningInCI() {
		return ModePlain
	}
	if !stdoutIsTerminal() {
		return ModePlain
	}
	if term := os.Getenv("TERM"); term == "dumb" || term == "" {
		return ModePlain
	}
	return ModeInteractive
}

// ShouldUseColor determines if colored output should be used.
func ShouldUseColor(cfg *config.Config) bool {
	if cfg.CLI.NoColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if !stdoutIsTerminal() {
		return false
	}
	if isRunningInCI() {
		return false
	}
	if term := os.Getenv("TERM"); term == "dumb" || term == "" {
		return false
	}
	return true
}
