package config

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// jlptLevelPattern matches the five JLPT levels: N5 (easiest) through
// N1 (hardest).
var jlptLevelPattern = regexp.MustCompile(`^N[1-5]$`)

// RegisterCustomValidators installs the domain validation tags on v.
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("jlpt_level", validateJLPTLevel)
}

// validateJLPTLevel validates a JLPT level string, ignoring case and
// surrounding whitespace.
func validateJLPTLevel(fl validator.FieldLevel) bool {
	level := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	return jlptLevelPattern.MatchString(level)
}
