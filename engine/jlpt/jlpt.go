// Package jlpt models the Japanese-Language Proficiency Test scale used
// to grade vocabulary difficulty.
package jlpt

import (
	"fmt"
	"strings"
)

// Level is one JLPT proficiency level, N5 (easiest) through N1 (hardest).
type Level string

const (
	N5 Level = "N5"
	N4 Level = "N4"
	N3 Level = "N3"
	N2 Level = "N2"
	N1 Level = "N1"
)

// DefaultMinLevel is the cutoff applied when a run does not configure one:
// words graded harder than N3 are left out of the deck.
const DefaultMinLevel = N3

var ranks = map[Level]int{N5: 1, N4: 2, N3: 3, N2: 4, N1: 5}

// Levels returns the official levels ordered from easiest to hardest.
func Levels() []Level {
	return []Level{N5, N4, N3, N2, N1}
}

// Rank returns the difficulty ordinal of a level (N5=1 .. N1=5). The
// second return is false for anything outside the five official levels;
// callers treat those values as unrankable rather than invalid.
func Rank(l Level) (int, bool) {
	r, ok := ranks[l]
	return r, ok
}

// Parse normalizes user input such as "n3" into a Level.
func Parse(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := ranks[l]; !ok {
		return "", fmt.Errorf("jlpt: unknown level %q (expected one of N5, N4, N3, N2, N1)", s)
	}
	return l, nil
}
