// Package textnorm prepares raw document text for morphological analysis.
package textnorm

import "strings"

// cleaner strips the layout artifacts PDF extraction leaves behind:
// line breaks plus ASCII and ideographic spaces. Japanese prose carries
// no word boundaries in whitespace, and words wrapped across lines
// mis-segment unless the break is removed.
var cleaner = strings.NewReplacer("\r", "", "\n", "", " ", "", "　", "")

// Clean returns s with every newline and space character removed.
// Everything else, including punctuation and width variants, passes
// through untouched.
func Clean(s string) string {
	return cleaner.Replace(s)
}
