// Package export serializes finished decks into spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ankigen/ankigen/engine/deck"
)

// Format selects the spreadsheet encoding of a generated deck.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DefaultSheet is the worksheet name used when none is configured.
const DefaultSheet = "Deck"

// DefaultBaseName is the artifact filename without extension.
const DefaultBaseName = "anki_vocab"

// ParseFormat normalizes user input into a Format. Empty input selects
// XLSX.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatXLSX:
		return FormatXLSX, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("export: unknown format %q (expected %q or %q)", s, FormatXLSX, FormatCSV)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Ext returns the filename extension, dot included.
func (f Format) Ext() string { return "." + string(f) }

// FileName returns base with the format's extension appended.
func (f Format) FileName(base string) string {
	if base == "" {
		base = DefaultBaseName
	}
	return base + f.Ext()
}

// Write emits cards to w in the requested format. Nothing is written
// until the deck is complete, so a failed run leaves no partial
// artifact behind.
func Write(w io.Writer, f Format, sheet string, cards []deck.Card) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, cards)
	case FormatXLSX, "":
		return WriteXLSX(w, sheet, cards)
	default:
		return fmt.Errorf("export: unknown format %q", f)
	}
}
