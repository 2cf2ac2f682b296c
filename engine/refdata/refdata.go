// Package refdata loads the external word datasets a run joins against:
// JLPT levels, corpus frequencies, and English meanings.
package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Table is an exact-match word lookup loaded from a two-column CSV.
type Table map[string]string

// LoadTable reads word/value pairs from r. The first record is a header
// and is discarded. Keys and values are taken verbatim: the lookup
// contract is exact-match, so nothing is trimmed or case-folded. Rows
// with fewer than two fields are skipped, and when a key repeats the
// last row wins. Input may carry a UTF-8 or UTF-16 byte order mark;
// spreadsheet exports usually do.
func LoadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	t := make(Table)
	header := true
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue // skip malformed rows, keep the rest
			}
			return nil, fmt.Errorf("refdata: read csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if len(row) < 2 {
			continue
		}
		t[row[0]] = row[1]
	}
	return t, nil
}

// LoadTableFile loads a table from the CSV at path.
func LoadTableFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("refdata: open %s: %w", path, err)
	}
	defer f.Close()
	t, err := LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("refdata: load %s: %w", path, err)
	}
	return t, nil
}

// Lookup returns the value recorded for word, or "" when the table has
// no exact match.
func (t Table) Lookup(word string) string { return t[word] }

// Set bundles the three reference datasets of a run.
type Set struct {
	JLPT      Table
	Frequency Table
	Meaning   Table
}

// NewSet wraps already-loaded tables. Nil tables resolve every lookup
// to the empty string.
func NewSet(jlpt, frequency, meaning Table) *Set {
	return &Set{JLPT: jlpt, Frequency: frequency, Meaning: meaning}
}

// LoadSet loads the three datasets from their CSV files. Every file is
// required; a missing one fails the run before any document work.
func LoadSet(jlptPath, freqPath, meaningPath string) (*Set, error) {
	jl, err := LoadTableFile(jlptPath)
	if err != nil {
		return nil, err
	}
	fr, err := LoadTableFile(freqPath)
	if err != nil {
		return nil, err
	}
	me, err := LoadTableFile(meaningPath)
	if err != nil {
		return nil, err
	}
	return NewSet(jl, fr, me), nil
}

// LoadSetReaders loads the three datasets from open streams, in the
// same order LoadSet takes paths.
func LoadSetReaders(jlptR, freqR, meaningR io.Reader) (*Set, error) {
	jl, err := LoadTable(jlptR)
	if err != nil {
		return nil, fmt.Errorf("refdata: jlpt dataset: %w", err)
	}
	fr, err := LoadTable(freqR)
	if err != nil {
		return nil, fmt.Errorf("refdata: frequency dataset: %w", err)
	}
	me, err := LoadTable(meaningR)
	if err != nil {
		return nil, fmt.Errorf("refdata: meaning dataset: %w", err)
	}
	return NewSet(jl, fr, me), nil
}
