// Package deck holds the finished card model and its study ordering.
package deck

import "strconv"

// Card is one vocabulary record, column for column what the exported
// spreadsheet emits. Cards are built once after enrichment and never
// mutated.
type Card struct {
	Front           string
	Reading         string
	Furigana        string
	POS             string
	MeaningEN       string
	JLPT            string
	FrequencyPDF    int
	FrequencyGlobal string
}

// Columns returns the spreadsheet header in emit order.
func Columns() []string {
	return []string{
		"Front",
		"Reading",
		"Furigana",
		"POS",
		"Meaning_EN",
		"JLPT",
		"Frequency_PDF",
		"Frequency_Global",
	}
}

// Row returns the card's fields as strings, aligned with Columns.
func (c *Card) Row() []string {
	return []string{
		c.Front,
		c.Reading,
		c.Furigana,
		c.POS,
		c.MeaningEN,
		c.JLPT,
		strconv.Itoa(c.FrequencyPDF),
		c.FrequencyGlobal,
	}
}
