package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ankigen/ankigen/engine/deck"
)

// WriteXLSX emits cards as a single-sheet workbook. Frequency columns
// are written as numbers when they carry one, so spreadsheet sorting
// behaves; everything else stays text.
func WriteXLSX(w io.Writer, sheet string, cards []deck.Card) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("export: name sheet %q: %w", sheet, err)
		}
	}
	header := make([]any, 0, len(deck.Columns()))
	for _, col := range deck.Columns() {
		header = append(header, col)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for i := range cards {
		c := &cards[i]
		row := []any{
			c.Front,
			c.Reading,
			c.Furigana,
			c.POS,
			c.MeaningEN,
			c.JLPT,
			c.FrequencyPDF,
			numericCell(c.FrequencyGlobal),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export: row %d: %w", i+2, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func numericCell(v string) any {
	if v == "" {
		return ""
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return v
}
