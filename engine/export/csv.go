package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ankigen/ankigen/engine/deck"
)

// WriteCSV emits cards as UTF-8 CSV with a header row.
func WriteCSV(w io.Writer, cards []deck.Card) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(deck.Columns()); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for i := range cards {
		if err := cw.Write(cards[i].Row()); err != nil {
			return fmt.Errorf("export: write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush: %w", err)
	}
	return nil
}
