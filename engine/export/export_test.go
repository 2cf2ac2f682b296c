package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ankigen/ankigen/engine/deck"
)

func sampleCards() []deck.Card {
	return []deck.Card{
		{
			Front:           "食べる",
			Reading:         "たべる",
			Furigana:        "<ruby>食べる<rt>たべる</rt></ruby>",
			POS:             "Verb",
			MeaningEN:       "to eat",
			JLPT:            "N5",
			FrequencyPDF:    5,
			FrequencyGlobal: "5000",
		},
		{
			Front:           "ヌポポ",
			Reading:         "ヌポポ",
			Furigana:        "<ruby>ヌポポ<rt>ヌポポ</rt></ruby>",
			POS:             "Noun",
			FrequencyPDF:    1,
			FrequencyGlobal: "rare",
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Run("Should default empty input to xlsx", func(t *testing.T) {
		f, err := ParseFormat("")
		require.NoError(t, err)
		assert.Equal(t, FormatXLSX, f)
	})
	t.Run("Should normalize case and padding", func(t *testing.T) {
		f, err := ParseFormat(" CSV ")
		require.NoError(t, err)
		assert.Equal(t, FormatCSV, f)
	})
	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, err := ParseFormat("ods")
		require.Error(t, err)
	})
}

func TestFormat_FileName(t *testing.T) {
	t.Run("Should append the extension to the default base", func(t *testing.T) {
		assert.Equal(t, "anki_vocab.xlsx", FormatXLSX.FileName(""))
		assert.Equal(t, "deck.csv", FormatCSV.FileName("deck"))
	})
}

func TestWriteCSV(t *testing.T) {
	t.Run("Should emit the header and one row per card", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, sampleCards()))

		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, deck.Columns(), rows[0])
		assert.Equal(t, []string{
			"食べる", "たべる", "<ruby>食べる<rt>たべる</rt></ruby>",
			"Verb", "to eat", "N5", "5", "5000",
		}, rows[1])
		assert.Equal(t, "ヌポポ", rows[2][0])
		assert.Equal(t, "rare", rows[2][7])
	})
	t.Run("Should emit only the header for an empty deck", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, nil))
		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, deck.Columns(), rows[0])
	})
}

func TestWriteXLSX(t *testing.T) {
	t.Run("Should round-trip cards through a workbook", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteXLSX(&buf, "", sampleCards()))

		wb, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		defer wb.Close()

		rows, err := wb.GetRows(DefaultSheet)
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, deck.Columns(), rows[0])
		assert.Equal(t, "食べる", rows[1][0])
		assert.Equal(t, "5", rows[1][6], "document frequency written as a number")
		assert.Equal(t, "5000", rows[1][7])
		assert.Equal(t, "rare", rows[2][7], "non-numeric global frequency stays text")
	})
	t.Run("Should honor a custom sheet name", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteXLSX(&buf, "Vocabulary", sampleCards()))

		wb, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		defer wb.Close()

		rows, err := wb.GetRows("Vocabulary")
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})
}

func TestWrite(t *testing.T) {
	t.Run("Should dispatch on format", func(t *testing.T) {
		var csvBuf, xlsxBuf bytes.Buffer
		require.NoError(t, Write(&csvBuf, FormatCSV, "", sampleCards()))
		require.NoError(t, Write(&xlsxBuf, FormatXLSX, "", sampleCards()))
		assert.NotEqual(t, csvBuf.Bytes(), xlsxBuf.Bytes())
	})
	t.Run("Should reject an unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		require.Error(t, Write(&buf, Format("ods"), "", nil))
	})
}
