// Package reading derives hiragana readings and ruby furigana markup
// for dictionary forms.
package reading

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/ankigen/ankigen/engine/morph"
)

// Generator turns words into their kana readings. It holds its own
// tokenizer so reading lookups never share state with document
// analysis; construction loads the dictionary and is done once per
// process.
type Generator struct {
	tok *tokenizer.Tokenizer
}

// NewGenerator builds a Generator over the named system dictionary
// ("" selects IPA).
func NewGenerator(dictName string) (*Generator, error) {
	d, err := morph.Dictionary(dictName)
	if err != nil {
		return nil, err
	}
	tok, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("reading: build tokenizer: %w", err)
	}
	return &Generator{tok: tok}, nil
}

// Reading returns the hiragana reading of word. Segments the dictionary
// knows contribute their katakana reading converted to hiragana;
// segments without one (Latin text, digits, rare kanji) pass through as
// written. Reading never fails: the worst case is the word itself.
func (g *Generator) Reading(word string) string {
	if word == "" {
		return ""
	}
	var b strings.Builder
	for _, tk := range g.tok.Analyze(word, tokenizer.Normal) {
		if tk.Class == tokenizer.DUMMY {
			continue
		}
		r, ok := tk.Reading()
		if !ok || r == "" || r == "*" {
			b.WriteString(tk.Surface)
			continue
		}
		b.WriteString(HiraganaFromKatakana(r))
	}
	return b.String()
}

// Furigana renders word annotated with its reading as HTML ruby markup,
// the form Anki renders natively.
func (g *Generator) Furigana(word, reading string) string {
	return fmt.Sprintf("<ruby>%s<rt>%s</rt></ruby>", word, reading)
}
