// Package morph segments Japanese text into vocabulary tokens using the
// kagome morphological analyzer.
package morph

import (
	"fmt"

	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Segmentation modes. Normal is longest-match segmentation and keeps
// compounds whole; search and extended split compounds and unknown
// words into finer units for recall-oriented uses.
const (
	ModeNormal   = "normal"
	ModeSearch   = "search"
	ModeExtended = "extended"
)

// Token is one extracted morphological unit.
type Token struct {
	// Surface is the text exactly as it appeared in the document.
	Surface string
	// Lemma is the dictionary form the surface inflects from. Unknown
	// words carry their surface here unchanged.
	Lemma string
	// POS is the display category derived from the native tag.
	POS Category
}

// Config selects the dictionary and segmentation mode for an Analyzer.
type Config struct {
	Dict string
	Mode string
}

// Analyzer extracts vocabulary tokens from cleaned text. Constructing
// one loads the system dictionary, which dominates process start-up;
// after that it is read-only and safe for concurrent use.
type Analyzer struct {
	tok  *tokenizer.Tokenizer
	mode tokenizer.TokenizeMode
}

// New builds an Analyzer from cfg. Zero values select the IPA
// dictionary in normal mode.
func New(cfg Config) (*Analyzer, error) {
	d, err := Dictionary(cfg.Dict)
	if err != nil {
		return nil, err
	}
	mode, err := segmentationMode(cfg.Mode)
	if err != nil {
		return nil, err
	}
	tok, err := tokenizer.New(d, tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("morph: build tokenizer: %w", err)
	}
	return &Analyzer{tok: tok, mode: mode}, nil
}

// Analyze returns the vocabulary tokens of text in document order.
// Particles and auxiliary verbs are dropped, as are units the
// dictionary yields nothing usable for.
func (a *Analyzer) Analyze(text string) []Token {
	if text == "" {
		return nil
	}
	raw := a.tok.Analyze(text, a.mode)
	out := make([]Token, 0, len(raw))
	for i := range raw {
		tk := &raw[i]
		if tk.Class == tokenizer.DUMMY {
			continue
		}
		pos := tk.POS()
		if len(pos) == 0 {
			continue
		}
		tag := pos[0]
		if functional(tag) {
			continue
		}
		lemma, ok := tk.BaseForm()
		if !ok || lemma == "" || lemma == "*" {
			lemma = tk.Surface
		}
		if lemma == "" {
			continue
		}
		out = append(out, Token{Surface: tk.Surface, Lemma: lemma, POS: categoryOf(tag)})
	}
	return out
}

func segmentationMode(name string) (tokenizer.TokenizeMode, error) {
	switch name {
	case "", ModeNormal:
		return tokenizer.Normal, nil
	case ModeSearch:
		return tokenizer.Search, nil
	case ModeExtended:
		return tokenizer.Extended, nil
	default:
		return 0, fmt.Errorf("morph: unknown segmentation mode %q (expected %q, %q, or %q)",
			name, ModeNormal, ModeSearch, ModeExtended)
	}
}
