// Package enrich joins aggregated vocabulary against the reference
// datasets and applies the study-level cutoff.
package enrich

import (
	"errors"
	"fmt"

	"github.com/ankigen/ankigen/engine/deck"
	"github.com/ankigen/ankigen/engine/jlpt"
	"github.com/ankigen/ankigen/engine/refdata"
	"github.com/ankigen/ankigen/engine/vocab"
)

// Reader derives the reading fields of a card front.
type Reader interface {
	Reading(word string) string
	Furigana(word, reading string) string
}

// Joiner decorates vocabulary entries into cards. Lookups that miss
// leave their column empty; they never fail an entry.
type Joiner struct {
	refs    *refdata.Set
	reader  Reader
	maxRank int
}

// NewJoiner builds a Joiner. min is the most advanced level to keep,
// inclusive; the zero value selects the default cutoff.
func NewJoiner(refs *refdata.Set, reader Reader, min jlpt.Level) (*Joiner, error) {
	if refs == nil {
		return nil, errors.New("enrich: reference data is required")
	}
	if reader == nil {
		return nil, errors.New("enrich: reading generator is required")
	}
	if min == "" {
		min = jlpt.DefaultMinLevel
	}
	maxRank, ok := jlpt.Rank(min)
	if !ok {
		return nil, fmt.Errorf("enrich: invalid level cutoff %q", min)
	}
	return &Joiner{refs: refs, reader: reader, maxRank: maxRank}, nil
}

// Enrich joins entries against the datasets, keeping input order.
// Entries graded more advanced than the cutoff are dropped; entries the
// JLPT dataset does not grade, or grades with a value outside the
// official scale, always survive with the value carried verbatim.
// Readings are only derived for survivors.
func (j *Joiner) Enrich(entries []*vocab.Entry) []deck.Card {
	cards := make([]deck.Card, 0, len(entries))
	for _, e := range entries {
		level := j.refs.JLPT.Lookup(e.Lemma)
		if r, ok := jlpt.Rank(jlpt.Level(level)); ok && r > j.maxRank {
			continue
		}
		r := j.reader.Reading(e.Lemma)
		cards = append(cards, deck.Card{
			Front:           e.Lemma,
			Reading:         r,
			Furigana:        j.reader.Furigana(e.Lemma, r),
			POS:             string(e.POS),
			MeaningEN:       j.refs.Meaning.Lookup(e.Lemma),
			JLPT:            level,
			FrequencyPDF:    e.Count,
			FrequencyGlobal: j.refs.Frequency.Lookup(e.Lemma),
		})
	}
	return cards
}
