package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankigen/ankigen/engine/morph"
)

func tok(lemma string, pos morph.Category) morph.Token {
	return morph.Token{Surface: lemma, Lemma: lemma, POS: pos}
}

func TestAggregator_Fold(t *testing.T) {
	t.Run("Should count repeats and keep first-seen part of speech", func(t *testing.T) {
		a := NewAggregator()
		a.Fold([]morph.Token{
			tok("走る", morph.Verb),
			tok("犬", morph.Noun),
			{Surface: "走り", Lemma: "走る", POS: morph.Noun}, // later sighting with another tag
		})
		entries := a.Entries()
		require.Len(t, entries, 2)
		assert.Equal(t, "走る", entries[0].Lemma)
		assert.Equal(t, 2, entries[0].Count)
		assert.Equal(t, morph.Verb, entries[0].POS, "first occurrence fixes the tag")
		assert.Equal(t, "犬", entries[1].Lemma)
		assert.Equal(t, 1, entries[1].Count)
	})
	t.Run("Should keep first-seen order across pages", func(t *testing.T) {
		a := NewAggregator()
		a.Fold([]morph.Token{tok("三", morph.Noun), tok("一", morph.Noun)})
		a.Fold([]morph.Token{tok("二", morph.Noun), tok("一", morph.Noun)})
		entries := a.Entries()
		require.Len(t, entries, 3)
		assert.Equal(t, "三", entries[0].Lemma)
		assert.Equal(t, "一", entries[1].Lemma)
		assert.Equal(t, "二", entries[2].Lemma)
	})
	t.Run("Should keep the token total equal to the sum of counts", func(t *testing.T) {
		a := NewAggregator()
		a.Fold([]morph.Token{tok("本", morph.Noun), tok("本", morph.Noun), tok("読む", morph.Verb)})
		a.Fold([]morph.Token{tok("本", morph.Noun)})
		sum := 0
		for _, e := range a.Entries() {
			sum += e.Count
		}
		assert.Equal(t, a.Total(), sum)
		assert.Equal(t, 4, a.Total())
		assert.Equal(t, 2, a.Len())
	})
	t.Run("Should stay empty when nothing is folded", func(t *testing.T) {
		a := NewAggregator()
		a.Fold(nil)
		assert.Empty(t, a.Entries())
		assert.Zero(t, a.Total())
	})
}
