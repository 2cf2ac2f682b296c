// Package vocab folds token streams into a deduplicated vocabulary.
package vocab

import "github.com/ankigen/ankigen/engine/morph"

// Entry is one distinct dictionary form observed in a document.
type Entry struct {
	Lemma string
	// POS is fixed by the lemma's first occurrence; later occurrences
	// never change it.
	POS morph.Category
	// Count is how many tokens resolved to this lemma.
	Count int
}

// Aggregator accumulates entries across pages. It remembers the order
// in which each lemma first appeared, so a run over the same document
// always hands downstream ranking the same input order.
type Aggregator struct {
	index   map[string]*Entry
	entries []*Entry
	total   int
}

func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[string]*Entry)}
}

// Fold merges one page's tokens into the running vocabulary.
func (a *Aggregator) Fold(tokens []morph.Token) {
	for i := range tokens {
		tk := &tokens[i]
		a.total++
		if e, ok := a.index[tk.Lemma]; ok {
			e.Count++
			continue
		}
		e := &Entry{Lemma: tk.Lemma, POS: tk.POS, Count: 1}
		a.index[tk.Lemma] = e
		a.entries = append(a.entries, e)
	}
}

// Entries returns the vocabulary in first-seen order. The slice is
// owned by the aggregator; callers must not fold afterwards.
func (a *Aggregator) Entries() []*Entry { return a.entries }

// Total returns how many tokens have been folded. It always equals the
// sum of all entry counts.
func (a *Aggregator) Total() int { return a.total }

// Len returns the number of distinct lemmas folded so far.
func (a *Aggregator) Len() int { return len(a.entries) }
