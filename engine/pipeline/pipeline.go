// Package pipeline orchestrates a full extraction run: page text,
// cleanup, tokenization, vocabulary folding, enrichment, and ranking.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ankigen/ankigen/engine/deck"
	"github.com/ankigen/ankigen/engine/enrich"
	"github.com/ankigen/ankigen/engine/morph"
	"github.com/ankigen/ankigen/engine/textnorm"
	"github.com/ankigen/ankigen/engine/vocab"
	"github.com/ankigen/ankigen/pkg/logger"
)

// Source yields the pages of one document. Page indexes are 0-based and
// contiguous.
type Source interface {
	NumPages() int
	PageText(i int) (string, error)
}

// Analyzer segments cleaned text into vocabulary tokens.
type Analyzer interface {
	Analyze(text string) []morph.Token
}

// Options tune a single run.
type Options struct {
	// OnPage, when set, is invoked after each page has been folded.
	OnPage func(page, total int)
}

// Result summarizes a completed run.
type Result struct {
	Cards        []deck.Card
	Pages        int
	PagesSkipped int
	Tokens       int
	UniqueLemmas int
	Duration     time.Duration
}

// Pipeline drives one document through the extraction flow. The same
// Pipeline can run many documents; each run folds into fresh state.
type Pipeline struct {
	analyzer Analyzer
	joiner   *enrich.Joiner
	opts     Options
}

// New builds a Pipeline over its collaborators.
func New(analyzer Analyzer, joiner *enrich.Joiner, opts Options) (*Pipeline, error) {
	if analyzer == nil {
		return nil, errors.New("pipeline: analyzer is required")
	}
	if joiner == nil {
		return nil, errors.New("pipeline: joiner is required")
	}
	return &Pipeline{analyzer: analyzer, joiner: joiner, opts: opts}, nil
}

// Run processes every page of src in order and returns the ranked deck.
// Pages that error or yield no text are skipped and counted, never
// fatal. The fold is shared state, so pages run strictly sequentially;
// a canceled context aborts between pages.
func (p *Pipeline) Run(ctx context.Context, src Source) (*Result, error) {
	if src == nil {
		return nil, errors.New("pipeline: source is required")
	}
	log := logger.FromContext(ctx)
	start := time.Now()
	agg := vocab.NewAggregator()
	total := src.NumPages()
	skipped := 0
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline: canceled at page %d/%d: %w", i+1, total, err)
		}
		text, err := src.PageText(i)
		if err != nil {
			log.Debug("skipping unreadable page", "page", i+1, "error", err)
			skipped++
			continue
		}
		cleaned := textnorm.Clean(text)
		if cleaned == "" {
			log.Debug("skipping page without extractable text", "page", i+1)
			skipped++
			continue
		}
		agg.Fold(p.analyzer.Analyze(cleaned))
		if p.opts.OnPage != nil {
			p.opts.OnPage(i+1, total)
		}
	}
	cards := p.joiner.Enrich(agg.Entries())
	deck.Sort(cards)
	res := &Result{
		Cards:        cards,
		Pages:        total,
		PagesSkipped: skipped,
		Tokens:       agg.Total(),
		UniqueLemmas: agg.Len(),
		Duration:     time.Since(start),
	}
	recordRun(ctx, res)
	log.Info("extraction run complete",
		"pages", res.Pages,
		"pages_skipped", res.PagesSkipped,
		"tokens", res.Tokens,
		"unique_lemmas", res.UniqueLemmas,
		"cards", len(res.Cards),
		"duration", res.Duration,
	)
	return res, nil
}
