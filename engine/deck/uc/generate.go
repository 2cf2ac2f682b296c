// Package uc implements the deck generation use case shared by the CLI
// and the HTTP API.
package uc

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ankigen/ankigen/engine/enrich"
	"github.com/ankigen/ankigen/engine/export"
	"github.com/ankigen/ankigen/engine/jlpt"
	"github.com/ankigen/ankigen/engine/pipeline"
	"github.com/ankigen/ankigen/engine/refdata"
	"github.com/ankigen/ankigen/pkg/logger"
)

// GenerateInput carries one run's document, datasets, and output shape.
type GenerateInput struct {
	// Source is the opened document. The caller keeps ownership and
	// closes it after Execute returns.
	Source pipeline.Source
	// Refs holds the reference datasets loaded for this run.
	Refs *refdata.Set
	// MinLevel is the difficulty cutoff; empty selects the default.
	MinLevel jlpt.Level
	// Format selects the artifact encoding; empty selects XLSX.
	Format export.Format
	// Sheet names the worksheet for XLSX output; empty selects the
	// default.
	Sheet string
	// BaseName is the artifact filename without extension; empty
	// selects the default.
	BaseName string
	// OnPage, when set, is invoked after each processed page.
	OnPage func(page, total int)
}

// GenerateOutput is the finished artifact plus the run statistics.
type GenerateOutput struct {
	Data        []byte
	Filename    string
	ContentType string
	Result      *pipeline.Result
}

// Generate runs the extraction pipeline over one document and encodes
// the ranked deck. The analyzer and reader are expensive to build and
// shared across runs; everything else arrives per call.
type Generate struct {
	analyzer pipeline.Analyzer
	reader   enrich.Reader
}

// NewGenerate builds the use case over its long-lived collaborators.
func NewGenerate(analyzer pipeline.Analyzer, reader enrich.Reader) *Generate {
	return &Generate{analyzer: analyzer, reader: reader}
}

// Execute runs one document end to end and returns the encoded deck.
// Nothing is emitted on error, so callers never see a partial artifact.
func (uc *Generate) Execute(ctx context.Context, input *GenerateInput) (*GenerateOutput, error) {
	if input == nil || input.Source == nil {
		return nil, ErrMissingSource
	}
	if input.Refs == nil {
		return nil, ErrMissingRefs
	}
	format, err := export.ParseFormat(string(input.Format))
	if err != nil {
		return nil, err
	}
	joiner, err := enrich.NewJoiner(input.Refs, uc.reader, input.MinLevel)
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(uc.analyzer, joiner, pipeline.Options{OnPage: input.OnPage})
	if err != nil {
		return nil, err
	}
	res, err := p.Run(ctx, input.Source)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, format, input.Sheet, res.Cards); err != nil {
		return nil, fmt.Errorf("encode deck: %w", err)
	}
	logger.FromContext(ctx).Debug("deck encoded",
		"format", format,
		"cards", len(res.Cards),
		"bytes", buf.Len(),
	)
	return &GenerateOutput{
		Data:        buf.Bytes(),
		Filename:    format.FileName(input.BaseName),
		ContentType: format.ContentType(),
		Result:      res,
	}, nil
}
