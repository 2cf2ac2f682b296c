// Package pdftext exposes the per-page plain text of PDF documents.
package pdftext

import (
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"
)

// Document is an open PDF. It satisfies the pipeline's page source:
// 0-based page indexes, text per page, errors only for pages the parser
// cannot decode.
type Document struct {
	f *os.File // nil when the document was opened from a reader
	r *pdf.Reader
}

// Open maps the PDF at path into a Document. Callers own the returned
// Document and must Close it.
func Open(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdftext: open %s: %w", path, err)
	}
	return &Document{f: f, r: r}, nil
}

// OpenReader builds a Document from an already materialized PDF body,
// such as an uploaded file.
func OpenReader(ra io.ReaderAt, size int64) (*Document, error) {
	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("pdftext: read pdf: %w", err)
	}
	return &Document{r: r}, nil
}

// NumPages returns the page count.
func (d *Document) NumPages() int { return d.r.NumPage() }

// PageText extracts the plain text of page i. Image-only pages return
// "" without error; pages the parser cannot decode return an error the
// caller may treat as a skip.
func (d *Document) PageText(i int) (text string, err error) {
	// The parser panics on some malformed content streams; turn that
	// into a per-page error instead of taking the process down.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdftext: page %d: %v", i+1, r)
		}
	}()
	p := d.r.Page(i + 1)
	if p.V.IsNull() {
		return "", nil
	}
	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("pdftext: page %d: %w", i+1, err)
	}
	return text, nil
}

// Close releases the underlying file when the Document owns one.
func (d *Document) Close() error {
	if d.f == nil {
		return nil
	}
	return d.f.Close()
}
