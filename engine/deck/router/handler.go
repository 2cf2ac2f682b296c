// Package deckrouter exposes deck generation over HTTP. One multipart
// request carries the document and the three reference datasets; the
// response body is the finished spreadsheet.
package deckrouter

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	deckuc "github.com/ankigen/ankigen/engine/deck/uc"
	"github.com/ankigen/ankigen/engine/export"
	"github.com/ankigen/ankigen/engine/jlpt"
	"github.com/ankigen/ankigen/engine/pdftext"
	"github.com/ankigen/ankigen/engine/refdata"
	"github.com/ankigen/ankigen/pkg/logger"
)

// datasetParts names the required dataset form parts in load order.
var datasetParts = [3]string{"jlpt", "frequency", "meaning"}

// Defaults fill the optional form fields a request leaves out.
type Defaults struct {
	MinLevel jlpt.Level
	Format   export.Format
	Sheet    string
}

// Handler serves deck generation requests over a shared use case. The
// underlying analyzer and reader are reentrant, so one Handler serves
// concurrent requests.
type Handler struct {
	gen      *deckuc.Generate
	defaults Defaults
}

// NewHandler builds a Handler over the shared generation use case.
func NewHandler(gen *deckuc.Generate, defaults Defaults) *Handler {
	return &Handler{gen: gen, defaults: defaults}
}

// generateDeck handles POST /decks. The multipart form carries the
// file parts pdf, jlpt, frequency, and meaning, plus the optional
// fields min_level and format. Success streams the spreadsheet as an
// attachment; failures respond with a problem JSON body.
func (h *Handler) generateDeck(c *gin.Context) {
	ctx := c.Request.Context()
	pdf, size, ok := h.openPDF(c)
	if !ok {
		return
	}
	defer pdf.Close()
	refs, closeRefs, ok := h.loadRefs(c)
	if !ok {
		return
	}
	defer closeRefs()
	minLevel, ok := h.minLevel(c)
	if !ok {
		return
	}
	format, ok := h.format(c)
	if !ok {
		return
	}
	doc, err := pdftext.OpenReader(pdf, size)
	if err != nil {
		respondError(c, http.StatusBadRequest, "could not read the uploaded PDF", err)
		return
	}
	recordUpload(ctx, size)
	out, err := h.gen.Execute(ctx, &deckuc.GenerateInput{
		Source:   doc,
		Refs:     refs,
		MinLevel: minLevel,
		Format:   format,
		Sheet:    h.defaults.Sheet,
	})
	if err != nil {
		recordFailure(ctx)
		respondError(c, http.StatusInternalServerError, "deck generation failed", err)
		return
	}
	recordGenerated(ctx, string(format))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

// openPDF pulls the pdf part out of the form and verifies it actually
// is one. The returned file is positioned at the start.
func (h *Handler) openPDF(c *gin.Context) (multipart.File, int64, bool) {
	f, header, err := c.Request.FormFile("pdf")
	if err != nil {
		status, msg := http.StatusBadRequest, "pdf file is required"
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
			msg = fmt.Sprintf("upload exceeds the %d byte limit", maxErr.Limit)
		}
		respondError(c, status, msg, err)
		return nil, 0, false
	}
	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		respondError(c, http.StatusBadRequest, "could not inspect the uploaded file", err)
		return nil, 0, false
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		respondError(c, http.StatusInternalServerError, "could not rewind the uploaded file", err)
		return nil, 0, false
	}
	if !mtype.Is("application/pdf") {
		f.Close()
		respondError(c, http.StatusBadRequest, fmt.Sprintf("expected a PDF upload, got %s", mtype.String()), nil)
		return nil, 0, false
	}
	return f, header.Size, true
}

// loadRefs reads the three dataset parts into a reference set. The
// returned closer releases the form files once the run is done.
func (h *Handler) loadRefs(c *gin.Context) (*refdata.Set, func(), bool) {
	files := make([]multipart.File, 0, len(datasetParts))
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	for _, name := range datasetParts {
		f, _, err := c.Request.FormFile(name)
		if err != nil {
			closeAll()
			respondError(c, http.StatusBadRequest, fmt.Sprintf("%s dataset file is required", name), err)
			return nil, nil, false
		}
		files = append(files, f)
	}
	refs, err := refdata.LoadSetReaders(files[0], files[1], files[2])
	if err != nil {
		closeAll()
		respondError(c, http.StatusBadRequest, "could not parse a reference dataset", err)
		return nil, nil, false
	}
	return refs, closeAll, true
}

func (h *Handler) minLevel(c *gin.Context) (jlpt.Level, bool) {
	raw := c.PostForm("min_level")
	if raw == "" {
		return h.defaults.MinLevel, true
	}
	level, err := jlpt.Parse(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid min_level %q", raw), err)
		return "", false
	}
	return level, true
}

func (h *Handler) format(c *gin.Context) (export.Format, bool) {
	raw := c.PostForm("format")
	if raw == "" {
		return h.defaults.Format, true
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid format %q", raw), err)
		return "", false
	}
	return format, true
}

// respondError emits the problem shape shared by every failure path.
func respondError(c *gin.Context, status int, msg string, err error) {
	details := ""
	if err != nil {
		details = err.Error()
	}
	log := logger.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error("deck request failed", "status", status, "error", msg, "details", details)
	} else {
		log.Warn("deck request rejected", "status", status, "error", msg, "details", details)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "details": details})
}
