package site2pdf

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// pdfEngine abstracts PDF manipulation so assembly can be tested with
// synthetic documents instead of real PDF bytes.
type pdfEngine interface {
	PageCount(pdf []byte) (int, error)
	Validate(pdf []byte) error
	Merge(docs [][]byte) ([]byte, error)
	AddOutline(pdf []byte, outline []OutlineEntry) ([]byte, error)
}

// Compile-time interface check.
var _ pdfEngine = (*pdfcpuEngine)(nil)

// pdfcpuEngine implements pdfEngine on pdfcpu, operating on in-memory
// documents throughout.
type pdfcpuEngine struct {
	conf *model.Configuration
}

func newPDFCPUEngine() *pdfcpuEngine {
	conf := model.NewDefaultConfiguration()
	// Chrome's print-to-PDF output trips strict validation on some sites.
	conf.ValidationMode = model.ValidationRelaxed
	return &pdfcpuEngine{conf: conf}
}

// PageCount returns the number of pages in a PDF document.
func (e *pdfcpuEngine) PageCount(pdf []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(pdf), e.conf)
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return count, nil
}

// Validate reports whether the document is mergeable.
func (e *pdfcpuEngine) Validate(pdf []byte) error {
	return api.Validate(bytes.NewReader(pdf), e.conf)
}

// Merge concatenates documents into a single page stream, in order.
func (e *pdfcpuEngine) Merge(docs [][]byte) ([]byte, error) {
	readers := make([]io.ReadSeeker, len(docs))
	for i, doc := range docs {
		readers[i] = bytes.NewReader(doc)
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, e.conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMerge, err)
	}
	return buf.Bytes(), nil
}

// AddOutline writes the bookmark outline tree into the document.
func (e *pdfcpuEngine) AddOutline(pdf []byte, outline []OutlineEntry) ([]byte, error) {
	if len(outline) == 0 {
		return pdf, nil
	}

	var buf bytes.Buffer
	if err := api.AddBookmarks(bytes.NewReader(pdf), &buf, toBookmarks(outline), true, e.conf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutlineWrite, err)
	}
	return buf.Bytes(), nil
}

// toBookmarks converts the outline tree into pdfcpu's bookmark type.
func toBookmarks(outline []OutlineEntry) []pdfcpu.Bookmark {
	bookmarks := make([]pdfcpu.Bookmark, len(outline))
	for i, entry := range outline {
		bookmarks[i] = pdfcpu.Bookmark{
			Title:    entry.Title,
			PageFrom: entry.Page,
			PageThru: entry.EndPage,
			Kids:     toBookmarks(entry.Children),
		}
	}
	return bookmarks
}
