package site2pdf

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// fakePage is one page served by the fake renderer.
type fakePage struct {
	title string
	body  string
	links []string
	err   error
}

// fakeRenderer serves canned pages keyed by normalized URL. RenderHTML
// returns synthetic documents from htmlQueue in order, falling back to a
// single-page document when the queue is exhausted.
type fakeRenderer struct {
	mu        sync.Mutex
	site      map[string]fakePage
	renderPDF map[string][]byte // URL -> synthetic PDF, nil entry means error
	htmlQueue [][]byte
	fetched   []string
	closed    bool
}

func newFakeRenderer(site map[string]fakePage) *fakeRenderer {
	return &fakeRenderer{site: site}
}

func (r *fakeRenderer) Fetch(_ context.Context, pageURL string) (*PageContent, error) {
	r.mu.Lock()
	r.fetched = append(r.fetched, pageURL)
	r.mu.Unlock()

	page, ok := r.site[pageURL]
	if !ok {
		return nil, fmt.Errorf("no such page: %s", pageURL)
	}
	if page.err != nil {
		return nil, page.err
	}
	return &PageContent{Title: page.title, BodyText: page.body, Links: page.links}, nil
}

func (r *fakeRenderer) RenderPDF(_ context.Context, pageURL string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	pdf, ok := r.renderPDF[pageURL]
	if !ok {
		return fakePDF(1), nil
	}
	if pdf == nil {
		return nil, fmt.Errorf("render error: %s", pageURL)
	}
	return pdf, nil
}

func (r *fakeRenderer) RenderHTML(_ context.Context, _ string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.htmlQueue) == 0 {
		return fakePDF(1), nil
	}
	pdf := r.htmlQueue[0]
	r.htmlQueue = r.htmlQueue[1:]
	return pdf, nil
}

func (r *fakeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// fakePDF builds a synthetic document whose first byte encodes its page
// count, matching fakeEngine's conventions.
func fakePDF(pages int) []byte {
	return []byte{byte(pages), 'P', 'D', 'F'}
}

// corruptPDF builds a document fakeEngine refuses to validate.
func corruptPDF() []byte {
	return []byte{0, 'B', 'A', 'D'}
}

// fakeEngine implements pdfEngine on the synthetic document convention:
// first byte is the page count, zero means corrupt.
type fakeEngine struct {
	mu      sync.Mutex
	merged  [][]byte       // inputs of the last Merge call
	outline []OutlineEntry // outline of the last AddOutline call
}

func (e *fakeEngine) PageCount(pdf []byte) (int, error) {
	if len(pdf) == 0 || pdf[0] == 0 {
		return 0, fmt.Errorf("not a document")
	}
	return int(pdf[0]), nil
}

func (e *fakeEngine) Validate(pdf []byte) error {
	if len(pdf) == 0 || pdf[0] == 0 {
		return fmt.Errorf("not a document")
	}
	return nil
}

func (e *fakeEngine) Merge(docs [][]byte) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.merged = docs

	total := 0
	var out []byte
	for _, doc := range docs {
		total += int(doc[0])
		out = append(out, doc...)
	}
	return append([]byte{byte(total)}, out...), nil
}

func (e *fakeEngine) AddOutline(pdf []byte, outline []OutlineEntry) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.outline = outline
	return pdf, nil
}

// newTestService builds a Service wired to fakes, bypassing New so no
// browser or real PDF engine is touched.
func newTestService(renderer *fakeRenderer, engine pdfEngine) *Service {
	return &Service{
		cfg: serviceConfig{
			timeout:                defaultTimeout,
			workers:                1,
			maxConsecutiveFailures: defaultConsecutiveFailures,
		},
		logger:      log.New(io.Discard),
		renderer:    renderer,
		newRenderer: func() pageRenderer { return renderer },
		engine:      engine,
	}
}
