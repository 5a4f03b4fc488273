package site2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-site2pdf/internal/fileutil"
	"github.com/alnah/go-site2pdf/internal/urlutil"
)

// individualSubdir holds retained per-page PDFs when organizing is enabled.
const individualSubdir = "individual_pdfs"

// Filenames for the synthesized documents when retained individually.
const (
	coverFilename = "_cover.pdf"
	tocFilename   = "_index.pdf"
)

// Service orchestrates the crawl-render-assemble pipeline.
type Service struct {
	cfg         serviceConfig
	logger      *log.Logger
	renderer    pageRenderer        // discovery and synthesized documents
	newRenderer func() pageRenderer // pool worker factory
	engine      pdfEngine
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithWorkers).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout:                defaultTimeout,
			maxConsecutiveFailures: defaultConsecutiveFailures,
		},
		logger: log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create renderer and engine if not injected (e.g., by tests)
	if s.renderer == nil {
		s.renderer = newRodRenderer(s.cfg.timeout)
	}
	if s.newRenderer == nil {
		timeout := s.cfg.timeout
		s.newRenderer = func() pageRenderer { return newRodRenderer(timeout) }
	}
	if s.engine == nil {
		s.engine = newPDFCPUEngine()
	}

	return s
}

// Run executes a full job: discover pages, render each to PDF, assemble the
// merged document, and write output files. Assembly starts only after
// discovery completes because the table of contents layout needs the full
// entry list. A discovery abort after consecutive fetch failures is not
// fatal: the pages collected before it are assembled and the abort is
// reported on Result.Aborted.
func (s *Service) Run(ctx context.Context, job Job) (*Result, error) {
	pages, report, err := s.Discover(ctx, job.Crawl)

	// An early abort is recoverable: the pages collected before it still
	// get rendered and assembled, and the abort surfaces on the result.
	var aborted error
	if err != nil {
		if !errors.Is(err, ErrDiscoveryAborted) || len(pages) == 0 {
			return nil, err
		}
		aborted = err
		s.logger.Warn("assembling pages collected before the abort",
			"pages", len(pages), "err", err)
	}
	if len(pages) == 0 {
		return nil, ErrNothingToAssemble
	}

	docs := s.renderAll(ctx, pages, report)

	assembler := &Assembler{renderer: s.renderer, engine: s.engine, logger: s.logger}
	assembly, err := assembler.Assemble(ctx, docs, AssembleOptions{
		CoverTitle:    job.DocumentTitle,
		CoverSubtitle: job.CoverSubtitle,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{
		Pages:   pages,
		Report:  report,
		Skipped: assembly.Skipped,
		Aborted: aborted,
	}
	if err := s.writeOutputs(job, docs, assembly, result); err != nil {
		return nil, err
	}

	return result, nil
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.renderer != nil {
		return s.renderer.Close()
	}
	return nil
}

// renderAll materializes each discovered page's PDF through a bounded
// renderer pool. Output order follows the visitation sequence regardless of
// render completion timing; failed renders are dropped with a recorded
// warning. In-flight renders finish rather than being hard-aborted so no
// partial PDF bytes leak into assembly.
func (s *Service) renderAll(ctx context.Context, pages []DiscoveredPage, report *CrawlReport) []PageDocument {
	workers := ResolvePoolSize(s.cfg.workers)
	pool := newRendererPool(workers, s.newRenderer)
	defer func() {
		if err := pool.close(); err != nil {
			s.logger.Warn("closing renderer pool", "err", err)
		}
	}()

	rendered := make([]*PageDocument, len(pages))

	var reportMu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, page := range pages {
		g.Go(func() error {
			r := pool.acquire()
			defer pool.release(r)

			pdf, err := r.RenderPDF(ctx, page.URL)
			if err != nil {
				reportMu.Lock()
				report.RenderFailures++
				report.addSample(fmt.Sprintf("render %s: %v", page.URL, err))
				reportMu.Unlock()
				s.logger.Warn("render failed", "url", page.URL, "err", err)
				return nil
			}

			rendered[i] = &PageDocument{
				Title: page.Title,
				Depth: page.Depth,
				Slug:  pageSlug(page),
				PDF:   pdf,
			}
			s.logger.Info("rendered", "url", page.URL, "bytes", len(pdf))
			return nil
		})
	}
	_ = g.Wait() // workers never return errors, failures are recorded above

	docs := make([]PageDocument, 0, len(pages))
	for _, doc := range rendered {
		if doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs
}

// pageSlug builds a stable per-page filename stem: visitation index, section
// segment, slugged title, and a short URL digest for uniqueness.
func pageSlug(page DiscoveredPage) string {
	section := urlutil.ParentPathSegment(page.URL)
	stem := urlutil.Slugify(page.Title)
	if section != "" {
		stem = urlutil.Slugify(section) + "-" + stem
	}
	return fmt.Sprintf("%04d-%s-%s", page.Seq+1, stem, urlutil.Digest(page.URL))
}

// writeOutputs persists the merged PDF and, when enabled, the individual
// documents including the synthesized cover and table of contents.
func (s *Service) writeOutputs(job Job, docs []PageDocument, assembly *AssemblyResult, result *Result) error {
	if err := fileutil.EnsureDir(job.OutputDir); err != nil {
		return err
	}

	mergedName := sanitizeTitleForFilename(job.DocumentTitle) + " Complete.pdf"
	result.MergedPath = filepath.Join(job.OutputDir, mergedName)

	if err := os.WriteFile(result.MergedPath, assembly.Merged, fileutil.FilePermissions); err != nil {
		return fmt.Errorf("writing merged PDF: %w", err)
	}
	s.logger.Info("wrote merged document", "path", result.MergedPath, "bytes", len(assembly.Merged))

	if !job.KeepIndividual {
		return nil
	}

	individualDir := job.OutputDir
	if job.Organize {
		individualDir = filepath.Join(job.OutputDir, individualSubdir)
		if err := fileutil.EnsureDir(individualDir); err != nil {
			return err
		}
	}
	result.IndividualDir = individualDir

	files := map[string][]byte{
		coverFilename: assembly.Cover,
		tocFilename:   assembly.TOC,
	}
	for _, doc := range docs {
		files[doc.Slug+".pdf"] = doc.PDF
	}

	for name, content := range files {
		path := filepath.Join(individualDir, name)
		if err := os.WriteFile(path, content, fileutil.FilePermissions); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	s.logger.Info("wrote individual documents", "dir", individualDir, "count", len(files))

	return nil
}

// sanitizeTitleForFilename strips characters unsafe in filenames while
// preserving spaces, so "API Guide" becomes "API Guide Complete.pdf".
func sanitizeTitleForFilename(title string) string {
	var b []rune
	for _, r := range title {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '\x00':
			b = append(b, ' ')
		default:
			b = append(b, r)
		}
	}
	return trimCollapse(string(b))
}

// trimCollapse collapses interior whitespace runs and trims the ends.
func trimCollapse(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			space = true
			continue
		}
		if space && len(out) > 0 {
			out = append(out, ' ')
		}
		space = false
		out = append(out, r)
	}
	return string(out)
}
