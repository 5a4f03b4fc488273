package site2pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-site2pdf/internal/assets"
	"github.com/alnah/go-site2pdf/internal/fileutil"
)

// pageRenderer abstracts the browser so discovery and assembly can be tested
// without one. Fetch serves discovery, RenderPDF materializes a crawled page,
// RenderHTML prints synthesized documents (cover, table of contents).
type pageRenderer interface {
	Fetch(ctx context.Context, pageURL string) (*PageContent, error)
	RenderPDF(ctx context.Context, pageURL string) ([]byte, error)
	RenderHTML(ctx context.Context, htmlContent string) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pageRenderer = (*rodRenderer)(nil)

// PDF page dimensions in inches (A4).
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	contentMargin     = 0.4 // crawled pages
	synthesizedMargin = 0.0 // cover and TOC fill the page edge to edge
)

// breakAvoidScript wraps images and figures so Chrome's print layout never
// splits them across a page boundary, and pushes trailing resource sections
// onto their own page.
const breakAvoidScript = `() => {
	const avoid = (el) => {
		el.style.pageBreakInside = 'avoid';
		el.style.breakInside = 'avoid';
	};
	document.querySelectorAll('img, svg, [role="img"], figure, pre, table').forEach(avoid);
	document.querySelectorAll('[class*="figure"], [class*="image"], .graphics-container').forEach(avoid);

	const headings = Array.from(document.querySelectorAll('h1, h2, h3, h4, h5, h6'));
	const resources = headings.find(h => {
		const t = h.textContent.toLowerCase();
		return t.includes('resource') || t.includes('related') || t.includes('see also');
	});
	if (resources) {
		resources.style.pageBreakBefore = 'always';
		resources.style.breakBefore = 'page';
	}
}`

// rodRenderer implements pageRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser *rod.Browser
	timeout time.Duration
}

// newRodRenderer creates a rodRenderer with the given per-page timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// Fetch navigates to a URL and extracts title, body text, and outbound links.
func (r *rodRenderer) Fetch(ctx context.Context, pageURL string) (*PageContent, error) {
	page, err := r.openPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	htmlContent, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("%w: reading page HTML: %v", ErrPageLoad, err)
	}

	return parsePage(htmlContent)
}

// RenderPDF navigates to a URL and prints it to PDF bytes, after applying
// print-layout hints that keep images and figures on a single page.
func (r *rodRenderer) RenderPDF(ctx context.Context, pageURL string) ([]byte, error) {
	page, err := r.openPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	// Best-effort: a page that rejects the script still renders.
	if _, err := page.Eval(breakAvoidScript); err == nil {
		if css, loadErr := assets.LoadStyle("print"); loadErr == nil {
			_, _ = page.Eval(`(css) => {
				const style = document.createElement('style');
				style.textContent = css;
				document.head.appendChild(style);
			}`, css)
		}
	}

	return r.printToPDF(page, contentMargin)
}

// RenderHTML prints synthesized HTML content (cover, table of contents) to
// PDF bytes via a temp file, the same path crawled pages take.
func (r *rodRenderer) RenderHTML(ctx context.Context, htmlContent string) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := r.openPage(ctx, "file://"+tmpPath)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	return r.printToPDF(page, synthesizedMargin)
}

// openPage creates a browser page, navigates, and waits for load within the
// context deadline or the renderer timeout, whichever is sooner.
func (r *rodRenderer) openPage(ctx context.Context, pageURL string) (*rod.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: pageURL})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			page.Close()
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		page.Close()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", ErrRenderTimeout, pageURL)
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		page.Close()
		return nil, err
	}

	return page, nil
}

// printToPDF runs Chrome's print-to-PDF with A4 paper and the given margin.
func (r *rodRenderer) printToPDF(page *rod.Page, margin float64) ([]byte, error) {
	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(margin),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
