package site2pdf

import "errors"

// Sentinel errors for library operations.
var (
	// Crawl spec validation errors.
	ErrInvalidSeedURL      = errors.New("invalid seed URL")
	ErrInvalidMaxDepth     = errors.New("max depth must be >= 0")
	ErrInvalidMaxPages     = errors.New("max pages must be >= 1")
	ErrSeedPatternMismatch = errors.New("seed URL does not contain the URL pattern")

	// Discovery errors.
	ErrSeedUnreachable  = errors.New("seed URL unreachable")
	ErrDiscoveryAborted = errors.New("discovery aborted after consecutive fetch failures")

	// Browser errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrRenderTimeout  = errors.New("page render timed out")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Assembly errors.
	ErrNothingToAssemble = errors.New("no documents to assemble")
	ErrCoverRender       = errors.New("cover template rendering failed")
	ErrTOCRender         = errors.New("table of contents rendering failed")
	ErrMerge             = errors.New("PDF merge failed")
	ErrOutlineWrite      = errors.New("bookmark outline write failed")
)
