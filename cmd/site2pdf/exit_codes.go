package main

import (
	"errors"
	"os"

	site2pdf "github.com/alnah/go-site2pdf"
	"github.com/alnah/go-site2pdf/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoSeedURL      = errors.New("no seed URL specified")
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// Exit codes for site2pdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Document produced
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or crawl bounds
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, site2pdf.ErrBrowserConnect) ||
		errors.Is(err, site2pdf.ErrPageCreate) ||
		errors.Is(err, site2pdf.ErrPageLoad) ||
		errors.Is(err, site2pdf.ErrRenderTimeout) ||
		errors.Is(err, site2pdf.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, site2pdf.ErrInvalidSeedURL) ||
		errors.Is(err, site2pdf.ErrInvalidMaxDepth) ||
		errors.Is(err, site2pdf.ErrInvalidMaxPages) ||
		errors.Is(err, site2pdf.ErrSeedPatternMismatch) ||
		errors.Is(err, ErrNoSeedURL) ||
		errors.Is(err, ErrInvalidTimeout) {
		return ExitUsage
	}

	return ExitGeneral
}
