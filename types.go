package site2pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-site2pdf/internal/urlutil"
)

// PageStatus describes the terminal state of a discovered URL.
type PageStatus string

// Page statuses.
const (
	StatusPending   PageStatus = "pending"
	StatusVisited   PageStatus = "visited"
	StatusRejected  PageStatus = "rejected"
	StatusDuplicate PageStatus = "duplicate"
)

// Rejection reasons recorded on pages that never make it into the output.
const (
	ReasonPatternMismatch = "pattern-mismatch"
	ReasonFetchError      = "fetch-error"
	ReasonExcludedLink    = "excluded-link"
)

// DiscoveredPage is one page found during discovery.
type DiscoveredPage struct {
	URL         string     // normalized absolute URL, unique key
	Title       string     // best-effort extracted title
	Depth       int        // recursion depth from seed (seed = 0)
	ContentHash string     // fingerprint of canonicalized visible text
	Status      PageStatus // terminal state
	Reason      string     // rejection reason, empty unless Status is StatusRejected
	DuplicateOf string     // canonical URL owning the content hash, for duplicates
	Seq         int        // visitation sequence number, determines output order
}

// CrawlSpec bounds a discovery run.
type CrawlSpec struct {
	SeedURL    string // starting URL, must be absolute http(s)
	URLPattern string // substring filter, links not containing it are never fetched
	MaxDepth   int    // >= 0, seed is depth 0
	MaxPages   int    // >= 1, hard cap on visited pages
}

// Validate checks crawl bounds and seed URL shape.
func (s CrawlSpec) Validate() error {
	if s.MaxDepth < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxDepth, s.MaxDepth)
	}
	if s.MaxPages < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxPages, s.MaxPages)
	}

	normalized, err := urlutil.Normalize(s.SeedURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeedURL, err)
	}
	if s.URLPattern != "" && !strings.Contains(normalized, s.URLPattern) {
		return fmt.Errorf("%w: %q does not contain %q", ErrSeedPatternMismatch, normalized, s.URLPattern)
	}

	return nil
}

// CrawlReport aggregates recoverable discovery and rendering failures so
// they surface as a summary instead of being silently swallowed.
type CrawlReport struct {
	Visited        int
	Duplicates     int
	Rejected       int
	FetchFailures  int
	RenderFailures int
	Samples        []string // representative failure messages, capped

	// Excluded ledgers every discovered page that never made the output:
	// rejected links with their reason, duplicate-content leaves with their
	// canonical URL, and URLs still pending in the queue when discovery
	// stopped early.
	Excluded []DiscoveredPage
}

// maxReportSamples caps the failure messages kept for the summary.
const maxReportSamples = 10

// addSample records a representative failure message.
func (r *CrawlReport) addSample(msg string) {
	if len(r.Samples) < maxReportSamples {
		r.Samples = append(r.Samples, msg)
	}
}

// exclude appends a page to the exclusion ledger.
func (r *CrawlReport) exclude(page DiscoveredPage) {
	r.Excluded = append(r.Excluded, page)
}

// PageContent is the extracted content of a fetched page, used by discovery.
type PageContent struct {
	Title    string
	BodyText string
	Links    []string // outbound hrefs as they appear in the document
}

// PageDocument is one rendered source document handed to assembly.
type PageDocument struct {
	Title string
	Depth int
	Slug  string // filename fragment for individual retention
	PDF   []byte
}

// AssembleOptions configures the synthesized cover and table of contents.
type AssembleOptions struct {
	CoverTitle    string
	CoverSubtitle string
	TOCTitle      string // empty = "Contents"
	Date          string // optional cover date line
}

// Job is one full crawl-render-assemble run.
type Job struct {
	Crawl          CrawlSpec
	OutputDir      string // destination directory, created if missing
	DocumentTitle  string // cover title and merged filename stem
	CoverSubtitle  string
	KeepIndividual bool // retain per-page PDFs alongside the merged document
	Organize       bool // place retained PDFs in an individual_pdfs/ subfolder
}

// Result reports the outcome of a Job.
type Result struct {
	MergedPath    string
	IndividualDir string // empty unless individual retention was enabled
	Pages         []DiscoveredPage
	Report        *CrawlReport
	Skipped       []string // source documents excluded from the merge, with reasons

	// Aborted is non-nil when discovery stopped early after consecutive
	// fetch failures. The pages collected before the stop are still
	// rendered and assembled.
	Aborted error
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout                time.Duration
	workers                int
	maxConsecutiveFailures int
}

// Defaults for service configuration.
const (
	defaultTimeout             = 60 * time.Second
	defaultConsecutiveFailures = 5
)

// WithTimeout sets the per-page render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("site2pdf: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithWorkers sets the number of parallel renderers (0 = auto).
func WithWorkers(n int) Option {
	return func(s *Service) {
		s.cfg.workers = n
	}
}

// WithMaxConsecutiveFailures sets how many fetch failures in a row abort
// discovery. Zero disables the early abort.
func WithMaxConsecutiveFailures(n int) Option {
	return func(s *Service) {
		s.cfg.maxConsecutiveFailures = n
	}
}

// WithLogger sets the structured logger. The default discards all output.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
