package site2pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/alnah/go-site2pdf/internal/urlutil"
)

// Discover performs a bounded breadth-first crawl from the seed URL and
// returns the visited pages in strict visitation (FIFO) order. That order
// determines the final document and table of contents ordering.
//
// A fetch failure on a single URL rejects that page and the crawl continues;
// too many consecutive failures abort discovery early with
// ErrDiscoveryAborted and the pages collected so far. A wholly unreachable
// seed aborts with ErrSeedUnreachable and zero results.
func (s *Service) Discover(ctx context.Context, spec CrawlSpec) ([]DiscoveredPage, *CrawlReport, error) {
	if err := spec.Validate(); err != nil {
		return nil, nil, err
	}

	seed, err := urlutil.Normalize(spec.SeedURL)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSeedURL, err)
	}

	frontier := newCrawlFrontier()
	frontier.enqueue(seed, 0)

	report := &CrawlReport{}
	var output []DiscoveredPage
	consecutiveFailures := 0

	for len(output) < spec.MaxPages {
		item, ok := frontier.dequeue()
		if !ok {
			break
		}

		if err := ctx.Err(); err != nil {
			recordPending(frontier, report)
			return output, report, err
		}

		s.logger.Debug("fetching", "url", item.url, "depth", item.depth)
		content, err := s.renderer.Fetch(ctx, item.url)
		if err != nil {
			if len(output) == 0 && item.depth == 0 {
				return nil, report, fmt.Errorf("%w: %s: %v", ErrSeedUnreachable, item.url, err)
			}

			report.FetchFailures++
			report.addSample(fmt.Sprintf("fetch %s: %v", item.url, err))
			report.exclude(DiscoveredPage{
				URL:    item.url,
				Depth:  item.depth,
				Status: StatusRejected,
				Reason: ReasonFetchError,
			})
			s.logger.Warn("fetch failed", "url", item.url, "err", err)

			consecutiveFailures++
			if s.cfg.maxConsecutiveFailures > 0 && consecutiveFailures >= s.cfg.maxConsecutiveFailures {
				recordPending(frontier, report)
				return output, report, fmt.Errorf("%w: %d in a row, last url %s",
					ErrDiscoveryAborted, consecutiveFailures, item.url)
			}
			continue
		}
		consecutiveFailures = 0

		// The first page reaching a content hash wins; later pages become
		// non-expanding duplicate leaves.
		hash := Fingerprint(content.BodyText)
		if owner, duplicate := frontier.claimHash(hash, item.url); duplicate {
			report.Duplicates++
			report.exclude(DiscoveredPage{
				URL:         item.url,
				Title:       content.Title,
				Depth:       item.depth,
				ContentHash: hash,
				Status:      StatusDuplicate,
				DuplicateOf: owner,
			})
			s.logger.Debug("duplicate content", "url", item.url, "canonical", owner)
			continue
		}

		output = append(output, DiscoveredPage{
			URL:         item.url,
			Title:       content.Title,
			Depth:       item.depth,
			ContentHash: hash,
			Status:      StatusVisited,
			Seq:         len(output),
		})
		report.Visited++
		s.logger.Info("discovered", "url", item.url, "title", content.Title, "depth", item.depth)

		// Hard cap: once reached, discovery stops entirely, not just expansion.
		if len(output) >= spec.MaxPages {
			break
		}

		if item.depth >= spec.MaxDepth {
			continue
		}
		s.expandLinks(frontier, report, item, seed, spec.URLPattern, content.Links)
	}

	recordPending(frontier, report)
	return output, report, nil
}

// expandLinks normalizes, filters, and enqueues a page's outbound links at
// depth+1. Every link is claimed before filtering so a URL reached from
// several parents is judged and counted once, and survivors cannot be
// double-enqueued by sibling pages.
func (s *Service) expandLinks(frontier *crawlFrontier, report *CrawlReport, item queueItem, seed, pattern string, links []string) {
	for _, href := range links {
		if urlutil.IsFragmentOnly(href) {
			continue
		}

		normalized, err := urlutil.Resolve(item.url, href)
		if err != nil {
			continue
		}

		if !frontier.claim(normalized) {
			continue
		}

		if pattern != "" && !strings.Contains(normalized, pattern) {
			rejectLink(report, normalized, item.depth+1, ReasonPatternMismatch)
			continue
		}
		if !urlutil.SameHost(normalized, seed) ||
			urlutil.IsDownloadLink(normalized) ||
			urlutil.IsExcludedPath(normalized) {
			rejectLink(report, normalized, item.depth+1, ReasonExcludedLink)
			continue
		}

		frontier.push(normalized, item.depth+1)
	}
}

// rejectLink counts a filtered link and ledgers it with its reason.
func rejectLink(report *CrawlReport, url string, depth int, reason string) {
	report.Rejected++
	report.exclude(DiscoveredPage{
		URL:    url,
		Depth:  depth,
		Status: StatusRejected,
		Reason: reason,
	})
}

// recordPending ledgers URLs still queued when discovery stops, whether by
// the page cap, an early abort, or normal exhaustion (then the queue is
// empty and this is a no-op).
func recordPending(frontier *crawlFrontier, report *CrawlReport) {
	for _, item := range frontier.drain() {
		report.exclude(DiscoveredPage{
			URL:    item.url,
			Depth:  item.depth,
			Status: StatusPending,
		})
	}
}
