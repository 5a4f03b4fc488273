// Package site2pdf crawls a documentation website and merges every
// discovered page into a single bookmarked PDF with a cover page and a
// table of contents.
//
// # Quick Start
//
// Create a service, run a job, and close when done:
//
//	svc := site2pdf.New()
//	defer svc.Close()
//
//	result, err := svc.Run(ctx, site2pdf.Job{
//	    Crawl: site2pdf.CrawlSpec{
//	        SeedURL:    "https://example.com/docs/",
//	        URLPattern: "/docs/",
//	        MaxDepth:   2,
//	        MaxPages:   500,
//	    },
//	    OutputDir:     "example-docs",
//	    DocumentTitle: "Example Docs",
//	})
//
// The result reports the merged PDF path, the discovered pages in visitation
// order, and a summary of recoverable failures.
//
// # Pipeline
//
// A run has three strictly ordered phases:
//
//  1. Discovery: breadth-first crawl from the seed URL, bounded by depth and
//     page count, filtered by a URL pattern, deduplicated by a content
//     fingerprint of each page's visible text.
//  2. Rendering: each discovered page is printed to PDF by headless Chrome
//     (go-rod) through a bounded renderer pool.
//  3. Assembly: a cover page and table of contents are synthesized, page
//     offsets are computed across all documents, and everything is merged
//     into one PDF with a nested bookmark outline.
//
// Assembly never starts before discovery completes because the table of
// contents size depends on the full entry list.
//
// # Configuration
//
// Use functional options to customize the service:
//
//	svc := site2pdf.New(
//	    site2pdf.WithTimeout(2 * time.Minute),
//	    site2pdf.WithWorkers(4),
//	    site2pdf.WithLogger(logger),
//	)
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod library automatically
// downloads a managed Chromium instance on first run (~/.cache/rod/browser/).
// Use ROD_BROWSER_BIN to specify a custom Chrome binary.
package site2pdf
