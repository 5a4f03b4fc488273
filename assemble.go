package site2pdf

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// AssemblyResult is the output of one assembly run.
type AssemblyResult struct {
	Merged  []byte // final document: cover, TOC, pages, bookmark outline
	Cover   []byte // synthesized cover document, for individual retention
	TOC     []byte // final table of contents document
	Plan    *AssemblyPlan
	Skipped []string // source documents excluded from the merge, with reasons
}

// tocSizingAttempts bounds the fixed-point iteration on TOC page count.
// The count almost always stabilizes after one re-render; three matches the
// worst case seen in practice (entry list crossing a page boundary twice).
const tocSizingAttempts = 3

// Assembler merges rendered page documents into a single PDF with a cover
// page, a table of contents whose entries carry absolute page numbers, and a
// nested bookmark outline matching the discovery hierarchy.
type Assembler struct {
	renderer pageRenderer
	engine   pdfEngine
	logger   *log.Logger
}

// Assemble lays out and merges the given documents. The layout needs several
// passes because the table of contents page count depends on the entry list:
//
//  1. Validate every source document; corrupt ones are skipped with a
//     warning and excluded from the plan before any offset exists.
//  2. Render the cover and measure it.
//  3. Render the table of contents iteratively until its own page count
//     stops shifting the numbers it displays.
//  4. Compute final offsets, merge cover, TOC, and documents in order, and
//     attach the bookmark outline.
//
// Re-running with the same inputs yields identical offsets and targets.
func (a *Assembler) Assemble(ctx context.Context, docs []PageDocument, opts AssembleOptions) (*AssemblyResult, error) {
	kept, skipped := a.validateDocs(docs)
	if len(kept) == 0 {
		return nil, ErrNothingToAssemble
	}

	plan := &AssemblyPlan{}
	counted := kept[:0]
	for _, doc := range kept {
		count, err := a.engine.PageCount(doc.PDF)
		if err != nil {
			// Validated above, so a count failure means a broken document
			// slipped through. Skip it the same way.
			skipped = append(skipped, fmt.Sprintf("%s: page count: %v", doc.Title, err))
			continue
		}
		plan.Entries = append(plan.Entries, PlanEntry{Title: doc.Title, Depth: doc.Depth, PageCount: count})
		counted = append(counted, doc)
	}
	kept = counted
	if len(plan.Entries) == 0 {
		return nil, ErrNothingToAssemble
	}

	coverPDF, err := a.renderCover(ctx, opts)
	if err != nil {
		return nil, err
	}
	plan.CoverPageCount, err = a.engine.PageCount(coverPDF)
	if err != nil {
		return nil, fmt.Errorf("%w: cover page count: %v", ErrCoverRender, err)
	}

	tocPDF, err := a.renderTOC(ctx, plan, opts)
	if err != nil {
		return nil, err
	}

	plan.computeOffsets()

	stream := make([][]byte, 0, len(kept)+2)
	stream = append(stream, coverPDF, tocPDF)
	for _, doc := range kept {
		stream = append(stream, doc.PDF)
	}

	merged, err := a.engine.Merge(stream)
	if err != nil {
		return nil, err
	}

	merged, err = a.engine.AddOutline(merged, buildOutline(plan))
	if err != nil {
		return nil, err
	}

	a.logger.Info("assembled",
		"documents", len(plan.Entries),
		"cover_pages", plan.CoverPageCount,
		"toc_pages", plan.TOCPageCount,
		"skipped", len(skipped))

	return &AssemblyResult{
		Merged:  merged,
		Cover:   coverPDF,
		TOC:     tocPDF,
		Plan:    plan,
		Skipped: skipped,
	}, nil
}

// validateDocs splits documents into mergeable and skipped. Validation runs
// before any offset computation so excluded documents never shift numbering.
func (a *Assembler) validateDocs(docs []PageDocument) (kept []PageDocument, skipped []string) {
	for _, doc := range docs {
		if len(doc.PDF) == 0 {
			skipped = append(skipped, fmt.Sprintf("%s: empty document", doc.Title))
			continue
		}
		if err := a.engine.Validate(doc.PDF); err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: corrupt document: %v", doc.Title, err))
			a.logger.Warn("skipping corrupt document", "title", doc.Title, "err", err)
			continue
		}
		kept = append(kept, doc)
	}
	return kept, skipped
}

// renderCover synthesizes and prints the cover document.
func (a *Assembler) renderCover(ctx context.Context, opts AssembleOptions) ([]byte, error) {
	html, err := buildCoverHTML(coverData{
		Title:    opts.CoverTitle,
		Subtitle: opts.CoverSubtitle,
		Date:     opts.Date,
	})
	if err != nil {
		return nil, err
	}

	pdf, err := a.renderer.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCoverRender, err)
	}
	return pdf, nil
}

// renderTOC renders the table of contents, iterating until the page count
// it occupies matches the page count its displayed numbers assume.
func (a *Assembler) renderTOC(ctx context.Context, plan *AssemblyPlan, opts AssembleOptions) ([]byte, error) {
	plan.TOCPageCount = 1

	var tocPDF []byte
	for attempt := 0; attempt < tocSizingAttempts; attempt++ {
		plan.computeOffsets()

		rows := make([]tocRow, len(plan.Entries))
		for i, entry := range plan.Entries {
			rows[i] = tocRow{
				Title: entry.Title,
				Depth: entry.Depth,
				Page:  plan.PageOffsets[i] + 1, // display is 1-based
			}
		}

		html, err := buildTOCHTML(tocData{Title: opts.TOCTitle, Rows: rows})
		if err != nil {
			return nil, err
		}

		tocPDF, err = a.renderer.RenderHTML(ctx, html)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTOCRender, err)
		}

		count, err := a.engine.PageCount(tocPDF)
		if err != nil {
			return nil, fmt.Errorf("%w: page count: %v", ErrTOCRender, err)
		}
		if count == plan.TOCPageCount {
			return tocPDF, nil
		}
		plan.TOCPageCount = count
	}

	// The count oscillated; the last render used the final TOCPageCount's
	// predecessor, which is off by at most the oscillation amount. Accept it.
	return tocPDF, nil
}
