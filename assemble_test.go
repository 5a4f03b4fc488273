package site2pdf

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestAssembler(renderer *fakeRenderer, engine *fakeEngine) *Assembler {
	return &Assembler{
		renderer: renderer,
		engine:   engine,
		logger:   log.New(io.Discard),
	}
}

func testDocs() []PageDocument {
	return []PageDocument{
		{Title: "Introduction", Depth: 0, Slug: "0001-introduction", PDF: fakePDF(3)},
		{Title: "Install", Depth: 1, Slug: "0002-install", PDF: fakePDF(1)},
		{Title: "Usage", Depth: 1, Slug: "0003-usage", PDF: fakePDF(4)},
	}
}

func TestAssemble_Offsets(t *testing.T) {
	t.Parallel()

	renderer := newFakeRenderer(nil)
	engine := &fakeEngine{}
	a := newTestAssembler(renderer, engine)

	result, err := a.Assemble(context.Background(), testDocs(), AssembleOptions{CoverTitle: "Docs"})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	// Cover 1 page, TOC 1 page, documents of 3, 1, 4 pages.
	want := []int{2, 5, 6}
	if !reflect.DeepEqual(result.Plan.PageOffsets, want) {
		t.Errorf("PageOffsets = %v, want %v", result.Plan.PageOffsets, want)
	}
	if result.Plan.CoverPageCount != 1 {
		t.Errorf("CoverPageCount = %d, want 1", result.Plan.CoverPageCount)
	}
	if result.Plan.TOCPageCount != 1 {
		t.Errorf("TOCPageCount = %d, want 1", result.Plan.TOCPageCount)
	}
}

func TestAssemble_MergeOrder(t *testing.T) {
	t.Parallel()

	renderer := newFakeRenderer(nil)
	engine := &fakeEngine{}
	a := newTestAssembler(renderer, engine)

	docs := testDocs()
	if _, err := a.Assemble(context.Background(), docs, AssembleOptions{}); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	// Cover first, TOC second, then source documents in input order.
	if len(engine.merged) != len(docs)+2 {
		t.Fatalf("merged %d documents, want %d", len(engine.merged), len(docs)+2)
	}
	for i, doc := range docs {
		if !reflect.DeepEqual(engine.merged[i+2], doc.PDF) {
			t.Errorf("merged[%d] is not document %q", i+2, doc.Title)
		}
	}
}

func TestAssemble_OutlineTargets(t *testing.T) {
	t.Parallel()

	renderer := newFakeRenderer(nil)
	engine := &fakeEngine{}
	a := newTestAssembler(renderer, engine)

	if _, err := a.Assemble(context.Background(), testDocs(), AssembleOptions{}); err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if len(engine.outline) != 1 {
		t.Fatalf("got %d outline roots, want 1", len(engine.outline))
	}
	root := engine.outline[0]
	if root.Title != "Introduction" || root.Page != 3 {
		t.Errorf("root = %q page %d, want Introduction page 3", root.Title, root.Page)
	}
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.Children))
	}
	if root.Children[0].Page != 6 || root.Children[1].Page != 7 {
		t.Errorf("child pages = %d, %d, want 6, 7",
			root.Children[0].Page, root.Children[1].Page)
	}
}

func TestAssemble_CorruptDocumentsSkipped(t *testing.T) {
	t.Parallel()

	renderer := newFakeRenderer(nil)
	engine := &fakeEngine{}
	a := newTestAssembler(renderer, engine)

	docs := []PageDocument{
		{Title: "Good A", Depth: 0, PDF: fakePDF(2)},
		{Title: "Broken", Depth: 0, PDF: corruptPDF()},
		{Title: "Empty", Depth: 0, PDF: nil},
		{Title: "Good B", Depth: 0, PDF: fakePDF(3)},
	}

	result, err := a.Assemble(context.Background(), docs, AssembleOptions{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if len(result.Skipped) != 2 {
		t.Fatalf("Skipped = %v, want 2 entries", result.Skipped)
	}
	for _, skipped := range result.Skipped {
		if !strings.Contains(skipped, "Broken") && !strings.Contains(skipped, "Empty") {
			t.Errorf("unexpected skip entry %q", skipped)
		}
	}

	// Offsets are computed over survivors only: cover 1 + toc 1, then 2 pages.
	want := []int{2, 4}
	if !reflect.DeepEqual(result.Plan.PageOffsets, want) {
		t.Errorf("PageOffsets = %v, want %v (excluded documents must not shift numbering)",
			result.Plan.PageOffsets, want)
	}
}

func TestAssemble_NothingToAssemble(t *testing.T) {
	t.Parallel()

	renderer := newFakeRenderer(nil)
	a := newTestAssembler(renderer, &fakeEngine{})

	tests := []struct {
		name string
		docs []PageDocument
	}{
		{name: "no documents", docs: nil},
		{name: "all corrupt", docs: []PageDocument{{Title: "Bad", PDF: corruptPDF()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := a.Assemble(context.Background(), tt.docs, AssembleOptions{})
			if !errors.Is(err, ErrNothingToAssemble) {
				t.Errorf("err = %v, want ErrNothingToAssemble", err)
			}
		})
	}
}

func TestAssemble_TOCSizingIterates(t *testing.T) {
	t.Parallel()

	renderer := newFakeRenderer(nil)
	// First RenderHTML call is the cover. The TOC then renders at 2 pages,
	// invalidating the assumed single page, and stabilizes on re-render.
	renderer.htmlQueue = [][]byte{fakePDF(1), fakePDF(2), fakePDF(2)}
	engine := &fakeEngine{}
	a := newTestAssembler(renderer, engine)

	result, err := a.Assemble(context.Background(), testDocs(), AssembleOptions{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if result.Plan.TOCPageCount != 2 {
		t.Errorf("TOCPageCount = %d, want 2 after re-render", result.Plan.TOCPageCount)
	}
	// Final offsets account for the two-page TOC: 1 + 2, then 3, 1, 4.
	want := []int{3, 6, 7}
	if !reflect.DeepEqual(result.Plan.PageOffsets, want) {
		t.Errorf("PageOffsets = %v, want %v", result.Plan.PageOffsets, want)
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	t.Parallel()

	run := func() *AssemblyResult {
		a := newTestAssembler(newFakeRenderer(nil), &fakeEngine{})
		result, err := a.Assemble(context.Background(), testDocs(), AssembleOptions{CoverTitle: "Docs"})
		if err != nil {
			t.Fatalf("Assemble: %v", err)
		}
		return result
	}

	first := run()
	second := run()
	if !reflect.DeepEqual(first.Plan.PageOffsets, second.Plan.PageOffsets) {
		t.Errorf("offsets differ across identical runs: %v vs %v",
			first.Plan.PageOffsets, second.Plan.PageOffsets)
	}
	if !reflect.DeepEqual(first.Merged, second.Merged) {
		t.Error("merged bytes differ across identical runs")
	}
}
