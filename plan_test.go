package site2pdf

import (
	"reflect"
	"testing"
)

func TestAssemblyPlan_ComputeOffsets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pageCounts []int
		cover      int
		toc        int
		want       []int
	}{
		{
			name:       "cover and toc shift every document",
			pageCounts: []int{3, 1, 4},
			cover:      1,
			toc:        1,
			want:       []int{2, 5, 6},
		},
		{
			name:       "multi-page toc",
			pageCounts: []int{2, 2},
			cover:      1,
			toc:        3,
			want:       []int{4, 6},
		},
		{
			name:       "single document",
			pageCounts: []int{10},
			cover:      1,
			toc:        1,
			want:       []int{2},
		},
		{
			name:       "no synthesized pages",
			pageCounts: []int{1, 1, 1},
			cover:      0,
			toc:        0,
			want:       []int{0, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plan := &AssemblyPlan{
				CoverPageCount: tt.cover,
				TOCPageCount:   tt.toc,
			}
			for i, count := range tt.pageCounts {
				plan.Entries = append(plan.Entries, PlanEntry{
					Title:     string(rune('A' + i)),
					PageCount: count,
				})
			}

			plan.computeOffsets()
			if !reflect.DeepEqual(plan.PageOffsets, tt.want) {
				t.Errorf("PageOffsets = %v, want %v", plan.PageOffsets, tt.want)
			}
		})
	}
}

func TestAssemblyPlan_ComputeOffsetsDeterministic(t *testing.T) {
	t.Parallel()

	plan := &AssemblyPlan{
		Entries: []PlanEntry{
			{Title: "A", PageCount: 3},
			{Title: "B", PageCount: 1},
			{Title: "C", PageCount: 4},
		},
		CoverPageCount: 1,
		TOCPageCount:   2,
	}

	plan.computeOffsets()
	first := append([]int(nil), plan.PageOffsets...)
	plan.computeOffsets()
	if !reflect.DeepEqual(plan.PageOffsets, first) {
		t.Errorf("recomputation changed offsets: %v then %v", first, plan.PageOffsets)
	}
}

func TestBuildOutline_Nesting(t *testing.T) {
	t.Parallel()

	// Depths [0,1,1,0,2]: the two depth-1 entries nest under the first
	// depth-0 entry, and the depth-2 entry nests under the second depth-0
	// entry because that is its most recent shallower predecessor.
	plan := &AssemblyPlan{
		Entries: []PlanEntry{
			{Title: "One", Depth: 0, PageCount: 1},
			{Title: "Two", Depth: 1, PageCount: 1},
			{Title: "Three", Depth: 1, PageCount: 1},
			{Title: "Four", Depth: 0, PageCount: 1},
			{Title: "Five", Depth: 2, PageCount: 1},
		},
		CoverPageCount: 1,
		TOCPageCount:   1,
	}
	plan.computeOffsets()

	outline := buildOutline(plan)
	if len(outline) != 2 {
		t.Fatalf("got %d top-level entries, want 2", len(outline))
	}

	one := outline[0]
	if one.Title != "One" || len(one.Children) != 2 {
		t.Fatalf("first root = %q with %d children, want One with 2", one.Title, len(one.Children))
	}
	if one.Children[0].Title != "Two" || one.Children[1].Title != "Three" {
		t.Errorf("One's children = %q, %q, want Two, Three",
			one.Children[0].Title, one.Children[1].Title)
	}

	four := outline[1]
	if four.Title != "Four" || len(four.Children) != 1 {
		t.Fatalf("second root = %q with %d children, want Four with 1", four.Title, len(four.Children))
	}
	if four.Children[0].Title != "Five" {
		t.Errorf("Four's child = %q, want Five", four.Children[0].Title)
	}
}

func TestBuildOutline_PagesAreOneBased(t *testing.T) {
	t.Parallel()

	plan := &AssemblyPlan{
		Entries: []PlanEntry{
			{Title: "A", Depth: 0, PageCount: 3},
			{Title: "B", Depth: 0, PageCount: 2},
		},
		CoverPageCount: 1,
		TOCPageCount:   1,
	}
	plan.computeOffsets()

	outline := buildOutline(plan)
	if outline[0].Page != 3 {
		t.Errorf("A.Page = %d, want 3 (offset 2 displayed 1-based)", outline[0].Page)
	}
	if outline[0].EndPage != 5 {
		t.Errorf("A.EndPage = %d, want 5", outline[0].EndPage)
	}
	if outline[1].Page != 6 {
		t.Errorf("B.Page = %d, want 6", outline[1].Page)
	}
	if outline[1].EndPage != 7 {
		t.Errorf("B.EndPage = %d, want 7", outline[1].EndPage)
	}
}

func TestBuildOutline_DeepeningChain(t *testing.T) {
	t.Parallel()

	plan := &AssemblyPlan{
		Entries: []PlanEntry{
			{Title: "Root", Depth: 0, PageCount: 1},
			{Title: "Child", Depth: 1, PageCount: 1},
			{Title: "Grandchild", Depth: 2, PageCount: 1},
		},
	}
	plan.computeOffsets()

	outline := buildOutline(plan)
	if len(outline) != 1 {
		t.Fatalf("got %d roots, want 1", len(outline))
	}
	child := outline[0].Children
	if len(child) != 1 || child[0].Title != "Child" {
		t.Fatalf("Root children = %v, want [Child]", child)
	}
	grand := child[0].Children
	if len(grand) != 1 || grand[0].Title != "Grandchild" {
		t.Fatalf("Child children = %v, want [Grandchild]", grand)
	}
}

func TestBuildOutline_OrphanDepthStartsAtTop(t *testing.T) {
	t.Parallel()

	// A crawl can reach a deep page first. With no shallower predecessor it
	// becomes a top-level entry.
	plan := &AssemblyPlan{
		Entries: []PlanEntry{
			{Title: "Deep First", Depth: 2, PageCount: 1},
			{Title: "Shallow After", Depth: 0, PageCount: 1},
		},
	}
	plan.computeOffsets()

	outline := buildOutline(plan)
	if len(outline) != 2 {
		t.Fatalf("got %d roots, want 2", len(outline))
	}
	if outline[0].Title != "Deep First" || len(outline[0].Children) != 0 {
		t.Errorf("deep-first entry should be a childless root")
	}
}

func TestBuildOutline_Empty(t *testing.T) {
	t.Parallel()

	plan := &AssemblyPlan{}
	plan.computeOffsets()
	if outline := buildOutline(plan); outline != nil {
		t.Errorf("empty plan should yield nil outline, got %v", outline)
	}
}
