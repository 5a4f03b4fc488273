package site2pdf

// PlanEntry is one source document in the assembly plan.
type PlanEntry struct {
	Title     string
	Depth     int
	PageCount int // pages in the source document
}

// AssemblyPlan is the intermediate layout description computed before the
// final merge. Offsets are absolute page indexes in the merged document:
//
//	PageOffsets[i] = CoverPageCount + TOCPageCount + sum(PageCount[0..i-1])
//
// Bookmark targets reference these offsets, never per-document-local page
// numbers.
type AssemblyPlan struct {
	Entries        []PlanEntry
	CoverPageCount int
	TOCPageCount   int
	PageOffsets    []int
}

// computeOffsets fills PageOffsets with a single forward pass. It runs after
// is-mergeable validation so excluded documents never shift the numbering.
func (p *AssemblyPlan) computeOffsets() {
	p.PageOffsets = make([]int, len(p.Entries))
	offset := p.CoverPageCount + p.TOCPageCount
	for i, entry := range p.Entries {
		p.PageOffsets[i] = offset
		offset += entry.PageCount
	}
}

// OutlineEntry is one node of the bookmark outline tree.
type OutlineEntry struct {
	Title    string
	Page     int // 1-based first page of the entry in the merged document
	EndPage  int // 1-based last page of the entry
	Children []OutlineEntry
}

// outlineNode is the mutable tree used while building the outline.
type outlineNode struct {
	entry OutlineEntry
	depth int
	kids  []*outlineNode
}

// buildOutline nests entries by discovery depth: an entry nests under the
// most recent preceding entry that is shallower, falling back to the top
// level when none exists.
func buildOutline(plan *AssemblyPlan) []OutlineEntry {
	var roots []*outlineNode
	var stack []*outlineNode // open ancestors, strictly increasing depth

	for i, entry := range plan.Entries {
		startPage := plan.PageOffsets[i] + 1
		node := &outlineNode{
			entry: OutlineEntry{
				Title:   entry.Title,
				Page:    startPage,
				EndPage: startPage + entry.PageCount - 1,
			},
			depth: entry.Depth,
		}

		for len(stack) > 0 && stack[len(stack)-1].depth >= entry.Depth {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.kids = append(parent.kids, node)
		}
		stack = append(stack, node)
	}

	return freezeOutline(roots)
}

func freezeOutline(nodes []*outlineNode) []OutlineEntry {
	if len(nodes) == 0 {
		return nil
	}
	entries := make([]OutlineEntry, len(nodes))
	for i, n := range nodes {
		entry := n.entry
		entry.Children = freezeOutline(n.kids)
		entries[i] = entry
	}
	return entries
}
