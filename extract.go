package site2pdf

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Page structures vary wildly across documentation sites, so extraction runs
// prioritized strategy chains instead of ad hoc branching: the first strategy
// returning a non-empty result wins.

// titleStrategy extracts a candidate title from a parsed document,
// returning "" to fall through to the next strategy.
type titleStrategy func(doc *html.Node) string

// bodyStrategy extracts the main content subtree, returning nil to fall
// through.
type bodyStrategy func(doc *html.Node) *html.Node

var titleChain = []titleStrategy{
	func(doc *html.Node) string { return nodeText(findFirst(doc, "h1")) },
	func(doc *html.Node) string { return nodeText(findFirst(doc, "title")) },
	func(doc *html.Node) string { return nodeText(findFirst(doc, "h2")) },
}

var bodyChain = []bodyStrategy{
	func(doc *html.Node) *html.Node { return findFirst(doc, "main") },
	func(doc *html.Node) *html.Node { return findFirst(doc, "article") },
	func(doc *html.Node) *html.Node { return findFirst(doc, "body") },
}

// untitledPage is the fallback when no title strategy matches.
const untitledPage = "Untitled"

// parsePage extracts title, body text, and outbound links from raw HTML.
func parsePage(htmlContent string) (*PageContent, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	return &PageContent{
		Title:    extractTitle(doc),
		BodyText: extractBodyText(doc),
		Links:    extractLinks(doc),
	}, nil
}

// extractTitle runs the title strategy chain.
func extractTitle(doc *html.Node) string {
	for _, strategy := range titleChain {
		if title := strings.TrimSpace(strategy(doc)); title != "" {
			return title
		}
	}
	return untitledPage
}

// extractBodyText runs the body strategy chain and collects visible text.
func extractBodyText(doc *html.Node) string {
	for _, strategy := range bodyChain {
		if node := strategy(doc); node != nil {
			return nodeText(node)
		}
	}
	return nodeText(doc)
}

// extractLinks collects every a[href] value in document order.
func extractLinks(doc *html.Node) []string {
	var links []string
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attr(n, "href"); href != "" {
				links = append(links, href)
			}
		}
	})
	return links
}

// findFirst returns the first element with the given tag in document order.
func findFirst(n *html.Node, tag string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// nodeText collects the text content under n, skipping script and style.
func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	collectText(n, &b)
	return strings.TrimSpace(b.String())
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
		// Element boundaries separate words in the rendered page.
		if c.Type == html.ElementNode {
			b.WriteByte(' ')
		}
	}
}

// walk visits every node in document order.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
