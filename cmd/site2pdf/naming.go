package main

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-site2pdf/internal/urlutil"
)

// titleFromURL derives a human-readable document title from the seed URL.
// The last path segment wins ("/docs/fastapi" yields "Fastapi Documentation"),
// falling back to the hostname when the path is empty.
func titleFromURL(seedURL string) string {
	segment := urlutil.LastPathSegment(seedURL)
	if segment == "" {
		segment = urlutil.Hostname(seedURL)
	}
	if segment == "" {
		return "Documentation"
	}

	words := strings.FieldsFunc(segment, func(r rune) bool {
		return r == '-' || r == '_' || r == '.'
	})
	titled := cases.Title(language.English).String(strings.Join(words, " "))
	return titled + " Documentation"
}

// outputDirFromURL derives a default output directory name from the seed URL.
func outputDirFromURL(seedURL string) string {
	segment := urlutil.LastPathSegment(seedURL)
	if segment == "" {
		segment = urlutil.Hostname(seedURL)
	}
	slug := urlutil.Slugify(segment)
	if slug == "untitled" {
		return "site_docs"
	}
	return slug + "_docs"
}
