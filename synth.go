package site2pdf

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/alnah/go-site2pdf/internal/assets"
)

// coverData feeds the embedded cover template.
type coverData struct {
	Title    string
	Subtitle string
	Date     string
}

// tocRow is one table of contents line: title, indentation depth, and the
// 1-based page number the entry starts on in the merged document.
type tocRow struct {
	Title string
	Depth int
	Page  int
}

// tocData feeds the embedded table of contents template.
type tocData struct {
	Title string
	Rows  []tocRow
}

// defaultTOCTitle heads the table of contents when none is configured.
const defaultTOCTitle = "Contents"

// maxTOCDepth caps indentation so deep crawl trees stay readable.
const maxTOCDepth = 3

// buildCoverHTML renders the embedded cover template.
func buildCoverHTML(data coverData) (string, error) {
	return renderTemplate("cover", data, ErrCoverRender)
}

// buildTOCHTML renders the embedded table of contents template.
func buildTOCHTML(data tocData) (string, error) {
	if data.Title == "" {
		data.Title = defaultTOCTitle
	}
	for i := range data.Rows {
		if data.Rows[i].Depth > maxTOCDepth {
			data.Rows[i].Depth = maxTOCDepth
		}
	}
	return renderTemplate("toc", data, ErrTOCRender)
}

// renderTemplate loads an embedded template by name and executes it.
// html/template escapes all interpolated values, so crawled titles cannot
// inject markup.
func renderTemplate(name string, data any, renderErr error) (string, error) {
	raw, err := assets.LoadTemplate(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", renderErr, err)
	}

	tmpl, err := template.New(name).Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", renderErr, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", renderErr, err)
	}
	return buf.String(), nil
}
