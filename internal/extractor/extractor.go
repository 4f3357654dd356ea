// Package extractor turns raw HTML into a structured document. Extraction is
// a pure function: no network, no mutation, deterministic for identical
// input. Malformed HTML degrades to empty fields, never to a failure.
package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/user/pagechat-service/internal/entity"
)

// Extract parses HTML and extracts the title, visible text, links, metadata
// and tables in document order.
func Extract(htmlContent string) (*entity.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	out := &entity.Document{
		Links:  []string{},
		Tables: []string{},
	}

	out.Title = normalizeSpace(doc.Find("title").First().Text())

	// Visible text of paragraph, block, inline and table elements, each
	// individually whitespace-normalized, joined with single spaces.
	var parts []string
	doc.Find("p, div, span, td, th, tr").Each(func(_ int, s *goquery.Selection) {
		if text := normalizeSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	out.Text = strings.Join(parts, " ")

	// Every anchor href in document order, unfiltered: relative, mailto and
	// javascript targets included. Filtering is the caller's concern.
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			out.Links = append(out.Links, href)
		}
	})

	out.Metadata.Description = doc.Find(`meta[name="description"]`).First().AttrOr("content", "")
	out.Metadata.Keywords = doc.Find(`meta[name="keywords"]`).First().AttrOr("content", "")

	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		out.Tables = append(out.Tables, normalizeSpace(s.Text()))
	})

	return out, nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
