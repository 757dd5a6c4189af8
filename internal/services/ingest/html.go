package ingest

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/tally/internal/models"
)

// ExtractHTMLTables reads every <table> element in the fragment into a
// Table, in document order. The first row of a table (or its thead row)
// becomes the header.
func ExtractHTMLTables(html string) ([]models.Table, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var tbls []models.Table

	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		var t models.Table

		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			var cells []string
			tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}
			if t.Headers == nil {
				t.Headers = cells
				return
			}
			t.Rows = append(t.Rows, cells)
		})

		if t.Headers != nil {
			tbls = append(tbls, t)
		}
	})

	return tbls, nil
}

// TextFromHTML converts an HTML fragment to markdown text, falling back
// to tag stripping when conversion fails or produces nothing.
func (s *Service) TextFromHTML(html string) string {
	if html == "" {
		return ""
	}

	converter := md.NewConverter("", true, nil)
	converted, err := converter.ConvertString(html)
	if err != nil {
		s.logger.Warn().Err(err).Msg("HTML to markdown conversion failed, stripping tags")
		return stripHTMLTags(html)
	}
	if strings.TrimSpace(converted) == "" {
		return stripHTMLTags(html)
	}
	return converted
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)
var multiSpace = regexp.MustCompile(`\s+`)

// stripHTMLTags removes basic HTML tags for fallback cases
func stripHTMLTags(html string) string {
	stripped := htmlTag.ReplaceAllString(html, " ")
	cleaned := multiSpace.ReplaceAllString(stripped, " ")
	for entity, replacement := range map[string]string{
		"&amp;": "&", "&lt;": "<", "&gt;": ">",
		"&quot;": "\"", "&#39;": "'", "&nbsp;": " ",
	} {
		cleaned = strings.ReplaceAll(cleaned, entity, replacement)
	}
	return strings.TrimSpace(cleaned)
}
