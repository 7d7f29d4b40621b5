package document

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// HTMLStore builds selection snapshots from an HTML document: the document
// title, the paragraph containing the selection, and the nearest heading
// above it.
type HTMLStore struct {
	doc   *goquery.Document
	title string
	text  string
}

var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true,
}

// NewHTMLStore parses the given HTML.
func NewHTMLStore(html string) (*HTMLStore, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html document: %w", err)
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	return &HTMLStore{
		doc:   doc,
		title: title,
		text:  doc.Find("body").Text(),
	}, nil
}

func (s *HTMLStore) Title() string { return s.title }

// ContextFor locates selectedText in the document body. The range is an
// offset/length pair over the extracted body text.
func (s *HTMLStore) ContextFor(selectedText string) (Context, Range) {
	ctx := Context{
		SelectedText:  selectedText,
		DocumentTitle: s.title,
	}
	rng := Range{Start: -1, Length: len(selectedText)}
	if selectedText == "" {
		return ctx, rng
	}
	if pos := strings.Index(s.text, selectedText); pos >= 0 {
		rng.Start = pos
	}

	var lastHeading string
	s.doc.Find("body *").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		node := sel.Nodes[0]
		if node.Type != html.ElementNode {
			return true
		}
		if headingTags[node.Data] {
			lastHeading = strings.TrimSpace(sel.Text())
			return true
		}
		if node.Data != "p" && node.Data != "li" && node.Data != "blockquote" {
			return true
		}
		text := strings.TrimSpace(sel.Text())
		if strings.Contains(text, selectedText) {
			ctx.SurroundingParagraph = text
			ctx.SectionHeading = lastHeading
			return false
		}
		return true
	})
	return ctx, rng
}
