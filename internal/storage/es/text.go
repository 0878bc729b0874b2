package es

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockElements get a separating space so adjacent paragraphs don't fuse into one word.
const blockElements = "p, h1, h2, h3, h4, h5, h6, li, br, div, blockquote, pre, td"

// PlainText strips markup from rich article content. Input that fails to
// parse is returned with whitespace collapsed.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapse(html)
	}

	doc.Find("script, style").Remove()
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
