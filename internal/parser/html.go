package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/docsift/docsift/internal/layout"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Heading tags become styled blocks, content
// elements become body blocks.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var blocks []layout.TextBlock

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			level := headingLevel(n.Data)
			if level > 0 {
				title := textContent(n)
				if title != "" {
					blocks = append(blocks, layout.TextBlock{
						Text:     title,
						FontSize: headingFontSize(level),
						FontName: "Heading",
						Bold:     true,
						Lines:    1,
						Page:     1,
					})
				}
				return // Heading text already extracted.
			}

			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote", "pre":
				t := textContent(n)
				if t != "" {
					blocks = append(blocks, layout.TextBlock{
						Text:     t,
						FontSize: BaseFontSize,
						FontName: "Body",
						Lines:    strings.Count(t, "\n") + 1,
						Page:     1,
					})
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// Find <body> or use whole document.
	body := findBody(doc)
	if body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return &layout.Document{
		Name:  filename,
		Pages: []layout.Page{{Number: 1, Blocks: blocks}},
	}, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
