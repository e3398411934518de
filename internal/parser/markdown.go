package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/docsift/docsift/internal/layout"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Headings become
// blocks with synthetic sizes above the body baseline so the layout-based
// title heuristics apply unchanged.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

	var blocks []layout.TextBlock
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			if title == "" {
				continue
			}
			blocks = append(blocks, layout.TextBlock{
				Text:     title,
				FontSize: headingFontSize(node.Level),
				FontName: "Heading",
				Bold:     true,
				Lines:    1,
				Page:     1,
			})
		default:
			t := extractText(n, src)
			if t == "" {
				continue
			}
			blocks = append(blocks, layout.TextBlock{
				Text:     t,
				FontSize: BaseFontSize,
				FontName: "Body",
				Lines:    strings.Count(t, "\n") + 1,
				Page:     1,
			})
		}
	}

	return &layout.Document{
		Name:  filename,
		Pages: []layout.Page{{Number: 1, Blocks: blocks}},
	}, nil
}

// extractText gets the text content of a goldmark AST node. Inline children
// carry the parsed text; raw lines are only read for childless blocks so the
// same source span is never emitted twice.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.ChildCount() == 0 && n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			// Recurse for nested inlines and container blocks.
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
