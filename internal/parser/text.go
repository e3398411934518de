package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/docsift/docsift/internal/layout"
)

// TextParser handles plain text files. Paragraphs become body blocks;
// there is no styling signal, so such documents yield one untitled section
// downstream.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var blocks []layout.TextBlock
	var current strings.Builder
	lines := 0

	flush := func() {
		if current.Len() == 0 {
			return
		}
		blocks = append(blocks, layout.TextBlock{
			Text:     current.String(),
			FontSize: BaseFontSize,
			FontName: "Body",
			Lines:    lines,
			Page:     1,
		})
		current.Reset()
		lines = 0
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
		lines++
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &layout.Document{
		Name:  filename,
		Pages: []layout.Page{{Number: 1, Blocks: blocks}},
	}, nil
}
