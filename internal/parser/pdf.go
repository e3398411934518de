package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/docsift/docsift/internal/layout"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFParser handles PDF files, preserving per-block font metrics so the
// section extractor can separate headings from body text.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (*layout.Document, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docsift-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	doc := &layout.Document{Name: filename}
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			doc.Pages = append(doc.Pages, layout.Page{Number: i})
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			// A page that cannot be decoded contributes no blocks.
			doc.Pages = append(doc.Pages, layout.Page{Number: i})
			continue
		}
		doc.Pages = append(doc.Pages, layout.Page{
			Number: i,
			Blocks: blocksFromRows(rows, i),
		})
	}

	return doc, nil
}

// pdfLine is one visual row of text with its dominant style.
type pdfLine struct {
	text string
	size float64
	font string
	bold bool
	y    int64
}

// blocksFromRows merges visual rows into text blocks. Consecutive rows with
// the same font signature and a small vertical gap belong to one block.
func blocksFromRows(rows pdflib.Rows, pageNum int) []layout.TextBlock {
	var lines []pdfLine
	for _, row := range rows {
		if line, ok := lineFromRow(row); ok {
			lines = append(lines, line)
		}
	}

	var blocks []layout.TextBlock
	var cur *layout.TextBlock
	var lastY int64

	flush := func() {
		if cur != nil && strings.TrimSpace(cur.Text) != "" {
			blocks = append(blocks, *cur)
		}
		cur = nil
	}

	for _, line := range lines {
		sameStyle := cur != nil &&
			cur.FontName == line.font &&
			cur.Bold == line.bold &&
			math.Abs(cur.FontSize-line.size) < 0.1
		closeBelow := cur != nil &&
			float64(lastY-line.y) <= maxLineGap(cur.FontSize)

		if sameStyle && closeBelow {
			cur.Text += "\n" + line.text
			cur.Lines++
		} else {
			flush()
			cur = &layout.TextBlock{
				Text:     line.text,
				FontSize: line.size,
				FontName: line.font,
				Bold:     line.bold,
				Lines:    1,
				Page:     pageNum,
			}
		}
		lastY = line.y
	}
	flush()

	return blocks
}

// lineFromRow concatenates a row's text runs in x-order and picks the
// character-count-weighted dominant style for the line.
func lineFromRow(row *pdflib.Row) (pdfLine, bool) {
	if row == nil || len(row.Content) == 0 {
		return pdfLine{}, false
	}

	type styleStat struct {
		size  float64
		font  string
		chars int
	}
	var stats []styleStat
	var sb strings.Builder
	lastEnd := math.Inf(-1)

	for _, t := range row.Content {
		if t.S == "" {
			continue
		}
		// Runs separated by a visible horizontal gap get a space between them.
		if sb.Len() > 0 && t.X-lastEnd > 1.0 && !strings.HasPrefix(t.S, " ") {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.S)
		lastEnd = t.X + t.W

		found := false
		for i := range stats {
			if stats[i].font == t.Font && math.Abs(stats[i].size-t.FontSize) < 0.1 {
				stats[i].chars += len(t.S)
				found = true
				break
			}
		}
		if !found {
			stats = append(stats, styleStat{size: t.FontSize, font: t.Font, chars: len(t.S)})
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" || len(stats) == 0 {
		return pdfLine{}, false
	}

	dominant := stats[0]
	for _, s := range stats[1:] {
		if s.chars > dominant.chars {
			dominant = s
		}
	}

	return pdfLine{
		text: text,
		size: dominant.size,
		font: dominant.font,
		bold: isBoldFont(dominant.font),
		y:    row.Position,
	}, true
}

// maxLineGap is the largest vertical distance between consecutive rows that
// still reads as one paragraph.
func maxLineGap(fontSize float64) float64 {
	if fontSize <= 0 {
		fontSize = BaseFontSize
	}
	return fontSize * 1.8
}

func isBoldFont(font string) bool {
	return strings.Contains(strings.ToLower(font), "bold")
}
