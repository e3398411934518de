package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/docsift/docsift/internal/layout"
)

// Parser converts raw document bytes into pages of positioned text blocks.
type Parser interface {
	Parse(r io.Reader, filename string) (*layout.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".pdf":
		return &PDFParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// BaseFontSize is the synthetic body-text size used by parsers for formats
// that carry structural markup (headings) instead of real font metrics.
// Heading levels map to sizes above it so the same title heuristics apply
// to every format.
const BaseFontSize = 10.0

// headingFontSize converts a 1-6 heading level into a synthetic font size.
// Lower levels (more prominent headings) get larger sizes.
func headingFontSize(level int) float64 {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	return BaseFontSize + float64(7-level)
}
