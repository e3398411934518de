package section

import (
	"math"
	"strings"

	"github.com/docsift/docsift/internal/layout"
)

// Config controls the thresholds used to tell titles from body content.
type Config struct {
	MaxTitleLines  int     // A title spans at most this many visual lines.
	MaxTitleWords  int     // A title has strictly fewer words than this.
	TitleSizeDelta float64 // A title's font size exceeds the page baseline by more than this.
}

// DefaultConfig returns the thresholds used in production.
func DefaultConfig() Config {
	return Config{
		MaxTitleLines:  2,
		MaxTitleWords:  10,
		TitleSizeDelta: 0.5,
	}
}

// FontProfile is the dominant font signature of one page, weighted by
// character count so a handful of short decorated blocks cannot skew the
// baseline away from the main paragraph style.
type FontProfile struct {
	Size  float64
	Style layout.StyleKey
}

// fallbackProfile is used for pages with no text at all.
var fallbackProfile = FontProfile{
	Size:  10,
	Style: layout.StyleKey{Font: "default"},
}

// ProfilePage computes the dominant font size and style of a page. The
// baseline is per-page: a cover page and a body page of the same document
// get independent profiles.
func ProfilePage(page layout.Page) FontProfile {
	counts := make(map[profileKey]int)
	for _, b := range page.Blocks {
		k := profileKey{size: math.Round(b.FontSize), style: b.Style()}
		counts[k] += len(strings.TrimSpace(b.Text))
	}
	if len(counts) == 0 {
		return fallbackProfile
	}

	// Map iteration order is random, so ties break on the key itself to
	// keep the profile deterministic across runs.
	var best profileKey
	bestCount := -1
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k.less(best)) {
			best = k
			bestCount = c
		}
	}
	return FontProfile{Size: best.size, Style: best.style}
}

type profileKey struct {
	size  float64
	style layout.StyleKey
}

func (k profileKey) less(o profileKey) bool {
	if k.size != o.size {
		return k.size < o.size
	}
	if k.style.Font != o.style.Font {
		return k.style.Font < o.style.Font
	}
	return !k.style.Bold && o.style.Bold
}

// Extractor reconstructs logical sections from a document's page layout.
type Extractor struct {
	cfg Config
}

// NewExtractor creates an extractor; zero-valued thresholds fall back to
// the defaults.
func NewExtractor(cfg Config) *Extractor {
	def := DefaultConfig()
	if cfg.MaxTitleLines <= 0 {
		cfg.MaxTitleLines = def.MaxTitleLines
	}
	if cfg.MaxTitleWords <= 0 {
		cfg.MaxTitleWords = def.MaxTitleWords
	}
	if cfg.TitleSizeDelta <= 0 {
		cfg.TitleSizeDelta = def.TitleSizeDelta
	}
	return &Extractor{cfg: cfg}
}

// IsTitle reports whether a block reads as a section heading against its
// page's font profile. All conditions must hold: short form, noticeably
// larger, and visually distinct style.
func (e *Extractor) IsTitle(b layout.TextBlock, prof FontProfile) bool {
	if strings.TrimSpace(b.Text) == "" {
		return false
	}
	if b.Lines > e.cfg.MaxTitleLines {
		return false
	}
	if b.WordCount() >= e.cfg.MaxTitleWords {
		return false
	}
	if b.FontSize <= prof.Size+e.cfg.TitleSizeDelta {
		return false
	}
	if b.Style() == prof.Style {
		return false
	}
	return true
}

// Extract scans a document's blocks in reading order, page after page, and
// segments them into sections. The scan is a two-state machine: either no
// section is open, or one is open and accumulating body text. Content that
// precedes the first title opens an untitled section; a document with no
// titles yields exactly one untitled section.
func (e *Extractor) Extract(doc *layout.Document) []Section {
	var sections []Section
	var open *Section
	var body strings.Builder

	closeOpen := func() {
		if open == nil {
			return
		}
		open.Body = Clean(body.String())
		// Title-only sections are kept; a fully empty accumulator is not.
		if open.Title != "" || open.Body != "" {
			sections = append(sections, *open)
		}
		open = nil
		body.Reset()
	}

	for _, page := range doc.Pages {
		prof := ProfilePage(page)
		for _, b := range page.Blocks {
			if e.IsTitle(b, prof) {
				closeOpen()
				open = &Section{
					Document: doc.Name,
					Title:    Clean(b.Text),
					Page:     b.Page,
				}
				continue
			}
			if open == nil {
				open = &Section{Document: doc.Name, Page: b.Page}
			}
			if body.Len() > 0 {
				body.WriteByte(' ')
			}
			body.WriteString(b.Text)
		}
	}
	closeOpen()

	return sections
}
