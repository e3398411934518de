package section

import (
	"regexp"
	"strings"
)

// Section is a titled-or-untitled span of one document's content, extracted
// as a structural unit. Body holds the whitespace-normalized concatenation
// of every non-title block between this section's title and the next one.
type Section struct {
	Document string `json:"document"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Page     int    `json:"page"` // Page of the title, or of the first content if untitled.
}

// CombinedText returns title and body as one string, the unit used for
// keyword matching and embedding downstream.
func (s Section) CombinedText() string {
	if s.Title == "" {
		return s.Body
	}
	if s.Body == "" {
		return s.Title
	}
	return s.Title + ". " + s.Body
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Clean collapses runs of whitespace (including newlines) to single spaces
// and trims the ends. No other transformation is applied.
func Clean(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
