package section

import (
	"strings"
	"testing"

	"github.com/docsift/docsift/internal/layout"
)

func bodyBlock(text string, page int) layout.TextBlock {
	return layout.TextBlock{
		Text:     text,
		FontSize: 10,
		FontName: "Helvetica",
		Lines:    strings.Count(text, "\n") + 1,
		Page:     page,
	}
}

func titleBlock(text string, page int) layout.TextBlock {
	return layout.TextBlock{
		Text:     text,
		FontSize: 16,
		FontName: "Helvetica-Bold",
		Bold:     true,
		Lines:    1,
		Page:     page,
	}
}

func TestIsTitle_AllConditionsMustHold(t *testing.T) {
	e := NewExtractor(DefaultConfig())
	prof := FontProfile{Size: 10, Style: layout.StyleKey{Font: "Helvetica"}}

	base := layout.TextBlock{
		Text:     "Revenue Overview",
		FontSize: 14,
		FontName: "Helvetica-Bold",
		Bold:     true,
		Lines:    1,
		Page:     1,
	}
	if !e.IsTitle(base, prof) {
		t.Fatal("expected base block to classify as title")
	}

	tests := []struct {
		name   string
		mutate func(b *layout.TextBlock)
	}{
		{"too many lines", func(b *layout.TextBlock) { b.Lines = 3 }},
		{"too many words", func(b *layout.TextBlock) {
			b.Text = "one two three four five six seven eight nine ten"
		}},
		{"font size not above baseline margin", func(b *layout.TextBlock) { b.FontSize = 10.5 }},
		{"same style as page", func(b *layout.TextBlock) {
			b.FontName = "Helvetica"
			b.Bold = false
		}},
		{"empty text", func(b *layout.TextBlock) { b.Text = "   " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := base
			tt.mutate(&b)
			if e.IsTitle(b, prof) {
				t.Errorf("expected non-title when %s", tt.name)
			}
		})
	}
}

func TestIsTitle_ExactWordLimitIsBody(t *testing.T) {
	e := NewExtractor(Config{MaxTitleLines: 2, MaxTitleWords: 4, TitleSizeDelta: 0.5})
	prof := FontProfile{Size: 10, Style: layout.StyleKey{Font: "Helvetica"}}

	b := titleBlock("one two three four", 1) // exactly 4 words, limit is strict
	if e.IsTitle(b, prof) {
		t.Error("expected block at the word limit to classify as body")
	}
	b.Text = "one two three"
	if !e.IsTitle(b, prof) {
		t.Error("expected block below the word limit to classify as title")
	}
}

func TestIsTitle_FamilyDifferenceCountsAsDistinctStyle(t *testing.T) {
	e := NewExtractor(DefaultConfig())
	prof := FontProfile{Size: 10, Style: layout.StyleKey{Font: "Helvetica"}}

	// Not bold, but a different family at a larger size.
	b := layout.TextBlock{
		Text:     "Methods",
		FontSize: 13,
		FontName: "Georgia",
		Lines:    1,
		Page:     1,
	}
	if !e.IsTitle(b, prof) {
		t.Error("expected differing font family to satisfy the style condition")
	}
}

func TestProfilePage_WeightedByCharCount(t *testing.T) {
	// One long paragraph at 10pt regular outweighs several short bold
	// blocks at 14pt, even though the bold blocks are more numerous.
	page := layout.Page{Number: 1, Blocks: []layout.TextBlock{
		{Text: "A", FontSize: 14, FontName: "Helvetica-Bold", Bold: true, Lines: 1, Page: 1},
		{Text: "B", FontSize: 14, FontName: "Helvetica-Bold", Bold: true, Lines: 1, Page: 1},
		{Text: "C", FontSize: 14, FontName: "Helvetica-Bold", Bold: true, Lines: 1, Page: 1},
		{Text: strings.Repeat("body text ", 30), FontSize: 10, FontName: "Helvetica", Lines: 5, Page: 1},
	}}

	prof := ProfilePage(page)
	if prof.Size != 10 {
		t.Errorf("expected dominant size 10, got %v", prof.Size)
	}
	if prof.Style.Bold || prof.Style.Font != "Helvetica" {
		t.Errorf("expected dominant style Helvetica/regular, got %+v", prof.Style)
	}
}

func TestProfilePage_EmptyPageFallback(t *testing.T) {
	prof := ProfilePage(layout.Page{Number: 1})
	if prof.Size != 10 || prof.Style.Font != "default" {
		t.Errorf("expected fallback profile, got %+v", prof)
	}
}

func TestExtract_TitleThenBody(t *testing.T) {
	doc := &layout.Document{
		Name: "report.pdf",
		Pages: []layout.Page{{Number: 1, Blocks: []layout.TextBlock{
			titleBlock("Introduction", 1),
			bodyBlock("This report covers the annual numbers in detail for every region.", 1),
			bodyBlock("Totals   are \n aggregated per quarter.", 1),
		}}},
	}

	sections := NewExtractor(DefaultConfig()).Extract(doc)
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	s := sections[0]
	if s.Title != "Introduction" {
		t.Errorf("expected title %q, got %q", "Introduction", s.Title)
	}
	if s.Page != 1 {
		t.Errorf("expected page 1, got %d", s.Page)
	}
	want := "This report covers the annual numbers in detail for every region. Totals are aggregated per quarter."
	if s.Body != want {
		t.Errorf("expected body %q, got %q", want, s.Body)
	}
	if s.Document != "report.pdf" {
		t.Errorf("expected document %q, got %q", "report.pdf", s.Document)
	}
}

func TestExtract_ContentBeforeFirstTitle(t *testing.T) {
	doc := &layout.Document{
		Name: "doc.pdf",
		Pages: []layout.Page{{Number: 1, Blocks: []layout.TextBlock{
			bodyBlock("Preamble text before any heading appears in the document.", 1),
			titleBlock("First Heading", 1),
			bodyBlock("Content of the first titled part of this document right here.", 1),
		}}},
	}

	sections := NewExtractor(DefaultConfig()).Extract(doc)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Title != "" {
		t.Errorf("expected untitled leading section, got title %q", sections[0].Title)
	}
	if !strings.Contains(sections[0].Body, "Preamble") {
		t.Errorf("expected preamble in the untitled section, got %q", sections[0].Body)
	}
	if sections[1].Title != "First Heading" {
		t.Errorf("expected second section title %q, got %q", "First Heading", sections[1].Title)
	}
}

func TestExtract_NoTitlesYieldsSingleUntitledSection(t *testing.T) {
	doc := &layout.Document{
		Name: "flat.txt",
		Pages: []layout.Page{{Number: 1, Blocks: []layout.TextBlock{
			bodyBlock("Just some long paragraph content in this document without headings.", 1),
			bodyBlock("And a second paragraph continues in exactly the same plain style.", 1),
		}}},
	}

	sections := NewExtractor(DefaultConfig()).Extract(doc)
	if len(sections) != 1 {
		t.Fatalf("expected 1 untitled section, got %d", len(sections))
	}
	if sections[0].Title != "" {
		t.Errorf("expected empty title, got %q", sections[0].Title)
	}
	if !strings.Contains(sections[0].Body, "second paragraph") {
		t.Errorf("expected full text in section, got %q", sections[0].Body)
	}
}

func TestExtract_EmptyDocument(t *testing.T) {
	doc := &layout.Document{Name: "empty.pdf", Pages: []layout.Page{{Number: 1}}}
	sections := NewExtractor(DefaultConfig()).Extract(doc)
	if len(sections) != 0 {
		t.Fatalf("expected 0 sections for empty document, got %d", len(sections))
	}
}

func TestExtract_TitleOnlySectionKept(t *testing.T) {
	doc := &layout.Document{
		Name: "doc.pdf",
		Pages: []layout.Page{{Number: 1, Blocks: []layout.TextBlock{
			bodyBlock("Enough regular body text to anchor the page's dominant font size.", 1),
			titleBlock("Dangling Heading", 1),
		}}},
	}

	sections := NewExtractor(DefaultConfig()).Extract(doc)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	last := sections[1]
	if last.Title != "Dangling Heading" || last.Body != "" {
		t.Errorf("expected empty-bodied titled section, got %+v", last)
	}
}

func TestExtract_PerPageBaseline(t *testing.T) {
	// The same 14pt bold block is a title on a 10pt page but body on a
	// page whose dominant font already is 14pt bold.
	candidate := layout.TextBlock{
		Text:     "Quarterly Outlook",
		FontSize: 14,
		FontName: "Helvetica-Bold",
		Bold:     true,
		Lines:    1,
	}

	smallPage := candidate
	smallPage.Page = 1
	bigPage := candidate
	bigPage.Page = 2

	doc := &layout.Document{
		Name: "mixed.pdf",
		Pages: []layout.Page{
			{Number: 1, Blocks: []layout.TextBlock{
				bodyBlock(strings.Repeat("ten point body text ", 10), 1),
				smallPage,
			}},
			{Number: 2, Blocks: []layout.TextBlock{
				{Text: strings.Repeat("large display text ", 10), FontSize: 14, FontName: "Helvetica-Bold", Bold: true, Lines: 4, Page: 2},
				bigPage,
			}},
		},
	}

	sections := NewExtractor(DefaultConfig()).Extract(doc)

	var titles []string
	for _, s := range sections {
		if s.Title != "" {
			titles = append(titles, s.Title)
		}
	}
	if len(titles) != 1 {
		t.Fatalf("expected exactly 1 title across both pages, got %d (%v)", len(titles), titles)
	}
	if sections[0].Page != 1 {
		t.Errorf("expected the untitled lead section to start on page 1, got %d", sections[0].Page)
	}
}

func TestExtract_ReconstructsAllBodyText(t *testing.T) {
	blocks := []layout.TextBlock{
		bodyBlock("Opening paragraph before any section heading shows up here.", 1),
		titleBlock("Part One", 1),
		bodyBlock("Part one has content spanning a couple of blocks in a row.", 1),
		bodyBlock("Here is the second block belonging to the very same section.", 1),
		titleBlock("Part Two", 2),
		bodyBlock("Part two content lives on the second page of the document.", 2),
	}
	doc := &layout.Document{
		Name: "full.pdf",
		Pages: []layout.Page{
			{Number: 1, Blocks: blocks[:4]},
			{Number: 2, Blocks: blocks[4:]},
		},
	}

	sections := NewExtractor(DefaultConfig()).Extract(doc)

	var wantParts []string
	for _, b := range blocks {
		if b.Bold { // titles in this fixture
			continue
		}
		wantParts = append(wantParts, b.Text)
	}
	want := Clean(strings.Join(wantParts, " "))

	var gotParts []string
	for _, s := range sections {
		if s.Body != "" {
			gotParts = append(gotParts, s.Body)
		}
	}
	got := strings.Join(gotParts, " ")

	if got != want {
		t.Errorf("body reconstruction mismatch:\nwant %q\ngot  %q", want, got)
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello   world  ", "hello world"},
		{"line\none\n\nline two", "line one line two"},
		{"\t tabs\tand\nnewlines ", "tabs and newlines"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Clean(tt.in); got != tt.want {
			t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCombinedText(t *testing.T) {
	s := Section{Title: "Intro", Body: "Body text."}
	if got := s.CombinedText(); got != "Intro. Body text." {
		t.Errorf("unexpected combined text %q", got)
	}
	s = Section{Body: "Body only."}
	if got := s.CombinedText(); got != "Body only." {
		t.Errorf("unexpected combined text %q", got)
	}
	s = Section{Title: "Title only"}
	if got := s.CombinedText(); got != "Title only" {
		t.Errorf("unexpected combined text %q", got)
	}
}
