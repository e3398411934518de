package layout

// TextBlock is one visually cohesive run of text on a page, with the
// styling signals needed to tell headings from body content. Blocks are
// produced by the format parsers and consumed by the section extractor.
type TextBlock struct {
	Text     string  // Raw text content of the block
	FontSize float64 // Point size (or synthetic size for non-PDF formats)
	FontName string  // Font family name, e.g. "Helvetica-Bold"
	Bold     bool    // Whether the block is rendered bold
	Lines    int     // Number of visual lines the block spans
	Page     int     // 1-based source page
}

// Page is the ordered list of blocks on one page, already in reading order.
type Page struct {
	Number int
	Blocks []TextBlock
}

// Document is a fully parsed document: pages of positioned text blocks.
type Document struct {
	Name  string // Source filename
	Pages []Page
}

// BlockCount returns the total number of text blocks across all pages.
func (d *Document) BlockCount() int {
	n := 0
	for _, p := range d.Pages {
		n += len(p.Blocks)
	}
	return n
}

// StyleKey is a font signature used for dominant-style bookkeeping.
type StyleKey struct {
	Font string
	Bold bool
}

// Style returns the block's font signature.
func (b TextBlock) Style() StyleKey {
	return StyleKey{Font: b.FontName, Bold: b.Bold}
}

// WordCount returns the number of whitespace-separated words in the block.
func (b TextBlock) WordCount() int {
	n := 0
	inWord := false
	for _, r := range b.Text {
		switch r {
		case ' ', '\t', '\n', '\r':
			inWord = false
		default:
			if !inWord {
				n++
			}
			inWord = true
		}
	}
	return n
}
