// Package export turns module state into downloadable artifacts. Modules
// build a structured Document (headings, paragraphs, bullets, tables,
// dividers, bold inline spans) and render it to Markdown or CSV; the
// structured model is also the seam where a Word writer would attach, so no
// module ever deals with an output format directly.
package export

import (
	"regexp"
	"strings"
)

// BlockKind identifies a document block type.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockBullet    BlockKind = "bullet"
	BlockTable     BlockKind = "table"
	BlockDivider   BlockKind = "divider"
)

// Span is a run of text with optional bold emphasis. Bold is the only inline
// markup the document model carries.
type Span struct {
	Text string
	Bold bool
}

// Block is one element of a document.
type Block struct {
	Kind  BlockKind
	Level int    // heading depth, 1..3
	Spans []Span // heading, paragraph, and bullet text
	Rows  [][]string
}

// Text flattens the block's spans to plain text.
func (b Block) Text() string {
	var sb strings.Builder
	for _, span := range b.Spans {
		sb.WriteString(span.Text)
	}
	return sb.String()
}

// Document is a format-independent export artifact.
type Document struct {
	Title  string
	Blocks []Block
}

// Heading appends a heading block. Depth is clamped to 1..3.
func (d *Document) Heading(level int, text string) {
	if level < 1 {
		level = 1
	}
	if level > 3 {
		level = 3
	}
	d.Blocks = append(d.Blocks, Block{Kind: BlockHeading, Level: level, Spans: BoldSpans(text)})
}

// Para appends a paragraph block, resolving bold markup.
func (d *Document) Para(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockParagraph, Spans: BoldSpans(text)})
}

// Bullet appends a bullet item.
func (d *Document) Bullet(text string) {
	d.Blocks = append(d.Blocks, Block{Kind: BlockBullet, Spans: BoldSpans(text)})
}

// Table appends a table; the first row is rendered as the header.
func (d *Document) Table(rows ...[]string) {
	if len(rows) == 0 {
		return
	}
	d.Blocks = append(d.Blocks, Block{Kind: BlockTable, Rows: rows})
}

// Divider appends a horizontal rule.
func (d *Document) Divider() {
	d.Blocks = append(d.Blocks, Block{Kind: BlockDivider})
}

// PlainText returns all block text concatenated with newlines. Used by tests
// and previews; rendering goes through RenderMarkdown.
func (d *Document) PlainText() string {
	var sb strings.Builder
	for _, block := range d.Blocks {
		switch block.Kind {
		case BlockTable:
			for _, row := range block.Rows {
				sb.WriteString(strings.Join(row, " "))
				sb.WriteByte('\n')
			}
		case BlockDivider:
		default:
			sb.WriteString(block.Text())
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

var boldPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)

// BoldSpans splits text into spans, resolving **bold** markup. Unterminated
// markers are left as literal text; nothing else is interpreted.
func BoldSpans(text string) []Span {
	if text == "" {
		return nil
	}
	matches := boldPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Span{{Text: text}}
	}
	var spans []Span
	cursor := 0
	for _, m := range matches {
		if m[0] > cursor {
			spans = append(spans, Span{Text: text[cursor:m[0]]})
		}
		spans = append(spans, Span{Text: text[m[2]:m[3]], Bold: true})
		cursor = m[1]
	}
	if cursor < len(text) {
		spans = append(spans, Span{Text: text[cursor:]})
	}
	return spans
}
