package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Provenance records which module produced an artifact and when. It is
// written as YAML frontmatter at the top of Markdown exports.
type Provenance struct {
	Document     string
	Module       string
	Version      string
	Organization string
	Created      time.Time
}

type forgeEnvelope struct {
	Forge forgeMetadata `yaml:"ismsforge"`
}

type forgeMetadata struct {
	Document     string `yaml:"document"`
	Module       string `yaml:"module"`
	Version      string `yaml:"version"`
	Organization string `yaml:"organization,omitempty"`
	Created      string `yaml:"created"`
}

// RenderMarkdown renders the document as Markdown. When prov is non-nil the
// output starts with a fenced YAML frontmatter block.
func RenderMarkdown(doc *Document, prov *Provenance) ([]byte, error) {
	var buf bytes.Buffer
	if prov != nil {
		envelope := forgeEnvelope{Forge: forgeMetadata{
			Document:     prov.Document,
			Module:       prov.Module,
			Version:      prov.Version,
			Organization: prov.Organization,
			Created:      prov.Created.UTC().Format(time.RFC3339),
		}}
		data, err := yaml.Marshal(envelope)
		if err != nil {
			return nil, fmt.Errorf("export: encode frontmatter: %w", err)
		}
		buf.WriteString("---\n")
		buf.Write(bytes.TrimRight(data, "\n"))
		buf.WriteString("\n---\n\n")
	}
	if doc.Title != "" {
		fmt.Fprintf(&buf, "# %s\n\n", doc.Title)
	}
	for _, block := range doc.Blocks {
		switch block.Kind {
		case BlockHeading:
			fmt.Fprintf(&buf, "%s %s\n\n", strings.Repeat("#", block.Level), renderSpans(block.Spans))
		case BlockParagraph:
			fmt.Fprintf(&buf, "%s\n\n", renderSpans(block.Spans))
		case BlockBullet:
			fmt.Fprintf(&buf, "- %s\n", renderSpans(block.Spans))
		case BlockTable:
			writeTable(&buf, block.Rows)
		case BlockDivider:
			buf.WriteString("---\n\n")
		}
	}
	return buf.Bytes(), nil
}

func writeTable(buf *bytes.Buffer, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	writeRow(buf, rows[0])
	separator := make([]string, len(rows[0]))
	for i := range separator {
		separator[i] = "---"
	}
	writeRow(buf, separator)
	for _, row := range rows[1:] {
		writeRow(buf, row)
	}
	buf.WriteByte('\n')
}

func writeRow(buf *bytes.Buffer, cells []string) {
	buf.WriteString("| ")
	for i, cell := range cells {
		if i > 0 {
			buf.WriteString(" | ")
		}
		buf.WriteString(strings.ReplaceAll(cell, "|", "/"))
	}
	buf.WriteString(" |\n")
}

func renderSpans(spans []Span) string {
	var sb strings.Builder
	for _, span := range spans {
		if span.Bold {
			sb.WriteString("**")
			sb.WriteString(span.Text)
			sb.WriteString("**")
		} else {
			sb.WriteString(span.Text)
		}
	}
	return sb.String()
}
