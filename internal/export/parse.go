package export

import "strings"

// ParseMarkdown converts Markdown text into a Document with a single-pass,
// line-oriented scan. Handled: `#`..`###` headings, `*`/`-` bullets,
// pipe-delimited table rows with two or more cells, `---`/`***` dividers,
// blank-line paragraph breaks, and `**bold**` inline markup. Nested lists,
// links, and escapes are not interpreted; a line matching no rule becomes
// paragraph text with only bold spans resolved. Used to lay out LLM-drafted
// narrative text, so best-effort is the right contract here.
func ParseMarkdown(text string) *Document {
	doc := &Document{}
	var paragraph []string
	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		doc.Para(strings.Join(paragraph, " "))
		paragraph = paragraph[:0]
	}

	var tableRows [][]string
	flushTable := func() {
		if len(tableRows) == 0 {
			return
		}
		doc.Table(tableRows...)
		tableRows = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		cells := splitTableRow(line)
		if cells == nil {
			flushTable()
		}
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "###"):
			flush()
			doc.Heading(3, strings.TrimSpace(strings.TrimPrefix(line, "###")))
		case strings.HasPrefix(line, "##"):
			flush()
			doc.Heading(2, strings.TrimSpace(strings.TrimPrefix(line, "##")))
		case strings.HasPrefix(line, "#"):
			flush()
			doc.Heading(1, strings.TrimSpace(strings.TrimPrefix(line, "#")))
		case strings.HasPrefix(line, "* "), strings.HasPrefix(line, "- "):
			flush()
			doc.Bullet(strings.TrimSpace(line[2:]))
		case cells != nil:
			flush()
			if isTableSeparator(cells) {
				break
			}
			tableRows = append(tableRows, cells)
		case line == "---" || line == "***":
			flush()
			doc.Divider()
		default:
			paragraph = append(paragraph, line)
		}
	}
	flush()
	flushTable()
	return doc
}

// splitTableRow returns the cells of a pipe-delimited line, or nil when the
// line is not a table row (fewer than two cells).
func splitTableRow(line string) []string {
	if !strings.Contains(line, "|") {
		return nil
	}
	trimmed := strings.Trim(line, "|")
	parts := strings.Split(trimmed, "|")
	if len(parts) < 2 {
		return nil
	}
	cells := make([]string, len(parts))
	for i, part := range parts {
		cells[i] = strings.TrimSpace(part)
	}
	return cells
}

// isTableSeparator recognizes the `| --- | --- |` alignment row so it never
// surfaces as data.
func isTableSeparator(cells []string) bool {
	for _, cell := range cells {
		stripped := strings.Trim(cell, ":-")
		if stripped != "" || !strings.Contains(cell, "-") {
			return false
		}
	}
	return true
}
