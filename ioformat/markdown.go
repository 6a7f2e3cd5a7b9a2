package ioformat

import (
	"io"
	"strings"

	"github.com/golin/golin/internal/obj"
)

// MarkdownPrinter prints the result as a markdown table. If the rows do not
// have a uniform number of fields the output may not be valid markdown, but
// extra cells are printed rather than silently discarded.
type MarkdownPrinter struct{}

func (p *MarkdownPrinter) Print(w io.Writer, result interface{}, cfg PrinterConfig) error {
	if obj.IsUndefined(result) {
		return nil
	}
	t := toTable(result, cfg.Header)

	// Buffer the first rows to size the columns, then continue streaming.
	var preview [][]Cell
	for len(preview) < 10 {
		row, ok := t.rows()
		if !ok {
			break
		}
		preview = append(preview, row)
	}
	if len(t.header) == 0 && len(preview) == 0 {
		return nil
	}
	widths := allocateWidths(t.header, preview, cfg.width())

	if len(t.header) > 0 {
		if err := writeMarkdownRow(w, t.header, widths); err != nil {
			return err
		}
		rule := make([]string, len(widths))
		for i, width := range widths {
			rule[i] = strings.Repeat("-", width)
		}
		if _, err := io.WriteString(w, "| "+strings.Join(rule, " | ")+" |\n"); err != nil {
			return err
		}
	}
	for _, row := range preview {
		if err := writeMarkdownCells(w, row, widths); err != nil {
			return err
		}
	}
	for {
		row, ok := t.rows()
		if !ok {
			return nil
		}
		if err := writeMarkdownCells(w, row, widths); err != nil {
			return err
		}
	}
}

// allocateWidths distributes the available width among the columns: columns
// narrower than their fair share keep their natural width, and whatever
// remains is divided among the wide ones.
func allocateWidths(header []string, preview [][]Cell, available int) []int {
	columns := len(header)
	for _, row := range preview {
		if len(row) > columns {
			columns = len(row)
		}
	}
	if columns == 0 {
		return nil
	}
	// Subtract the characters used by the markdown table borders.
	available -= 2 + 3*(columns-1) + 2

	lens := make(map[int]int, columns)
	for i := 0; i < columns; i++ {
		n := 0
		if i < len(header) {
			n = len(header[i])
		}
		for _, row := range preview {
			if i < len(row) && len(row[i].Text) > n {
				n = len(row[i].Text)
			}
		}
		lens[i] = n
	}

	widths := make([]int, columns)
	remaining := available
	for len(lens) > 0 {
		var settled []int
		for i, length := range lens {
			if length*len(lens) < remaining {
				widths[i] = length
				settled = append(settled, i)
			}
		}
		if len(settled) == 0 {
			// The rest of the columns all overflow; split the space evenly.
			divided := remaining / len(lens)
			remainder := remaining % len(lens)
			for i := range lens {
				if i < remainder {
					widths[i] = divided + 1
				} else {
					widths[i] = divided
				}
			}
			break
		}
		for _, i := range settled {
			delete(lens, i)
		}
		used := 0
		for _, w := range widths {
			used += w
		}
		remaining = available - used
		if remaining <= 0 {
			break
		}
	}
	for i, w := range widths {
		if w < 1 {
			widths[i] = 1
		}
	}
	return widths
}

func writeMarkdownCells(w io.Writer, row []Cell, widths []int) error {
	texts := make([]string, len(row))
	for i, cell := range row {
		texts[i] = cell.Text
	}
	return writeMarkdownRow(w, texts, widths)
}

// writeMarkdownRow writes one logical row, wrapping over-wide cells onto
// continuation lines marked with ":" borders.
func writeMarkdownRow(w io.Writer, texts []string, widths []int) error {
	lines := make([][]string, len(texts))
	height := 1
	for i, text := range texts {
		if i < len(widths) {
			lines[i] = wrapText(text, widths[i])
		} else {
			lines[i] = []string{text}
		}
		if len(lines[i]) > height {
			height = len(lines[i])
		}
	}
	var sb strings.Builder
	for ln := 0; ln < height; ln++ {
		border := "|"
		if ln > 0 {
			border = ":"
		}
		sb.Reset()
		sb.WriteString(border)
		for i := range texts {
			cell := ""
			if ln < len(lines[i]) {
				cell = lines[i][ln]
			}
			width := 0
			if i < len(widths) {
				width = widths[i]
			}
			sb.WriteString(" ")
			sb.WriteString(cell)
			for pad := len(cell); pad < width; pad++ {
				sb.WriteString(" ")
			}
			sb.WriteString(" ")
			sb.WriteString(border)
		}
		sb.WriteString("\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// wrapText greedily wraps text to the given width, breaking on spaces where
// possible and mid-word otherwise.
func wrapText(text string, width int) []string {
	if width < 1 || len(text) <= width {
		return []string{text}
	}
	var lines []string
	for len(text) > width {
		cut := width
		if i := strings.LastIndexByte(text[:width+1], ' '); i > 0 {
			cut = i + 1
		}
		lines = append(lines, text[:cut])
		text = text[cut:]
	}
	lines = append(lines, text)
	return lines
}
