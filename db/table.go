package db

import (
	"fmt"
	"io"
	"strings"
)

// TextTable renders rows as an ASCII grid.
type TextTable struct {
	writer  io.Writer
	headers []string
	rows    [][]string
}

func NewTextTable(w io.Writer) *TextTable {
	return &TextTable{writer: w}
}

// Header sets the column headers
func (t *TextTable) Header(headers []string) {
	t.headers = headers
}

// Row adds a single row
func (t *TextTable) Row(row []string) {
	t.rows = append(t.rows, row)
}

// Render writes the formatted grid
func (t *TextTable) Render() {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return
	}

	widths := t.columnWidths()
	separator := t.separator(widths)

	fmt.Fprintln(t.writer, separator)
	if len(t.headers) > 0 {
		fmt.Fprintln(t.writer, t.formatRow(t.headers, widths))
		fmt.Fprintln(t.writer, separator)
	}
	for _, row := range t.rows {
		fmt.Fprintln(t.writer, t.formatRow(row, widths))
	}
	fmt.Fprintln(t.writer, separator)
}

func (t *TextTable) columnWidths() []int {
	count := len(t.headers)
	for _, row := range t.rows {
		if len(row) > count {
			count = len(row)
		}
	}

	widths := make([]int, count)
	measure := func(row []string) {
		for i, cell := range row {
			if i < count && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}

	for i := range widths {
		if widths[i] < 1 {
			widths[i] = 1
		}
	}
	return widths
}

func (t *TextTable) separator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w+2)
	}
	return "+" + strings.Join(parts, "+") + "+"
}

func (t *TextTable) formatRow(row []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		parts[i] = " " + cell + strings.Repeat(" ", w-len(cell)+1)
	}
	return "|" + strings.Join(parts, "|") + "|"
}
