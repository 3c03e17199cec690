package db

import (
	"fmt"
	"io"

	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
)

// QueryResult carries the outcome of one statement. Selects fill Columns and
// Rows; mutations fill Message and leave the row set empty.
type QueryResult struct {
	Columns  []string
	Rows     []map[string]core.Value
	RowCount int
	Message  string
}

// Display renders the result for an interactive front end.
func (result QueryResult) Display(w io.Writer) {
	if result.Message != "" {
		fmt.Fprintln(w, result.Message)
		return
	}

	if len(result.Columns) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}

	table := NewTextTable(w)
	table.Header(result.Columns)
	for _, row := range result.Rows {
		cells := make([]string, len(result.Columns))
		for i, column := range result.Columns {
			cells[i] = row[column].String()
		}
		table.Row(cells)
	}
	table.Render()

	fmt.Fprintf(w, "%d row(s)\n", result.RowCount)
}
