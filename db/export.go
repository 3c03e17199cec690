package db

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
)

// ExportTableCSV writes a table to dest as CSV: a header row of column names
// followed by one record per live row. NULL becomes the empty field. The
// destination may be a local path or a file://, http(s)://, or s3:// URL.
func (engine *Engine) ExportTableCSV(tableName, dest string, cfg *S3Config) error {
	table, err := engine.table(tableName)
	if err != nil {
		return err
	}

	w, err := openRemoteWriter(dest, cfg)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(table.ColumnOrder); err != nil {
		w.Close()
		return err
	}

	for _, row := range table.Scan() {
		record := make([]string, len(table.ColumnOrder))
		for i, column := range table.ColumnOrder {
			if value := row.Get(column); !value.IsNull() {
				record[i] = value.String()
			}
		}
		if err := writer.Write(record); err != nil {
			w.Close()
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// ImportTableCSV inserts rows from a CSV source into an existing table. The
// header row names the target columns; empty fields import as NULL and
// everything else as text, so column types drive the conversion. Returns the
// number of rows inserted.
func (engine *Engine) ImportTableCSV(tableName, src string, cfg *S3Config) (int, error) {
	table, err := engine.table(tableName)
	if err != nil {
		return 0, err
	}

	r, err := openRemoteReader(src, cfg)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, core.NewExecutionError("CSV source '%s' is empty", src)
		}
		return 0, err
	}

	count := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, err
		}

		data := make(map[string]core.Value, len(header))
		for i, column := range header {
			if i < len(record) && record[i] != "" {
				data[column] = core.NewText(record[i])
			}
		}

		if _, err := table.Insert(data); err != nil {
			return count, err
		}
		count++
	}

	if err := engine.Database.Save(); err != nil {
		return count, err
	}
	return count, nil
}
