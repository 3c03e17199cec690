package core

// Row is one stored record. RowID is assigned once at insert time and never
// reused, even after the row is deleted.
type Row struct {
	RowID int              `json:"row_id"`
	Data  map[string]Value `json:"data"`
}

func NewRow(data map[string]Value, rowID int) *Row {
	return &Row{RowID: rowID, Data: data}
}

// Get returns the value stored under a column name, or NULL when absent.
func (row *Row) Get(column string) Value {
	if v, ok := row.Data[column]; ok {
		return v
	}
	return Null()
}

func (row *Row) Set(column string, value Value) {
	row.Data[column] = value
}

// Clone copies the row so callers can stage changes without mutating storage.
func (row *Row) Clone() *Row {
	data := make(map[string]Value, len(row.Data))
	for k, v := range row.Data {
		data[k] = v
	}
	return &Row{RowID: row.RowID, Data: data}
}
