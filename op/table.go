package op

import (
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/index"
)

// IndexKind selects the index structure built by CreateIndex.
type IndexKind int

const (
	BTreeIndexKind IndexKind = iota
	HashIndexKind
)

// Table holds rows in an append-only slot arena. A deleted row leaves a nil
// tombstone behind so that every other row keeps its slot, which is what
// indexes store. Slots are never compacted or reused.
type Table struct {
	Name        string
	Columns     map[string]core.Column
	ColumnOrder []string
	Rows        []*core.Row
	Indexes     map[string]index.Index
	NextRowID   int
}

// NewTable builds a table from column definitions. PRIMARY KEY and UNIQUE
// columns get a B-tree index immediately so their constraints never need a
// full scan.
func NewTable(name string, columns []core.Column) (*Table, error) {
	if len(columns) == 0 {
		return nil, core.NewSchemaError("table '%s' must have at least one column", name)
	}

	table := &Table{
		Name:    name,
		Columns: make(map[string]core.Column, len(columns)),
		Indexes: make(map[string]index.Index),
	}

	for _, column := range columns {
		if _, exists := table.Columns[column.Name]; exists {
			return nil, core.NewSchemaError("duplicate column '%s' in table '%s'", column.Name, name)
		}
		table.Columns[column.Name] = column
		table.ColumnOrder = append(table.ColumnOrder, column.Name)

		if column.PrimaryKey || column.Unique {
			table.Indexes[column.Name] = index.NewBTreeIndex(column.Name, index.DefaultOrder)
		}
	}

	return table, nil
}

// Column looks up a column definition by name.
func (table *Table) Column(name string) (core.Column, bool) {
	column, ok := table.Columns[name]
	return column, ok
}

// PrimaryKey returns the primary key column, if the table has one.
func (table *Table) PrimaryKey() (core.Column, bool) {
	for _, name := range table.ColumnOrder {
		if column := table.Columns[name]; column.PrimaryKey {
			return column, true
		}
	}
	return core.Column{}, false
}

// CreateIndex builds an index over a column and populates it from live rows.
// Creating an index that already exists is a no-op.
func (table *Table) CreateIndex(column string, kind IndexKind) error {
	if _, ok := table.Columns[column]; !ok {
		return core.NewSchemaError("unknown column '%s' in table '%s'", column, table.Name)
	}
	if _, exists := table.Indexes[column]; exists {
		return nil
	}

	var idx index.Index
	if kind == HashIndexKind {
		idx = index.NewHashIndex(column)
	} else {
		idx = index.NewBTreeIndex(column, index.DefaultOrder)
	}

	for slot, row := range table.Rows {
		if row == nil {
			continue
		}
		if value := row.Get(column); !value.IsNull() {
			idx.Insert(value, slot)
		}
	}

	table.Indexes[column] = idx
	return nil
}

// Insert validates and stores a new row, returning the stored row with its
// assigned row id. Columns absent from data fall back to their default, or
// NULL when no default is declared.
func (table *Table) Insert(data map[string]core.Value) (*core.Row, error) {
	for name := range data {
		if _, ok := table.Columns[name]; !ok {
			return nil, core.NewSchemaError("unknown column '%s' in table '%s'", name, table.Name)
		}
	}

	full := make(map[string]core.Value, len(table.Columns))
	for _, name := range table.ColumnOrder {
		column := table.Columns[name]

		value, present := data[name]
		if !present {
			value = column.Default
		}

		converted, err := column.Convert(value)
		if err != nil {
			return nil, err
		}
		full[name] = converted
	}

	if err := table.validateRow(full, nil, -1); err != nil {
		return nil, err
	}

	row := core.NewRow(full, table.NextRowID)
	table.NextRowID++

	slot := len(table.Rows)
	table.Rows = append(table.Rows, row)

	for name, idx := range table.Indexes {
		if value := row.Get(name); !value.IsNull() {
			idx.Insert(value, slot)
		}
	}

	return row, nil
}

// validateRow checks constraints over a candidate row image. When only is
// non-nil, checks run just for the named columns (update mode). excludeSlot
// exempts one slot from uniqueness checks so updates do not collide with the
// row being updated.
func (table *Table) validateRow(data map[string]core.Value, only map[string]bool, excludeSlot int) error {
	for _, name := range table.ColumnOrder {
		if only != nil && !only[name] {
			continue
		}
		column := table.Columns[name]
		value := data[name]

		if err := column.Validate(value); err != nil {
			return err
		}

		if (column.PrimaryKey || column.Unique) && !value.IsNull() {
			for _, slot := range table.findSlots(name, value) {
				if slot != excludeSlot {
					label := "UNIQUE"
					if column.PrimaryKey {
						label = "PRIMARY KEY"
					}
					return core.NewConstraintError("duplicate value for %s column '%s'", label, name)
				}
			}
		}
	}
	return nil
}

// Update applies a partial set of column changes to the row at slot.
func (table *Table) Update(slot int, updates map[string]core.Value) (*core.Row, error) {
	row, err := table.rowAt(slot)
	if err != nil {
		return nil, err
	}

	staged := row.Clone()
	changed := make(map[string]bool, len(updates))
	for name, value := range updates {
		column, ok := table.Columns[name]
		if !ok {
			return nil, core.NewSchemaError("unknown column '%s' in table '%s'", name, table.Name)
		}

		converted, err := column.Convert(value)
		if err != nil {
			return nil, err
		}
		staged.Set(name, converted)
		changed[name] = true
	}

	if err := table.validateRow(staged.Data, changed, slot); err != nil {
		return nil, err
	}

	for name := range changed {
		idx, ok := table.Indexes[name]
		if !ok {
			continue
		}
		if old := row.Get(name); !old.IsNull() {
			idx.Delete(old, slot)
		}
		if next := staged.Get(name); !next.IsNull() {
			idx.Insert(next, slot)
		}
	}

	row.Data = staged.Data
	return row, nil
}

// Delete tombstones the row at slot and removes its index entries. The slot
// itself stays occupied so other rows keep their positions.
func (table *Table) Delete(slot int) error {
	row, err := table.rowAt(slot)
	if err != nil {
		return err
	}

	for name, idx := range table.Indexes {
		if value := row.Get(name); !value.IsNull() {
			idx.Delete(value, slot)
		}
	}

	table.Rows[slot] = nil
	return nil
}

func (table *Table) rowAt(slot int) (*core.Row, error) {
	if slot < 0 || slot >= len(table.Rows) || table.Rows[slot] == nil {
		return nil, core.NewExecutionError("no row at slot %d in table '%s'", slot, table.Name)
	}
	return table.Rows[slot], nil
}

// Scan returns every live row in slot order.
func (table *Table) Scan() []*core.Row {
	rows := make([]*core.Row, 0, len(table.Rows))
	for _, row := range table.Rows {
		if row != nil {
			rows = append(rows, row)
		}
	}
	return rows
}

// RowCount returns the number of live rows.
func (table *Table) RowCount() int {
	count := 0
	for _, row := range table.Rows {
		if row != nil {
			count++
		}
	}
	return count
}

// findSlots returns the slots of live rows whose column equals value, using
// an index when one covers the column.
func (table *Table) findSlots(column string, value core.Value) []int {
	if idx, ok := table.Indexes[column]; ok && !value.IsNull() {
		var live []int
		for _, slot := range idx.Search(value) {
			if slot < len(table.Rows) && table.Rows[slot] != nil {
				live = append(live, slot)
			}
		}
		return live
	}

	var slots []int
	for slot, row := range table.Rows {
		if row != nil && core.Equal(row.Get(column), value) {
			slots = append(slots, slot)
		}
	}
	return slots
}

// FindByColumn returns live rows whose column equals value.
func (table *Table) FindByColumn(column string, value core.Value) []*core.Row {
	slots := table.findSlots(column, value)
	rows := make([]*core.Row, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, table.Rows[slot])
	}
	return rows
}

// FindByRange returns live rows with lo <= column value <= hi. A B-tree
// index over the column serves the range directly; otherwise the table is
// scanned. NULLs never fall inside a range.
func (table *Table) FindByRange(column string, lo, hi core.Value) []*core.Row {
	if idx, ok := table.Indexes[column]; ok {
		if btree, ok := idx.(*index.BTreeIndex); ok {
			var rows []*core.Row
			for _, slot := range btree.RangeSearch(lo, hi) {
				if slot < len(table.Rows) && table.Rows[slot] != nil {
					rows = append(rows, table.Rows[slot])
				}
			}
			return rows
		}
	}

	var rows []*core.Row
	for _, row := range table.Rows {
		if row == nil {
			continue
		}
		value := row.Get(column)
		if value.IsNull() {
			continue
		}
		cmpLo, okLo := core.Compare(value, lo)
		cmpHi, okHi := core.Compare(value, hi)
		if okLo && okHi && cmpLo >= 0 && cmpHi <= 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
