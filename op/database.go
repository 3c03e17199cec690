package op

import (
	"errors"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/index"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/ps"
)

// Database is the in-memory catalog of tables, bound to a persistence layer.
// Mutating operations save a fresh snapshot before returning.
type Database struct {
	Name        string
	Tables      map[string]*Table
	Persistence *ps.Persistence
}

// OpenDatabase binds a database to its persistence layer, loading the
// existing snapshot when one is present.
func OpenDatabase(persistence *ps.Persistence) (*Database, error) {
	database := &Database{
		Name:        persistence.Name(),
		Tables:      make(map[string]*Table),
		Persistence: persistence,
	}

	if err := database.Load(); err != nil && !errors.Is(err, ps.ErrNoSnapshot) {
		return nil, err
	}

	return database, nil
}

func (database *Database) CreateTable(name string, columns []core.Column) (*Table, error) {
	if _, exists := database.Tables[name]; exists {
		return nil, core.NewSchemaError("table '%s' already exists", name)
	}

	table, err := NewTable(name, columns)
	if err != nil {
		return nil, err
	}

	database.Tables[name] = table
	if err := database.Save(); err != nil {
		delete(database.Tables, name)
		return nil, err
	}

	return table, nil
}

func (database *Database) DropTable(name string) error {
	if _, exists := database.Tables[name]; !exists {
		return core.NewSchemaError("table '%s' does not exist", name)
	}

	delete(database.Tables, name)
	return database.Save()
}

func (database *Database) GetTable(name string) (*Table, bool) {
	table, ok := database.Tables[name]
	return table, ok
}

func (database *Database) TableExists(name string) bool {
	_, ok := database.Tables[name]
	return ok
}

// ListTables returns table names in sorted order.
func (database *Database) ListTables() []string {
	names := make([]string, 0, len(database.Tables))
	for name := range database.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Save writes the current state as a new snapshot revision.
func (database *Database) Save() error {
	tables := make(map[string]ps.TableSnapshot, len(database.Tables))
	for name, table := range database.Tables {
		tables[name] = snapshotTable(table)
	}

	return database.Persistence.WriteSnapshot(ps.NewSnapshot(database.Name, tables))
}

// Load replaces the in-memory state with the persisted snapshot.
func (database *Database) Load() error {
	snapshot, err := database.Persistence.ReadSnapshot()
	if err != nil {
		return err
	}

	return database.restore(snapshot)
}

// RestoreRevision rewinds the database to an archived snapshot revision.
func (database *Database) RestoreRevision(id string) error {
	snapshot, err := database.Persistence.RestoreRevision(id)
	if err != nil {
		return err
	}

	return database.restore(snapshot)
}

func (database *Database) restore(snapshot *ps.Snapshot) error {
	tables := make(map[string]*Table, len(snapshot.Tables))
	for name, ts := range snapshot.Tables {
		table, err := tableFromSnapshot(ts)
		if err != nil {
			return err
		}
		tables[name] = table
	}

	database.Tables = tables
	return nil
}

func snapshotTable(table *Table) ps.TableSnapshot {
	columns := make([]core.Column, 0, len(table.ColumnOrder))
	for _, name := range table.ColumnOrder {
		columns = append(columns, table.Columns[name])
	}

	indexes := make(map[string]index.Serialized, len(table.Indexes))
	for name, idx := range table.Indexes {
		indexes[name] = idx.Serialize()
	}

	return ps.TableSnapshot{
		Name:        table.Name,
		Columns:     columns,
		ColumnOrder: append([]string(nil), table.ColumnOrder...),
		Rows:        append([]*core.Row(nil), table.Rows...),
		Indexes:     indexes,
		NextRowID:   table.NextRowID,
	}
}

func tableFromSnapshot(ts ps.TableSnapshot) (*Table, error) {
	table := &Table{
		Name:      ts.Name,
		Columns:   make(map[string]core.Column, len(ts.Columns)),
		Rows:      append([]*core.Row(nil), ts.Rows...),
		Indexes:   make(map[string]index.Index, len(ts.Indexes)),
		NextRowID: ts.NextRowID,
	}

	for _, column := range ts.Columns {
		if _, exists := table.Columns[column.Name]; exists {
			return nil, core.NewSchemaError("duplicate column '%s' in snapshot of table '%s'", column.Name, ts.Name)
		}
		table.Columns[column.Name] = column
	}

	if len(ts.ColumnOrder) > 0 {
		table.ColumnOrder = append([]string(nil), ts.ColumnOrder...)
	} else {
		for _, column := range ts.Columns {
			table.ColumnOrder = append(table.ColumnOrder, column.Name)
		}
	}

	for name, serialized := range ts.Indexes {
		table.Indexes[name] = index.Deserialize(serialized)
	}

	return table, nil
}

// Stats summarizes the catalog for diagnostic front ends.
type Stats struct {
	Name   string                `json:"name"`
	Tables map[string]TableStats `json:"tables"`
}

type TableStats struct {
	Columns int     `json:"columns"`
	Rows    int     `json:"rows"`
	Indexes int     `json:"indexes"`
	SizeKB  float64 `json:"size_kb"`
}

// Stats reports per-table row, column, and index counts plus the approximate
// serialized size of each table.
func (database *Database) Stats() Stats {
	stats := Stats{
		Name:   database.Name,
		Tables: make(map[string]TableStats, len(database.Tables)),
	}

	for name, table := range database.Tables {
		size := 0
		if data, err := json.Marshal(snapshotTable(table)); err == nil {
			size = len(data)
		}

		stats.Tables[name] = TableStats{
			Columns: len(table.Columns),
			Rows:    table.RowCount(),
			Indexes: len(table.Indexes),
			SizeKB:  float64(size) / 1024,
		}
	}

	return stats
}
