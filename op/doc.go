// Package op implements the storage operations of pesadb: typed tables with
// constraint enforcement and index maintenance, and the database catalog
// that binds them to a persistence layer.
//
// Rows live in an append-only slot arena. Deleting a row leaves a nil
// tombstone so every other row keeps its slot, which is the position indexes
// record. Row ids increase monotonically and are never reused.
//
//	database, err := op.OpenDatabase(&persistence)
//	table, err := database.CreateTable("users", []core.Column{
//	    {Name: "id", Type: core.IntType, PrimaryKey: true},
//	    {Name: "name", Type: core.VarcharType, Length: 50, Nullable: true},
//	})
//	row, err := table.Insert(map[string]core.Value{
//	    "id":   core.NewInt(1),
//	    "name": core.NewText("alice"),
//	})
package op
