package ps

import (
	"time"

	"github.com/google/uuid"

	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/index"
)

// Snapshot is the full on-disk image of a database. A fresh revision id is
// stamped on every save so that archive history entries can be correlated
// with the snapshot that produced them.
type Snapshot struct {
	Name      string                   `json:"name"`
	CreatedAt time.Time                `json:"created_at"`
	Revision  string                   `json:"revision"`
	Tables    map[string]TableSnapshot `json:"tables"`
}

// TableSnapshot captures one table: its schema, its row arena, and its
// serialized indexes. Nil entries in Rows are tombstones and must survive the
// round trip so that row-slot positions stay stable.
type TableSnapshot struct {
	Name        string                      `json:"name"`
	Columns     []core.Column               `json:"columns"`
	ColumnOrder []string                    `json:"column_order"`
	Rows        []*core.Row                 `json:"rows"`
	Indexes     map[string]index.Serialized `json:"indexes"`
	NextRowID   int                         `json:"next_row_id"`
}

func NewSnapshot(name string, tables map[string]TableSnapshot) *Snapshot {
	return &Snapshot{
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Revision:  uuid.NewString(),
		Tables:    tables,
	}
}
