package index

import (
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
)

// Index is the contract shared by the B-tree and hash implementations.
// Entries map a column value to the row-slot positions currently holding it;
// tables must remove entries on delete and keep them current on update.
type Index interface {
	ColumnName() string
	Size() int
	Insert(key core.Value, slot int)
	Search(key core.Value) []int
	Delete(key core.Value, slot int)
	Serialize() Serialized
}

// Entry is one serialized (key, row slot) pair of a B-tree index.
type Entry struct {
	Key  core.Value `json:"key"`
	Slot int        `json:"slot"`
}

// Serialized is the snapshot form of either index kind. The presence of the
// order field is the discriminant: B-tree serializations carry it, hash
// serializations do not.
type Serialized struct {
	ColumnName string           `json:"column_name"`
	Order      int              `json:"order,omitempty"`
	Size       int              `json:"size,omitempty"`
	Entries    []Entry          `json:"entries,omitempty"`
	Buckets    map[string][]int `json:"index,omitempty"`
}

// Deserialize rebuilds an index from its snapshot form.
func Deserialize(s Serialized) Index {
	if s.Order > 0 {
		btree := NewBTreeIndex(s.ColumnName, s.Order)
		for _, entry := range s.Entries {
			btree.Insert(entry.Key, entry.Slot)
		}
		return btree
	}

	hash := NewHashIndex(s.ColumnName)
	for bucket, slots := range s.Buckets {
		hash.buckets[bucket] = append([]int(nil), slots...)
	}
	return hash
}
