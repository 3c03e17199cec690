package index

import (
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
)

// HashIndex maps column values to row-slot positions for exact-match
// lookups. Average O(1) insert, search, and delete; no range support.
type HashIndex struct {
	column  string
	buckets map[string][]int
}

func NewHashIndex(column string) *HashIndex {
	return &HashIndex{
		column:  column,
		buckets: make(map[string][]int),
	}
}

func (index *HashIndex) ColumnName() string {
	return index.column
}

func (index *HashIndex) Size() int {
	total := 0
	for _, slots := range index.buckets {
		total += len(slots)
	}
	return total
}

func (index *HashIndex) Insert(key core.Value, slot int) {
	bucket := key.Key()
	index.buckets[bucket] = append(index.buckets[bucket], slot)
}

func (index *HashIndex) Search(key core.Value) []int {
	return index.buckets[key.Key()]
}

func (index *HashIndex) Delete(key core.Value, slot int) {
	bucket := key.Key()
	slots, ok := index.buckets[bucket]
	if !ok {
		return
	}

	for i, s := range slots {
		if s == slot {
			slots = append(slots[:i], slots[i+1:]...)
			break
		}
	}

	if len(slots) == 0 {
		delete(index.buckets, bucket)
	} else {
		index.buckets[bucket] = slots
	}
}

func (index *HashIndex) Serialize() Serialized {
	buckets := make(map[string][]int, len(index.buckets))
	for key, slots := range index.buckets {
		buckets[key] = append([]int(nil), slots...)
	}
	return Serialized{
		ColumnName: index.column,
		Buckets:    buckets,
	}
}
