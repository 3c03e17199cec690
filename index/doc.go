// Package index provides the two index structures tables use to find rows:
// a B-tree for ordered, range-capable lookups and a hash index for
// exact-match lookups.
//
// Both map column values to row-slot positions, which stay stable across
// deletes of other rows.
//
//	btree := index.NewBTreeIndex("age", index.DefaultOrder)
//	btree.Insert(core.NewInt(30), 0)
//	slots := btree.RangeSearch(core.NewInt(18), core.NewInt(65))
//
//	hash := index.NewHashIndex("email")
//	hash.Insert(core.NewText("a@b.c"), 0)
//	slots = hash.Search(core.NewText("a@b.c"))
package index
