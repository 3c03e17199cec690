package index

import (
	"sort"
	"testing"

	"gotest.tools/assert"

	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
)

func TestBTreeInsertAndSearch(t *testing.T) {
	btree := NewBTreeIndex("age", DefaultOrder)

	for slot, age := range []int64{30, 18, 25, 42, 60, 7, 91, 3} {
		btree.Insert(core.NewInt(age), slot)
	}

	assert.Equal(t, btree.Size(), 8)
	assert.DeepEqual(t, btree.Search(core.NewInt(42)), []int{3})
	assert.DeepEqual(t, btree.Search(core.NewInt(3)), []int{7})
	assert.Assert(t, len(btree.Search(core.NewInt(99))) == 0)
}

func TestBTreeSearchSurvivesSplits(t *testing.T) {
	btree := NewBTreeIndex("id", DefaultOrder)

	// Enough distinct keys to force several levels of splits.
	for i := 0; i < 200; i++ {
		btree.Insert(core.NewInt(int64(i*7%200)), i)
	}

	for i := 0; i < 200; i++ {
		key := int64(i * 7 % 200)
		assert.DeepEqual(t, btree.Search(core.NewInt(key)), []int{i})
	}
}

func TestBTreeRangeSearch(t *testing.T) {
	btree := NewBTreeIndex("age", DefaultOrder)

	for slot := 0; slot < 20; slot++ {
		btree.Insert(core.NewInt(int64(slot)), slot)
	}

	assert.DeepEqual(t, sorted(btree.RangeSearch(core.NewInt(5), core.NewInt(9))), []int{5, 6, 7, 8, 9})

	// Bounds are inclusive on both ends.
	assert.DeepEqual(t, sorted(btree.RangeSearch(core.NewInt(19), core.NewInt(100))), []int{19})
	assert.DeepEqual(t, sorted(btree.RangeSearch(core.NewInt(-10), core.NewInt(0))), []int{0})

	assert.Assert(t, len(btree.RangeSearch(core.NewInt(40), core.NewInt(50))) == 0)
}

func TestBTreeRangeSearchMatchesScan(t *testing.T) {
	btree := NewBTreeIndex("n", DefaultOrder)

	keys := make([]int64, 0, 100)
	for i := 0; i < 100; i++ {
		key := int64(i * 13 % 40) // duplicates on purpose
		keys = append(keys, key)
		btree.Insert(core.NewInt(key), i)
	}

	bounds := [][2]int64{{0, 39}, {5, 9}, {10, 10}, {-5, 3}, {38, 90}, {90, 99}}
	for _, b := range bounds {
		var expected []int
		for slot, key := range keys {
			if key >= b[0] && key <= b[1] {
				expected = append(expected, slot)
			}
		}
		actual := sorted(btree.RangeSearch(core.NewInt(b[0]), core.NewInt(b[1])))
		assert.DeepEqual(t, actual, sorted(expected))
	}
}

func TestBTreeDelete(t *testing.T) {
	btree := NewBTreeIndex("age", DefaultOrder)

	btree.Insert(core.NewInt(10), 0)
	btree.Insert(core.NewInt(10), 1)
	btree.Insert(core.NewInt(20), 2)

	// Only the (key, slot) pair goes away, the duplicate stays.
	btree.Delete(core.NewInt(10), 0)
	assert.Equal(t, btree.Size(), 2)
	assert.DeepEqual(t, sorted(btree.RangeSearch(core.NewInt(10), core.NewInt(10))), []int{1})

	// Deleting a missing pair changes nothing.
	btree.Delete(core.NewInt(10), 0)
	assert.Equal(t, btree.Size(), 2)

	btree.Delete(core.NewInt(20), 2)
	assert.Assert(t, len(btree.Search(core.NewInt(20))) == 0)
}

func TestBTreeMixedTypeKeys(t *testing.T) {
	btree := NewBTreeIndex("score", DefaultOrder)

	btree.Insert(core.NewInt(10), 0)
	btree.Insert(core.NewFloat(10.5), 1)
	btree.Insert(core.NewFloat(10.0), 2)

	// INT and FLOAT interoperate: 10 and 10.0 are the same key.
	assert.DeepEqual(t, sorted(btree.RangeSearch(core.NewInt(10), core.NewInt(10))), []int{0, 2})
	assert.DeepEqual(t, sorted(btree.RangeSearch(core.NewInt(10), core.NewInt(11))), []int{0, 1, 2})
}

func TestBTreeSerializeRoundTrip(t *testing.T) {
	btree := NewBTreeIndex("age", DefaultOrder)
	for slot := 0; slot < 25; slot++ {
		btree.Insert(core.NewInt(int64(slot%7)), slot)
	}

	serialized := btree.Serialize()
	assert.Equal(t, serialized.ColumnName, "age")
	assert.Equal(t, serialized.Order, DefaultOrder)
	assert.Equal(t, serialized.Size, 25)
	assert.Equal(t, len(serialized.Entries), 25)

	restored := Deserialize(serialized)
	_, ok := restored.(*BTreeIndex)
	assert.Assert(t, ok)
	assert.Equal(t, restored.ColumnName(), "age")
	assert.Equal(t, restored.Size(), 25)

	for key := int64(0); key < 7; key++ {
		assert.DeepEqual(t,
			sorted(restored.(*BTreeIndex).RangeSearch(core.NewInt(key), core.NewInt(key))),
			sorted(btree.RangeSearch(core.NewInt(key), core.NewInt(key))))
	}
}

func sorted(slots []int) []int {
	out := append([]int(nil), slots...)
	sort.Ints(out)
	return out
}
