package index

import (
	"github.com/joycemuthiani/The-Pesapal-Junior-Dev-Challenge-26/core"
)

// DefaultOrder is the branching order used for indexes created by tables.
const DefaultOrder = 3

type btreeNode struct {
	leaf     bool
	keys     []core.Value
	slots    []int
	children []*btreeNode
}

func newBTreeNode(leaf bool) *btreeNode {
	return &btreeNode{leaf: leaf}
}

// full reports whether the node holds the maximum 2*order-1 entries.
func (node *btreeNode) full(order int) bool {
	return len(node.keys) >= 2*order-1
}

// BTreeIndex maps ordered column values to row-slot positions. It supports
// range queries in addition to exact lookups.
//
// Deletion is a deliberate simplification: a single entry is excised from
// the first node holding it, without rebalancing or merging. After many
// deletes Size only approximates true occupancy. Callers that need a fully
// rebalanced tree must rebuild the index.
type BTreeIndex struct {
	column string
	order  int
	root   *btreeNode
	size   int
}

func NewBTreeIndex(column string, order int) *BTreeIndex {
	if order < 2 {
		order = DefaultOrder
	}
	return &BTreeIndex{
		column: column,
		order:  order,
		root:   newBTreeNode(true),
	}
}

func (index *BTreeIndex) ColumnName() string {
	return index.column
}

func (index *BTreeIndex) Order() int {
	return index.order
}

func (index *BTreeIndex) Size() int {
	return index.size
}

// Search returns every row slot recorded under key. On an exact match in an
// internal node the walk both takes that entry and continues into the
// right-hand child, since duplicate keys may be split across subtrees.
func (index *BTreeIndex) Search(key core.Value) []int {
	return searchNode(index.root, key)
}

func searchNode(node *btreeNode, key core.Value) []int {
	i := 0
	for i < len(node.keys) && core.Less(node.keys[i], key) {
		i++
	}

	if i < len(node.keys) && core.Equal(node.keys[i], key) {
		if node.leaf {
			return []int{node.slots[i]}
		}
		return append([]int{node.slots[i]}, searchNode(node.children[i+1], key)...)
	}
	if node.leaf {
		return nil
	}
	return searchNode(node.children[i], key)
}

// RangeSearch returns the slots of every entry with lo <= key <= hi. The
// walk prunes a subtree only when its bounding separators prove it cannot
// intersect the range, so no qualifying entry is ever skipped.
func (index *BTreeIndex) RangeSearch(lo, hi core.Value) []int {
	var result []int
	rangeSearchNode(index.root, lo, hi, &result)
	return result
}

func rangeSearchNode(node *btreeNode, lo, hi core.Value, result *[]int) {
	for i, key := range node.keys {
		if !core.Less(key, lo) && !core.Less(hi, key) {
			*result = append(*result, node.slots[i])
		}
		// children[i] holds keys bounded above by keys[i] and below by
		// keys[i-1].
		if !node.leaf && !core.Less(key, lo) && (i == 0 || !core.Less(hi, node.keys[i-1])) {
			rangeSearchNode(node.children[i], lo, hi, result)
		}
	}

	if !node.leaf && (len(node.keys) == 0 || !core.Less(hi, node.keys[len(node.keys)-1])) {
		rangeSearchNode(node.children[len(node.children)-1], lo, hi, result)
	}
}

// Insert records a (key, slot) entry, splitting full nodes on the way down
// so that no recursion ever lands in a full node.
func (index *BTreeIndex) Insert(key core.Value, slot int) {
	if index.root.full(index.order) {
		newRoot := newBTreeNode(false)
		newRoot.children = append(newRoot.children, index.root)
		index.splitChild(newRoot, 0)
		index.root = newRoot
	}

	index.insertNonFull(index.root, key, slot)
	index.size++
}

func (index *BTreeIndex) insertNonFull(node *btreeNode, key core.Value, slot int) {
	i := len(node.keys) - 1

	if node.leaf {
		node.keys = append(node.keys, core.Null())
		node.slots = append(node.slots, 0)

		for i >= 0 && core.Less(key, node.keys[i]) {
			node.keys[i+1] = node.keys[i]
			node.slots[i+1] = node.slots[i]
			i--
		}
		node.keys[i+1] = key
		node.slots[i+1] = slot
		return
	}

	for i >= 0 && core.Less(key, node.keys[i]) {
		i--
	}
	i++

	if node.children[i].full(index.order) {
		index.splitChild(node, i)
		if core.Less(node.keys[i], key) {
			i++
		}
	}

	index.insertNonFull(node.children[i], key, slot)
}

// splitChild divides a full child around its median entry, promoting the
// median into the parent as the separator between the two halves.
func (index *BTreeIndex) splitChild(parent *btreeNode, at int) {
	fullChild := parent.children[at]
	newChild := newBTreeNode(fullChild.leaf)

	mid := index.order - 1
	midKey := fullChild.keys[mid]
	midSlot := fullChild.slots[mid]

	newChild.keys = append(newChild.keys, fullChild.keys[mid+1:]...)
	newChild.slots = append(newChild.slots, fullChild.slots[mid+1:]...)
	fullChild.keys = fullChild.keys[:mid]
	fullChild.slots = fullChild.slots[:mid]

	if !fullChild.leaf {
		newChild.children = append(newChild.children, fullChild.children[mid+1:]...)
		fullChild.children = fullChild.children[:mid+1]
	}

	parent.keys = append(parent.keys, core.Null())
	copy(parent.keys[at+1:], parent.keys[at:])
	parent.keys[at] = midKey

	parent.slots = append(parent.slots, 0)
	copy(parent.slots[at+1:], parent.slots[at:])
	parent.slots[at] = midSlot

	parent.children = append(parent.children, nil)
	copy(parent.children[at+2:], parent.children[at+1:])
	parent.children[at+1] = newChild
}

// Delete excises the first entry matching both key and slot. Internal nodes
// drop the child pointer at the excised position; no rebalancing happens.
func (index *BTreeIndex) Delete(key core.Value, slot int) {
	if deleteFromNode(index.root, key, slot) {
		index.size--
	}
}

func deleteFromNode(node *btreeNode, key core.Value, slot int) bool {
	for i := range node.keys {
		if core.Equal(node.keys[i], key) && node.slots[i] == slot {
			node.keys = append(node.keys[:i], node.keys[i+1:]...)
			node.slots = append(node.slots[:i], node.slots[i+1:]...)
			if !node.leaf && i < len(node.children) {
				node.children = append(node.children[:i], node.children[i+1:]...)
			}
			return true
		}
	}

	if !node.leaf {
		for _, child := range node.children {
			if deleteFromNode(child, key, slot) {
				return true
			}
		}
	}

	return false
}

// Entries collects every (key, slot) pair, node entries before children.
func (index *BTreeIndex) Entries() []Entry {
	var entries []Entry
	collectEntries(index.root, &entries)
	return entries
}

func collectEntries(node *btreeNode, entries *[]Entry) {
	for i := range node.keys {
		*entries = append(*entries, Entry{Key: node.keys[i], Slot: node.slots[i]})
	}
	if !node.leaf {
		for _, child := range node.children {
			collectEntries(child, entries)
		}
	}
}

func (index *BTreeIndex) Serialize() Serialized {
	return Serialized{
		ColumnName: index.column,
		Order:      index.order,
		Size:       index.size,
		Entries:    index.Entries(),
	}
}
