package tree

import "github.com/benz9527/xrbtree/lib/infra"

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "Unknown"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "Left"
	case Root:
		return "Root"
	case Right:
		return "Right"
	default:
	}
	return "Unknown"
}

// RBNode is a read-only view of a tree node. A view stays valid
// until the next mutation of the tree it came from.
type RBNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

// RBDumpItem is one pre-order entry of the structural dump.
type RBDumpItem[K infra.OrderedKey, V any] struct {
	Depth     int
	Direction RBDirection
	Color     RBColor
	Key       K
	Val       V
}

type RBTree[K infra.OrderedKey, V any] interface {
	Len() int64
	Root() RBNode[K, V]
	Insert(key K, val V) error
	Upsert(key K, val V)
	Delete(key K) bool
	Remove(key K) (V, error)
	RemoveMin() (K, V, error)
	Get(key K) (V, bool)
	Load(key K) (V, error)
	Contains(key K) bool
	Min() (K, V, bool)
	Max() (K, V, bool)
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	PreOrder(action func(item RBDumpItem[K, V]) bool)
	Dump() []RBDumpItem[K, V]
	Audit() (int, error)
	Release()
}
