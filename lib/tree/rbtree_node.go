package tree

import (
	"github.com/benz9527/xrbtree/lib/infra"
)

// nodeID addresses a node slot in the tree arena.
type nodeID int32

// nilID is the NIL leaf, always black.
const nilID nodeID = -1

type rbNode[K infra.OrderedKey, V any] struct {
	parent nodeID
	left   nodeID
	right  nodeID
	key    K
	val    V
	color  RBColor
}

// node returns the arena slot. The pointer is invalidated by the next alloc.
func (tree *rbTree[K, V]) node(id nodeID) *rbNode[K, V] {
	return &tree.nodes[id]
}

func (tree *rbTree[K, V]) alloc(key K, val V, parent nodeID) nodeID {
	n := rbNode[K, V]{
		parent: parent,
		left:   nilID,
		right:  nilID,
		key:    key,
		val:    val,
		color:  Red,
	}
	if l := len(tree.free); l > 0 {
		id := tree.free[l-1]
		tree.free = tree.free[:l-1]
		tree.nodes[id] = n
		return id
	}
	tree.nodes = append(tree.nodes, n)
	return nodeID(len(tree.nodes) - 1)
}

func (tree *rbTree[K, V]) dealloc(id nodeID) {
	// Drop key & value references.
	tree.nodes[id] = rbNode[K, V]{parent: nilID, left: nilID, right: nilID}
	tree.free = append(tree.free, id)
}

func (tree *rbTree[K, V]) isRed(id nodeID) bool {
	return id != nilID && tree.nodes[id].color == Red
}

func (tree *rbTree[K, V]) isBlack(id nodeID) bool {
	return id == nilID || tree.nodes[id].color == Black
}

func (tree *rbTree[K, V]) paint(id nodeID, color RBColor) {
	if id != nilID {
		tree.nodes[id].color = color
	}
}

func (tree *rbTree[K, V]) parentOf(id nodeID) nodeID {
	return tree.nodes[id].parent
}

// Direction of the node relative to its parent. A node that its
// recorded parent does not link back to is a structural bug.
func (tree *rbTree[K, V]) direction(id nodeID) RBDirection {
	p := tree.nodes[id].parent
	if p == nilID {
		return Root
	}
	switch id {
	case tree.nodes[p].left:
		return Left
	case tree.nodes[p].right:
		return Right
	default:
	}
	tree.inconsistent("node is not a child of its recorded parent", id)
	return Root
}

func (tree *rbTree[K, V]) childOf(id nodeID, dir RBDirection) nodeID {
	if id == nilID {
		return nilID
	}
	switch dir {
	case Left:
		return tree.nodes[id].left
	case Right:
		return tree.nodes[id].right
	default:
	}
	tree.inconsistent("child lookup without side", id)
	return nilID
}

func (tree *rbTree[K, V]) sibling(id nodeID) nodeID {
	return tree.childOf(tree.parentOf(id), -tree.direction(id))
}

func (tree *rbTree[K, V]) minimum(id nodeID) nodeID {
	for id != nilID && tree.nodes[id].left != nilID {
		id = tree.nodes[id].left
	}
	return id
}

func (tree *rbTree[K, V]) maximum(id nodeID) nodeID {
	for id != nilID && tree.nodes[id].right != nilID {
		id = tree.nodes[id].right
	}
	return id
}

// replaceChild links child into the slot that old used to occupy under
// parent. dir is old's side, Root means the tree root.
func (tree *rbTree[K, V]) replaceChild(parent nodeID, dir RBDirection, child nodeID) {
	switch dir {
	case Root:
		tree.root = child
	case Left:
		tree.nodes[parent].left = child
	case Right:
		tree.nodes[parent].right = child
	default:
		tree.inconsistent("relink with unknown direction", parent)
	}
	if child != nilID {
		tree.nodes[child].parent = parent
	}
}

var _ RBNode[int, int] = rbNodeView[int, int]{}

type rbNodeView[K infra.OrderedKey, V any] struct {
	tree *rbTree[K, V]
	id   nodeID
}

func (tree *rbTree[K, V]) view(id nodeID) RBNode[K, V] {
	if id == nilID {
		return nil
	}
	return rbNodeView[K, V]{tree: tree, id: id}
}

func (v rbNodeView[K, V]) Key() K {
	return v.tree.nodes[v.id].key
}

func (v rbNodeView[K, V]) Val() V {
	return v.tree.nodes[v.id].val
}

func (v rbNodeView[K, V]) Color() RBColor {
	return v.tree.nodes[v.id].color
}

func (v rbNodeView[K, V]) Left() RBNode[K, V] {
	return v.tree.view(v.tree.nodes[v.id].left)
}

func (v rbNodeView[K, V]) Right() RBNode[K, V] {
	return v.tree.view(v.tree.nodes[v.id].right)
}

func (v rbNodeView[K, V]) Parent() RBNode[K, V] {
	return v.tree.view(v.tree.nodes[v.id].parent)
}
