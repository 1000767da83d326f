package tree

type dumpFrame struct {
	id    nodeID
	depth int
	dir   RBDirection
}

// PreOrder walks node, left subtree, right subtree. Rendering the
// shape is left to the caller.
func (tree *rbTree[K, V]) PreOrder(action func(item RBDumpItem[K, V]) bool) {
	if tree.root == nilID {
		return
	}

	stack := make([]dumpFrame, 0, 64)
	stack = append(stack, dumpFrame{id: tree.root, depth: 0, dir: Root})
	for size := len(stack); size > 0; size = len(stack) {
		f := stack[size-1]
		stack = stack[:size-1]
		n := tree.node(f.id)
		if !action(RBDumpItem[K, V]{
			Depth:     f.depth,
			Direction: f.dir,
			Color:     n.color,
			Key:       n.key,
			Val:       n.val,
		}) {
			return
		}
		if n.right != nilID {
			stack = append(stack, dumpFrame{id: n.right, depth: f.depth + 1, dir: Right})
		}
		if n.left != nilID {
			stack = append(stack, dumpFrame{id: n.left, depth: f.depth + 1, dir: Left})
		}
	}
}

func (tree *rbTree[K, V]) Dump() []RBDumpItem[K, V] {
	items := make([]RBDumpItem[K, V], 0, tree.count)
	tree.PreOrder(func(item RBDumpItem[K, V]) bool {
		items = append(items, item)
		return true
	})
	return items
}
