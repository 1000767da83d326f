package tree

import (
	"go.uber.org/zap"
)

// Audit re-derives every red-black property from the links alone and
// returns the black-height, i.e. the number of black nodes on any path
// from the root down to a NIL leaf. The incremental count is checked
// against a full recount.
func (tree *rbTree[K, V]) Audit() (int, error) {
	bh, err := tree.audit()
	if err != nil {
		tree.logger.Warn("[rbtree] audit failed", zap.Error(err))
		return 0, err
	}
	return bh, nil
}

func (tree *rbTree[K, V]) audit() (int, error) {
	if tree.root == nilID {
		if tree.count != 0 {
			return 0, &RBInvariantViolation{Rule: ruleCount, Want: tree.count, Got: 0}
		}
		return 0, nil
	}

	root := tree.node(tree.root)
	if root.parent != nilID {
		return 0, &RBInvariantViolation{Rule: ruleParentLink, Key: root.key, Want: int64(nilID), Got: int64(root.parent)}
	}
	if root.color != Black {
		return 0, &RBInvariantViolation{Rule: ruleRootColor, Key: root.key, Want: int64(Black), Got: int64(root.color)}
	}

	count := int64(0)
	bh, err := tree.auditNode(tree.root, nilID, nilID, &count)
	if err != nil {
		return 0, err
	}
	if count != tree.count {
		return 0, &RBInvariantViolation{Rule: ruleCount, Want: tree.count, Got: count}
	}
	return bh, nil
}

// lo and hi are the nearest ancestors bounding the keys of the subtree.
func (tree *rbTree[K, V]) auditNode(id, lo, hi nodeID, count *int64) (int, error) {
	if id == nilID {
		return 0, nil
	}
	if *count++; *count > int64(len(tree.nodes)) {
		// A cycle in the links.
		return 0, &RBInvariantViolation{Rule: ruleCount, Want: tree.count, Got: *count}
	}

	n := tree.node(id)
	if lo != nilID {
		if res := tree.cmp(n.key, tree.nodes[lo].key); res <= 0 {
			return 0, &RBInvariantViolation{Rule: ruleKeyOrder, Key: n.key, Want: 1, Got: res}
		}
	}
	if hi != nilID {
		if res := tree.cmp(n.key, tree.nodes[hi].key); res >= 0 {
			return 0, &RBInvariantViolation{Rule: ruleKeyOrder, Key: n.key, Want: -1, Got: res}
		}
	}

	for _, child := range [2]nodeID{n.left, n.right} {
		if child == nilID {
			continue
		}
		if p := tree.nodes[child].parent; p != id {
			return 0, &RBInvariantViolation{Rule: ruleParentLink, Key: tree.nodes[child].key, Want: int64(id), Got: int64(p)}
		}
		if n.color == Red && tree.isRed(child) {
			return 0, &RBInvariantViolation{Rule: ruleRedViolation, Key: n.key, Want: int64(Black), Got: int64(Red)}
		}
	}

	lh, err := tree.auditNode(n.left, lo, id, count)
	if err != nil {
		return 0, err
	}
	rh, err := tree.auditNode(n.right, id, hi, count)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, &RBInvariantViolation{Rule: ruleBlackViolation, Key: n.key, Want: int64(lh), Got: int64(rh)}
	}
	if n.color == Black {
		lh++
	}
	return lh, nil
}
