package tree

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/benz9527/xrbtree/lib/infra"
)

type rbTree[K infra.OrderedKey, V any] struct {
	nodes          []rbNode[K, V]
	free           []nodeID
	root           nodeID
	count          int64
	cmp            infra.OrderedKeyComparator[K]
	isRmBorrowPred bool
	logger         *zap.Logger
	meter          metric.Meter
	stats          *rbStats
}

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.

func (tree *rbTree[K, V]) Len() int64 {
	return tree.count
}

func (tree *rbTree[K, V]) Root() RBNode[K, V] {
	return tree.view(tree.root)
}

// inconsistent aborts a mutation that found links it cannot trust.
// Rotations are not speculative, so there is nothing to roll back.
func (tree *rbTree[K, V]) inconsistent(reason string, id nodeID) {
	err := fmt.Errorf("%w: %s (node %d)", ErrRBTreeStructuralInconsistency, reason, id)
	tree.logger.Error("[rbtree] structural inconsistency",
		zap.String("reason", reason),
		zap.Int32("node", int32(id)),
	)
	panic(err)
}

func (tree *rbTree[K, V]) search(key K) nodeID {
	for aux := tree.root; aux != nilID; {
		res := tree.cmp(key, tree.nodes[aux].key)
		if res == 0 {
			return aux
		} else if res > 0 {
			aux = tree.nodes[aux].right
		} else {
			aux = tree.nodes[aux].left
		}
	}
	return nilID
}

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[K, V]) leftRotate(x nodeID) {
	y := tree.nodes[x].right
	if y == nilID {
		tree.inconsistent("left rotate without right child", x)
	}

	p, dir := tree.nodes[x].parent, tree.direction(x)
	sc := tree.nodes[y].left
	tree.nodes[x].right = sc
	if sc != nilID {
		tree.nodes[sc].parent = x
	}
	tree.nodes[y].left = x
	tree.nodes[x].parent = y
	tree.replaceChild(p, dir, y)
	tree.stats.rotated(Left)
}

/*
			 |                         |
			 X                         S
			/ \     rightRotate(S)    / \
	       L   S    <============    X   R
			  / \                   / \
			Sc   Sd               Sc   Sd
*/
func (tree *rbTree[K, V]) rightRotate(x nodeID) {
	y := tree.nodes[x].left
	if y == nilID {
		tree.inconsistent("right rotate without left child", x)
	}

	p, dir := tree.nodes[x].parent, tree.direction(x)
	sd := tree.nodes[y].right
	tree.nodes[x].left = sd
	if sd != nilID {
		tree.nodes[sd].parent = x
	}
	tree.nodes[y].right = x
	tree.nodes[x].parent = y
	tree.replaceChild(p, dir, y)
	tree.stats.rotated(Right)
}

// rotate moves x down to the dir side, its opposite child goes up.
func (tree *rbTree[K, V]) rotate(x nodeID, dir RBDirection) {
	switch dir {
	case Left:
		tree.leftRotate(x)
	case Right:
		tree.rightRotate(x)
	default:
		tree.inconsistent("rotate without direction", x)
	}
}

func (tree *rbTree[K, V]) Insert(key K, val V) error {
	return tree.insert(key, val, false)
}

// Upsert overwrites the value of a present key in place, otherwise
// inserts it. The shape and colors are untouched by an overwrite.
func (tree *rbTree[K, V]) Upsert(key K, val V) {
	_ = tree.insert(key, val, true)
}

func (tree *rbTree[K, V]) insert(key K, val V, replace bool) error {
	var (
		x, y = tree.root, nilID
		res  int64
	)
	for x != nilID {
		y = x
		res = tree.cmp(key, tree.nodes[x].key)
		if /* equal */ res == 0 {
			if replace {
				tree.nodes[x].val = val
				return nil
			}
			tree.logger.Debug("[rbtree] insert rejected", zap.Any("key", key))
			return fmt.Errorf("%w: %v", ErrRBTreeDuplicateKey, key)
		} else /* less */ if res < 0 {
			x = tree.nodes[x].left
		} else /* greater */ {
			x = tree.nodes[x].right
		}
	}

	z := tree.alloc(key, val, y)
	if y == nilID {
		tree.root = z
	} else if res < 0 {
		tree.nodes[y].left = z
	} else {
		tree.nodes[y].right = z
	}
	tree.count++
	tree.stats.resized(1)
	tree.insertRebalance(z)
	return nil
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

im1: X is the root, paint it black.

im2: X's parent P is black, nothing violated.

im3: Both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Continue to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is the inner child. Rotate P to X's opposite direction.
The old parent becomes the outer child and enters im5.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: X is the outer child, rotate G away from P and repaint.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree[K, V]) insertRebalance(x nodeID) {
	for {
		tree.stats.rebalanced(opInsert)
		p := tree.parentOf(x)
		if /* im1 */ p == nilID {
			tree.nodes[x].color = Black
			return
		}
		if /* im2 */ tree.isBlack(p) {
			return
		}

		// The red parent is never the root, so the grandpa exists.
		g := tree.parentOf(p)
		if g == nilID {
			tree.inconsistent("red parent without grandpa", p)
		}
		pDir := tree.direction(p)
		u := tree.sibling(p)
		if /* im3 */ tree.isRed(u) {
			tree.nodes[p].color = Black
			tree.nodes[u].color = Black
			tree.nodes[g].color = Red
			x = g
			continue
		}

		if /* im4 */ tree.direction(x) != pDir {
			tree.rotate(p, pDir)
			x, p = p, x
		}

		/* im5 */
		tree.rotate(g, -pDir)
		tree.nodes[p].color = Black
		tree.nodes[g].color = Red
		return
	}
}

func (tree *rbTree[K, V]) Delete(key K) bool {
	z := tree.search(key)
	if z == nilID {
		return false
	}
	tree.removeNode(z)
	return true
}

func (tree *rbTree[K, V]) Remove(key K) (V, error) {
	z := tree.search(key)
	if z == nilID {
		var val V
		tree.logger.Debug("[rbtree] remove missed", zap.Any("key", key))
		return val, fmt.Errorf("%w: %v", ErrRBTreeKeyNotFound, key)
	}
	val := tree.nodes[z].val
	tree.removeNode(z)
	return val, nil
}

func (tree *rbTree[K, V]) RemoveMin() (K, V, error) {
	var (
		key K
		val V
	)
	if tree.root == nilID {
		return key, val, ErrRBTreeEmpty
	}
	_min := tree.minimum(tree.root)
	key, val = tree.nodes[_min].key, tree.nodes[_min].val
	tree.removeNode(_min)
	return key, val, nil
}

/*
r1: Node Z has left and right children.
Borrow its succ (or pred) S, copy S's key & value into Z and remove S
instead. Z keeps its color. S has at most one child.

	  |                    |
	  Z                    S
	 / \                  / \
	L  ..   copy(S, Z)   L  ..
		|   =========>       |
		P                    P
	   / \                  / \
	  S  ..               [S] ..

r2: Node Y has at most one child C. Splice C into Y's slot.
(1) Y is red, nothing violated. (Y can't be red with one child.)
(2) Y is black, the slot it left is short of one black. Fix it from
C, or from the empty slot if C is NIL.
*/
func (tree *rbTree[K, V]) removeNode(z nodeID) {
	y := z
	if /* r1 */ tree.nodes[z].left != nilID && tree.nodes[z].right != nilID {
		if tree.isRmBorrowPred {
			y = tree.maximum(tree.nodes[z].left)
		} else {
			y = tree.minimum(tree.nodes[z].right)
		}
		zn, yn := tree.node(z), tree.node(y)
		zn.key, zn.val = yn.key, yn.val
	}

	/* r2 */
	child := tree.nodes[y].left
	if child == nilID {
		child = tree.nodes[y].right
	}
	parent, dir, color := tree.nodes[y].parent, tree.direction(y), tree.nodes[y].color
	tree.replaceChild(parent, dir, child)
	tree.dealloc(y)
	tree.count--
	tree.stats.resized(-1)

	if /* r2 (2) */ color == Black {
		if child == nilID {
			tree.removeRebalance(doubleBlack{kind: dbSentinel, id: nilID, parent: parent, dir: dir})
		} else {
			tree.removeRebalance(tree.realDoubleBlack(child))
		}
	}
}

type doubleBlackKind uint8

const (
	dbReal doubleBlackKind = iota
	// dbSentinel is the empty slot left by a black leaf.
	dbSentinel
)

// doubleBlack is the position carrying the extra black during remove
// rebalance. For a sentinel, parent and dir locate the empty slot.
type doubleBlack struct {
	kind   doubleBlackKind
	id     nodeID
	parent nodeID
	dir    RBDirection
}

func (tree *rbTree[K, V]) realDoubleBlack(id nodeID) doubleBlack {
	return doubleBlack{
		kind:   dbReal,
		id:     id,
		parent: tree.parentOf(id),
		dir:    tree.direction(id),
	}
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the sibling's child on X's side (near nephew).
Sd is the sibling's child on the opposite side (far nephew).

rm1: X's sibling S is red, so P, Sc and Sd are black.
Repaint S into black and P into red, rotate P toward X.
X gets a black sibling (the old Sc), enter rm2-rm4.

	  [P]                   <S>               [S]
	  / \    l-rotate(P)    / \    repaint    / \
	[X] <S>  ==========>  [P] [Sd]  =====>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]          [X] [Sc]          [X] [Sc]

rm2: S, Sc and Sd are black. Repaint S into red.
If P is red, repaint P into black and stop. Otherwise P is the new
double black, continue upward.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: S is black, Sc is red and Sd is black.
Repaint Sc into black and S into red, rotate S away from X.
Enter rm4.

	                        {P}                {P}
	  {P}                   / \                / \
	  / \    r-rotate(S)  [X] <Sc>   repaint  [X] [Sc]
	[X] [S]  ==========>        \    ======>       \
	    / \                     [S]                <S>
	  <Sc> [Sd]                   \                  \
	                              [Sd]               [Sd]

rm4: S is black and Sd is red.
S takes P's color, P and Sd are painted black, rotate P toward X.

	  {P}                   [S]                {S}
	  / \    l-rotate(P)    / \     repaint    / \
	[X] [S]  ==========>  {P} <Sd>  ======>  [P] [Sd]
	    / \               / \                / \
	 [Sc] <Sd>          [X] [Sc]           [X] [Sc]
*/
func (tree *rbTree[K, V]) removeRebalance(x doubleBlack) {
	for x.dir != Root && (x.kind == dbSentinel || tree.isBlack(x.id)) {
		tree.stats.rebalanced(opRemove)
		p := x.parent
		s := tree.childOf(p, -x.dir)
		if s == nilID {
			tree.inconsistent("double black without sibling", p)
		}

		if /* rm1 */ tree.isRed(s) {
			tree.nodes[s].color = Black
			tree.nodes[p].color = Red
			tree.rotate(p, x.dir)
			if s = tree.childOf(p, -x.dir); s == nilID {
				tree.inconsistent("double black without sibling", p)
			}
		}

		sc, sd := tree.childOf(s, x.dir), tree.childOf(s, -x.dir)
		if /* rm2 */ tree.isBlack(sc) && tree.isBlack(sd) {
			tree.nodes[s].color = Red
			x = tree.realDoubleBlack(p)
			continue
		}

		if /* rm3 */ tree.isBlack(sd) {
			tree.paint(sc, Black)
			tree.nodes[s].color = Red
			tree.rotate(s, -x.dir)
			s = tree.childOf(p, -x.dir)
			sd = tree.childOf(s, -x.dir)
		}

		/* rm4 */
		tree.nodes[s].color = tree.nodes[p].color
		tree.nodes[p].color = Black
		tree.paint(sd, Black)
		tree.rotate(p, x.dir)
		return
	}

	if x.kind == dbReal {
		tree.paint(x.id, Black)
	}
}

func (tree *rbTree[K, V]) Get(key K) (V, bool) {
	if x := tree.search(key); x != nilID {
		return tree.nodes[x].val, true
	}
	var val V
	return val, false
}

func (tree *rbTree[K, V]) Load(key K) (V, error) {
	val, ok := tree.Get(key)
	if !ok {
		tree.logger.Debug("[rbtree] load missed", zap.Any("key", key))
		return val, fmt.Errorf("%w: %v", ErrRBTreeKeyNotFound, key)
	}
	return val, nil
}

func (tree *rbTree[K, V]) Contains(key K) bool {
	return tree.search(key) != nilID
}

func (tree *rbTree[K, V]) Min() (K, V, bool) {
	return tree.extreme(tree.minimum(tree.root))
}

func (tree *rbTree[K, V]) Max() (K, V, bool) {
	return tree.extreme(tree.maximum(tree.root))
}

func (tree *rbTree[K, V]) extreme(id nodeID) (key K, val V, ok bool) {
	if id == nilID {
		return key, val, false
	}
	return tree.nodes[id].key, tree.nodes[id].val, true
}

// Inorder traversal to implement the DFS.
func (tree *rbTree[K, V]) Foreach(action func(idx int64, color RBColor, key K, val V) bool) {
	aux := tree.root
	if aux == nilID {
		return
	}

	stack := make([]nodeID, 0, 64)
	for ; aux != nilID; aux = tree.nodes[aux].left {
		stack = append(stack, aux)
	}

	idx := int64(0)
	for size := len(stack); size > 0; size = len(stack) {
		aux = stack[size-1]
		n := tree.node(aux)
		if !action(idx, n.color, n.key, n.val) {
			return
		}
		idx++
		stack = stack[:size-1]
		for aux = n.right; aux != nilID; aux = tree.nodes[aux].left {
			stack = append(stack, aux)
		}
	}
}

func (tree *rbTree[K, V]) Release() {
	tree.stats.resized(-tree.count)
	clear(tree.nodes)
	tree.nodes = tree.nodes[:0]
	tree.free = tree.free[:0]
	tree.root = nilID
	tree.count = 0
}

type RBTreeOpt[K infra.OrderedKey, V any] func(*rbTree[K, V])

func WithRBTreeDesc[K infra.OrderedKey, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.cmp = infra.DescComparator[K]()
	}
}

func WithRBTreeComparator[K infra.OrderedKey, V any](cmp infra.OrderedKeyComparator[K]) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if cmp != nil {
			tree.cmp = cmp
		}
	}
}

// WithRBTreeRemoveBorrowPred makes the removal of a node with two
// children borrow its in-order predecessor instead of the successor.
func WithRBTreeRemoveBorrowPred[K infra.OrderedKey, V any]() RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.isRmBorrowPred = true
	}
}

func WithRBTreeLogger[K infra.OrderedKey, V any](logger *zap.Logger) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if logger != nil {
			tree.logger = logger
		}
	}
}

func WithRBTreeMeter[K infra.OrderedKey, V any](meter metric.Meter) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		tree.meter = meter
	}
}

func WithRBTreeCapacity[K infra.OrderedKey, V any](capacity int) RBTreeOpt[K, V] {
	return func(tree *rbTree[K, V]) {
		if capacity > 0 {
			tree.nodes = make([]rbNode[K, V], 0, capacity)
		}
	}
}

func NewRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) RBTree[K, V] {
	return newRBTree[K, V](opts...)
}

func newRBTree[K infra.OrderedKey, V any](opts ...RBTreeOpt[K, V]) *rbTree[K, V] {
	tree := &rbTree[K, V]{
		root:   nilID,
		cmp:    infra.AscComparator[K](),
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(tree)
	}

	if tree.meter != nil {
		stats, err := newRBStats(tree.meter)
		if err != nil {
			tree.logger.Warn("[rbtree] metrics disabled", zap.Error(err))
		}
		tree.stats = stats
	}
	return tree
}
