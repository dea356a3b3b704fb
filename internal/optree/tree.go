// Package optree's rotation, insertion and deletion routines below
// are a direct descendant of the teacher's plain red-black tree
// (internal/rbtree/rbtree.go): same leftRotate/rightRotate shapes,
// same fixInsert/fixDelete case structure, generalized to a generic
// value type and threaded through with the two lazy augmentations.
package optree

// Tree is the Operation Tree of §2/§3: an order-statistic red-black
// tree whose nodes record pending insert/set/remove edits keyed by
// the index the caller currently observes.
type Tree[V any] struct {
	root    *Node[V]
	nilNode *Node[V]
	count   int
}

// New returns an empty Operation Tree.
func New[V any]() *Tree[V] {
	sentinel := &Node[V]{color: black, sentinel: true}
	sentinel.left, sentinel.right, sentinel.parent = sentinel, sentinel, sentinel
	return &Tree[V]{root: sentinel, nilNode: sentinel}
}

func (t *Tree[V]) newNode(key int, c color) *Node[V] {
	return &Node[V]{
		key:    key,
		color:  c,
		left:   t.nilNode,
		right:  t.nilNode,
		parent: t.nilNode,
	}
}

// NodeCount reports the number of nodes currently carrying a pending
// operation.
func (t *Tree[V]) NodeCount() int { return t.count }

// IsEmpty reports whether the tree holds no pending operations.
func (t *Tree[V]) IsEmpty() bool { return t.root == t.nilNode }

// Clear discards every pending operation, as happens on commit.
func (t *Tree[V]) Clear() {
	t.root = t.nilNode
	t.count = 0
}

// NetIndexBalance is the root's index balance: the net change in
// sequence length contributed by every pending operation in the tree.
func (t *Tree[V]) NetIndexBalance() int {
	return t.root.indexBalance
}

// HeightBound reports ⌊2·log2(nodes+1)⌋, the upper bound the façade
// uses to decide whether accumulated edits have made the tree tall
// enough that committing is now worthwhile.
func (t *Tree[V]) HeightBound() int {
	return heightBound(t.count)
}

// ApplyInsert records a pending insert of v at the caller-observed
// index k.
func (t *Tree[V]) ApplyInsert(k int, v V) { t.apply(Insert, k, v) }

// ApplySet records a pending overwrite of the element currently
// visible at index k.
func (t *Tree[V]) ApplySet(k int, v V) { t.apply(Set, k, v) }

// ApplyRemove records a pending removal of the element currently
// visible at index k.
func (t *Tree[V]) ApplyRemove(k int) {
	var zero V
	t.apply(Remove, k, zero)
}

// apply is the edit path of §4.3, with the shift rule of §4.2 folded
// into the same descent loop: every visited node gets its key_shift
// pushed down; a node whose key is below k is passed on the right
// with no shift, while a node at or after k gets the shift due to
// this edit propagated to its right subtree and — unless an exact-key
// fusion stops the descent — its own key displaced before the descent
// continues into its left child.
func (t *Tree[V]) apply(kind Kind, k int, value V) {
	newOp := Operation[V]{Kind: kind, Value: value, Count: 1}
	w := weight(kind, 1)

	if t.root == t.nilNode {
		node := t.newNode(k, black)
		node.opA = &newOp
		node.indexBalance = w
		t.root = node
		t.count++
		if kind == Remove {
			t.postRemoveDuplicateScan(node, k)
		}
		return
	}

	current := t.root
	parent := t.nilNode
	descendLeft := false

	for current != t.nilNode {
		current.pushDown()

		if k > current.key {
			parent = current
			current = current.right
			descendLeft = false
			continue
		}

		current.right.addKeyShift(w)

		if k == current.key {
			fused, oldWeight, newWeight := fuse(current, newOp)
			if fused {
				target := current
				t.addAncestorIndexBalance(current, newWeight-oldWeight)
				if current.isEmpty() {
					t.deleteNode(current)
					return
				}
				if kind == Remove {
					t.postRemoveDuplicateScan(target, k)
				}
				return
			}
		}

		current.key += w
		parent = current
		current = current.left
		descendLeft = true
	}

	node := t.newNode(k, red)
	node.opA = &newOp
	node.parent = parent
	if parent == t.nilNode {
		t.root = node
	} else if descendLeft {
		parent.left = node
	} else {
		parent.right = node
	}
	t.count++
	t.addAncestorIndexBalance(node, w)
	t.fixInsert(node)
	if kind == Remove {
		t.postRemoveDuplicateScan(node, k)
	}
}

// postRemoveDuplicateScan implements §4.3 step 5: a Remove's ancestor
// shift can collapse two previously distinct keys into one. If the
// in-order successor of node now shares node's effective key, its
// operations are absorbed into node (Remove before Set, per fusion
// order) and the successor is physically removed.
func (t *Tree[V]) postRemoveDuplicateScan(node *Node[V], k int) {
	succ := t.inorderSuccessor(node)
	if succ == t.nilNode {
		return
	}
	doAssert(succ.keyShift == 0, "postRemoveDuplicateScan: successor %d has unpushed key shift", succ.key)
	if succ.key != k {
		return
	}

	oldWeight := node.weight()
	fused, _, _ := fuse(node, *succ.opA)
	doAssert(fused, "postRemoveDuplicateScan: could not absorb successor op_a")
	if succ.opB != nil {
		fused, _, _ = fuse(node, *succ.opB)
		doAssert(fused, "postRemoveDuplicateScan: could not absorb successor op_b")
	}
	newWeight := node.weight()
	t.addAncestorIndexBalance(node, newWeight-oldWeight)
	doAssert(!node.isEmpty(), "postRemoveDuplicateScan: absorption emptied the surviving node")

	t.deleteNode(succ)
}

// inorderSuccessor finds node's in-order successor. On the walk down
// into node's right subtree it pushes key_shift down at every step, so
// the returned node's key is immediately comparable. The walk up the
// parent chain (when node has no right child) pushes nothing down; it
// returns an ancestor that the descent which reached node has already
// pushed down.
func (t *Tree[V]) inorderSuccessor(node *Node[V]) *Node[V] {
	if node.right != t.nilNode {
		n := node.right
		n.pushDown()
		for n.left != t.nilNode {
			n = n.left
			n.pushDown()
		}
		return n
	}
	n, p := node, node.parent
	for p != t.nilNode && n == p.right {
		n = p
		p = p.parent
	}
	return p
}

// addAncestorIndexBalance walks from start up through the root,
// inclusive of start, adding delta to each node's index balance. This
// is the "ancestors, including the node itself" rule of §4.2.
func (t *Tree[V]) addAncestorIndexBalance(start *Node[V], delta int) {
	if delta == 0 {
		return
	}
	for n := start; n != t.nilNode; n = n.parent {
		n.addIndexBalance(delta)
	}
}

// leftRotate rotates x's right child into x's place, re-deriving both
// participants' index balance per §4.2's rotation rule after first
// pushing down both of their pending key shifts.
func (t *Tree[V]) leftRotate(x *Node[V]) {
	x.pushDown()
	y := x.right
	doAssert(y != t.nilNode, "leftRotate: rotating around a sentinel child")
	y.pushDown()

	oldXBalance := x.indexBalance
	yLeftBalance := y.left.indexBalance
	yBalance := y.indexBalance

	x.right = y.left
	if y.left != t.nilNode {
		y.left.parent = x
	}
	y.parent = x.parent
	if x.parent == t.nilNode {
		t.root = y
	} else if x == x.parent.left {
		x.parent.left = y
	} else {
		x.parent.right = y
	}
	y.left = x
	x.parent = y

	x.indexBalance = oldXBalance + yLeftBalance - yBalance
	y.indexBalance = oldXBalance
}

// rightRotate is leftRotate's mirror image.
func (t *Tree[V]) rightRotate(y *Node[V]) {
	y.pushDown()
	x := y.left
	doAssert(x != t.nilNode, "rightRotate: rotating around a sentinel child")
	x.pushDown()

	oldYBalance := y.indexBalance
	xRightBalance := x.right.indexBalance
	xBalance := x.indexBalance

	y.left = x.right
	if x.right != t.nilNode {
		x.right.parent = y
	}
	x.parent = y.parent
	if y.parent == t.nilNode {
		t.root = x
	} else if y == y.parent.right {
		y.parent.right = x
	} else {
		y.parent.left = x
	}
	x.right = y
	y.parent = x

	y.indexBalance = oldYBalance + xRightBalance - xBalance
	x.indexBalance = oldYBalance
}

func (t *Tree[V]) fixInsert(x *Node[V]) {
	for x.parent.color == red {
		if x.parent == x.parent.parent.left {
			y := x.parent.parent.right
			if y.color == red {
				x.parent.setColor(black)
				y.setColor(black)
				x.parent.parent.setColor(red)
				x = x.parent.parent
			} else {
				if x == x.parent.right {
					x = x.parent
					t.leftRotate(x)
				}
				x.parent.setColor(black)
				x.parent.parent.setColor(red)
				t.rightRotate(x.parent.parent)
			}
		} else {
			y := x.parent.parent.left
			if y.color == red {
				x.parent.setColor(black)
				y.setColor(black)
				x.parent.parent.setColor(red)
				x = x.parent.parent
			} else {
				if x == x.parent.left {
					x = x.parent
					t.rightRotate(x)
				}
				x.parent.setColor(black)
				x.parent.parent.setColor(red)
				t.leftRotate(x.parent.parent)
			}
		}
	}
	t.root.setColor(black)
}

// deleteNode removes a node from the tree entirely, per §4.5. A node
// with at most one child is spliced out directly; a node with two
// children instead has its in-order successor's key and operations
// copied into it (its own key_shift must already be 0, enforced by
// the caller having just pushed it down), and the successor — which
// by construction has no left child — is the one physically removed.
func (t *Tree[V]) deleteNode(z *Node[V]) {
	doAssert(z.keyShift == 0, "deleteNode: victim has an unpushed key shift")

	if z.left == t.nilNode || z.right == t.nilNode {
		t.deleteLeafOrOneChild(z)
		return
	}

	s := t.inorderSuccessor(z)
	doAssert(s.keyShift == 0, "deleteNode: successor has an unpushed key shift")

	sKey, sOpA, sOpB := s.key, s.opA, s.opB
	t.deleteLeafOrOneChild(s)

	oldWeight := z.weight()
	z.key, z.opA, z.opB = sKey, sOpA, sOpB
	t.addAncestorIndexBalance(z, z.weight()-oldWeight)
}

// deleteLeafOrOneChild physically removes z, which must have at most
// one child, and runs the standard red-black delete fix-up.
func (t *Tree[V]) deleteLeafOrOneChild(z *Node[V]) {
	doAssert(z.left == t.nilNode || z.right == t.nilNode, "deleteLeafOrOneChild: victim has two children")

	t.addAncestorIndexBalance(z.parent, -z.weight())

	var x *Node[V]
	if z.left == t.nilNode {
		x = z.right
		t.transplant(z, z.right)
	} else {
		x = z.left
		t.transplant(z, z.left)
	}
	t.count--

	if z.color == black {
		t.fixDelete(x)
	}
}

func (t *Tree[V]) transplant(u, v *Node[V]) {
	if u.parent == t.nilNode {
		t.root = v
	} else if u == u.parent.left {
		u.parent.left = v
	} else {
		u.parent.right = v
	}
	v.parent = u.parent
}

func (t *Tree[V]) fixDelete(x *Node[V]) {
	for x != t.root && x.color == black {
		if x == x.parent.left {
			w := x.parent.right
			if w.color == red {
				w.setColor(black)
				x.parent.setColor(red)
				t.leftRotate(x.parent)
				w = x.parent.right
			}
			if w.left.color == black && w.right.color == black {
				w.setColor(red)
				x = x.parent
			} else {
				if w.right.color == black {
					w.left.setColor(black)
					w.setColor(red)
					t.rightRotate(w)
					w = x.parent.right
				}
				w.setColor(x.parent.color)
				x.parent.setColor(black)
				w.right.setColor(black)
				t.leftRotate(x.parent)
				x = t.root
			}
		} else {
			w := x.parent.left
			if w.color == red {
				w.setColor(black)
				x.parent.setColor(red)
				t.rightRotate(x.parent)
				w = x.parent.left
			}
			if w.right.color == black && w.left.color == black {
				w.setColor(red)
				x = x.parent
			} else {
				if w.left.color == black {
					w.right.setColor(black)
					w.setColor(red)
					t.leftRotate(w)
					w = x.parent.left
				}
				w.setColor(x.parent.color)
				x.parent.setColor(black)
				w.left.setColor(black)
				t.rightRotate(x.parent)
				x = t.root
			}
		}
	}
	x.setColor(black)
}

// Find performs the point lookup of §4.4. When found is true, value
// holds the visible element. When found is false, fallbackIndex is
// the caller's index into the committed array for the element that
// remains visible at k despite whatever pending operations precede
// it.
func (t *Tree[V]) Find(k int) (found bool, value V, fallbackIndex int) {
	current := t.root
	shift := 0
	for current != t.nilNode {
		current.pushDown()
		if k >= current.key {
			shift += current.left.indexBalance + current.weight()
			if k == current.key {
				switch {
				case current.opB != nil:
					return true, current.opB.Value, 0
				case current.opA.Kind == Remove:
					var zero V
					return false, zero, k - shift
				default:
					return true, current.opA.Value, 0
				}
			}
			current = current.right
		} else {
			current = current.left
		}
	}
	var zero V
	return false, zero, k - shift
}
