package optree

import (
	"fmt"
	"io"
	"math"
)

func heightBound(nodes int) int {
	if nodes <= 0 {
		return 0
	}
	return int(math.Floor(2 * math.Log2(float64(nodes+1))))
}

// ValidateHeight is the optional debug API of §7: it measures the
// tree's actual height and reports a *ConsistencyError if it exceeds
// HeightBound()+1. It is never called from Insert/Delete/Find —
// production code paths pay nothing for it, matching the teacher's
// own VerifyTreeProperties, which is a test/debug helper only.
func (t *Tree[V]) ValidateHeight() error {
	measured := t.measureHeight(t.root)
	bound := t.HeightBound()
	if measured > bound+1 {
		return newConsistencyError("measured height %d exceeds bound %d+1", measured, bound)
	}
	return nil
}

func (t *Tree[V]) measureHeight(n *Node[V]) int {
	if n == t.nilNode {
		return 0
	}
	l := t.measureHeight(n.left)
	r := t.measureHeight(n.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// ValidateRedBlack checks the standard red-black invariants (no two
// consecutive reds, equal black-height on every path, root and
// sentinel black) alongside the subtree index-balance invariant of
// §3 Invariant 3. It is the Go-idiomatic sibling of the teacher's
// VerifyTreeProperties, generalized with the augmentation check.
func (t *Tree[V]) ValidateRedBlack() error {
	if t.nilNode.color != black {
		return newConsistencyError("sentinel is not black")
	}
	if t.root != t.nilNode && t.root.color != black {
		return newConsistencyError("root is not black")
	}
	_, err := t.checkSubtree(t.root)
	return err
}

func (t *Tree[V]) checkSubtree(n *Node[V]) (blackHeight int, err error) {
	if n == t.nilNode {
		return 1, nil
	}
	if n.color == red {
		if n.left.color == red || n.right.color == red {
			return 0, newConsistencyError("red node at key %d has a red child", n.key)
		}
	}
	if n.opA == nil {
		return 0, newConsistencyError("node at key %d has an empty operation slot", n.key)
	}

	lh, err := t.checkSubtree(n.left)
	if err != nil {
		return 0, err
	}
	rh, err := t.checkSubtree(n.right)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, newConsistencyError("unequal black-height around key %d (%d vs %d)", n.key, lh, rh)
	}

	want := n.weight() + n.left.indexBalance + n.right.indexBalance
	if n.indexBalance != want {
		return 0, newConsistencyError("index balance mismatch at key %d: have %d, want %d", n.key, n.indexBalance, want)
	}

	if n.color == black {
		lh++
	}
	return lh, nil
}

// WriteDot renders the tree in Graphviz DOT format for debugging, in
// the same spirit as npillmayer/cords's Cord2Dot: every node labeled
// with its key, operation kind and index balance, colored by r/b.
func (t *Tree[V]) WriteDot(w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12,style=filled,shape=box];\n")
	ids := map[*Node[V]]int{}
	next := 1
	id := func(n *Node[V]) int {
		if v, ok := ids[n]; ok {
			return v
		}
		ids[n] = next
		next++
		return ids[n]
	}
	t.writeDotNode(w, t.root, id)
	io.WriteString(w, "}\n")
}

func (t *Tree[V]) writeDotNode(w io.Writer, n *Node[V], id func(*Node[V]) int) {
	if n == t.nilNode {
		return
	}
	fill := "#dddddd"
	if n.color == red {
		fill = "#f4a3a3"
	}
	label := fmt.Sprintf("k=%d\\n%s\\nbal=%d", n.key, opSlotLabel(n), n.indexBalance)
	fmt.Fprintf(w, "\t\"%d\" [label=\"%s\",fillcolor=\"%s\"];\n", id(n), label, fill)
	if n.left != t.nilNode {
		fmt.Fprintf(w, "\t\"%d\" -> \"%d\";\n", id(n), id(n.left))
		t.writeDotNode(w, n.left, id)
	}
	if n.right != t.nilNode {
		fmt.Fprintf(w, "\t\"%d\" -> \"%d\";\n", id(n), id(n.right))
		t.writeDotNode(w, n.right, id)
	}
}

func opSlotLabel[V any](n *Node[V]) string {
	if n.opA == nil {
		return "empty"
	}
	s := n.opA.Kind.String()
	if n.opA.Kind == Remove && n.opA.Count > 1 {
		s = fmt.Sprintf("%s x%d", s, n.opA.Count)
	}
	if n.opB != nil {
		s += "+" + n.opB.Kind.String()
	}
	return s
}
