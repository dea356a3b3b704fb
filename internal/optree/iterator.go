package optree

import "iter"

// Drain produces the in-order operation stream of §4.6: every pending
// operation in ascending effective-key order, terminated by an EndOp
// record at committedLength + NetIndexBalance so a commit applier can
// flush the backing array's tail uniformly. The tree is not
// structurally mutated by draining, only benignly flattened by the
// key_shift push-downs the traversal performs as it visits nodes —
// the same idempotent push-down every descent in this package relies
// on, matching the teacher's own iter.Seq-based InOrder.
func (t *Tree[V]) Drain(committedLength int) iter.Seq[OpRecord[V]] {
	return func(yield func(OpRecord[V]) bool) {
		stack := make([]*Node[V], 0, t.count)
		current := t.root
		for current != t.nilNode || len(stack) > 0 {
			for current != t.nilNode {
				current.pushDown()
				stack = append(stack, current)
				current = current.left
			}

			current = stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			rec := OpRecord[V]{Key: current.key, Kind: current.opA.Kind, Count: current.opA.Count}
			if current.opA.Kind != Remove {
				rec.Value = current.opA.Value
			}
			if !yield(rec) {
				return
			}
			if current.opB != nil {
				if !yield(OpRecord[V]{Key: current.key, Kind: current.opB.Kind, Value: current.opB.Value, Count: 1}) {
					return
				}
			}

			current = current.right
		}

		yield(OpRecord[V]{Key: committedLength + t.NetIndexBalance(), End: true})
	}
}
