package optree

// fuse merges newOp into n's pending-operation slot per §4.1. It
// reports whether the merge was legal to attempt (the caller still
// needs to descend and create a new node when fused is false), along
// with n's weight before and after the merge so the caller can update
// ancestors' index balance by the delta.
//
// n may be a freshly allocated, still-empty node (opA == nil): that is
// the "not-yet-created node" case §4.1 folds into the same table.
func fuse[V any](n *Node[V], newOp Operation[V]) (fused bool, oldWeight, newWeight int) {
	oldWeight = n.weight()

	switch newOp.Kind {
	case Insert:
		fused = fuseInsert(n, newOp)
	case Set:
		fused = fuseSet(n, newOp)
	case Remove:
		fused = fuseRemove(n, newOp)
	default:
		doAssert(false, "fuse: unknown operation kind %v", newOp.Kind)
	}

	if fused {
		validateSlot(n)
		newWeight = n.weight()
	} else {
		newWeight = oldWeight
	}
	return fused, oldWeight, newWeight
}

func fuseInsert[V any](n *Node[V], newOp Operation[V]) bool {
	if n.opA == nil {
		return false
	}
	switch n.opA.Kind {
	case Insert, Set:
		return false
	case Remove:
		if n.opB != nil {
			return false
		}
		if n.opA.Count == 1 {
			n.opA = &Operation[V]{Kind: Set, Value: newOp.Value, Count: 1}
		} else {
			n.opA.Count--
			n.opB = &Operation[V]{Kind: Set, Value: newOp.Value, Count: 1}
		}
		return true
	default:
		doAssert(false, "fuseInsert: op_a has unknown kind %v", n.opA.Kind)
		return false
	}
}

func fuseSet[V any](n *Node[V], newOp Operation[V]) bool {
	if n.opA == nil {
		n.opA = &Operation[V]{Kind: Set, Value: newOp.Value, Count: 1}
		return true
	}
	switch n.opA.Kind {
	case Insert, Set:
		n.opA.Value = newOp.Value
		return true
	case Remove:
		n.opB = &Operation[V]{Kind: Set, Value: newOp.Value, Count: 1}
		return true
	default:
		doAssert(false, "fuseSet: op_a has unknown kind %v", n.opA.Kind)
		return false
	}
}

func fuseRemove[V any](n *Node[V], newOp Operation[V]) bool {
	if n.opA == nil {
		n.opA = &Operation[V]{Kind: Remove, Count: 1}
		return true
	}
	switch n.opA.Kind {
	case Insert:
		n.opA = nil
		n.opB = nil
		return true
	case Set:
		n.opA = &Operation[V]{Kind: Remove, Count: 1}
		n.opB = nil
		return true
	case Remove:
		n.opA.Count += newOp.Count
		n.opB = nil
		return true
	default:
		doAssert(false, "fuseRemove: op_a has unknown kind %v", n.opA.Kind)
		return false
	}
}

// validateSlot enforces §3's legal (op_a, op_b) combinations after a
// fuse, catching an illegal fusion outcome immediately rather than
// letting it corrupt later traversals.
func validateSlot[V any](n *Node[V]) {
	if n.opB != nil {
		doAssert(n.opA != nil && n.opA.Kind == Remove, "validateSlot: op_b present without op_a=Remove")
		doAssert(n.opB.Kind == Set, "validateSlot: op_b is not a Set")
	}
	if n.opA != nil && n.opA.Count > 1 {
		doAssert(n.opA.Kind == Remove, "validateSlot: count>1 outside a Remove")
	}
}
