// Package deferred implements the public sequence façade of §6: a
// random-access, array-backed list whose positional inserts, sets and
// removes are recorded in an internal/optree.Tree instead of being
// applied to the backing internal/seqarray.Array directly. Reads
// fall through the tree to the array; Commit merges every pending
// edit into the array in one linear pass (internal/commit) and clears
// the tree.
//
// List is not safe for concurrent use, matching §5's single-threaded
// contract: callers that need multi-threaded access must wrap a List
// externally, the same way the teacher's MemTable wraps its RBTree in
// a sync.RWMutex rather than the tree doing so itself.
package deferred

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/arborly/deferred/internal/commit"
	"github.com/arborly/deferred/internal/optree"
	"github.com/arborly/deferred/internal/seqarray"
)

// ErrIndexOutOfRange is returned by Get/Insert/Set/Remove when the
// caller-supplied index falls outside the list's current bounds. The
// tree and array beneath List perform no range validation of their
// own (§7) — this is where that validation happens.
var ErrIndexOutOfRange = errors.New("deferred: index out of range")

// defaultAutoCommitMultiplier is the default performance-indicator
// threshold of §6: a List auto-commits once the tree's HeightBound()
// reaches this multiple of log2(committed length + 1).
const defaultAutoCommitMultiplier = 4

// List is a deferred list: an internal/seqarray.Array holding the
// committed state plus an internal/optree.Tree recording pending
// edits against it.
type List[V any] struct {
	tree  *optree.Tree[V]
	array *seqarray.Array[V]

	autoCommitMultiplier int
}

// New returns an empty List.
func New[V any]() *List[V] {
	return &List[V]{
		tree:                 optree.New[V](),
		array:                seqarray.NewWithCapacity[V](0),
		autoCommitMultiplier: defaultAutoCommitMultiplier,
	}
}

// FromSlice returns a List whose committed state is a copy of values.
func FromSlice[V any](values []V) *List[V] {
	cp := make([]V, len(values))
	copy(cp, values)
	return &List[V]{
		tree:                 optree.New[V](),
		array:                seqarray.FromSlice(cp),
		autoCommitMultiplier: defaultAutoCommitMultiplier,
	}
}

// SetAutoCommitMultiplier overrides the performance-indicator
// threshold (default defaultAutoCommitMultiplier) that governs when
// List commits on the caller's behalf. A multiplier of 0 disables
// auto-commit entirely; the caller must then call Commit explicitly.
func (l *List[V]) SetAutoCommitMultiplier(multiplier int) {
	l.autoCommitMultiplier = multiplier
}

// Len reports the list's current length: the committed array's length
// plus every pending operation's net contribution.
func (l *List[V]) Len() int {
	return l.array.Len() + l.tree.NetIndexBalance()
}

// Insert records a pending insertion of v at index k, shifting every
// element currently at or after k one place to the right. k may equal
// Len() (append).
func (l *List[V]) Insert(k int, v V) error {
	if k < 0 || k > l.Len() {
		return fmt.Errorf("deferred: Insert(%d): %w", k, ErrIndexOutOfRange)
	}
	l.tree.ApplyInsert(k, v)
	l.maybeAutoCommit()
	return nil
}

// Set records a pending overwrite of the element currently visible at
// index k.
func (l *List[V]) Set(k int, v V) error {
	if k < 0 || k >= l.Len() {
		return fmt.Errorf("deferred: Set(%d): %w", k, ErrIndexOutOfRange)
	}
	l.tree.ApplySet(k, v)
	l.maybeAutoCommit()
	return nil
}

// Remove records a pending removal of the element currently visible
// at index k, shifting every subsequent element one place to the
// left.
func (l *List[V]) Remove(k int) error {
	if k < 0 || k >= l.Len() {
		return fmt.Errorf("deferred: Remove(%d): %w", k, ErrIndexOutOfRange)
	}
	l.tree.ApplyRemove(k)
	l.maybeAutoCommit()
	return nil
}

// Get reports the element currently visible at index k, whether or
// not it has been committed to the backing array yet.
func (l *List[V]) Get(k int) (V, error) {
	var zero V
	if k < 0 || k >= l.Len() {
		return zero, fmt.Errorf("deferred: Get(%d): %w", k, ErrIndexOutOfRange)
	}
	found, value, fallback := l.tree.Find(k)
	if found {
		return value, nil
	}
	return l.array.Get(fallback), nil
}

// Commit merges every pending edit into the backing array in a single
// linear pass (§4.7) and clears the tree. Committing an already-empty
// tree is a no-op, satisfying §8's "committing twice is equivalent to
// committing once" property.
func (l *List[V]) Commit() {
	if l.tree.IsEmpty() {
		return
	}
	newLen := l.Len()
	commit.Apply(l.array, newLen, l.tree.Drain(l.array.Len()))
	l.tree.Clear()
}

// Slice commits any pending edits and returns a copy of the resulting
// committed state. Pending edits are not visible through List's array
// internals without first committing (§1's Non-goals: no stable
// iteration while edits are pending).
func (l *List[V]) Slice() []V {
	l.Commit()
	out := make([]V, l.array.Len())
	copy(out, l.array.Slice())
	return out
}

// PendingNodes reports the number of nodes currently carrying a
// pending operation, exposed for callers (and the demo/harness
// binaries) that want visibility into the tree without reaching into
// internal/optree directly.
func (l *List[V]) PendingNodes() int {
	return l.tree.NodeCount()
}

// WriteDot renders the pending-edit tree in Graphviz DOT format,
// exposed only for the demo binary's --dot flag; no core algorithm
// depends on it.
func (l *List[V]) WriteDot(w io.Writer) {
	l.tree.WriteDot(w)
}

// maybeAutoCommit implements the auto-commit policy named but left to
// the façade by §6: once the tree's height bound reaches the
// configured multiple of log2(committed length + 1), the accumulated
// edits are judged expensive enough relative to a flat commit that
// committing now is worthwhile.
func (l *List[V]) maybeAutoCommit() {
	if l.autoCommitMultiplier <= 0 || l.tree.IsEmpty() {
		return
	}
	threshold := float64(l.autoCommitMultiplier) * math.Log2(float64(l.array.Len()+1))
	if float64(l.tree.HeightBound()) >= threshold {
		l.Commit()
	}
}
