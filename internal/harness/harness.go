// Package harness implements the randomized integrity harness of §8:
// a naive reference array-list plus a seed-reproducible comparison
// loop that drives both the reference and a deferred.List through the
// same random sequence of inserts/sets/removes, checking the lengths
// after every edit and the contents after every Commit. It is shared between
// cmd/deferred-harness and the Go tests that exercise it at CI-speed
// iteration counts, grounded in the teacher's own habit of keeping a
// VerifyTreeProperties-style checker separate from production code.
package harness

import (
	"fmt"
	"math/rand"

	"github.com/arborly/deferred"
)

// Op names the three edits the harness drives at random.
type Op int

const (
	OpInsert Op = iota
	OpSet
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "Insert"
	case OpSet:
		return "Set"
	case OpRemove:
		return "Remove"
	default:
		return "Unknown"
	}
}

// Reference is the naive array-list the deferred.List under test is
// checked against: every edit is applied immediately, with no
// deferred tree of its own.
type Reference[V any] struct {
	data []V
}

// NewReference returns a Reference seeded with a copy of initial.
func NewReference[V any](initial []V) *Reference[V] {
	data := make([]V, len(initial))
	copy(data, initial)
	return &Reference[V]{data: data}
}

func (r *Reference[V]) Len() int { return len(r.data) }

func (r *Reference[V]) Get(k int) V { return r.data[k] }

func (r *Reference[V]) Insert(k int, v V) {
	r.data = append(r.data, v)
	copy(r.data[k+1:], r.data[k:])
	r.data[k] = v
}

func (r *Reference[V]) Set(k int, v V) { r.data[k] = v }

func (r *Reference[V]) Remove(k int) {
	r.data = append(r.data[:k], r.data[k+1:]...)
}

// Slice returns a copy of the reference's current contents.
func (r *Reference[V]) Slice() []V {
	out := make([]V, len(r.data))
	copy(out, r.data)
	return out
}

// MismatchError reports the iteration and the two divergent slices
// when a comparison between the reference and the list under test
// fails.
type MismatchError struct {
	Iteration int
	Stage     string
	Reference []int
	Got       []int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("harness: mismatch at iteration %d (%s): reference=%v got=%v", e.Iteration, e.Stage, e.Reference, e.Got)
}

// Config controls a Run invocation.
type Config struct {
	Seed        int64
	Iterations  int
	CommitEvery int // commit the list under test every N iterations; 0 disables periodic commits
	Initial     []int
}

// Report summarizes a completed Run.
type Report struct {
	Iterations int
	Commits    int
	FinalLen   int
}

// Run drives Reference and a deferred.List[int] through cfg.Iterations
// uniformly random Insert/Set/Remove edits at random valid indices,
// comparing their lengths after every edit and their contents after
// every periodic Commit (per CommitEvery) and after a final Commit. It returns a *MismatchError (wrapped as error) on the first
// divergence found, matching the teacher's fail-fast harness idiom
// rather than collecting every mismatch.
func Run(cfg Config) (Report, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	ref := NewReference(cfg.Initial)
	list := deferred.FromSlice(cfg.Initial)

	commits := 0
	for i := 0; i < cfg.Iterations; i++ {
		n := ref.Len()
		op := Op(rng.Intn(3))
		if n == 0 {
			op = OpInsert
		}

		switch op {
		case OpInsert:
			k := rng.Intn(n + 1)
			v := rng.Int()
			ref.Insert(k, v)
			if err := list.Insert(k, v); err != nil {
				return Report{}, err
			}
		case OpSet:
			k := rng.Intn(n)
			v := rng.Int()
			ref.Set(k, v)
			if err := list.Set(k, v); err != nil {
				return Report{}, err
			}
		case OpRemove:
			k := rng.Intn(n)
			ref.Remove(k)
			if err := list.Remove(k); err != nil {
				return Report{}, err
			}
		}

		if list.Len() != ref.Len() {
			return Report{}, &MismatchError{Iteration: i, Stage: fmt.Sprintf("post-%s length", op), Reference: []int{ref.Len()}, Got: []int{list.Len()}}
		}

		if cfg.CommitEvery > 0 && i%cfg.CommitEvery == 0 {
			list.Commit()
			commits++
			if err := compare(i, "post-commit", ref, list); err != nil {
				return Report{}, err
			}
		}
	}

	list.Commit()
	commits++
	if err := compare(cfg.Iterations, "final", ref, list); err != nil {
		return Report{}, err
	}

	return Report{Iterations: cfg.Iterations, Commits: commits, FinalLen: ref.Len()}, nil
}

func compare(iteration int, stage string, ref *Reference[int], list *deferred.List[int]) error {
	got := list.Slice()
	want := ref.Slice()
	if len(got) != len(want) {
		return &MismatchError{Iteration: iteration, Stage: stage, Reference: want, Got: got}
	}
	for i := range want {
		if want[i] != got[i] {
			return &MismatchError{Iteration: iteration, Stage: stage, Reference: want, Got: got}
		}
	}
	return nil
}
