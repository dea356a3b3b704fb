// Package commit implements the boundary described in spec §4.7: the
// single linear pass that rewrites a backing array in place from an
// Operation Tree's in-order operation stream, using a small FIFO ring
// buffer to carry displaced elements across inserts and removes.
package commit

import (
	"iter"

	"github.com/arborly/deferred/internal/optree"
	"github.com/arborly/deferred/internal/seqarray"
)

// ring is the minimal FIFO the applier needs: push at the back, pop
// from the front. Isolated from seqarray.Array since it never needs
// random access or growth-policy control, just queue semantics.
type ring[V any] struct {
	buf []V
}

func (r *ring[V]) push(v V)   { r.buf = append(r.buf, v) }
func (r *ring[V]) pop() V     { v := r.buf[0]; r.buf = r.buf[1:]; return v }
func (r *ring[V]) empty() bool { return len(r.buf) == 0 }

// Apply drains stream into array, rewriting it in place so its new
// length is newLen (the length the stream's terminal EndOp record
// names). The caller is expected to have produced stream via a
// Tree's Drain and newLen via length + Tree.NetIndexBalance().
func Apply[V any](array *seqarray.Array[V], newLen int, stream iter.Seq[optree.OpRecord[V]]) {
	originalLen := array.Len()
	if newLen > originalLen {
		array.Grow(newLen)
	}

	var q ring[V]
	writeIndex, readIndex := 0, 0
	var pending V
	hasPending := false

	flushTo := func(k int) {
		for writeIndex < k {
			if readIndex < originalLen {
				q.push(array.Get(readIndex))
			}
			if hasPending {
				array.Set(writeIndex, pending)
				hasPending = false
				if !q.empty() {
					q.pop()
				}
			} else {
				array.Set(writeIndex, q.pop())
			}
			writeIndex++
			readIndex++
		}
	}

	for rec := range stream {
		if rec.End {
			flushTo(rec.Key)
			break
		}

		flushTo(rec.Key)

		switch rec.Kind {
		case optree.Insert:
			if readIndex < originalLen {
				q.push(array.Get(readIndex))
			}
			array.Set(writeIndex, rec.Value)
			writeIndex++
			readIndex++
		case optree.Set:
			pending = rec.Value
			hasPending = true
		case optree.Remove:
			for i := 0; i < rec.Count; i++ {
				if readIndex < originalLen {
					q.push(array.Get(readIndex))
					readIndex++
				}
				if !q.empty() {
					q.pop()
				}
			}
		}
	}

	array.Truncate(newLen)
}
