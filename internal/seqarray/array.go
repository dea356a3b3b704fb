// Package seqarray implements the dynamic-array primitive that holds
// a deferred list's committed state: a thin, generic wrapper around a
// Go slice whose growth policy is exactly append's, per §1's explicit
// scope exclusion of "dynamic-array growth policy" as an invented
// concern.
package seqarray

// Array is a generic growable sequence. The zero value is an empty,
// zero-capacity array ready to use.
type Array[V any] struct {
	data []V
}

// NewWithCapacity returns an empty Array pre-sized to hold at least
// capacity elements without reallocating.
func NewWithCapacity[V any](capacity int) *Array[V] {
	return &Array[V]{data: make([]V, 0, capacity)}
}

// FromSlice wraps an existing slice, taking ownership of it.
func FromSlice[V any](data []V) *Array[V] {
	return &Array[V]{data: data}
}

// Len reports the number of elements currently held.
func (a *Array[V]) Len() int { return len(a.data) }

// Cap reports the current backing capacity.
func (a *Array[V]) Cap() int { return cap(a.data) }

// Get returns the element at i. The caller is trusted to have range
// checked i; the array performs no validation of its own.
func (a *Array[V]) Get(i int) V { return a.data[i] }

// Set overwrites the element at i.
func (a *Array[V]) Set(i int, v V) { a.data[i] = v }

// Slice exposes the backing slice directly, for callers (the façade's
// Slice, and tests) that read it whole rather than through
// one-at-a-time Get calls. The commit applier does not use it.
func (a *Array[V]) Slice() []V { return a.data }

// EnsureCapacity pre-grows the backing slice so that a subsequent
// commit of up to n elements does not reallocate, letting a caller
// satisfy scenario 6 of §8 ("commit does not reallocate if capacity
// is already sufficient").
func (a *Array[V]) EnsureCapacity(n int) {
	if cap(a.data) >= n {
		return
	}
	grown := make([]V, len(a.data), n)
	copy(grown, a.data)
	a.data = grown
}

// Truncate shrinks the array to length n, which must not exceed the
// current length.
func (a *Array[V]) Truncate(n int) {
	a.data = a.data[:n]
}

// Grow extends the array's length to n, which must not be less than
// the current length, filling new slots with V's zero value. It
// reuses existing capacity rather than reallocating whenever
// EnsureCapacity(n) was already called, satisfying scenario 6 of §8.
func (a *Array[V]) Grow(n int) {
	if n <= len(a.data) {
		return
	}
	if cap(a.data) >= n {
		a.data = a.data[:n]
		return
	}
	grown := make([]V, n)
	copy(grown, a.data)
	a.data = grown
}

// Append grows the array by one element, using append's own growth
// policy.
func (a *Array[V]) Append(v V) {
	a.data = append(a.data, v)
}
