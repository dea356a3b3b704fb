package seqarray

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCapacityAvoidsReallocationOnGrow(t *testing.T) {
	a := NewWithCapacity[int](0)
	for i := 0; i < 1000; i++ {
		a.Append(i)
	}
	a.EnsureCapacity(2000)
	require.GreaterOrEqual(t, a.Cap(), 2000)

	backing := a.Slice()
	a.Grow(2000)
	assert.Same(t, &backing[0], &a.Slice()[0], "Grow should reuse capacity EnsureCapacity already reserved")
	assert.Equal(t, 2000, a.Len())
}

func TestGrowReallocatesWhenCapacityInsufficient(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	a.Grow(10)
	assert.Equal(t, 10, a.Len())
	assert.Equal(t, 1, a.Get(0))
	assert.Equal(t, 0, a.Get(9))
}

func TestTruncate(t *testing.T) {
	a := FromSlice([]int{1, 2, 3, 4, 5})
	a.Truncate(2)
	assert.Equal(t, []int{1, 2}, a.Slice())
}

func TestGetSet(t *testing.T) {
	a := FromSlice([]string{"a", "b", "c"})
	a.Set(1, "z")
	assert.Equal(t, "z", a.Get(1))
	assert.Equal(t, 3, a.Len())
}
