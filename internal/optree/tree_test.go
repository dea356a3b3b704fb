package optree

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyTree(t *testing.T) {
	tr := New[int]()
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, 0, tr.NodeCount())
	assert.Equal(t, 0, tr.NetIndexBalance())
	found, _, fallback := tr.Find(5)
	assert.False(t, found)
	assert.Equal(t, 5, fallback)
}

func TestSingleInsert(t *testing.T) {
	tr := New[string]()
	tr.ApplyInsert(0, "a")
	assert.Equal(t, 1, tr.NodeCount())
	assert.Equal(t, 1, tr.NetIndexBalance())
	found, v, _ := tr.Find(0)
	require.True(t, found)
	assert.Equal(t, "a", v)
	require.NoError(t, tr.ValidateRedBlack())
}

func TestInsertCancelledByRemove(t *testing.T) {
	tr := New[int]()
	tr.ApplyInsert(1, 99)
	tr.ApplyRemove(1)
	assert.True(t, tr.IsEmpty())
	assert.Equal(t, 0, tr.NetIndexBalance())
}

func TestSetThenSetOverwrites(t *testing.T) {
	tr := New[int]()
	tr.ApplySet(0, 1)
	tr.ApplySet(0, 2)
	assert.Equal(t, 1, tr.NodeCount())
	found, v, _ := tr.Find(0)
	require.True(t, found)
	assert.Equal(t, 2, v)
	assert.Equal(t, 0, tr.NetIndexBalance())
}

func TestSetThenRemoveSupersedes(t *testing.T) {
	tr := New[int]()
	tr.ApplySet(0, 1)
	tr.ApplyRemove(0)
	assert.Equal(t, 1, tr.NodeCount())
	assert.Equal(t, -1, tr.NetIndexBalance())
	found, _, fallback := tr.Find(0)
	assert.False(t, found)
	assert.Equal(t, 1, fallback)
}

func TestRemoveThenInsertBecomesSet(t *testing.T) {
	tr := New[string]()
	tr.ApplyRemove(1)
	tr.ApplyInsert(1, "q")
	assert.Equal(t, 1, tr.NodeCount())
	assert.Equal(t, 0, tr.NetIndexBalance())
	found, v, _ := tr.Find(1)
	require.True(t, found)
	assert.Equal(t, "q", v)
}

func TestAdjacentRemovesCollapse(t *testing.T) {
	tr := New[int]()
	tr.ApplyRemove(1)
	tr.ApplyRemove(1)
	tr.ApplyRemove(1)
	assert.Equal(t, 1, tr.NodeCount())
	assert.Equal(t, -3, tr.NetIndexBalance())
}

func TestValidateRedBlackHoldsUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := New[int]()
	length := 100

	for i := 0; i < 5000; i++ {
		if length == 0 {
			tr.ApplyInsert(0, i)
			length++
			continue
		}
		switch rng.Intn(3) {
		case 0:
			k := rng.Intn(length + 1)
			tr.ApplyInsert(k, i)
			length++
		case 1:
			k := rng.Intn(length)
			tr.ApplySet(k, i)
		case 2:
			k := rng.Intn(length)
			tr.ApplyRemove(k)
			length--
		}
		require.NoError(t, tr.ValidateRedBlack(), "iteration %d", i)
		require.NoError(t, tr.ValidateHeight(), "iteration %d", i)
	}
}

func TestDrainOrderingIsStrictlyIncreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	tr := New[int]()
	length := 50

	for i := 0; i < 500; i++ {
		switch rng.Intn(3) {
		case 0:
			k := rng.Intn(length + 1)
			tr.ApplyInsert(k, i)
			length++
		case 1:
			if length == 0 {
				continue
			}
			k := rng.Intn(length)
			tr.ApplySet(k, i)
		case 2:
			if length == 0 {
				continue
			}
			k := rng.Intn(length)
			tr.ApplyRemove(k)
			length--
		}
	}

	last := -1
	lastKind := Kind(-1)
	sawEnd := false
	for rec := range tr.Drain(1000) {
		if rec.End {
			sawEnd = true
			continue
		}
		require.False(t, sawEnd, "End record was not terminal")
		// A fused Remove+Set node emits both records at its one key;
		// keys strictly increase from node to node.
		if rec.Kind == Set && lastKind == Remove && rec.Key == last {
			lastKind = rec.Kind
			continue
		}
		require.Greater(t, rec.Key, last)
		last = rec.Key
		lastKind = rec.Kind
	}
	assert.True(t, sawEnd)
}

func TestRemoveRunThenInsertDecrementsCountAndInstallsSet(t *testing.T) {
	tr := New[string]()
	tr.ApplyRemove(1)
	tr.ApplyRemove(1)
	tr.ApplyRemove(1)
	require.Equal(t, 1, tr.NodeCount())
	require.Equal(t, -3, tr.NetIndexBalance())

	tr.ApplyInsert(1, "x")
	assert.Equal(t, 1, tr.NodeCount(), "the run and the insert fuse into the same node")
	assert.Equal(t, -2, tr.NetIndexBalance(), "one of the three pending removes is cancelled by the insert")
	require.NoError(t, tr.ValidateRedBlack())

	found, v, _ := tr.Find(1)
	require.True(t, found)
	assert.Equal(t, "x", v, "op_b's Set shadows the surviving Remove(count=2) at the same key")
}

func TestFuseIllegalInsertAfterInsertPanics(t *testing.T) {
	// Two Inserts directly fused into one op_a (bypassing the tree's
	// descend-and-create path) must be rejected by validateSlot.
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*ConsistencyError)
		assert.True(t, ok)
	}()
	n := &Node[int]{opA: &Operation[int]{Kind: Insert, Count: 1}}
	n.opB = &Operation[int]{Kind: Insert, Count: 1}
	validateSlot(n)
}
