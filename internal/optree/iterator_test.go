package optree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDrainPartialConsumptionLeavesTreeConsistent exercises the §5
// "hidden pitfall": a consumer that stops ranging over Drain before
// exhausting it still leaves every visited node's keyShift pushed
// down, and that partial flattening must not corrupt subsequently
// applied edits.
func TestDrainPartialConsumptionLeavesTreeConsistent(t *testing.T) {
	tr := New[int]()
	for i := 0; i < 20; i++ {
		tr.ApplyInsert(0, i)
	}
	require.NoError(t, tr.ValidateRedBlack())

	seen := 0
	for range tr.Drain(0) {
		seen++
		if seen == 3 {
			break
		}
	}

	require.NoError(t, tr.ValidateRedBlack())

	tr.ApplyInsert(5, 999)
	require.NoError(t, tr.ValidateRedBlack())

	var keys []int
	for rec := range tr.Drain(0) {
		if rec.End {
			continue
		}
		keys = append(keys, rec.Key)
	}
	for i := 1; i < len(keys); i++ {
		assert.Greater(t, keys[i], keys[i-1])
	}
}

func TestDrainEmitsEndOpAtNetLength(t *testing.T) {
	tr := New[int]()
	tr.ApplyInsert(0, 1)
	tr.ApplyInsert(1, 2)
	tr.ApplyRemove(0)

	var end OpRecord[int]
	for rec := range tr.Drain(10) {
		if rec.End {
			end = rec
		}
	}
	assert.Equal(t, 10+tr.NetIndexBalance(), end.Key)
}
