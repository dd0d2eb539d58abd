package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollAvailableOnlyTouchesAvailable(t *testing.T) {
	p := NewPool(NewQueueRoller(1, 2, 3, 4, 5, 6, 6, 6, 6, 6))
	first := p.RollAvailable()
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, first)

	require.NoError(t, p.Toggle(0))
	p.LockSelected()
	require.NoError(t, p.Toggle(4))

	second := p.RollAvailable()
	assert.Len(t, second, 4)
	d := p.Dice()
	assert.Equal(t, 1, d[0].Face, "locked die keeps its face")
	assert.Equal(t, 5, d[4].Face, "selected die keeps its face")
}

func TestToggle(t *testing.T) {
	p := NewPool(NewQueueRoller())

	require.NoError(t, p.Toggle(2))
	assert.Equal(t, Selected, p.Dice()[2].Status)
	require.NoError(t, p.Toggle(2))
	assert.Equal(t, Available, p.Dice()[2].Status)

	require.NoError(t, p.Toggle(3))
	p.LockSelected()
	assert.ErrorIs(t, p.Toggle(3), ErrDieLocked)
	assert.Equal(t, Locked, p.Dice()[3].Status)

	assert.ErrorIs(t, p.Toggle(6), ErrNoSuchDie)
	assert.ErrorIs(t, p.Toggle(-1), ErrNoSuchDie)
}

func TestAllCommittedAndReset(t *testing.T) {
	p := NewPool(NewQueueRoller())
	assert.False(t, p.AllCommitted())

	for i := 0; i < PoolSize; i++ {
		require.NoError(t, p.Toggle(i))
	}
	assert.True(t, p.AllCommitted(), "selected dice count as committed")

	p.LockSelected()
	assert.True(t, p.AllCommitted())
	assert.Equal(t, PoolSize, p.Count(Locked))
	assert.Empty(t, p.SelectedFaces())

	p.ResetAll()
	assert.Equal(t, PoolSize, p.Count(Available))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, p.AvailableIndices())
}

func TestFaceViews(t *testing.T) {
	p := NewPool(NewQueueRoller(1, 5, 2, 2, 2, 6))
	p.RollAvailable()
	require.NoError(t, p.Toggle(0))
	require.NoError(t, p.Toggle(1))
	p.LockSelected()
	require.NoError(t, p.Toggle(2))

	assert.Equal(t, []int{1, 5}, p.LockedFaces())
	assert.Equal(t, []int{2}, p.SelectedFaces())
	assert.Equal(t, []int{2, 2, 6}, p.AvailableFaces())
}

func TestRollersStayInRange(t *testing.T) {
	rollers := map[string]Roller{
		"crypto": CryptoRoller{},
		"seeded": NewSeededRoller(7),
	}
	for name, r := range rollers {
		for i := 0; i < 500; i++ {
			v := r.Roll()
			if v < 1 || v > Sides {
				t.Fatalf("%s roller produced %d", name, v)
			}
		}
	}
}

func TestSeededRollerIsReproducible(t *testing.T) {
	a, b := NewSeededRoller(42), NewSeededRoller(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Roll(), b.Roll())
	}
}

func TestQueueRollerFallback(t *testing.T) {
	q := NewQueueRoller(3)
	q.Fallback = NewQueueRoller(6)
	assert.Equal(t, 3, q.Roll())
	assert.Equal(t, 6, q.Roll())
	assert.Equal(t, 6, q.Roll())
}
