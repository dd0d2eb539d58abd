package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// Sides is the number of faces on every die in the pool.
const Sides = 6

// Roller produces a single die face in 1..Sides.
type Roller interface {
	Roll() int
}

// CryptoRoller fetches a strongly uniform face via crypto/rand.
type CryptoRoller struct{}

func (CryptoRoller) Roll() int {
	n, err := rand.Int(rand.Reader, big.NewInt(Sides))
	if err != nil {
		// crypto/rand does not fail on supported platforms
		return mrand.IntN(Sides) + 1
	}
	return int(n.Int64()) + 1
}

// SeededRoller is a reproducible roller for simulations.
type SeededRoller struct {
	rng *mrand.Rand
}

// NewSeededRoller returns a roller whose sequence is fixed by seed.
func NewSeededRoller(seed uint64) *SeededRoller {
	return &SeededRoller{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *SeededRoller) Roll() int {
	return r.rng.IntN(Sides) + 1
}

// QueueRoller hands out a prepared sequence of faces, then defers to
// Fallback (or CryptoRoller when Fallback is nil) once the queue is empty.
type QueueRoller struct {
	queue    []int
	Fallback Roller
}

// NewQueueRoller prepares a deterministic sequence of results.
func NewQueueRoller(faces ...int) *QueueRoller {
	return &QueueRoller{queue: append([]int(nil), faces...)}
}

func (q *QueueRoller) Roll() int {
	if len(q.queue) > 0 {
		v := q.queue[0]
		q.queue = q.queue[1:]
		return v
	}
	if q.Fallback != nil {
		return q.Fallback.Roll()
	}
	return CryptoRoller{}.Roll()
}
