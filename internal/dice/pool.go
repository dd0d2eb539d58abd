// Package dice tracks the six physical dice of a Farkle table.
package dice

import (
	"errors"
	"fmt"
)

// PoolSize is the number of dice in play.
const PoolSize = 6

var (
	// ErrDieLocked is returned when toggling a die committed earlier in the turn.
	ErrDieLocked = errors.New("die is locked")
	// ErrNoSuchDie is returned for an index outside the pool.
	ErrNoSuchDie = errors.New("no such die")
)

// Status is the tri-state of a die within a turn.
type Status int

const (
	// Available dice can be rolled or selected.
	Available Status = iota
	// Selected dice count toward the pending score but are not committed.
	Selected
	// Locked dice were committed by a previous roll this turn.
	Locked
)

func (s Status) String() string {
	switch s {
	case Available:
		return "available"
	case Selected:
		return "selected"
	case Locked:
		return "locked"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Die is one six-sided die slot.
type Die struct {
	Face   int    `json:"face"`
	Status Status `json:"status"`
}

// Pool owns the six dice of one game.
type Pool struct {
	dice   [PoolSize]Die
	roller Roller
}

// NewPool creates a pool with every die available and showing a one.
func NewPool(roller Roller) *Pool {
	if roller == nil {
		roller = CryptoRoller{}
	}
	p := &Pool{roller: roller}
	for i := range p.dice {
		p.dice[i] = Die{Face: 1, Status: Available}
	}
	return p
}

// Dice returns a copy of the dice for rendering.
func (p *Pool) Dice() [PoolSize]Die { return p.dice }

// RollAvailable gives every available die a new face and returns the new
// faces in pool order. Selected and locked dice are untouched.
func (p *Pool) RollAvailable() []int {
	var faces []int
	for i := range p.dice {
		if p.dice[i].Status != Available {
			continue
		}
		p.dice[i].Face = p.roller.Roll()
		faces = append(faces, p.dice[i].Face)
	}
	return faces
}

// Toggle flips a die between available and selected.
func (p *Pool) Toggle(i int) error {
	if i < 0 || i >= PoolSize {
		return fmt.Errorf("%w: %d", ErrNoSuchDie, i)
	}
	switch p.dice[i].Status {
	case Locked:
		return ErrDieLocked
	case Selected:
		p.dice[i].Status = Available
	default:
		p.dice[i].Status = Selected
	}
	return nil
}

// LockSelected commits every selected die.
func (p *Pool) LockSelected() {
	for i := range p.dice {
		if p.dice[i].Status == Selected {
			p.dice[i].Status = Locked
		}
	}
}

// ResetAll makes every die available again.
func (p *Pool) ResetAll() {
	for i := range p.dice {
		p.dice[i].Status = Available
	}
}

// AllCommitted reports whether no die is left available (hot dice).
func (p *Pool) AllCommitted() bool {
	return p.Count(Available) == 0
}

// Count returns how many dice have the given status.
func (p *Pool) Count(s Status) int {
	n := 0
	for _, d := range p.dice {
		if d.Status == s {
			n++
		}
	}
	return n
}

// AvailableIndices returns the pool positions of available dice.
func (p *Pool) AvailableIndices() []int {
	var idx []int
	for i, d := range p.dice {
		if d.Status == Available {
			idx = append(idx, i)
		}
	}
	return idx
}

func (p *Pool) faces(s Status) []int {
	var out []int
	for _, d := range p.dice {
		if d.Status == s {
			out = append(out, d.Face)
		}
	}
	return out
}

// AvailableFaces returns the faces of available dice in pool order.
func (p *Pool) AvailableFaces() []int { return p.faces(Available) }

// SelectedFaces returns the faces of selected dice in pool order.
func (p *Pool) SelectedFaces() []int { return p.faces(Selected) }

// LockedFaces returns the faces of locked dice in pool order.
func (p *Pool) LockedFaces() []int { return p.faces(Locked) }
