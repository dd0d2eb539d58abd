// Package policy decides when an automated player banks, explains that
// decision as advice, and plays whole automated turns.
package policy

import (
	"fmt"
	"strings"

	"github.com/haarrywhiite/Farkle/internal/engine"
)

// Difficulty scales the banking thresholds.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ParseDifficulty accepts easy, medium or hard in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Easy, Medium, Hard:
		return d, nil
	case "":
		return Medium, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
}

// Action is the decision taken after scoring dice are selected.
type Action int

const (
	Bank Action = iota
	Continue
)

func (a Action) String() string {
	if a == Continue {
		return "continue"
	}
	return "bank"
}

// Strategy decides between banking and rolling again.
type Strategy interface {
	Decide(s engine.Snapshot) Action
}

// DefaultThresholds maps the number of dice that would be rolled next to
// the turn score worth protecting.
var DefaultThresholds = map[int]int{1: 150, 2: 250, 3: 350, 4: 500, 5: 600, 6: 800}

// DefaultMultipliers scales thresholds per difficulty.
var DefaultMultipliers = map[Difficulty]float64{Easy: 0.7, Medium: 1.0, Hard: 1.2}

const DefaultThreshold = 300

// Policy is the threshold strategy.
type Policy struct {
	Difficulty       Difficulty
	Thresholds       map[int]int
	DefaultThreshold int
	Multipliers      map[Difficulty]float64
}

// Default returns the standard threshold table at the given difficulty.
func Default(d Difficulty) Policy {
	return Policy{
		Difficulty:       d,
		Thresholds:       DefaultThresholds,
		DefaultThreshold: DefaultThreshold,
		Multipliers:      DefaultMultipliers,
	}
}

// Threshold is the scaled banking threshold for diceCount remaining dice.
func (p Policy) Threshold(diceCount int) float64 {
	base, ok := p.Thresholds[diceCount]
	if !ok {
		base = p.DefaultThreshold
	}
	mult, ok := p.Multipliers[p.Difficulty]
	if !ok {
		mult = 1
	}
	return float64(base) * mult
}

// ChooseAction applies the threshold rule to a snapshot taken after the
// selection. Hot dice always continue, and so does a player who has not
// yet reached the opening minimum.
func (p Policy) ChooseAction(s engine.Snapshot) Action {
	if s.Available == 0 {
		return Continue
	}
	live := s.TurnTotal + s.Pending.Points
	if s.OpeningMinimum > 0 && !s.CurrentPlayer().OnBoard && live < s.OpeningMinimum {
		return Continue
	}
	if float64(live) < p.Threshold(s.Available) {
		return Continue
	}
	return Bank
}

func (p Policy) Decide(s engine.Snapshot) Action { return p.ChooseAction(s) }
