// Package engine implements the Farkle turn and game state machine.
// A Game is an explicit instance owned by whoever drives it; every
// mutation goes through its entry points and reports what happened as
// a slice of Events.
package engine

import (
	"github.com/haarrywhiite/Farkle/internal/dice"
	"github.com/haarrywhiite/Farkle/internal/scoring"
)

// Phase is the lifecycle stage of the current turn or game.
type Phase string

const (
	// PhaseAwaitingRoll is the start of a turn, before the first roll.
	PhaseAwaitingRoll Phase = "awaiting_roll"
	// PhaseRolling is held only while dice are being rolled.
	PhaseRolling Phase = "rolling"
	// PhaseSelecting waits for the player to pick scoring dice.
	PhaseSelecting Phase = "selecting"
	// PhaseTurnOver follows a bust until StartTurn hands over to the next player.
	PhaseTurnOver Phase = "turn_over"
	// PhaseMatchOver sits between tournament matches.
	PhaseMatchOver Phase = "match_over"
	// PhaseGameOver is terminal for the session.
	PhaseGameOver Phase = "game_over"
)

// DefaultTarget is the winning threshold when none is configured.
const DefaultTarget = 10000

// Player is one competitor in the current game or match.
type Player struct {
	Name       string `json:"name"`
	TotalScore int    `json:"total_score"`
	Automated  bool   `json:"automated"`
	// OnBoard is set once the player has banked at least once.
	OnBoard bool `json:"on_board"`
}

// Entrant describes a player before a game or tournament match starts.
type Entrant struct {
	Name      string `json:"name" yaml:"name"`
	Automated bool   `json:"automated" yaml:"automated"`
}

// TurnState is the per-turn accumulator.
type TurnState struct {
	// TurnTotal holds points committed by earlier rolls this turn.
	TurnTotal int `json:"turn_total"`
	// Pending is the score of the currently selected dice.
	Pending scoring.Result `json:"pending"`
}

// Live is the turn score shown to players: committed plus pending.
func (t TurnState) Live() int { return t.TurnTotal + t.Pending.Points }

// HistoryEntry records one completed turn.
type HistoryEntry struct {
	Player string `json:"player"`
	Points int    `json:"points"`
	Bust   bool   `json:"bust"`
	// Match is the bracket index the turn belonged to, or -1 outside tournaments.
	Match int `json:"match"`
}

// Options configures a game at creation time.
type Options struct {
	Target int
	// OpeningMinimum is the smallest turn score a player may bank before
	// getting on board. Zero disables the rule.
	OpeningMinimum int
	Roller         dice.Roller
}

func (o Options) withDefaults() Options {
	if o.Target <= 0 {
		o.Target = DefaultTarget
	}
	if o.OpeningMinimum < 0 {
		o.OpeningMinimum = 0
	}
	if o.Roller == nil {
		o.Roller = dice.CryptoRoller{}
	}
	return o
}
