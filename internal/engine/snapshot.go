package engine

import (
	"github.com/haarrywhiite/Farkle/internal/dice"
	"github.com/haarrywhiite/Farkle/internal/scoring"
)

// Snapshot is a read-only copy of everything a renderer or strategy needs.
type Snapshot struct {
	Phase          Phase                   `json:"phase"`
	Players        []Player                `json:"players"`
	Current        int                     `json:"current"`
	TurnTotal      int                     `json:"turn_total"`
	Pending        scoring.Result          `json:"pending"`
	LiveScore      int                     `json:"live_score"`
	Dice           [dice.PoolSize]dice.Die `json:"dice"`
	Available      int                     `json:"available"`
	AvailableAt    []int                   `json:"available_at"`
	Target         int                     `json:"target"`
	OpeningMinimum int                     `json:"opening_minimum"`
	History        []HistoryEntry          `json:"history"`
	Bracket        *Bracket                `json:"bracket,omitempty"`
	Winner         string                  `json:"winner,omitempty"`
}

// Snapshot copies the observable state of the game.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Phase:          g.phase,
		Players:        g.scores(),
		Current:        g.current,
		TurnTotal:      g.turn.TurnTotal,
		Pending:        g.turn.Pending,
		LiveScore:      g.turn.Live(),
		Dice:           g.pool.Dice(),
		Available:      g.pool.Count(dice.Available),
		AvailableAt:    g.pool.AvailableIndices(),
		Target:         g.opts.Target,
		OpeningMinimum: g.opts.OpeningMinimum,
		History:        append([]HistoryEntry(nil), g.history...),
		Winner:         g.winner,
	}
	if g.bracket != nil {
		s.Bracket = g.bracket.clone()
	}
	return s
}

// CurrentPlayer returns the player whose turn it is.
func (s Snapshot) CurrentPlayer() Player {
	if s.Current < 0 || s.Current >= len(s.Players) {
		return Player{}
	}
	return s.Players[s.Current]
}

// Leader returns the player with the highest total. Ties go to the
// earlier seat.
func (s Snapshot) Leader() Player {
	var best Player
	for i, p := range s.Players {
		if i == 0 || p.TotalScore > best.TotalScore {
			best = p
		}
	}
	return best
}

// Faces returns the faces of the dice in the given status, in pool order.
func (s Snapshot) Faces(st dice.Status) []int {
	var out []int
	for _, d := range s.Dice {
		if d.Status == st {
			out = append(out, d.Face)
		}
	}
	return out
}

// ScoringPositions returns the 0-based pool positions of the available
// dice that take part in a score.
func (s Snapshot) ScoringPositions() []int {
	var out []int
	for _, k := range scoring.ScoringIndices(s.Faces(dice.Available)) {
		out = append(out, s.AvailableAt[k])
	}
	return out
}
