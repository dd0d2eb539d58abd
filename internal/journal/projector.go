package journal

import (
	"sort"

	"github.com/haarrywhiite/Farkle/internal/engine"
)

// Standing is one player's record across a journal.
type Standing struct {
	Player        string `json:"player"`
	Turns         int    `json:"turns"`
	Busts         int    `json:"busts"`
	Points        int    `json:"points"`
	BestTurn      int    `json:"best_turn"`
	Wins          int    `json:"wins"`
	MatchWins     int    `json:"match_wins"`
	Championships int    `json:"championships"`
}

// BustRate is the share of turns that ended in a bust.
func (s Standing) BustRate() float64 {
	if s.Turns == 0 {
		return 0
	}
	return float64(s.Busts) / float64(s.Turns)
}

// Standings is the folded view of a journal.
type Standings struct {
	Games   int
	Players map[string]*Standing
}

// Projector computes Standings from the record sequence
type Projector struct{}

// NewProjector creates a standard projector.
func NewProjector() *Projector {
	return &Projector{}
}

// Build folds turn, game and bracket results into per-player standings.
func (p *Projector) Build(records []Record) *Standings {
	st := &Standings{Players: make(map[string]*Standing)}
	games := make(map[string]bool)

	for _, rec := range records {
		games[rec.GameID] = true
		switch evt := rec.Event.(type) {
		case *engine.TurnRecordedEvent:
			s := st.player(evt.Entry.Player)
			s.Turns++
			s.Points += evt.Entry.Points
			if evt.Entry.Bust {
				s.Busts++
			}
			if evt.Entry.Points > s.BestTurn {
				s.BestTurn = evt.Entry.Points
			}
		case *engine.GameWonEvent:
			st.player(evt.Winner).Wins++
		case *engine.MatchWonEvent:
			st.player(evt.Winner).MatchWins++
		case *engine.TournamentWonEvent:
			st.player(evt.Champion).Championships++
		}
	}
	st.Games = len(games)
	return st
}

func (s *Standings) player(name string) *Standing {
	if p, ok := s.Players[name]; ok {
		return p
	}
	p := &Standing{Player: name}
	s.Players[name] = p
	return p
}

// Ranked lists players by titles, wins and points, best first.
func (s *Standings) Ranked() []Standing {
	out := make([]Standing, 0, len(s.Players))
	for _, p := range s.Players {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Championships != b.Championships {
			return a.Championships > b.Championships
		}
		if a.Wins+a.MatchWins != b.Wins+b.MatchWins {
			return a.Wins+a.MatchWins > b.Wins+b.MatchWins
		}
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.Player < b.Player
	})
	return out
}
