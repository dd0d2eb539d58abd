package engine

import (
	"fmt"
	"strings"

	"github.com/haarrywhiite/Farkle/internal/dice"
)

const (
	// TournamentSize is the number of entrants in a bracket.
	TournamentSize = 4
	// FinalMatch is the bracket index of the final.
	FinalMatch = 2
)

// Match is one bracket slot. Empty player names mean the slot waits on
// an earlier match.
type Match struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	Winner  string `json:"winner,omitempty"`
}

// Ready reports whether both seats are filled and the match is unplayed.
func (m Match) Ready() bool {
	return m.Player1 != "" && m.Player2 != "" && m.Winner == ""
}

// Bracket is a single-elimination bracket for four entrants: two
// semifinals feeding one final.
type Bracket struct {
	Entrants []Entrant `json:"entrants"`
	Matches  [3]Match  `json:"matches"`
	// Current is the match being played, or -1 between matches.
	Current  int    `json:"current"`
	Champion string `json:"champion,omitempty"`
}

func (b *Bracket) clone() *Bracket {
	c := *b
	c.Entrants = append([]Entrant(nil), b.Entrants...)
	return &c
}

func (b *Bracket) entrant(name string) Entrant {
	for _, e := range b.Entrants {
		if e.Name == name {
			return e
		}
	}
	return Entrant{Name: name}
}

// MatchName labels a bracket index for display.
func MatchName(i int) string {
	switch i {
	case 0:
		return "Semifinal 1"
	case 1:
		return "Semifinal 2"
	case FinalMatch:
		return "The Final"
	}
	return fmt.Sprintf("Match %d", i+1)
}

// NewTournament creates a game in tournament mode and starts the first match.
func NewTournament(entrants []Entrant, opts Options) (*Game, []Event, error) {
	opts = opts.withDefaults()
	g := &Game{opts: opts, pool: dice.NewPool(opts.Roller), phase: PhaseMatchOver}
	events, err := g.StartTournamentWith(entrants)
	if err != nil {
		return nil, nil, err
	}
	return g, events, nil
}

// StartTournament builds a bracket from four names. The first entrant is
// the human; the rest are automated.
func (g *Game) StartTournament(names []string) ([]Event, error) {
	entrants := make([]Entrant, len(names))
	for i, n := range names {
		entrants[i] = Entrant{Name: n, Automated: i > 0}
	}
	return g.StartTournamentWith(entrants)
}

// StartTournamentWith replaces any game in progress with a fresh bracket:
// entrants 0 and 1 meet in the first semifinal, 2 and 3 in the second.
// The first semifinal starts immediately.
func (g *Game) StartTournamentWith(entrants []Entrant) ([]Event, error) {
	if g.phase == PhaseRolling || g.phase == PhaseSelecting {
		return nil, reject(ErrTurnInProgress, "Finish the current turn first.")
	}
	if len(entrants) != TournamentSize {
		return nil, reject(ErrInvalidSetup, "A tournament needs exactly %d entrants.", TournamentSize)
	}
	if err := validateEntrants(entrants, TournamentSize); err != nil {
		return nil, &Rejection{Cause: ErrInvalidSetup, Msg: err.Error()}
	}

	b := &Bracket{Current: -1}
	for _, e := range entrants {
		b.Entrants = append(b.Entrants, Entrant{Name: strings.TrimSpace(e.Name), Automated: e.Automated})
	}
	b.Matches[0] = Match{Player1: b.Entrants[0].Name, Player2: b.Entrants[1].Name}
	b.Matches[1] = Match{Player1: b.Entrants[2].Name, Player2: b.Entrants[3].Name}

	g.bracket = b
	g.history = nil
	g.winner = ""
	g.phase = PhaseMatchOver

	events := []Event{&TournamentStartedEvent{Entrants: append([]Entrant(nil), b.Entrants...)}}
	started, err := g.StartMatch(0)
	if err != nil {
		return nil, err
	}
	return append(events, started...), nil
}

// StartMatch seats the two players of bracket match i with fresh scores.
func (g *Game) StartMatch(i int) ([]Event, error) {
	if g.bracket == nil {
		return nil, reject(ErrNoTournament, "No tournament is running.")
	}
	if g.phase != PhaseMatchOver {
		return nil, reject(ErrMatchNotReady, "A match is already being played.")
	}
	if i < 0 || i > FinalMatch {
		return nil, reject(ErrMatchNotReady, "There is no match %d.", i+1)
	}
	m := g.bracket.Matches[i]
	if !m.Ready() {
		return nil, reject(ErrMatchNotReady, "%s cannot start yet.", MatchName(i))
	}

	g.seat([]Entrant{g.bracket.entrant(m.Player1), g.bracket.entrant(m.Player2)})
	g.bracket.Current = i
	g.beginTurn()
	return []Event{
		&MatchStartedEvent{Match: i, Player1: m.Player1, Player2: m.Player2},
		g.turnStarted(),
	}, nil
}

// NextMatch returns the lowest-indexed playable match, or -1.
func (g *Game) NextMatch() int {
	if g.bracket == nil {
		return -1
	}
	for i, m := range g.bracket.Matches {
		if m.Ready() {
			return i
		}
	}
	return -1
}

func (g *Game) resolveMatch(winner string) []Event {
	b := g.bracket
	idx := b.Current
	b.Matches[idx].Winner = winner
	b.Current = -1
	events := []Event{&MatchWonEvent{Match: idx, Winner: winner}}

	if idx == FinalMatch {
		b.Champion = winner
		g.winner = winner
		g.phase = PhaseGameOver
		return append(events, &TournamentWonEvent{Champion: winner})
	}

	if idx == 0 {
		b.Matches[FinalMatch].Player1 = winner
	} else {
		b.Matches[FinalMatch].Player2 = winner
	}
	g.phase = PhaseMatchOver
	if b.Matches[FinalMatch].Ready() {
		started, err := g.StartMatch(FinalMatch)
		if err == nil {
			events = append(events, started...)
		}
	}
	return events
}
