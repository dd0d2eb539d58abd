package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/haarrywhiite/Farkle/internal/dice"
	"github.com/haarrywhiite/Farkle/internal/scoring"
)

// Game is one table: the players, the dice, the turn accumulator and,
// optionally, a tournament bracket. It is not safe for concurrent use
// beyond the busy guards on Roll and BeginAutomatedTurn.
type Game struct {
	opts    Options
	players []*Player
	current int
	pool    *dice.Pool
	turn    TurnState
	phase   Phase
	history []HistoryEntry
	bracket *Bracket
	winner  string

	rolling sync.Mutex
	auto    sync.Mutex
}

// New seats the given players and opens the first turn.
func New(players []Entrant, opts Options) (*Game, error) {
	if err := validateEntrants(players, 2); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	g := &Game{opts: opts, pool: dice.NewPool(opts.Roller)}
	g.seat(players)
	g.beginTurn()
	return g, nil
}

func validateEntrants(entrants []Entrant, min int) error {
	if len(entrants) < min {
		return fmt.Errorf("%w: need at least %d players, got %d", ErrInvalidSetup, min, len(entrants))
	}
	seen := make(map[string]bool, len(entrants))
	for _, e := range entrants {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return fmt.Errorf("%w: player names cannot be empty", ErrInvalidSetup)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate player %q", ErrInvalidSetup, name)
		}
		seen[name] = true
	}
	return nil
}

func (g *Game) seat(entrants []Entrant) {
	g.players = make([]*Player, len(entrants))
	for i, e := range entrants {
		g.players[i] = &Player{Name: strings.TrimSpace(e.Name), Automated: e.Automated}
	}
	g.current = 0
}

// Phase returns the current lifecycle stage.
func (g *Game) Phase() Phase { return g.phase }

// Target returns the score needed to win.
func (g *Game) Target() int { return g.opts.Target }

// CurrentPlayer returns a copy of the player whose turn it is.
func (g *Game) CurrentPlayer() Player { return *g.players[g.current] }

func (g *Game) player() *Player { return g.players[g.current] }

func (g *Game) beginTurn() {
	g.turn = TurnState{}
	g.pool.ResetAll()
	g.phase = PhaseAwaitingRoll
}

func (g *Game) turnStarted() Event {
	p := g.player()
	return &TurnStartedEvent{Player: p.Name, Automated: p.Automated}
}

func (g *Game) advance() []Event {
	g.current = (g.current + 1) % len(g.players)
	g.beginTurn()
	return []Event{g.turnStarted()}
}

func (g *Game) record(points int, bust bool) HistoryEntry {
	match := -1
	if g.bracket != nil {
		match = g.bracket.Current
	}
	entry := HistoryEntry{Player: g.player().Name, Points: points, Bust: bust, Match: match}
	g.history = append(g.history, entry)
	return entry
}

// StartTurn opens a fresh turn. After a bust it hands the dice to the next
// player; at the start of a turn it simply resets the accumulator.
func (g *Game) StartTurn() ([]Event, error) {
	switch g.phase {
	case PhaseTurnOver:
		return g.advance(), nil
	case PhaseAwaitingRoll:
		g.beginTurn()
		return []Event{g.turnStarted()}, nil
	case PhaseGameOver:
		return nil, reject(ErrGameOver, "The game is over.")
	case PhaseMatchOver:
		return nil, reject(ErrMatchNotReady, "Start the next match first.")
	default:
		return nil, reject(ErrTurnInProgress, "The current turn is still in progress.")
	}
}

// Roll commits any pending selection and rolls the available dice. If all
// six dice were committed they come back into play first (hot dice). A roll
// with nothing scoring is a bust and ends the turn.
func (g *Game) Roll() ([]Event, error) {
	if !g.rolling.TryLock() {
		return nil, reject(ErrBusy, "The dice are already rolling.")
	}
	defer g.rolling.Unlock()

	switch g.phase {
	case PhaseAwaitingRoll:
	case PhaseSelecting:
		if g.turn.Pending.Points == 0 {
			return nil, reject(ErrNoScoringSelection, "Select at least one scoring die!")
		}
	case PhaseGameOver:
		return nil, reject(ErrGameOver, "The game is over.")
	default:
		return nil, reject(ErrNotRollable, "You cannot roll right now.")
	}

	p := g.player()
	var events []Event

	g.turn.TurnTotal += g.turn.Pending.Points
	g.turn.Pending = scoring.Result{}
	g.pool.LockSelected()
	if g.pool.AllCommitted() {
		g.pool.ResetAll()
		events = append(events, &HotDiceEvent{Player: p.Name, TurnTotal: g.turn.TurnTotal})
	}

	g.phase = PhaseRolling
	rolled := g.pool.RollAvailable()
	events = append(events, &DiceRolledEvent{Player: p.Name, Rolled: rolled})

	if !scoring.HasScore(rolled) {
		return append(events, g.bust()...), nil
	}
	g.phase = PhaseSelecting
	return events, nil
}

func (g *Game) bust() []Event {
	lost := g.turn.Live()
	g.turn = TurnState{}
	entry := g.record(0, true)
	g.phase = PhaseTurnOver
	return []Event{
		&BustEvent{Player: entry.Player, Lost: lost},
		&TurnRecordedEvent{Entry: entry},
	}
}

// ToggleDie flips the selection of die i (0-based) and recomputes the
// pending score. An invalid selection leaves pending at zero.
func (g *Game) ToggleDie(i int) (scoring.Result, []Event, error) {
	if g.phase == PhaseGameOver {
		return scoring.Result{}, nil, reject(ErrGameOver, "The game is over.")
	}
	if g.phase != PhaseSelecting {
		return scoring.Result{}, nil, reject(ErrNotSelecting, "Roll the dice before choosing any.")
	}
	if err := g.pool.Toggle(i); err != nil {
		if errors.Is(err, dice.ErrDieLocked) {
			return scoring.Result{}, nil, reject(err, "Die %d was kept on an earlier roll.", i+1)
		}
		return scoring.Result{}, nil, reject(err, "There is no die %d.", i+1)
	}

	selected := g.pool.SelectedFaces()
	res, ok := scoring.IsValidSelection(selected)
	g.turn.Pending = res
	evt := &SelectionChangedEvent{
		Player:    g.player().Name,
		Selected:  selected,
		Pending:   res,
		Valid:     ok,
		TurnScore: g.turn.Live(),
	}
	return res, []Event{evt}, nil
}

// Bank adds the live turn score to the current player's total. Reaching
// the target ends the game (or the match, in a tournament); otherwise the
// dice pass to the next player.
func (g *Game) Bank() ([]Event, error) {
	switch g.phase {
	case PhaseSelecting:
	case PhaseGameOver:
		return nil, reject(ErrGameOver, "The game is over.")
	default:
		return nil, reject(ErrNotSelecting, "There is nothing to bank yet.")
	}
	if g.turn.Pending.Points == 0 {
		return nil, reject(ErrNoScoringSelection, "Select scoring dice before banking.")
	}

	p := g.player()
	live := g.turn.Live()
	if !p.OnBoard && g.opts.OpeningMinimum > 0 && live < g.opts.OpeningMinimum {
		return nil, reject(ErrOpeningMinimum, "You need %d to get on the board; this turn holds %d.", g.opts.OpeningMinimum, live)
	}

	g.pool.LockSelected()
	g.turn = TurnState{TurnTotal: live}
	p.TotalScore += live
	p.OnBoard = true
	entry := g.record(live, false)

	events := []Event{
		&BankedEvent{Player: p.Name, Points: live, Total: p.TotalScore},
		&TurnRecordedEvent{Entry: entry},
	}
	if p.TotalScore >= g.opts.Target {
		if g.bracket != nil {
			return append(events, g.resolveMatch(p.Name)...), nil
		}
		g.phase = PhaseGameOver
		g.winner = p.Name
		return append(events, &GameWonEvent{Winner: p.Name, Scores: g.scores()}), nil
	}
	return append(events, g.advance()...), nil
}

// PassTurn ends the current turn without banking. The turn total is
// discarded and the dice move to the next player.
func (g *Game) PassTurn(reason string) ([]Event, error) {
	switch g.phase {
	case PhaseGameOver:
		return nil, reject(ErrGameOver, "The game is over.")
	case PhaseMatchOver:
		return nil, reject(ErrMatchNotReady, "No match is being played.")
	case PhaseRolling:
		return nil, reject(ErrBusy, "The dice are already rolling.")
	case PhaseTurnOver:
		return g.advance(), nil
	}
	entry := g.record(0, false)
	events := []Event{
		&TurnForfeitedEvent{Player: entry.Player, Reason: reason},
		&TurnRecordedEvent{Entry: entry},
	}
	return append(events, g.advance()...), nil
}

// BeginAutomatedTurn claims the automated-turn slot. The returned release
// func must be called when the turn is done. A second caller is rejected
// while the slot is held.
func (g *Game) BeginAutomatedTurn() (func(), error) {
	if !g.auto.TryLock() {
		return nil, reject(ErrBusy, "An automated turn is already being played.")
	}
	return g.auto.Unlock, nil
}

func (g *Game) scores() []Player {
	out := make([]Player, len(g.players))
	for i, p := range g.players {
		out[i] = *p
	}
	return out
}
