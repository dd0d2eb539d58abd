package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/haarrywhiite/Farkle/internal/config"
	"github.com/haarrywhiite/Farkle/internal/dice"
	"github.com/haarrywhiite/Farkle/internal/engine"
	"github.com/haarrywhiite/Farkle/internal/parser"
	"github.com/haarrywhiite/Farkle/internal/policy"
	"github.com/haarrywhiite/Farkle/internal/rules"
)

// ErrNotYourTurn rejects typed dice actions while an automated player
// holds the dice.
var ErrNotYourTurn = errors.New("automated player holds the dice")

// maxSteps bounds RunUntilHuman; a game that needs more is stuck.
const maxSteps = 100000

// Journal defines the dependency required by Session to persist events
type Journal interface {
	Append(gameID string, evt engine.Event) error
	Close() error
}

// Session manages the loop of taking commands, driving automated players
// and recording what happened, for one game or tournament.
type Session struct {
	id       string
	cfg      *config.Config
	game     *engine.Game
	pilot    *policy.Autopilot
	pilots   map[string]*policy.Autopilot
	journal  Journal
	log      *logrus.Entry
	opening  []engine.Event
	quit     bool
	roller   dice.Roller
	override map[string]policy.Strategy
}

// Option customizes a Session.
type Option func(*Session)

// WithRoller replaces the dice source.
func WithRoller(r dice.Roller) Option {
	return func(s *Session) { s.roller = r }
}

// WithJournal records every event to j.
func WithJournal(j Journal) Option {
	return func(s *Session) { s.journal = j }
}

// WithLogger sets the logger the session entry is derived from.
func WithLogger(l *logrus.Logger) Option {
	return func(s *Session) { s.log = logrus.NewEntry(l) }
}

// WithStrategy gives one automated player its own strategy.
func WithStrategy(player string, st policy.Strategy) Option {
	return func(s *Session) {
		if s.override == nil {
			s.override = make(map[string]policy.Strategy)
		}
		s.override[player] = st
	}
}

// New bootstraps a session from a validated configuration.
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	s := &Session{id: uuid.NewString(), cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = logrus.NewEntry(l)
	}
	s.log = s.log.WithFields(logrus.Fields{"game_id": s.id, "mode": cfg.Mode})

	if s.roller == nil {
		if cfg.Seed != 0 {
			s.roller = dice.NewSeededRoller(cfg.Seed)
		} else {
			s.roller = dice.CryptoRoller{}
		}
	}

	strategy := policy.Strategy(cfg.Policy())
	if cfg.Strategy != "" {
		reg, err := rules.NewRegistry()
		if err != nil {
			return nil, err
		}
		expr, err := rules.NewExprStrategy(reg, cfg.Strategy, cfg.Policy(), s.log)
		if err != nil {
			return nil, err
		}
		strategy = expr
	}
	s.pilot = s.newPilot(strategy)
	s.pilots = make(map[string]*policy.Autopilot, len(s.override))
	for name, st := range s.override {
		s.pilots[name] = s.newPilot(st)
	}

	gameOpts := engine.Options{Target: cfg.Target, OpeningMinimum: cfg.OpeningMinimum, Roller: s.roller}
	if cfg.Mode == config.ModeTournament {
		g, events, err := engine.NewTournament(cfg.Entrants(), gameOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to start tournament: %w", err)
		}
		s.game = g
		s.opening = events
	} else {
		g, err := engine.New(cfg.Entrants(), gameOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to start game: %w", err)
		}
		s.game = g
		s.opening = []engine.Event{&engine.TurnStartedEvent{Player: g.CurrentPlayer().Name, Automated: g.CurrentPlayer().Automated}}
	}
	s.log.WithField("target", cfg.Target).Info("session started")
	s.record(s.opening)
	return s, nil
}

func (s *Session) newPilot(st policy.Strategy) *policy.Autopilot {
	return &policy.Autopilot{Strategy: st, MaxRolls: s.cfg.Ruleset.MaxAutoRolls, Logger: s.log}
}

// ID is the generated game id used in logs and the journal.
func (s *Session) ID() string { return s.id }

// Config returns the configuration the session was built from.
func (s *Session) Config() *config.Config { return s.cfg }

// Snapshot returns the current game state.
func (s *Session) Snapshot() engine.Snapshot { return s.game.Snapshot() }

// Opening returns the events produced while setting up the table.
func (s *Session) Opening() []engine.Event { return s.opening }

// Quit reports whether the player asked to leave.
func (s *Session) Quit() bool { return s.quit }

// Over reports whether the game or tournament has finished.
func (s *Session) Over() bool { return s.game.Phase() == engine.PhaseGameOver }

// NeedsHuman reports whether the table waits for typed input.
func (s *Session) NeedsHuman() bool {
	switch s.game.Phase() {
	case engine.PhaseAwaitingRoll, engine.PhaseSelecting:
		return !s.game.CurrentPlayer().Automated
	}
	return false
}

// Close releases the journal.
func (s *Session) Close() error {
	if s.journal == nil {
		return nil
	}
	return s.journal.Close()
}

// Execute takes a raw command string from a UI client, runs it and
// returns the resulting events.
func (s *Session) Execute(input string) ([]engine.Event, error) {
	cmd, err := parser.Parse(input)
	if err != nil {
		s.log.WithField("input", input).Info("unparsed command")
		return nil, err
	}

	var events []engine.Event
	switch {
	case cmd.Roll != nil:
		events, err = s.human(s.game.Roll)
	case cmd.Keep != nil:
		events, err = s.human(func() ([]engine.Event, error) { return s.keep(cmd.Keep) })
	case cmd.Bank != nil:
		events, err = s.human(s.game.Bank)
	case cmd.Advice != nil:
		events = []engine.Event{s.advice()}
	case cmd.Hint != nil:
		events = []engine.Event{&Notice{Text: s.hint()}}
	case cmd.Scores != nil:
		events = []engine.Event{&Notice{Text: Scoreboard(s.game.Snapshot())}}
	case cmd.Help != nil:
		events = []engine.Event{&Notice{Text: help(cmd.Help.Topic())}}
	case cmd.Quit != nil:
		s.quit = true
		events = []engine.Event{&Notice{Text: "Thou leavest the tavern. Farewell!"}}
	case cmd.Tournament != nil:
		events, err = s.tournament(cmd.Tournament.Names)
	}

	if err != nil {
		if engine.IsRejection(err) {
			s.log.WithError(err).WithField("command", cmd.Name()).Info("command rejected")
		} else {
			s.log.WithError(err).WithField("command", cmd.Name()).Error("command failed")
		}
	}
	s.record(events)
	return events, err
}

func (s *Session) human(action func() ([]engine.Event, error)) ([]engine.Event, error) {
	p := s.game.CurrentPlayer()
	if p.Automated && s.game.Phase() != engine.PhaseGameOver {
		return nil, &engine.Rejection{Cause: ErrNotYourTurn, Msg: fmt.Sprintf("Wait thy turn; %s holds the dice.", p.Name)}
	}
	return action()
}

func (s *Session) keep(k *parser.KeepCmd) ([]engine.Event, error) {
	snap := s.game.Snapshot()
	switch snap.Phase {
	case engine.PhaseSelecting:
	case engine.PhaseGameOver:
		return nil, &engine.Rejection{Cause: engine.ErrGameOver, Msg: "The game is over."}
	default:
		return nil, &engine.Rejection{Cause: engine.ErrNotSelecting, Msg: "Roll the dice before choosing any."}
	}

	if k.All {
		var events []engine.Event
		for i, d := range snap.Dice {
			if d.Status == dice.Selected {
				_, evs, err := s.game.ToggleDie(i)
				if err != nil {
					return events, err
				}
				events = append(events, evs...)
			}
		}
		evs, err := policy.KeepScoring(s.game)
		return append(events, evs...), err
	}

	for _, p := range k.Positions {
		if p < 1 || p > dice.PoolSize {
			return nil, &engine.Rejection{Cause: dice.ErrNoSuchDie, Msg: fmt.Sprintf("There is no die %d; positions run from 1 to %d.", p, dice.PoolSize)}
		}
		if snap.Dice[p-1].Status == dice.Locked {
			return nil, &engine.Rejection{Cause: dice.ErrDieLocked, Msg: fmt.Sprintf("Die %d was kept on an earlier roll.", p)}
		}
	}
	var events []engine.Event
	for _, p := range k.Positions {
		_, evs, err := s.game.ToggleDie(p - 1)
		if err != nil {
			return events, err
		}
		events = append(events, evs...)
	}
	return events, nil
}

func (s *Session) advice() engine.Event {
	snap := s.game.Snapshot()
	name := snap.CurrentPlayer().Name
	st := s.pilotFor(name).Strategy
	evt := &engine.AdviceEvent{Player: name, Text: policy.Advice(snap, st)}
	if snap.Phase == engine.PhaseSelecting && snap.Pending.Points > 0 {
		evt.Action = st.Decide(snap).String()
	}
	return evt
}

func (s *Session) tournament(names []string) ([]engine.Event, error) {
	if len(names) == 0 {
		names = s.cfg.Names
	}
	if len(names) != engine.TournamentSize {
		return nil, &engine.Rejection{Cause: engine.ErrInvalidSetup, Msg: fmt.Sprintf("A tournament needs exactly %d names.", engine.TournamentSize)}
	}
	return s.game.StartTournament(names)
}

// Step advances whatever does not need a human: the hand-over after a
// bust, the next bracket match, or an automated player's whole turn.
// The boolean reports whether anything happened.
func (s *Session) Step() ([]engine.Event, bool, error) {
	var (
		events []engine.Event
		err    error
	)
	switch s.game.Phase() {
	case engine.PhaseGameOver:
		return nil, false, nil
	case engine.PhaseTurnOver:
		events, err = s.game.StartTurn()
	case engine.PhaseMatchOver:
		next := s.game.NextMatch()
		if next < 0 {
			return nil, false, nil
		}
		events, err = s.game.StartMatch(next)
	default:
		p := s.game.CurrentPlayer()
		if !p.Automated {
			return nil, false, nil
		}
		events, err = s.pilotFor(p.Name).PlayTurn(s.game)
	}
	if err != nil {
		s.log.WithError(err).Warn("step failed")
		return nil, false, err
	}
	s.record(events)
	return events, true, nil
}

func (s *Session) pilotFor(name string) *policy.Autopilot {
	if p, ok := s.pilots[name]; ok {
		return p
	}
	return s.pilot
}

// RunUntilHuman steps until typed input is needed or the game is over.
func (s *Session) RunUntilHuman() ([]engine.Event, error) {
	var all []engine.Event
	for i := 0; i < maxSteps; i++ {
		events, progressed, err := s.Step()
		all = append(all, events...)
		if err != nil {
			return all, err
		}
		if !progressed {
			return all, nil
		}
	}
	return all, fmt.Errorf("game %s made no progress after %d steps", s.id, maxSteps)
}

func (s *Session) record(events []engine.Event) {
	for _, evt := range events {
		if _, ok := evt.(*Notice); ok {
			continue
		}
		s.log.WithField("event", evt.Type()).Debug(evt.Message())
		if s.journal == nil {
			continue
		}
		if err := s.journal.Append(s.id, evt); err != nil {
			s.log.WithError(err).Error("failed to journal event")
		}
	}
}
