package policy

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/haarrywhiite/Farkle/internal/engine"
)

// DefaultMaxRolls caps the rolls of a single automated turn.
const DefaultMaxRolls = 20

// Autopilot plays complete turns for automated players.
type Autopilot struct {
	Strategy Strategy
	MaxRolls int
	Logger   logrus.FieldLogger
}

func (a *Autopilot) strategy() Strategy {
	if a.Strategy == nil {
		return Default(Medium)
	}
	return a.Strategy
}

func (a *Autopilot) logger() logrus.FieldLogger {
	if a.Logger != nil {
		return a.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// PlayTurn plays the current player's turn to its end: roll, keep every
// scoring die, then bank or roll again as the strategy says. If the turn
// cannot finish normally it banks what it can or passes, so the game
// always moves on.
func (a *Autopilot) PlayTurn(g *engine.Game) ([]engine.Event, error) {
	release, err := g.BeginAutomatedTurn()
	if err != nil {
		return nil, err
	}
	defer release()

	switch g.Phase() {
	case engine.PhaseAwaitingRoll, engine.PhaseSelecting:
	default:
		return nil, &engine.Rejection{Cause: engine.ErrNotRollable, Msg: "There is no turn to play."}
	}

	maxRolls := a.MaxRolls
	if maxRolls <= 0 {
		maxRolls = DefaultMaxRolls
	}
	log := a.logger().WithField("player", g.CurrentPlayer().Name)
	st := a.strategy()

	var events []engine.Event
	for rolls := 0; ; rolls++ {
		if rolls >= maxRolls {
			return append(events, a.fallback(g, log, "roll cap reached")...), nil
		}
		evs, err := g.Roll()
		events = append(events, evs...)
		if err != nil {
			log.WithError(err).Debug("autopilot roll rejected")
			return append(events, a.fallback(g, log, "roll rejected")...), nil
		}
		switch g.Phase() {
		case engine.PhaseTurnOver, engine.PhaseGameOver, engine.PhaseMatchOver:
			return events, nil
		case engine.PhaseSelecting:
		default:
			return append(events, a.fallback(g, log, "roll did not settle")...), nil
		}

		evs, err = KeepScoring(g)
		events = append(events, evs...)
		if err != nil {
			log.WithError(err).Debug("autopilot selection rejected")
			return append(events, a.fallback(g, log, "selection rejected")...), nil
		}

		snap := g.Snapshot()
		if snap.Pending.Points == 0 {
			return append(events, a.fallback(g, log, "nothing to keep")...), nil
		}
		if st.Decide(snap) == Continue {
			continue
		}
		evs, err = g.Bank()
		if errors.Is(err, engine.ErrOpeningMinimum) {
			continue
		}
		if err != nil {
			return append(events, a.fallback(g, log, "bank rejected")...), nil
		}
		return append(events, evs...), nil
	}
}

func (a *Autopilot) fallback(g *engine.Game, log logrus.FieldLogger, reason string) []engine.Event {
	log.WithField("reason", reason).Warn("autopilot fallback")
	if g.Phase() == engine.PhaseSelecting && g.Snapshot().Pending.Points > 0 {
		if evs, err := g.Bank(); err == nil {
			return evs
		}
	}
	evs, err := g.PassTurn(reason)
	if err != nil {
		log.WithError(err).Error("autopilot could not pass the turn")
	}
	return evs
}

// KeepScoring selects every scoring die among the available dice.
func KeepScoring(g *engine.Game) ([]engine.Event, error) {
	var events []engine.Event
	for _, i := range g.Snapshot().ScoringPositions() {
		_, evs, err := g.ToggleDie(i)
		if err != nil {
			return events, err
		}
		events = append(events, evs...)
	}
	return events, nil
}
