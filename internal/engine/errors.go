package engine

import (
	"errors"
	"fmt"
)

// Sentinel causes for rejected actions. A rejected action never changes
// game state.
var (
	ErrNotRollable        = errors.New("dice cannot be rolled now")
	ErrNoScoringSelection = errors.New("no scoring selection")
	ErrNotSelecting       = errors.New("not selecting dice")
	ErrOpeningMinimum     = errors.New("opening minimum not reached")
	ErrTurnInProgress     = errors.New("turn in progress")
	ErrGameOver           = errors.New("game is over")
	ErrBusy               = errors.New("another action is in progress")
	ErrNoTournament       = errors.New("no tournament is active")
	ErrMatchNotReady      = errors.New("match cannot start")
	ErrInvalidSetup       = errors.New("invalid game setup")
)

// Rejection is returned when an action is illegal in the current state.
// Its message is meant for the player.
type Rejection struct {
	Cause error
	Msg   string
}

func (r *Rejection) Error() string { return r.Msg }

func (r *Rejection) Unwrap() error { return r.Cause }

func reject(cause error, format string, args ...any) *Rejection {
	return &Rejection{Cause: cause, Msg: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a rule rejection rather than a failure.
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}
