package policy

import (
	"fmt"

	"github.com/haarrywhiite/Farkle/internal/engine"
)

// Advice is the oracle's verdict for the current player. It never
// changes the game.
func Advice(s engine.Snapshot, st Strategy) string {
	if st == nil {
		st = Default(Medium)
	}
	switch s.Phase {
	case engine.PhaseRolling:
		return "Wait for the dice to settle, child."
	case engine.PhaseAwaitingRoll:
		return "Cast the bones and let fate decide!"
	case engine.PhaseSelecting:
	default:
		return "The Oracle sleeps. Play thy turn."
	}

	if s.Pending.Points == 0 {
		return "Thou must select scoring dice before the Oracle can see."
	}
	if s.Available == 0 {
		return fmt.Sprintf("Hot Dice! The fire is with thee. Roll all six again with %d at stake!", s.LiveScore)
	}
	if st.Decide(s) == Bank {
		return fmt.Sprintf("Bank thy %d Gold. A wise merchant knows when to fold and keep the coin.", s.LiveScore)
	}
	if s.OpeningMinimum > 0 && !s.CurrentPlayer().OnBoard && s.LiveScore < s.OpeningMinimum {
		return fmt.Sprintf("Thy %d Gold will not open the ledger; %d is the price of a seat. Roll the remaining %d dice!",
			s.LiveScore, s.OpeningMinimum, s.Available)
	}
	return fmt.Sprintf("The winds of the tavern favor thee. Risk the remaining %d dice for more than thy %d!", s.Available, s.LiveScore)
}
