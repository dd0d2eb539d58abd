package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haarrywhiite/Farkle/internal/engine"
	"github.com/haarrywhiite/Farkle/internal/scoring"
)

func selecting(turnTotal, pending, available int, onBoard bool) engine.Snapshot {
	return engine.Snapshot{
		Phase:     engine.PhaseSelecting,
		Players:   []engine.Player{{Name: "Brother Aldric", Automated: true, OnBoard: onBoard}},
		TurnTotal: turnTotal,
		Pending:   scoring.Result{Points: pending, Used: 1},
		LiveScore: turnTotal + pending,
		Available: available,
	}
}

func TestParseDifficulty(t *testing.T) {
	for in, want := range map[string]Difficulty{"easy": Easy, "HARD": Hard, " medium ": Medium, "": Medium} {
		got, err := ParseDifficulty(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseDifficulty("nightmare")
	assert.Error(t, err)
}

func TestThreshold(t *testing.T) {
	tests := []struct {
		d    Difficulty
		dice int
		want float64
	}{
		{Medium, 1, 150},
		{Medium, 4, 500},
		{Medium, 6, 800},
		{Medium, 0, 300},
		{Medium, 7, 300},
		{Easy, 1, 105},
		{Easy, 6, 560},
		{Hard, 2, 300},
		{Hard, 6, 960},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Default(tt.d).Threshold(tt.dice), 1e-9, "%s with %d dice", tt.d, tt.dice)
	}
}

func TestChooseAction(t *testing.T) {
	p := Default(Medium)

	assert.Equal(t, Bank, p.ChooseAction(selecting(400, 150, 4, true)), "550 meets the 4-dice threshold")
	assert.Equal(t, Continue, p.ChooseAction(selecting(400, 150, 5, true)), "550 is short of 600")
	assert.Equal(t, Bank, p.ChooseAction(selecting(0, 150, 1, true)))
	assert.Equal(t, Continue, p.ChooseAction(selecting(0, 100, 1, true)))
	assert.Equal(t, Continue, p.ChooseAction(selecting(5000, 500, 0, true)), "hot dice always roll on")

	assert.Equal(t, Bank, Default(Easy).ChooseAction(selecting(0, 450, 5, true)))
	assert.Equal(t, Continue, Default(Hard).ChooseAction(selecting(0, 700, 5, true)))
}

func TestChooseActionOpeningMinimum(t *testing.T) {
	p := Default(Medium)
	s := selecting(300, 150, 1, false)
	s.OpeningMinimum = 500
	assert.Equal(t, Continue, p.ChooseAction(s))

	s.Players[0].OnBoard = true
	assert.Equal(t, Bank, p.ChooseAction(s))
}

func TestAdvice(t *testing.T) {
	p := Default(Medium)

	assert.Contains(t, Advice(engine.Snapshot{Phase: engine.PhaseAwaitingRoll}, p), "Cast the bones")
	assert.Contains(t, Advice(engine.Snapshot{Phase: engine.PhaseRolling}, p), "settle")
	assert.Contains(t, Advice(engine.Snapshot{Phase: engine.PhaseTurnOver}, p), "Oracle sleeps")

	none := selecting(200, 0, 3, true)
	assert.Contains(t, Advice(none, p), "select scoring dice")

	assert.Contains(t, Advice(selecting(2000, 500, 0, true), p), "Hot Dice")
	assert.Contains(t, Advice(selecting(400, 150, 4, true), p), "Bank thy 550 Gold")
	assert.Contains(t, Advice(selecting(100, 50, 5, true), p), "remaining 5 dice")

	opening := selecting(100, 50, 1, false)
	opening.OpeningMinimum = 500
	assert.Contains(t, Advice(opening, p), "500")

	assert.Contains(t, Advice(selecting(400, 150, 4, true), nil), "Bank thy", "nil strategy uses the default policy")
}
