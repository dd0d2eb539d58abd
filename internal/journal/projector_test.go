package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haarrywhiite/Farkle/internal/engine"
)

func turn(game, player string, points int, bust bool) Record {
	return Record{GameID: game, Event: &engine.TurnRecordedEvent{Entry: engine.HistoryEntry{Player: player, Points: points, Bust: bust, Match: -1}}}
}

func TestProjectorBuildsStandings(t *testing.T) {
	records := []Record{
		turn("g1", "Alice", 500, false),
		turn("g1", "Bob", 0, true),
		turn("g1", "Alice", 1200, false),
		{GameID: "g1", Event: &engine.GameWonEvent{Winner: "Alice"}},
		turn("g2", "Bob", 800, false),
		turn("g2", "Alice", 0, true),
		{GameID: "g2", Event: &engine.MatchWonEvent{Match: 2, Winner: "Bob"}},
		{GameID: "g2", Event: &engine.TournamentWonEvent{Champion: "Bob"}},
		{GameID: "g2", Event: &engine.DiceRolledEvent{Player: "Bob", Rolled: []int{1}}},
	}

	st := NewProjector().Build(records)
	assert.Equal(t, 2, st.Games)
	require.Len(t, st.Players, 2)

	alice := st.Players["Alice"]
	assert.Equal(t, Standing{Player: "Alice", Turns: 3, Busts: 1, Points: 1700, BestTurn: 1200, Wins: 1}, *alice)
	assert.InDelta(t, 1.0/3.0, alice.BustRate(), 1e-9)

	bob := st.Players["Bob"]
	assert.Equal(t, 1, bob.MatchWins)
	assert.Equal(t, 1, bob.Championships)
	assert.InDelta(t, 0.5, bob.BustRate(), 1e-9)

	ranked := st.Ranked()
	assert.Equal(t, "Bob", ranked[0].Player, "championships rank first")
	assert.Equal(t, "Alice", ranked[1].Player)
}

func TestProjectorEmpty(t *testing.T) {
	st := NewProjector().Build(nil)
	assert.Zero(t, st.Games)
	assert.Empty(t, st.Ranked())
	assert.Zero(t, Standing{}.BustRate())
}
