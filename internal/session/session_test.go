package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haarrywhiite/Farkle/internal/config"
	"github.com/haarrywhiite/Farkle/internal/dice"
	"github.com/haarrywhiite/Farkle/internal/engine"
	"github.com/haarrywhiite/Farkle/internal/journal"
	"github.com/haarrywhiite/Farkle/internal/policy"
	"github.com/haarrywhiite/Farkle/internal/rules"
)

type ones struct{}

func (ones) Roll() int { return 1 }

type memJournal struct {
	ids    map[string]bool
	events []engine.Event
	fail   bool
}

func (m *memJournal) Append(id string, evt engine.Event) error {
	if m.fail {
		return errors.New("disk full")
	}
	if m.ids == nil {
		m.ids = map[string]bool{}
	}
	m.ids[id] = true
	m.events = append(m.events, evt)
	return nil
}

func (m *memJournal) Close() error { return nil }

func testConfig(mode config.Mode, target int, names ...string) *config.Config {
	return &config.Config{
		Mode:       mode,
		Target:     target,
		Difficulty: policy.Medium,
		Names:      names,
		Ruleset:    rules.Default(),
	}
}

func types(events []engine.Event) []engine.EventType {
	out := make([]engine.EventType, len(events))
	for i, e := range events {
		out[i] = e.Type()
	}
	return out
}

func newPvAI(t *testing.T, roller dice.Roller, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithRoller(roller)}, opts...)
	s, err := New(testConfig(config.ModePvAI, 10000, "Alice", "Bob"), opts...)
	require.NoError(t, err)
	return s
}

func TestHumanTurnThenAutomatedTurn(t *testing.T) {
	roller := dice.NewQueueRoller(1, 5, 2, 2, 3, 6, 2, 3, 4, 6, 2, 3)
	s := newPvAI(t, roller)
	assert.Equal(t, []engine.EventType{engine.EventTurnStarted}, types(s.Opening()))
	assert.True(t, s.NeedsHuman())

	events, err := s.Execute("roll")
	require.NoError(t, err)
	assert.Equal(t, []engine.EventType{engine.EventDiceRolled}, types(events))

	events, err = s.Execute("keep 1 2")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 150, s.Snapshot().Pending.Points)

	events, err = s.Execute("bank")
	require.NoError(t, err)
	assert.Equal(t, engine.EventBanked, events[0].Type())
	assert.Equal(t, "Bob", s.Snapshot().CurrentPlayer().Name)
	assert.False(t, s.NeedsHuman())

	_, err = s.Execute("roll")
	assert.ErrorIs(t, err, ErrNotYourTurn)
	_, err = s.Execute("keep 1")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	events, err = s.RunUntilHuman()
	require.NoError(t, err)
	assert.Equal(t, []engine.EventType{
		engine.EventDiceRolled, engine.EventBust, engine.EventTurnRecorded, engine.EventTurnStarted,
	}, types(events))
	assert.True(t, s.NeedsHuman())
	assert.Equal(t, "Alice", s.Snapshot().CurrentPlayer().Name)
	assert.Equal(t, 150, s.Snapshot().Players[0].TotalScore)
}

func TestKeepValidation(t *testing.T) {
	s := newPvAI(t, dice.NewQueueRoller(1, 2, 3, 3, 4, 6, 5, 2, 2, 3, 4))

	_, err := s.Execute("keep 1")
	assert.ErrorIs(t, err, engine.ErrNotSelecting)

	_, err = s.Execute("roll")
	require.NoError(t, err)

	before := s.Snapshot()
	_, err = s.Execute("keep 1 7")
	assert.ErrorIs(t, err, dice.ErrNoSuchDie)
	_, err = s.Execute("keep 0")
	assert.ErrorIs(t, err, dice.ErrNoSuchDie)
	assert.Equal(t, before, s.Snapshot(), "a bad position toggles nothing")

	_, err = s.Execute("keep 1")
	require.NoError(t, err)
	_, err = s.Execute("roll")
	require.NoError(t, err)

	_, err = s.Execute("keep 1 2")
	assert.ErrorIs(t, err, dice.ErrDieLocked)
	assert.True(t, engine.IsRejection(err))

	_, err = s.Execute("keep two")
	require.Error(t, err)
	assert.False(t, engine.IsRejection(err))
	assert.Contains(t, err.Error(), "The command keep must be")
}

func TestKeepAll(t *testing.T) {
	s := newPvAI(t, dice.NewQueueRoller(1, 5, 2, 2, 3, 6))
	_, err := s.Execute("roll")
	require.NoError(t, err)

	_, err = s.Execute("keep 3")
	require.NoError(t, err)
	assert.Zero(t, s.Snapshot().Pending.Points)

	_, err = s.Execute("keep all")
	require.NoError(t, err)
	snap := s.Snapshot()
	assert.Equal(t, 150, snap.Pending.Points)
	assert.Equal(t, []int{1, 5}, snap.Faces(dice.Selected))
}

func TestAdviceHintScoresHelp(t *testing.T) {
	s := newPvAI(t, dice.NewQueueRoller(1, 5, 2, 2, 3, 6))

	events, err := s.Execute("advice")
	require.NoError(t, err)
	assert.Contains(t, events[0].Message(), "Cast the bones")

	events, err = s.Execute("hint")
	require.NoError(t, err)
	assert.Equal(t, EventNotice, events[0].Type())
	assert.Contains(t, events[0].Message(), "roll")

	_, err = s.Execute("roll")
	require.NoError(t, err)
	events, err = s.Execute("hint")
	require.NoError(t, err)
	assert.Contains(t, events[0].Message(), "positions 1 2")

	_, err = s.Execute("keep 1 2")
	require.NoError(t, err)
	events, err = s.Execute("oracle")
	require.NoError(t, err)
	advice, ok := events[0].(*engine.AdviceEvent)
	require.True(t, ok)
	assert.Equal(t, "continue", advice.Action)
	assert.Contains(t, advice.Text, "remaining 4 dice")

	events, err = s.Execute("scores")
	require.NoError(t, err)
	assert.Contains(t, events[0].Message(), "> Alice")
	assert.Contains(t, events[0].Message(), "Target: 10000")

	events, err = s.Execute("help keep")
	require.NoError(t, err)
	assert.Contains(t, events[0].Message(), "keep <positions...>")
	events, err = s.Execute("help")
	require.NoError(t, err)
	assert.Contains(t, events[0].Message(), "Commands:")

	assert.False(t, s.Quit())
	_, err = s.Execute("quit")
	require.NoError(t, err)
	assert.True(t, s.Quit())
}

func TestJournalSkipsNoticesAndSurvivesFailures(t *testing.T) {
	j := &memJournal{}
	s := newPvAI(t, dice.NewQueueRoller(1, 5, 2, 2, 3, 6), WithJournal(j))

	_, err := s.Execute("help")
	require.NoError(t, err)
	_, err = s.Execute("roll")
	require.NoError(t, err)

	assert.Equal(t, []engine.EventType{engine.EventTurnStarted, engine.EventDiceRolled}, types(j.events))
	assert.Equal(t, map[string]bool{s.ID(): true}, j.ids)

	j.fail = true
	_, err = s.Execute("keep 1")
	assert.NoError(t, err, "journal failures are logged, not returned")
}

func TestAutomatedGameWithJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	store, err := journal.NewStore(path)
	require.NoError(t, err)

	cfg := testConfig(config.ModeAIvAI, 5000, "Aldric", "Maude")
	cfg.Seed = 7
	s, err := New(cfg, WithJournal(store), WithStrategy("Maude", policy.Default(policy.Hard)))
	require.NoError(t, err)
	assert.Same(t, s.pilots["Maude"], s.pilotFor("Maude"))
	assert.Same(t, s.pilot, s.pilotFor("Aldric"))

	_, err = s.RunUntilHuman()
	require.NoError(t, err)
	require.True(t, s.Over())
	require.NoError(t, s.Close())

	snap := s.Snapshot()
	assert.GreaterOrEqual(t, snap.Leader().TotalScore, 5000)

	records, err := journal.ReadFile(path)
	require.NoError(t, err)
	st := journal.NewProjector().Build(records)
	assert.Equal(t, 1, st.Games)
	assert.Equal(t, 1, st.Players[snap.Winner].Wins)
	for _, p := range snap.Players {
		if sp := st.Players[p.Name]; sp != nil {
			assert.Equal(t, p.TotalScore, sp.Points)
		} else {
			assert.Zero(t, p.TotalScore)
		}
	}
}

func TestTournamentSession(t *testing.T) {
	j := &memJournal{}
	cfg := testConfig(config.ModeTournament, 2500, "Alice", "Bob", "Carol", "Dan")
	s, err := New(cfg, WithRoller(ones{}), WithJournal(j))
	require.NoError(t, err)
	assert.Equal(t, []engine.EventType{
		engine.EventTournamentStarted, engine.EventMatchStarted, engine.EventTurnStarted,
	}, types(s.Opening()))

	playHumanTurn := func() []engine.Event {
		t.Helper()
		require.True(t, s.NeedsHuman())
		_, err := s.Execute("roll")
		require.NoError(t, err)
		_, err = s.Execute("keep all")
		require.NoError(t, err)
		events, err := s.Execute("bank")
		require.NoError(t, err)
		return events
	}

	events := playHumanTurn()
	assert.Contains(t, types(events), engine.EventMatchWon)

	events, err = s.RunUntilHuman()
	require.NoError(t, err)
	assert.Contains(t, types(events), engine.EventMatchStarted)
	assert.Contains(t, types(events), engine.EventMatchWon, "hot dice forever hits the roll cap and banks")

	snap := s.Snapshot()
	require.NotNil(t, snap.Bracket)
	assert.Equal(t, "Carol", snap.Bracket.Matches[1].Winner)
	assert.Equal(t, engine.Match{Player1: "Alice", Player2: "Carol"}, snap.Bracket.Matches[engine.FinalMatch])

	events = playHumanTurn()
	assert.Contains(t, types(events), engine.EventTournamentWon)
	assert.True(t, s.Over())
	assert.Equal(t, "Alice", s.Snapshot().Bracket.Champion)

	_, progressed, err := s.Step()
	require.NoError(t, err)
	assert.False(t, progressed)
}

func TestTournamentCommand(t *testing.T) {
	s := newPvAI(t, ones{})

	_, err := s.Execute("tournament Alice Bob Carol")
	assert.ErrorIs(t, err, engine.ErrInvalidSetup)
	_, err = s.Execute("tournament")
	assert.ErrorIs(t, err, engine.ErrInvalidSetup, "two configured names are not enough")

	events, err := s.Execute("tournament Alice Bob Carol Dan")
	require.NoError(t, err)
	assert.Equal(t, engine.EventTournamentStarted, events[0].Type())
	assert.Equal(t, "Alice", s.Snapshot().CurrentPlayer().Name)
}

func TestNewWithStrategyExpression(t *testing.T) {
	cfg := testConfig(config.ModeAIvAI, 2500, "Aldric", "Maude")
	cfg.Strategy = "live < 300"
	s, err := New(cfg, WithRoller(dice.NewSeededRoller(3)))
	require.NoError(t, err)
	_, isExpr := s.pilot.Strategy.(*rules.ExprStrategy)
	assert.True(t, isExpr)

	_, err = s.RunUntilHuman()
	require.NoError(t, err)
	assert.True(t, s.Over())

	cfg.Strategy = "live +"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestAdviceFollowsConfiguredStrategy(t *testing.T) {
	cfg := testConfig(config.ModePvAI, 10000, "Alice", "Bob")
	cfg.Strategy = "dice_left > 0"
	s, err := New(cfg, WithRoller(dice.NewQueueRoller(1, 1, 1, 5, 2, 3)))
	require.NoError(t, err)

	_, err = s.Execute("roll")
	require.NoError(t, err)
	_, err = s.Execute("keep 1 2 3 4")
	require.NoError(t, err)

	snap := s.Snapshot()
	require.Equal(t, 1050, snap.LiveScore)
	require.Equal(t, policy.Bank, cfg.Policy().Decide(snap), "thresholds alone would bank")

	events, err := s.Execute("advice")
	require.NoError(t, err)
	advice, ok := events[0].(*engine.AdviceEvent)
	require.True(t, ok)
	assert.Equal(t, s.pilot.Strategy.Decide(snap).String(), advice.Action)
	assert.Equal(t, "continue", advice.Action)
	assert.Contains(t, advice.Text, "Risk the remaining 2 dice")
}
