package engine

import (
	"fmt"
	"strings"

	"github.com/haarrywhiite/Farkle/internal/scoring"
)

type EventType string

const (
	EventTurnStarted       EventType = "TurnStarted"
	EventDiceRolled        EventType = "DiceRolled"
	EventHotDice           EventType = "HotDice"
	EventBust              EventType = "Bust"
	EventSelectionChanged  EventType = "SelectionChanged"
	EventBanked            EventType = "Banked"
	EventTurnRecorded      EventType = "TurnRecorded"
	EventTurnForfeited     EventType = "TurnForfeited"
	EventGameWon           EventType = "GameWon"
	EventTournamentStarted EventType = "TournamentStarted"
	EventMatchStarted      EventType = "MatchStarted"
	EventMatchWon          EventType = "MatchWon"
	EventTournamentWon     EventType = "TournamentWon"
	EventAdvice            EventType = "Advice"
)

// Event describes one thing that happened at the table.
type Event interface {
	Type() EventType
	Message() string
}

// TurnStartedEvent marks the hand-over of the dice.
type TurnStartedEvent struct {
	Player    string `json:"player"`
	Automated bool   `json:"automated"`
}

func (e *TurnStartedEvent) Type() EventType { return EventTurnStarted }
func (e *TurnStartedEvent) Message() string {
	return fmt.Sprintf("%s takes the dice.", e.Player)
}

// DiceRolledEvent carries the faces produced by a roll.
type DiceRolledEvent struct {
	Player string `json:"player"`
	Rolled []int  `json:"rolled"`
}

func (e *DiceRolledEvent) Type() EventType { return EventDiceRolled }
func (e *DiceRolledEvent) Message() string {
	return fmt.Sprintf("%s rolls %s.", e.Player, joinFaces(e.Rolled))
}

// HotDiceEvent fires when every die was committed and all six return to play.
type HotDiceEvent struct {
	Player    string `json:"player"`
	TurnTotal int    `json:"turn_total"`
}

func (e *HotDiceEvent) Type() EventType { return EventHotDice }
func (e *HotDiceEvent) Message() string {
	return fmt.Sprintf("HOT DICE! %s picks up all six with %d on the line.", e.Player, e.TurnTotal)
}

// BustEvent reports a roll with no scoring dice.
type BustEvent struct {
	Player string `json:"player"`
	Lost   int    `json:"lost"`
}

func (e *BustEvent) Type() EventType { return EventBust }
func (e *BustEvent) Message() string {
	if e.Lost == 0 {
		return fmt.Sprintf("FARKLE! %s rolls nothing of worth.", e.Player)
	}
	return fmt.Sprintf("FARKLE! %s loses %d points.", e.Player, e.Lost)
}

// SelectionChangedEvent reports the pending score after a toggle.
type SelectionChangedEvent struct {
	Player    string         `json:"player"`
	Selected  []int          `json:"selected"`
	Pending   scoring.Result `json:"pending"`
	Valid     bool           `json:"valid"`
	TurnScore int            `json:"turn_score"`
}

func (e *SelectionChangedEvent) Type() EventType { return EventSelectionChanged }
func (e *SelectionChangedEvent) Message() string {
	if len(e.Selected) == 0 {
		return "No dice selected."
	}
	if !e.Valid {
		return fmt.Sprintf("Keeping %s scores nothing; every kept die must score.", joinFaces(e.Selected))
	}
	return fmt.Sprintf("Keeping %s for %d (turn: %d).", joinFaces(e.Selected), e.Pending.Points, e.TurnScore)
}

// BankedEvent moves the turn score onto the player's total.
type BankedEvent struct {
	Player string `json:"player"`
	Points int    `json:"points"`
	Total  int    `json:"total"`
}

func (e *BankedEvent) Type() EventType { return EventBanked }
func (e *BankedEvent) Message() string {
	return fmt.Sprintf("%s banks %d and now holds %d.", e.Player, e.Points, e.Total)
}

// TurnRecordedEvent appends a history entry.
type TurnRecordedEvent struct {
	Entry HistoryEntry `json:"entry"`
}

func (e *TurnRecordedEvent) Type() EventType { return EventTurnRecorded }
func (e *TurnRecordedEvent) Message() string {
	if e.Entry.Bust {
		return fmt.Sprintf("Turn recorded: %s busted.", e.Entry.Player)
	}
	return fmt.Sprintf("Turn recorded: %s +%d.", e.Entry.Player, e.Entry.Points)
}

// TurnForfeitedEvent ends a turn without banking, e.g. an automated player
// that ran out of rolls.
type TurnForfeitedEvent struct {
	Player string `json:"player"`
	Reason string `json:"reason"`
}

func (e *TurnForfeitedEvent) Type() EventType { return EventTurnForfeited }
func (e *TurnForfeitedEvent) Message() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s passes the dice.", e.Player)
	}
	return fmt.Sprintf("%s passes the dice (%s).", e.Player, e.Reason)
}

// GameWonEvent ends a single game.
type GameWonEvent struct {
	Winner string   `json:"winner"`
	Scores []Player `json:"scores"`
}

func (e *GameWonEvent) Type() EventType { return EventGameWon }
func (e *GameWonEvent) Message() string {
	return fmt.Sprintf("%s wins the game!", e.Winner)
}

// TournamentStartedEvent announces a fresh four-player bracket.
type TournamentStartedEvent struct {
	Entrants []Entrant `json:"entrants"`
}

func (e *TournamentStartedEvent) Type() EventType { return EventTournamentStarted }
func (e *TournamentStartedEvent) Message() string {
	names := make([]string, len(e.Entrants))
	for i, en := range e.Entrants {
		names[i] = en.Name
	}
	return fmt.Sprintf("The tournament begins: %s.", strings.Join(names, ", "))
}

// MatchStartedEvent opens a bracket match.
type MatchStartedEvent struct {
	Match   int    `json:"match"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

func (e *MatchStartedEvent) Type() EventType { return EventMatchStarted }
func (e *MatchStartedEvent) Message() string {
	return fmt.Sprintf("%s: %s vs %s.", MatchName(e.Match), e.Player1, e.Player2)
}

// MatchWonEvent closes a bracket match.
type MatchWonEvent struct {
	Match  int    `json:"match"`
	Winner string `json:"winner"`
}

func (e *MatchWonEvent) Type() EventType { return EventMatchWon }
func (e *MatchWonEvent) Message() string {
	return fmt.Sprintf("%s takes %s.", e.Winner, MatchName(e.Match))
}

// TournamentWonEvent crowns the champion.
type TournamentWonEvent struct {
	Champion string `json:"champion"`
}

func (e *TournamentWonEvent) Type() EventType { return EventTournamentWon }
func (e *TournamentWonEvent) Message() string {
	return fmt.Sprintf("%s is the champion of the tavern!", e.Champion)
}

// AdviceEvent carries a suggestion for the current player. It never
// changes state.
type AdviceEvent struct {
	Player string `json:"player"`
	Action string `json:"action"`
	Text   string `json:"text"`
}

func (e *AdviceEvent) Type() EventType { return EventAdvice }
func (e *AdviceEvent) Message() string { return e.Text }

func joinFaces(faces []int) string {
	parts := make([]string, len(faces))
	for i, f := range faces {
		parts[i] = fmt.Sprint(f)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
