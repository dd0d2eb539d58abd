// Package journal keeps an append-only JSONL record of game events and
// folds it into standings.
package journal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/haarrywhiite/Farkle/internal/engine"
)

// EventWrapper facilitates serialization of polymorphic events
type EventWrapper struct {
	GameID string           `json:"game_id"`
	Time   time.Time        `json:"time"`
	Type   engine.EventType `json:"type"`
	Event  json.RawMessage  `json:"data"`
}

// Record is one decoded journal line.
type Record struct {
	GameID string
	Time   time.Time
	Event  engine.Event
}

// Store handles append-only storing of the event log.
type Store struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// NewStore opens or creates the file at path for appending lines
func NewStore(path string) (*Store, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	return &Store{file: file, now: time.Now}, nil
}

// Append marshals the event into one jsonl line tagged with the game id.
func (s *Store) Append(gameID string, evt engine.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", evt.Type(), err)
	}

	wrapperData, err := json.Marshal(EventWrapper{
		GameID: gameID,
		Time:   s.now().UTC(),
		Type:   evt.Type(),
		Event:  data,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(append(wrapperData, '\n')); err != nil {
		return fmt.Errorf("failed to write journal: %w", err)
	}
	return s.file.Sync()
}

// Load replays every line of the journal.
func (s *Store) Load() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return Decode(s.file)
}

// Decode reads journal lines from r.
func Decode(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var wrapper EventWrapper
		if err := json.Unmarshal(scanner.Bytes(), &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode wrapper on line %d: %w", line, err)
		}

		evt, err := newEvent(wrapper.Type)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := json.Unmarshal(wrapper.Event, evt); err != nil {
			return nil, fmt.Errorf("failed to parse %s on line %d: %w", wrapper.Type, line, err)
		}

		records = append(records, Record{GameID: wrapper.GameID, Time: wrapper.Time, Event: evt})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func newEvent(t engine.EventType) (engine.Event, error) {
	switch t {
	case engine.EventTurnStarted:
		return &engine.TurnStartedEvent{}, nil
	case engine.EventDiceRolled:
		return &engine.DiceRolledEvent{}, nil
	case engine.EventHotDice:
		return &engine.HotDiceEvent{}, nil
	case engine.EventBust:
		return &engine.BustEvent{}, nil
	case engine.EventSelectionChanged:
		return &engine.SelectionChangedEvent{}, nil
	case engine.EventBanked:
		return &engine.BankedEvent{}, nil
	case engine.EventTurnRecorded:
		return &engine.TurnRecordedEvent{}, nil
	case engine.EventTurnForfeited:
		return &engine.TurnForfeitedEvent{}, nil
	case engine.EventGameWon:
		return &engine.GameWonEvent{}, nil
	case engine.EventTournamentStarted:
		return &engine.TournamentStartedEvent{}, nil
	case engine.EventMatchStarted:
		return &engine.MatchStartedEvent{}, nil
	case engine.EventMatchWon:
		return &engine.MatchWonEvent{}, nil
	case engine.EventTournamentWon:
		return &engine.TournamentWonEvent{}, nil
	case engine.EventAdvice:
		return &engine.AdviceEvent{}, nil
	}
	return nil, fmt.Errorf("unknown event type in log: %s", t)
}

// Close handles safe shutdown.
func (s *Store) Close() error {
	return s.file.Close()
}

// ReadFile loads a journal without opening it for writing.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}
