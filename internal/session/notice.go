package session

import (
	"fmt"
	"sort"
	"strings"

	"github.com/haarrywhiite/Farkle/internal/engine"
	"github.com/haarrywhiite/Farkle/internal/parser"
)

// EventNotice marks informational output that is neither journaled nor
// part of the game.
const EventNotice engine.EventType = "Notice"

// Notice carries text produced by help, hint and scores.
type Notice struct {
	Text string
}

func (n *Notice) Type() engine.EventType { return EventNotice }
func (n *Notice) Message() string { return n.Text }

// ScoringPositions returns the 1-based positions of the available dice
// that score.
func ScoringPositions(s engine.Snapshot) []int {
	out := s.ScoringPositions()
	for i := range out {
		out[i]++
	}
	return out
}

func (s *Session) hint() string {
	snap := s.game.Snapshot()
	cur := snap.CurrentPlayer()
	switch snap.Phase {
	case engine.PhaseGameOver:
		return fmt.Sprintf("The game is over. %s wins.", snap.Winner)
	case engine.PhaseMatchOver:
		return "The next match is about to begin."
	case engine.PhaseTurnOver:
		return "The dice pass to the next player."
	}
	if cur.Automated {
		return fmt.Sprintf("%s is playing; wait for thy turn.", cur.Name)
	}
	if snap.Phase == engine.PhaseAwaitingRoll {
		return "Type roll to cast the dice."
	}
	if snap.Pending.Points == 0 {
		return fmt.Sprintf("Scoring dice sit at positions %s. Type keep <positions> or keep all.", joinInts(ScoringPositions(snap)))
	}
	if snap.Available == 0 {
		return fmt.Sprintf("Hot dice! %d on the line. Type roll to pick up all six again, or bank.", snap.LiveScore)
	}
	return fmt.Sprintf("Keeping %d (turn %d). Type roll to risk the remaining %d dice, or bank.", snap.Pending.Points, snap.LiveScore, snap.Available)
}

// Scoreboard renders the players' totals, marking whose turn it is.
func Scoreboard(s engine.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Target: %d\n", s.Target)
	for i, p := range s.Players {
		marker := "  "
		if i == s.Current && s.Phase != engine.PhaseGameOver {
			marker = "> "
		}
		line := fmt.Sprintf("%s%-16s %6d", marker, p.Name, p.TotalScore)
		if s.OpeningMinimum > 0 && !p.OnBoard {
			line += "  (not on board)"
		}
		b.WriteString(line + "\n")
	}
	if s.Bracket != nil {
		for i, m := range s.Bracket.Matches {
			p1, p2 := orTBD(m.Player1), orTBD(m.Player2)
			line := fmt.Sprintf("%s: %s vs %s", engine.MatchName(i), p1, p2)
			if m.Winner != "" {
				line += " - won by " + m.Winner
			}
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func orTBD(name string) string {
	if name == "" {
		return "TBD"
	}
	return name
}

func help(topic string) string {
	switch topic {
	case "oracle":
		topic = "advice"
	case "board":
		topic = "scores"
	case "exit":
		topic = "quit"
	}
	if usage, ok := parser.Usage[topic]; ok {
		return usage
	}
	verbs := make([]string, 0, len(parser.Usage))
	for v := range parser.Usage {
		verbs = append(verbs, v)
	}
	sort.Strings(verbs)
	lines := []string{"Commands:"}
	for _, v := range verbs {
		lines = append(lines, "  "+parser.Usage[v])
	}
	return strings.Join(lines, "\n")
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, " ")
}
