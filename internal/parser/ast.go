package parser

import "strings"

// Command represents one line typed at the table
type Command struct {
	Roll       *RollCmd       `parser:"( @@"`
	Keep       *KeepCmd       `parser:"| @@"`
	Bank       *BankCmd       `parser:"| @@"`
	Advice     *AdviceCmd     `parser:"| @@"`
	Hint       *HintCmd       `parser:"| @@"`
	Scores     *ScoresCmd     `parser:"| @@"`
	Help       *HelpCmd       `parser:"| @@"`
	Quit       *QuitCmd       `parser:"| @@"`
	Tournament *TournamentCmd `parser:"| @@ )"`
}

// Name returns the canonical verb of the parsed command.
func (c *Command) Name() string {
	switch {
	case c.Roll != nil:
		return "roll"
	case c.Keep != nil:
		return "keep"
	case c.Bank != nil:
		return "bank"
	case c.Advice != nil:
		return "advice"
	case c.Hint != nil:
		return "hint"
	case c.Scores != nil:
		return "scores"
	case c.Help != nil:
		return "help"
	case c.Quit != nil:
		return "quit"
	case c.Tournament != nil:
		return "tournament"
	}
	return ""
}

// RollCmd rolls the available dice
type RollCmd struct {
	Keyword string `parser:"@\"roll\""`
}

// KeepCmd toggles dice by their 1-based position, or keeps every scoring die
type KeepCmd struct {
	Verb      string `parser:"@(\"keep\"|\"select\"|\"toggle\")"`
	All       bool   `parser:"( @\"all\""`
	Positions []int  `parser:"| @Int ( \",\"? @Int )* )"`
}

// BankCmd ends the turn and keeps the points
type BankCmd struct {
	Keyword string `parser:"@\"bank\""`
}

// AdviceCmd asks the oracle what to do
type AdviceCmd struct {
	Keyword string `parser:"@(\"advice\"|\"oracle\")"`
}

// HintCmd explains what the table is waiting for
type HintCmd struct {
	Keyword string `parser:"@\"hint\""`
}

// ScoresCmd prints the scoreboard
type ScoresCmd struct {
	Keyword string `parser:"@(\"scores\"|\"board\")"`
}

// HelpCmd provides command guidance
type HelpCmd struct {
	Keyword string `parser:"@\"help\""`
	Command string `parser:"(@Ident|@Keyword)?"`
}

// QuitCmd leaves the table
type QuitCmd struct {
	Keyword string `parser:"@(\"quit\"|\"exit\")"`
}

// TournamentCmd starts a four-player bracket; the first name is the human
type TournamentCmd struct {
	Keyword string   `parser:"@\"tournament\""`
	Names   []string `parser:"( @Ident ( \",\"? @Ident )* )?"`
}

// Topic normalizes the help topic.
func (h *HelpCmd) Topic() string {
	return strings.ToLower(h.Command)
}
