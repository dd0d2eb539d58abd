package parser

import (
	"fmt"
	"strings"
)

// Usage lists the syntax of every command by verb.
var Usage = map[string]string{
	"roll":       "roll",
	"keep":       "keep <positions...> | keep all   (positions are 1-6, e.g. keep 1 3 4)",
	"select":     "select <positions...>",
	"toggle":     "toggle <positions...>",
	"bank":       "bank",
	"advice":     "advice",
	"hint":       "hint",
	"scores":     "scores",
	"help":       "help [command]",
	"quit":       "quit",
	"tournament": "tournament <you> <rival> <rival> <rival>",
}

// MapError takes a raw input and a participle error, and returns a human-friendly guidance message.
func MapError(input string, err error) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return fmt.Errorf("I wasn't able to understand your command")
	}

	cmd := strings.Fields(strings.ToLower(input))[0]
	switch cmd {
	case "oracle":
		cmd = "advice"
	case "board":
		cmd = "scores"
	case "exit":
		cmd = "quit"
	}
	if usage, ok := Usage[cmd]; ok {
		return fmt.Errorf("The command %s must be: %s", cmd, usage)
	}
	return fmt.Errorf("I wasn't able to understand your command (try: help)")
}
