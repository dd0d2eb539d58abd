package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haarrywhiite/Farkle/internal/config"
	"github.com/haarrywhiite/Farkle/internal/dice"
	"github.com/haarrywhiite/Farkle/internal/engine"
	"github.com/haarrywhiite/Farkle/internal/journal"
	"github.com/haarrywhiite/Farkle/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Sit down at the table",
	Long: `Starts a game of Farkle against the automated players, against
another person at the same keyboard, or as a four-player tournament.
Usage:
	> roll
	> keep 1 3
	> bank`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		plain, _ := cmd.Flags().GetBool("plain")
		logFile, _ := cmd.Flags().GetString("log_file")

		log, closeLog, err := newLogger(cfg, !plain, logFile)
		if err != nil {
			return err
		}
		defer closeLog()

		opts := []session.Option{session.WithLogger(log)}
		if cfg.JournalPath != "" {
			store, err := journal.NewStore(cfg.JournalPath)
			if err != nil {
				return err
			}
			opts = append(opts, session.WithJournal(store))
		}

		app, err := session.New(cfg, opts...)
		if err != nil {
			return err
		}
		defer app.Close()

		if plain {
			return runPlain(app, os.Stdin, cmd.OutOrStdout())
		}
		if err := RunTUI(app, cfg.Pace); err != nil {
			return fmt.Errorf("fatal TUI error: %w", err)
		}
		return nil
	},
}

// runPlain is the line-oriented table: automated turns are printed in one
// go and the prompt returns whenever a person has to act.
func runPlain(app *session.Session, in io.Reader, out io.Writer) error {
	printEvents(out, app.Opening())
	scanner := bufio.NewScanner(in)
	for {
		events, err := app.RunUntilHuman()
		printEvents(out, events)
		if err != nil {
			return err
		}
		if app.Over() {
			fmt.Fprintln(out, session.Scoreboard(app.Snapshot()))
			return nil
		}

		snap := app.Snapshot()
		if snap.Phase == engine.PhaseSelecting {
			fmt.Fprintln(out, plainDice(snap))
		}
		fmt.Fprintf(out, "%s (turn %d, live %d)> ", snap.CurrentPlayer().Name, snap.TurnTotal, snap.LiveScore)
		if !scanner.Scan() {
			return scanner.Err()
		}

		events, err = app.Execute(scanner.Text())
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		printEvents(out, events)
		if app.Quit() {
			return nil
		}
	}
}

func printEvents(out io.Writer, events []engine.Event) {
	for _, evt := range events {
		if msg := evt.Message(); msg != "" {
			fmt.Fprintln(out, msg)
		}
	}
}

// plainDice renders the pool as "1:[5] 2:(1) 3: 4 " where brackets mark
// selected dice and parentheses locked ones.
func plainDice(snap engine.Snapshot) string {
	parts := make([]string, len(snap.Dice))
	for i, d := range snap.Dice {
		switch d.Status {
		case dice.Selected:
			parts[i] = fmt.Sprintf("%d:[%d]", i+1, d.Face)
		case dice.Locked:
			parts[i] = fmt.Sprintf("%d:(%d)", i+1, d.Face)
		default:
			parts[i] = fmt.Sprintf("%d: %d ", i+1, d.Face)
		}
	}
	return strings.Join(parts, " ")
}

func init() {
	rootCmd.AddCommand(playCmd)

	f := playCmd.Flags()
	f.StringP("mode", "m", string(config.ModePvAI), "who sits at the table: pvai, pvp, tournament or aivai")
	f.IntP("target", "t", 0, "score needed to win (one of the ruleset presets)")
	f.StringP("difficulty", "d", "", "automated player difficulty: easy, medium or hard")
	f.StringSlice("names", nil, "player names, the first one is you")
	f.Int("opening_minimum", 0, "points a player must bank at once to get on the board (0 disables)")
	f.String("strategy", "", "CEL expression deciding when automated players keep rolling")
	f.Duration("pace", 0, "delay between played-back events in the table view")
	f.Uint64("seed", 0, "fixed dice seed (0 uses crypto dice)")
	f.Bool("plain", false, "line-oriented prompt instead of the table view")
	f.String("log_file", "", "where the table view writes its log")

	for _, key := range []string{"mode", "target", "difficulty", "names", "opening_minimum", "strategy", "pace", "seed"} {
		_ = viper.BindPFlag(key, f.Lookup(key))
	}
}
