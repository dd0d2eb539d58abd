package cmd

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/haarrywhiite/Farkle/internal/config"
	"github.com/haarrywhiite/Farkle/internal/journal"
	"github.com/haarrywhiite/Farkle/internal/policy"
	"github.com/haarrywhiite/Farkle/internal/session"
)

// sharedJournal keeps one store open across the simulated games.
type sharedJournal struct{ *journal.Store }

func (sharedJournal) Close() error { return nil }

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Pit two automated players against each other",
	Long: `Plays N headless games between two automated players and reports
how often each difficulty wins. Seats alternate so neither side always
rolls first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		games, _ := cmd.Flags().GetInt("games")
		seed, _ := cmd.Flags().GetUint64("seed")
		diffA, _ := cmd.Flags().GetString("difficulty-a")
		diffB, _ := cmd.Flags().GetString("difficulty-b")
		if games < 1 {
			return fmt.Errorf("%w: need at least one game", config.ErrInvalidConfig)
		}

		dA, err := policy.ParseDifficulty(diffA)
		if err != nil {
			return err
		}
		dB, err := policy.ParseDifficulty(diffB)
		if err != nil {
			return err
		}
		nameA := fmt.Sprintf("A (%s)", dA)
		nameB := fmt.Sprintf("B (%s)", dB)

		log, closeLog, err := newLogger(cfg, false, "")
		if err != nil {
			return err
		}
		defer closeLog()

		var store *journal.Store
		if cfg.JournalPath != "" {
			if store, err = journal.NewStore(cfg.JournalPath); err != nil {
				return err
			}
			defer store.Close()
		}

		wins := map[string]int{}
		winningScore := 0
		bar := progressbar.Default(int64(games), "Simulating")
		for i := 0; i < games; i++ {
			c := *cfg
			c.Mode = config.ModeAIvAI
			c.Names = []string{nameA, nameB}
			if i%2 == 1 {
				c.Names = []string{nameB, nameA}
			}
			if seed != 0 {
				c.Seed = seed + uint64(i)
			}

			opts := []session.Option{
				session.WithLogger(log),
				session.WithStrategy(nameA, cfg.Ruleset.Policy(dA)),
				session.WithStrategy(nameB, cfg.Ruleset.Policy(dB)),
			}
			if store != nil {
				opts = append(opts, session.WithJournal(sharedJournal{store}))
			}
			app, err := session.New(&c, opts...)
			if err != nil {
				return err
			}
			if _, err := app.RunUntilHuman(); err != nil {
				return fmt.Errorf("game %d failed: %w", i+1, err)
			}
			snap := app.Snapshot()
			wins[snap.Winner]++
			winningScore += snap.Leader().TotalScore
			_ = bar.Add(1)
		}

		fmt.Printf("\nPlayed %d games to %d.\n", games, cfg.Target)
		for _, name := range []string{nameA, nameB} {
			fmt.Printf("%-12s %5d wins  %5.1f%%\n", name, wins[name], 100*float64(wins[name])/float64(games))
		}
		fmt.Printf("Average winning score: %d\n", winningScore/games)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntP("games", "n", 100, "number of games to play")
	simulateCmd.Flags().String("difficulty-a", string(policy.Easy), "difficulty of player A")
	simulateCmd.Flags().String("difficulty-b", string(policy.Hard), "difficulty of player B")
	simulateCmd.Flags().Uint64("seed", 0, "seed of the first game, incremented per game (0 uses crypto dice)")
}
