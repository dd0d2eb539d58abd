package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haarrywhiite/Farkle/internal/journal"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [journal.jsonl]",
	Short: "Load a journal and print the standings",
	Long: `Reads a game journal and folds its events into per-player
standings via the journal projector. Without an argument the configured
journal is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("journal")
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("must specify either [journal] argument or --journal flag")
		}

		records, err := journal.ReadFile(path)
		if err != nil {
			return fmt.Errorf("error reading journal: %w", err)
		}
		standings := journal.NewProjector().Build(records)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Processed %d events from %d games.\n\n", len(records), standings.Games)
		fmt.Fprintf(out, "%-20s %6s %6s %6s %8s %6s %5s %7s %7s\n",
			"Player", "Turns", "Busts", "Bust%", "Points", "Best", "Wins", "Matches", "Titles")
		for _, s := range standings.Ranked() {
			fmt.Fprintf(out, "%-20s %6d %6d %5.1f%% %8d %6d %5d %7d %7d\n",
				s.Player, s.Turns, s.Busts, 100*s.BustRate(), s.Points, s.BestTurn, s.Wins, s.MatchWins, s.Championships)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
