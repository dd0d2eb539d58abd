package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haarrywhiite/Farkle/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <face> [face...]",
	Short: "Show what a throw is worth",
	Long: `Scores between one and six dice faces the way the table would, and
lists which positions contribute to that score.
Usage:
	farkle score 1 1 5 2 2 2`,
	Args: cobra.RangeArgs(1, 6),
	RunE: func(cmd *cobra.Command, args []string) error {
		faces := make([]int, len(args))
		for i, a := range args {
			f, err := strconv.Atoi(a)
			if err != nil || f < 1 || f > 6 {
				return fmt.Errorf("%q is not a die face (1-6)", a)
			}
			faces[i] = f
		}

		res := scoring.Score(faces)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Faces:   %v\n", faces)
		fmt.Fprintf(out, "Points:  %d\n", res.Points)
		fmt.Fprintf(out, "Used:    %d of %d dice\n", res.Used, len(faces))
		positions := scoring.ScoringIndices(faces)
		for i := range positions {
			positions[i]++
		}
		fmt.Fprintf(out, "Scoring: %v\n", positions)
		if _, ok := scoring.IsValidSelection(faces); !ok && res.Points > 0 {
			fmt.Fprintln(out, "Not a valid keep: some dice do not score.")
		}
		if res.Points == 0 {
			fmt.Fprintln(out, "FARKLE!")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
