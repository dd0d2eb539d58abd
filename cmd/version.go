package cmd

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/haarrywhiite/Farkle/internal/rules"
)

var (
	// Version is injected via ldflags at build time
	Version = "dev"
	// Commit is injected via ldflags at build time
	Commit = "none"
	// BuildDate is injected via ldflags at build time
	BuildDate = "unknown"
)

// buildVersion falls back to the module version recorded by go install
// when nothing was injected.
func buildVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

func printVersion(out io.Writer, short bool) {
	if short {
		fmt.Fprintln(out, buildVersion())
		return
	}
	r := rules.Default()
	fmt.Fprintf(out, "farkle version %s\n", buildVersion())
	fmt.Fprintf(out, "Commit: %s\n", Commit)
	fmt.Fprintf(out, "Build date: %s\n", BuildDate)
	fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(out, "Standard rules: targets %v, automated turns capped at %d rolls\n", r.Targets, r.MaxAutoRolls)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the application version",
	Long:  `Displays the running version of farkle, its build metadata and the standard rules it ships with.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		short, _ := cmd.Flags().GetBool("short")
		printVersion(cmd.OutOrStdout(), short)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "print only the version number")
}
