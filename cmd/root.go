package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/haarrywhiite/Farkle/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "farkle",
	Short: "A tavern dice game of greed and nerve",
	Long: `Farkle is played with six dice. Roll, set aside scoring dice, and
decide whether to bank thy gold or risk it all on the remaining dice.

Run 'farkle play' to sit at the table, 'farkle simulate' to watch the
automated players fight it out, or 'farkle score 1 1 5 2 2 2' to check
what a throw is worth.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.farkle.yaml)")
	rootCmd.PersistentFlags().String("ruleset", "", "YAML ruleset with targets, thresholds and difficulty multipliers")
	rootCmd.PersistentFlags().String("log_level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("journal", "", "append every game event to this JSONL file")

	for _, key := range []string{"ruleset", "log_level", "journal"} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".farkle")
	}

	config.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("farkle")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
		os.Exit(1)
	}
}

// loadConfig builds the validated configuration after flags are bound.
func loadConfig() (*config.Config, error) {
	cfg, err := config.FromViper(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger writes to stderr unless quiet is set, in which case the
// log goes to logPath (or nowhere) so a full-screen view stays clean.
func newLogger(cfg *config.Config, quiet bool, logPath string) (*logrus.Logger, func(), error) {
	log := logrus.New()
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if !quiet {
		log.SetOutput(os.Stderr)
		return log, func() {}, nil
	}
	if logPath == "" {
		log.SetOutput(io.Discard)
		return log, func() {}, nil
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return log, func() { f.Close() }, nil
}
