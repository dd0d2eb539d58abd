// Package config turns viper settings into a validated game configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/haarrywhiite/Farkle/internal/engine"
	"github.com/haarrywhiite/Farkle/internal/policy"
	"github.com/haarrywhiite/Farkle/internal/rules"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Mode selects who sits at the table.
type Mode string

const (
	ModePvAI       Mode = "pvai"
	ModePvP        Mode = "pvp"
	ModeTournament Mode = "tournament"
	ModeAIvAI      Mode = "aivai"
)

var defaultNames = map[Mode][]string{
	ModePvAI:       {"Wanderer", "Brother Aldric"},
	ModePvP:        {"Player 1", "Player 2"},
	ModeTournament: {"Wanderer", "Brother Aldric", "Sister Maude", "Old Grimwald"},
	ModeAIvAI:      {"Brother Aldric", "Sister Maude"},
}

// Config is everything needed to set up a session.
type Config struct {
	Mode           Mode
	Target         int
	Difficulty     policy.Difficulty
	Names          []string
	OpeningMinimum int
	Strategy       string
	Pace           time.Duration
	JournalPath    string
	LogLevel       logrus.Level
	// Seed fixes the dice sequence; zero uses crypto dice.
	Seed    uint64
	Ruleset *rules.Ruleset
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("mode", string(ModePvAI))
	v.SetDefault("difficulty", string(policy.Medium))
	v.SetDefault("pace", "600ms")
	v.SetDefault("log_level", "info")
}

// FromViper reads and validates the configuration. Keys left unset fall
// back to the ruleset (target, opening minimum, strategy) or to the
// per-mode defaults (names).
func FromViper(v *viper.Viper) (*Config, error) {
	rs, err := rules.LoadRuleset(v.GetString("ruleset"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode:           Mode(strings.ToLower(strings.TrimSpace(v.GetString("mode")))),
		Target:         v.GetInt("target"),
		OpeningMinimum: rs.OpeningMinimum,
		Strategy:       rs.Strategy,
		JournalPath:    v.GetString("journal"),
		Seed:           v.GetUint64("seed"),
		Ruleset:        rs,
	}
	if cfg.Mode == "" {
		cfg.Mode = ModePvAI
	}
	if _, ok := defaultNames[cfg.Mode]; !ok {
		return nil, fmt.Errorf("%w: unknown mode %q (want pvai, pvp, tournament or aivai)", ErrInvalidConfig, cfg.Mode)
	}

	if cfg.Target == 0 {
		cfg.Target = rs.DefaultTarget
	}
	if !rs.AllowsTarget(cfg.Target) {
		return nil, fmt.Errorf("%w: target %d is not one of %v", ErrInvalidConfig, cfg.Target, rs.Targets)
	}

	if cfg.Difficulty, err = policy.ParseDifficulty(v.GetString("difficulty")); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if v.IsSet("opening_minimum") {
		cfg.OpeningMinimum = v.GetInt("opening_minimum")
	}
	if cfg.OpeningMinimum < 0 {
		return nil, fmt.Errorf("%w: opening_minimum cannot be negative", ErrInvalidConfig)
	}

	if s := strings.TrimSpace(v.GetString("strategy")); s != "" {
		cfg.Strategy = s
	}

	pace := v.GetString("pace")
	if pace == "" {
		pace = "0s"
	}
	if cfg.Pace, err = time.ParseDuration(pace); err != nil || cfg.Pace < 0 {
		return nil, fmt.Errorf("%w: pace %q is not a non-negative duration", ErrInvalidConfig, pace)
	}

	level := v.GetString("log_level")
	if level == "" {
		level = "info"
	}
	if cfg.LogLevel, err = logrus.ParseLevel(level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.Names = cleanNames(v.GetStringSlice("names"))
	if len(cfg.Names) == 0 {
		cfg.Names = append([]string(nil), defaultNames[cfg.Mode]...)
	}
	if err := cfg.validateNames(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func cleanNames(in []string) []string {
	var out []string
	for _, n := range in {
		for _, part := range strings.Split(n, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *Config) validateNames() error {
	if c.Mode == ModeTournament {
		if len(c.Names) != engine.TournamentSize {
			return fmt.Errorf("%w: a tournament needs exactly %d names, got %d", ErrInvalidConfig, engine.TournamentSize, len(c.Names))
		}
	} else if len(c.Names) < 2 {
		return fmt.Errorf("%w: need at least 2 names, got %d", ErrInvalidConfig, len(c.Names))
	}
	seen := make(map[string]bool)
	for _, n := range c.Names {
		if seen[n] {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidConfig, n)
		}
		seen[n] = true
	}
	return nil
}

// Entrants seats the configured names: in pvai and tournament mode only
// the first is human, pvp is all human and aivai is all automated.
func (c *Config) Entrants() []engine.Entrant {
	out := make([]engine.Entrant, len(c.Names))
	for i, n := range c.Names {
		var automated bool
		switch c.Mode {
		case ModePvAI, ModeTournament:
			automated = i > 0
		case ModeAIvAI:
			automated = true
		}
		out[i] = engine.Entrant{Name: n, Automated: automated}
	}
	return out
}

// Policy is the threshold policy at the configured difficulty.
func (c *Config) Policy() policy.Policy {
	return c.Ruleset.Policy(c.Difficulty)
}
