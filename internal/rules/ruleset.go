// Package rules loads table rules from YAML and compiles CEL strategies
// for automated players.
package rules

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/haarrywhiite/Farkle/internal/policy"
)

var ErrInvalidRuleset = errors.New("invalid ruleset")

// Ruleset holds the configurable parts of the game.
type Ruleset struct {
	Targets          []int                         `yaml:"targets"`
	DefaultTarget    int                           `yaml:"default_target"`
	Thresholds       map[int]int                   `yaml:"thresholds"`
	DefaultThreshold int                           `yaml:"default_threshold"`
	Multipliers      map[policy.Difficulty]float64 `yaml:"multipliers"`
	OpeningMinimum   int                           `yaml:"opening_minimum"`
	MaxAutoRolls     int                           `yaml:"max_auto_rolls"`
	// Strategy is an optional CEL expression; true means roll again.
	Strategy string `yaml:"strategy"`
}

// Default returns the standard rules: the three classic targets, the
// threshold table and no opening minimum.
func Default() *Ruleset {
	r := &Ruleset{
		Targets:          []int{2500, 5000, 10000},
		DefaultTarget:    10000,
		Thresholds:       make(map[int]int, len(policy.DefaultThresholds)),
		DefaultThreshold: policy.DefaultThreshold,
		Multipliers:      make(map[policy.Difficulty]float64, len(policy.DefaultMultipliers)),
		MaxAutoRolls:     policy.DefaultMaxRolls,
	}
	for k, v := range policy.DefaultThresholds {
		r.Thresholds[k] = v
	}
	for k, v := range policy.DefaultMultipliers {
		r.Multipliers[k] = v
	}
	return r
}

// LoadRuleset reads a YAML ruleset. Keys missing from the file keep
// their defaults. An empty path yields Default().
func LoadRuleset(path string) (*Ruleset, error) {
	r := Default()
	if path == "" {
		return r, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ruleset %s: %w", path, err)
	}
	defer f.Close()

	defaults := r.Multipliers
	r.Multipliers = nil
	if err := yaml.NewDecoder(f).Decode(r); err != nil {
		return nil, fmt.Errorf("failed to decode ruleset %s: %w", path, err)
	}
	listed, err := normalizeMultipliers(r.Multipliers)
	if err != nil {
		return nil, fmt.Errorf("ruleset %s: %w", path, err)
	}
	r.Multipliers = defaults
	for d, m := range listed {
		r.Multipliers[d] = m
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("ruleset %s: %w", path, err)
	}
	return r, nil
}

// normalizeMultipliers lowercases difficulty keys the way the difficulty
// setting is parsed. Two keys naming the same difficulty are rejected.
func normalizeMultipliers(in map[policy.Difficulty]float64) (map[policy.Difficulty]float64, error) {
	out := make(map[policy.Difficulty]float64, len(in))
	for raw, m := range in {
		d, err := policy.ParseDifficulty(string(raw))
		if err != nil || raw == "" {
			return nil, fmt.Errorf("%w: unknown difficulty %q in multipliers", ErrInvalidRuleset, raw)
		}
		if _, dup := out[d]; dup {
			return nil, fmt.Errorf("%w: difficulty %s listed twice in multipliers", ErrInvalidRuleset, d)
		}
		out[d] = m
	}
	return out, nil
}

// Validate checks the ruleset for values the engine cannot play with and
// normalizes the multiplier keys.
func (r *Ruleset) Validate() error {
	if len(r.Targets) == 0 {
		return fmt.Errorf("%w: at least one target is required", ErrInvalidRuleset)
	}
	for _, t := range r.Targets {
		if t <= 0 {
			return fmt.Errorf("%w: target %d must be positive", ErrInvalidRuleset, t)
		}
	}
	if !r.AllowsTarget(r.DefaultTarget) {
		return fmt.Errorf("%w: default target %d is not one of %v", ErrInvalidRuleset, r.DefaultTarget, r.Targets)
	}
	for n, v := range r.Thresholds {
		if n < 1 || n > 6 || v <= 0 {
			return fmt.Errorf("%w: threshold %d for %d dice", ErrInvalidRuleset, v, n)
		}
	}
	if r.DefaultThreshold <= 0 {
		return fmt.Errorf("%w: default threshold must be positive", ErrInvalidRuleset)
	}
	multipliers, err := normalizeMultipliers(r.Multipliers)
	if err != nil {
		return err
	}
	for d, m := range multipliers {
		if m <= 0 {
			return fmt.Errorf("%w: multiplier for %s must be positive", ErrInvalidRuleset, d)
		}
	}
	r.Multipliers = multipliers
	if r.OpeningMinimum < 0 {
		return fmt.Errorf("%w: opening minimum cannot be negative", ErrInvalidRuleset)
	}
	if r.MaxAutoRolls < 0 {
		return fmt.Errorf("%w: max auto rolls cannot be negative", ErrInvalidRuleset)
	}
	return nil
}

// AllowsTarget reports whether t is one of the preset targets.
func (r *Ruleset) AllowsTarget(t int) bool {
	return slices.Contains(r.Targets, t)
}

// Policy builds the threshold policy at the given difficulty.
func (r *Ruleset) Policy(d policy.Difficulty) policy.Policy {
	return policy.Policy{
		Difficulty:       d,
		Thresholds:       r.Thresholds,
		DefaultThreshold: r.DefaultThreshold,
		Multipliers:      r.Multipliers,
	}
}
