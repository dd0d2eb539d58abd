package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haarrywhiite/Farkle/internal/engine"
	"github.com/haarrywhiite/Farkle/internal/policy"
)

func newViper(settings map[string]any) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range settings {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ModePvAI, cfg.Mode)
	assert.Equal(t, 10000, cfg.Target)
	assert.Equal(t, policy.Medium, cfg.Difficulty)
	assert.Equal(t, []string{"Wanderer", "Brother Aldric"}, cfg.Names)
	assert.Zero(t, cfg.OpeningMinimum)
	assert.Equal(t, 600*time.Millisecond, cfg.Pace)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Zero(t, cfg.Seed)
	assert.Equal(t, []engine.Entrant{{Name: "Wanderer"}, {Name: "Brother Aldric", Automated: true}}, cfg.Entrants())
}

func TestFromViperOverrides(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]any{
		"mode":            "AIvAI",
		"target":          2500,
		"difficulty":      "hard",
		"names":           []string{"Aldric, Maude", "Grimwald"},
		"opening_minimum": 500,
		"strategy":        "live < 400",
		"pace":            "0s",
		"log_level":       "debug",
		"seed":            42,
	}))
	require.NoError(t, err)

	assert.Equal(t, ModeAIvAI, cfg.Mode)
	assert.Equal(t, 2500, cfg.Target)
	assert.Equal(t, policy.Hard, cfg.Difficulty)
	assert.Equal(t, []string{"Aldric", "Maude", "Grimwald"}, cfg.Names)
	assert.Equal(t, 500, cfg.OpeningMinimum)
	assert.Equal(t, "live < 400", cfg.Strategy)
	assert.Zero(t, cfg.Pace)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, uint64(42), cfg.Seed)
	for _, e := range cfg.Entrants() {
		assert.True(t, e.Automated)
	}
	assert.InDelta(t, 960.0, cfg.Policy().Threshold(6), 1e-9)
}

func TestFromViperModes(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]any{"mode": "tournament"}))
	require.NoError(t, err)
	require.Len(t, cfg.Entrants(), 4)
	assert.False(t, cfg.Entrants()[0].Automated)
	assert.True(t, cfg.Entrants()[3].Automated)

	cfg, err = FromViper(newViper(map[string]any{"mode": "pvp"}))
	require.NoError(t, err)
	for _, e := range cfg.Entrants() {
		assert.False(t, e.Automated)
	}
}

func TestFromViperRuleset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("targets: [3000]\ndefault_target: 3000\nopening_minimum: 350\nstrategy: \"dice_left > 2\"\n"), 0o644))

	cfg, err := FromViper(newViper(map[string]any{"ruleset": path}))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Target)
	assert.Equal(t, 350, cfg.OpeningMinimum)
	assert.Equal(t, "dice_left > 2", cfg.Strategy)

	cfg, err = FromViper(newViper(map[string]any{"ruleset": path, "opening_minimum": 0}))
	require.NoError(t, err)
	assert.Zero(t, cfg.OpeningMinimum, "explicit setting beats the ruleset")

	_, err = FromViper(newViper(map[string]any{"ruleset": path, "target": 10000}))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFromViperInvalid(t *testing.T) {
	tests := map[string]map[string]any{
		"unknown mode":        {"mode": "solitaire"},
		"target not a preset": {"target": 7777},
		"bad difficulty":      {"difficulty": "nightmare"},
		"negative opening":    {"opening_minimum": -1},
		"bad pace":            {"pace": "soon"},
		"negative pace":       {"pace": "-1s"},
		"bad log level":       {"log_level": "chatty"},
		"one name":            {"names": []string{"Solo"}},
		"duplicate names":     {"names": []string{"Ann", "Ann"}},
		"short tournament":    {"mode": "tournament", "names": []string{"A", "B", "C"}},
	}
	for name, settings := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromViper(newViper(settings))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := FromViper(newViper(map[string]any{"ruleset": filepath.Join(t.TempDir(), "nope.yaml")}))
	assert.Error(t, err)
}
