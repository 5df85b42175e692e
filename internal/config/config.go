package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dyluth/trio/pkg/scoreboard"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where trio looks for its configuration when no path is given.
const DefaultPath = "trio.yml"

// Config represents the top-level trio.yml configuration
type Config struct {
	Version    string           `yaml:"version"`
	Table      TableConfig      `yaml:"table"`
	Timing     TimingConfig     `yaml:"timing"`
	Players    []PlayerConfig   `yaml:"players"`
	Scoreboard ScoreboardConfig `yaml:"scoreboard"`
}

// TableConfig describes the board and the deck.
type TableConfig struct {
	Slots        int  `yaml:"slots" env:"TRIO_SLOTS"`
	DeckSize     int  `yaml:"deck_size" env:"TRIO_DECK_SIZE"` // 0 = full deck (set_size ^ feature_count)
	SetSize      int  `yaml:"set_size" env:"TRIO_SET_SIZE"`
	FeatureCount int  `yaml:"feature_count" env:"TRIO_FEATURE_COUNT"`
	Hints        bool `yaml:"hints" env:"TRIO_HINTS"` // Log every valid set after each deal
}

// TimingConfig holds every delay the dealer and players use.
//
// TurnTimeout selects the round timer mode: positive counts down, zero shows
// elapsed time and never expires, negative disables the display and ends a
// round only once no set remains on the board.
type TimingConfig struct {
	TurnTimeout       time.Duration `yaml:"turn_timeout" env:"TRIO_TURN_TIMEOUT"`
	TurnWarning       time.Duration `yaml:"turn_warning" env:"TRIO_TURN_WARNING"`
	ScoredFreeze      time.Duration `yaml:"scored_freeze" env:"TRIO_SCORED_FREEZE"`
	PenaltyFreeze     time.Duration `yaml:"penalty_freeze" env:"TRIO_PENALTY_FREEZE"`
	PlacementDelay    time.Duration `yaml:"placement_delay" env:"TRIO_PLACEMENT_DELAY"`
	DealerTick        time.Duration `yaml:"dealer_tick" env:"TRIO_DEALER_TICK"`
	GeneratorInterval time.Duration `yaml:"generator_interval" env:"TRIO_GENERATOR_INTERVAL"`
	JoinRetry         time.Duration `yaml:"join_retry" env:"TRIO_JOIN_RETRY"`
}

// PlayerConfig describes one seat at the table.
type PlayerConfig struct {
	Name  string `yaml:"name"`
	Human bool   `yaml:"human"` // false = driven by the random generator
}

// ScoreboardConfig points at an optional Redis scoreboard.
type ScoreboardConfig struct {
	RedisURL string `yaml:"redis_url,omitempty" env:"TRIO_REDIS_URL"` // empty = scoreboard disabled
	Instance string `yaml:"instance,omitempty" env:"TRIO_INSTANCE"`   // empty = generated per game
}

// Default returns the classic game: twelve slots, the full 81-card deck and
// two human plus two computer players.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Table: TableConfig{
			Slots:        12,
			SetSize:      3,
			FeatureCount: 4,
		},
		Timing: TimingConfig{
			TurnTimeout:       60 * time.Second,
			TurnWarning:       5 * time.Second,
			ScoredFreeze:      1 * time.Second,
			PenaltyFreeze:     3 * time.Second,
			PlacementDelay:    10 * time.Millisecond,
			DealerTick:        50 * time.Millisecond,
			GeneratorInterval: 100 * time.Millisecond,
			JoinRetry:         time.Second,
		},
		Players: []PlayerConfig{
			{Name: "player 0", Human: true},
			{Name: "player 1", Human: true},
			{Name: "player 2"},
			{Name: "player 3"},
		},
	}
}

// FullDeck returns set_size ^ feature_count, or 0 when that overflows an int.
func (t TableConfig) FullDeck() int {
	size := 1
	for i := 0; i < t.FeatureCount; i++ {
		if size > math.MaxInt32/max(t.SetSize, 1) {
			return 0
		}
		size *= t.SetSize
	}
	return size
}

// Validate performs strict validation on the configuration and fills in
// derived defaults.
func (c *Config) Validate() error {
	if c.Version != "1.0" {
		return fmt.Errorf("unsupported version: %s (expected: 1.0)", c.Version)
	}

	if err := c.Table.validate(); err != nil {
		return err
	}
	if err := c.Timing.validate(); err != nil {
		return err
	}

	if c.Scoreboard.Instance != "" {
		if err := scoreboard.ValidateInstanceName(c.Scoreboard.Instance); err != nil {
			return fmt.Errorf("scoreboard.instance: %w", err)
		}
	}

	if len(c.Players) == 0 {
		return errors.New("no players defined")
	}
	for i := range c.Players {
		if c.Players[i].Name == "" {
			c.Players[i].Name = fmt.Sprintf("player %d", i)
		}
	}

	return nil
}

func (t *TableConfig) validate() error {
	if t.Slots < 1 {
		return fmt.Errorf("table.slots must be >= 1, got %d", t.Slots)
	}
	if t.SetSize < 2 {
		return fmt.Errorf("table.set_size must be >= 2, got %d", t.SetSize)
	}
	if t.FeatureCount < 1 {
		return fmt.Errorf("table.feature_count must be >= 1, got %d", t.FeatureCount)
	}

	full := t.FullDeck()
	if full == 0 {
		return fmt.Errorf("table: deck of %d^%d items is too large", t.SetSize, t.FeatureCount)
	}
	if t.DeckSize == 0 {
		t.DeckSize = full
	}
	if t.DeckSize < 0 || t.DeckSize > full {
		return fmt.Errorf("table.deck_size must be between 1 and %d, got %d", full, t.DeckSize)
	}
	if t.Slots < t.SetSize {
		return fmt.Errorf("table.slots (%d) must be >= table.set_size (%d)", t.Slots, t.SetSize)
	}
	return nil
}

func (t *TimingConfig) validate() error {
	if t.TurnWarning < 0 {
		return fmt.Errorf("timing.turn_warning must be >= 0, got %v", t.TurnWarning)
	}
	if t.ScoredFreeze < 0 || t.PenaltyFreeze < 0 {
		return fmt.Errorf("timing freezes must be >= 0, got scored=%v penalty=%v", t.ScoredFreeze, t.PenaltyFreeze)
	}
	if t.PlacementDelay < 0 {
		return fmt.Errorf("timing.placement_delay must be >= 0, got %v", t.PlacementDelay)
	}
	if t.DealerTick <= 0 {
		return fmt.Errorf("timing.dealer_tick must be > 0, got %v", t.DealerTick)
	}
	if t.GeneratorInterval <= 0 {
		return fmt.Errorf("timing.generator_interval must be > 0, got %v", t.GeneratorInterval)
	}
	if t.JoinRetry <= 0 {
		return fmt.Errorf("timing.join_retry must be > 0, got %v", t.JoinRetry)
	}
	return nil
}

// ApplyEnv overrides fields from TRIO_* environment variables. Variables that
// are unset leave the current value alone.
func (c *Config) ApplyEnv() error {
	for _, target := range []any{&c.Table, &c.Timing, &c.Scoreboard} {
		if err := env.Parse(target); err != nil {
			return fmt.Errorf("parse env: %w", err)
		}
	}
	return nil
}

// Parse decodes YAML on top of the defaults. Keys the document omits keep
// their default value; a players list replaces the default seats entirely.
func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return config, nil
}

// Load reads trio.yml from path, applies environment overrides and validates
// the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, err
	}

	return finish(config)
}

// LoadOrDefault behaves like Load but falls back to Default when path does
// not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return finish(Default())
	}
	return Load(path)
}

func finish(config *Config) (*Config, error) {
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
