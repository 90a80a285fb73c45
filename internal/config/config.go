package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"

	"github.com/arch-bert/card-counting/internal/types"
)

// Environment variables that override file settings.
const (
	EnvRounds    = "BLACKJACK_ROUNDS"
	EnvSessions  = "BLACKJACK_SESSIONS"
	EnvSeed      = "BLACKJACK_SEED"
	EnvBetUnit   = "BLACKJACK_BET_UNIT"
	EnvDecks     = "BLACKJACK_DECKS"
	EnvHitSoft17 = "BLACKJACK_HIT_SOFT_17"
	EnvCounting  = "BLACKJACK_COUNTING"
	EnvStrategy  = "BLACKJACK_STRATEGY"
	EnvLogLevel  = "BLACKJACK_LOG_LEVEL"
)

// Config is the complete simulation configuration
type Config struct {
	Simulation SimulationSettings `hcl:"simulation,block"`
	Table      TableSettings      `hcl:"table,block"`
	Player     PlayerSettings     `hcl:"player,block"`
}

// SimulationSettings controls the session loop
type SimulationSettings struct {
	Rounds     int     `hcl:"rounds,optional"`
	Sessions   int     `hcl:"sessions,optional"`
	Seed       int64   `hcl:"seed,optional"`
	BetUnit    float64 `hcl:"bet_unit,optional"`
	LogLevel   string  `hcl:"log_level,optional"`
	WriteStats string  `hcl:"write_stats,optional"`
}

// TableSettings are the house rules
type TableSettings struct {
	Decks     int  `hcl:"decks,optional"`
	HitSoft17 bool `hcl:"hit_soft_17,optional"`
}

// PlayerSettings configure the automated player
type PlayerSettings struct {
	Name     string `hcl:"name,optional"`
	Counting bool   `hcl:"counting,optional"`
	Strategy string `hcl:"strategy,optional"`
}

// file mirrors Config with optional blocks.
type file struct {
	Simulation *simulationBlock `hcl:"simulation,block"`
	Table      *TableSettings   `hcl:"table,block"`
	Player     *PlayerSettings  `hcl:"player,block"`
}

// simulationBlock decodes the simulation block. bet_unit is a pointer so
// an explicit zero is kept rather than replaced by the default.
type simulationBlock struct {
	Rounds     int      `hcl:"rounds,optional"`
	Sessions   int      `hcl:"sessions,optional"`
	Seed       int64    `hcl:"seed,optional"`
	BetUnit    *float64 `hcl:"bet_unit,optional"`
	LogLevel   string   `hcl:"log_level,optional"`
	WriteStats string   `hcl:"write_stats,optional"`
}

func (b *simulationBlock) settings() SimulationSettings {
	s := SimulationSettings{
		Rounds:     b.Rounds,
		Sessions:   b.Sessions,
		Seed:       b.Seed,
		BetUnit:    defaultBetUnit,
		LogLevel:   b.LogLevel,
		WriteStats: b.WriteStats,
	}
	if b.BetUnit != nil {
		s.BetUnit = *b.BetUnit
	}
	return s
}

const (
	defaultRounds   = 1000
	defaultSessions = 1
	defaultBetUnit  = 1000
	defaultDecks    = 6
	defaultLogLevel = "info"
	defaultPlayer   = "Player"
)

// DefaultConfig returns the default configuration: one session of 1000
// rounds, a flat 1000 bet and a six deck shoe.
func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationSettings{
			Rounds:   defaultRounds,
			Sessions: defaultSessions,
			BetUnit:  defaultBetUnit,
			LogLevel: defaultLogLevel,
		},
		Table: TableSettings{
			Decks: defaultDecks,
		},
		Player: PlayerSettings{
			Name: defaultPlayer,
		},
	}
}

// LoadFile loads configuration from an HCL file. A missing file yields
// the defaults.
func LoadFile(filename string) (*Config, error) {
	if filename == "" {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, types.WrapError(types.ErrInvalidConfig, "failed to parse HCL file", diags)
	}

	var raw file
	if diags := gohcl.DecodeBody(f.Body, nil, &raw); diags.HasErrors() {
		return nil, types.WrapError(types.ErrInvalidConfig, "failed to decode HCL", diags)
	}

	cfg := &Config{Simulation: SimulationSettings{BetUnit: defaultBetUnit}}
	if raw.Simulation != nil {
		cfg.Simulation = raw.Simulation.settings()
	}
	if raw.Table != nil {
		cfg.Table = *raw.Table
	}
	if raw.Player != nil {
		cfg.Player = *raw.Player
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values that have no meaningful zero. The bet
// unit is not among them: zero is a valid unit.
func (c *Config) applyDefaults() {
	if c.Simulation.Rounds == 0 {
		c.Simulation.Rounds = defaultRounds
	}
	if c.Simulation.Sessions == 0 {
		c.Simulation.Sessions = defaultSessions
	}
	if c.Simulation.LogLevel == "" {
		c.Simulation.LogLevel = defaultLogLevel
	}
	if c.Table.Decks == 0 {
		c.Table.Decks = defaultDecks
	}
	if c.Player.Name == "" {
		c.Player.Name = defaultPlayer
	}
}

// ReadEnvFile reads KEY=value pairs from a dotenv file. A missing file
// yields an empty map.
func ReadEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}
	env, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, types.WrapError(types.ErrInvalidConfig, "error loading .env file", err)
	}
	return env, nil
}

// Lookup finds an environment value.
type Lookup func(key string) (string, bool)

// EnvLookup consults the process environment first and the dotenv values
// second.
func EnvLookup(dotenv map[string]string) Lookup {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
}

// ApplyEnv overrides settings with any BLACKJACK_* values found.
func (c *Config) ApplyEnv(lookup Lookup) error {
	var err error
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	parseInt := func(key string, dst *int) {
		if v, ok := get(key); ok && err == nil {
			n, perr := strconv.Atoi(v)
			if perr != nil {
				err = types.WrapError(types.ErrInvalidConfig, key, perr)
				return
			}
			*dst = n
		}
	}
	parseBool := func(key string, dst *bool) {
		if v, ok := get(key); ok && err == nil {
			b, perr := strconv.ParseBool(v)
			if perr != nil {
				err = types.WrapError(types.ErrInvalidConfig, key, perr)
				return
			}
			*dst = b
		}
	}

	parseInt(EnvRounds, &c.Simulation.Rounds)
	parseInt(EnvSessions, &c.Simulation.Sessions)
	parseInt(EnvDecks, &c.Table.Decks)
	parseBool(EnvHitSoft17, &c.Table.HitSoft17)
	parseBool(EnvCounting, &c.Player.Counting)

	if v, ok := get(EnvSeed); ok && err == nil {
		seed, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return types.WrapError(types.ErrInvalidConfig, EnvSeed, perr)
		}
		c.Simulation.Seed = seed
	}
	if v, ok := get(EnvBetUnit); ok && err == nil {
		unit, perr := strconv.ParseFloat(v, 64)
		if perr != nil {
			return types.WrapError(types.ErrInvalidConfig, EnvBetUnit, perr)
		}
		c.Simulation.BetUnit = unit
	}
	if v, ok := get(EnvStrategy); ok {
		c.Player.Strategy = v
	}
	if v, ok := get(EnvLogLevel); ok {
		c.Simulation.LogLevel = v
	}
	return err
}

// Load reads the HCL file, then applies dotenv and environment overrides.
func Load(filename, envFile string) (*Config, error) {
	cfg, err := LoadFile(filename)
	if err != nil {
		return nil, err
	}
	dotenv, err := ReadEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(EnvLookup(dotenv)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Table.Decks <= 0 {
		return types.NewGameError(types.ErrInvalidDeckCount, "deck count must be positive, got %d", c.Table.Decks)
	}
	if c.Simulation.Rounds <= 0 {
		return types.NewGameError(types.ErrInvalidConfig, "rounds must be positive, got %d", c.Simulation.Rounds)
	}
	if c.Simulation.Sessions <= 0 {
		return types.NewGameError(types.ErrInvalidConfig, "sessions must be positive, got %d", c.Simulation.Sessions)
	}
	if c.Simulation.BetUnit < 0 {
		return types.NewGameError(types.ErrInvalidConfig, "bet unit must not be negative, got %g", c.Simulation.BetUnit)
	}
	if _, err := log.ParseLevel(c.Simulation.LogLevel); err != nil {
		return types.WrapError(types.ErrInvalidConfig, fmt.Sprintf("invalid log level %q", c.Simulation.LogLevel), err)
	}
	return nil
}
