package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arch-bert/card-counting/internal/types"
)

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("blackjack"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return &cli, ctx
}

func TestParseSimulateFlags(t *testing.T) {
	t.Parallel()

	cli, ctx := parse(t, "simulate", "--rounds", "500", "--decks", "2", "--counting=true", "--h17=true", "--seed", "9", "--no-color")
	assert.Equal(t, "simulate", ctx.Command())
	require.NotNil(t, cli.Simulate.Rounds)
	assert.Equal(t, 500, *cli.Simulate.Rounds)
	assert.Equal(t, 2, *cli.Simulate.Decks)
	assert.True(t, *cli.Simulate.Counting)
	assert.True(t, *cli.Simulate.H17)
	assert.Equal(t, int64(9), *cli.Simulate.Seed)
	assert.Nil(t, cli.Simulate.Sessions, "unset flags stay nil")
	assert.True(t, cli.NoColor)
}

func TestParseStrategyCommands(t *testing.T) {
	t.Parallel()

	cli, ctx := parse(t, "strategy", "show", "--kind", "soft")
	assert.Equal(t, "strategy show", ctx.Command())
	assert.Equal(t, "soft", cli.Strategy.Show.Kind)

	chart := filepath.Join(t.TempDir(), "chart.hcl")
	require.NoError(t, os.WriteFile(chart, []byte("name = \"x\"\n"), 0o644))
	cli, ctx = parse(t, "strategy", "check", chart)
	assert.Equal(t, "strategy check <file>", ctx.Command())
	assert.Equal(t, chart, cli.Strategy.Check.File)
}

func TestSettingsPrecedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "blackjack.hcl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
simulation {
  rounds = 50
  seed   = 3
}
table {
  decks = 4
}
`), 0o644))

	rounds := 75
	cmd := &SimulateCmd{
		Config:  cfgPath,
		EnvFile: filepath.Join(dir, "missing.env"),
		Rounds:  &rounds,
	}
	cfg, err := cmd.settings(&Globals{LogLevel: "debug"})
	require.NoError(t, err)

	assert.Equal(t, 75, cfg.Simulation.Rounds, "flag beats file")
	assert.Equal(t, 4, cfg.Table.Decks, "file beats default")
	assert.Equal(t, 1000.0, cfg.Simulation.BetUnit, "default when unset")
	assert.Equal(t, "debug", cfg.Simulation.LogLevel)
}

func TestSettingsRejectsInvalidDecks(t *testing.T) {
	t.Parallel()

	decks := 0
	cmd := &SimulateCmd{
		Config:  filepath.Join(t.TempDir(), "none.hcl"),
		EnvFile: filepath.Join(t.TempDir(), "none.env"),
		Decks:   &decks,
	}
	_, err := cmd.settings(&Globals{})
	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrInvalidDeckCount))
}
