package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/arch-bert/card-counting/internal/config"
	"github.com/arch-bert/card-counting/internal/display"
	"github.com/arch-bert/card-counting/internal/fileutil"
	"github.com/arch-bert/card-counting/internal/game"
	"github.com/arch-bert/card-counting/internal/simulator"
	"github.com/arch-bert/card-counting/internal/strategy"
	"github.com/arch-bert/card-counting/internal/tui"
)

// SimulateCmd runs the simulation. Unset flags fall back to the config
// file and BLACKJACK_* environment.
type SimulateCmd struct {
	Config  string `kong:"default='blackjack.hcl',help='HCL configuration file (ignored if missing)'"`
	EnvFile string `kong:"name='env-file',default='.env',help='Dotenv file with BLACKJACK_* overrides'"`

	Rounds   *int     `kong:"help='Rounds per session'"`
	Sessions *int     `kong:"help='Independent shoes to play'"`
	Decks    *int     `kong:"help='Decks in the shoe'"`
	Bet      *float64 `kong:"help='Flat bet, or bet per unit of true count when counting'"`
	Counting *bool    `kong:"help='Size bets with the Hi-Lo true count'"`
	H17      *bool    `kong:"name='h17',help='Dealer hits soft 17'"`
	Seed     *int64   `kong:"help='RNG seed (0 for random)'"`
	Strategy string   `kong:"help='Strategy chart file (.hcl, .yaml)'"`
	Workers  int      `kong:"help='Sessions played in parallel (default: number of CPUs)'"`

	WriteStats string `kong:"name='write-stats',help='Write a JSON report to this file'"`
	Progress   bool   `kong:"help='Show a live progress display'"`
	Trace      bool   `kong:"help='Print every round'"`
}

// settings resolves the final configuration: defaults, then the config
// file, then the environment, then flags.
func (c *SimulateCmd) settings(g *Globals) (*config.Config, error) {
	cfg, err := config.Load(c.Config, c.EnvFile)
	if err != nil {
		return nil, err
	}
	c.apply(cfg, g)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *SimulateCmd) apply(cfg *config.Config, g *Globals) {
	if c.Rounds != nil {
		cfg.Simulation.Rounds = *c.Rounds
	}
	if c.Sessions != nil {
		cfg.Simulation.Sessions = *c.Sessions
	}
	if c.Decks != nil {
		cfg.Table.Decks = *c.Decks
	}
	if c.Bet != nil {
		cfg.Simulation.BetUnit = *c.Bet
	}
	if c.Counting != nil {
		cfg.Player.Counting = *c.Counting
	}
	if c.H17 != nil {
		cfg.Table.HitSoft17 = *c.H17
	}
	if c.Seed != nil {
		cfg.Simulation.Seed = *c.Seed
	}
	if c.Strategy != "" {
		cfg.Player.Strategy = c.Strategy
	}
	if c.WriteStats != "" {
		cfg.Simulation.WriteStats = c.WriteStats
	}
	if g != nil && g.LogLevel != "" {
		cfg.Simulation.LogLevel = g.LogLevel
	}
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := c.settings(g)
	if err != nil {
		return err
	}
	logger, err := setupLogger(cfg.Simulation.LogLevel)
	if err != nil {
		return err
	}

	chart, err := strategy.Load(cfg.Player.Strategy)
	if err != nil {
		return err
	}
	logger.Debug("Loaded strategy", "chart", strategy.Describe(chart))

	ctx, stop := setupSignalHandler(logger)
	defer stop()

	printer := display.NewPrinter(os.Stdout, !g.NoColor)
	simCfg := simulator.Config{
		Rounds:       cfg.Simulation.Rounds,
		Sessions:     cfg.Simulation.Sessions,
		Decks:        cfg.Table.Decks,
		BetUnit:      cfg.Simulation.BetUnit,
		Counting:     cfg.Player.Counting,
		Rules:        game.Rules{HitSoft17: cfg.Table.HitSoft17},
		Seed:         cfg.Simulation.Seed,
		Workers:      c.Workers,
		Policy:       chart,
		StrategyName: chart.Name,
		PlayerName:   cfg.Player.Name,
		Logger:       logger,
	}
	if c.Trace {
		simCfg.Subscribers = append(simCfg.Subscribers, display.NewTrace(printer))
	}

	var report *simulator.Report
	if c.Progress && !c.Trace {
		report, err = runWithProgress(ctx, simCfg, logger)
	} else {
		report, err = simulator.New(simCfg).Run(ctx)
	}
	if err != nil {
		return err
	}

	printer.Summary(report)

	if path := cfg.Simulation.WriteStats; path != "" {
		if err := fileutil.WriteJSON(path, report.Document()); err != nil {
			return fmt.Errorf("failed to write statistics: %w", err)
		}
		logger.Info("Wrote statistics", "file", path)
	}
	return nil
}

// runWithProgress runs the simulation behind the progress display. The
// display owns the terminal, so logging drops to warnings while it runs.
func runWithProgress(ctx context.Context, simCfg simulator.Config, logger *log.Logger) (*simulator.Report, error) {
	total := simCfg.Rounds * max(1, simCfg.Sessions)
	every := max(1, total/200)

	quiet := logger.With()
	quiet.SetLevel(max(logger.GetLevel(), log.WarnLevel))
	simCfg.Logger = quiet

	title := fmt.Sprintf("blackjack: %d x %d rounds", max(1, simCfg.Sessions), simCfg.Rounds)
	return tui.Run(ctx, title, every, logger, func(ctx context.Context, b *tui.Bridge) (*simulator.Report, error) {
		simCfg.Subscribers = append(simCfg.Subscribers, b)
		simCfg.Progress = b.Progress
		simCfg.ProgressEvery = every
		return simulator.New(simCfg).Run(ctx)
	}, tea.WithOutput(os.Stderr))
}
