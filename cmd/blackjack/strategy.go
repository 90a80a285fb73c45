package main

import (
	"fmt"
	"os"

	"github.com/arch-bert/card-counting/internal/display"
	"github.com/arch-bert/card-counting/internal/strategy"
)

// StrategyCmd groups the chart commands.
type StrategyCmd struct {
	Show  StrategyShowCmd  `cmd:"" help:"Print a strategy chart"`
	Check StrategyCheckCmd `cmd:"" help:"Validate a strategy chart file"`
}

// StrategyShowCmd prints a chart as tables.
type StrategyShowCmd struct {
	File string `kong:"help='Chart file (default: built-in basic strategy)'"`
	Kind string `kong:"default='all',enum='all,hard,soft,pairs',help='Table to print: all, hard, soft, pairs'"`
}

func (c *StrategyShowCmd) Run(g *Globals) error {
	chart, err := strategy.Load(c.File)
	if err != nil {
		return err
	}
	var kinds []strategy.Kind
	if c.Kind != "all" {
		kinds = append(kinds, strategy.Kind(c.Kind))
	}
	display.NewPrinter(os.Stdout, !g.NoColor).Chart(chart, kinds...)
	return nil
}

// StrategyCheckCmd loads a chart and reports whether it covers every
// reachable hand.
type StrategyCheckCmd struct {
	File string `arg:"" help:"Chart file (.hcl, .yaml)" type:"existingfile"`
}

func (c *StrategyCheckCmd) Run() error {
	chart, err := strategy.Load(c.File)
	if err != nil {
		return err
	}
	fmt.Printf("OK: %s\n", strategy.Describe(chart))
	return nil
}
