package main

import (
	"fmt"

	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	LogLevel string `kong:"name='log-level',help='Log level: debug, info, warn, error (overrides config)'"`
	NoColor  bool   `kong:"name='no-color',help='Disable colored output'"`
}

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Simulate SimulateCmd      `cmd:"" default:"withargs" help:"Simulate blackjack rounds with basic strategy"`
	Strategy StrategyCmd      `cmd:"" help:"Inspect and validate strategy charts"`
	Release  VersionCmd       `cmd:"" name:"version" help:"Print the version"`
}

// VersionCmd prints the build version.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Blackjack basic strategy and Hi-Lo card counting simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
