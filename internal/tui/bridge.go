package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/arch-bert/card-counting/internal/display"
	"github.com/arch-bert/card-counting/internal/game"
	"github.com/arch-bert/card-counting/internal/simulator"
)

// Bridge forwards simulator progress and sampled round events to a
// running program. Its methods may be called from any goroutine.
type Bridge struct {
	send  func(tea.Msg)
	every int
}

var _ game.EventSubscriber = (*Bridge)(nil)

// NewBridge creates a bridge that logs every n-th round.
func NewBridge(send func(tea.Msg), every int) *Bridge {
	if every <= 0 {
		every = 1
	}
	return &Bridge{send: send, every: every}
}

// OnEvent implements game.EventSubscriber.
func (b *Bridge) OnEvent(event game.GameEvent) {
	switch ev := event.(type) {
	case game.RoundEndEvent:
		if ev.Result.Number%b.every == 0 {
			b.send(RoundMsg(display.FormatRound(ev.Result)))
		}
	case game.ReshuffleEvent:
		b.send(RoundMsg(fmt.Sprintf("-- shoe reshuffled (%d decks) --", ev.Decks)))
	}
}

// Progress forwards a progress update.
func (b *Bridge) Progress(p simulator.Progress) {
	b.send(ProgressMsg(p))
}

// RunFunc runs a simulation, reporting through the bridge.
type RunFunc func(ctx context.Context, b *Bridge) (*simulator.Report, error)

// Run shows the progress display while run executes and returns its
// result. Quitting the display cancels the context passed to run.
func Run(ctx context.Context, title string, logEvery int, logger *log.Logger, run RunFunc, opts ...tea.ProgramOption) (*simulator.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewModel(title, logger, cancel)
	program := tea.NewProgram(model, opts...)
	bridge := NewBridge(program.Send, logEvery)

	results := make(chan DoneMsg, 1)
	go func() {
		report, err := run(ctx, bridge)
		done := DoneMsg{Report: report, Err: err}
		results <- done
		program.Send(done)
	}()

	_, err := program.Run()
	cancel()
	res := <-results
	if err != nil {
		return nil, fmt.Errorf("progress display failed: %w", err)
	}
	return res.Report, res.Err
}
