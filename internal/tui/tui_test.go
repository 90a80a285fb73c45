package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arch-bert/card-counting/internal/game"
	"github.com/arch-bert/card-counting/internal/simulator"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func TestModelProgress(t *testing.T) {
	t.Parallel()

	m := NewModel("blackjack", quietLogger(), nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	_, cmd := m.Update(ProgressMsg{Completed: 250, Total: 1000, Elapsed: time.Second})
	assert.NotNil(t, cmd, "setting the bar percentage animates")
	assert.Equal(t, 250, m.Status().Completed)

	view := m.View()
	assert.Contains(t, view, "blackjack")
	assert.Contains(t, view, "250 / 1000 rounds")
	assert.Contains(t, view, "250 rounds/sec")
}

func TestModelRoundLogKeepsNewest(t *testing.T) {
	t.Parallel()

	m := NewModel("blackjack", quietLogger(), nil)
	for i := range maxLogLines + 5 {
		m.Update(RoundMsg(strings.Repeat("x", i%3+1)))
	}
	m.Update(RoundMsg("last"))

	lines := m.Log()
	require.Len(t, lines, maxLogLines)
	assert.Equal(t, "last", lines[len(lines)-1])
}

func TestModelQuitCancels(t *testing.T) {
	t.Parallel()

	cancelled := false
	m := NewModel("blackjack", quietLogger(), func() { cancelled = true })

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, cancelled)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModelDone(t *testing.T) {
	t.Parallel()

	m := NewModel("blackjack", quietLogger(), nil)
	want := errors.New("boom")
	_, cmd := m.Update(DoneMsg{Err: want})
	require.NotNil(t, cmd)

	report, done, err := m.Result()
	assert.Nil(t, report)
	assert.True(t, done)
	assert.Equal(t, want, err)
}

func TestBridgeSamplesRounds(t *testing.T) {
	t.Parallel()

	var msgs []tea.Msg
	b := NewBridge(func(msg tea.Msg) { msgs = append(msgs, msg) }, 10)

	for n := 1; n <= 25; n++ {
		b.OnEvent(game.RoundEndEvent{Result: game.RoundResult{Number: n}})
	}
	b.OnEvent(game.PhaseChangeEvent{})
	b.OnEvent(game.ReshuffleEvent{Decks: 6})
	b.Progress(simulator.Progress{Completed: 25, Total: 100})

	require.Len(t, msgs, 4)
	assert.True(t, strings.HasPrefix(string(msgs[0].(RoundMsg)), "#10 "))
	assert.True(t, strings.HasPrefix(string(msgs[1].(RoundMsg)), "#20 "))
	assert.Equal(t, RoundMsg("-- shoe reshuffled (6 decks) --"), msgs[2])
	assert.Equal(t, ProgressMsg{Completed: 25, Total: 100}, msgs[3])
}

func TestRunReturnsSimulationResult(t *testing.T) {
	t.Parallel()

	want := &simulator.Report{Seed: 9}
	report, err := Run(context.Background(), "blackjack", 1, quietLogger(),
		func(ctx context.Context, b *Bridge) (*simulator.Report, error) {
			b.Progress(simulator.Progress{Completed: 1, Total: 1})
			return want, nil
		},
		tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer())
	require.NoError(t, err)
	assert.Same(t, want, report)
}
