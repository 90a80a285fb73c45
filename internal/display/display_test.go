package display

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arch-bert/card-counting/internal/deck"
	"github.com/arch-bert/card-counting/internal/game"
	"github.com/arch-bert/card-counting/internal/simulator"
	"github.com/arch-bert/card-counting/internal/statistics"
	"github.com/arch-bert/card-counting/internal/strategy"
)

func sampleRound() game.RoundResult {
	return game.RoundResult{
		Number:      3,
		Bet:         1000,
		DealerCards: deck.MustParseCards("Ts 7h"),
		DealerValue: 17,
		Hands: []game.HandResult{{
			Player:  "Player",
			Cards:   deck.MustParseCards("As 6d 2c"),
			Value:   19,
			Outcome: game.Win,
			Reason:  game.ReasonHigher,
			Net:     1000,
		}},
	}
}

func TestFormatRound(t *testing.T) {
	t.Parallel()

	line := FormatRound(sampleRound())
	assert.Equal(t, "#3 bet 1000.00 | dealer [T♠ 7♥] 17 | Player [A♠ 6♦ 2♣] 19 win (higher) +1000.00", line)

	counting := sampleRound()
	counting.Counting = true
	counting.TrueCount = -1.5
	assert.Contains(t, FormatRound(counting), "tc -1.5")
}

func TestSummaryUndefinedRatios(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	NewPrinter(&buf, false).Summary(&simulator.Report{
		Strategy: "basic",
		Decks:    6,
		Stats:    &statistics.Statistics{},
	})

	out := buf.String()
	assert.Contains(t, out, "=== PLAYER ===")
	assert.Contains(t, out, "Return ratio:")
	assert.Contains(t, out, statistics.NotApplicable)
	assert.NotContains(t, out, "NaN")
	assert.NotContains(t, out, "=== STATISTICS ===", "no rounds means no distribution")
	assert.NotContains(t, out, "\x1b[", "plain output has no escape codes")
}

func TestSummaryWithCounting(t *testing.T) {
	t.Parallel()

	stats := &statistics.Statistics{}
	stats.Add(statistics.RoundSample{Net: 20, Wagered: 20, Hands: 1, Wins: 1, Counting: true, TrueCount: 2.2})
	stats.Add(statistics.RoundSample{Net: -10, Wagered: 10, Hands: 1, Losses: 1, Counting: true, TrueCount: 1})

	var buf bytes.Buffer
	NewPrinter(&buf, false).Summary(&simulator.Report{
		Strategy: "basic",
		Counting: true,
		Decks:    2,
		Player:   game.Stats{TotalBets: 30, TotalEarnings: 10, Rounds: 2, Wins: 1, Losses: 1},
		Stats:    stats,
		Elapsed:  time.Second,
	})

	out := buf.String()
	assert.Contains(t, out, "0.3333")
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "=== TRUE COUNT ===")
	assert.Contains(t, out, "+2")
	assert.Contains(t, out, "+1")
	assert.Contains(t, out, "Rounds/sec:")
}

func TestChartRendersEveryCell(t *testing.T) {
	t.Parallel()

	chart, err := strategy.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	NewPrinter(&buf, false).Chart(chart, strategy.KindPairs)

	out := buf.String()
	assert.Contains(t, out, "=== PAIRS ===")
	assert.NotContains(t, out, "=== HARD TOTALS ===")
	assert.NotContains(t, out, "?")
	for _, col := range strategy.Columns {
		assert.Contains(t, out, col)
	}
	// Ten rows of ten cells.
	assert.Equal(t, 100, strings.Count(out, " Y ")+strings.Count(out, " N "))
}

func TestTraceIsConcurrentSafe(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	trace := NewTrace(NewPrinter(&buf, false))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trace.OnEvent(game.RoundEndEvent{Result: sampleRound()})
			trace.OnEvent(game.PhaseChangeEvent{Phase: game.PhaseDealing})
		}()
	}
	wg.Wait()
	trace.OnEvent(game.ReshuffleEvent{Decks: 6, Reshuffles: 1})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, FormatRound(sampleRound()), lines[0])
	assert.Equal(t, "-- shoe reshuffled (6 decks, #1) --", lines[8])
}
