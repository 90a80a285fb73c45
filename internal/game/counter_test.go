package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arch-bert/card-counting/internal/deck"
	"github.com/arch-bert/card-counting/internal/randutil"
)

func TestCountBet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		count     int
		unit      float64
		cardsLeft int
		want      float64
	}{
		{"two decks left", 4, 10, 104, 20},
		{"one deck left", 3, 10, 52, 30},
		{"half a deck left", 2, 10, 26, 40},
		{"negative count bets nothing", -3, 10, 104, 0},
		{"zero count bets nothing", 0, 10, 312, 0},
		{"empty shoe uses raw count", 5, 10, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CountBet(tt.count, tt.unit, tt.cardsLeft), 1e-9)
		})
	}
}

func TestTrueCount(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, TrueCount(4, 104), 1e-9)
	assert.InDelta(t, -1.0, TrueCount(-6, 312), 1e-9)
	assert.InDelta(t, 7.0, TrueCount(7, 0), 1e-9)
}

func TestCounterFollowsShoe(t *testing.T) {
	t.Parallel()

	c := NewCounter()
	shoe, err := deck.NewStackedShoe(1, randutil.New(2), deck.MustParseCards("2s 3d Kc 8h As"))
	require.NoError(t, err)
	shoe.Observe(c)

	want := []int{1, 2, 1, 1, 0}
	for i := range want {
		shoe.Draw()
		assert.Equal(t, want[i], c.Count(), "after draw %d", i+1)
	}

	// The next draw rebuilds the shoe and resets the count before counting
	// the new card.
	card := shoe.Draw()
	assert.Equal(t, card.CountValue(), c.Count())
}

func TestCounterFullShoeSumsToZero(t *testing.T) {
	t.Parallel()

	c := NewCounter()
	shoe, err := deck.NewShoe(6, randutil.New(9))
	require.NoError(t, err)
	shoe.Observe(c)

	for !shoe.IsEmpty() {
		shoe.Draw()
	}
	assert.Equal(t, 0, c.Count())
	assert.InDelta(t, 0.0, c.TrueCount(shoe.CardsLeft()), 1e-9)
}
