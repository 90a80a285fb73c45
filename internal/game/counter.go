package game

import "github.com/arch-bert/card-counting/internal/deck"

// Counter keeps a Hi-Lo running count. Register it with a shoe and it sees
// every card drawn by anyone at the table, and resets on reshuffle.
type Counter struct {
	running int
}

var _ deck.Observer = (*Counter)(nil)

// NewCounter returns a counter starting at zero.
func NewCounter() *Counter {
	return &Counter{}
}

// CardDrawn implements deck.Observer.
func (c *Counter) CardDrawn(card deck.Card) {
	c.running += card.CountValue()
}

// Reshuffled implements deck.Observer.
func (c *Counter) Reshuffled() {
	c.running = 0
}

// Count returns the running count.
func (c *Counter) Count() int {
	return c.running
}

// TrueCount divides the running count by the number of decks left in the
// shoe. An empty shoe counts as one deck.
func (c *Counter) TrueCount(cardsLeft int) float64 {
	return TrueCount(c.running, cardsLeft)
}

// Bet sizes a wager from the true count.
func (c *Counter) Bet(unit float64, cardsLeft int) float64 {
	return CountBet(c.running, unit, cardsLeft)
}

// TrueCount converts a running count to a per-deck count.
func TrueCount(count, cardsLeft int) float64 {
	if cardsLeft <= 0 {
		return float64(count)
	}
	return float64(count) / (float64(cardsLeft) / deck.CardsPerDeck)
}

// CountBet returns max(0, unit * trueCount).
func CountBet(count int, unit float64, cardsLeft int) float64 {
	return max(0, unit*TrueCount(count, cardsLeft))
}
