package game

import (
	"fmt"
	"strings"

	"github.com/arch-bert/card-counting/internal/deck"
)

// Blackjack is the best possible hand total.
const Blackjack = 21

// Recompute derives a hand's value from its cards. Aces start at 11 and are
// reduced to 1, one at a time, while the total is over 21. It returns the
// value and the number of aces still counted as 11.
func Recompute(cards []deck.Card) (value, softAces int) {
	for _, c := range cards {
		value += c.Value()
		if c.IsAce() {
			softAces++
		}
	}
	for value > Blackjack && softAces > 0 {
		value -= 10
		softAces--
	}
	return value, softAces
}

// Hand is an ordered set of cards with its derived value. The value is
// always recomputed from the cards, never patched.
type Hand struct {
	cards    []deck.Card
	value    int
	softAces int
}

// Add appends a card and recomputes the value.
func (h *Hand) Add(c deck.Card) {
	h.cards = append(h.cards, c)
	h.value, h.softAces = Recompute(h.cards)
}

// removeLast takes the last card out of the hand. Only split uses it.
func (h *Hand) removeLast() deck.Card {
	last := len(h.cards) - 1
	c := h.cards[last]
	h.cards = h.cards[:last]
	h.value, h.softAces = Recompute(h.cards)
	return c
}

// Clear empties the hand.
func (h *Hand) Clear() {
	h.cards = nil
	h.value = 0
	h.softAces = 0
}

// Cards returns a copy of the cards in the hand.
func (h *Hand) Cards() []deck.Card {
	out := make([]deck.Card, len(h.cards))
	copy(out, h.cards)
	return out
}

func (h *Hand) Len() int { return len(h.cards) }
func (h *Hand) Value() int { return h.value }
func (h *Hand) SoftAces() int { return h.softAces }

// Soft reports whether an ace is currently counted as 11.
func (h *Hand) Soft() bool { return h.softAces > 0 }

// Busted reports whether the hand is over 21.
func (h *Hand) Busted() bool { return h.value > Blackjack }

// Blackjack reports a natural: exactly two cards totalling 21.
func (h *Hand) Blackjack() bool { return len(h.cards) == 2 && h.value == Blackjack }

// IsPair reports whether the hand is two cards of the same rank.
func (h *Hand) IsPair() bool {
	return len(h.cards) == 2 && h.cards[0].Rank == h.cards[1].Rank
}

// String returns e.g. "[A♠ 6♦] soft 17".
func (h *Hand) String() string {
	parts := make([]string, len(h.cards))
	for i, c := range h.cards {
		parts[i] = c.String()
	}
	kind := "hard"
	if h.Soft() {
		kind = "soft"
	}
	return fmt.Sprintf("[%s] %s %d", strings.Join(parts, " "), kind, h.value)
}
