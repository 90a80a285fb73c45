package deck

import (
	rand "math/rand/v2"

	"github.com/arch-bert/card-counting/internal/types"
)

// CardsPerDeck is the size of one standard deck.
const CardsPerDeck = 52

// Observer is notified about shoe activity. Card counters use it to see
// every card leaving the shoe and to reset when the shoe is rebuilt.
type Observer interface {
	CardDrawn(card Card)
	Reshuffled()
}

// Shoe is a multi-deck shoe. Cards are drawn from the end of the slice and
// the shoe rebuilds and reshuffles itself when a draw finds it empty.
type Shoe struct {
	cards      []Card
	decks      int
	rng        *rand.Rand
	observers  []Observer
	reshuffles int
}

// NewShoe creates a shuffled shoe holding decks standard decks.
func NewShoe(decks int, rng *rand.Rand) (*Shoe, error) {
	if decks <= 0 {
		return nil, types.NewGameError(types.ErrInvalidDeckCount, "deck count must be positive, got %d", decks)
	}
	s := &Shoe{
		cards: make([]Card, 0, decks*CardsPerDeck),
		decks: decks,
		rng:   rng,
	}
	s.fill()
	s.Shuffle()
	return s, nil
}

// NewStackedShoe creates a shoe that deals the given cards in order before
// falling back to regular reshuffles. Used to script rounds in tests.
func NewStackedShoe(decks int, rng *rand.Rand, order []Card) (*Shoe, error) {
	s, err := NewShoe(decks, rng)
	if err != nil {
		return nil, err
	}
	s.cards = s.cards[:0]
	for i := len(order) - 1; i >= 0; i-- {
		s.cards = append(s.cards, order[i])
	}
	return s, nil
}

func (s *Shoe) fill() {
	s.cards = s.cards[:0]
	for range s.decks {
		for suit := Spades; suit <= Clubs; suit++ {
			for _, rank := range Ranks {
				s.cards = append(s.cards, NewCard(suit, rank))
			}
		}
	}
}

// Observe registers an observer for draws and reshuffles.
func (s *Shoe) Observe(o Observer) {
	s.observers = append(s.observers, o)
}

// Shuffle randomizes the order of cards in the shoe
func (s *Shoe) Shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the last card, rebuilding the shoe first if it
// is empty.
func (s *Shoe) Draw() Card {
	if s.IsEmpty() {
		s.fill()
		s.Shuffle()
		s.reshuffles++
		for _, o := range s.observers {
			o.Reshuffled()
		}
	}

	last := len(s.cards) - 1
	card := s.cards[last]
	s.cards = s.cards[:last]

	for _, o := range s.observers {
		o.CardDrawn(card)
	}
	return card
}

// CardsLeft returns the number of undrawn cards.
func (s *Shoe) CardsLeft() int {
	return len(s.cards)
}

// IsEmpty returns true if the shoe has no cards left
func (s *Shoe) IsEmpty() bool {
	return len(s.cards) == 0
}

// Decks returns the number of decks the shoe is built from.
func (s *Shoe) Decks() int {
	return s.decks
}

// Reshuffles returns how many times the shoe has been rebuilt.
func (s *Shoe) Reshuffles() int {
	return s.reshuffles
}
