package game

import (
	"github.com/arch-bert/card-counting/internal/deck"
	"github.com/arch-bert/card-counting/internal/strategy"
	"github.com/arch-bert/card-counting/internal/types"
)

// DealerStandsOn is the total at which the dealer stops drawing.
const DealerStandsOn = 17

// Rules are the house rules the dealer follows.
type Rules struct {
	// HitSoft17 makes the dealer draw on a soft 17.
	HitSoft17 bool
}

// Dealer plays the house hand with a fixed policy. It never doubles or
// splits.
type Dealer struct {
	hand  Hand
	done  bool
	rules Rules
}

// NewDealer creates a dealer bound by rules.
func NewDealer(rules Rules) *Dealer {
	return &Dealer{rules: rules}
}

func (d *Dealer) Hand() *Hand { return &d.hand }
func (d *Dealer) Done() bool { return d.done }
func (d *Dealer) Rules() Rules { return d.rules }

// UpCard is the first card dealt to the dealer.
func (d *Dealer) UpCard() (deck.Card, bool) {
	if d.hand.Len() == 0 {
		return deck.Card{}, false
	}
	return d.hand.cards[0], true
}

// Decide returns hit below 17 and stand otherwise. With HitSoft17 a soft 17
// is also hit.
func (d *Dealer) Decide() strategy.Action {
	v := d.hand.Value()
	if v < DealerStandsOn {
		return strategy.Hit
	}
	if v == DealerStandsOn && d.hand.Soft() && d.rules.HitSoft17 {
		return strategy.Hit
	}
	return strategy.Stand
}

// Hit draws a card. A bust or a natural finishes the dealer's hand.
func (d *Dealer) Hit(shoe *deck.Shoe) error {
	if d.done {
		return types.NewGameError(types.ErrHandFinished, "dealer cannot draw on a finished hand")
	}
	d.hand.Add(shoe.Draw())
	if d.hand.Busted() || d.hand.Blackjack() {
		d.done = true
	}
	return nil
}

// Stand finishes the dealer's hand.
func (d *Dealer) Stand() {
	d.done = true
}

// Reset clears the hand for the next round.
func (d *Dealer) Reset() {
	d.hand.Clear()
	d.done = false
}
