package game

import (
	"github.com/arch-bert/card-counting/internal/deck"
	"github.com/arch-bert/card-counting/internal/strategy"
	"github.com/arch-bert/card-counting/internal/types"
)

// Outcome is the result of one settled hand.
type Outcome int

const (
	Loss Outcome = iota
	Draw
	Win
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Draw:
		return "draw"
	case Loss:
		return "loss"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Stats are a player's running totals across rounds.
type Stats struct {
	TotalBets     float64 `json:"total_bets"`
	TotalEarnings float64 `json:"total_earnings"`
	Rounds        int     `json:"rounds"`
	Wins          int     `json:"wins"`
	Draws         int     `json:"draws"`
	Losses        int     `json:"losses"`
	Busts         int     `json:"busts"`
	Stands        int     `json:"stands"`
	Doubles       int     `json:"doubles"`
	Blackjacks    int     `json:"blackjacks"`
	Splits        int     `json:"splits"`
}

// Merge adds other's totals into s.
func (s *Stats) Merge(other Stats) {
	s.TotalBets += other.TotalBets
	s.TotalEarnings += other.TotalEarnings
	s.Rounds += other.Rounds
	s.Wins += other.Wins
	s.Draws += other.Draws
	s.Losses += other.Losses
	s.Busts += other.Busts
	s.Stands += other.Stands
	s.Doubles += other.Doubles
	s.Blackjacks += other.Blackjacks
	s.Splits += other.Splits
}

// Player is the automated player. It owns its hand and bet and consults a
// strategy.Policy for every decision.
type Player struct {
	Name string

	hand    Hand
	done    bool
	bet     float64
	stats   Stats
	counter *Counter
	policy  strategy.Policy
}

// NewPlayer creates a player. A nil counter disables card counting.
func NewPlayer(name string, policy strategy.Policy, counter *Counter) *Player {
	return &Player{
		Name:    name,
		policy:  policy,
		counter: counter,
	}
}

func (p *Player) Hand() *Hand { return &p.hand }
func (p *Player) Done() bool { return p.done }
func (p *Player) CurrentBet() float64 { return p.bet }
func (p *Player) Stats() Stats { return p.stats }
func (p *Player) Counter() *Counter { return p.counter }

// Counting reports whether the player sizes bets from the count.
func (p *Player) Counting() bool { return p.counter != nil }

// BetFor returns the wager for the next round: unit when not counting,
// otherwise the count-adjusted bet.
func (p *Player) BetFor(unit float64, shoe *deck.Shoe) float64 {
	if p.counter == nil {
		return unit
	}
	return p.counter.Bet(unit, shoe.CardsLeft())
}

// PlaceBet opens a round with the given wager.
func (p *Player) PlaceBet(amount float64) {
	p.bet = amount
	p.stats.TotalBets += amount
}

// Decide picks hit, stand or double for the current hand. The soft table is
// used while an ace counts as 11. Double is only allowed on two cards and
// becomes hit otherwise.
func (p *Player) Decide(up deck.Rank) (strategy.Action, error) {
	var (
		action strategy.Action
		err    error
	)
	if p.hand.Soft() {
		action, err = p.policy.Soft(p.hand.Value(), up)
	} else {
		action, err = p.policy.Hard(p.hand.Value(), up)
	}
	if err != nil {
		return strategy.Hit, err
	}
	if action == strategy.Double && p.hand.Len() > 2 {
		action = strategy.Hit
	}
	return action, nil
}

// DecideSplit reports whether to split. Hands that are not a starting pair
// never split and the policy is not consulted for them.
func (p *Player) DecideSplit(up deck.Rank) (bool, error) {
	if !p.hand.IsPair() {
		return false, nil
	}
	return p.policy.Split(p.hand.cards[0].Rank, up)
}

// Hit draws a card. A bust or a natural finishes the hand.
func (p *Player) Hit(shoe *deck.Shoe) error {
	if p.done {
		return types.NewGameError(types.ErrHandFinished, "%s cannot draw on a finished hand", p.Name)
	}
	p.hand.Add(shoe.Draw())
	if p.hand.Busted() || p.hand.Blackjack() {
		p.done = true
	}
	return nil
}

// Stand finishes the hand.
func (p *Player) Stand() error {
	if p.done {
		return types.NewGameError(types.ErrHandFinished, "%s cannot stand on a finished hand", p.Name)
	}
	p.done = true
	p.stats.Stands++
	return nil
}

// DoubleDown doubles the bet, draws exactly one card and finishes the hand.
// A double that does not bust is recorded as a stand.
func (p *Player) DoubleDown(shoe *deck.Shoe) error {
	if p.done {
		return types.NewGameError(types.ErrHandFinished, "%s cannot double on a finished hand", p.Name)
	}
	p.stats.TotalBets += p.bet
	p.bet *= 2
	p.stats.Doubles++
	p.hand.Add(shoe.Draw())
	p.done = true
	if !p.hand.Busted() {
		p.stats.Stands++
	}
	return nil
}

// SpawnSplit creates the independent player that plays the second half of
// a split. It carries a copy of the current bet and nothing else; the card
// transfer and the later Stats.Merge are separate steps.
func (p *Player) SpawnSplit() *Player {
	split := &Player{
		Name:   p.Name + "/split",
		policy: p.policy,
		bet:    p.bet,
	}
	split.stats.TotalBets = p.bet
	return split
}

// Settle records the outcome of the hand and returns the amount won or
// lost. It always clears the bet and the done flag.
func (p *Player) Settle(outcome Outcome) float64 {
	var net float64
	p.stats.Rounds++
	switch outcome {
	case Win:
		p.stats.Wins++
		net = p.bet
	case Loss:
		p.stats.Losses++
		net = -p.bet
	case Draw:
		p.stats.Draws++
	}
	p.stats.TotalEarnings += net

	p.bet = 0
	p.done = false
	return net
}

// SettleBust records a bust and settles the hand as a loss.
func (p *Player) SettleBust() float64 {
	p.stats.Busts++
	return p.Settle(Loss)
}

// SettleBlackjack pays a natural at 3:2.
func (p *Player) SettleBlackjack() float64 {
	p.stats.Blackjacks++
	p.bet *= 1.5
	return p.Settle(Win)
}

// MergeStats folds a split player's totals into p.
func (p *Player) MergeStats(split *Player) {
	if split == nil {
		return
	}
	p.stats.Merge(split.stats)
}

// ResetHand discards the cards of the finished round.
func (p *Player) ResetHand() {
	p.hand.Clear()
}

// abandonRound undoes an unsettled round: the wager comes back out of
// TotalBets and the hand is cleared.
func (p *Player) abandonRound() {
	p.stats.TotalBets -= p.bet
	p.bet = 0
	p.done = false
	p.hand.Clear()
}
