package game

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/arch-bert/card-counting/internal/deck"
	"github.com/arch-bert/card-counting/internal/gameid"
	"github.com/arch-bert/card-counting/internal/strategy"
	"github.com/arch-bert/card-counting/internal/types"
)

// Phase is a step of the round state machine.
type Phase int

const (
	PhaseDealing Phase = iota
	PhaseSplitCheck
	PhasePlayerTurn
	PhaseDealerTurn
	PhaseSettlement
	PhaseReset
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseDealing:
		return "dealing"
	case PhaseSplitCheck:
		return "split_check"
	case PhasePlayerTurn:
		return "player_turn"
	case PhaseDealerTurn:
		return "dealer_turn"
	case PhaseSettlement:
		return "settlement"
	case PhaseReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Reason explains how a hand was settled.
type Reason string

const (
	ReasonBust       Reason = "bust"
	ReasonDealerBust Reason = "dealer_bust"
	ReasonBlackjack  Reason = "blackjack"
	ReasonHigher     Reason = "higher"
	ReasonLower      Reason = "lower"
	ReasonPush       Reason = "push"
)

// HandResult describes one settled player hand.
type HandResult struct {
	Player    string            `json:"player"`
	Split     bool              `json:"split"`
	Cards     []deck.Card       `json:"-"`
	Value     int               `json:"value"`
	Bet       float64           `json:"bet"`
	Outcome   Outcome           `json:"outcome"`
	Reason    Reason            `json:"reason"`
	Net       float64           `json:"net"`
	Decisions []strategy.Action `json:"-"`
}

// RoundResult is everything a presentation layer needs about a round.
type RoundResult struct {
	ID          string       `json:"id"`
	Number      int          `json:"number"`
	Bet         float64      `json:"bet"`
	Counting    bool         `json:"counting"`
	TrueCount   float64      `json:"true_count"`
	UpCard      deck.Card    `json:"-"`
	DealerCards []deck.Card  `json:"-"`
	DealerValue int          `json:"dealer_value"`
	Hands       []HandResult `json:"hands"`
	Reshuffles  int          `json:"reshuffles"`
}

// Net sums the result of every hand played in the round.
func (r RoundResult) Net() float64 {
	var net float64
	for _, h := range r.Hands {
		net += h.Net
	}
	return net
}

// Wagered sums the final bets of every hand, including doubles and splits.
func (r RoundResult) Wagered() float64 {
	var total float64
	for _, h := range r.Hands {
		total += h.Bet
	}
	return total
}

// EngineConfig configures a round engine.
type EngineConfig struct {
	// BetUnit is the flat bet, or the bet per true count when counting.
	BetUnit float64
	Logger  *log.Logger
	// Bus receives round events. Optional.
	Bus EventBus
	// Clock stamps events. Defaults to the real clock.
	Clock quartz.Clock
	// IDs generates round identifiers. Defaults to UUIDv7.
	IDs *gameid.Generator
}

// Engine drives single rounds between one player and the dealer over a
// shared shoe. It is not safe for concurrent use; run one engine per
// session.
type Engine struct {
	shoe   *deck.Shoe
	player *Player
	dealer *Dealer
	config EngineConfig
	phase  Phase
	rounds int
}

// NewEngine wires a player and dealer to a shoe. If the player counts
// cards its counter is registered with the shoe.
func NewEngine(shoe *deck.Shoe, player *Player, dealer *Dealer, config EngineConfig) *Engine {
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.IDs == nil {
		config.IDs = gameid.NewGenerator(nil)
	}

	e := &Engine{
		shoe:   shoe,
		player: player,
		dealer: dealer,
		config: config,
		phase:  PhaseReset,
	}
	if c := player.Counter(); c != nil {
		shoe.Observe(c)
	}
	shoe.Observe(shoeWatcher{e})
	return e
}

func (e *Engine) Player() *Player { return e.player }
func (e *Engine) Dealer() *Dealer { return e.dealer }
func (e *Engine) Shoe() *deck.Shoe { return e.shoe }
func (e *Engine) Phase() Phase { return e.phase }
func (e *Engine) Rounds() int { return e.rounds }

// Play runs one round to completion and returns its result.
func (e *Engine) Play() (RoundResult, error) {
	e.rounds++
	result := RoundResult{
		ID:       e.config.IDs.Generate(),
		Number:   e.rounds,
		Counting: e.player.Counting(),
	}
	startReshuffles := e.shoe.Reshuffles()

	cardsLeft := e.shoe.CardsLeft()
	result.Bet = e.player.BetFor(e.config.BetUnit, e.shoe)
	if c := e.player.Counter(); c != nil {
		result.TrueCount = c.TrueCount(cardsLeft)
	}
	e.player.PlaceBet(result.Bet)
	e.publish(RoundStartEvent{
		RoundID:   result.ID,
		Number:    result.Number,
		Bet:       result.Bet,
		Counting:  result.Counting,
		TrueCount: result.TrueCount,
		CardsLeft: cardsLeft,
		timestamp: e.config.Clock.Now(),
	})

	e.setPhase(result.ID, PhaseDealing)
	if err := e.deal(); err != nil {
		e.abort()
		return result, fmt.Errorf("round %d: dealing: %w", result.Number, err)
	}
	up, _ := e.dealer.UpCard()
	result.UpCard = up

	e.setPhase(result.ID, PhaseSplitCheck)
	hands, err := e.splitCheck(result.ID, up)
	if err != nil {
		e.abort()
		return result, fmt.Errorf("round %d: split check: %w", result.Number, err)
	}

	e.setPhase(result.ID, PhasePlayerTurn)
	decisions := make([][]strategy.Action, len(hands))
	for i, p := range hands {
		decisions[i], err = e.playerTurn(result.ID, p, up.Rank)
		if err != nil {
			e.abort()
			return result, fmt.Errorf("round %d: %s turn: %w", result.Number, p.Name, err)
		}
	}

	e.setPhase(result.ID, PhaseDealerTurn)
	if anyLive(hands) {
		if err := e.dealerTurn(result.ID); err != nil {
			e.abort()
			return result, fmt.Errorf("round %d: dealer turn: %w", result.Number, err)
		}
	}

	e.setPhase(result.ID, PhaseSettlement)
	result.DealerCards = e.dealer.hand.Cards()
	result.DealerValue = e.dealer.hand.Value()
	for i, p := range hands {
		hr := e.settle(p, decisions[i])
		result.Hands = append(result.Hands, hr)
		e.config.Logger.Debug("Hand settled",
			"round", result.Number,
			"player", hr.Player,
			"value", hr.Value,
			"dealer", result.DealerValue,
			"outcome", hr.Outcome,
			"reason", hr.Reason,
			"net", hr.Net)
		e.publish(HandSettledEvent{RoundID: result.ID, Result: hr, timestamp: e.config.Clock.Now()})
	}

	e.setPhase(result.ID, PhaseReset)
	if len(hands) > 1 {
		e.player.MergeStats(hands[0])
	}
	e.player.ResetHand()
	e.dealer.Reset()
	result.Reshuffles = e.shoe.Reshuffles() - startReshuffles

	e.publish(RoundEndEvent{Result: result, Stats: e.player.Stats(), timestamp: e.config.Clock.Now()})
	return result, nil
}

// abort drops an unfinished round so the engine can play the next one from
// a clean table. The wager is refunded and a split hand is discarded
// without merging.
func (e *Engine) abort() {
	e.player.abandonRound()
	e.dealer.Reset()
	e.phase = PhaseReset
}

// deal gives two cards each, alternating player then dealer.
func (e *Engine) deal() error {
	for range 2 {
		if err := e.player.Hit(e.shoe); err != nil {
			return err
		}
		if err := e.dealer.Hit(e.shoe); err != nil {
			return err
		}
	}
	return nil
}

// splitCheck consults the pair table once for the primary hand. It returns
// the hands to play in order: the split hand first when there is one.
func (e *Engine) splitCheck(roundID string, up deck.Card) ([]*Player, error) {
	split, err := e.player.DecideSplit(up.Rank)
	if err != nil {
		return nil, err
	}
	if !split {
		return []*Player{e.player}, nil
	}

	pair := e.player.hand.cards[0].Rank
	other := e.player.SpawnSplit()
	other.hand.Add(e.player.hand.removeLast())
	e.player.stats.Splits++

	if err := e.player.Hit(e.shoe); err != nil {
		return nil, err
	}
	if err := other.Hit(e.shoe); err != nil {
		return nil, err
	}

	e.config.Logger.Debug("Split", "pair", pair, "up", up, "primary", e.player.hand.String(), "split", other.hand.String())
	e.publish(SplitEvent{RoundID: roundID, Pair: pair, UpCard: up, timestamp: e.config.Clock.Now()})
	return []*Player{other, e.player}, nil
}

// playerTurn applies policy decisions until the hand is finished.
func (e *Engine) playerTurn(roundID string, p *Player, up deck.Rank) ([]strategy.Action, error) {
	var decisions []strategy.Action
	for !p.Done() {
		action, err := p.Decide(up)
		if err != nil {
			return decisions, err
		}

		switch action {
		case strategy.Hit:
			err = p.Hit(e.shoe)
		case strategy.Stand:
			err = p.Stand()
		case strategy.Double:
			err = p.DoubleDown(e.shoe)
		default:
			err = types.NewGameError(types.ErrInvalidState, "%s cannot %s during its turn", p.Name, action)
		}
		if err != nil {
			return decisions, err
		}
		decisions = append(decisions, action)

		e.config.Logger.Debug("Player decision", "player", p.Name, "action", action, "hand", p.hand.String(), "bet", p.CurrentBet())
		e.publish(PlayerDecisionEvent{
			RoundID:   roundID,
			Player:    p.Name,
			Action:    action,
			Cards:     p.hand.Cards(),
			Value:     p.hand.Value(),
			Bet:       p.CurrentBet(),
			timestamp: e.config.Clock.Now(),
		})
	}
	return decisions, nil
}

// dealerTurn draws to the house rule.
func (e *Engine) dealerTurn(roundID string) error {
	for !e.dealer.Done() {
		action := e.dealer.Decide()
		if action == strategy.Hit {
			if err := e.dealer.Hit(e.shoe); err != nil {
				return err
			}
		} else {
			e.dealer.Stand()
		}

		e.config.Logger.Debug("Dealer decision", "action", action, "hand", e.dealer.hand.String())
		e.publish(DealerDecisionEvent{
			RoundID:   roundID,
			Action:    action,
			Cards:     e.dealer.hand.Cards(),
			Value:     e.dealer.hand.Value(),
			timestamp: e.config.Clock.Now(),
		})
	}
	return nil
}

// settle resolves one hand against the dealer. Order matters: a player bust
// loses even when the dealer also busts, and a dealer bust is checked before
// a player natural.
func (e *Engine) settle(p *Player, decisions []strategy.Action) HandResult {
	hr := HandResult{
		Player:    p.Name,
		Split:     p != e.player,
		Cards:     p.hand.Cards(),
		Value:     p.hand.Value(),
		Bet:       p.CurrentBet(),
		Decisions: decisions,
	}
	dealer := &e.dealer.hand

	switch {
	case p.hand.Busted():
		hr.Outcome, hr.Reason = Loss, ReasonBust
		hr.Net = p.SettleBust()
	case dealer.Busted():
		hr.Outcome, hr.Reason = Win, ReasonDealerBust
		hr.Net = p.Settle(Win)
	case p.hand.Blackjack():
		hr.Outcome, hr.Reason = Win, ReasonBlackjack
		hr.Net = p.SettleBlackjack()
	case p.hand.Value() > dealer.Value():
		hr.Outcome, hr.Reason = Win, ReasonHigher
		hr.Net = p.Settle(Win)
	case p.hand.Value() < dealer.Value():
		hr.Outcome, hr.Reason = Loss, ReasonLower
		hr.Net = p.Settle(Loss)
	default:
		hr.Outcome, hr.Reason = Draw, ReasonPush
		hr.Net = p.Settle(Draw)
	}
	return hr
}

func (e *Engine) setPhase(roundID string, phase Phase) {
	e.phase = phase
	e.publish(PhaseChangeEvent{RoundID: roundID, Phase: phase, timestamp: e.config.Clock.Now()})
}

func (e *Engine) publish(event GameEvent) {
	if e.config.Bus != nil {
		e.config.Bus.Publish(event)
	}
}

func anyLive(hands []*Player) bool {
	for _, p := range hands {
		if !p.hand.Busted() {
			return true
		}
	}
	return false
}

// shoeWatcher turns shoe reshuffles into events.
type shoeWatcher struct {
	e *Engine
}

func (w shoeWatcher) CardDrawn(deck.Card) {}

func (w shoeWatcher) Reshuffled() {
	w.e.config.Logger.Debug("Shoe reshuffled", "decks", w.e.shoe.Decks(), "reshuffles", w.e.shoe.Reshuffles())
	w.e.publish(ReshuffleEvent{
		Decks:      w.e.shoe.Decks(),
		Reshuffles: w.e.shoe.Reshuffles(),
		timestamp:  w.e.config.Clock.Now(),
	})
}
