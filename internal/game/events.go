package game

import (
	"time"

	"github.com/arch-bert/card-counting/internal/deck"
	"github.com/arch-bert/card-counting/internal/strategy"
)

// EventType represents a round event type with type safety
type EventType string

const (
	EventTypeRoundStart     EventType = "round_start"
	EventTypeRoundEnd       EventType = "round_end"
	EventTypePhaseChange    EventType = "phase_change"
	EventTypePlayerDecision EventType = "player_decision"
	EventTypeSplit          EventType = "split"
	EventTypeDealerDecision EventType = "dealer_decision"
	EventTypeHandSettled    EventType = "hand_settled"
	EventTypeReshuffle      EventType = "reshuffle"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happens while a round is played
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// RoundStartEvent is published after the bet is placed, before dealing.
type RoundStartEvent struct {
	RoundID   string
	Number    int
	Bet       float64
	Counting  bool
	TrueCount float64
	CardsLeft int
	timestamp time.Time
}

func (e RoundStartEvent) EventType() EventType { return EventTypeRoundStart }
func (e RoundStartEvent) Timestamp() time.Time { return e.timestamp }

// PhaseChangeEvent is published when the round moves to a new phase
type PhaseChangeEvent struct {
	RoundID   string
	Phase     Phase
	timestamp time.Time
}

func (e PhaseChangeEvent) EventType() EventType { return EventTypePhaseChange }
func (e PhaseChangeEvent) Timestamp() time.Time { return e.timestamp }

// PlayerDecisionEvent is published after a player hand acts
type PlayerDecisionEvent struct {
	RoundID   string
	Player    string
	Action    strategy.Action
	Cards     []deck.Card
	Value     int
	Bet       float64
	timestamp time.Time
}

func (e PlayerDecisionEvent) EventType() EventType { return EventTypePlayerDecision }
func (e PlayerDecisionEvent) Timestamp() time.Time { return e.timestamp }

// SplitEvent is published when the starting pair is split
type SplitEvent struct {
	RoundID   string
	Pair      deck.Rank
	UpCard    deck.Card
	timestamp time.Time
}

func (e SplitEvent) EventType() EventType { return EventTypeSplit }
func (e SplitEvent) Timestamp() time.Time { return e.timestamp }

// DealerDecisionEvent is published after the dealer acts
type DealerDecisionEvent struct {
	RoundID   string
	Action    strategy.Action
	Cards     []deck.Card
	Value     int
	timestamp time.Time
}

func (e DealerDecisionEvent) EventType() EventType { return EventTypeDealerDecision }
func (e DealerDecisionEvent) Timestamp() time.Time { return e.timestamp }

// HandSettledEvent is published once per settled player hand
type HandSettledEvent struct {
	RoundID   string
	Result    HandResult
	timestamp time.Time
}

func (e HandSettledEvent) EventType() EventType { return EventTypeHandSettled }
func (e HandSettledEvent) Timestamp() time.Time { return e.timestamp }

// RoundEndEvent carries the full result of a round
type RoundEndEvent struct {
	Result    RoundResult
	Stats     Stats
	timestamp time.Time
}

func (e RoundEndEvent) EventType() EventType { return EventTypeRoundEnd }
func (e RoundEndEvent) Timestamp() time.Time { return e.timestamp }

// ReshuffleEvent is published when the shoe is rebuilt
type ReshuffleEvent struct {
	Decks      int
	Reshuffles int
	timestamp  time.Time
}

func (e ReshuffleEvent) EventType() EventType { return EventTypeReshuffle }
func (e ReshuffleEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber receives round events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventSubscriberFunc adapts a function to EventSubscriber
type EventSubscriberFunc func(GameEvent)

// OnEvent implements EventSubscriber
func (f EventSubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic synchronous in-memory event bus
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Publish sends an event to all subscribers in subscription order
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}

// HasSubscribers reports whether publishing would reach anyone
func (bus *SimpleEventBus) HasSubscribers() bool {
	return len(bus.subscribers) > 0
}
