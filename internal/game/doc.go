// Package game implements the blackjack round-resolution engine.
//
// The main type is Engine, which plays single rounds between one Player and
// the Dealer over a shared deck.Shoe, moving through the phases dealing,
// split check, player turns, dealer turn, settlement and reset.
//
// # Basic Usage
//
//	chart, _ := strategy.Default()
//	shoe, _ := deck.NewShoe(6, randutil.New(42))
//	player := game.NewPlayer("Player", chart, game.NewCounter())
//	engine := game.NewEngine(shoe, player, game.NewDealer(game.Rules{}), game.EngineConfig{
//	    BetUnit: 1000,
//	    Logger:  logger,
//	})
//	result, err := engine.Play()
//
// # Deterministic Testing
//
// Build the shoe with deck.NewStackedShoe to script the exact cards of a
// round, and inject a seeded gameid.Generator and a quartz mock clock to make
// identifiers and event timestamps reproducible.
//
// # Architecture
//
//   - Hand: cards plus a value that is always rebuilt with Recompute
//   - Player: bet, statistics and policy-driven decisions; SpawnSplit and
//     MergeStats model splitting as an explicit factory and reduction
//   - Dealer: fixed house policy, optionally hitting soft 17
//   - Counter: Hi-Lo running count fed by the shoe
//   - EventBus: synchronous events for presentation layers
//
// An engine and everything it owns belong to a single goroutine. Parallel
// simulations give each session its own shoe, player, dealer and engine.
package game
