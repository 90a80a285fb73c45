package simulator

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/arch-bert/card-counting/internal/deck"
	"github.com/arch-bert/card-counting/internal/game"
	"github.com/arch-bert/card-counting/internal/gameid"
	"github.com/arch-bert/card-counting/internal/randutil"
	"github.com/arch-bert/card-counting/internal/statistics"
	"github.com/arch-bert/card-counting/internal/strategy"
	"github.com/arch-bert/card-counting/internal/types"
)

// Config holds configuration for running simulations
type Config struct {
	Rounds   int // Rounds per session
	Sessions int
	Decks    int
	BetUnit  float64
	Counting bool
	Rules    game.Rules
	Seed     int64 // 0 picks a seed from the clock
	Workers  int   // Sessions run concurrently; defaults to NumCPU

	Policy       strategy.Policy
	StrategyName string
	PlayerName   string

	Logger *log.Logger
	Clock  quartz.Clock

	// Subscribers receive every session's round events. With more than one
	// session they are called concurrently.
	Subscribers []game.EventSubscriber

	// Progress is called every ProgressEvery rounds and once per finished
	// session. It may be called from several goroutines.
	Progress      func(Progress)
	ProgressEvery int
}

// Progress reports rounds played so far across all sessions.
type Progress struct {
	Completed int
	Total     int
	Elapsed   time.Duration
}

// Fraction is the share of rounds completed.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// SessionResult is the outcome of one independent shoe.
type SessionResult struct {
	ID         string                 `json:"id"`
	Seed       int64                  `json:"seed"`
	Player     game.Stats             `json:"player"`
	Stats      *statistics.Statistics `json:"-"`
	Reshuffles int                    `json:"reshuffles"`
}

// Report aggregates every session of a run.
type Report struct {
	Seed       int64                  `json:"seed"`
	Strategy   string                 `json:"strategy"`
	Counting   bool                   `json:"counting"`
	Decks      int                    `json:"decks"`
	BetUnit    float64                `json:"bet_unit"`
	Sessions   []SessionResult        `json:"sessions"`
	Player     game.Stats             `json:"player"`
	Stats      *statistics.Statistics `json:"-"`
	Reshuffles int                    `json:"reshuffles"`
	Elapsed    time.Duration          `json:"elapsed_ns"`
}

// ReturnRatio is total earnings over total bets, undefined when nothing
// was bet.
func (r *Report) ReturnRatio() statistics.Ratio {
	return statistics.NewRatio(r.Player.TotalEarnings, r.Player.TotalBets)
}

// WinRate is wins over settled hands.
func (r *Report) WinRate() statistics.Ratio {
	return statistics.NewRatio(float64(r.Player.Wins), float64(r.Player.Rounds))
}

// RoundsPerSecond is simulation throughput.
func (r *Report) RoundsPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Stats.Rounds) / r.Elapsed.Seconds()
}

// Simulator runs blackjack sessions
type Simulator struct {
	config    Config
	completed atomic.Int64
	started   time.Time
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Sessions <= 0 {
		config.Sessions = 1
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	if config.PlayerName == "" {
		config.PlayerName = "Player"
	}
	if config.StrategyName == "" {
		config.StrategyName = strategy.DefaultName
	}
	return &Simulator{config: config}
}

// Run plays every session and merges their results in session order, so
// the report for a given seed does not depend on Workers.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.config.Rounds <= 0 {
		return nil, types.NewGameError(types.ErrInvalidConfig, "rounds must be positive, got %d", s.config.Rounds)
	}
	if s.config.Policy == nil {
		return nil, types.NewGameError(types.ErrEmptyPolicy, "no strategy configured")
	}

	seed := s.config.Seed
	s.completed.Store(0)
	s.started = s.config.Clock.Now()
	if seed == 0 {
		seed = s.started.UnixNano()
	}

	s.config.Logger.Info("Starting simulation",
		"sessions", s.config.Sessions,
		"rounds", s.config.Rounds,
		"decks", s.config.Decks,
		"counting", s.config.Counting,
		"strategy", s.config.StrategyName,
		"seed", seed)

	results := make([]SessionResult, s.config.Sessions)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for i := range s.config.Sessions {
		g.Go(func() error {
			r, err := s.runSession(ctx, i, randutil.Derive(seed, i))
			if err != nil {
				return fmt.Errorf("session %d: %w", i+1, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Seed:     seed,
		Strategy: s.config.StrategyName,
		Counting: s.config.Counting,
		Decks:    s.config.Decks,
		BetUnit:  s.config.BetUnit,
		Sessions: results,
		Stats:    &statistics.Statistics{},
	}
	for _, r := range results {
		report.Player.Merge(r.Player)
		report.Stats.Merge(r.Stats)
		report.Reshuffles += r.Reshuffles
	}
	report.Elapsed = s.config.Clock.Since(s.started)

	if err := report.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	if report.Player.Rounds != report.Stats.Hands {
		return nil, fmt.Errorf("statistics validation failed: player settled %d hands, statistics saw %d",
			report.Player.Rounds, report.Stats.Hands)
	}

	s.config.Logger.Info("Simulation finished",
		"rounds", report.Stats.Rounds,
		"hands", report.Stats.Hands,
		"earnings", report.Player.TotalEarnings,
		"return", report.ReturnRatio(),
		"elapsed", report.Elapsed)
	return report, nil
}

// runSession plays Rounds rounds on a fresh shoe seeded from seed.
func (s *Simulator) runSession(ctx context.Context, index int, seed int64) (SessionResult, error) {
	shoe, err := deck.NewShoe(s.config.Decks, randutil.New(seed))
	if err != nil {
		return SessionResult{}, err
	}
	ids := gameid.NewGenerator(randutil.New(randutil.Derive(seed, 0)))

	var counter *game.Counter
	if s.config.Counting {
		counter = game.NewCounter()
	}
	player := game.NewPlayer(s.config.PlayerName, s.config.Policy, counter)

	logger := s.config.Logger.With("session", index+1)
	subscribers := s.config.Subscribers
	if logger.GetLevel() <= log.DebugLevel {
		subscribers = append(subscribers[:len(subscribers):len(subscribers)], roundLogger{logger})
	}
	var bus game.EventBus
	if len(subscribers) > 0 {
		b := game.NewEventBus()
		for _, sub := range subscribers {
			b.Subscribe(sub)
		}
		bus = b
	}

	engine := game.NewEngine(shoe, player, game.NewDealer(s.config.Rules), game.EngineConfig{
		BetUnit: s.config.BetUnit,
		Logger:  logger,
		Bus:     bus,
		Clock:   s.config.Clock,
		IDs:     ids,
	})

	result := SessionResult{
		ID:    ids.Generate(),
		Seed:  seed,
		Stats: &statistics.Statistics{},
	}

	for range s.config.Rounds {
		if err := ctx.Err(); err != nil {
			return SessionResult{}, err
		}
		round, err := engine.Play()
		if err != nil {
			return SessionResult{}, err
		}
		result.Stats.Add(Sample(round))
		s.tick(false)
	}
	s.tick(true)

	result.Player = player.Stats()
	result.Reshuffles = shoe.Reshuffles()

	s.config.Logger.Debug("Session finished",
		"session", index+1,
		"id", result.ID,
		"rounds", result.Stats.Rounds,
		"earnings", result.Player.TotalEarnings,
		"reshuffles", result.Reshuffles)
	return result, nil
}

func (s *Simulator) tick(final bool) {
	var done int64
	if !final {
		done = s.completed.Add(1)
	} else {
		done = s.completed.Load()
	}
	if s.config.Progress == nil {
		return
	}
	every := int64(s.config.ProgressEvery)
	if !final && (every <= 0 || done%every != 0) {
		return
	}
	s.config.Progress(Progress{
		Completed: int(done),
		Total:     s.config.Rounds * s.config.Sessions,
		Elapsed:   s.config.Clock.Since(s.started),
	})
}

// Sample converts a settled round into a statistics sample.
func Sample(r game.RoundResult) statistics.RoundSample {
	sample := statistics.RoundSample{
		Net:       r.Net(),
		Bet:       r.Bet,
		Wagered:   r.Wagered(),
		Hands:     len(r.Hands),
		Split:     len(r.Hands) > 1,
		TrueCount: r.TrueCount,
		Counting:  r.Counting,
	}
	for _, h := range r.Hands {
		switch h.Outcome {
		case game.Win:
			sample.Wins++
		case game.Draw:
			sample.Draws++
		case game.Loss:
			sample.Losses++
		}
		switch h.Reason {
		case game.ReasonBust:
			sample.Busts++
		case game.ReasonBlackjack:
			sample.Blackjacks++
		}
		for _, a := range h.Decisions {
			if a == strategy.Double {
				sample.Doubles++
				break
			}
		}
	}
	return sample
}

// RunSimulation is a convenience function for running a single session
// with the default chart and a flat bet.
func RunSimulation(ctx context.Context, rounds, decks int, seed int64, logger *log.Logger) (*Report, error) {
	chart, err := strategy.Default()
	if err != nil {
		return nil, err
	}
	return New(Config{
		Rounds:  rounds,
		Decks:   decks,
		BetUnit: 1000,
		Seed:    seed,
		Policy:  chart,
		Logger:  logger,
	}).Run(ctx)
}
