package simulator

import (
	"strconv"

	"github.com/arch-bert/card-counting/internal/game"
	"github.com/arch-bert/card-counting/internal/statistics"
)

// Document is the JSON form of a report written by --write-stats.
type Document struct {
	Seed            int64            `json:"seed"`
	Strategy        string           `json:"strategy"`
	Counting        bool             `json:"counting"`
	Decks           int              `json:"decks"`
	BetUnit         float64          `json:"bet_unit"`
	Rounds          int              `json:"rounds"`
	Player          game.Stats       `json:"player"`
	ReturnRatio     statistics.Ratio `json:"return_ratio"`
	WinRate         statistics.Ratio `json:"win_rate"`
	Mean            float64          `json:"mean_net"`
	StdDev          float64          `json:"std_dev"`
	CI95            [2]float64       `json:"ci95"`
	Median          float64          `json:"median"`
	MaxWin          float64          `json:"max_win"`
	MaxLoss         float64          `json:"max_loss"`
	Reshuffles      int              `json:"reshuffles"`
	ElapsedSeconds  float64          `json:"elapsed_seconds"`
	RoundsPerSecond float64          `json:"rounds_per_second"`
	Sessions        []SessionResult  `json:"sessions"`

	CountBuckets map[string]statistics.CountBucket `json:"count_buckets,omitempty"`
}

// Document flattens the report for serialization.
func (r *Report) Document() Document {
	lo, hi := r.Stats.ConfidenceInterval95()
	doc := Document{
		Seed:            r.Seed,
		Strategy:        r.Strategy,
		Counting:        r.Counting,
		Decks:           r.Decks,
		BetUnit:         r.BetUnit,
		Rounds:          r.Stats.Rounds,
		Player:          r.Player,
		ReturnRatio:     r.ReturnRatio(),
		WinRate:         r.WinRate(),
		Mean:            r.Stats.Mean(),
		StdDev:          r.Stats.StdDev(),
		CI95:            [2]float64{lo, hi},
		Median:          r.Stats.Median(),
		MaxWin:          r.Stats.MaxWin,
		MaxLoss:         r.Stats.MaxLoss,
		Reshuffles:      r.Reshuffles,
		ElapsedSeconds:  r.Elapsed.Seconds(),
		RoundsPerSecond: r.RoundsPerSecond(),
		Sessions:        r.Sessions,
	}
	if len(r.Stats.CountBuckets) > 0 {
		doc.CountBuckets = make(map[string]statistics.CountBucket, len(r.Stats.CountBuckets))
		for k, b := range r.Stats.CountBuckets {
			doc.CountBuckets[strconv.Itoa(k)] = *b
		}
	}
	return doc
}
