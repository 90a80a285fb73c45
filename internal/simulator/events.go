package simulator

import (
	"github.com/charmbracelet/log"

	"github.com/arch-bert/card-counting/internal/game"
)

// roundLogger writes one debug line per finished round.
type roundLogger struct {
	logger *log.Logger
}

func (l roundLogger) OnEvent(event game.GameEvent) {
	switch ev := event.(type) {
	case game.RoundEndEvent:
		r := ev.Result
		l.logger.Debug("Round finished",
			"round", r.Number,
			"id", r.ID,
			"bet", r.Bet,
			"true_count", r.TrueCount,
			"dealer", r.DealerValue,
			"hands", len(r.Hands),
			"net", r.Net(),
			"earnings", ev.Stats.TotalEarnings)
	case game.ReshuffleEvent:
		l.logger.Debug("Shoe reshuffled", "reshuffles", ev.Reshuffles)
	}
}
