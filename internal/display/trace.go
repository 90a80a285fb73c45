package display

import (
	"fmt"
	"sync"

	"github.com/arch-bert/card-counting/internal/game"
)

// Trace prints one line per finished round. It is safe to share between
// concurrent sessions.
type Trace struct {
	mu sync.Mutex
	p  *Printer
}

var _ game.EventSubscriber = (*Trace)(nil)

// NewTrace creates a round trace that writes through p.
func NewTrace(p *Printer) *Trace {
	return &Trace{p: p}
}

// OnEvent implements game.EventSubscriber.
func (t *Trace) OnEvent(event game.GameEvent) {
	switch ev := event.(type) {
	case game.RoundEndEvent:
		t.mu.Lock()
		defer t.mu.Unlock()
		fmt.Fprintln(t.p.w, formatRound(ev.Result, t.p.cards, t.p.money))
	case game.ReshuffleEvent:
		t.mu.Lock()
		defer t.mu.Unlock()
		fmt.Fprintln(t.p.w, t.p.muted.Render(fmt.Sprintf("-- shoe reshuffled (%d decks, #%d) --", ev.Decks, ev.Reshuffles)))
	}
}
