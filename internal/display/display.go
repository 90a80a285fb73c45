// Package display renders simulation reports, strategy charts and round
// traces for the terminal.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/arch-bert/card-counting/internal/deck"
	"github.com/arch-bert/card-counting/internal/game"
)

// Printer writes styled output to a single writer.
type Printer struct {
	w io.Writer
	r *lipgloss.Renderer

	header   lipgloss.Style
	label    lipgloss.Style
	value    lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
	muted    lipgloss.Style
	red      lipgloss.Style
}

// NewPrinter creates a printer for w. Without color every style renders
// as plain text.
func NewPrinter(w io.Writer, color bool) *Printer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		w:        w,
		r:        r,
		header:   r.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true),
		label:    r.NewStyle().Foreground(lipgloss.Color("#626262")).Width(18),
		value:    r.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true),
		positive: r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		negative: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		muted:    r.NewStyle().Foreground(lipgloss.Color("#626262")),
		red:      r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
	}
}

func (p *Printer) section(title string) {
	fmt.Fprintf(p.w, "\n%s\n", p.header.Render("=== "+title+" ==="))
}

func (p *Printer) kv(label, value string) {
	fmt.Fprintf(p.w, "%s%s\n", p.label.Render(label+":"), p.value.Render(value))
}

// money renders an amount, colored by sign.
func (p *Printer) money(v float64) string {
	s := fmt.Sprintf("%+.2f", v)
	switch {
	case v > 0:
		return p.positive.Render(s)
	case v < 0:
		return p.negative.Render(s)
	}
	return s
}

// Cards formats cards as "[A♠ 6♦]".
func Cards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func (p *Printer) cards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			parts[i] = p.red.Render(c.String())
		} else {
			parts[i] = c.String()
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// FormatRound renders a settled round on one line.
func FormatRound(r game.RoundResult) string {
	return formatRound(r, Cards, func(v float64) string { return fmt.Sprintf("%+.2f", v) })
}

func formatRound(r game.RoundResult, cards func([]deck.Card) string, money func(float64) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d bet %.2f", r.Number, r.Bet)
	if r.Counting {
		fmt.Fprintf(&b, " tc %+.1f", r.TrueCount)
	}
	fmt.Fprintf(&b, " | dealer %s %d", cards(r.DealerCards), r.DealerValue)
	for _, h := range r.Hands {
		fmt.Fprintf(&b, " | %s %s %d %s (%s) %s", h.Player, cards(h.Cards), h.Value, h.Outcome, h.Reason, money(h.Net))
	}
	return b.String()
}
