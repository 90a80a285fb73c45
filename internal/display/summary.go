package display

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/arch-bert/card-counting/internal/simulator"
	"github.com/arch-bert/card-counting/internal/statistics"
)

// Summary prints the final results of a simulation.
func (p *Printer) Summary(r *simulator.Report) {
	stats := r.Stats
	player := r.Player

	counting := "off"
	if r.Counting {
		counting = "on"
	}

	p.section("SIMULATION")
	p.kv("Strategy", r.Strategy)
	p.kv("Counting", counting)
	p.kv("Decks", strconv.Itoa(r.Decks))
	p.kv("Bet unit", fmt.Sprintf("%.2f", r.BetUnit))
	p.kv("Seed", strconv.FormatInt(r.Seed, 10))
	p.kv("Sessions", strconv.Itoa(len(r.Sessions)))
	p.kv("Rounds played", strconv.Itoa(stats.Rounds))
	p.kv("Hands settled", strconv.Itoa(player.Rounds))

	p.section("PLAYER")
	p.kv("Total bets", fmt.Sprintf("%.2f", player.TotalBets))
	p.kv("Total earnings", p.money(player.TotalEarnings))
	p.kv("Return ratio", r.ReturnRatio().String())
	p.kv("Win rate", r.WinRate().Percent())
	p.kv("Wins", strconv.Itoa(player.Wins))
	p.kv("Draws", strconv.Itoa(player.Draws))
	p.kv("Losses", strconv.Itoa(player.Losses))
	p.kv("Busts", strconv.Itoa(player.Busts))
	p.kv("Stands", strconv.Itoa(player.Stands))
	p.kv("Doubles", strconv.Itoa(player.Doubles))
	p.kv("Blackjacks", strconv.Itoa(player.Blackjacks))
	p.kv("Splits", strconv.Itoa(player.Splits))

	if stats.Rounds > 0 {
		lo, hi := stats.ConfidenceInterval95()
		p.section("STATISTICS")
		p.kv("Mean", fmt.Sprintf("%.4f per round", stats.Mean()))
		p.kv("Median", fmt.Sprintf("%.4f", stats.Median()))
		p.kv("Std dev", fmt.Sprintf("%.4f", stats.StdDev()))
		p.kv("Std error", fmt.Sprintf("%.4f", stats.StdError()))
		p.kv("95% CI", fmt.Sprintf("[%.4f, %.4f]", lo, hi))
		p.kv("Percentiles", fmt.Sprintf("P5=%.2f P25=%.2f P75=%.2f P95=%.2f",
			stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95)))
		p.kv("Max win", p.money(stats.MaxWin))
		p.kv("Max loss", p.money(stats.MaxLoss))
	}

	if r.Counting && len(stats.CountBuckets) > 0 {
		p.section("TRUE COUNT")
		fmt.Fprintln(p.w, p.countTable(stats))
	}

	p.section("PERFORMANCE")
	p.kv("Reshuffles", strconv.Itoa(r.Reshuffles))
	p.kv("Elapsed", r.Elapsed.String())
	p.kv("Rounds/sec", fmt.Sprintf("%.0f", r.RoundsPerSecond()))
}

// countTable breaks results down by the true count each round opened at.
func (p *Printer) countTable(stats *statistics.Statistics) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.muted).
		Headers("TC", "Rounds", "Wagered", "Net", "Return").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header.Padding(0, 1)
			}
			return p.r.NewStyle().Padding(0, 1).Align(lipgloss.Right)
		})

	for _, k := range stats.SortedCounts() {
		b := stats.CountBuckets[k]
		t.Row(
			fmt.Sprintf("%+d", k),
			strconv.Itoa(b.Rounds),
			fmt.Sprintf("%.2f", b.Wagered),
			fmt.Sprintf("%.2f", b.SumNet),
			statistics.NewRatio(b.SumNet, b.Wagered).String(),
		)
	}
	return t.String()
}
