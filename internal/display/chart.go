package display

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/arch-bert/card-counting/internal/strategy"
)

var kindTitles = map[strategy.Kind]string{
	strategy.KindHard:  "HARD TOTALS",
	strategy.KindSoft:  "SOFT TOTALS",
	strategy.KindPairs: "PAIRS",
}

// Chart prints the requested tables of a strategy chart, or all of them.
func (p *Printer) Chart(c *strategy.Chart, kinds ...strategy.Kind) {
	if len(kinds) == 0 {
		kinds = strategy.Kinds
	}
	fmt.Fprintln(p.w, p.value.Render(strategy.Describe(c)))
	for _, kind := range kinds {
		p.section(kindTitles[kind])
		fmt.Fprintln(p.w, p.chartTable(c, kind))
	}
}

func (p *Printer) chartTable(c *strategy.Chart, kind strategy.Kind) string {
	headers := append([]string{""}, strategy.Columns...)
	rows := strategy.Rows(kind)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.muted).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := p.r.NewStyle().Padding(0, 1).Align(lipgloss.Center)
			if row == table.HeaderRow || col == 0 {
				return p.header.Padding(0, 1)
			}
			return base.Inherit(p.cellStyle(c.Cell(kind, strategy.Key{Row: rows[row], Dealer: strategy.Columns[col-1]})))
		})

	for _, row := range rows {
		cells := []string{row}
		for _, col := range strategy.Columns {
			code := c.Cell(kind, strategy.Key{Row: row, Dealer: col})
			if code == "" {
				code = "?"
			}
			cells = append(cells, code)
		}
		t.Row(cells...)
	}
	return t.String()
}

func (p *Printer) cellStyle(code string) lipgloss.Style {
	switch code {
	case "S", "Y":
		return p.positive
	case "D":
		return p.value
	case "H":
		return p.negative
	}
	return p.muted
}
