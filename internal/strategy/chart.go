package strategy

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/arch-bert/card-counting/internal/deck"
	"github.com/arch-bert/card-counting/internal/types"
)

// Policy maps a hand metric and the dealer up-card to a decision.
type Policy interface {
	// Hard looks up a hand with no ace counted as 11.
	Hard(total int, up deck.Rank) (Action, error)
	// Soft looks up a hand with an ace counted as 11.
	Soft(total int, up deck.Rank) (Action, error)
	// Split reports whether a pair of rank should be split.
	Split(pair deck.Rank, up deck.Rank) (bool, error)
}

// Kind names one of the three chart tables.
type Kind string

const (
	KindHard  Kind = "hard"
	KindSoft  Kind = "soft"
	KindPairs Kind = "pairs"
)

// Kinds lists the tables in display order.
var Kinds = []Kind{KindHard, KindSoft, KindPairs}

// Key is the composite lookup key of a chart cell.
type Key struct {
	Row    string // hand total or pair rank label
	Dealer string // dealer up-card label
}

// Columns are the dealer up-card labels every table must cover.
var Columns = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "A"}

// Rows returns the row labels reachable for the given table.
func Rows(kind Kind) []string {
	switch kind {
	case KindHard:
		return totalRows(4, 21)
	case KindSoft:
		return totalRows(12, 21)
	case KindPairs:
		return []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "A"}
	}
	return nil
}

func totalRows(lo, hi int) []string {
	rows := make([]string, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		rows = append(rows, strconv.Itoa(v))
	}
	return rows
}

// Chart is an immutable basic strategy chart. It is safe for concurrent
// use once built.
type Chart struct {
	Name  string
	hard  map[Key]Action
	soft  map[Key]Action
	pairs map[Key]bool
}

var _ Policy = (*Chart)(nil)

// Hard implements Policy.
func (c *Chart) Hard(total int, up deck.Rank) (Action, error) {
	return lookup(c.hard, KindHard, strconv.Itoa(total), up)
}

// Soft implements Policy.
func (c *Chart) Soft(total int, up deck.Rank) (Action, error) {
	return lookup(c.soft, KindSoft, strconv.Itoa(total), up)
}

// Split implements Policy.
func (c *Chart) Split(pair deck.Rank, up deck.Rank) (bool, error) {
	return lookup(c.pairs, KindPairs, pair.Label(), up)
}

func lookup[V any](table map[Key]V, kind Kind, row string, up deck.Rank) (V, error) {
	key := Key{Row: row, Dealer: up.Label()}
	v, ok := table[key]
	if !ok {
		return v, missingKey(kind, key)
	}
	return v, nil
}

func missingKey(kind Kind, key Key) error {
	return types.NewGameError(types.ErrMissingPolicyKey, "%s table has no entry for %s vs dealer %s", kind, key.Row, key.Dealer)
}

// Validate checks that every reachable key of every table is defined.
func (c *Chart) Validate() error {
	if len(c.hard) == 0 && len(c.soft) == 0 && len(c.pairs) == 0 {
		return types.NewGameError(types.ErrEmptyPolicy, "chart %q defines no tables", c.Name)
	}
	for _, kind := range Kinds {
		size := c.size(kind)
		if size == 0 {
			return types.NewGameError(types.ErrEmptyPolicy, "chart %q has an empty %s table", c.Name, kind)
		}
		for _, row := range Rows(kind) {
			for _, col := range Columns {
				key := Key{Row: row, Dealer: col}
				if !c.has(kind, key) {
					return missingKey(kind, key)
				}
			}
		}
	}
	return nil
}

func (c *Chart) size(kind Kind) int {
	switch kind {
	case KindHard:
		return len(c.hard)
	case KindSoft:
		return len(c.soft)
	default:
		return len(c.pairs)
	}
}

func (c *Chart) has(kind Kind, key Key) bool {
	var ok bool
	switch kind {
	case KindHard:
		_, ok = c.hard[key]
	case KindSoft:
		_, ok = c.soft[key]
	case KindPairs:
		_, ok = c.pairs[key]
	}
	return ok
}

// Cell returns the chart code stored under key, or "" when undefined.
func (c *Chart) Cell(kind Kind, key Key) string {
	switch kind {
	case KindHard:
		if a, ok := c.hard[key]; ok {
			return a.Code()
		}
	case KindSoft:
		if a, ok := c.soft[key]; ok {
			return a.Code()
		}
	case KindPairs:
		if s, ok := c.pairs[key]; ok {
			if s {
				return "Y"
			}
			return "N"
		}
	}
	return ""
}

// rawTable is the file representation shared by the HCL and YAML formats.
type rawTable struct {
	Kind   string
	Dealer []string
	Rows   map[string]string
}

// build converts raw tables into a validated chart.
func build(name string, tables []rawTable) (*Chart, error) {
	c := &Chart{
		Name:  name,
		hard:  make(map[Key]Action),
		soft:  make(map[Key]Action),
		pairs: make(map[Key]bool),
	}

	seen := make(map[Kind]bool, len(tables))
	for _, t := range tables {
		kind := Kind(strings.ToLower(t.Kind))
		switch kind {
		case KindHard, KindSoft, KindPairs:
		default:
			return nil, types.NewGameError(types.ErrInvalidPolicyCell, "unknown table kind %q", t.Kind)
		}
		if seen[kind] {
			return nil, types.NewGameError(types.ErrInvalidPolicyCell, "%s table defined twice", kind)
		}
		seen[kind] = true

		cols := make([]string, len(t.Dealer))
		for i, d := range t.Dealer {
			r, err := deck.ParseRank(d)
			if err != nil {
				return nil, types.WrapError(types.ErrInvalidPolicyCell, fmt.Sprintf("%s table dealer column %d", kind, i+1), err)
			}
			cols[i] = r.Label()
		}

		// Sorted so the reported row is stable when a chart is rejected.
		for _, rowKey := range slices.Sorted(maps.Keys(t.Rows)) {
			line := t.Rows[rowKey]
			rows, err := expandRow(kind, rowKey)
			if err != nil {
				return nil, types.WrapError(types.ErrInvalidPolicyCell, fmt.Sprintf("%s table row %q", kind, rowKey), err)
			}
			cells := strings.Fields(line)
			if len(cells) != len(cols) {
				return nil, types.NewGameError(types.ErrInvalidPolicyCell,
					"%s table row %q has %d cells, want %d", kind, rowKey, len(cells), len(cols))
			}
			for _, row := range rows {
				for i, cell := range cells {
					if err := c.set(kind, Key{Row: row, Dealer: cols[i]}, cell); err != nil {
						return nil, types.WrapError(types.ErrInvalidPolicyCell, fmt.Sprintf("%s table row %q", kind, rowKey), err)
					}
				}
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// set stores one cell. A key may only be defined once, so overlapping row
// ranges or repeated dealer columns are rejected.
func (c *Chart) set(kind Kind, key Key, cell string) error {
	if c.has(kind, key) {
		return fmt.Errorf("%s vs %s defined twice", key.Row, key.Dealer)
	}
	if kind == KindPairs {
		split, err := parseSplit(cell)
		if err != nil {
			return err
		}
		c.pairs[key] = split
		return nil
	}

	a, err := parseAction(cell)
	if err != nil {
		return err
	}
	if kind == KindHard {
		c.hard[key] = a
	} else {
		c.soft[key] = a
	}
	return nil
}

// expandRow turns a row key such as "13-16", "9" or "T" into row labels.
func expandRow(kind Kind, key string) ([]string, error) {
	key = strings.TrimSpace(key)
	if kind == KindPairs {
		r, err := deck.ParseRank(key)
		if err != nil {
			return nil, err
		}
		return []string{r.Label()}, nil
	}

	lo, hi, found := strings.Cut(key, "-")
	if !found {
		hi = lo
	}
	from, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return nil, fmt.Errorf("invalid total %q", lo)
	}
	to, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return nil, fmt.Errorf("invalid total %q", hi)
	}
	if from > to {
		return nil, fmt.Errorf("empty range %d-%d", from, to)
	}
	return totalRows(from, to), nil
}
