package strategy

import (
	"fmt"
	"strings"
)

// Action is a player decision.
type Action int

const (
	Hit Action = iota
	Stand
	Double
	Split
)

// String returns the string representation of an action
func (a Action) String() string {
	switch a {
	case Hit:
		return "hit"
	case Stand:
		return "stand"
	case Double:
		return "double"
	case Split:
		return "split"
	default:
		return "unknown"
	}
}

// Code returns the single letter chart code for the action.
func (a Action) Code() string {
	switch a {
	case Hit:
		return "H"
	case Stand:
		return "S"
	case Double:
		return "D"
	case Split:
		return "Y"
	default:
		return "?"
	}
}

// parseAction decodes a totals-table cell.
func parseAction(code string) (Action, error) {
	switch strings.ToUpper(code) {
	case "H":
		return Hit, nil
	case "S":
		return Stand, nil
	case "D":
		return Double, nil
	}
	return 0, fmt.Errorf("unknown action code %q", code)
}

// parseSplit decodes a pair-table cell.
func parseSplit(code string) (bool, error) {
	switch strings.ToUpper(code) {
	case "Y":
		return true, nil
	case "N":
		return false, nil
	}
	return false, fmt.Errorf("unknown split code %q", code)
}
