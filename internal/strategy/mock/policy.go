package mock

import (
	"github.com/stretchr/testify/mock"

	"github.com/arch-bert/card-counting/internal/deck"
	"github.com/arch-bert/card-counting/internal/strategy"
)

// Policy is a mock implementation of strategy.Policy
type Policy struct {
	mock.Mock
}

var _ strategy.Policy = (*Policy)(nil)

// Hard implements strategy.Policy
func (p *Policy) Hard(total int, up deck.Rank) (strategy.Action, error) {
	args := p.Called(total, up)
	return args.Get(0).(strategy.Action), args.Error(1)
}

// Soft implements strategy.Policy
func (p *Policy) Soft(total int, up deck.Rank) (strategy.Action, error) {
	args := p.Called(total, up)
	return args.Get(0).(strategy.Action), args.Error(1)
}

// Split implements strategy.Policy
func (p *Policy) Split(pair deck.Rank, up deck.Rank) (bool, error) {
	args := p.Called(pair, up)
	return args.Bool(0), args.Error(1)
}
