package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundSample is the outcome of a single simulated round.
type RoundSample struct {
	Net        float64 // Amount won or lost over all hands of the round
	Bet        float64 // Opening bet
	Wagered    float64 // Final stake including doubles and split hands
	Hands      int     // Hands settled, 2 after a split
	Wins       int
	Draws      int
	Losses     int
	Busts      int
	Blackjacks int
	Doubles    int
	Split      bool
	TrueCount  float64 // True count when the bet was sized
	Counting   bool
}

// CountBucket aggregates rounds that started at the same true count.
type CountBucket struct {
	Rounds  int     `json:"rounds"`
	SumNet  float64 `json:"sum_net"`
	Wagered float64 `json:"wagered"`
}

// Statistics tracks simulation results across rounds.
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	// Per hand outcomes
	Hands      int
	Wins       int
	Draws      int
	Losses     int
	Busts      int
	Blackjacks int
	Doubles    int
	Splits     int

	Wagered float64
	MaxWin  float64
	MaxLoss float64

	// Rounds keyed by the true count, rounded toward zero, they opened at.
	CountBuckets map[int]*CountBucket
}

// Mean returns the arithmetic mean of the net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(0, s.Variance()))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(r RoundSample) {
	s.Rounds++
	s.SumNet += r.Net
	s.SumNet2 += r.Net * r.Net
	s.Values = append(s.Values, r.Net)

	s.Hands += r.Hands
	s.Wins += r.Wins
	s.Draws += r.Draws
	s.Losses += r.Losses
	s.Busts += r.Busts
	s.Blackjacks += r.Blackjacks
	s.Doubles += r.Doubles
	if r.Split {
		s.Splits++
	}
	s.Wagered += r.Wagered

	if r.Net > s.MaxWin {
		s.MaxWin = r.Net
	}
	if r.Net < s.MaxLoss {
		s.MaxLoss = r.Net
	}

	if r.Counting {
		if s.CountBuckets == nil {
			s.CountBuckets = make(map[int]*CountBucket)
		}
		key := int(r.TrueCount)
		b, ok := s.CountBuckets[key]
		if !ok {
			b = &CountBucket{}
			s.CountBuckets[key] = b
		}
		b.Rounds++
		b.SumNet += r.Net
		b.Wagered += r.Wagered
	}
}

// Merge folds another run's statistics into s.
func (s *Statistics) Merge(other *Statistics) {
	if other == nil {
		return
	}
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)

	s.Hands += other.Hands
	s.Wins += other.Wins
	s.Draws += other.Draws
	s.Losses += other.Losses
	s.Busts += other.Busts
	s.Blackjacks += other.Blackjacks
	s.Doubles += other.Doubles
	s.Splits += other.Splits
	s.Wagered += other.Wagered

	s.MaxWin = math.Max(s.MaxWin, other.MaxWin)
	s.MaxLoss = math.Min(s.MaxLoss, other.MaxLoss)

	for k, ob := range other.CountBuckets {
		if s.CountBuckets == nil {
			s.CountBuckets = make(map[int]*CountBucket)
		}
		b, ok := s.CountBuckets[k]
		if !ok {
			b = &CountBucket{}
			s.CountBuckets[k] = b
		}
		b.Rounds += ob.Rounds
		b.SumNet += ob.SumNet
		b.Wagered += ob.Wagered
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// ReturnRatio is net result over total stake.
func (s *Statistics) ReturnRatio() Ratio {
	return NewRatio(s.SumNet, s.Wagered)
}

// WinRate is hands won over hands played.
func (s *Statistics) WinRate() Ratio {
	return NewRatio(float64(s.Wins), float64(s.Hands))
}

// SortedCounts returns the true count buckets in ascending order.
func (s *Statistics) SortedCounts() []int {
	keys := make([]int, 0, len(s.CountBuckets))
	for k := range s.CountBuckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if s.Rounds < 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if s.Wins+s.Draws+s.Losses != s.Hands {
		return fmt.Errorf("outcomes (%d wins, %d draws, %d losses) do not add up to %d hands",
			s.Wins, s.Draws, s.Losses, s.Hands)
	}

	if s.Busts > s.Losses {
		return fmt.Errorf("busts (%d) exceed losses (%d)", s.Busts, s.Losses)
	}

	if s.CountBuckets != nil {
		rounds := 0
		var net float64
		for _, b := range s.CountBuckets {
			rounds += b.Rounds
			net += b.SumNet
		}
		if rounds > s.Rounds {
			return fmt.Errorf("count buckets hold %d rounds, more than %d played", rounds, s.Rounds)
		}
		if rounds == s.Rounds && math.Abs(net-s.SumNet) > 1e-6 {
			return fmt.Errorf("ledger mismatch: buckets=%.6f total=%.6f", net, s.SumNet)
		}
	}

	return nil
}
