package ranking

import (
	"math"
	"sort"

	"github.com/dharmasatrya/tripsearch/internal/models"
)

// Weights of each dimension in the best-value score. Higher score is better.
type Weights struct {
	Price       float64
	Duration    float64
	Stops       float64
	Reliability float64
}

var DefaultWeights = Weights{
	Price:       0.50,
	Duration:    0.30,
	Stops:       0.15,
	Reliability: 0.05,
}

type span struct {
	min, rng float64
}

func newSpan(vals []float64) span {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	return span{min: lo, rng: rng}
}

func (s span) norm(v float64) float64 {
	return (v - s.min) / s.rng
}

// Bounds are the min-max spans of a result set.
type Bounds struct {
	price, duration, stops span
}

func NewBounds(legs []models.Leg) Bounds {
	prices := make([]float64, len(legs))
	durations := make([]float64, len(legs))
	stops := make([]float64, len(legs))
	for i, l := range legs {
		prices[i] = l.Price
		durations[i] = float64(l.DurationMinutes)
		stops[i] = float64(l.Stops)
	}
	return Bounds{
		price:    newSpan(prices),
		duration: newSpan(durations),
		stops:    newSpan(stops),
	}
}

// Score of a single leg against b, rounded to three decimals.
func (w Weights) Score(l models.Leg, b Bounds) float64 {
	s := w.Price*(1-b.price.norm(l.Price)) +
		w.Duration*(1-b.duration.norm(float64(l.DurationMinutes))) +
		w.Stops*(1-b.stops.norm(float64(l.Stops))) +
		w.Reliability*l.Reliability
	return math.Round(s*1000) / 1000
}

type Ranker struct {
	Weights Weights
}

// Rank scores a copy of legs and sorts it by score, best first. Equal scores
// keep their input order.
func (r Ranker) Rank(legs []models.Leg) []models.Leg {
	if len(legs) == 0 {
		return []models.Leg{}
	}

	bounds := NewBounds(legs)
	result := make([]models.Leg, len(legs))
	for i, l := range legs {
		result[i] = l
		result[i].Score = r.Weights.Score(l, bounds)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}

func Rank(legs []models.Leg) []models.Leg {
	return Ranker{Weights: DefaultWeights}.Rank(legs)
}
