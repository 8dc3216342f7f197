package graph

import "github.com/dharmasatrya/tripsearch/internal/models"

type state struct {
	cost float64
	seq  int
	hops int
	node string
	path []string
	legs []models.Leg
}

// frontier is a min-heap on (cost, seq); seq is the push order so equal
// costs pop first-discovered first.
type frontier []*state

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].cost != f[j].cost {
		return f[i].cost < f[j].cost
	}
	return f[i].seq < f[j].seq
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(*state)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return item
}
