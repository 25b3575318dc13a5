package browse

import (
	"errors"
	"sync"
)

// ErrStale is returned when a newer request for the same query superseded
// the one that produced a result. The result is discarded.
var ErrStale = errors.New("browse: response superseded by a newer request")

// Ticket identifies one request for a query key.
type Ticket struct {
	key string
	gen uint64
}

// Generations hands out monotonically increasing tickets per query key.
// Only the holder of the latest ticket may apply its result.
type Generations struct {
	mu   sync.Mutex
	gens map[string]uint64
}

func NewGenerations() *Generations {
	return &Generations{gens: make(map[string]uint64)}
}

// Next issues a ticket for key, superseding every earlier one.
func (g *Generations) Next(key string) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gens[key]++
	return Ticket{key: key, gen: g.gens[key]}
}

// Current reports whether t is still the latest ticket for its key.
func (g *Generations) Current(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gens[t.key] == t.gen
}
