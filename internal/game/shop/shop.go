// Package shop implements the between-round economy: rolling unit offers from
// a finite shared pool, gold bookkeeping with interest and streaks, and
// three-of-a-kind merge upgrades. The combat engine has no knowledge of this
// package; it only ever sees the rosters the shop helped assemble.
package shop

import (
	"fmt"
	"sort"

	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/rng"
	"github.com/markjspivey-xwisee/auto-chess-v2/internal/game/unit"
)

// Player level bounds for the odds table.
const (
	MinLevel = 1
	MaxLevel = 9
)

// rollOdds is the per-level chance, in percent, of a shop slot offering each
// cost tier. Row index is level-1, column index is cost-1; every row sums to
// 100.
var rollOdds = [MaxLevel][5]int{
	{100, 0, 0, 0, 0},
	{100, 0, 0, 0, 0},
	{75, 25, 0, 0, 0},
	{55, 30, 15, 0, 0},
	{45, 33, 20, 2, 0},
	{30, 40, 25, 5, 0},
	{19, 35, 35, 10, 1},
	{18, 25, 36, 18, 3},
	{10, 20, 25, 35, 10},
}

// poolSizeByCost is how many copies of each template the shared pool holds.
// Cheap units are plentiful so multiple players can chase the same merge;
// five-cost units are scarce.
var poolSizeByCost = map[int]int{1: 29, 2: 22, 3: 18, 4: 12, 5: 10}

// Shop draws unit offers from a finite shared pool.
//
// A Shop is not safe for concurrent use.
type Shop struct {
	registry *unit.Registry
	src      rng.Source
	// remaining copies per template ID. Purchases decrement, sells increment.
	pool map[string]int
	// byCost caches template IDs per cost tier, sorted for deterministic
	// draws under a seeded source.
	byCost map[int][]string
}

// NewShop builds a Shop over the given template registry with a full pool.
//
// Precondition: registry and src must be non-nil.
func NewShop(registry *unit.Registry, src rng.Source) (*Shop, error) {
	if registry == nil {
		return nil, fmt.Errorf("shop: registry must not be nil")
	}
	if src == nil {
		return nil, fmt.Errorf("shop: randomness source must not be nil")
	}
	s := &Shop{
		registry: registry,
		src:      src,
		pool:     make(map[string]int),
		byCost:   make(map[int][]string),
	}
	for _, tmpl := range registry.All() {
		s.pool[tmpl.ID] = poolSizeByCost[tmpl.Cost]
		s.byCost[tmpl.Cost] = append(s.byCost[tmpl.Cost], tmpl.ID)
	}
	for cost := range s.byCost {
		sort.Strings(s.byCost[cost])
	}
	return s, nil
}

// Roll draws n shop offers for a player of the given level. Each slot rolls a
// cost tier from the level's odds row, then picks uniformly among that tier's
// templates with pool copies remaining. A tier with nothing left falls through
// to the next cheaper tier; a fully drained pool yields fewer than n offers.
//
// Rolling does not reserve copies; only Take removes them from the pool, so an
// offer can go stale if another purchase drains the template first.
//
// Precondition: level must be within [MinLevel, MaxLevel] and n >= 0.
func (s *Shop) Roll(level, n int) ([]*unit.Template, error) {
	if level < MinLevel || level > MaxLevel {
		return nil, fmt.Errorf("shop: level %d outside [%d, %d]", level, MinLevel, MaxLevel)
	}
	odds := rollOdds[level-1]

	offers := make([]*unit.Template, 0, n)
	for i := 0; i < n; i++ {
		cost := s.rollCost(odds)
		id, ok := s.pickAvailable(cost)
		if !ok {
			continue
		}
		tmpl, err := s.registry.Get(id)
		if err != nil {
			return nil, err
		}
		offers = append(offers, tmpl)
	}
	return offers, nil
}

// rollCost maps one percent roll onto a cost tier via the cumulative odds row.
func (s *Shop) rollCost(odds [5]int) int {
	roll := rng.Percent(s.src)
	acc := 0
	for i, chance := range odds {
		acc += chance
		if roll < acc {
			return i + 1
		}
	}
	return 1
}

// pickAvailable picks a uniform random template of the given cost with pool
// copies left, falling through to cheaper tiers when the requested tier is
// drained.
func (s *Shop) pickAvailable(cost int) (string, bool) {
	for c := cost; c >= 1; c-- {
		var candidates []string
		for _, id := range s.byCost[c] {
			if s.pool[id] > 0 {
				candidates = append(candidates, id)
			}
		}
		if len(candidates) > 0 {
			return candidates[s.src.Intn(len(candidates))], true
		}
	}
	return "", false
}

// Remaining returns the pool copies left for a template ID.
func (s *Shop) Remaining(id string) int { return s.pool[id] }

// Take removes one copy of the template from the pool, as happens on purchase.
//
// Postcondition: Returns an error if no copies remain; the pool never goes
// negative.
func (s *Shop) Take(id string) error {
	if s.pool[id] <= 0 {
		return fmt.Errorf("shop: no copies of %q left in the pool", id)
	}
	s.pool[id]--
	return nil
}

// Release returns copies of the template to the pool, as happens on sell. A
// sold 2-star unit releases the three 1-star copies that built it.
func (s *Shop) Release(id string, copies int) {
	if copies <= 0 {
		return
	}
	s.pool[id] += copies
}
