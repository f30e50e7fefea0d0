package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"fuelroute-service/internal/domain"
)

// How many nodes the exact search expands between budget checks.
const budgetCheckInterval = 2048

// searchExact enumerates open-path orderings depth-first with running-cost
// pruning. It is complete: if it finishes within budget and finds no feasible
// ordering under a supplied vehicle, no feasible ordering exists.
//
// exhausted reports that the time or node budget ran out before the search
// completed; the caller then falls back to the heuristic path.
func (p *planner) searchExact(ctx context.Context) (res walkResult, exhausted bool, err error) {
	s := &exactSearcher{
		p:        p,
		deadline: time.Now().Add(p.cfg.ExactBudget),
		path:     make([]int, 0, p.n),
		visited:  make([]bool, p.n),
	}

	s.walk(ctx, p.initialWalk())

	if s.exhausted {
		return walkResult{}, true, nil
	}
	if !s.haveBest {
		// The search completed: with a vehicle supplied this is proof of
		// infeasibility, not a partial-search guess.
		return walkResult{}, false, fmt.Errorf(
			"exact search over %d stations: %w", p.n, domain.ErrNoFeasibleRoute)
	}
	return s.best, false, nil
}

type exactSearcher struct {
	p         *planner
	deadline  time.Time
	nodes     int
	exhausted bool

	path    []int
	visited []bool

	best     walkResult
	haveBest bool
}

func (s *exactSearcher) overBudget(ctx context.Context) bool {
	s.nodes++
	if s.nodes%budgetCheckInterval == 0 {
		if time.Now().After(s.deadline) || ctx.Err() != nil {
			s.exhausted = true
		}
	}
	if s.nodes > s.p.cfg.ExactMaxNodes {
		s.exhausted = true
	}
	return s.exhausted
}

func (s *exactSearcher) walk(ctx context.Context, ws walkState) {
	if s.overBudget(ctx) {
		return
	}

	if len(s.path) == s.p.n {
		final := ws
		if s.p.endIdx >= 0 {
			next, _, ok := s.p.step(final, s.p.endIdx, false)
			if !ok {
				return
			}
			final = next
		}
		candidate := walkResult{ordering: append([]int(nil), s.path...), cost: final.cost}
		if s.p.betterResult(candidate, s.best, s.haveBest) {
			// Rebuild the full record set only for accepted candidates.
			full, ok := s.p.evaluate(s.path, false)
			if ok {
				s.best = full
				s.haveBest = true
			}
		}
		return
	}

	for si := 0; si < s.p.n; si++ {
		if s.visited[si] {
			continue
		}

		next, _, ok := s.p.step(ws, si+1, false)
		if !ok {
			continue // fuel-infeasible branch, rejected outright
		}
		// Leg costs are non-negative, so a partial path already beyond the
		// best-known cost cannot win even on the tie-break.
		if s.haveBest && next.cost > s.best.cost+costRelEpsilon*math.Max(1, s.best.cost) {
			continue
		}

		s.visited[si] = true
		s.path = append(s.path, si)
		s.walk(ctx, next)
		s.path = s.path[:len(s.path)-1]
		s.visited[si] = false

		if s.exhausted {
			return
		}
	}
}
