package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"fuelroute-service/internal/domain"
)

// Upper bound on full 2-opt improvement passes per restart. Each pass only
// runs when the previous one improved, so this rarely binds.
const maxTwoOptPasses = 50

// searchHeuristic runs several independent nearest-insertion + 2-opt restarts
// concurrently and keeps the best result. Each restart owns its ordering and
// vehicle-state snapshots, so the only shared step is the final reduce, which
// scans restart results in a fixed order for determinism.
func (p *planner) searchHeuristic(ctx context.Context) (walkResult, error) {
	restarts := p.cfg.HeuristicRestarts
	if restarts > p.n {
		restarts = p.n
	}

	results := make([]walkResult, restarts)
	oks := make([]bool, restarts)

	g, gctx := errgroup.WithContext(ctx)
	for seed := 0; seed < restarts; seed++ {
		seed := seed
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[seed], oks[seed] = p.restart(seed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return walkResult{}, fmt.Errorf("heuristic search: %w", err)
	}

	var best walkResult
	haveBest := false
	for seed := 0; seed < restarts; seed++ {
		if !oks[seed] {
			continue
		}
		if p.betterResult(results[seed], best, haveBest) {
			best = results[seed]
			haveBest = true
		}
	}

	if !haveBest || best.violations > 0 {
		return walkResult{}, fmt.Errorf(
			"heuristic search over %d stations: %w", p.n, domain.ErrNoFeasibleRoute)
	}
	return best, nil
}

// restart builds one tour seeded from a different first station and improves
// it with 2-opt. Runs in relaxed mode so infeasible constructions can still
// be repaired by later moves.
func (p *planner) restart(seed int) (walkResult, bool) {
	ordering := p.nearestInsertion(seed)
	res, ok := p.evaluate(ordering, true)
	if !ok {
		return walkResult{}, false
	}

	for pass := 0; pass < maxTwoOptPasses; pass++ {
		improved := false
		for i := 0; i < len(ordering)-1; i++ {
			for j := i + 1; j < len(ordering); j++ {
				reverse(ordering, i, j)
				candidate, okc := p.evaluate(ordering, true)
				if okc && p.betterResult(candidate, res, true) {
					res = candidate
					improved = true
				} else {
					reverse(ordering, i, j) // undo
				}
			}
		}
		if !improved {
			break
		}
	}

	return res, true
}

// nearestInsertion grows a tour by repeatedly taking the unvisited station
// closest to the tour and inserting it where it lengthens the path least.
// Index-order tie-breaks keep construction deterministic.
func (p *planner) nearestInsertion(seed int) []int {
	tour := []int{seed}
	inTour := make([]bool, p.n)
	inTour[seed] = true

	for len(tour) < p.n {
		bestStation := -1
		bestDist := 0.0
		for si := 0; si < p.n; si++ {
			if inTour[si] {
				continue
			}
			// Closest approach to any point already on the tour.
			d := p.dist[0][si+1]
			for _, t := range tour {
				if dt := p.dist[t+1][si+1]; dt < d {
					d = dt
				}
			}
			if bestStation < 0 || d < bestDist {
				bestStation = si
				bestDist = d
			}
		}

		bestPos := 0
		bestDelta := 0.0
		for pos := 0; pos <= len(tour); pos++ {
			delta := p.insertionDelta(tour, bestStation, pos)
			if pos == 0 || delta < bestDelta {
				bestPos = pos
				bestDelta = delta
			}
		}

		tour = append(tour, 0)
		copy(tour[bestPos+1:], tour[bestPos:])
		tour[bestPos] = bestStation
		inTour[bestStation] = true
	}

	return tour
}

// insertionDelta is the path-length increase from inserting station si at
// position pos of the tour (0 = directly after the start point).
func (p *planner) insertionDelta(tour []int, si, pos int) float64 {
	prev := 0 // start point
	if pos > 0 {
		prev = tour[pos-1] + 1
	}

	next := -1
	if pos < len(tour) {
		next = tour[pos] + 1
	} else if p.endIdx >= 0 {
		next = p.endIdx
	}

	cand := si + 1
	if next < 0 {
		return p.dist[prev][cand]
	}
	return p.dist[prev][cand] + p.dist[cand][next] - p.dist[prev][next]
}

func reverse(s []int, i, j int) {
	for i < j {
		s[i], s[j] = s[j], s[i]
		i++
		j--
	}
}
