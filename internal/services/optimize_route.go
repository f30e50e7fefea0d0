package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"fuelroute-service/internal/domain"
	"fuelroute-service/internal/geo"
)

// Relative tolerance for treating two ordering costs as equal. Ties break
// toward the ordering visiting stations in ascending ID order, which keeps
// output deterministic for identical inputs.
const costRelEpsilon = 1e-6

// Secondary per-mile cost under the price criterion. Small enough that any
// real price difference dominates; it only orders equally-priced routes by
// distance.
const pricePerMileTieBreak = 1e-5

// Penalty per fuel-infeasible leg used by the heuristic search so that
// repairs still have a gradient to follow.
const infeasibleLegPenalty = 1e9

// Tuning knobs for the optimizer. The zero value selects the defaults.
type OptimizeConfig struct {
	// Cruising speed assumed when converting distance to base travel time.
	AssumedSpeedMph float64
	// Maximum candidate count for exact search; larger inputs go straight
	// to the heuristic path.
	ExactLimit int
	// Wall-clock budget for the exact search. On exhaustion the optimizer
	// silently falls back to the heuristic path.
	ExactBudget time.Duration
	// Node budget for the exact search, same fallback semantics.
	ExactMaxNodes int
	// Number of independent heuristic restarts (run concurrently).
	HeuristicRestarts int
	// Extra gallons bought beyond the next leg's need when estimating a
	// fuel purchase.
	SafetyMarginGallons float64
}

func (c OptimizeConfig) withDefaults() OptimizeConfig {
	if c.AssumedSpeedMph <= 0 {
		c.AssumedSpeedMph = geo.DefaultSpeedMph
	}
	if c.ExactLimit <= 0 {
		c.ExactLimit = 10
	}
	if c.ExactBudget <= 0 {
		c.ExactBudget = 500 * time.Millisecond
	}
	if c.ExactMaxNodes <= 0 {
		c.ExactMaxNodes = 2_000_000
	}
	if c.HeuristicRestarts <= 0 {
		c.HeuristicRestarts = 4
	}
	if c.SafetyMarginGallons <= 0 {
		c.SafetyMarginGallons = 2.0
	}
	return c
}

// A route optimization call. Stations are never mutated; the optimizer works
// on its own indexed copies. Nil Vehicle means unconstrained routing, nil
// DepartAt means "now".
type OptimizeRouteRequest struct {
	Start      domain.Location
	End        *domain.Location
	Stations   []domain.StationCandidate
	Criterion  domain.OptimizationCriterion
	Vehicle    *domain.VehicleState
	DepartAt   *time.Time
	Conditions []domain.TrafficCondition
}

// OptimizeRoute orders the candidate stations between start and optional end
// to minimize the chosen criterion, subject to fuel feasibility, and returns
// the assembled plan.
//
// Small candidate sets are solved exactly (depth-first search with running
// cost pruning); larger sets, or an exact search that exhausts its budget,
// use nearest-insertion construction with 2-opt improvement across several
// concurrent restarts.
func OptimizeRoute(ctx context.Context, req OptimizeRouteRequest, cfg OptimizeConfig) (*domain.RoutePlan, error) {
	cfg = cfg.withDefaults()

	switch req.Criterion {
	case domain.OptimizeDistance, domain.OptimizeTime, domain.OptimizePrice:
	default:
		return nil, fmt.Errorf("optimize route: unrecognized criterion %q: %w",
			req.Criterion, domain.ErrInvalidRouteRequest)
	}

	if err := req.Start.Validate(); err != nil {
		return nil, fmt.Errorf("optimize route: start: %w", err)
	}
	if req.End != nil {
		if err := req.End.Validate(); err != nil {
			return nil, fmt.Errorf("optimize route: end: %w", err)
		}
	}
	for _, s := range req.Stations {
		if err := s.Location.Validate(); err != nil {
			return nil, fmt.Errorf("optimize route: station %d: %w", s.ID, err)
		}
	}
	if req.Vehicle != nil {
		if err := req.Vehicle.Validate(); err != nil {
			return nil, fmt.Errorf("optimize route: vehicle: %w", err)
		}
	}

	if len(req.Stations) == 0 && req.End == nil {
		return nil, fmt.Errorf("optimize route: no stations and no end location: %w",
			domain.ErrInvalidRouteRequest)
	}

	p := newPlanner(req, cfg)

	// Zero candidates with an end location is a plain direct leg, not an error.
	if p.n == 0 {
		res, ok := p.evaluate(nil, false)
		if !ok {
			return nil, fmt.Errorf("optimize route: direct leg: %w", domain.ErrNoFeasibleRoute)
		}
		return p.assemblePlan(res), nil
	}

	var (
		res walkResult
		err error
	)
	if p.n <= cfg.ExactLimit {
		var exhausted bool
		res, exhausted, err = p.searchExact(ctx)
		if exhausted {
			// Budget ran out: documented fallback, never surfaced as a failure.
			res, err = p.searchHeuristic(ctx)
		}
	} else {
		res, err = p.searchHeuristic(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	return p.assemblePlan(res), nil
}

// planner holds the per-call indexed view of the request: point 0 is the
// start, points 1..n are stations, point n+1 (when present) is the end.
// Distances are precomputed so permutation search never recomputes haversine.
type planner struct {
	req    OptimizeRouteRequest
	cfg    OptimizeConfig
	pts    []domain.Location
	dist   [][]float64
	n      int
	endIdx int // -1 when no end location
	depart time.Time
}

func newPlanner(req OptimizeRouteRequest, cfg OptimizeConfig) *planner {
	n := len(req.Stations)
	pts := make([]domain.Location, 0, n+2)
	pts = append(pts, req.Start)
	for _, s := range req.Stations {
		pts = append(pts, s.Location)
	}
	endIdx := -1
	if req.End != nil {
		endIdx = len(pts)
		pts = append(pts, *req.End)
	}

	dist := make([][]float64, len(pts))
	for i := range pts {
		dist[i] = make([]float64, len(pts))
		for j := range pts {
			if i < j {
				continue
			}
			d := geo.Miles(pts[i], pts[j])
			dist[i][j] = d
		}
	}
	// Mirror the lower triangle; haversine is symmetric.
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			dist[i][j] = dist[j][i]
		}
	}

	depart := time.Now()
	if req.DepartAt != nil {
		depart = *req.DepartAt
	}

	return &planner{
		req:    req,
		cfg:    cfg,
		pts:    pts,
		dist:   dist,
		n:      n,
		endIdx: endIdx,
		depart: depart,
	}
}

// Running state of one simulated drive along a candidate ordering. Copied by
// value between search branches; never shared.
type walkState struct {
	cur         int
	at          time.Time
	vehicle     domain.VehicleState
	constrained bool
	cost        float64
	miles       float64
	minutes     float64
	fuelCost    float64
	violations  int
}

func (p *planner) initialWalk() walkState {
	ws := walkState{cur: 0, at: p.depart}
	if p.req.Vehicle != nil {
		ws.constrained = true
		ws.vehicle = *p.req.Vehicle
	}
	return ws
}

// One planned visit produced while walking an ordering.
type stopVisit struct {
	station   int // index into req.Stations
	miles     float64
	travelMin float64
	arrive    time.Time
	fuelType  domain.FuelType
	gallons   float64
	dollars   float64
}

// A fuel purchase made at the origin point of a leg, sized for that leg.
type legPurchase struct {
	fuelType domain.FuelType
	gallons  float64
	dollars  float64
}

// step advances the walk across the leg cur -> target. If the walk currently
// sits at a station, a fuel purchase sized for this leg (plus the safety
// margin, capped at tank capacity) happens before departing. With relax set,
// fuel-infeasible legs are recorded as violations and driven on an empty
// tank instead of aborting; the exact search always runs strict.
func (p *planner) step(ws walkState, target int, relax bool) (walkState, legPurchase, bool) {
	miles := p.dist[ws.cur][target]
	var purchase legPurchase

	if ws.constrained {
		if ws.cur >= 1 && ws.cur <= p.n {
			station := p.req.Stations[ws.cur-1]
			ft, price, sells := station.CheapestNeededPrice()
			if sells && ws.vehicle.MPG > 0 {
				legGallons := miles / ws.vehicle.MPG
				desired := legGallons + p.cfg.SafetyMarginGallons - ws.vehicle.FuelLevel
				if desired > 0 {
					refueled, overflow := ws.vehicle.Refuel(desired)
					bought := desired - overflow
					if bought > 0 {
						ws.vehicle = refueled
						purchase = legPurchase{fuelType: ft, gallons: bought, dollars: bought * price}
						ws.fuelCost += purchase.dollars
						if p.req.Criterion == domain.OptimizePrice {
							ws.cost += purchase.dollars
						}
					}
				}
			}
		}

		if !ws.vehicle.CanTraverse(miles) {
			if !relax {
				return ws, purchase, false
			}
			ws.violations++
			ws.cost += infeasibleLegPenalty
			ws.vehicle.FuelLevel = 0
		} else {
			consumed, err := ws.vehicle.Consume(miles)
			if err != nil {
				// CanTraverse guards Consume; reaching this is a bug.
				return ws, purchase, false
			}
			ws.vehicle = consumed
		}
	}

	baseMin := geo.BaseTravelMinutes(miles, p.cfg.AssumedSpeedMph)
	mult := EffectiveMultiplier(
		domain.Leg{From: p.pts[ws.cur], To: p.pts[target]},
		ws.at,
		p.req.Conditions,
	)
	travelMin := baseMin * mult

	ws.at = ws.at.Add(time.Duration(travelMin * float64(time.Minute)))
	ws.miles += miles
	ws.minutes += travelMin

	switch p.req.Criterion {
	case domain.OptimizeDistance:
		ws.cost += miles
	case domain.OptimizeTime:
		ws.cost += travelMin
	case domain.OptimizePrice:
		ws.cost += miles * pricePerMileTieBreak
	}

	ws.cur = target
	return ws, purchase, true
}

// Full metrics of one walked ordering.
type walkResult struct {
	ordering   []int
	cost       float64
	miles      float64
	minutes    float64
	fuelCost   float64
	stops      []stopVisit
	violations int
}

// evaluate walks a complete ordering (station indices into req.Stations) and
// the final end leg, producing per-stop records and totals. ok is false when
// a leg is fuel-infeasible and relax is not set.
func (p *planner) evaluate(ordering []int, relax bool) (walkResult, bool) {
	ws := p.initialWalk()
	stops := make([]stopVisit, 0, len(ordering))

	attach := func(purchase legPurchase) {
		// A purchase belongs to the station the walk just departed, which
		// is the most recently recorded stop.
		if purchase.gallons > 0 && len(stops) > 0 {
			last := &stops[len(stops)-1]
			last.fuelType = purchase.fuelType
			last.gallons = purchase.gallons
			last.dollars = purchase.dollars
		}
	}

	for _, si := range ordering {
		prevMiles, prevMinutes := ws.miles, ws.minutes
		next, purchase, ok := p.step(ws, si+1, relax)
		if !ok {
			return walkResult{}, false
		}
		attach(purchase)
		ws = next
		stops = append(stops, stopVisit{
			station:   si,
			miles:     ws.miles - prevMiles,
			travelMin: ws.minutes - prevMinutes,
			arrive:    ws.at,
		})
	}

	if p.endIdx >= 0 {
		next, purchase, ok := p.step(ws, p.endIdx, relax)
		if !ok {
			return walkResult{}, false
		}
		attach(purchase)
		ws = next
	}

	return walkResult{
		ordering:   append([]int(nil), ordering...),
		cost:       ws.cost,
		miles:      ws.miles,
		minutes:    ws.minutes,
		fuelCost:   ws.fuelCost,
		stops:      stops,
		violations: ws.violations,
	}, true
}

// costsEqual treats costs within a small relative epsilon as tied.
func costsEqual(a, b float64) bool {
	return math.Abs(a-b) <= costRelEpsilon*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// idOrderLess compares two orderings by their station-ID visit sequence.
// Used as the deterministic tie-break between equal-cost orderings.
func (p *planner) idOrderLess(a, b []int) bool {
	for i := range a {
		if i >= len(b) {
			return false
		}
		idA := p.req.Stations[a[i]].ID
		idB := p.req.Stations[b[i]].ID
		if idA != idB {
			return idA < idB
		}
	}
	return len(a) < len(b)
}

// betterResult reports whether candidate should replace current as the best
// known result, applying the cost epsilon and ID-order tie-break.
func (p *planner) betterResult(candidate, current walkResult, haveCurrent bool) bool {
	if !haveCurrent {
		return true
	}
	if candidate.violations != current.violations {
		return candidate.violations < current.violations
	}
	if costsEqual(candidate.cost, current.cost) {
		return p.idOrderLess(candidate.ordering, current.ordering)
	}
	return candidate.cost < current.cost
}
