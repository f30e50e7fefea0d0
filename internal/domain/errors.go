package domain

import "errors"

// Failure taxonomy for route optimization. These are returned typed from the
// optimizer and mapped to user-facing responses by the API layer.
var (
	// A latitude outside [-90, 90] or a longitude outside [-180, 180].
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// A request the optimizer cannot act on: no stations and no end
	// location, an unrecognized optimization criterion, or malformed
	// vehicle parameters.
	ErrInvalidRouteRequest = errors.New("invalid route request")

	// The supplied vehicle constraints leave no drivable stop ordering.
	ErrNoFeasibleRoute = errors.New("no feasible route")

	// A leg was consumed without a prior CanTraverse check. Indicates a
	// programming error in the caller, not a user-facing condition.
	ErrFuelExhausted = errors.New("fuel exhausted")

	// Lookup of a persisted route that does not exist.
	ErrRouteNotFound = errors.New("route not found")

	// Lookup of a station that does not exist or is inactive.
	ErrStationNotFound = errors.New("station not found")
)
