package domain

import "fmt"

// Vehicle fuel state simulated by the optimizer as it "drives" candidate
// orderings. Values are passed by value through the search: each branch owns
// its own snapshot, so backtracking and parallel restarts never share state.
type VehicleState struct {
	MPG          float64
	TankCapacity float64
	FuelLevel    float64
}

func (v VehicleState) Validate() error {
	if v.MPG < 0 || v.TankCapacity < 0 || v.FuelLevel < 0 {
		return fmt.Errorf("vehicle parameters must be non-negative: %w", ErrInvalidRouteRequest)
	}
	if v.FuelLevel > v.TankCapacity {
		return fmt.Errorf("fuel level %v exceeds tank capacity %v: %w",
			v.FuelLevel, v.TankCapacity, ErrInvalidRouteRequest)
	}
	return nil
}

// RangeRemaining is the distance in miles drivable on the current fuel.
func (v VehicleState) RangeRemaining() float64 {
	return v.FuelLevel * v.MPG
}

// CanTraverse reports whether a leg of the given length is drivable without
// refueling. It is the guard for Consume.
func (v VehicleState) CanTraverse(miles float64) bool {
	return miles <= v.RangeRemaining()
}

// Consume returns the state after driving the given distance. Callers must
// check CanTraverse first; a negative fuel result is ErrFuelExhausted.
func (v VehicleState) Consume(miles float64) (VehicleState, error) {
	if miles <= 0 {
		return v, nil
	}
	if v.MPG <= 0 {
		return v, fmt.Errorf("consume %v miles with zero economy: %w", miles, ErrFuelExhausted)
	}

	gallons := miles / v.MPG
	if gallons > v.FuelLevel {
		return v, fmt.Errorf("consume %v miles needs %.3f gal, have %.3f: %w",
			miles, gallons, v.FuelLevel, ErrFuelExhausted)
	}

	v.FuelLevel -= gallons
	return v, nil
}

// Refuel returns the state after adding the given gallons, capped at tank
// capacity. The overflow beyond capacity is reported, not an error: the
// caller decides how much to buy.
func (v VehicleState) Refuel(gallons float64) (VehicleState, float64) {
	if gallons <= 0 {
		return v, 0
	}

	room := v.TankCapacity - v.FuelLevel
	if gallons <= room {
		v.FuelLevel += gallons
		return v, 0
	}

	v.FuelLevel = v.TankCapacity
	return v, gallons - room
}
