package domain

import "fmt"

// Immutable geographic point in decimal degrees.
type Location struct {
	Lat float64
	Lon float64
}

// Validate checks that the coordinates lie within the valid geographic range.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]: %w", l.Lat, ErrInvalidCoordinate)
	}
	if l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]: %w", l.Lon, ErrInvalidCoordinate)
	}
	return nil
}

// A single directed travel segment between two consecutive route points.
type Leg struct {
	From Location
	To   Location
}
