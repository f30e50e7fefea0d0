package domain

import "time"

// Fuel grades sold at stations.
type FuelType string

const (
	FuelRegular  FuelType = "regular"
	FuelMidgrade FuelType = "midgrade"
	FuelPremium  FuelType = "premium"
	FuelDiesel   FuelType = "diesel"
	FuelE85      FuelType = "e85"
)

func (f FuelType) Valid() bool {
	switch f {
	case FuelRegular, FuelMidgrade, FuelPremium, FuelDiesel, FuelE85:
		return true
	}
	return false
}

// A gas station as stored by the service, with its current per-fuel-type
// prices attached.
type Station struct {
	ID                  int
	Name                string
	Brand               string
	Address             string
	City                string
	State               string
	ZipCode             string
	Location            Location
	HasCarWash          bool
	HasConvenienceStore bool
	HasRestrooms        bool
	AverageRating       *float64
	TotalRatings        int
	IsActive            bool
	Prices              map[FuelType]FuelPrice
}

// Current price for one fuel type at one station.
type FuelPrice struct {
	FuelType       FuelType
	PricePerGallon float64
	PriceDate      time.Time
	Source         string
	Verified       bool
}

// A station supplied to the route optimizer as input. Never mutated by the
// optimizer. FuelTypesNeeded carries the caller's per-stop fuel requirement;
// empty means any fuel type the station sells is acceptable.
type StationCandidate struct {
	ID              int
	Location        Location
	Prices          map[FuelType]float64
	FuelTypesNeeded []FuelType
}

// CheapestNeededPrice returns the lowest price among the fuel types the stop
// requires, considering only types this station actually sells. The second
// return is false when the station carries none of the needed types.
func (c StationCandidate) CheapestNeededPrice() (FuelType, float64, bool) {
	needed := c.FuelTypesNeeded
	if len(needed) == 0 {
		needed = make([]FuelType, 0, len(c.Prices))
		for ft := range c.Prices {
			needed = append(needed, ft)
		}
	}

	found := false
	var bestType FuelType
	var bestPrice float64
	for _, ft := range needed {
		price, ok := c.Prices[ft]
		if !ok {
			continue
		}
		if !found || price < bestPrice || (price == bestPrice && ft < bestType) {
			found = true
			bestType = ft
			bestPrice = price
		}
	}
	return bestType, bestPrice, found
}

// A station rating submitted by a user. Category scores are optional.
type StationRating struct {
	ID             int
	StationID      int
	UserID         int
	Rating         int
	Review         *string
	FuelQuality    *int
	ServiceQuality *int
	Cleanliness    *int
	PriceRating    *int
	CreatedAt      time.Time
}
