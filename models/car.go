package models

import "time"

// Car represents a rentable vehicle in the catalog.
//
// IsAvailable is a coarse per-car flag, not a per-date-range ledger: two
// overlapping bookings for the same car can both observe it as true. See the
// availability service for the consequences.
type Car struct {
	ID          string    `bson:"id" json:"id"`
	Make        string    `bson:"make" json:"make"`
	Model       string    `bson:"model" json:"model"`
	Year        int       `bson:"year" json:"year"`
	PricePerDay float64   `bson:"price_per_day" json:"pricePerDay"`
	IsAvailable bool      `bson:"is_available" json:"isAvailable"`
	Image       string    `bson:"image,omitempty" json:"image,omitempty"`
	Features    []string  `bson:"features,omitempty" json:"features,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// CarSummary is the slimmed-down car projection embedded in availability
// result events.
type CarSummary struct {
	ID          string  `json:"id"`
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	PricePerDay float64 `json:"pricePerDay"`
}

// Summary returns the event-facing projection of the car.
func (c *Car) Summary() CarSummary {
	return CarSummary{
		ID:          c.ID,
		Make:        c.Make,
		Model:       c.Model,
		PricePerDay: c.PricePerDay,
	}
}
