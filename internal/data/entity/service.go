package entity

import (
	"github.com/google/uuid"
)

type Service struct {
	Base
	ProviderID  uuid.UUID `db:"provider_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Price       float64   `db:"price"`
	// Duration is free text ("30", "1 hour", "1h 30m"), parsed with
	// utils.ParseDuration wherever minutes are needed.
	Duration          string  `db:"duration"`
	MaxBookingsPerDay int     `db:"max_bookings_per_day"`
	BookingCount      int     `db:"booking_count"`
	RatingTotal       int     `db:"rating_total"`
	RatingAverage     float64 `db:"rating_average"`
	IsActive          bool    `db:"is_active"`
}
