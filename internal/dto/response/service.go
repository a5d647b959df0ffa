package response

import (
	"time"

	"marketplace-booking/internal/data/entity"
)

type ServiceResponse struct {
	ID                string    `json:"id"`
	ProviderID        string    `json:"provider_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Price             float64   `json:"price"`
	Duration          string    `json:"duration"`
	MaxBookingsPerDay int       `json:"max_bookings_per_day"`
	BookingCount      int       `json:"booking_count"`
	RatingTotal       int       `json:"rating_total"`
	RatingAverage     float64   `json:"rating_average"`
	IsActive          bool      `json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
}

func ServiceToResponse(service *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:                service.ID.String(),
		ProviderID:        service.ProviderID.String(),
		Name:              service.Name,
		Description:       service.Description,
		Price:             service.Price,
		Duration:          service.Duration,
		MaxBookingsPerDay: service.MaxBookingsPerDay,
		BookingCount:      service.BookingCount,
		RatingTotal:       service.RatingTotal,
		RatingAverage:     service.RatingAverage,
		IsActive:          service.IsActive,
		CreatedAt:         service.CreatedAt,
	}
}

func ServicesToResponse(services []*entity.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for _, service := range services {
		out = append(out, ServiceToResponse(service))
	}
	return out
}
