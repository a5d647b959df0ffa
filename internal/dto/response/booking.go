package response

import (
	"time"

	"marketplace-booking/internal/data/entity"
)

type BookingResponse struct {
	ID            string                `json:"id"`
	UserID        string                `json:"user_id"`
	ProviderID    string                `json:"provider_id"`
	ServiceID     string                `json:"service_id"`
	ServiceName   string                `json:"service_name,omitempty"`
	Date          string                `json:"date"`
	StartTime     string                `json:"start_time"`
	EndTime       string                `json:"end_time"`
	Status        entity.BookingStatus  `json:"status"`
	PaymentStatus entity.PaymentStatus  `json:"payment_status"`
	PaymentMethod entity.PaymentMethod  `json:"payment_method"`
	TotalAmount   float64               `json:"total_amount"`
	Reason        *string               `json:"reason,omitempty"`
	Notes         *string               `json:"notes,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            booking.ID.String(),
		UserID:        booking.UserID.String(),
		ProviderID:    booking.ProviderID.String(),
		ServiceID:     booking.ServiceID.String(),
		Date:          booking.Date,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		PaymentMethod: booking.PaymentMethod,
		TotalAmount:   booking.TotalAmount,
		Reason:        booking.Reason,
		Notes:         booking.Notes,
		CreatedAt:     booking.CreatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		out = append(out, BookingToResponse(booking))
	}
	return out
}
