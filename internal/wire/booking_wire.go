package wire

import (
	"marketplace-booking/internal/adaptor"
	"marketplace-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(log))

		// POST /api/bookings - Request a slot
		r.Post("/api/bookings", bookingHandler.CreateBooking)

		// GET /api/bookings - List bookings scoped by role
		r.Get("/api/bookings", bookingHandler.GetBookings)

		// GET /api/bookings/{id} - Booking details
		r.Get("/api/bookings/{id}", bookingHandler.GetBookingByID)

		// PATCH /api/bookings/{id}/status - Drive the status machine
		r.Patch("/api/bookings/{id}/status", bookingHandler.UpdateBookingStatus)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.Auth(log))
		r.Use(middleware.Admin())

		// DELETE /api/admin/bookings/{id} - Hard delete, bypasses the status machine
		r.Delete("/{id}", bookingHandler.DeleteBooking)
	})
}
