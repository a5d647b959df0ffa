package request

type CreateCheckoutSessionRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid4"`
}
