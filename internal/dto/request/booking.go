package request

type CreateBookingRequest struct {
	ServiceID     string  `json:"serviceId" validate:"required,uuid4"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime     string  `json:"startTime" validate:"required"`
	EndTime       string  `json:"endTime" validate:"required"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,oneof=handCash online"`
	Notes         *string `json:"notes,omitempty"`
}

type UpdateBookingStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	Reason *string `json:"reason,omitempty"`
}
