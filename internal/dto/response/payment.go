package response

import (
	"time"

	"marketplace-booking/internal/data/entity"
)

type CheckoutSessionResponse struct {
	URL string `json:"url"`
}

type PaymentResponse struct {
	ID            string    `json:"id"`
	Email         *string   `json:"email,omitempty"`
	CustomerName  *string   `json:"customer_name,omitempty"`
	Amount        float64   `json:"amount"`
	TransactionID string    `json:"transaction_id"`
	ReferenceID   string    `json:"reference_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func PaymentToResponse(payment *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            payment.ID.String(),
		Email:         payment.Email,
		CustomerName:  payment.CustomerName,
		Amount:        payment.Amount,
		TransactionID: payment.TransactionID,
		ReferenceID:   payment.ReferenceID.String(),
		CreatedAt:     payment.CreatedAt,
	}
}

func PaymentsToResponse(payments []*entity.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		out = append(out, PaymentToResponse(payment))
	}
	return out
}
