package entity

import (
	"github.com/google/uuid"
)

// Payment is the ledger row written when the gateway reports a completed
// checkout. TransactionID is unique, which makes webhook redelivery a no-op.
type Payment struct {
	BaseSimple
	Email         *string   `db:"email"`
	CustomerName  *string   `db:"customer_name"`
	Amount        float64   `db:"amount"`
	TransactionID string    `db:"transaction_id"`
	ReferenceID   uuid.UUID `db:"reference_id"`
}
