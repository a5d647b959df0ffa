package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusRegistered BookingStatus = "registered"
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusAwaitingCash marks hand-cash bookings waiting for payment
	// on site. Kept separate from failed so a genuine gateway failure is
	// never confused with a cash booking.
	PaymentStatusAwaitingCash PaymentStatus = "awaiting_cash"
	PaymentStatusPaid         PaymentStatus = "paid"
	PaymentStatusFailed       PaymentStatus = "failed"
	PaymentStatusRefunded     PaymentStatus = "refunded"
)

type PaymentMethod string

const (
	PaymentMethodHandCash PaymentMethod = "handCash"
	PaymentMethodOnline   PaymentMethod = "online"
)

type Booking struct {
	Base
	UserID     uuid.UUID `db:"user_id"`
	ProviderID uuid.UUID `db:"provider_id"`
	ServiceID  uuid.UUID `db:"service_id"`

	// Date is a calendar day "YYYY-MM-DD"; StartTime and EndTime are 24-hour
	// "HH:mm" clocks.
	Date      string `db:"date"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`

	Status        BookingStatus `db:"status"`
	PaymentStatus PaymentStatus `db:"payment_status"`
	PaymentMethod PaymentMethod `db:"payment_method"`

	// TotalAmount is copied from the service price at creation time and never
	// changes afterwards.
	TotalAmount float64 `db:"total_amount"`
	// StripeFeeAmount is the gateway fee in minor units, filled lazily once
	// known.
	StripeFeeAmount int64 `db:"stripe_fee_amount"`
	// IsTransferred flips false->true exactly once when the payout is issued.
	IsTransferred bool    `db:"is_transferred"`
	TransactionID *string `db:"transaction_id"`
	Reason        *string `db:"reason"`
	Notes         *string `db:"notes"`
}
