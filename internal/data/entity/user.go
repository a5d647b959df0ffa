package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleClient   = "client"
	RoleBusiness = "business"
	RoleAdmin    = "admin"
)

type DayHours struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// BusinessHours maps lowercase weekday names ("monday"..."sunday") to opening
// hours. A missing day, or a "00:00"-"00:00" entry, means closed.
type BusinessHours map[string]DayHours

// Open returns the schedule for a weekday. ok is false when the day is absent
// or uses the 00:00-00:00 closed convention.
func (bh BusinessHours) Open(day string) (DayHours, bool) {
	hours, exists := bh[strings.ToLower(day)]
	if !exists {
		return DayHours{}, false
	}
	if hours.From == hours.To && hours.From == "00:00" {
		return DayHours{}, false
	}
	return hours, true
}

// BusinessProfile is the provider-side sub-record of a user: payout account
// and weekly opening hours.
type BusinessProfile struct {
	UserID                    uuid.UUID     `db:"user_id"`
	StripeAccountID           *string       `db:"stripe_account_id"`
	StripeOnboardingCompleted bool          `db:"stripe_onboarding_completed"`
	BusinessHours             BusinessHours `db:"business_hours"`
	UpdatedAt                 time.Time     `db:"updated_at"`
}
