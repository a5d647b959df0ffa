package entity

import (
	"github.com/google/uuid"
)

type Review struct {
	BaseSimple
	ServiceID  uuid.UUID `db:"service_id"`
	ClientID   uuid.UUID `db:"client_id"`
	BusinessID uuid.UUID `db:"business_id"`
	Rating     int       `db:"rating"` // 1-5
	Comment    *string   `db:"comment"`
}
