package entity

import (
	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeClient   NotificationType = "client"
	NotificationTypeBusiness NotificationType = "business"
	NotificationTypeAdmin    NotificationType = "admin"
)

type Notification struct {
	BaseSimple
	ReceiverID  uuid.UUID        `db:"receiver_id"`
	Title       string           `db:"title"`
	Message     string           `db:"message"`
	Type        NotificationType `db:"type"`
	ReferenceID *uuid.UUID       `db:"reference_id"`
	Read        bool             `db:"read"`
}
