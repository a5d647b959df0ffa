package response

import (
	"time"

	"marketplace-booking/internal/data/entity"
)

type NotificationResponse struct {
	ID          string                  `json:"id"`
	Title       string                  `json:"title"`
	Message     string                  `json:"message"`
	Type        entity.NotificationType `json:"type"`
	ReferenceID *string                 `json:"reference_id,omitempty"`
	Read        bool                    `json:"read"`
	CreatedAt   time.Time               `json:"created_at"`
}

func NotificationToResponse(notification *entity.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        notification.ID.String(),
		Title:     notification.Title,
		Message:   notification.Message,
		Type:      notification.Type,
		Read:      notification.Read,
		CreatedAt: notification.CreatedAt,
	}
	if notification.ReferenceID != nil {
		ref := notification.ReferenceID.String()
		resp.ReferenceID = &ref
	}
	return resp
}

func NotificationsToResponse(notifications []*entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		out = append(out, NotificationToResponse(notification))
	}
	return out
}
