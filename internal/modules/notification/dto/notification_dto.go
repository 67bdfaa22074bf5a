package dto

import (
	"time"

	"anoa.com/complainthub/internal/entity"
	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Message     string     `json:"message"`
	ComplaintID uuid.UUID  `json:"complaint_id"`
	ActorID     *uuid.UUID `json:"actor_id,omitempty"`
	IsRead      bool       `json:"is_read"`
	CreatedAt   time.Time  `json:"created_at"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

func ToNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		Message:     n.Message,
		ComplaintID: n.ComplaintID,
		ActorID:     n.ActorID,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt,
	}
}
