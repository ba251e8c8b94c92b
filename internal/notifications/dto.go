package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
)

// NotificationResponse is the JSON shape of one notification row.
type NotificationResponse struct {
	ID        uuid.UUID              `json:"id"`
	OrgID     uuid.UUID              `json:"org_id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Link      *string                `json:"link,omitempty"`
	ReadAt    *time.Time             `json:"read_at,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

func toNotificationResponse(row *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        row.ID,
		OrgID:     row.OrgID,
		Type:      row.Type,
		Title:     row.Title,
		Message:   row.Message,
		Link:      row.Link,
		ReadAt:    row.ReadAt,
		CreatedAt: row.CreatedAt,
	}
}
