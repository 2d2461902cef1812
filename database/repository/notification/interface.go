package notificationRepo

import (
	"context"

	"herbimmortal/models"
)

// NotificationRepository stores in-app notifications. Delivery happens elsewhere.
type NotificationRepository interface {
	Insert(ctx context.Context, n *models.Notification) error
	// ListByPractitioner returns newest first, at most limit entries (0 means no limit).
	ListByPractitioner(ctx context.Context, practitionerID string, limit int) ([]models.Notification, error)
}
