package ports

import (
	"context"

	"orderreview/internal/core/domain/model/notification"
)

// NotificationPublisher pushes a stored notification to connected clients.
// Delivery is best effort; the stored notification is the source of truth.
type NotificationPublisher interface {
	Publish(ctx context.Context, n *notification.Notification) error
}
