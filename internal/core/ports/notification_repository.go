package ports

import (
	"context"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/notification"
)

// NotificationRepository stores in-app notifications.
type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error
	Update(ctx context.Context, n *notification.Notification) error

	// Get returns errs.ObjectNotFoundError for an unknown id.
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)
}
