package redis

import (
	"context"

	"orderreview/internal/core/domain/model/notification"
	"orderreview/internal/core/ports"

	"go.uber.org/zap"
)

var _ ports.NotificationPublisher = (*LogPublisher)(nil)

// LogPublisher stands in when no Redis is configured. Clients then only see
// notifications on their next poll.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("component", "log_notification_publisher"))}
}

func (p *LogPublisher) Publish(_ context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	p.log.Debug("notification stored",
		zap.String("id", n.ID().String()),
		zap.String("recipient", n.Recipient().Kind().String()),
		zap.String("title", n.Title()),
	)
	return nil
}
