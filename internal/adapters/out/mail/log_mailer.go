package mail

import (
	"context"

	"orderreview/internal/core/ports"

	"go.uber.org/zap"
)

// LogMailer writes emails to the log instead of sending them. It backs local
// runs without a mail queue.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.With(zap.String("component", "log_mailer"))}
}

func (m *LogMailer) Send(ctx context.Context, email ports.Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.log.Info("email not sent, no queue configured",
		zap.String("to", email.To),
		zap.String("subject", email.Subject),
		zap.String("order_id", email.OrderID),
		zap.Int("body_bytes", len(email.HTMLBody)),
	)
	return nil
}

var (
	_ ports.Mailer = (*QueueMailer)(nil)
	_ ports.Mailer = (*LogMailer)(nil)
)
