package ports

import "context"

// Email is one rendered transactional message.
type Email struct {
	To       string
	Subject  string
	HTMLBody string
	// OrderID is carried for tracing and is empty for digests.
	OrderID string
}

// Mailer hands an email to the delivery infrastructure. A nil error means the
// email was accepted, not that it reached the inbox.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
