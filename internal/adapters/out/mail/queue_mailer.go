// Package mail hands rendered emails to the delivery infrastructure: an lmstfy
// job queue drained by the mail worker, or the log when no queue is configured.
package mail

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orderreview/internal/core/ports"
	"orderreview/internal/pkg/errs"

	"github.com/bitleak/lmstfy/client"
	"go.uber.org/zap"
)

// DefaultTries is how often the mail worker may attempt one email.
const DefaultTries uint16 = 3

// JobQueue is the part of the lmstfy client the mailer uses.
type JobQueue interface {
	Publish(queue string, data []byte, ttl uint32, tries uint16, delay uint32) (string, error)
}

var _ JobQueue = (*LmstfyQueue)(nil)

// LmstfyQueue is a JobQueue backed by one lmstfy namespace.
type LmstfyQueue struct {
	cli *client.LmstfyClient
}

// NewLmstfyQueue connects to an lmstfy namespace.
func NewLmstfyQueue(host string, port int, namespace, token string) *LmstfyQueue {
	return &LmstfyQueue{cli: client.NewLmstfyClient(host, port, namespace, token)}
}

func (q *LmstfyQueue) Publish(queue string, data []byte, ttl uint32, tries uint16, delay uint32) (string, error) {
	jobID, err := q.cli.Publish(queue, data, ttl, tries, delay)
	if err != nil {
		return "", fmt.Errorf("lmstfy publish: %w", err)
	}
	return jobID, nil
}

// Job is the payload the mail worker consumes.
type Job struct {
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	HTML       string    `json:"html"`
	OrderID    string    `json:"orderId,omitempty"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// QueueMailer implements ports.Mailer by publishing one lmstfy job per email.
type QueueMailer struct {
	queue     JobQueue
	queueName string
	ttl       time.Duration
	tries     uint16
	log       *zap.Logger
	now       func() time.Time
}

func NewQueueMailer(queue JobQueue, queueName string, ttl time.Duration, log *zap.Logger) (*QueueMailer, error) {
	if queue == nil {
		return nil, errs.NewValueIsRequiredError("queue")
	}
	if queueName == "" {
		return nil, errs.NewValueIsRequiredError("queueName")
	}
	if ttl < 0 {
		return nil, errs.NewValueIsOutOfRangeError("ttl", ttl, 0, "unbounded")
	}

	return &QueueMailer{
		queue:     queue,
		queueName: queueName,
		ttl:       ttl,
		tries:     DefaultTries,
		log:       log.With(zap.String("component", "queue_mailer")),
		now:       time.Now,
	}, nil
}

func (m *QueueMailer) Send(ctx context.Context, email ports.Email) error {
	if email.To == "" {
		return errs.NewValueIsRequiredError("to")
	}
	// The lmstfy client takes no context.
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(Job{
		To:         email.To,
		Subject:    email.Subject,
		HTML:       email.HTMLBody,
		OrderID:    email.OrderID,
		EnqueuedAt: m.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode mail job: %w", err)
	}

	jobID, err := m.queue.Publish(m.queueName, data, uint32(m.ttl.Seconds()), m.tries, 0)
	if err != nil {
		return fmt.Errorf("lmstfy publish failed: %w", err)
	}

	m.log.Debug("email queued",
		zap.String("job_id", jobID),
		zap.String("subject", email.Subject),
		zap.String("order_id", email.OrderID),
	)
	return nil
}
