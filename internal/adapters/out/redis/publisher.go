// Package redis pushes stored notifications to connected clients over Redis pub/sub.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orderreview/internal/core/domain/model/notification"
	"orderreview/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is where notifications are published unless configured otherwise.
const DefaultChannel = "order_notifications"

// Publisher is the part of the redis client the notification publisher uses.
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// NewClient connects to Redis and checks the connection.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// Message is the payload subscribers receive.
type Message struct {
	ID          string    `json:"id"`
	Recipient   string    `json:"recipient"`
	UserID      string    `json:"userId,omitempty"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	ReferenceID string    `json:"referenceId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NotificationPublisher implements ports.NotificationPublisher.
type NotificationPublisher struct {
	client  Publisher
	channel string
}

func NewNotificationPublisher(client Publisher, channel string) *NotificationPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &NotificationPublisher{client: client, channel: channel}
}

func (p *NotificationPublisher) Publish(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	msg := Message{
		ID:        n.ID().String(),
		Recipient: n.Recipient().Kind().String(),
		Type:      string(n.Type()),
		Title:     n.Title(),
		Message:   n.Message(),
		CreatedAt: n.CreatedAt(),
	}
	if id := n.Recipient().UserID(); id != nil {
		msg.UserID = id.String()
	}
	if ref := n.ReferenceID(); ref != nil {
		msg.ReferenceID = ref.String()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	if err = p.client.Publish(ctx, p.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

var _ ports.NotificationPublisher = (*NotificationPublisher)(nil)
