// Package ports defines the contracts between the review workflow and its
// infrastructure: persistence, email and realtime delivery.
package ports

import (
	"context"
	"time"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates together with their items.
type OrderRepository interface {
	// Add persists a new order. The order must be valid and not exist yet.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status, pricing, notes and token changes of an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order. Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads an order and locks its row until the surrounding
	// transaction ends, so concurrent transitions on one order serialize.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListPendingReviewCreatedBefore returns orders still pending admin review
	// that were created before the given instant, oldest first.
	ListPendingReviewCreatedBefore(ctx context.Context, before time.Time) ([]*order.Order, error)
}
