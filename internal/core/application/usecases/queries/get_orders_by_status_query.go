package queries

import (
	"errors"

	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/pkg/guard"
)

var (
	ErrGetOrdersByStatusQueryIsNotConstructed = errors.New(
		"GetOrdersByStatusQuery must be created via NewGetOrdersByStatusQuery constructor",
	)
)

// GetOrdersByStatusQuery lists every order in one status for the admin review
// screens, newest first. There is no pagination.
//
// Example:
//
//	query, err := NewGetOrdersByStatusQuery(order.PendingAdminReview)
//	if err != nil {
//	    return err
//	}
//	views, err := NewGetOrdersByStatusQueryHandler(db).Handle(ctx, query)
//
//nolint:recvcheck //using for validation
type GetOrdersByStatusQuery struct {
	status order.Status

	guard guard.ConstructorGuard
}

func NewGetOrdersByStatusQuery(status order.Status) (GetOrdersByStatusQuery, error) {
	if err := status.Validate(); err != nil {
		return GetOrdersByStatusQuery{}, err
	}

	return GetOrdersByStatusQuery{status: status, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrdersByStatusQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersByStatusQueryIsNotConstructed)
}

func (q GetOrdersByStatusQuery) Status() order.Status {
	return q.status
}
