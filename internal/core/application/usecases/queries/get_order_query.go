package queries

import (
	"errors"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")
)

// Viewer is the signed-in user reading an order.
type Viewer struct {
	UserID  kernel.UUID
	IsAdmin bool
}

// GetOrderQuery fetches one order for its owner or for an admin.
//
//nolint:recvcheck //using for validation
type GetOrderQuery struct {
	orderID kernel.UUID
	viewer  Viewer

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID, viewer Viewer) (GetOrderQuery, error) {
	if err := errors.Join(orderID.Validate(), viewer.UserID.Validate()); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{orderID: orderID, viewer: viewer, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Viewer() Viewer {
	return q.viewer
}
