package commands

import (
	"context"
	"time"

	"orderreview/internal/core/application/fanout"
	"orderreview/internal/core/domain/model/order"
)

// SubmitShippingCommandHandler creates the order in PendingAdminReview and,
// after commit, alerts every admin that shipping needs pricing.
type SubmitShippingCommandHandler struct {
	uowFactory OrderUoWFactory
	events     OrderEventPublisher
}

func NewSubmitShippingCommandHandler(uowFactory OrderUoWFactory, events OrderEventPublisher) SubmitShippingCommandHandler {
	return SubmitShippingCommandHandler{
		uowFactory: uowFactory,
		events:     events,
	}
}

func (h *SubmitShippingCommandHandler) Handle(ctx context.Context, cmd SubmitShippingCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.Customer(), cmd.Items(), cmd.Subtotal(), cmd.Address(), time.Now())
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.events.Publish(ctx, fanout.Event{Kind: fanout.OrderSubmitted, Order: o})
	return o, nil
}
