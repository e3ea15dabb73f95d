package commands

import (
	"context"
	"errors"
	"time"

	"orderreview/internal/core/application/fanout"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/pkg/errs"
)

// CancelOrderCommandHandler moves an order pending review or awaiting
// confirmation to Cancelled and appends the reason to the admin notes.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	events     OrderEventPublisher
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, events OrderEventPublisher) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		events:     events,
	}
}

// Handle mirrors ConfirmOrderCommandHandler.Handle: a repeated cancellation
// returns the order with errs.AlreadyProcessedError and changes nothing.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = o.Cancel(cmd.Actor(), cmd.Reason(), time.Now()); err != nil {
		if errors.Is(err, errs.ErrAlreadyProcessed) {
			return o, err
		}
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	reason := cmd.Reason()
	if reason == "" {
		reason = order.DefaultCancelReason
	}
	h.events.Publish(ctx, fanout.Event{Kind: fanout.OrderCancelled, Order: o, Reason: reason})
	return o, nil
}
