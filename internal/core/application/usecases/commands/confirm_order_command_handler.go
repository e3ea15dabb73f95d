package commands

import (
	"context"
	"errors"
	"time"

	"orderreview/internal/core/application/fanout"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/pkg/errs"
)

// ConfirmOrderCommandHandler moves an order awaiting confirmation to Confirmed.
type ConfirmOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	events     OrderEventPublisher
}

func NewConfirmOrderCommandHandler(uowFactory OrderUoWFactory, events OrderEventPublisher) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		events:     events,
	}
}

// Handle locks the order row for the whole read-modify-write so a racing
// cancel sees the committed result.
//
// A repeated confirmation returns the current order together with
// errs.AlreadyProcessedError. Nothing is written or published in that case.
func (h *ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd ConfirmOrderCommand) (*order.Order, error) {
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

	if err = o.Confirm(cmd.Actor(), time.Now()); err != nil {
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

	h.events.Publish(ctx, fanout.Event{Kind: fanout.OrderConfirmed, Order: o})
	return o, nil
}
