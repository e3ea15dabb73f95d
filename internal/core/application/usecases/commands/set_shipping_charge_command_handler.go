package commands

import (
	"context"
	"time"

	"orderreview/internal/core/application/fanout"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/core/domain/services"
)

// SetShippingChargeCommandHandler prices a pending order and moves it to
// AwaitingConfirmation. After commit the customer is notified and emailed the
// confirm and cancel links.
type SetShippingChargeCommandHandler struct {
	uowFactory OrderUoWFactory
	reviewer   services.ShippingReviewer
	events     OrderEventPublisher
}

func NewSetShippingChargeCommandHandler(
	uowFactory OrderUoWFactory,
	reviewer services.ShippingReviewer,
	events OrderEventPublisher,
) SetShippingChargeCommandHandler {
	return SetShippingChargeCommandHandler{
		uowFactory: uowFactory,
		reviewer:   reviewer,
		events:     events,
	}
}

// Handle returns the updated order. A missing order is errs.ObjectNotFoundError;
// an order that is not pending review is errs.TransitionIsInvalidError and is
// left unchanged.
func (h *SetShippingChargeCommandHandler) Handle(ctx context.Context, cmd SetShippingChargeCommand) (*order.Order, error) {
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

	if _, err = h.reviewer.Review(o, cmd.Charge(), cmd.Notes(), cmd.FinalPriceOverride(), time.Now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.events.Publish(ctx, fanout.Event{Kind: fanout.ShippingPriced, Order: o})
	return o, nil
}
