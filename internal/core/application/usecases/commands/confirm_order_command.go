package commands

import (
	"errors"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/pkg/guard"
)

var ErrConfirmOrderCommandIsNotConstructed = errors.New(
	"ConfirmOrderCommand must be created via NewConfirmOrderCommand constructor",
)

// ConfirmOrderCommand is a customer accepting the priced order, either from a
// signed-in session or through the emailed link.
//
// Example:
//
//	cmd, _ := NewConfirmOrderCommand(orderID, order.TokenActor(token))
//	o, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrAlreadyProcessed) {
//	    // the link was used before; o holds the current state
//	}
type ConfirmOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   order.Actor

	guard guard.ConstructorGuard
}

func NewConfirmOrderCommand(orderID kernel.UUID, actor order.Actor) (ConfirmOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), actor.Validate()); err != nil {
		return ConfirmOrderCommand{}, err
	}

	return ConfirmOrderCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmOrderCommand) Validate() error {
	return c.guard.Validate(ErrConfirmOrderCommandIsNotConstructed)
}

func (c ConfirmOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ConfirmOrderCommand) Actor() order.Actor {
	return c.actor
}
