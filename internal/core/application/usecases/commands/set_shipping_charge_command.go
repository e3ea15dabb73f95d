package commands

import (
	"errors"
	"strings"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/pkg/errs"
	"orderreview/internal/pkg/guard"
)

const (
	ParamShippingCharges = "shippingCharges"
	ParamFinalPrice      = "finalPrice"
)

var ErrSetShippingChargeCommandIsNotConstructed = errors.New(
	"SetShippingChargeCommand must be created via NewSetShippingChargeCommand constructor",
)

// SetShippingChargeCommand is an admin pricing the shipping of a pending order.
//
// Example:
//
//	cmd, err := NewSetShippingChargeCommand(orderID, "150.50", "fragile, two boxes", nil)
//	if err != nil {
//	    return err // 400
//	}
//	o, err := handler.Handle(ctx, cmd)
type SetShippingChargeCommand struct { //nolint:recvcheck //using for validation
	orderID            kernel.UUID
	charge             kernel.Money
	notes              string
	finalPriceOverride *kernel.Money

	guard guard.ConstructorGuard
}

// NewSetShippingChargeCommand parses charge and finalPriceOverride from a JSON
// number or a numeric string. charge is required and must not be negative. An
// absent or zero override means subtotal plus charge.
func NewSetShippingChargeCommand(
	orderID kernel.UUID,
	charge any,
	notes string,
	finalPriceOverride any,
) (SetShippingChargeCommand, error) {
	cmd := SetShippingChargeCommand{
		notes: strings.TrimSpace(notes),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCharge(charge),
		cmd.setFinalPriceOverride(finalPriceOverride),
	); err != nil {
		return SetShippingChargeCommand{}, err
	}

	return cmd, nil
}

func (c SetShippingChargeCommand) Validate() error {
	return c.guard.Validate(ErrSetShippingChargeCommandIsNotConstructed)
}

func (c SetShippingChargeCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SetShippingChargeCommand) Charge() kernel.Money {
	return c.charge
}

func (c SetShippingChargeCommand) Notes() string {
	return c.notes
}

// FinalPriceOverride is nil when the computed total applies.
func (c SetShippingChargeCommand) FinalPriceOverride() *kernel.Money {
	return c.finalPriceOverride
}

func (c *SetShippingChargeCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *SetShippingChargeCommand) setCharge(raw any) error {
	charge, err := parseAmount(ParamShippingCharges, raw)
	if err != nil {
		return err
	}
	if charge == nil {
		return errs.NewValueIsRequiredError(ParamShippingCharges)
	}
	c.charge = *charge
	return nil
}

func (c *SetShippingChargeCommand) setFinalPriceOverride(raw any) error {
	override, err := parseAmount(ParamFinalPrice, raw)
	if err != nil {
		return err
	}
	c.finalPriceOverride = override
	return nil
}
