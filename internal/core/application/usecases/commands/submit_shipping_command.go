package commands

import (
	"errors"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/order"
	"orderreview/internal/pkg/errs"
	"orderreview/internal/pkg/guard"
)

var ErrSubmitShippingCommandIsNotConstructed = errors.New(
	"SubmitShippingCommand must be created via NewSubmitShippingCommand constructor",
)

// SubmitShippingCommand is a checkout: a customer, registered or guest, sends
// the basket and the address the order ships to.
//
// Example:
//
//	address, _ := order.NewShippingAddress(fields, "India")
//	cmd, err := NewSubmitShippingCommand(kernel.NewUUID(), order.RegisteredCustomer(userID), items, nil, address)
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
type SubmitShippingCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	customer order.Customer
	items    []order.Item
	subtotal *kernel.Money
	address  order.ShippingAddress

	guard guard.ConstructorGuard
}

// NewSubmitShippingCommand validates every part and reports all problems at
// once. subtotal may be nil; the order then sums its items.
func NewSubmitShippingCommand(
	orderID kernel.UUID,
	customer order.Customer,
	items []order.Item,
	subtotal *kernel.Money,
	address order.ShippingAddress,
) (SubmitShippingCommand, error) {
	var errItems, errSubtotal error
	if len(items) == 0 {
		errItems = errs.NewValueIsRequiredError("items")
	}
	if subtotal != nil {
		errSubtotal = subtotal.Validate()
	} else {
		errSubtotal = checkItemsTotal(items)
	}

	if err := errors.Join(
		orderID.Validate(),
		customer.Validate(),
		errItems,
		errSubtotal,
		address.Validate(),
	); err != nil {
		return SubmitShippingCommand{}, err
	}

	cmdItems := make([]order.Item, len(items))
	copy(cmdItems, items)

	return SubmitShippingCommand{
		orderID:  orderID,
		customer: customer,
		items:    cmdItems,
		subtotal: subtotal,
		address:  address,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// checkItemsTotal reports a sum of line totals that cannot be stored.
func checkItemsTotal(items []order.Item) error {
	sum := kernel.ZeroMoney()
	for _, item := range items {
		if item.Validate() != nil {
			return nil
		}
		sum = sum.Add(item.Total())
	}
	return sum.CheckMax("subtotal")
}

func (c SubmitShippingCommand) Validate() error {
	return c.guard.Validate(ErrSubmitShippingCommandIsNotConstructed)
}

func (c SubmitShippingCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SubmitShippingCommand) Customer() order.Customer {
	return c.customer
}

func (c SubmitShippingCommand) Items() []order.Item {
	items := make([]order.Item, len(c.items))
	copy(items, c.items)
	return items
}

func (c SubmitShippingCommand) Subtotal() *kernel.Money {
	return c.subtotal
}

func (c SubmitShippingCommand) Address() order.ShippingAddress {
	return c.address
}
