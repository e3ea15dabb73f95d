package fanout

import (
	"time"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/order"
)

// EventKind names a committed order transition.
type EventKind int

const (
	OrderSubmitted EventKind = iota + 1
	ShippingPriced
	OrderConfirmed
	OrderCancelled
)

func (k EventKind) String() string {
	switch k {
	case OrderSubmitted:
		return "order.submitted"
	case ShippingPriced:
		return "order.shipping_priced"
	case OrderConfirmed:
		return "order.confirmed"
	case OrderCancelled:
		return "order.cancelled"
	default:
		return "order.unknown"
	}
}

// Event is published by command handlers after commit.
type Event struct {
	Kind   EventKind
	Order  *order.Order
	Reason string
}

type itemView struct {
	Name      string
	Quantity  int
	UnitPrice string
	Total     string
}

// orderView is an immutable copy of the order taken when the batch is planned,
// so background tasks never read the aggregate.
type orderView struct {
	ID             string
	RefID          kernel.UUID
	CustomerID     *kernel.UUID
	CustomerEmail  string
	Items          []itemView
	Subtotal       string
	ShippingCharge string
	FinalPrice     string
	AdminNotes     string
	AddressLines   []string
	Status         string
	Token          string
	CreatedAt      time.Time
}

func newOrderView(o *order.Order, currency string) orderView {
	format := func(m kernel.Money) string { return currency + m.String() }

	items := make([]itemView, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, itemView{
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: format(item.UnitPrice()),
			Total:     format(item.Total()),
		})
	}

	view := orderView{
		ID:            o.ID().String(),
		RefID:         o.ID(),
		CustomerID:    o.CustomerID(),
		CustomerEmail: o.CustomerEmail(),
		Items:         items,
		Subtotal:      format(o.Subtotal()),
		AdminNotes:    o.AdminNotes(),
		AddressLines:  o.ShippingAddress().Lines(),
		Status:        o.Status().String(),
		CreatedAt:     o.CreatedAt(),
	}
	if charge := o.ShippingCharge(); charge != nil {
		view.ShippingCharge = format(*charge)
	}
	if finalPrice := o.FinalPrice(); finalPrice != nil {
		view.FinalPrice = format(*finalPrice)
	}
	if token := o.ConfirmationToken(); token != nil {
		view.Token = token.Value()
	}
	return view
}
