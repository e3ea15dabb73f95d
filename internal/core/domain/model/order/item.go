package order

import (
	"errors"
	"strings"
	"unicode/utf8"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/pkg/errs"
	"orderreview/internal/pkg/guard"
)

const (
	// MaxItemQuantity bounds a single line of an order.
	MaxItemQuantity = 10_000

	MaxItemNameLength  = 255
	MaxProductIDLength = 64
)

var ErrItemIsNotConstructed = errs.NewValueIsRequiredError("item must be created via NewItem")

// Item is one line of an order. ProductID is an opaque catalogue reference and may be empty.
type Item struct {
	name      string
	quantity  int
	unitPrice kernel.Money
	productID string
	guard     guard.ConstructorGuard
}

func NewItem(name string, quantity int, unitPrice kernel.Money, productID string) (Item, error) {
	item := Item{
		name:      strings.TrimSpace(name),
		quantity:  quantity,
		unitPrice: unitPrice,
		productID: strings.TrimSpace(productID),
		guard:     guard.NewConstructorGuard(),
	}

	var errName, errQuantity, errProductID error
	if item.name == "" {
		errName = errs.NewValueIsRequiredError("item name")
	} else if n := utf8.RuneCountInString(item.name); n > MaxItemNameLength {
		errName = errs.NewValueIsOutOfRangeError("item name", n, 1, MaxItemNameLength)
	}
	if n := utf8.RuneCountInString(item.productID); n > MaxProductIDLength {
		errProductID = errs.NewValueIsOutOfRangeError("item productId", n, 0, MaxProductIDLength)
	}
	if quantity < 1 || quantity > MaxItemQuantity {
		errQuantity = errs.NewValueIsOutOfRangeError("item quantity", quantity, 1, MaxItemQuantity)
	}
	if err := errors.Join(errName, errQuantity, errProductID, unitPrice.Validate()); err != nil {
		return Item{}, err
	}

	return item, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) Name() string { return i.name }

func (i Item) Quantity() int { return i.quantity }

func (i Item) UnitPrice() kernel.Money { return i.unitPrice }

func (i Item) ProductID() string { return i.productID }

// Total is quantity times unit price.
func (i Item) Total() kernel.Money {
	return i.unitPrice.Mul(i.quantity)
}
