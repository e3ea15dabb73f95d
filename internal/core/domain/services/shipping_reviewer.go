package services

import (
	"fmt"
	"time"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/core/domain/model/order"
)

// ShippingReviewer applies an admin's shipping price to an order and issues the
// confirmation token the customer will receive.
//
// Example usage:
//
//	reviewer := services.NewShippingReviewer(services.NewRandomTokenGenerator())
//	token, err := reviewer.Review(o, charge, "fragile", nil, time.Now())
//	if err != nil {
//	    // order was not pending admin review, or the input was invalid
//	}
//	// email token.Value() to the customer after commit
type ShippingReviewer struct {
	tokens TokenGenerator
}

func NewShippingReviewer(tokens TokenGenerator) ShippingReviewer {
	return ShippingReviewer{tokens: tokens}
}

// Review validates the order, generates a token and transitions the order to
// AwaitingConfirmation. The order is left untouched on any error.
func (r ShippingReviewer) Review(
	o *order.Order,
	charge kernel.Money,
	notes string,
	finalPriceOverride *kernel.Money,
	now time.Time,
) (order.ConfirmationToken, error) {
	if err := o.Validate(); err != nil {
		return order.ConfirmationToken{}, err
	}

	token, err := r.tokens.Generate()
	if err != nil {
		return order.ConfirmationToken{}, fmt.Errorf("generate confirmation token: %w", err)
	}

	if err := o.SetShippingCharge(charge, notes, finalPriceOverride, token, now); err != nil {
		return order.ConfirmationToken{}, err
	}

	return token, nil
}
