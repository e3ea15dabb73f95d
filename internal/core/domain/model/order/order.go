package order

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"orderreview/internal/core/domain/model/kernel"
	"orderreview/internal/pkg/errs"
)

const (
	// DefaultCancelReason is recorded when a customer cancels without saying why.
	DefaultCancelReason = "No reason provided"

	// MaxEmailLength is the longest guest email an order stores.
	MaxEmailLength = 320
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Customer identifies who gets notified about an order: a registered user or a
// guest known only by email.
type Customer struct {
	id    *kernel.UUID
	email string
}

func RegisteredCustomer(id kernel.UUID) Customer {
	return Customer{id: &id}
}

func GuestCustomer(email string) Customer {
	return Customer{email: strings.TrimSpace(email)}
}

func (c Customer) Validate() error {
	if c.id != nil {
		return c.id.Validate()
	}
	if c.email == "" {
		return errs.NewValueIsRequiredError("customerEmail")
	}
	if n := utf8.RuneCountInString(c.email); n > MaxEmailLength {
		return errs.NewValueIsOutOfRangeError("customerEmail", n, 1, MaxEmailLength)
	}
	if _, err := mail.ParseAddress(c.email); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("customerEmail", err)
	}
	return nil
}

// Order is the aggregate root of the review workflow. It owns the status
// machine and the confirmation token, and enforces:
//   - a confirmation token exists only while the order awaits confirmation
//   - shipping charge and final price are set together
//   - admin notes are only ever appended to
//   - the status changes only through SetShippingCharge, Confirm and Cancel
type Order struct {
	id                  kernel.UUID
	customer            Customer
	items               []Item
	subtotal            kernel.Money
	shippingAddress     ShippingAddress
	shippingCharge      *kernel.Money
	finalPrice          *kernel.Money
	adminNotes          string
	status              Status
	token               *ConfirmationToken
	consumedTokenDigest string
	createdAt           time.Time
	updatedAt           time.Time

	isConstructed bool
}

// NewOrder creates an order in PendingAdminReview. When subtotal is nil it is
// the sum of the item totals.
func NewOrder(
	id kernel.UUID,
	customer Customer,
	items []Item,
	subtotal *kernel.Money,
	address ShippingAddress,
	now time.Time,
) (*Order, error) {
	order := &Order{
		status:        PendingAdminReview,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomer(customer),
		order.setItems(items),
		order.setShippingAddress(address),
	); err != nil {
		return nil, err
	}

	if err := order.setSubtotal(subtotal); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreParams carries persisted state into RestoreOrder.
type RestoreParams struct {
	ID                  kernel.UUID
	Customer            Customer
	Items               []Item
	Subtotal            kernel.Money
	ShippingAddress     ShippingAddress
	ShippingCharge      *kernel.Money
	FinalPrice          *kernel.Money
	AdminNotes          string
	Status              Status
	Token               *ConfirmationToken
	ConsumedTokenDigest string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// RestoreOrder rebuilds an order loaded from storage. It checks the stored
// state against the aggregate invariants instead of replaying transitions.
func RestoreOrder(p RestoreParams) (*Order, error) {
	order := &Order{
		adminNotes:          p.AdminNotes,
		consumedTokenDigest: p.ConsumedTokenDigest,
		createdAt:           p.CreatedAt,
		updatedAt:           p.UpdatedAt,
		isConstructed:       true,
	}

	if err := errors.Join(
		order.setID(p.ID),
		order.setCustomer(p.Customer),
		order.setItems(p.Items),
		order.setShippingAddress(p.ShippingAddress),
		p.Subtotal.Validate(),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}
	order.subtotal = p.Subtotal
	order.status = p.Status

	if (p.ShippingCharge == nil) != (p.FinalPrice == nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"finalPrice", errors.New("shipping charge and final price must be set together"))
	}
	order.shippingCharge = p.ShippingCharge
	order.finalPrice = p.FinalPrice

	if (p.Token != nil) != (p.Status == AwaitingConfirmation) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"confirmationToken", fmt.Errorf("token presence does not match status %s", p.Status))
	}
	order.token = p.Token

	return order, nil
}

// Validate ensures the Order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID is nil for guest orders.
func (o *Order) CustomerID() *kernel.UUID {
	if o.customer.id == nil {
		return nil
	}
	id := *o.customer.id
	return &id
}

// CustomerEmail is empty for registered customers; their address lives on the user record.
func (o *Order) CustomerEmail() string {
	return o.customer.email
}

// IsOwnedBy reports whether userID is the registered customer of the order.
func (o *Order) IsOwnedBy(userID kernel.UUID) bool {
	return o.customer.id != nil && o.customer.id.IsEqual(userID)
}

func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) Subtotal() kernel.Money {
	return o.subtotal
}

func (o *Order) ShippingAddress() ShippingAddress {
	return o.shippingAddress
}

// ShippingCharge is nil until an admin prices the shipping.
func (o *Order) ShippingCharge() *kernel.Money {
	return o.shippingCharge
}

// FinalPrice is nil until an admin prices the shipping.
func (o *Order) FinalPrice() *kernel.Money {
	return o.finalPrice
}

func (o *Order) AdminNotes() string {
	return o.adminNotes
}

func (o *Order) Status() Status {
	return o.status
}

// ConfirmationToken is non-nil only while the order awaits confirmation.
func (o *Order) ConfirmationToken() *ConfirmationToken {
	return o.token
}

func (o *Order) ConsumedTokenDigest() string {
	return o.consumedTokenDigest
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// SetShippingCharge prices the shipping, computes the final price, appends the
// admin notes and issues a new confirmation token.
//
// finalPriceOverride replaces subtotal+charge only when it is positive; a nil or
// zero override means "use the computed total".
func (o *Order) SetShippingCharge(
	charge kernel.Money,
	notes string,
	finalPriceOverride *kernel.Money,
	token ConfirmationToken,
	now time.Time,
) error {
	if err := errors.Join(charge.Validate(), token.Validate()); err != nil {
		return err
	}
	if finalPriceOverride != nil {
		if err := finalPriceOverride.Validate(); err != nil {
			return err
		}
	}

	newStatus, err := o.status.ReviewShipping()
	if err != nil {
		return err
	}

	finalPrice := o.subtotal.Add(charge)
	if finalPriceOverride != nil && !finalPriceOverride.IsZero() {
		finalPrice = *finalPriceOverride
	}
	if err := finalPrice.CheckMax("finalPrice"); err != nil {
		return err
	}

	o.shippingCharge = &charge
	o.finalPrice = &finalPrice
	o.appendNote(notes)
	o.token = &token
	o.status = newStatus
	o.updatedAt = now.UTC()

	return nil
}

// Confirm moves the order to Confirmed on behalf of actor and consumes the token.
func (o *Order) Confirm(actor Actor, now time.Time) error {
	if err := o.authorize(actor, Confirmed, actionConfirm); err != nil {
		return err
	}

	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.consumeToken()
	o.status = newStatus
	o.updatedAt = now.UTC()

	return nil
}

// Cancel moves the order to Cancelled on behalf of actor, consumes the token
// and appends the reason to the admin notes.
func (o *Order) Cancel(actor Actor, reason string, now time.Time) error {
	if err := o.authorize(actor, Cancelled, actionCancel); err != nil {
		return err
	}

	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultCancelReason
	}

	o.consumeToken()
	o.appendNote("Cancelled by customer. Reason: " + reason)
	o.status = newStatus
	o.updatedAt = now.UTC()

	return nil
}

// authorize checks that actor may act on this order. Every failure that could
// reveal whether an order exists is reported as not found.
//
// A token that was already consumed is recognised by its digest: replaying it
// for the action that consumed it is already processed, for any other action
// it is an invalid transition.
func (o *Order) authorize(actor Actor, target Status, action string) error {
	notFound := errs.NewObjectNotFoundError("order", o.id.String())

	switch {
	case actor.IsSession():
		if !o.IsOwnedBy(actor.userID) {
			return notFound
		}
		return nil

	case actor.IsToken():
		if actor.token == "" {
			return notFound
		}
		if o.token != nil && o.token.Matches(actor.token) {
			return nil
		}
		if o.consumedTokenDigest != "" &&
			subtle.ConstantTimeCompare([]byte(o.consumedTokenDigest), []byte(TokenDigest(actor.token))) == 1 {
			if o.status == target {
				return errs.NewAlreadyProcessedError("order", target.String())
			}
			return errs.NewTransitionIsInvalidError(action, o.status.String())
		}
		return notFound

	default:
		return notFound
	}
}

func (o *Order) consumeToken() {
	if o.token == nil {
		return
	}
	o.consumedTokenDigest = o.token.Digest()
	o.token = nil
}

func (o *Order) appendNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if o.adminNotes == "" {
		o.adminNotes = note
		return
	}
	o.adminNotes += "\n" + note
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomer(customer Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	o.customer = customer
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setShippingAddress(address ShippingAddress) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.shippingAddress = address
	return nil
}

func (o *Order) setSubtotal(subtotal *kernel.Money) error {
	if subtotal != nil {
		if err := subtotal.Validate(); err != nil {
			return err
		}
		o.subtotal = *subtotal
		return nil
	}

	sum := kernel.ZeroMoney()
	for _, item := range o.items {
		sum = sum.Add(item.Total())
	}
	if err := sum.CheckMax("subtotal"); err != nil {
		return err
	}
	o.subtotal = sum
	return nil
}
