package order

import (
	"fmt"

	"orderreview/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	PendingAdminReview ──> AwaitingConfirmation ──> Confirmed
//	        │                      │
//	        └──────────┬───────────┘
//	                   v
//	               Cancelled
//
// Confirmed and Cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// PendingAdminReview is the initial state: the customer submitted a shipping
	// address and waits for an admin to price the shipping.
	PendingAdminReview

	// AwaitingConfirmation means shipping is priced and a confirmation token is out.
	AwaitingConfirmation

	// Confirmed is terminal.
	Confirmed

	// Cancelled is terminal.
	Cancelled
)

const (
	actionAddShipping = "add shipping charges to order"
	actionConfirm     = "confirm order"
	actionCancel      = "cancel order"
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:              "unknown",
		PendingAdminReview:   "pending_admin_review",
		AwaitingConfirmation: "awaiting_confirmation",
		Confirmed:            "confirmed",
		Cancelled:            "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		PendingAdminReview:   "pending_admin_review",
		AwaitingConfirmation: "awaiting_confirmation",
		Confirmed:            "confirmed",
		Cancelled:            "cancelled",
	}
}

// ParseStatus maps the wire vocabulary back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out of range values, e.g. a corrupted database row.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

func (s Status) IsTerminal() bool {
	return s == Confirmed || s == Cancelled
}

// ReviewShipping transitions PendingAdminReview to AwaitingConfirmation.
func (s Status) ReviewShipping() (Status, error) {
	if s != PendingAdminReview {
		return Unknown, errs.NewTransitionIsInvalidError(actionAddShipping, s.String())
	}
	return AwaitingConfirmation, nil
}

// Confirm transitions AwaitingConfirmation to Confirmed. A repeated confirm
// returns an AlreadyProcessedError so callers can answer idempotently.
func (s Status) Confirm() (Status, error) {
	switch s { //nolint:exhaustive // everything else is an invalid transition
	case AwaitingConfirmation:
		return Confirmed, nil
	case Confirmed:
		return Unknown, errs.NewAlreadyProcessedError("order", Confirmed.String())
	default:
		return Unknown, errs.NewTransitionIsInvalidError(actionConfirm, s.String())
	}
}

// Cancel transitions any non-terminal status to Cancelled. A repeated cancel
// returns an AlreadyProcessedError; a confirmed order cannot be cancelled.
func (s Status) Cancel() (Status, error) {
	switch s { //nolint:exhaustive // everything else is an invalid transition
	case PendingAdminReview, AwaitingConfirmation:
		return Cancelled, nil
	case Cancelled:
		return Unknown, errs.NewAlreadyProcessedError("order", Cancelled.String())
	default:
		return Unknown, errs.NewTransitionIsInvalidError(actionCancel, s.String())
	}
}
