// Package order holds the Order aggregate of the review workflow.
//
// A customer submits items and a shipping address (PendingAdminReview), an admin
// prices the shipping and a confirmation token is issued (AwaitingConfirmation),
// then the customer confirms or cancels either from a signed-in session or with
// the emailed token.
//
// Key business rules:
//   - only an order pending admin review can be priced
//   - a confirmed order cannot be cancelled, a cancelled order cannot be confirmed
//   - tokens are single use; a replayed token is recognised and answered idempotently
//   - a stranger, a wrong token and a missing order all look the same: not found
package order
