// Package services holds domain services of the review workflow that need a
// collaborator the Order aggregate must not own itself.
//
// The package includes:
//   - TokenGenerator: produces unguessable confirmation tokens
//   - ShippingReviewer: prices an order's shipping and issues its token in one step
package services
