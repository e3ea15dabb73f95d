// Package kernel holds the value objects shared across aggregates.
//
//   - UUID: identifier of orders, users and notifications
//   - Money: non-negative decimal amount with two fractional digits
//
// Both are immutable. Zero values fail Validate, so every instance comes from a constructor.
package kernel
