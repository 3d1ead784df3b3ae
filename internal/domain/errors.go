package domain

import "errors"

// Sentinel errors for order validation. All are detected before any
// mutation, so a rejected operation leaves the book untouched.
// An unknown order id on cancel or amend is reported through a boolean
// result rather than an error, since "not found" is an expected,
// recoverable outcome for those two operations.
var (
	ErrDuplicateOrderID = errors.New("duplicate_order_id")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrInvalidPrice     = errors.New("invalid_price")
)
