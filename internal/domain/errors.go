package domain

import "errors"

// Error taxonomy surfaced by every core operation. Callers match with
// errors.Is; the HTTP layer maps these to status codes.
var (
	// ErrValidation: malformed or policy-violating input (zero quantity,
	// bad payment composition, over-return).
	ErrValidation = errors.New("invalid input")

	// ErrNotFound: unknown variant, branch, transaction, transfer or return id.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock: a debit would drive quantity negative. On transfer
	// approval this is retryable; the transfer stays PENDING.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrConflict: same-branch transfer, or a transition on a record already
	// in a terminal state.
	ErrConflict = errors.New("conflict")

	// ErrDeadlineExceeded: the return window for the transaction has elapsed.
	ErrDeadlineExceeded = errors.New("return window elapsed")
)
