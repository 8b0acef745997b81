package lease

import "errors"

// Client errors.
var (
	ErrZeroPayment                  = errors.New("lease: payment must be positive")
	ErrUnknownCurrency              = errors.New("lease: unknown currency")
	ErrInsufficientPayment          = errors.New("lease: payment below min_transaction")
)

// Protocol violations.
var (
	ErrUnsupportedOperation = errors.New("lease: operation not supported in the current state")
	ErrClockWentBackward    = errors.New("lease: now precedes the lease's last recorded time")
)

// Fatal failures.
var (
	ErrResponseParse       = errors.New("lease: failed to parse sudo response")
	ErrReplyCorrelation    = errors.New("lease: sudo callback does not correlate to the outstanding request")
)
