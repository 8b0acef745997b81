package loan

import "errors"

// Client errors: caller input was wrong; state is unchanged.
var (
	ErrWrongCurrency = errors.New("loan: payment currency does not match LPN")
	ErrZeroPayment   = errors.New("loan: payment must be positive")
)

// Protocol violations: a caller or the host passed an impossible state.
var (
	ErrClockWentBackward = errors.New("loan: now precedes margin_paid_through")
)
