package lease

import (
	"strconv"

	"leasevault/core/types"
	"leasevault/loan"
)

// Event type constants, §6.
const (
	EventTypeOpen               = "ls-open"
	EventTypeRepay              = "ls-repay"
	EventTypeLiquidationWarning = "ls-liquidation-warning"
	EventTypeLiquidationStart   = "ls-liquidation-start"
	EventTypeLiquidation        = "ls-liquidation"
	EventTypeClosePosition      = "ls-close-position"
	EventTypeClose              = "ls-close"
)

func newEvent(kind string, attrs map[string]string) *types.Event {
	return &types.Event{Type: kind, Attributes: attrs}
}

// NewOpenEvent emits `ls-open`, following native/escrow.NewCreatedEvent's
// pattern of one constructor per event type taking the domain object and
// projecting it to a flat attribute map.
func NewOpenEvent(id, customer string, airPermille uint32, currencyTicker, loanPoolID string, loanAmount, downpayment string) *types.Event {
	return newEvent(EventTypeOpen, map[string]string{
		"id":           id,
		"customer":     customer,
		"air":          strconv.FormatUint(uint64(airPermille), 10),
		"currency":     currencyTicker,
		"loan-pool-id": loanPoolID,
		"loan":         loanAmount,
		"downpayment":  downpayment,
	})
}

// NewRepayEvent emits `ls-repay` from a loan receipt.
func NewRepayEvent(to, paymentSymbol, paymentAmount string, receipt loan.Receipt) *types.Event {
	return newEvent(EventTypeRepay, map[string]string{
		"to":                   to,
		"payment-symbol":       paymentSymbol,
		"payment-amount":       paymentAmount,
		"loan-close":           strconv.FormatBool(receipt.Close),
		"prev-margin-interest": receipt.PreviousMarginPaid.String(),
		"prev-loan-interest":   receipt.PreviousInterestPaid.String(),
		"curr-margin-interest": receipt.CurrentMarginPaid.String(),
		"curr-loan-interest":   receipt.CurrentInterestPaid.String(),
		"principal":            receipt.PrincipalPaid.String(),
		"change":               receipt.Change.String(),
	})
}

// NewLiquidationWarningEvent emits `ls-liquidation-warning` for a zone
// crossing; emitted for every zone the position passes through since the
// last check (see SPEC_FULL §4 "Supplemented features").
func NewLiquidationWarningEvent(customer string, ltvPermille uint32, level int, leaseAsset string) *types.Event {
	return newEvent(EventTypeLiquidationWarning, map[string]string{
		"customer":    customer,
		"ltv":         strconv.FormatUint(uint64(ltvPermille), 10),
		"level":       strconv.Itoa(level),
		"lease-asset": leaseAsset,
	})
}

// NewLiquidationStartEvent emits `ls-liquidation-start`, issued before the
// coordinator's swap-to-LPN ICTx is sent.
func NewLiquidationStartEvent(customer string, ltvPermille uint32, cause string) *types.Event {
	return newEvent(EventTypeLiquidationStart, map[string]string{
		"customer": customer,
		"ltv":      strconv.FormatUint(uint64(ltvPermille), 10),
		"cause":    cause,
	})
}

// NewLiquidationEvent emits `ls-liquidation` once the liquidation's swap
// and repayment have completed.
func NewLiquidationEvent(customer string, ltvPermille uint32, cause string) *types.Event {
	return newEvent(EventTypeLiquidation, map[string]string{
		"customer": customer,
		"ltv":      strconv.FormatUint(uint64(ltvPermille), 10),
		"cause":    cause,
	})
}

// NewClosePositionEvent emits `ls-close-position` for a partial close.
func NewClosePositionEvent(customer, amount string) *types.Event {
	return newEvent(EventTypeClosePosition, map[string]string{
		"customer": customer,
		"amount":   amount,
	})
}

// NewCloseEvent emits `ls-close` on terminal full close.
func NewCloseEvent(customer string) *types.Event {
	return newEvent(EventTypeClose, map[string]string{
		"customer": customer,
	})
}
