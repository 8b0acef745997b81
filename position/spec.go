package position

import (
	"errors"
	"fmt"

	"leasevault/coin"
	"leasevault/currency"
	"leasevault/price"
)

// Errors matching §7's client and protocol-violation kinds for this
// package.
var (
	ErrZeroMinAsset       = errors.New("position: min_asset must be positive")
	ErrZeroMinTransaction = errors.New("position: min_transaction must be positive")
	ErrCurrencyMismatch   = errors.New("position: amount currency does not match the position's asset")
)

// ErrCloseAmountTooSmall is returned when a requested partial close is
// below min_transaction, or would leave the remaining position below
// min_asset without fully closing it.
type ErrCloseAmountTooSmall struct {
	Amount, MinTransaction int64
}

func (e ErrCloseAmountTooSmall) Error() string {
	return fmt.Sprintf("position: close amount %d is below min_transaction %d", e.Amount, e.MinTransaction)
}

// Spec is the position-spec: a liability policy plus the minimum asset and
// transaction sizes, both denominated in LPN.
type Spec struct {
	Asset          currency.Ticker
	LPN            currency.Ticker
	Liability      Liability
	MinAssetLPN    int64
	MinTransLPN    int64
}

// NewSpec validates that both minimums are positive, the one invariant this
// package owns beyond Liability's own ordering check.
func NewSpec(asset, lpn currency.Ticker, liability Liability, minAssetLPN, minTransLPN int64) (Spec, error) {
	if minAssetLPN <= 0 {
		return Spec{}, ErrZeroMinAsset
	}
	if minTransLPN <= 0 {
		return Spec{}, ErrZeroMinTransaction
	}
	return Spec{Asset: asset, LPN: lpn, Liability: liability, MinAssetLPN: minAssetLPN, MinTransLPN: minTransLPN}, nil
}

// ClosePolicy is the optional stop-loss / take-profit auto-close strategy
// (§4.2 "close policy").
type ClosePolicy struct {
	StopLoss   *Permille // trigger when LTV >= StopLoss
	TakeProfit *Permille // trigger when LTV <= TakeProfit
}

// ErrTriggerClose is returned when a newly configured close policy would
// fire immediately against the position's current LTV.
type ErrTriggerClose struct {
	LeaseLTV Permille
	StopLoss *Permille
	TakeProfit *Permille
}

func (e ErrTriggerClose) Error() string {
	return fmt.Sprintf("position: close policy would trigger immediately at ltv=%d", e.LeaseLTV)
}

// CheckCloseTrigger evaluates a candidate close policy against the current
// LTV and rejects it if it would fire immediately. Stop-loss is checked
// before take-profit when both would fire, per §4.2's deterministic
// tie-break.
func CheckCloseTrigger(policy ClosePolicy, currentLTV Permille) error {
	if policy.StopLoss != nil && currentLTV >= *policy.StopLoss {
		return ErrTriggerClose{LeaseLTV: currentLTV, StopLoss: policy.StopLoss}
	}
	if policy.TakeProfit != nil && currentLTV <= *policy.TakeProfit {
		return ErrTriggerClose{LeaseLTV: currentLTV, TakeProfit: policy.TakeProfit}
	}
	return nil
}

// CloseTrigger reports which side of a close policy fires at the given LTV,
// if any, for use by the lease state machine's per-alarm evaluation.
type CloseTrigger int

const (
	CloseTriggerNone CloseTrigger = iota
	CloseTriggerStopLoss
	CloseTriggerTakeProfit
)

func EvaluateClosePolicy(policy ClosePolicy, currentLTV Permille) CloseTrigger {
	if policy.StopLoss != nil && currentLTV >= *policy.StopLoss {
		return CloseTriggerStopLoss
	}
	if policy.TakeProfit != nil && currentLTV <= *policy.TakeProfit {
		return CloseTriggerTakeProfit
	}
	return CloseTriggerNone
}

// ValidateClose checks a customer-requested partial close amount against
// the position's minimums, given the asset's current total value and price.
func ValidateClose(spec Spec, leaseAsset coin.Coin, assetPriceLPN price.Price, amount coin.Coin) error {
	if amount.Ticker() != spec.Asset {
		return ErrCurrencyMismatch
	}
	amountLPN, err := assetPriceLPN.Total(amount)
	if err != nil {
		return err
	}
	if amountLPN.Amount().Int64() < spec.MinTransLPN {
		return ErrCloseAmountTooSmall{Amount: amountLPN.Amount().Int64(), MinTransaction: spec.MinTransLPN}
	}
	remaining, _, err := leaseAsset.Sub(amount)
	if err != nil {
		return err
	}
	if !remaining.IsZero() {
		remainingLPN, err := assetPriceLPN.Total(remaining)
		if err != nil {
			return err
		}
		if remainingLPN.Amount().Int64() < spec.MinAssetLPN {
			return ErrCloseAmountTooSmall{Amount: amountLPN.Amount().Int64(), MinTransaction: spec.MinTransLPN}
		}
	}
	return nil
}
