package position

import (
	"errors"

	"leasevault/coin"
)

// Position is a lease's current holding: the asset amount, the policy
// spec it must stay within, and its optional auto-close policy (§3).
type Position struct {
	LeaseAmount coin.Coin
	Spec        Spec
	ClosePolicy ClosePolicy
}

// ErrZeroAssetAmount is returned when a non-terminal lease's asset amount
// is not strictly positive, violating §3's invariant.
var ErrZeroAssetAmount = errors.New("position: asset_amount must be positive while the lease is not terminal")

// Validate checks the non-terminal invariant: asset_amount > 0.
func (p Position) Validate() error {
	if p.LeaseAmount.IsZero() {
		return ErrZeroAssetAmount
	}
	return nil
}

// Reduce returns a copy of p with amount subtracted from LeaseAmount, used
// after a partial liquidation or partial close.
func (p Position) Reduce(amount coin.Coin) (Position, error) {
	reduced, _, err := p.LeaseAmount.Sub(amount)
	if err != nil {
		return Position{}, err
	}
	p.LeaseAmount = reduced
	return p, nil
}
