// Package position implements liability-zone classification, close-policy
// evaluation, and liquidation sizing over a lease's loan state, generalizing
// native/lending/engine.go's single positionHealthy boolean check into the
// full zone/warning/liquidation model.
package position

import (
	"errors"
	"fmt"
	"time"
)

// Permille is a per-mille (parts-per-thousand) percentage, matching
// native/lending's basis-point convention but at the coarser granularity
// the liability bands are specified at.
type Permille uint32

const PermilleMax Permille = 1000

// Liability holds the seven monotone percentages and recalculation period
// that drive zone classification and liquidation sizing.
type Liability struct {
	Init            Permille
	Healthy         Permille
	FirstLiqWarn    Permille
	SecondLiqWarn   Permille
	ThirdLiqWarn    Permille
	Max             Permille
	RecalculatePeriod time.Duration
}

// ErrInvalidLiabilityOrdering is returned when the seven percentages do not
// satisfy init ≤ healthy < warn1 < warn2 < warn3 < max ≤ 100%.
var ErrInvalidLiabilityOrdering = errors.New("position: liability percentages out of order")

// NewLiability validates the ordering invariant at construction, the only
// place it can be violated, matching native/lending's pattern of
// validating risk parameters once in a constructor rather than on every
// read.
func NewLiability(init, healthy, warn1, warn2, warn3, max Permille, recalc time.Duration) (Liability, error) {
	l := Liability{Init: init, Healthy: healthy, FirstLiqWarn: warn1, SecondLiqWarn: warn2, ThirdLiqWarn: warn3, Max: max, RecalculatePeriod: recalc}
	if err := l.validate(); err != nil {
		return Liability{}, err
	}
	return l, nil
}

func (l Liability) validate() error {
	if !(l.Init <= l.Healthy && l.Healthy < l.FirstLiqWarn && l.FirstLiqWarn < l.SecondLiqWarn &&
		l.SecondLiqWarn < l.ThirdLiqWarn && l.ThirdLiqWarn < l.Max && l.Max <= PermilleMax) {
		return ErrInvalidLiabilityOrdering
	}
	return nil
}

// InitBorrowMax returns the maximum principal a downpayment can support at
// the init percentage: borrow = init/(100%-init) * downpayment.
func (l Liability) InitBorrowMax(downpayment int64) int64 {
	denom := int64(PermilleMax) - int64(l.Init)
	if denom <= 0 {
		return 0
	}
	return (int64(l.Init) * downpayment) / denom
}

// AmountToLiquidate computes (liability - healthy*lease) / (100% - healthy),
// bounded to [0, lease], per §3's derived helper.
func AmountToLiquidate(healthy Permille, lease, liability int64) int64 {
	num := liability*int64(PermilleMax) - int64(healthy)*lease
	denom := int64(PermilleMax) - int64(healthy)
	if denom <= 0 || num <= 0 {
		return 0
	}
	amount := num / denom
	if amount > lease {
		return lease
	}
	return amount
}

// Zone is a classification of the LTV axis into liability bands.
type Zone int

const (
	ZoneNoWarnings Zone = iota
	ZoneFirst
	ZoneSecond
	ZoneThird
)

func (z Zone) String() string {
	switch z {
	case ZoneNoWarnings:
		return "no-warnings"
	case ZoneFirst:
		return "first"
	case ZoneSecond:
		return "second"
	case ZoneThird:
		return "third"
	default:
		return fmt.Sprintf("zone(%d)", int(z))
	}
}

// ZoneOf classifies ltv (already known to be below Max) into one of the
// four warning bands.
func (l Liability) ZoneOf(ltv Permille) Zone {
	switch {
	case ltv >= l.ThirdLiqWarn:
		return ZoneThird
	case ltv >= l.SecondLiqWarn:
		return ZoneSecond
	case ltv >= l.FirstLiqWarn:
		return ZoneFirst
	default:
		return ZoneNoWarnings
	}
}

// LowerEdge returns the LTV at which entering zone z from below would be
// triggered; it is the price-alarm "below" edge for the zone one better
// than z and the "above" edge for z itself. Any other zone yields Max.
func (l Liability) LowerEdge(z Zone) Permille {
	switch z {
	case ZoneFirst:
		return l.FirstLiqWarn
	case ZoneSecond:
		return l.SecondLiqWarn
	case ZoneThird:
		return l.ThirdLiqWarn
	default:
		return l.Max
	}
}
