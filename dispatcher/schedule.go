// Package dispatcher implements the periodic reward-mint job of §4.7: poll
// every configured protocol's total value locked, derive an APR off a
// piecewise-linear schedule, and push the elapsed-scaled reward to Treasury.
// It generalizes core/rewards's index-accrual engine (the same
// elapsed-time-scaled multiply-then-divide shape as Engine.UpdateGlobalIndex)
// from a per-block staking index into a per-dispatch TVL-scaled mint;
// core/rewards's EpochSettlement/Payout bookkeeping has no equivalent here
// since this module has no epochs, only a single running last_dispatch
// timestamp.
package dispatcher

import (
	"math/big"

	"leasevault/position"
)

// SchedulePoint is one knot of the TVL→APR curve: at or below TVL the
// annual rate is Rate (per-mille, matching position.Permille's convention
// rather than basis points, per §8 S5's literal "APR = 10‰").
type SchedulePoint struct {
	TVL  *big.Int
	Rate position.Permille
}

// Schedule is a piecewise-linear TVL→APR curve, points sorted ascending by
// TVL. Below the first point the first rate applies; above the last point
// the last rate applies; between two points the rate is linearly
// interpolated.
type Schedule struct {
	Points []SchedulePoint
}

// RateAt returns the annual reward rate, in per-mille, for the given
// aggregate TVL.
func (s Schedule) RateAt(tvl *big.Int) position.Permille {
	if len(s.Points) == 0 || tvl == nil {
		return 0
	}
	if tvl.Cmp(s.Points[0].TVL) <= 0 {
		return s.Points[0].Rate
	}
	last := s.Points[len(s.Points)-1]
	if tvl.Cmp(last.TVL) >= 0 {
		return last.Rate
	}
	for i := 1; i < len(s.Points); i++ {
		lo, hi := s.Points[i-1], s.Points[i]
		if tvl.Cmp(hi.TVL) > 0 {
			continue
		}
		span := new(big.Int).Sub(hi.TVL, lo.TVL)
		if span.Sign() == 0 {
			return lo.Rate
		}
		offset := new(big.Int).Sub(tvl, lo.TVL)
		rateSpan := int64(hi.Rate) - int64(lo.Rate)
		delta := new(big.Int).Mul(offset, big.NewInt(rateSpan))
		delta.Quo(delta, span)
		return position.Permille(int64(lo.Rate) + delta.Int64())
	}
	return last.Rate
}
