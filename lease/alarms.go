package lease

import (
	"math/big"
	"time"

	"leasevault/coin"
	"leasevault/core/types"
	"leasevault/currency"
	"leasevault/position"
	"leasevault/price"
)

// nextWorseEdge returns the LTV at which the lease would cross out of its
// current zone into a worse one: the "below" bound of its price alarm pair
// (§4.5).
func nextWorseEdge(liability position.Liability, z position.Zone) position.Permille {
	return liability.LowerEdge(position.Zone(int(z) + 1))
}

// permilleToPrice solves for the asset/LPN price at which totalDueLPN owed
// against assetAmount units of the lease asset produces exactly target LTV
// permille.
func permilleToPrice(totalDueLPN, assetAmount *big.Int, target position.Permille, asset, lpn currency.Ticker) (price.Price, error) {
	if target == 0 || assetAmount.Sign() == 0 {
		return price.Price{}, ErrUnsupportedOperation
	}
	numerator := new(big.Int).Mul(big.NewInt(int64(position.PermilleMax)), totalDueLPN)
	denominator := new(big.Int).Mul(assetAmount, big.NewInt(int64(target)))
	if denominator.Sign() == 0 {
		return price.Price{}, ErrUnsupportedOperation
	}
	baseCoin, err := coin.New(denominator, asset)
	if err != nil {
		return price.Price{}, err
	}
	quoteCoin, err := coin.New(numerator, lpn)
	if err != nil {
		return price.Price{}, err
	}
	return price.New(baseCoin, quoteCoin)
}

// PriceAlarmBounds computes the below/above price pair the oracle should
// watch on this lease's behalf: below is the price at which the lease
// crosses into the next-worse zone (or liquidation, from the third
// warning zone); above is the price at which it would recover into the
// next-better zone, nil when already in the healthy zone.
func (l *Lease) PriceAlarmBounds(now time.Time) (below price.Price, above *price.Price, err error) {
	totalLPN, _, err := l.Loan.LiabilityStatus(now)
	if err != nil {
		return price.Price{}, nil, err
	}
	assetAmount := l.Position.LeaseAmount.Amount()
	oraclePrice, err := l.Oracle.PriceOf(l.Position.LeaseAmount.Ticker())
	if err != nil {
		return price.Price{}, nil, err
	}
	leaseInLPN, err := oraclePrice.Total(l.Position.LeaseAmount)
	if err != nil {
		return price.Price{}, nil, err
	}
	var ltv position.Permille
	if !leaseInLPN.IsZero() {
		ltv = position.Permille((int64(position.PermilleMax) * totalLPN.Int64()) / leaseInLPN.Amount().Int64())
	} else {
		ltv = position.PermilleMax
	}
	liability := l.Position.Spec.Liability
	zone := liability.ZoneOf(ltv)

	below, err = permilleToPrice(totalLPN, assetAmount, nextWorseEdge(liability, zone), l.Position.Spec.Asset, l.Loan.LPN())
	if err != nil {
		return price.Price{}, nil, err
	}
	if zone != position.ZoneNoWarnings {
		aboveP, err := permilleToPrice(totalLPN, assetAmount, liability.LowerEdge(zone), l.Position.Spec.Asset, l.Loan.LPN())
		if err != nil {
			return price.Price{}, nil, err
		}
		above = &aboveP
	}
	return below, above, nil
}

// RegisterAlarms (re)registers this lease's price alarm pair with the
// oracle, called after opening and after every repayment, liquidation, or
// partial close that moves totalDueLPN or the asset amount.
func (l *Lease) RegisterAlarms(now time.Time) error {
	below, above, err := l.PriceAlarmBounds(now)
	if err != nil {
		return err
	}
	return l.Oracle.AddPriceAlarm(l.Addr.String(), below, above)
}

// NextTimeAlarm reports when this lease next needs re-evaluating: now, if a
// liquidation is already triggered; the earlier of the zone recheck period
// and the current due period's grace deadline, for a healthy-or-warned
// lease; or a full recalculation period out, if nothing is currently owed.
func (l *Lease) NextTimeAlarm(now time.Time) (time.Time, error) {
	debt, err := l.Evaluate(now)
	if err != nil {
		return time.Time{}, err
	}
	switch debt.Kind {
	case position.DebtBad:
		return now, nil
	case position.DebtOk:
		return now.Add(debt.RecheckIn), nil
	default:
		return now.Add(l.Position.Spec.Liability.RecalculatePeriod), nil
	}
}

// zoneOf maps a Debt onto the liability zone it represents for the purpose
// of counting crossed warning zones: DebtBad counts as the third zone, so
// every warning level up to it is emitted (liquidation itself gets its own
// start/complete events), DebtNo as the no-warnings zone.
func zoneOf(debt position.Debt) position.Zone {
	switch debt.Kind {
	case position.DebtBad:
		return position.ZoneThird
	case position.DebtOk:
		return debt.Zone
	default:
		return position.ZoneNoWarnings
	}
}

// currentZone re-evaluates debt at now and reports the zone it falls into,
// used both to seed State.LastZone on every transition back into
// OpenedActive and by the alarm handlers below to detect crossings.
func (l *Lease) currentZone(now time.Time) (position.Zone, error) {
	debt, err := l.Evaluate(now)
	if err != nil {
		return position.ZoneNoWarnings, err
	}
	return zoneOf(debt), nil
}

// HandlePriceAlarm implements §4.4's OpenedActive/PriceAlarm cell: it
// re-evaluates debt, emits one ls-liquidation-warning per liability zone
// crossed since the lease's last check, and then liquidates, closes, or
// re-registers alarms depending on the outcome (§4.2, §4.5's supplemented
// close-policy trigger).
func (l *Lease) HandlePriceAlarm(now time.Time) (types.Batch, error) {
	return l.reevaluate(now)
}

// HandleTimeAlarm implements §4.4's OpenedActive/TimeAlarm cell. Time and
// price alarms drive the identical re-evaluation; they are kept as
// distinct methods because the wire protocol distinguishes the two
// triggers even though OpenedActive handles them alike.
func (l *Lease) HandleTimeAlarm(now time.Time) (types.Batch, error) {
	return l.reevaluate(now)
}

// reevaluate is the shared §4.2 debt re-check driving both alarm kinds: it
// reports any zone crossings, liquidates a triggered debt, honors a fired
// stop-loss/take-profit close policy, and otherwise re-registers the
// lease's alarm pair for the newly computed zone.
func (l *Lease) reevaluate(now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusOpenedActive); err != nil {
		return batch, err
	}

	debt, err := l.Evaluate(now)
	if err != nil {
		return batch, err
	}
	ltv, err := l.ltvPermille(now)
	if err != nil {
		return batch, err
	}

	newZone := zoneOf(debt)
	for z := l.State.LastZone + 1; z <= newZone; z++ {
		batch.Emit(NewLiquidationWarningEvent(l.Customer.String(), ltv, int(z), string(l.Position.Spec.Asset)))
	}
	l.State.LastZone = newZone

	if debt.Kind == position.DebtBad {
		liqBatch, err := l.Liquidate(debt, now)
		if err != nil {
			return batch, err
		}
		batch.Merge(liqBatch)
		return batch, nil
	}

	if trigger := position.EvaluateClosePolicy(l.Position.ClosePolicy, position.Permille(ltv)); trigger != position.CloseTriggerNone {
		closeBatch, err := l.Close(now)
		if err != nil {
			return batch, err
		}
		batch.Merge(closeBatch)
		return batch, nil
	}

	if err := l.RegisterAlarms(now); err != nil {
		return batch, err
	}
	return batch, nil
}
