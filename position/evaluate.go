package position

import (
	"time"

	"leasevault/coin"
	"leasevault/price"
)

// Evaluate implements §4.2's decision procedure: given the loan's current
// due figures and the lease asset's value, it returns No debt, a
// healthy-or-warned Ok with a recheck interval, or a triggered Bad
// liquidation sized and clipped to the available asset.
func Evaluate(spec Spec, totalDueLPN, overdueLPN int64, leaseAsset coin.Coin, assetPriceLPN price.Price, now, gracePeriodEnd time.Time) (Debt, error) {
	if totalDueLPN == 0 {
		return NoDebt(), nil
	}

	leaseInLPNCoin, err := assetPriceLPN.Total(leaseAsset)
	if err != nil {
		return Debt{}, err
	}
	leaseInLPN := leaseInLPNCoin.Amount().Int64()
	if leaseInLPN <= 0 {
		return BadDebt(Liquidation{Kind: LiquidationFull, Amount: leaseAsset.Amount().Int64(), Cause: CauseLiability}), nil
	}

	ltv := Permille((int64(PermilleMax) * totalDueLPN) / leaseInLPN)

	if overdueLPN > 0 && !now.Before(gracePeriodEnd) {
		return sizeLiquidation(spec, overdueLPN, leaseAsset, assetPriceLPN, CauseOverdue)
	}

	if ltv >= spec.Liability.Max {
		liabilityAmount := AmountToLiquidate(spec.Liability.Healthy, leaseInLPN, totalDueLPN)
		return sizeLiquidationAmount(spec, liabilityAmount, leaseAsset, assetPriceLPN, CauseLiability)
	}

	zone := spec.Liability.ZoneOf(ltv)
	recheckIn := spec.Liability.RecalculatePeriod
	if untilGrace := gracePeriodEnd.Sub(now); untilGrace > 0 && untilGrace < recheckIn {
		recheckIn = untilGrace
	}
	return OkDebt(zone, recheckIn), nil
}

// sizeLiquidation converts an LPN-denominated amount owed into the asset,
// clips it, and upgrades to a full liquidation when the remainder would
// fall below min_asset.
func sizeLiquidation(spec Spec, amountLPN int64, leaseAsset coin.Coin, assetPriceLPN price.Price, cause Cause) (Debt, error) {
	return sizeLiquidationAmount(spec, amountLPN, leaseAsset, assetPriceLPN, cause)
}

func sizeLiquidationAmount(spec Spec, amountLPN int64, leaseAsset coin.Coin, assetPriceLPN price.Price, cause Cause) (Debt, error) {
	if amountLPN <= 0 {
		return NoDebt(), nil
	}
	amountLPNCoin, err := coin.New(bigFromInt64(amountLPN), spec.LPN)
	if err != nil {
		return Debt{}, err
	}
	assetAmount, err := assetPriceLPN.Inv().Total(amountLPNCoin)
	if err != nil {
		return Debt{}, err
	}
	clipped, err := assetAmount.Min(leaseAsset)
	if err != nil {
		return Debt{}, err
	}

	remaining, _, err := leaseAsset.Sub(clipped)
	if err != nil {
		return Debt{}, err
	}
	remainingLPN, err := assetPriceLPN.Total(remaining)
	if err != nil {
		return Debt{}, err
	}

	if remaining.IsZero() || remainingLPN.Amount().Int64() < spec.MinAssetLPN {
		return BadDebt(Liquidation{Kind: LiquidationFull, Amount: leaseAsset.Amount().Int64(), Cause: cause}), nil
	}

	clippedLPN, err := assetPriceLPN.Total(clipped)
	if err != nil {
		return Debt{}, err
	}
	if clippedLPN.Amount().Int64() < spec.MinTransLPN {
		return Debt{}, ErrCloseAmountTooSmall{Amount: clippedLPN.Amount().Int64(), MinTransaction: spec.MinTransLPN}
	}

	return BadDebt(Liquidation{Kind: LiquidationPartial, Amount: clipped.Amount().Int64(), Cause: cause}), nil
}
