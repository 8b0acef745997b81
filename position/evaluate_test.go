package position

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leasevault/coin"
	"leasevault/currency"
	"leasevault/price"
)

const (
	leaseC1 currency.Ticker = "LEASEC1"
	lpn     currency.Ticker = "LPN"
)

func s1Spec(t *testing.T) Spec {
	t.Helper()
	spec, err := NewSpec(leaseC1, lpn, s1Liability(t), 100, 10)
	require.NoError(t, err)
	return spec
}

func onePrice(t *testing.T) price.Price {
	t.Helper()
	p, err := price.New(coin.MustNew(big.NewInt(1), leaseC1), coin.MustNew(big.NewInt(1), lpn))
	require.NoError(t, err)
	return p
}

func TestEvaluate_NoDebtWhenNothingDue(t *testing.T) {
	spec := s1Spec(t)
	asset := coin.MustNew(big.NewInt(2_857_142), leaseC1)
	now := time.Now()

	debt, err := Evaluate(spec, 0, 0, asset, onePrice(t), now, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, DebtNo, debt.Kind)
}

func TestEvaluate_LTVJustBelowFirstWarnIsOkNoWarnings(t *testing.T) {
	spec := s1Spec(t)
	asset := coin.MustNew(big.NewInt(1_000_000), leaseC1)
	now := time.Now()

	debt, err := Evaluate(spec, 729_000, 0, asset, onePrice(t), now, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, DebtOk, debt.Kind)
	require.Equal(t, ZoneNoWarnings, debt.Zone)
}

func TestEvaluate_LTVExactlyAtMaxIsBadLiability(t *testing.T) {
	spec := s1Spec(t)
	asset := coin.MustNew(big.NewInt(1_000_000), leaseC1)
	now := time.Now()

	debt, err := Evaluate(spec, 800_000, 0, asset, onePrice(t), now, now.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, DebtBad, debt.Kind)
	require.Equal(t, CauseLiability, debt.Liquidation.Cause)
}

func TestEvaluate_OverdueExactlyAtGracePeriodEndIsBadOverdue(t *testing.T) {
	spec := s1Spec(t)
	asset := coin.MustNew(big.NewInt(1_000_000), leaseC1)
	now := time.Now()
	graceEnd := now // non-strict boundary: now == graceEnd still triggers

	debt, err := Evaluate(spec, 500_000, 500_000, asset, onePrice(t), now, graceEnd)
	require.NoError(t, err)
	require.Equal(t, DebtBad, debt.Kind)
	require.Equal(t, CauseOverdue, debt.Liquidation.Cause)
}

// TestEvaluate_FullLiquidationAfterGracePeriod mirrors Scenario S4: no
// repayment past due_period+grace_period, and so little lease asset would
// remain after selling enough to cover the overdue amount that the
// liquidation upgrades from partial to full (remaining value below
// min_asset).
func TestEvaluate_FullLiquidationAfterGracePeriod(t *testing.T) {
	spec := s1Spec(t)
	asset := coin.MustNew(big.NewInt(1_857_192), leaseC1)
	now := time.Now()
	graceEnd := now.Add(-time.Second)

	debt, err := Evaluate(spec, 1_857_142, 1_857_142, asset, onePrice(t), now, graceEnd)
	require.NoError(t, err)
	require.Equal(t, DebtBad, debt.Kind)
	require.Equal(t, LiquidationFull, debt.Liquidation.Kind)
	require.Equal(t, CauseOverdue, debt.Liquidation.Cause)
	require.Equal(t, int64(1_857_192), debt.Liquidation.Amount)
}

func TestEvaluate_RecheckIsClampedToGracePeriodEndWhenSooner(t *testing.T) {
	spec := s1Spec(t)
	asset := coin.MustNew(big.NewInt(1_000_000), leaseC1)
	now := time.Now()

	debt, err := Evaluate(spec, 700_000, 0, asset, onePrice(t), now, now.Add(30*time.Minute))
	require.NoError(t, err)
	require.Equal(t, DebtOk, debt.Kind)
	require.Equal(t, 30*time.Minute, debt.RecheckIn)
}

func TestCheckCloseTrigger_MatchesScenarioS6TakeProfitRejection(t *testing.T) {
	tp := Permille(800)
	policy := ClosePolicy{TakeProfit: &tp}
	err := CheckCloseTrigger(policy, 720)
	require.Error(t, err)
	var triggerErr ErrTriggerClose
	require.ErrorAs(t, err, &triggerErr)
	require.Equal(t, Permille(720), triggerErr.LeaseLTV)
}

func TestCheckCloseTrigger_MatchesScenarioS6StopLossRejection(t *testing.T) {
	sl := Permille(700)
	policy := ClosePolicy{StopLoss: &sl}
	err := CheckCloseTrigger(policy, 720)
	require.Error(t, err)
}

func TestCheckCloseTrigger_AcceptsPolicyThatWouldNotFireYet(t *testing.T) {
	sl := Permille(800)
	tp := Permille(500)
	policy := ClosePolicy{StopLoss: &sl, TakeProfit: &tp}
	require.NoError(t, CheckCloseTrigger(policy, 720))
}

func TestEvaluateClosePolicy_StopLossTakesPrecedenceWhenBothFire(t *testing.T) {
	sl := Permille(700)
	tp := Permille(750)
	policy := ClosePolicy{StopLoss: &sl, TakeProfit: &tp}
	require.Equal(t, CloseTriggerStopLoss, EvaluateClosePolicy(policy, 720))
}

func TestValidateClose_RejectsCurrencyMismatch(t *testing.T) {
	spec := s1Spec(t)
	asset := coin.MustNew(big.NewInt(1_000_000), leaseC1)
	wrong := coin.MustNew(big.NewInt(1), lpn)
	err := ValidateClose(spec, asset, onePrice(t), wrong)
	require.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestValidateClose_RejectsBelowMinTransaction(t *testing.T) {
	spec := s1Spec(t)
	asset := coin.MustNew(big.NewInt(1_000_000), leaseC1)
	tiny := coin.MustNew(big.NewInt(1), leaseC1)
	err := ValidateClose(spec, asset, onePrice(t), tiny)
	require.Error(t, err)
}
