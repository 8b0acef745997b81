package lease

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leasevault/coin"
	"leasevault/crypto"
	"leasevault/loan"
	"leasevault/oracle"
	"leasevault/position"
	"leasevault/price"
)

const (
	leaseAsset = "LEASEC1"
	lpn        = "LPN"
)

func s1Liability(t *testing.T) position.Liability {
	t.Helper()
	l, err := position.NewLiability(650, 700, 730, 750, 780, 800, time.Hour)
	require.NoError(t, err)
	return l
}

func testAddress(t *testing.T, b byte) crypto.Address {
	t.Helper()
	return crypto.MustNewAddress(crypto.LeasePrefix, bytes20(b))
}

func bytes20(b byte) []byte {
	out := make([]byte, 20)
	out[19] = b
	return out
}

// newS1Lease builds the lease described by Scenario S1: downpayment
// 1_000_000, borrow 1_857_142, asset amount 2_857_142 LEASEC1, 1:1 prices
// both ways.
func newS1Lease(t *testing.T, now time.Time) (*Lease, *oracle.ManualOracle) {
	t.Helper()

	liability := s1Liability(t)
	spec, err := position.NewSpec(leaseAsset, lpn, liability, 100, 10)
	require.NoError(t, err)

	pos := position.Position{
		LeaseAmount: coin.MustNew(big.NewInt(2_857_142), leaseAsset),
		Spec:        spec,
	}

	ln, err := loan.New(
		coin.MustNew(big.NewInt(1_857_142), lpn),
		lpn,
		big.NewRat(7, 100),
		big.NewRat(3, 100),
		90*24*time.Hour,
		10*24*time.Hour,
		now,
	)
	require.NoError(t, err)

	oracleSvc := oracle.NewManualOracle(lpn)
	onePrice, err := price.New(coin.MustNew(big.NewInt(1), leaseAsset), coin.MustNew(big.NewInt(1), lpn))
	require.NoError(t, err)
	oracleSvc.Set(onePrice, oracle.Quote{Timestamp: now})

	l := New(testAddress(t, 1), testAddress(t, 2), pos, ln, oracleSvc, nil)
	return l, oracleSvc
}

func TestEvaluate_S1OpenedLeaseHasNoWarnings(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)

	debt, err := l.Evaluate(now)
	require.NoError(t, err)
	require.Equal(t, position.DebtOk, debt.Kind)
	require.Equal(t, position.ZoneNoWarnings, debt.Zone)
}

// TestEvaluate_S3LiquidationWarningLevelTwo reprices the lease asset down
// so the LTV reaches 76%, matching Scenario S3's second warning level.
func TestEvaluate_S3LiquidationWarningLevelTwo(t *testing.T) {
	now := time.Now()
	l, oracleSvc := newS1Lease(t, now)

	// totalDueLPN is fixed at 1_857_142; solve for the lease-wide asset
	// value that puts LTV at 76%: leaseInLPN = totalDueLPN * 1000 / 760.
	leaseInLPN := int64(1_857_142) * 1000 / 760
	perUnit, err := price.New(
		coin.MustNew(big.NewInt(2_857_142), leaseAsset),
		coin.MustNew(big.NewInt(leaseInLPN), lpn),
	)
	require.NoError(t, err)
	oracleSvc.Set(perUnit, oracle.Quote{Timestamp: now})

	debt, err := l.Evaluate(now)
	require.NoError(t, err)
	require.Equal(t, position.DebtOk, debt.Kind)
	require.Equal(t, position.ZoneSecond, debt.Zone)
}

func TestPriceAlarmBounds_HealthyZoneHasNoAboveBound(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)

	_, above, err := l.PriceAlarmBounds(now)
	require.NoError(t, err)
	require.Nil(t, above)
}

func TestRegisterAlarms_SucceedsForAnOpenedLease(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	require.NoError(t, l.RegisterAlarms(now))
}

func TestDue_MatchesLoanStateDirectly(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)

	viaLease, err := l.Due(now)
	require.NoError(t, err)
	viaLoan, err := l.Loan.State(now)
	require.NoError(t, err)
	require.Equal(t, viaLoan, viaLease)
}
