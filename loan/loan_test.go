package loan

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leasevault/coin"
)

const lpn = "LPN"

func s1Loan(t *testing.T, now time.Time) *Loan {
	t.Helper()
	principal := coin.MustNew(big.NewInt(1_857_142), lpn)
	interestRate := big.NewRat(7, 100)
	marginRate := big.NewRat(3, 100)
	l, err := New(principal, lpn, interestRate, marginRate, 90*24*time.Hour, 10*24*time.Hour, now)
	require.NoError(t, err)
	return l
}

func TestNew_RejectsPrincipalInWrongCurrency(t *testing.T) {
	wrong := coin.MustNew(big.NewInt(100), "OTHER")
	_, err := New(wrong, lpn, big.NewRat(7, 100), big.NewRat(3, 100), time.Hour, time.Hour, time.Now())
	require.ErrorIs(t, err, ErrWrongCurrency)
}

func TestState_ImmediatelyAfterOpenHasNoAccrual(t *testing.T) {
	now := time.Now()
	l := s1Loan(t, now)

	due, err := l.State(now)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1_857_142), due.PrincipalDue)
	require.Zero(t, due.PreviousMarginDue.Sign())
	require.Zero(t, due.PreviousInterestDue.Sign())
	require.Zero(t, due.CurrentMarginDue.Sign())
	require.Zero(t, due.CurrentInterestDue.Sign())
}

// TestRepay_HalfPrincipalAfter45Days mirrors Scenario S2: repaying the
// current-leg accrual plus half of principal 45 days into a 90-day due
// period should fully clear both current legs, leave no previous-leg debt
// (the due period hasn't closed yet), and halve the outstanding principal.
func TestRepay_HalfPrincipalAfter45Days(t *testing.T) {
	opened := time.Now()
	l := s1Loan(t, opened)
	now := opened.Add(45 * 24 * time.Hour)

	due, err := l.State(now)
	require.NoError(t, err)
	require.Zero(t, due.PreviousMarginDue.Sign())
	require.Zero(t, due.PreviousInterestDue.Sign())
	require.True(t, due.CurrentMarginDue.Sign() > 0)
	require.True(t, due.CurrentInterestDue.Sign() > 0)

	halfPrincipal := big.NewInt(928_571)
	payment := new(big.Int).Set(halfPrincipal)
	payment.Add(payment, due.CurrentMarginDue)
	payment.Add(payment, due.CurrentInterestDue)

	receipt, err := l.Repay(coin.MustNew(payment, lpn), now)
	require.NoError(t, err)
	require.Zero(t, receipt.PreviousMarginPaid.Sign())
	require.Zero(t, receipt.PreviousInterestPaid.Sign())
	require.Equal(t, due.CurrentMarginDue, receipt.CurrentMarginPaid)
	require.Equal(t, due.CurrentInterestDue, receipt.CurrentInterestPaid)
	require.Equal(t, halfPrincipal, receipt.PrincipalPaid)
	require.Zero(t, receipt.Change.Sign())
	require.False(t, receipt.Close)

	postDue, err := l.State(now)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(928_571), postDue.PrincipalDue)
	require.Zero(t, postDue.CurrentMarginDue.Sign())
	require.Zero(t, postDue.CurrentInterestDue.Sign())
}

func TestRepay_FullSettlementClosesTheLoan(t *testing.T) {
	opened := time.Now()
	l := s1Loan(t, opened)
	now := opened.Add(200 * 24 * time.Hour)

	due, err := l.State(now)
	require.NoError(t, err)

	receipt, err := l.Repay(coin.MustNew(due.TotalDue, lpn), now)
	require.NoError(t, err)
	require.True(t, receipt.Close)
	require.Zero(t, receipt.Change.Sign())

	postDue, err := l.State(now)
	require.NoError(t, err)
	require.Zero(t, postDue.PrincipalDue.Sign())
}

func TestRepay_RejectsZeroPayment(t *testing.T) {
	now := time.Now()
	l := s1Loan(t, now)
	_, err := l.Repay(coin.Zero(lpn), now)
	require.ErrorIs(t, err, ErrZeroPayment)
}

func TestRepay_RejectsClockGoingBackward(t *testing.T) {
	now := time.Now()
	l := s1Loan(t, now)
	_, err := l.Repay(coin.MustNew(big.NewInt(1), lpn), now.Add(-time.Hour))
	require.ErrorIs(t, err, ErrClockWentBackward)
}

func TestGracePeriodEnd_IsDuePeriodPlusGracePeriodFromOpen(t *testing.T) {
	opened := time.Now()
	l := s1Loan(t, opened)
	require.Equal(t, opened.Add(100*24*time.Hour), l.GracePeriodEnd())
}

func TestLiabilityStatus_OverdueIsZeroWithinDuePeriod(t *testing.T) {
	opened := time.Now()
	l := s1Loan(t, opened)
	now := opened.Add(45 * 24 * time.Hour)

	_, overdue, err := l.LiabilityStatus(now)
	require.NoError(t, err)
	require.Zero(t, overdue.Sign())
}

func TestLiabilityStatus_OverduePastDuePeriodIncludesPreviousLegs(t *testing.T) {
	opened := time.Now()
	l := s1Loan(t, opened)
	now := opened.Add(100 * 24 * time.Hour)

	_, overdue, err := l.LiabilityStatus(now)
	require.NoError(t, err)
	require.True(t, overdue.Sign() > 0)
}
