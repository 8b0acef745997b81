// Package loan implements the two-stream (LPP interest + margin premium)
// principal accounting described for a single lease: continuous linear
// accrual, a fixed five-leg repayment waterfall, and overdue/grace-period
// bookkeeping. It generalizes native/lending's single-stream, index-based
// borrow accounting (native/lending/interest.go, math.go) to two
// independently-cursored streams sharing one principal.
package loan

import (
	"math/big"
	"time"

	"leasevault/coin"
	"leasevault/currency"
)

// Loan is the accounting state for one lease's borrowed principal. The
// zero value is not valid; construct with New.
type Loan struct {
	lpn currency.Ticker

	principal *big.Int

	annualInterestRate *big.Rat // paid to the LPP
	annualMarginRate   *big.Rat // paid to the profit sink

	duePeriod   time.Duration
	gracePeriod time.Duration

	marginPaidThrough   time.Time
	interestPaidThrough time.Time
}

// New constructs a Loan with both cursors starting at now, as is the case
// when a lease first opens and draws its principal.
func New(principal coin.Coin, lpn currency.Ticker, annualInterestRate, annualMarginRate *big.Rat, duePeriod, gracePeriod time.Duration, now time.Time) (*Loan, error) {
	if principal.Ticker() != lpn {
		return nil, ErrWrongCurrency
	}
	return &Loan{
		lpn:                 lpn,
		principal:           principal.Amount(),
		annualInterestRate:  new(big.Rat).Set(annualInterestRate),
		annualMarginRate:    new(big.Rat).Set(annualMarginRate),
		duePeriod:            duePeriod,
		gracePeriod:          gracePeriod,
		marginPaidThrough:   now,
		interestPaidThrough: now,
	}, nil
}

// Due is the snapshot of amounts owed as of a given instant, mirroring the
// §4.1 `state(now)` operation.
type Due struct {
	PrincipalDue *big.Int

	PreviousMarginDue   *big.Int
	PreviousInterestDue *big.Int
	CurrentMarginDue    *big.Int
	CurrentInterestDue  *big.Int

	TotalDue *big.Int

	// OverdueSince is the boundary at which the current accrual period
	// for the margin stream closed and became "previous" (overdue once
	// unpaid); it equals MarginPaidThrough + due_period.
	OverdueSince time.Time
}

func (l *Loan) periodEnd(cursor time.Time) time.Time { return cursor.Add(l.duePeriod) }

// State computes amounts owed as of now without mutating the loan.
func (l *Loan) State(now time.Time) (Due, error) {
	if now.Before(l.marginPaidThrough) {
		return Due{}, ErrClockWentBackward
	}

	marginBoundary := l.periodEnd(l.marginPaidThrough)
	interestBoundary := l.periodEnd(l.interestPaidThrough)

	prevMargin, currMargin := split(l.principal, l.annualMarginRate, l.marginPaidThrough, marginBoundary, now)
	prevInterest, currInterest := split(l.principal, l.annualInterestRate, l.interestPaidThrough, interestBoundary, now)

	total := new(big.Int).Set(l.principal)
	total.Add(total, prevMargin)
	total.Add(total, prevInterest)
	total.Add(total, currMargin)
	total.Add(total, currInterest)

	return Due{
		PrincipalDue:        new(big.Int).Set(l.principal),
		PreviousMarginDue:   prevMargin,
		PreviousInterestDue: prevInterest,
		CurrentMarginDue:    currMargin,
		CurrentInterestDue:  currInterest,
		TotalDue:            total,
		OverdueSince:        marginBoundary,
	}, nil
}

// split divides the accrual over [cursor, now] into the closed "previous"
// leg (cursor..boundary, only present once the boundary has passed) and
// the open "current" leg (boundary..now, or cursor..now while still within
// the due period).
func split(principal *big.Int, rate *big.Rat, cursor, boundary, now time.Time) (previous, current *big.Int) {
	if now.Before(boundary) {
		return big.NewInt(0), accrue(principal, rate, cursor, now)
	}
	return accrue(principal, rate, cursor, boundary), accrue(principal, rate, boundary, now)
}

// GracePeriodEnd returns the instant past which unpaid previous-leg margin
// and interest trigger overdue liquidation (§4.2 step 3).
func (l *Loan) GracePeriodEnd() time.Time {
	return l.periodEnd(l.marginPaidThrough).Add(l.gracePeriod)
}

// LiabilityStatus reports the loan-side figures §4.1 groups under
// `liability_status`: total amount due in LPN and the overdue portion.
// Classifying LTV requires the asset's LPN value, which lives outside loan
// accounting (see the position package); callers combine the two.
func (l *Loan) LiabilityStatus(now time.Time) (totalLPN, overdueLPN *big.Int, err error) {
	due, err := l.State(now)
	if err != nil {
		return nil, nil, err
	}
	overdue := big.NewInt(0)
	if !now.Before(due.OverdueSince) {
		overdue = new(big.Int).Add(due.PreviousMarginDue, due.PreviousInterestDue)
	}
	return due.TotalDue, overdue, nil
}

// LPN returns the loan's denomination currency.
func (l *Loan) LPN() currency.Ticker { return l.lpn }
