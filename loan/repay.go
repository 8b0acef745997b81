package loan

import (
	"math/big"
	"time"

	"leasevault/coin"
)

// Receipt is the outcome of applying a single repayment against a loan,
// mirroring §3's RepayReceipt<LPN>.
type Receipt struct {
	PreviousMarginPaid   *big.Int
	PreviousInterestPaid *big.Int
	CurrentMarginPaid    *big.Int
	CurrentInterestPaid  *big.Int
	PrincipalPaid        *big.Int
	Change               *big.Int
	Close                bool
}

func minBig(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

// Repay applies payment against the fixed five-leg waterfall: previous
// margin, previous interest, current margin, current interest, principal.
// Any residue becomes change. The loan's cursors are advanced in place.
func (l *Loan) Repay(payment coin.Coin, now time.Time) (Receipt, error) {
	if payment.Ticker() != l.lpn {
		return Receipt{}, ErrWrongCurrency
	}
	if payment.IsZero() {
		return Receipt{}, ErrZeroPayment
	}
	if now.Before(l.marginPaidThrough) {
		return Receipt{}, ErrClockWentBackward
	}

	marginBoundary := l.periodEnd(l.marginPaidThrough)
	interestBoundary := l.periodEnd(l.interestPaidThrough)

	prevMarginDue, currMarginDue := split(l.principal, l.annualMarginRate, l.marginPaidThrough, marginBoundary, now)
	prevInterestDue, currInterestDue := split(l.principal, l.annualInterestRate, l.interestPaidThrough, interestBoundary, now)

	remaining := payment.Amount()

	paidPrevMargin := minBig(remaining, prevMarginDue)
	remaining.Sub(remaining, paidPrevMargin)

	paidPrevInterest := minBig(remaining, prevInterestDue)
	remaining.Sub(remaining, paidPrevInterest)

	paidCurrMargin := minBig(remaining, currMarginDue)
	remaining.Sub(remaining, paidCurrMargin)

	paidCurrInterest := minBig(remaining, currInterestDue)
	remaining.Sub(remaining, paidCurrInterest)

	paidPrincipal := minBig(remaining, l.principal)
	remaining.Sub(remaining, paidPrincipal)

	l.marginPaidThrough = advanceCursor(l.principal, l.annualMarginRate, l.marginPaidThrough, marginBoundary, now, prevMarginDue, paidPrevMargin, currMarginDue, paidCurrMargin)
	l.interestPaidThrough = advanceCursor(l.principal, l.annualInterestRate, l.interestPaidThrough, interestBoundary, now, prevInterestDue, paidPrevInterest, currInterestDue, paidCurrInterest)
	l.principal.Sub(l.principal, paidPrincipal)

	return Receipt{
		PreviousMarginPaid:   paidPrevMargin,
		PreviousInterestPaid: paidPrevInterest,
		CurrentMarginPaid:    paidCurrMargin,
		CurrentInterestPaid:  paidCurrInterest,
		PrincipalPaid:        paidPrincipal,
		Change:               remaining,
		Close:                l.principal.Sign() == 0,
	}, nil
}

// advanceCursor moves a stream's paid-through cursor forward based on how
// much of its previous and current legs were paid. The current leg's
// window is cursor..now while now precedes boundary (the due period has
// not yet closed, per split), and boundary..now afterwards. Fully paying
// both legs advances the cursor to now; fully paying only the previous leg
// advances it to the period boundary; a partial payment within either leg
// advances it to the timestamp whose accrual equals the amount paid.
func advanceCursor(principal *big.Int, rate *big.Rat, cursor, boundary, now time.Time, prevDue, paidPrev, currDue, paidCurr *big.Int) time.Time {
	currentFrom := boundary
	if now.Before(boundary) {
		currentFrom = cursor
	}
	if paidPrev.Cmp(prevDue) < 0 {
		return timeForAccrual(principal, rate, cursor, currentFrom, paidPrev)
	}
	if paidCurr.Cmp(currDue) < 0 {
		return timeForAccrual(principal, rate, currentFrom, now, paidCurr)
	}
	return now
}
