// Package lpp declares the query/execute surface this module consumes
// from the liquidity pool (§1: out of scope — LP share accounting and the
// borrow-rate model live entirely on the other side of this interface).
// Only the types needed to express a leaser quote, a lease's opening draw
// and repayment, and the dispatcher's TVL query are modeled here.
package lpp

import (
	"math/big"

	"leasevault/coin"
	"leasevault/currency"
)

// Quote is the LPP's answer to a borrow-feasibility query: the annual
// interest rate it would charge for the requested principal.
type Quote struct {
	AnnualInterestRate *big.Rat
}

// Balance is the LPP's total-value-locked breakdown for one pool,
// mirroring §4.7 step 1's `balance + total_principal_due + total_interest_due`.
type Balance struct {
	Available         coin.Coin
	TotalPrincipalDue coin.Coin
	TotalInterestDue  coin.Coin
}

// TVL sums the three legs into the single figure the dispatcher's APR
// schedule is evaluated against.
func (b Balance) TVL() (coin.Coin, error) {
	sum, err := b.Available.Add(b.TotalPrincipalDue)
	if err != nil {
		return coin.Coin{}, err
	}
	return sum.Add(b.TotalInterestDue)
}

// LPP is the full consumed surface: a quote for a new borrow, the balance
// query the dispatcher polls, the draw/repay calls a lease issues against
// its own principal, and the reward push the dispatcher issues.
type LPP interface {
	// LppBalance reports the pool's TVL breakdown, valued against
	// oracleAddr's price feed for any non-LPN holdings.
	LppBalance(oracleAddr string) (Balance, error)
	// Quote returns the rate the pool would charge to lend amount.
	Quote(amount coin.Coin) (Quote, error)
	// OpenLoan draws amount of principal against the pool on behalf of
	// leaseAddr, returning an opaque loan reference.
	OpenLoan(leaseAddr string, amount coin.Coin) (loanRef string, err error)
	// RepayLoan applies payment against loanRef's outstanding principal
	// and interest.
	RepayLoan(loanRef string, payment coin.Coin) error
	// DistributeRewards credits amount (native currency) to the pool as
	// dispatcher rewards.
	DistributeRewards(amount coin.Coin) error
	// LPN reports the pool's denomination currency.
	LPN() currency.Ticker
}
