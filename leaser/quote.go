package leaser

import (
	"errors"
	"math/big"

	"leasevault/coin"
	"leasevault/lpp"
)

// ErrExceedsMaxLTD is returned when the borrow amount, after the
// customer-supplied max_ltd bound clips init_borrow_max, is not positive.
var ErrExceedsMaxLTD = errors.New("leaser: requested max_ltd is below the liability policy's minimum borrow")

// Quote is the answer to a customer's OpenLease feasibility check (§4.6):
// how much they could borrow against a downpayment, and at what rates.
type Quote struct {
	Borrow                  coin.Coin
	AnnualInterestRate      *big.Rat
	AnnualInterestRateMargin *big.Rat
}

// ComputeQuote implements the quote operation: borrow is bounded first by
// the liability policy's init percentage, then clipped further by the
// customer's own max_ltd if they supplied one, before the LPP is asked for
// its rate on that amount.
func ComputeQuote(cfg Config, pool lpp.LPP, downpayment coin.Coin, maxLTD *int64) (Quote, error) {
	borrowAmount := cfg.PositionSpecTemplate.Liability.InitBorrowMax(downpayment.Amount().Int64())
	if maxLTD != nil && *maxLTD < borrowAmount {
		borrowAmount = *maxLTD
	}
	if borrowAmount <= 0 {
		return Quote{}, ErrExceedsMaxLTD
	}
	borrow, err := coin.New(big.NewInt(borrowAmount), pool.LPN())
	if err != nil {
		return Quote{}, err
	}
	q, err := pool.Quote(borrow)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		Borrow:                   borrow,
		AnnualInterestRate:       q.AnnualInterestRate,
		AnnualInterestRateMargin: cfg.AnnualMarginRate,
	}, nil
}
