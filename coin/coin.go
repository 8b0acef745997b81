// Package coin implements typed, non-negative currency amounts on top of
// math/big, following native/lending's big.Int accounting idiom
// (UserAccount, Market) but adding the currency-typing
// discipline the spec requires: a Coin always carries its ticker, and
// mixing tickers in an arithmetic operation is a runtime error rather than
// a silently wrong result.
package coin

import (
	"fmt"
	"math/big"

	"leasevault/currency"
)

// Coin is a non-negative integer amount of a single currency. The zero
// value is not valid; use New or Zero.
type Coin struct {
	amount *big.Int
	ticker currency.Ticker
}

// New constructs a Coin, rejecting negative amounts.
func New(amount *big.Int, ticker currency.Ticker) (Coin, error) {
	if amount == nil {
		return Coin{}, fmt.Errorf("coin: amount must not be nil")
	}
	if amount.Sign() < 0 {
		return Coin{}, fmt.Errorf("coin: amount must be non-negative, got %s", amount.String())
	}
	if ticker == "" {
		return Coin{}, fmt.Errorf("coin: ticker must not be empty")
	}
	return Coin{amount: new(big.Int).Set(amount), ticker: ticker}, nil
}

// Zero returns the zero amount of ticker.
func Zero(ticker currency.Ticker) Coin {
	return Coin{amount: big.NewInt(0), ticker: ticker}
}

// MustNew panics if New would error; for constants and test fixtures.
func MustNew(amount *big.Int, ticker currency.Ticker) Coin {
	c, err := New(amount, ticker)
	if err != nil {
		panic(err)
	}
	return c
}

// Amount returns a defensive copy of the underlying integer amount.
func (c Coin) Amount() *big.Int {
	if c.amount == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(c.amount)
}

// Ticker returns the coin's currency.
func (c Coin) Ticker() currency.Ticker { return c.ticker }

// IsZero reports whether the amount is exactly zero.
func (c Coin) IsZero() bool { return c.amount == nil || c.amount.Sign() == 0 }

func (c Coin) String() string {
	if c.amount == nil {
		return fmt.Sprintf("0%s", c.ticker)
	}
	return fmt.Sprintf("%s%s", c.amount.String(), c.ticker)
}

// ErrCurrencyMismatch is returned by arithmetic operations mixing tickers.
type ErrCurrencyMismatch struct{ A, B currency.Ticker }

func (e ErrCurrencyMismatch) Error() string {
	return fmt.Sprintf("coin: currency mismatch %q vs %q", e.A, e.B)
}

func (c Coin) checkSame(other Coin) error {
	if c.ticker != other.ticker {
		return ErrCurrencyMismatch{A: c.ticker, B: other.ticker}
	}
	return nil
}

// Add returns c+other, saturating is unnecessary since both are
// non-negative and the sum cannot be negative; overflow of big.Int is not a
// concern at this precision.
func (c Coin) Add(other Coin) (Coin, error) {
	if err := c.checkSame(other); err != nil {
		return Coin{}, err
	}
	return Coin{amount: new(big.Int).Add(c.Amount(), other.Amount()), ticker: c.ticker}, nil
}

// Sub returns c-other, saturating at zero rather than going negative. The
// boolean result reports whether the subtraction would have gone negative
// (i.e. saturation occurred).
func (c Coin) Sub(other Coin) (Coin, bool, error) {
	if err := c.checkSame(other); err != nil {
		return Coin{}, false, err
	}
	diff := new(big.Int).Sub(c.Amount(), other.Amount())
	if diff.Sign() < 0 {
		return Coin{amount: big.NewInt(0), ticker: c.ticker}, true, nil
	}
	return Coin{amount: diff, ticker: c.ticker}, false, nil
}

// CheckedSub returns an error instead of saturating when other exceeds c.
func (c Coin) CheckedSub(other Coin) (Coin, error) {
	diff, saturated, err := c.Sub(other)
	if err != nil {
		return Coin{}, err
	}
	if saturated {
		return Coin{}, fmt.Errorf("coin: insufficient amount: %s - %s", c, other)
	}
	return diff, nil
}

// Min returns the smaller of c and other by amount.
func (c Coin) Min(other Coin) (Coin, error) {
	if err := c.checkSame(other); err != nil {
		return Coin{}, err
	}
	if c.Amount().Cmp(other.Amount()) <= 0 {
		return c, nil
	}
	return other, nil
}

// Cmp compares amounts; both coins must share a ticker.
func (c Coin) Cmp(other Coin) (int, error) {
	if err := c.checkSame(other); err != nil {
		return 0, err
	}
	return c.Amount().Cmp(other.Amount()), nil
}

// GTE reports whether c >= other.
func (c Coin) GTE(other Coin) (bool, error) {
	cmp, err := c.Cmp(other)
	return cmp >= 0, err
}
