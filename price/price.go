// Package price implements the exact-ratio price type used throughout loan
// and position accounting: a reduced-to-coprime pair of Coin amounts
// representing Base/Quote, following native/lending's InterestModel big.Rat
// usage but applied to currency-typed amounts instead of bare percentages.
package price

import (
	"fmt"
	"math/big"

	"leasevault/coin"
	"leasevault/currency"
)

// Price is an exact ratio of a Base amount to a Quote amount, reduced to
// coprime form on construction. Both legs are strictly positive.
type Price struct {
	base  *big.Int
	quote *big.Int
	baseT currency.Ticker
	quoteT currency.Ticker
}

// New builds a Price from a Base coin and a Quote coin, reducing the ratio
// to coprime form. Both legs must be strictly positive and carry distinct
// tickers.
func New(base, quote coin.Coin) (Price, error) {
	b, q := base.Amount(), quote.Amount()
	if b.Sign() <= 0 || q.Sign() <= 0 {
		return Price{}, fmt.Errorf("price: both legs must be positive, got %s/%s", base, quote)
	}
	if base.Ticker() == quote.Ticker() {
		return Price{}, fmt.Errorf("price: base and quote must differ, got %q for both", base.Ticker())
	}
	g := new(big.Int).GCD(nil, nil, b, q)
	rb := new(big.Int).Quo(b, g)
	rq := new(big.Int).Quo(q, g)
	return Price{base: rb, quote: rq, baseT: base.Ticker(), quoteT: quote.Ticker()}, nil
}

// BaseTicker returns the currency the price is quoted in units of.
func (p Price) BaseTicker() currency.Ticker { return p.baseT }

// QuoteTicker returns the currency the price is denominated in.
func (p Price) QuoteTicker() currency.Ticker { return p.quoteT }

// Total converts an amount of Base into Quote, rounding half up and
// saturating rather than erroring on the (practically unreachable)
// overflow of the numerator.
func (p Price) Total(amount coin.Coin) (coin.Coin, error) {
	if amount.Ticker() != p.baseT {
		return coin.Coin{}, fmt.Errorf("price: amount ticker %q does not match base %q", amount.Ticker(), p.baseT)
	}
	numerator := new(big.Int).Mul(amount.Amount(), p.quote)
	numerator = halfUpDiv(numerator, p.base)
	return coin.New(numerator, p.quoteT)
}

// Inv returns the reciprocal price, Quote/Base.
func (p Price) Inv() Price {
	return Price{base: new(big.Int).Set(p.quote), quote: new(big.Int).Set(p.base), baseT: p.quoteT, quoteT: p.baseT}
}

// Compose chains p (A/B) with other (B/C) into a single A/C price. other's
// base ticker must equal p's quote ticker.
func (p Price) Compose(other Price) (Price, error) {
	if p.quoteT != other.baseT {
		return Price{}, fmt.Errorf("price: cannot compose %q/%q with %q/%q", p.baseT, p.quoteT, other.baseT, other.quoteT)
	}
	num := new(big.Int).Mul(p.base, other.base)
	den := new(big.Int).Mul(p.quote, other.quote)
	g := new(big.Int).GCD(nil, nil, num, den)
	return Price{
		base:   new(big.Int).Quo(num, g),
		quote:  new(big.Int).Quo(den, g),
		baseT:  p.baseT,
		quoteT: other.quoteT,
	}, nil
}

func (p Price) String() string {
	return fmt.Sprintf("%s%s/%s%s", p.base.String(), p.baseT, p.quote.String(), p.quoteT)
}

// halfUpDiv divides a by b, rounding halves away from zero. Both a and b
// must be non-negative.
func halfUpDiv(a, b *big.Int) *big.Int {
	if b.Sign() == 0 {
		return big.NewInt(0)
	}
	half := new(big.Int).Rsh(b, 1)
	sum := new(big.Int).Add(a, half)
	return sum.Quo(sum, b)
}
