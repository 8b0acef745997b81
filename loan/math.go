package loan

import (
	"math/big"
	"time"
)

// Ray-precision fixed point constants, following native/lending/math.go's
// scaling idiom (there applied to block-based index accrual; here applied to
// nanosecond-duration linear interest).
var (
	ray          = mustBigInt("1000000000000000000000000000") // 1e27
	halfRay      = new(big.Int).Rsh(ray, 1)
	yearNanos    = big.NewInt(int64(365 * 24 * time.Hour))
)

func mustBigInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("loan: invalid ray constant " + s)
	}
	return v
}

func halfUp(x *big.Int) *big.Int {
	if x == nil || x.Sign() <= 0 {
		return big.NewInt(0)
	}
	h := new(big.Int).Add(x, big.NewInt(1))
	return h.Rsh(h, 1)
}

// accrue computes principal * rate * (to-from) / year using big.Int
// intermediates throughout (the Go analogue of native/lending's u128-safe
// multiply-then-divide), rounding half up. Returns zero if to <= from or
// rate is non-positive.
func accrue(principal *big.Int, rate *big.Rat, from, to time.Time) *big.Int {
	if principal == nil || principal.Sign() <= 0 || rate == nil || rate.Sign() <= 0 {
		return big.NewInt(0)
	}
	delta := to.Sub(from)
	if delta <= 0 {
		return big.NewInt(0)
	}
	num := new(big.Int).Mul(principal, rate.Num())
	num.Mul(num, big.NewInt(int64(delta)))
	den := new(big.Int).Mul(rate.Denom(), yearNanos)
	if den.Sign() == 0 {
		return big.NewInt(0)
	}
	num.Add(num, halfUp(den))
	return num.Quo(num, den)
}

// timeForAccrual inverts accrue: given a partial payment amount known to be
// less than the full accrual between from and to, returns the timestamp at
// which accrual(from, t) == paid, clamped to [from, to]. Used to advance a
// paid-through cursor on a partial payment.
func timeForAccrual(principal *big.Int, rate *big.Rat, from, to time.Time, paid *big.Int) time.Time {
	if paid == nil || paid.Sign() <= 0 {
		return from
	}
	full := accrue(principal, rate, from, to)
	if full.Sign() <= 0 {
		return from
	}
	if paid.Cmp(full) >= 0 {
		return to
	}
	span := to.Sub(from)
	scaled := new(big.Int).Mul(paid, big.NewInt(int64(span)))
	scaled.Add(scaled, halfUp(full))
	nanos := new(big.Int).Quo(scaled, full).Int64()
	return from.Add(time.Duration(nanos))
}
