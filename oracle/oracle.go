// Package oracle declares the query surface this module consumes from the
// price-feed and alarm-dispatch service (§1: out of scope, its interface
// contract appears in §6). Aggregation, TWAP, staleness and deviation
// guarding live entirely on the other side of these interfaces; this
// package only types the boundary and supplies a ManualOracle test double,
// adapted from native/swap.ManualOracle, for unit tests and local
// development.
package oracle

import (
	"time"

	"leasevault/currency"
	"leasevault/price"
)

// PriceOracle is the read surface consumed by loan/position/lease alarm
// evaluation: `PriceOf { currency }` and `BaseCurrency` from §6.
type PriceOracle interface {
	// PriceOf returns the current price of c denominated in the oracle's
	// base currency (the LPN, in this protocol).
	PriceOf(c currency.Ticker) (price.Price, error)
	// BaseCurrency returns the currency every PriceOf quote is denominated
	// in.
	BaseCurrency() currency.Ticker
}

// SwapPathResolver exposes the `SwapPath { from, to }` query the DEX
// coordinator uses to route a swap request.
type SwapPathResolver interface {
	SwapPath(from, to currency.Ticker) ([]currency.Ticker, error)
}

// AlarmRegistrar is the `AddPriceAlarm { below, above? }` execute surface a
// lease calls when (re)registering its price alarm pair.
type AlarmRegistrar interface {
	AddPriceAlarm(lease string, below price.Price, above *price.Price) error
}

// Service bundles the three oracle-side surfaces a lease needs; production
// deployments hand the lease engine the host chain's oracle contract
// address wrapped in an adapter satisfying this interface.
type Service interface {
	PriceOracle
	SwapPathResolver
	AlarmRegistrar
}

// ErrNoQuote is returned by ManualOracle when no rate has been set for a
// currency pair.
type ErrNoQuote struct{ Base, Quote currency.Ticker }

func (e ErrNoQuote) Error() string {
	return "oracle: no quote for " + string(e.Base) + "/" + string(e.Quote)
}

// Quote pairs a Price with the time it was observed, mirroring
// native/swap/oracle.go's PriceQuote shape generalized from a decimal rate
// to the exact-ratio price.Price type.
type Quote struct {
	Price     price.Price
	Timestamp time.Time
}
