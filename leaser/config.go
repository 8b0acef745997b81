// Package leaser implements the lease factory (§4.6): a per-customer index
// of open lease addresses, lease instantiation from a quote, terminal
// finalization, and a paginated migration sweep over every known lease.
// It generalizes native/pos/registry.go's namespaced-key registry from
// merchant/device records to a customer-to-lease-set index.
package leaser

import (
	"math/big"
	"time"

	"leasevault/currency"
	"leasevault/position"
)

// Config is the factory's static configuration, held for the life of the
// contract and referenced by every OpenLease call.
type Config struct {
	LPPAddress           string
	LeaseCodeID          uint64
	AnnualMarginRate     *big.Rat
	PositionSpecTemplate position.Spec
	DuePeriod            time.Duration
	GracePeriod          time.Duration

	DexConnectionID string

	OracleAddress     string
	TimeAlarmsAddress string
	ProfitAddress     string
	ReserveAddress    string
}

// LeaseAsset reports the position spec template's asset currency,
// used to validate an OpenLease request's requested currency.
func (c Config) LeaseAsset() currency.Ticker { return c.PositionSpecTemplate.Asset }
