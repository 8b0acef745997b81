package leaser

import (
	"fmt"

	"leasevault/coin"
	"leasevault/core/types"
	"leasevault/currency"
	"leasevault/lease"
	"leasevault/lpp"
)

// Factory is the leaser contract's runtime state: its static config, the
// per-customer lease index, the LPP it quotes against, and the currency
// registry used to validate the draw amount it decodes back off its own
// pending-reply record.
type Factory struct {
	Config     Config
	Registry   *Registry
	Pool       lpp.LPP
	Currencies *currency.Registry
}

// NewFactory constructs a Factory.
func NewFactory(cfg Config, registry *Registry, pool lpp.LPP, currencies *currency.Registry) *Factory {
	return &Factory{Config: cfg, Registry: registry, Pool: pool, Currencies: currencies}
}

// OpenLease implements §4.6's instantiate flow: it reserves the customer's
// open-in-progress slot, computes a quote, and issues the lease
// instantiate message. The new lease's address is recorded against the
// customer only once OnInstantiateReply fires.
func (f *Factory) OpenLease(customer string, downpayment coin.Coin, leaseCurrency currency.Ticker, maxLTD *int64) (types.Batch, error) {
	var batch types.Batch
	if leaseCurrency != f.Config.LeaseAsset() {
		return batch, fmt.Errorf("leaser: currency %q is not this factory's configured lease asset %q", leaseCurrency, f.Config.LeaseAsset())
	}
	if err := f.Registry.ReservePending(customer); err != nil {
		return batch, err
	}
	quote, err := ComputeQuote(f.Config, f.Pool, downpayment, maxLTD)
	if err != nil {
		_ = f.Registry.ClearPending(customer)
		return batch, err
	}
	replyID, err := f.Registry.NextReplyID()
	if err != nil {
		_ = f.Registry.ClearPending(customer)
		return batch, err
	}
	if err := f.Registry.RecordPendingReply(replyID, customer, quote.Borrow); err != nil {
		_ = f.Registry.ClearPending(customer)
		return batch, err
	}

	form := lease.NewLeaseForm{
		Customer: customer,
		Currency: string(leaseCurrency),
		Loan: lease.LoanForm{
			LPP:                  f.Config.LPPAddress,
			Profit:               f.Config.ProfitAddress,
			AnnualMarginInterest: f.Config.AnnualMarginRate.FloatString(18),
			DuePeriodNanos:       int64(f.Config.DuePeriod),
		},
		Reserve:           f.Config.ReserveAddress,
		TimeAlarms:        f.Config.TimeAlarmsAddress,
		MarketPriceOracle: f.Config.OracleAddress,
		Dex: lease.DexForm{
			ConnectionID: f.Config.DexConnectionID,
		},
	}
	if maxLTD != nil {
		ltd := uint32(*maxLTD)
		form.MaxLTD = &ltd
	}

	batch.Send(&InstantiateLeaseMsg{
		CodeID:  f.Config.LeaseCodeID,
		ReplyID: replyID,
		Label:   fmt.Sprintf("lease/%s", customer),
		Form:    form,
	})
	return batch, nil
}

// QuoteLease answers the read-only feasibility query (§4.6 "Quote")
// without reserving anything or touching the registry.
func (f *Factory) QuoteLease(downpayment coin.Coin, maxLTD *int64) (Quote, error) {
	return ComputeQuote(f.Config, f.Pool, downpayment, maxLTD)
}

// OnInstantiateReply resolves a completed instantiate reply to its
// customer, draws the approved loan from the LPP on the new lease's
// behalf, and records the lease in the open-lease index.
func (f *Factory) OnInstantiateReply(replyID uint64, leaseAddr string) (loanRef string, err error) {
	customer, borrowDTO, err := f.Registry.ResolvePendingReply(replyID)
	if err != nil {
		return "", err
	}
	borrow, err := borrowDTO.ToCoin(f.Currencies, currency.GroupLpns)
	if err != nil {
		return "", err
	}
	loanRef, err = f.Pool.OpenLoan(leaseAddr, borrow)
	if err != nil {
		return "", err
	}
	if err := f.Registry.RecordOpened(customer, leaseAddr); err != nil {
		return "", err
	}
	return loanRef, nil
}

// FinalizeLease implements the lease's terminal callback into the factory:
// the lease is dropped from its customer's open set.
func (f *Factory) FinalizeLease(leaseAddr string) error {
	return f.Registry.FinalizeLease(leaseAddr)
}

// MigrateLeases implements §4.6's bounded migration sweep: it issues one
// MigrateLeaseMsg per lease address in the next page and returns the
// continuation token for the caller to resume with.
func (f *Factory) MigrateLeases(from []byte, batchSize int, newCodeID uint64) (types.Batch, []byte, error) {
	var batch types.Batch
	page, err := f.Registry.ListForMigration(from, batchSize)
	if err != nil {
		return batch, nil, err
	}
	for _, addr := range page.Leases {
		batch.Send(&MigrateLeaseMsg{LeaseAddr: addr, NewCodeID: newCodeID})
	}
	return batch, page.Next, nil
}
