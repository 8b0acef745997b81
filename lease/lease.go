package lease

import (
	"time"

	"leasevault/coin"
	"leasevault/crypto"
	"leasevault/dex"
	"leasevault/loan"
	"leasevault/oracle"
	"leasevault/position"
)

// Lease is one customer's leveraged position together with the loan that
// funds it and the interchain coordinator that moves funds on its behalf.
// It is the aggregate root the leaser factory instantiates and the host
// contract's Execute/Sudo/Query entry points operate on.
type Lease struct {
	Addr     crypto.Address // this lease instance's own address
	Customer crypto.Address

	Position position.Position
	Loan     *loan.Loan

	Oracle      oracle.Service
	Coordinator *dex.Coordinator

	State State

	// lastLegAmount is the amount most recently handed to the coordinator
	// for the in-flight ICTx (if any): the input to a TransferOut/SwapExactIn
	// or the output of a TransferIn. It lets OnIctxTimeout retry the exact
	// same leg and OnIctxError reverse an opening that failed partway
	// through, without the host needing to replay the original request.
	lastLegAmount coin.Coin
}

// New constructs a lease at StatusRequestLoan, the state every lease starts
// in before its opening ICTx sequence begins.
func New(addr, customer crypto.Address, pos position.Position, ln *loan.Loan, oracleSvc oracle.Service, coord *dex.Coordinator) *Lease {
	return &Lease{
		Addr:        addr,
		Customer:    customer,
		Position:    pos,
		Loan:        ln,
		Oracle:      oracleSvc,
		Coordinator: coord,
		State:       State{Status: StatusRequestLoan},
	}
}

// Due reports the loan's current amounts owed, a thin pass-through kept on
// Lease so callers never need to reach into the loan field directly for the
// query surface's `lease_status` projection (§6).
func (l *Lease) Due(now time.Time) (loan.Due, error) {
	return l.Loan.State(now)
}

// Evaluate runs §4.2's full debt decision procedure for this lease at now,
// combining the loan's liability status with the asset's current LPN value.
func (l *Lease) Evaluate(now time.Time) (position.Debt, error) {
	totalLPN, overdueLPN, err := l.Loan.LiabilityStatus(now)
	if err != nil {
		return position.Debt{}, err
	}
	p, err := l.Oracle.PriceOf(l.Position.LeaseAmount.Ticker())
	if err != nil {
		return position.Debt{}, err
	}
	return position.Evaluate(
		l.Position.Spec,
		totalLPN.Int64(),
		overdueLPN.Int64(),
		l.Position.LeaseAmount,
		p,
		now,
		l.Loan.GracePeriodEnd(),
	)
}
