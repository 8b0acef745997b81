// Package lease implements the per-lease state machine (§4.4): opening via
// a host-controlled interchain account and DEX swap, active servicing
// (repayment, price/time alarms, partial and full liquidation), and
// terminal close. Status-tagged payload structs with Sanitize/Clone
// hygiene and New*Event constructors mirror native/escrow's Escrow/Trade
// shape, generalized from a two/three-state escrow into the fourteen-state
// lease machine.
package lease

import (
	"fmt"

	"leasevault/position"
)

// Status discriminates the fourteen states of §3's LeaseState tagged
// union. Each non-trivial state's payload lives alongside it on State.
type Status int

const (
	StatusRequestLoan Status = iota
	StatusOpeningTransferOut
	StatusBuyAsset
	StatusOpeningTransferIn
	StatusOpenedActive
	StatusRepaymentTransferOut
	StatusBuyLpn
	StatusRepaymentTransferIn
	StatusLiquidating
	StatusClosing
	StatusPaid
	StatusPaidClosingTransferIn
	StatusClosed
	StatusLiquidated
)

func (s Status) String() string {
	switch s {
	case StatusRequestLoan:
		return "request_loan"
	case StatusOpeningTransferOut:
		return "opening_transfer_out"
	case StatusBuyAsset:
		return "buy_asset"
	case StatusOpeningTransferIn:
		return "opening_transfer_in"
	case StatusOpenedActive:
		return "opened_active"
	case StatusRepaymentTransferOut:
		return "repayment_transfer_out"
	case StatusBuyLpn:
		return "buy_lpn"
	case StatusRepaymentTransferIn:
		return "repayment_transfer_in"
	case StatusLiquidating:
		return "liquidating"
	case StatusClosing:
		return "closing"
	case StatusPaid:
		return "paid"
	case StatusPaidClosingTransferIn:
		return "paid_closing_transfer_in"
	case StatusClosed:
		return "closed"
	case StatusLiquidated:
		return "liquidated"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// IsTerminal reports whether s is Closed or Liquidated, per §3.
func (s Status) IsTerminal() bool {
	return s == StatusClosed || s == StatusLiquidated
}

// HasOutstandingICTx reports whether a lease in status s has an ICTx in
// flight. Sanitize uses it to decide whether PendingRequestID is kept; the
// at-most-one-outstanding rule itself is enforced by dex.Coordinator.
func (s Status) HasOutstandingICTx() bool {
	switch s {
	case StatusOpeningTransferOut, StatusBuyAsset, StatusOpeningTransferIn,
		StatusRepaymentTransferOut, StatusBuyLpn, StatusRepaymentTransferIn,
		StatusLiquidating, StatusClosing, StatusPaidClosingTransferIn:
		return true
	default:
		return false
	}
}

// State is the lease's tagged-union snapshot. Only the fields relevant to
// Status are meaningful; the others are zero.
type State struct {
	Status Status

	// Liquidating payload.
	LiquidatingAmount int64
	LiquidatingCause  string

	// Closing payload (customer- or policy-initiated partial close).
	ClosingAmount int64

	// Opening/repayment payload: the in-flight ICTx's request id, recorded
	// for inspection; sudo callbacks are correlated by dex.Coordinator
	// against its own outstanding id.
	PendingRequestID string

	// LastZone is the liability zone as of the lease's last alarm
	// evaluation while OpenedActive. Transitions build a fresh State, and
	// currentZone reseeds it whenever the lease lands back on OpenedActive,
	// so HandlePriceAlarm/HandleTimeAlarm can emit one
	// ls-liquidation-warning per zone crossed since the last check, rather
	// than only the final zone reached.
	LastZone position.Zone
}

// Sanitize clears payload fields that do not apply to Status, the same
// defensive clear-unused-fields-at-the-boundary idiom native/escrow applies
// to its EscrowStatus-shaped structs.
func (s State) Sanitize() State {
	if s.Status != StatusLiquidating {
		s.LiquidatingAmount = 0
		s.LiquidatingCause = ""
	}
	if s.Status != StatusClosing {
		s.ClosingAmount = 0
	}
	if !s.Status.HasOutstandingICTx() {
		s.PendingRequestID = ""
	}
	return s
}

// Clone returns an independent copy; State has no pointer/slice fields so a
// value copy suffices, but the method exists so call sites can copy a State
// without knowing that, the same Clone-everywhere convention native/escrow
// applies to its mutable status structs.
func (s State) Clone() State { return s }
