package lease

import (
	"leasevault/coin"
)

// ExecuteMsg is the tagged union of execute entry points a lease accepts,
// matching the wire shape of §6 (JSON, snake_case, one variant populated).
type ExecuteMsg struct {
	Repay         *RepayCmd         `json:"repay,omitempty"`
	ClosePosition *ClosePositionCmd `json:"close_position,omitempty"`
	FullClose     *struct{}         `json:"full_close,omitempty"`
	Close         *struct{}         `json:"close,omitempty"`
	PriceAlarm    *struct{}         `json:"price_alarm,omitempty"`
	TimeAlarm     *struct{}         `json:"time_alarm,omitempty"`
}

// RepayCmd carries no fields of its own; the payment is the attached funds
// on the host transaction, decoded separately by the caller.
type RepayCmd struct{}

// ClosePositionCmd is a customer-requested partial close by asset amount.
type ClosePositionCmd struct {
	Amount coin.DTO `json:"amount"`
}

// SudoMsg is the tagged union of ICTx callbacks a lease's sudo entry point
// accepts.
type SudoMsg struct {
	Response *SudoResponse `json:"response,omitempty"`
	Timeout  *SudoTimeout  `json:"timeout,omitempty"`
	Error    *SudoError    `json:"error,omitempty"`
}

type SudoResponse struct {
	Request string `json:"request"`
	Data    []byte `json:"data"`
}

type SudoTimeout struct {
	Request string `json:"request"`
}

type SudoError struct {
	Request string `json:"request"`
	Details string `json:"details"`
}

// QueryMsg is the tagged union of query entry points; State is the only
// query this contract supports.
type QueryMsg struct {
	State *struct{} `json:"state,omitempty"`
}

// StateResponse is the tagged union returned by QueryMsg::State, one
// variant per non-ICTx-in-flight lease phase plus a generic InProgress
// marker for the ICTx-in-flight phases, matching §6.
type StateResponse struct {
	Opened     *OpenedState `json:"opened,omitempty"`
	Paid       *PaidState   `json:"paid,omitempty"`
	Closed     *struct{}    `json:"closed,omitempty"`
	Liquidated *struct{}    `json:"liquidated,omitempty"`
}

// OpenedState is the query projection of an active lease's accounting.
type OpenedState struct {
	Amount              coin.DTO `json:"amount"`
	LoanInterestRate    string   `json:"loan_interest_rate"`
	MarginInterestRate  string   `json:"margin_interest_rate"`
	PrincipalDue        string   `json:"principal_due"`
	PreviousMarginDue   string   `json:"previous_margin_due"`
	PreviousInterestDue string   `json:"previous_interest_due"`
	CurrentMarginDue    string   `json:"current_margin_due"`
	CurrentInterestDue  string   `json:"current_interest_due"`
	OverdueCollectIn    string   `json:"overdue_collect_in"`
	Validity            string   `json:"validity"`
	InProgress          string   `json:"in_progress,omitempty"`
}

// PaidState is the query projection once the loan is fully repaid but the
// remaining asset has not yet been released.
type PaidState struct {
	Amount     coin.DTO `json:"amount"`
	InProgress string   `json:"in_progress,omitempty"`
}

// LoanForm is the loan-side parameters embedded in a NewLeaseForm.
type LoanForm struct {
	LPP                 string `json:"lpp"`
	Profit              string `json:"profit"`
	AnnualMarginInterest string `json:"annual_margin_interest"`
	DuePeriodNanos      int64  `json:"due_period"`
}

// TransferChannel names the IBC endpoints the lease transfers funds over.
type TransferChannel struct {
	LocalEndpoint  string `json:"local_endpoint"`
	RemoteEndpoint string `json:"remote_endpoint"`
}

// DexForm is the interchain-account parameters embedded in a NewLeaseForm.
type DexForm struct {
	ConnectionID    string          `json:"connection_id"`
	TransferChannel TransferChannel `json:"transfer_channel"`
}

// NewLeaseForm is the leaser-to-lease instantiate payload (§6), the
// complete parameter set a freshly spawned lease contract needs before its
// first Open call.
type NewLeaseForm struct {
	Customer        string   `json:"customer"`
	Currency        string   `json:"currency"`
	MaxLTD          *uint32  `json:"max_ltd,omitempty"`
	PositionSpec    string   `json:"position_spec"`
	Loan            LoanForm `json:"loan"`
	Reserve         string   `json:"reserve"`
	TimeAlarms      string   `json:"time_alarms"`
	MarketPriceOracle string `json:"market_price_oracle"`
	Dex             DexForm  `json:"dex"`
}
