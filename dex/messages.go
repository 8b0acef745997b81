// Package dex implements the interchain/DEX coordinator (§4.3): the four
// ICTx primitives a lease issues against its interchain account, their
// sudo callbacks, and the retry/abort policy around IBC timeouts. It
// generalizes native/swap's oracle-quote request/response shape (a single
// outstanding request correlated by an id, resolved by a later callback)
// from a quote-fetch round trip to a full ICTx lifecycle with timeout and
// error recovery.
package dex

import (
	"leasevault/coin"
	"leasevault/currency"
)

// RegisterAccountMsg asks the host to open an interchain account over
// connection_id; issued once per lease at opening.
type RegisterAccountMsg struct {
	RequestID    string
	ConnectionID string
}

func (m *RegisterAccountMsg) MessageKind() string { return "dex.register_account" }

// TransferOutMsg is an IBC fungible-token transfer from the lease's local
// balance to the DEX-chain host account.
type TransferOutMsg struct {
	RequestID string
	Channel   string
	Amount    coin.Coin
	Receiver  string
	TimeoutNS uint64
}

func (m *TransferOutMsg) MessageKind() string { return "dex.transfer_out" }

// SwapExactInMsg carries a DEX-specific swap request; Path is resolved from
// the oracle's swap tree for (in, out) at request time.
type SwapExactInMsg struct {
	RequestID  string
	HostAccount string
	Path       []currency.Ticker
	InCoin     coin.Coin
	MinOut     coin.Coin
}

func (m *SwapExactInMsg) MessageKind() string { return "dex.swap_exact_in" }

// TransferInMsg is the reverse IBC transfer, from the DEX-chain host
// account back to the lease.
type TransferInMsg struct {
	RequestID string
	Channel   string
	Amount    coin.Coin
	Receiver  string
	TimeoutNS uint64
}

func (m *TransferInMsg) MessageKind() string { return "dex.transfer_in" }

// Response is the successful sudo callback payload for any of the four
// primitives above, correlated by RequestID.
type Response struct {
	RequestID string
	Data      []byte
}

// Timeout is the sudo callback fired when an ICTx's packet lifetime
// expires before an acknowledgement arrives.
type Timeout struct {
	RequestID string
}

// ErrorAck is the sudo callback fired when the remote chain rejected the
// ICTx (e.g. the DEX returned a swap execution error).
type ErrorAck struct {
	RequestID string
	Details   string
}
