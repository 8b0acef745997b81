package dex

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"leasevault/coin"
	"leasevault/currency"
)

// MaxICTxTimeout is the packet lifetime ceiling described in §4.3/§5: every
// IBC/ICTx send must carry a timeout strictly below the host's packet
// lookback window.
const MaxICTxTimeout = 7 * time.Minute

// Account describes the lease's DEX-chain interchain account, resolved
// once at RegisterAccount and held for the lease's lifetime.
type Account struct {
	ConnectionID  string
	TransferChannel string
	HostAddress   string
}

// ErrOutstandingRequest is returned when a new ICTx is requested while one
// is already in flight; §4.3's "at most one ICTx outstanding" rule.
var ErrOutstandingRequest = errors.New("dex: an ICTx is already outstanding for this lease")

// ErrNoOutstandingRequest is returned when a sudo callback arrives that does
// not correlate to any request the coordinator issued.
var ErrNoOutstandingRequest = errors.New("dex: no outstanding request to resolve")

// ErrRequestMismatch is returned when a sudo callback's request id does not
// match the single outstanding request.
var ErrRequestMismatch = errors.New("dex: sudo callback does not match the outstanding request")

// Coordinator issues ICTx primitives for a single lease and enforces the
// at-most-one-outstanding invariant plus the retry-after-alarm backoff on
// timeout. One Coordinator is owned by exactly one lease.
type Coordinator struct {
	account Account

	outstanding string // request id of the in-flight ICTx, "" if none

	retryLimiter *rate.Limiter
	metrics      *Metrics
}

// NewCoordinator constructs a coordinator bound to account, allowing at
// most one retry attempt per retryInterval after a channel-repair alarm.
// metrics may be nil, in which case observations are skipped.
func NewCoordinator(account Account, retryInterval time.Duration, metrics *Metrics) *Coordinator {
	return &Coordinator{
		account:      account,
		retryLimiter: rate.NewLimiter(rate.Every(retryInterval), 1),
		metrics:      metrics,
	}
}

// SetAccount records the interchain account's resolved transfer channel and
// host-chain address once RegisterAccount's acknowledgement arrives; every
// later TransferOut/TransferIn uses these values.
func (c *Coordinator) SetAccount(transferChannel, hostAddress string) {
	c.account.TransferChannel = transferChannel
	c.account.HostAddress = hostAddress
}

func (c *Coordinator) begin() (string, error) {
	if c.outstanding != "" {
		return "", ErrOutstandingRequest
	}
	id := uuid.NewString()
	c.outstanding = id
	c.metrics.ObserveOutstandingDelta(1)
	return id, nil
}

// RegisterAccount issues the account-registration ICTx.
func (c *Coordinator) RegisterAccount() (*RegisterAccountMsg, error) {
	id, err := c.begin()
	if err != nil {
		return nil, err
	}
	return &RegisterAccountMsg{RequestID: id, ConnectionID: c.account.ConnectionID}, nil
}

// TransferOut issues an IBC transfer from the lease to its DEX-chain
// account.
func (c *Coordinator) TransferOut(amount coin.Coin) (*TransferOutMsg, error) {
	id, err := c.begin()
	if err != nil {
		return nil, err
	}
	return &TransferOutMsg{
		RequestID: id,
		Channel:   c.account.TransferChannel,
		Amount:    amount,
		Receiver:  c.account.HostAddress,
		TimeoutNS: uint64(MaxICTxTimeout),
	}, nil
}

// SwapExactIn issues a swap ICTx for inCoin along path, accepting any
// non-zero output (min_out = 0 per §4.3).
func (c *Coordinator) SwapExactIn(path []currency.Ticker, inCoin coin.Coin) (*SwapExactInMsg, error) {
	id, err := c.begin()
	if err != nil {
		return nil, err
	}
	return &SwapExactInMsg{
		RequestID:   id,
		HostAccount: c.account.HostAddress,
		Path:        path,
		InCoin:      inCoin,
		MinOut:      coin.Zero(inCoin.Ticker()),
	}, nil
}

// TransferIn issues the reverse IBC transfer back to the lease.
func (c *Coordinator) TransferIn(amount coin.Coin, receiver string) (*TransferInMsg, error) {
	id, err := c.begin()
	if err != nil {
		return nil, err
	}
	return &TransferInMsg{
		RequestID: id,
		Channel:   c.account.TransferChannel,
		Amount:    amount,
		Receiver:  receiver,
		TimeoutNS: uint64(MaxICTxTimeout),
	}, nil
}

// Resolve clears the outstanding request after a Response, successful or
// not, validating correlation first.
func (c *Coordinator) resolve(requestID string) error {
	if c.outstanding == "" {
		return ErrNoOutstandingRequest
	}
	if c.outstanding != requestID {
		return ErrRequestMismatch
	}
	c.outstanding = ""
	c.metrics.ObserveOutstandingDelta(-1)
	return nil
}

// OnResponse resolves the outstanding request on success.
func (c *Coordinator) OnResponse(resp Response) error {
	return c.resolve(resp.RequestID)
}

// OnError resolves the outstanding request on a DEX-reported error.
func (c *Coordinator) OnError(e ErrorAck) error {
	return c.resolve(e.RequestID)
}

// OnTimeout reports whether a retry is permitted now under the
// coordinator's backoff limiter. When it is, the outstanding request is
// resolved so the caller can reissue the leg; when it is not, the request
// stays outstanding. Callers that get false should schedule a
// channel-repair time alarm and call OnTimeout again once it fires.
func (c *Coordinator) OnTimeout(t Timeout, now time.Time) (retryAllowed bool, err error) {
	if c.outstanding == "" {
		return false, ErrNoOutstandingRequest
	}
	if c.outstanding != t.RequestID {
		return false, ErrRequestMismatch
	}
	if !c.retryLimiter.AllowN(now, 1) {
		return false, nil
	}
	if err := c.resolve(t.RequestID); err != nil {
		return false, err
	}
	c.metrics.ObserveRetry()
	return true, nil
}

// Outstanding reports the in-flight request id, or "" if none.
func (c *Coordinator) Outstanding() string { return c.outstanding }
