package lease

import (
	"time"

	"leasevault/coin"
	"leasevault/core/types"
	"leasevault/currency"
	"leasevault/dex"
)

// Execute is the lease contract's single execute entry point (§4.4,
// §6): it pattern-matches the populated ExecuteMsg variant and routes to
// the corresponding state-machine method, enforcing the whole permission
// table in one place rather than leaving each caller to remember which
// states accept which message. funds is whatever the host attached to the
// transaction (non-zero only for Repay); registry resolves ClosePosition's
// wire-form amount into a typed Coin.
func (l *Lease) Execute(msg ExecuteMsg, funds coin.Coin, registry *currency.Registry, now time.Time) (types.Batch, error) {
	switch {
	case msg.Repay != nil:
		return l.Repay(funds, now)

	case msg.ClosePosition != nil:
		amount, err := msg.ClosePosition.Amount.ToCoin(registry, currency.GroupLeaseAssets)
		if err != nil {
			return types.Batch{}, err
		}
		assetPrice, err := l.Oracle.PriceOf(amount.Ticker())
		if err != nil {
			return types.Batch{}, err
		}
		return l.ClosePosition(amount, assetPrice, now)

	case msg.FullClose != nil:
		return l.Close(now)

	case msg.Close != nil:
		return l.ReleaseRemainingAsset(now)

	case msg.PriceAlarm != nil:
		return l.onAlarm(now, l.HandlePriceAlarm)

	case msg.TimeAlarm != nil:
		return l.onAlarm(now, l.HandleTimeAlarm)

	default:
		return types.Batch{}, ErrUnsupportedOperation
	}
}

// onAlarm implements §4.4's alarm column uniformly across all fourteen
// states: RequestLoan rejects outright, OpenedActive runs the real handler,
// every other in-flight or terminal state silent-acks (accepted, no
// side effect) rather than attempting a re-registration that would either
// be meaningless (terminal) or fail outright (pre-open, zero asset amount).
func (l *Lease) onAlarm(now time.Time, handle func(time.Time) (types.Batch, error)) (types.Batch, error) {
	switch l.State.Status {
	case StatusRequestLoan:
		return types.Batch{}, ErrUnsupportedOperation
	case StatusOpenedActive:
		return handle(now)
	default:
		return types.Batch{}, nil
	}
}

// Sudo is the lease contract's single sudo entry point for ICTx callbacks
// (§4.3, §6). Response carries a host-decoded acknowledgement whose shape
// differs by in-flight step (e.g. the buy-asset response is a different
// payload than the transfer-in response), so the host calls the matching
// On*Response method directly once it has decoded Data; Sudo only routes
// the two callbacks that carry no step-specific payload.
func (l *Lease) Sudo(msg SudoMsg, now time.Time) (types.Batch, error) {
	switch {
	case msg.Timeout != nil:
		return l.OnIctxTimeout(msg.Timeout.Request, now)
	case msg.Error != nil:
		return l.OnIctxError(msg.Error.Request, msg.Error.Details, now)
	case msg.Response != nil:
		return types.Batch{}, ErrUnsupportedOperation
	default:
		return types.Batch{}, ErrUnsupportedOperation
	}
}

// OnIctxError implements §4.3's DEX-error failure policy: abort and reverse
// the transfer during opening, defer to the next alarm during repayment or
// an in-progress liquidation/close.
func (l *Lease) OnIctxError(requestID, details string, now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.Coordinator.OnError(dex.ErrorAck{RequestID: requestID, Details: details}); err != nil {
		return batch, err
	}
	switch l.State.Status {
	case StatusOpeningTransferOut, StatusBuyAsset, StatusOpeningTransferIn:
		return l.abortOpening(now)
	case StatusRepaymentTransferOut, StatusBuyLpn, StatusRepaymentTransferIn, StatusLiquidating, StatusClosing:
		return l.dropToOpenedActive(now)
	default:
		return batch, ErrUnsupportedOperation
	}
}

// abortOpening reverses whatever the lease last sent to the DEX-chain
// account back to the customer and winds the lease down, implementing
// §4.3's "returning downpayment + loan to customer" recovery. Nothing has
// left the lease's own chain yet if no leg has been sent (still awaiting
// the RegisterAccount ack), so that case closes immediately instead of
// issuing a reversal ICTx.
func (l *Lease) abortOpening(now time.Time) (types.Batch, error) {
	var batch types.Batch
	if l.lastLegAmount.IsZero() {
		l.State = State{Status: StatusClosed}
		batch.Emit(NewCloseEvent(l.Customer.String()))
		return batch, nil
	}
	msg, err := l.Coordinator.TransferIn(l.lastLegAmount, l.Customer.String())
	if err != nil {
		return batch, err
	}
	l.State = State{Status: StatusPaidClosingTransferIn, PendingRequestID: msg.RequestID}
	batch.Send(msg)
	return batch, nil
}

// dropToOpenedActive abandons the in-flight repayment/liquidation/close
// attempt and returns the lease to OpenedActive with its alarms
// re-registered: the condition that drove the attempt (a repayment owed, a
// triggered liquidation, a close policy) re-surfaces on the next alarm or
// customer call, implementing §4.3's "retries on the next alarm" policy
// without needing to replay the exact failed swap.
func (l *Lease) dropToOpenedActive(now time.Time) (types.Batch, error) {
	var batch types.Batch
	zone, err := l.currentZone(now)
	if err != nil {
		return batch, err
	}
	l.State = State{Status: StatusOpenedActive, LastZone: zone}
	if err := l.RegisterAlarms(now); err != nil {
		return batch, err
	}
	return batch, nil
}

// OnIctxTimeout implements §4.3's timeout policy: if the coordinator's
// backoff limiter allows a retry now, resolve the outstanding request and
// reissue the same in-flight leg. Never reorders or drops the in-flight
// state: a disallowed retry simply leaves the lease parked where it was for
// a later Timeout delivery to retry again.
func (l *Lease) OnIctxTimeout(requestID string, now time.Time) (types.Batch, error) {
	var batch types.Batch
	retryAllowed, err := l.Coordinator.OnTimeout(dex.Timeout{RequestID: requestID}, now)
	if err != nil {
		return batch, err
	}
	if !retryAllowed {
		return batch, nil
	}
	return l.retryOutstandingLeg(now)
}

// retryOutstandingLeg reissues the ICTx for the lease's current in-flight
// status using lastLegAmount, the amount recorded when that leg was first
// sent.
func (l *Lease) retryOutstandingLeg(now time.Time) (types.Batch, error) {
	var batch types.Batch
	switch l.State.Status {
	case StatusOpeningTransferOut:
		if l.lastLegAmount.IsZero() {
			msg, err := l.Coordinator.RegisterAccount()
			if err != nil {
				return batch, err
			}
			l.State.PendingRequestID = msg.RequestID
			batch.Send(msg)
			return batch, nil
		}
		msg, err := l.Coordinator.TransferOut(l.lastLegAmount)
		if err != nil {
			return batch, err
		}
		l.State.PendingRequestID = msg.RequestID
		batch.Send(msg)
		return batch, nil

	case StatusBuyAsset:
		path, err := l.Oracle.SwapPath(l.lastLegAmount.Ticker(), l.Position.Spec.Asset)
		if err != nil {
			return batch, err
		}
		msg, err := l.Coordinator.SwapExactIn(path, l.lastLegAmount)
		if err != nil {
			return batch, err
		}
		l.State.PendingRequestID = msg.RequestID
		batch.Send(msg)
		return batch, nil

	case StatusOpeningTransferIn, StatusRepaymentTransferIn:
		msg, err := l.Coordinator.TransferIn(l.lastLegAmount, l.Addr.String())
		if err != nil {
			return batch, err
		}
		l.State.PendingRequestID = msg.RequestID
		batch.Send(msg)
		return batch, nil

	case StatusRepaymentTransferOut:
		msg, err := l.Coordinator.TransferOut(l.lastLegAmount)
		if err != nil {
			return batch, err
		}
		l.State.PendingRequestID = msg.RequestID
		batch.Send(msg)
		return batch, nil

	case StatusBuyLpn, StatusLiquidating, StatusClosing:
		path, err := l.Oracle.SwapPath(l.lastLegAmount.Ticker(), l.Loan.LPN())
		if err != nil {
			return batch, err
		}
		msg, err := l.Coordinator.SwapExactIn(path, l.lastLegAmount)
		if err != nil {
			return batch, err
		}
		l.State.PendingRequestID = msg.RequestID
		batch.Send(msg)
		return batch, nil

	case StatusPaidClosingTransferIn:
		msg, err := l.Coordinator.TransferIn(l.lastLegAmount, l.Customer.String())
		if err != nil {
			return batch, err
		}
		l.State.PendingRequestID = msg.RequestID
		batch.Send(msg)
		return batch, nil

	default:
		return batch, ErrUnsupportedOperation
	}
}
