package lease

import (
	"math/big"
	"time"

	"leasevault/coin"
	"leasevault/core/types"
	"leasevault/dex"
	"leasevault/position"
	"leasevault/price"
)

func (l *Lease) requireStatus(want Status) error {
	if l.State.Status != want {
		return ErrUnsupportedOperation
	}
	return nil
}

// Open begins the opening sequence (§4.4 step 1): it registers the
// lease's interchain account and parks in OpeningTransferOut awaiting the
// acknowledgement that carries the account's remote address.
func (l *Lease) Open(now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusRequestLoan); err != nil {
		return batch, err
	}
	msg, err := l.Coordinator.RegisterAccount()
	if err != nil {
		return batch, err
	}
	l.State = State{Status: StatusOpeningTransferOut, PendingRequestID: msg.RequestID}
	batch.Send(msg)
	return batch, nil
}

// OnAccountRegistered completes step 1: the interchain account's resolved
// channel and host address are recorded and the principal-plus-downpayment
// transfer (step 2) is issued, still within OpeningTransferOut.
func (l *Lease) OnAccountRegistered(resp dex.Response, transferChannel, hostAddress string, lpnAmount coin.Coin) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusOpeningTransferOut); err != nil {
		return batch, err
	}
	if err := l.Coordinator.OnResponse(resp); err != nil {
		return batch, err
	}
	if lpnAmount.Ticker() != l.Loan.LPN() {
		return batch, ErrUnknownCurrency
	}
	l.Coordinator.SetAccount(transferChannel, hostAddress)
	msg, err := l.Coordinator.TransferOut(lpnAmount)
	if err != nil {
		return batch, err
	}
	l.lastLegAmount = lpnAmount
	l.State = State{Status: StatusOpeningTransferOut, PendingRequestID: msg.RequestID}
	batch.Send(msg)
	return batch, nil
}

// OnOpeningTransferOutResponse advances to the buy-asset leg (step 3) once
// the principal has landed on the DEX-chain account. transferredLPN is the
// amount the host decoded from the ICTx acknowledgement.
func (l *Lease) OnOpeningTransferOutResponse(resp dex.Response, transferredLPN coin.Coin) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusOpeningTransferOut); err != nil {
		return batch, err
	}
	if err := l.Coordinator.OnResponse(resp); err != nil {
		return batch, err
	}
	path, err := l.Oracle.SwapPath(transferredLPN.Ticker(), l.Position.Spec.Asset)
	if err != nil {
		return batch, err
	}
	msg, err := l.Coordinator.SwapExactIn(path, transferredLPN)
	if err != nil {
		return batch, err
	}
	l.lastLegAmount = transferredLPN
	l.State = State{Status: StatusBuyAsset, PendingRequestID: msg.RequestID}
	batch.Send(msg)
	return batch, nil
}

// OnBuyAssetResponse advances to the final opening leg, bringing the
// purchased asset back onto the lease's own chain.
func (l *Lease) OnBuyAssetResponse(resp dex.Response, boughtAsset coin.Coin) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusBuyAsset); err != nil {
		return batch, err
	}
	if err := l.Coordinator.OnResponse(resp); err != nil {
		return batch, err
	}
	msg, err := l.Coordinator.TransferIn(boughtAsset, l.Addr.String())
	if err != nil {
		return batch, err
	}
	l.lastLegAmount = boughtAsset
	l.State = State{Status: StatusOpeningTransferIn, PendingRequestID: msg.RequestID}
	batch.Send(msg)
	return batch, nil
}

// OnOpeningTransferInResponse completes the opening sequence (§4.4 step 5):
// the lease records its asset holding, registers its initial time and
// price alarms, and becomes active.
func (l *Lease) OnOpeningTransferInResponse(resp dex.Response, assetReceived coin.Coin, loanAmount, downpayment string, now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusOpeningTransferIn); err != nil {
		return batch, err
	}
	if err := l.Coordinator.OnResponse(resp); err != nil {
		return batch, err
	}
	l.Position.LeaseAmount = assetReceived
	zone, err := l.currentZone(now)
	if err != nil {
		return batch, err
	}
	l.State = State{Status: StatusOpenedActive, LastZone: zone}
	if err := l.RegisterAlarms(now); err != nil {
		return batch, err
	}
	batch.Emit(NewOpenEvent(l.Addr.String(), l.Customer.String(), uint32(l.Position.Spec.Liability.Init), string(l.Position.Spec.Asset), string(l.Loan.LPN()), loanAmount, downpayment))
	return batch, nil
}

// Repay applies a customer payment against the loan. A payment already
// denominated in LPN is applied immediately; any other payment-group
// currency is routed through the repayment ICTx sequence first.
func (l *Lease) Repay(payment coin.Coin, now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusOpenedActive); err != nil {
		return batch, err
	}
	if payment.IsZero() {
		return batch, ErrZeroPayment
	}
	if payment.Ticker() == l.Loan.LPN() {
		receipt, err := l.Loan.Repay(payment, now)
		if err != nil {
			return batch, err
		}
		batch.Emit(NewRepayEvent(l.Customer.String(), string(payment.Ticker()), payment.Amount().String(), receipt))
		if receipt.Close {
			l.State = State{Status: StatusPaid}
		}
		return batch, nil
	}
	msg, err := l.Coordinator.TransferOut(payment)
	if err != nil {
		return batch, err
	}
	l.lastLegAmount = payment
	l.State = State{Status: StatusRepaymentTransferOut, PendingRequestID: msg.RequestID}
	batch.Send(msg)
	return batch, nil
}

// OnRepaymentTransferOutResponse advances to the buy-LPN leg once the
// foreign-currency payment has landed on the DEX-chain account.
func (l *Lease) OnRepaymentTransferOutResponse(resp dex.Response, transferredAmount coin.Coin) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusRepaymentTransferOut); err != nil {
		return batch, err
	}
	if err := l.Coordinator.OnResponse(resp); err != nil {
		return batch, err
	}
	path, err := l.Oracle.SwapPath(transferredAmount.Ticker(), l.Loan.LPN())
	if err != nil {
		return batch, err
	}
	msg, err := l.Coordinator.SwapExactIn(path, transferredAmount)
	if err != nil {
		return batch, err
	}
	l.lastLegAmount = transferredAmount
	l.State = State{Status: StatusBuyLpn, PendingRequestID: msg.RequestID}
	batch.Send(msg)
	return batch, nil
}

// OnBuyLpnResponse advances to the final repayment leg, bringing the
// purchased LPN back onto the lease's own chain.
func (l *Lease) OnBuyLpnResponse(resp dex.Response, boughtLPN coin.Coin) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusBuyLpn); err != nil {
		return batch, err
	}
	if err := l.Coordinator.OnResponse(resp); err != nil {
		return batch, err
	}
	msg, err := l.Coordinator.TransferIn(boughtLPN, l.Addr.String())
	if err != nil {
		return batch, err
	}
	l.lastLegAmount = boughtLPN
	l.State = State{Status: StatusRepaymentTransferIn, PendingRequestID: msg.RequestID}
	batch.Send(msg)
	return batch, nil
}

// OnRepaymentTransferInResponse applies the recovered LPN against the loan,
// completing a foreign-currency repayment.
func (l *Lease) OnRepaymentTransferInResponse(resp dex.Response, receivedLPN coin.Coin, now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusRepaymentTransferIn); err != nil {
		return batch, err
	}
	if err := l.Coordinator.OnResponse(resp); err != nil {
		return batch, err
	}
	receipt, err := l.Loan.Repay(receivedLPN, now)
	if err != nil {
		return batch, err
	}
	batch.Emit(NewRepayEvent(l.Customer.String(), string(receivedLPN.Ticker()), receivedLPN.Amount().String(), receipt))
	if receipt.Close {
		l.State = State{Status: StatusPaid}
		return batch, nil
	}
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

// ReleaseRemainingAsset, called once the loan is fully repaid (status
// Paid), returns whatever lease asset remains to the customer, or closes
// the lease immediately if nothing remains.
func (l *Lease) ReleaseRemainingAsset(now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusPaid); err != nil {
		return batch, err
	}
	if l.Position.LeaseAmount.IsZero() {
		l.State = State{Status: StatusClosed}
		batch.Emit(NewCloseEvent(l.Customer.String()))
		return batch, nil
	}
	msg, err := l.Coordinator.TransferIn(l.Position.LeaseAmount, l.Customer.String())
	if err != nil {
		return batch, err
	}
	l.lastLegAmount = l.Position.LeaseAmount
	l.State = State{Status: StatusPaidClosingTransferIn, PendingRequestID: msg.RequestID}
	batch.Send(msg)
	return batch, nil
}

// OnPaidClosingTransferInResponse closes the lease once the remaining asset
// has been delivered to the customer.
func (l *Lease) OnPaidClosingTransferInResponse(resp dex.Response) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusPaidClosingTransferIn); err != nil {
		return batch, err
	}
	if err := l.Coordinator.OnResponse(resp); err != nil {
		return batch, err
	}
	l.Position.LeaseAmount = coin.Zero(l.Position.LeaseAmount.Ticker())
	l.State = State{Status: StatusClosed}
	batch.Emit(NewCloseEvent(l.Customer.String()))
	return batch, nil
}

// Liquidate begins a triggered liquidation: the sized portion of the lease
// asset (or all of it, for a full liquidation) is sold for LPN.
func (l *Lease) Liquidate(debt position.Debt, now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusOpenedActive); err != nil {
		return batch, err
	}
	if debt.Kind != position.DebtBad {
		return batch, ErrUnsupportedOperation
	}
	liq := debt.Liquidation
	assetAmount, err := coin.New(big.NewInt(liq.Amount), l.Position.Spec.Asset)
	if err != nil {
		return batch, err
	}
	path, err := l.Oracle.SwapPath(l.Position.Spec.Asset, l.Loan.LPN())
	if err != nil {
		return batch, err
	}
	msg, err := l.Coordinator.SwapExactIn(path, assetAmount)
	if err != nil {
		return batch, err
	}
	ltv, err := l.ltvPermille(now)
	if err != nil {
		return batch, err
	}
	l.lastLegAmount = assetAmount
	l.State = State{Status: StatusLiquidating, LiquidatingAmount: liq.Amount, LiquidatingCause: liq.Cause.String(), PendingRequestID: msg.RequestID}
	batch.Send(msg)
	batch.Emit(NewLiquidationStartEvent(l.Customer.String(), ltv, liq.Cause.String()))
	return batch, nil
}

// OnLiquidatingResponse applies the liquidation proceeds against the loan
// and reduces the lease's asset holding, closing the lease if nothing of
// the asset remains.
func (l *Lease) OnLiquidatingResponse(resp dex.Response, receivedLPN coin.Coin, now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusLiquidating); err != nil {
		return batch, err
	}
	if err := l.Coordinator.OnResponse(resp); err != nil {
		return batch, err
	}
	soldAsset, err := coin.New(big.NewInt(l.State.LiquidatingAmount), l.Position.Spec.Asset)
	if err != nil {
		return batch, err
	}
	reduced, err := l.Position.Reduce(soldAsset)
	if err != nil {
		return batch, err
	}
	l.Position = reduced
	if _, err := l.Loan.Repay(receivedLPN, now); err != nil {
		return batch, err
	}
	ltv, err := l.ltvPermille(now)
	if err != nil {
		return batch, err
	}
	cause := l.State.LiquidatingCause
	if reduced.LeaseAmount.IsZero() {
		l.State = State{Status: StatusLiquidated}
		batch.Emit(NewLiquidationEvent(l.Customer.String(), ltv, cause))
		return batch, nil
	}
	zone, err := l.currentZone(now)
	if err != nil {
		return batch, err
	}
	l.State = State{Status: StatusOpenedActive, LastZone: zone}
	if err := l.RegisterAlarms(now); err != nil {
		return batch, err
	}
	batch.Emit(NewLiquidationEvent(l.Customer.String(), ltv, cause))
	return batch, nil
}

// ClosePosition begins a customer-requested partial close: part of the
// lease asset is sold, leaving the loan untouched. The LPN received from
// the sale is neither repaid against the loan nor transferred to the
// customer by this package.
func (l *Lease) ClosePosition(amount coin.Coin, assetPriceLPN price.Price, now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusOpenedActive); err != nil {
		return batch, err
	}
	if err := position.ValidateClose(l.Position.Spec, l.Position.LeaseAmount, assetPriceLPN, amount); err != nil {
		return batch, err
	}
	path, err := l.Oracle.SwapPath(amount.Ticker(), l.Loan.LPN())
	if err != nil {
		return batch, err
	}
	msg, err := l.Coordinator.SwapExactIn(path, amount)
	if err != nil {
		return batch, err
	}
	l.lastLegAmount = amount
	l.State = State{Status: StatusClosing, ClosingAmount: amount.Amount().Int64(), PendingRequestID: msg.RequestID}
	batch.Send(msg)
	return batch, nil
}

// Close begins a full close: the entire lease asset is sold and the
// proceeds used to pay off the loan in one step.
func (l *Lease) Close(now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusOpenedActive); err != nil {
		return batch, err
	}
	path, err := l.Oracle.SwapPath(l.Position.Spec.Asset, l.Loan.LPN())
	if err != nil {
		return batch, err
	}
	msg, err := l.Coordinator.SwapExactIn(path, l.Position.LeaseAmount)
	if err != nil {
		return batch, err
	}
	l.lastLegAmount = l.Position.LeaseAmount
	l.State = State{Status: StatusClosing, ClosingAmount: l.Position.LeaseAmount.Amount().Int64(), PendingRequestID: msg.RequestID}
	batch.Send(msg)
	return batch, nil
}

// OnClosingResponse completes either flavor of close: if the amount sold
// was the lease's entire holding the proceeds pay off the loan and the
// lease terminates, otherwise the position merely shrinks.
func (l *Lease) OnClosingResponse(resp dex.Response, receivedLPN coin.Coin, now time.Time) (types.Batch, error) {
	var batch types.Batch
	if err := l.requireStatus(StatusClosing); err != nil {
		return batch, err
	}
	if err := l.Coordinator.OnResponse(resp); err != nil {
		return batch, err
	}
	soldAsset, err := coin.New(big.NewInt(l.State.ClosingAmount), l.Position.Spec.Asset)
	if err != nil {
		return batch, err
	}
	full, err := soldAsset.Cmp(l.Position.LeaseAmount)
	if err != nil {
		return batch, err
	}
	reduced, err := l.Position.Reduce(soldAsset)
	if err != nil {
		return batch, err
	}
	l.Position = reduced

	if full == 0 {
		receipt, err := l.Loan.Repay(receivedLPN, now)
		if err != nil {
			return batch, err
		}
		if !receipt.Close {
			return batch, ErrInsufficientPayment
		}
		l.State = State{Status: StatusClosed}
		batch.Emit(NewCloseEvent(l.Customer.String()))
		return batch, nil
	}

	zone, err := l.currentZone(now)
	if err != nil {
		return batch, err
	}
	l.State = State{Status: StatusOpenedActive, LastZone: zone}
	if err := l.RegisterAlarms(now); err != nil {
		return batch, err
	}
	batch.Emit(NewClosePositionEvent(l.Customer.String(), soldAsset.Amount().String()))
	return batch, nil
}

// ltvPermille computes the lease's current loan-to-value ratio for event
// reporting.
func (l *Lease) ltvPermille(now time.Time) (uint32, error) {
	totalLPN, _, err := l.Loan.LiabilityStatus(now)
	if err != nil {
		return 0, err
	}
	p, err := l.Oracle.PriceOf(l.Position.LeaseAmount.Ticker())
	if err != nil {
		return 0, err
	}
	leaseInLPN, err := p.Total(l.Position.LeaseAmount)
	if err != nil {
		return 0, err
	}
	if leaseInLPN.IsZero() {
		return uint32(position.PermilleMax), nil
	}
	return uint32((int64(position.PermilleMax) * totalLPN.Int64()) / leaseInLPN.Amount().Int64()), nil
}
