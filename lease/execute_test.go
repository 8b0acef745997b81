package lease

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leasevault/coin"
	"leasevault/currency"
	"leasevault/dex"
	"leasevault/position"
)

func newTestCoordinator() *dex.Coordinator {
	return dex.NewCoordinator(dex.Account{ConnectionID: "connection-0"}, time.Millisecond, nil)
}

func testRegistry(t *testing.T) *currency.Registry {
	t.Helper()
	reg := currency.NewRegistry()
	reg.MustRegister(currency.Descriptor{Ticker: leaseAsset, BankSymbol: "ibc/asset", DexSymbol: "uasset", Groups: currency.GroupLeaseAssets})
	reg.MustRegister(currency.Descriptor{Ticker: lpn, BankSymbol: "ibc/lpn", DexSymbol: "ulpn", Groups: currency.GroupLpns})
	return reg
}

func TestExecute_RepayInLPN_AppliesDirectly(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()
	l.State = State{Status: StatusOpenedActive}

	funds := coin.MustNew(big.NewInt(1_000), lpn)
	batch, err := l.Execute(ExecuteMsg{Repay: &RepayCmd{}}, funds, testRegistry(t), now)
	require.NoError(t, err)
	require.Len(t, batch.Events, 1)
	require.Equal(t, EventTypeRepay, batch.Events[0].Type)
}

func TestExecute_PriceAlarm_RequestLoanRejected(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()

	_, err := l.Execute(ExecuteMsg{PriceAlarm: &struct{}{}}, coin.Coin{}, testRegistry(t), now)
	require.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestExecute_PriceAlarm_SilentAckDuringOpening(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()
	l.State = State{Status: StatusOpeningTransferOut, PendingRequestID: "req-1"}

	batch, err := l.Execute(ExecuteMsg{PriceAlarm: &struct{}{}}, coin.Coin{}, testRegistry(t), now)
	require.NoError(t, err)
	require.Empty(t, batch.Events)
	require.Empty(t, batch.Messages)
	require.Equal(t, StatusOpeningTransferOut, l.State.Status)
	require.Equal(t, "req-1", l.State.PendingRequestID)
}

func TestExecute_PriceAlarm_SilentAckWhenClosed(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()
	l.State = State{Status: StatusClosed}

	batch, err := l.Execute(ExecuteMsg{TimeAlarm: &struct{}{}}, coin.Coin{}, testRegistry(t), now)
	require.NoError(t, err)
	require.Empty(t, batch.Events)
	require.Equal(t, StatusClosed, l.State.Status)
}

func TestExecute_TimeAlarm_HealthyLeaseReregistersAlarms(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()
	l.State = State{Status: StatusOpenedActive}

	batch, err := l.Execute(ExecuteMsg{TimeAlarm: &struct{}{}}, coin.Coin{}, testRegistry(t), now)
	require.NoError(t, err)
	require.Empty(t, batch.Events)
	require.Equal(t, StatusOpenedActive, l.State.Status)
	require.Equal(t, position.ZoneNoWarnings, l.State.LastZone)
}

func TestExecute_ClosePosition_DecodesAmountAndRoutesToClosing(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()
	l.State = State{Status: StatusOpenedActive}

	cmd := ClosePositionCmd{Amount: coin.NewDTO(coin.MustNew(big.NewInt(100_000), leaseAsset))}
	batch, err := l.Execute(ExecuteMsg{ClosePosition: &cmd}, coin.Coin{}, testRegistry(t), now)
	require.NoError(t, err)
	require.NotEmpty(t, batch.Messages)
	require.Equal(t, StatusClosing, l.State.Status)
}

func TestExecute_UnrecognizedVariant(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()

	_, err := l.Execute(ExecuteMsg{}, coin.Coin{}, testRegistry(t), now)
	require.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestSudo_Timeout_RetriesRegisterAccountWhenNoLegSent(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()

	openBatch, err := l.Open(now)
	require.NoError(t, err)
	require.Len(t, openBatch.Messages, 1)
	reqID := l.State.PendingRequestID

	batch, err := l.Sudo(SudoMsg{Timeout: &SudoTimeout{Request: reqID}}, now)
	require.NoError(t, err)
	require.Len(t, batch.Messages, 1)
	require.Equal(t, StatusOpeningTransferOut, l.State.Status)
	require.NotEqual(t, reqID, l.State.PendingRequestID)
}

func TestSudo_Error_AbortsOpeningWhenNoLegSent(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()

	_, err := l.Open(now)
	require.NoError(t, err)
	reqID := l.State.PendingRequestID

	batch, err := l.Sudo(SudoMsg{Error: &SudoError{Request: reqID, Details: "dex unreachable"}}, now)
	require.NoError(t, err)
	require.Equal(t, StatusClosed, l.State.Status)
	require.Len(t, batch.Events, 1)
	require.Equal(t, EventTypeClose, batch.Events[0].Type)
}

func TestSudo_Error_AbortsOpeningByReversingTheLastLeg(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()
	lpnAmount := coin.MustNew(big.NewInt(1_857_142), lpn)
	l.lastLegAmount = lpnAmount
	inFlight, err := l.Coordinator.TransferOut(lpnAmount)
	require.NoError(t, err)
	l.State = State{Status: StatusOpeningTransferOut, PendingRequestID: inFlight.RequestID}

	batch, err := l.Sudo(SudoMsg{Error: &SudoError{Request: inFlight.RequestID, Details: "swap failed"}}, now)
	require.NoError(t, err)
	require.Equal(t, StatusPaidClosingTransferIn, l.State.Status)
	require.Len(t, batch.Messages, 1)
}

func TestSudo_Error_DefersRepaymentToNextAlarm(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()
	l.lastLegAmount = coin.MustNew(big.NewInt(500), lpn)
	inFlight, err := l.Coordinator.TransferOut(l.lastLegAmount)
	require.NoError(t, err)
	l.State = State{Status: StatusRepaymentTransferOut, PendingRequestID: inFlight.RequestID}

	batch, err := l.Sudo(SudoMsg{Error: &SudoError{Request: inFlight.RequestID, Details: "timeout"}}, now)
	require.NoError(t, err)
	require.Equal(t, StatusOpenedActive, l.State.Status)
	require.Empty(t, batch.Messages)
}

func TestSudo_Error_UnsupportedForTerminalStatus(t *testing.T) {
	now := time.Now()
	l, _ := newS1Lease(t, now)
	l.Coordinator = newTestCoordinator()
	inFlight, err := l.Coordinator.RegisterAccount()
	require.NoError(t, err)
	l.State = State{Status: StatusClosed}

	_, err = l.Sudo(SudoMsg{Error: &SudoError{Request: inFlight.RequestID, Details: "x"}}, now)
	require.Error(t, err)
}
