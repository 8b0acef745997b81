package dispatcher_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"leasevault/coin"
	"leasevault/currency"
	"leasevault/dispatcher"
	"leasevault/lpp"
	"leasevault/position"
)

const lpn currency.Ticker = "LPN"
const native currency.Ticker = "NATIVE"

type fakePool struct {
	available coin.Coin
}

func (p fakePool) LppBalance(string) (lpp.Balance, error) {
	zero := coin.Zero(lpn)
	return lpp.Balance{Available: p.available, TotalPrincipalDue: zero, TotalInterestDue: zero}, nil
}
func (p fakePool) Quote(coin.Coin) (lpp.Quote, error)                { return lpp.Quote{}, nil }
func (p fakePool) OpenLoan(string, coin.Coin) (string, error)        { return "", nil }
func (p fakePool) RepayLoan(string, coin.Coin) error                 { return nil }
func (p fakePool) DistributeRewards(coin.Coin) error                 { return nil }
func (p fakePool) LPN() currency.Ticker                              { return lpn }

type fakeTreasury struct {
	paid map[string]coin.Coin
}

func (t *fakeTreasury) SendRewards(to string, amount coin.Coin) error {
	if t.paid == nil {
		t.paid = map[string]coin.Coin{}
	}
	t.paid[to] = amount
	return nil
}

func TestDispatch_SingleProtocol(t *testing.T) {
	pool := fakePool{available: coin.MustNew(big.NewInt(500_000_000), lpn)}
	treasury := &fakeTreasury{}
	sched := dispatcher.Schedule{Points: []dispatcher.SchedulePoint{{TVL: big.NewInt(0), Rate: 10}}}
	d := dispatcher.New([]dispatcher.PoolTVL{{Name: "lpp-1", To: "lease1lpp", Pool: pool, OracleAddr: "lease1oracle"}}, sched, treasury, native, 10*time.Hour, nil)

	last := time.Unix(1_700_000_000, 0)
	now := last.Add(10 * time.Hour)

	batch, newLast, err := d.Dispatch(last, now)
	require.NoError(t, err)
	require.Equal(t, now, newLast)
	require.Len(t, batch.Events, 1)
	require.Equal(t, dispatcher.EventTypeRewards, batch.Events[0].Type)

	paid, ok := treasury.paid["lease1lpp"]
	require.True(t, ok)
	require.Equal(t, native, paid.Ticker())

	elapsed := big.NewInt(int64((10 * time.Hour) / time.Second))
	expected := new(big.Int).Mul(big.NewInt(500_000_000), elapsed)
	expected.Mul(expected, big.NewInt(10))
	expected.Quo(expected, big.NewInt(int64(position.PermilleMax)*365*24*60*60))
	require.Equal(t, expected, paid.Amount())
}

func TestDispatch_ZeroRewardNoMessages(t *testing.T) {
	pool := fakePool{available: coin.Zero(lpn)}
	treasury := &fakeTreasury{}
	sched := dispatcher.Schedule{Points: []dispatcher.SchedulePoint{{TVL: big.NewInt(0), Rate: 10}}}
	d := dispatcher.New([]dispatcher.PoolTVL{{Name: "lpp-1", To: "lease1lpp", Pool: pool, OracleAddr: "lease1oracle"}}, sched, treasury, native, 10*time.Hour, nil)

	last := time.Unix(1_700_000_000, 0)
	now := last.Add(10 * time.Hour)

	batch, _, err := d.Dispatch(last, now)
	require.NoError(t, err)
	require.Empty(t, batch.Events)
	require.Empty(t, batch.Messages)
}

func TestDispatch_RejectsTimeGoingBackward(t *testing.T) {
	pool := fakePool{available: coin.MustNew(big.NewInt(500), lpn)}
	treasury := &fakeTreasury{}
	sched := dispatcher.Schedule{Points: []dispatcher.SchedulePoint{{TVL: big.NewInt(0), Rate: 10}}}
	d := dispatcher.New([]dispatcher.PoolTVL{{Name: "lpp-1", To: "lease1lpp", Pool: pool, OracleAddr: "lease1oracle"}}, sched, treasury, native, 10*time.Hour, nil)

	last := time.Unix(1_700_000_000, 0)
	now := last.Add(-time.Hour)

	_, _, err := d.Dispatch(last, now)
	require.ErrorIs(t, err, dispatcher.ErrInvalidTimeConfiguration)
}
