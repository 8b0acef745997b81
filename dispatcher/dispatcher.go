package dispatcher

import (
	"log/slog"
	"math/big"
	"time"

	"leasevault/coin"
	"leasevault/core/types"
	"leasevault/currency"
	"leasevault/lpp"
	"leasevault/position"
)

const secondsPerYear = 365 * 24 * 60 * 60

// Treasury is the out-of-scope collaborator (§1: "one-shot reward
// distribution math") that actually moves native currency; the dispatcher
// only decides how much and to whom, the same narrowing already applied to
// oracle and lpp.
type Treasury interface {
	SendRewards(to string, amount coin.Coin) error
}

// PoolTVL is one configured protocol polled at dispatch (§4.7 step 1). To
// is the address credited and reported in the tr-rewards event; it is
// usually the LPP's own address but need not be.
type PoolTVL struct {
	Name       string
	To         string
	Pool       lpp.LPP
	OracleAddr string
}

// Dispatcher runs the periodic TVL-scaled reward mint across every
// configured protocol, aggregating their TVL into a single APR lookup
// before splitting the resulting reward back across protocols in
// proportion to their share (SPEC_FULL.md's multi-protocol generalization
// of §4.7 step 1).
type Dispatcher struct {
	Pools    []PoolTVL
	Schedule Schedule
	Treasury Treasury
	Native   currency.Ticker
	Cadence  time.Duration

	Logger *slog.Logger

	metrics *metrics
}

// New constructs a Dispatcher. Logger defaults to slog.Default() when nil.
func New(pools []PoolTVL, schedule Schedule, treasury Treasury, native currency.Ticker, cadence time.Duration, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		Pools: pools, Schedule: schedule, Treasury: treasury, Native: native, Cadence: cadence,
		Logger: logger, metrics: defaultMetrics(),
	}
}

// Dispatch implements §4.7's fire handler. It returns the outbound batch
// (one tr-rewards event per protocol paid) and the new last_dispatch value
// the caller must persist and use to re-arm the time alarm at
// now+Cadence.
func (d *Dispatcher) Dispatch(lastDispatch, now time.Time) (types.Batch, time.Time, error) {
	var batch types.Batch
	if now.Before(lastDispatch) {
		return batch, lastDispatch, ErrInvalidTimeConfiguration
	}

	type valued struct {
		pool PoolTVL
		tvl  *big.Int
	}
	valuedPools := make([]valued, 0, len(d.Pools))
	total := big.NewInt(0)
	for _, p := range d.Pools {
		bal, err := p.Pool.LppBalance(p.OracleAddr)
		if err != nil {
			return batch, lastDispatch, err
		}
		tvlCoin, err := bal.TVL()
		if err != nil {
			return batch, lastDispatch, err
		}
		amt := tvlCoin.Amount()
		valuedPools = append(valuedPools, valued{pool: p, tvl: amt})
		total.Add(total, amt)
	}

	if lastDispatch.IsZero() {
		d.Logger.Info("dispatcher: first dispatch, seeding last_dispatch without minting")
		return batch, now, nil
	}

	elapsed := now.Sub(lastDispatch)
	if elapsed <= 0 || total.Sign() == 0 {
		d.metrics.skippedZero.Inc()
		return batch, now, nil
	}

	rate := d.Schedule.RateAt(total)
	reward := rewardAmount(total, rate, elapsed)
	if reward.Sign() <= 0 {
		d.metrics.skippedZero.Inc()
		return batch, now, nil
	}

	for _, vp := range valuedPools {
		if vp.tvl.Sign() == 0 {
			continue
		}
		share := new(big.Int).Mul(reward, vp.tvl)
		share.Quo(share, total)
		if share.Sign() <= 0 {
			continue
		}
		payout, err := coin.New(share, d.Native)
		if err != nil {
			return batch, lastDispatch, err
		}
		if err := d.Treasury.SendRewards(vp.pool.To, payout); err != nil {
			return batch, lastDispatch, err
		}
		batch.Emit(NewRewardsEvent(vp.pool.To, payout))
		d.Logger.Info("dispatcher: reward distributed", "pool", vp.pool.Name, "to", vp.pool.To, "amount", payout.String())
	}
	d.metrics.rewardTotal.Add(toFloat(reward))

	return batch, now, nil
}

// NextTimeAlarm returns when the re-armed time alarm should next fire
// (§4.7 step 4).
func (d *Dispatcher) NextTimeAlarm(now time.Time) time.Time {
	return now.Add(d.Cadence)
}

// rewardAmount computes apr · tvl · elapsed (§4.7 step 3), with the annual
// rate expressed in per-mille and elapsed time reduced to a fraction of a
// 365-day year, following the same elapsed-scaled multiply-then-divide
// shape as core/rewards.Engine.UpdateGlobalIndex.
func rewardAmount(tvl *big.Int, rate position.Permille, elapsed time.Duration) *big.Int {
	seconds := big.NewInt(int64(elapsed / time.Second))
	reward := new(big.Int).Mul(tvl, seconds)
	reward.Mul(reward, big.NewInt(int64(rate)))
	reward.Quo(reward, big.NewInt(int64(position.PermilleMax)*secondsPerYear))
	return reward
}

func toFloat(v *big.Int) float64 {
	f := new(big.Float).SetInt(v)
	out, _ := f.Float64()
	return out
}
