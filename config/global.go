package config

import (
	"fmt"
	"math/big"
	"time"

	"leasevault/currency"
	"leasevault/dispatcher"
	"leasevault/leaser"
	"leasevault/position"
)

// Liability converts the TOML-friendly percentages into a validated
// position.Liability, the one place this package reaches into the
// liability constructor's ordering check.
func (c Config) Liability() (position.Liability, error) {
	l := c.LiabilityCfg
	return position.NewLiability(
		position.Permille(l.InitPermille),
		position.Permille(l.HealthyPermille),
		position.Permille(l.FirstLiqWarnPermille),
		position.Permille(l.SecondLiqWarnPermille),
		position.Permille(l.ThirdLiqWarnPermille),
		position.Permille(l.MaxPermille),
		time.Duration(l.RecalculateHours)*time.Hour,
	)
}

// PositionSpec builds the position.Spec this deployment's leases share.
func (c Config) PositionSpec() (position.Spec, error) {
	liability, err := c.Liability()
	if err != nil {
		return position.Spec{}, err
	}
	return position.NewSpec(currency.Ticker(c.LeaseAsset), currency.Ticker(c.LPN), liability, c.MinAssetLPN, c.MinTransactionLPN)
}

// LeaserConfig assembles the leaser.Config this deployment's factory runs
// with.
func (c Config) LeaserConfig() (leaser.Config, error) {
	spec, err := c.PositionSpec()
	if err != nil {
		return leaser.Config{}, err
	}
	marginRate := big.NewRat(int64(c.AnnualMarginRatePermille), int64(position.PermilleMax))
	return leaser.Config{
		LPPAddress:           c.LPPAddress,
		LeaseCodeID:          c.LeaseCodeID,
		AnnualMarginRate:     marginRate,
		PositionSpecTemplate: spec,
		DuePeriod:            time.Duration(c.DuePeriodHours) * time.Hour,
		GracePeriod:          time.Duration(c.GracePeriodHours) * time.Hour,
		DexConnectionID:      c.DexConnectionID,
		OracleAddress:        c.OracleAddress,
		TimeAlarmsAddress:    c.TimeAlarmsAddress,
		ProfitAddress:        c.ProfitAddress,
		ReserveAddress:       c.ReserveAddress,
	}, nil
}

// DispatchSchedule converts the TOML TVL knots into a dispatcher.Schedule,
// parsing each threshold as a base-10 integer LPN amount.
func (c Config) DispatchSchedule() (dispatcher.Schedule, error) {
	points := make([]dispatcher.SchedulePoint, 0, len(c.RewardSchedule))
	for i, p := range c.RewardSchedule {
		tvl, ok := new(big.Int).SetString(p.TVL, 10)
		if !ok {
			return dispatcher.Schedule{}, fmt.Errorf("config: RewardSchedule[%d].TVL %q is not a base-10 integer", i, p.TVL)
		}
		points = append(points, dispatcher.SchedulePoint{TVL: tvl, Rate: position.Permille(p.RatePermille)})
	}
	return dispatcher.Schedule{Points: points}, nil
}

// DispatchCadence returns the dispatcher's re-arm interval.
func (c Config) DispatchCadence() time.Duration {
	return time.Duration(c.DispatchCadenceHours) * time.Hour
}
