package config

import "fmt"

// ValidateConfig checks the cross-field invariants Load's decode step
// cannot express in struct tags: address presence, and the period/zero
// guards the position and loan packages would otherwise reject one field
// at a time.
func ValidateConfig(c Config) error {
	if c.LPPAddress == "" {
		return fmt.Errorf("config: LPPAddress must not be empty")
	}
	if c.OracleAddress == "" {
		return fmt.Errorf("config: OracleAddress must not be empty")
	}
	if c.TreasuryAddress == "" {
		return fmt.Errorf("config: TreasuryAddress must not be empty")
	}
	if c.LeaseCodeID == 0 {
		return fmt.Errorf("config: LeaseCodeID must be positive")
	}
	if c.DuePeriodHours == 0 {
		return fmt.Errorf("config: DuePeriodHours must be positive")
	}
	if c.GracePeriodHours == 0 {
		return fmt.Errorf("config: GracePeriodHours must be positive")
	}
	if c.MinAssetLPN <= 0 {
		return fmt.Errorf("config: MinAssetLPN must be positive")
	}
	if c.MinTransactionLPN <= 0 {
		return fmt.Errorf("config: MinTransactionLPN must be positive")
	}
	if c.DispatchCadenceHours == 0 {
		return fmt.Errorf("config: DispatchCadenceHours must be positive")
	}
	if len(c.RewardSchedule) == 0 {
		return fmt.Errorf("config: RewardSchedule must have at least one point")
	}
	if _, err := c.Liability(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.DispatchSchedule(); err != nil {
		return err
	}
	return nil
}
