package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"leasevault/currency"
)

// baseConfig mirrors createDefault's field values without touching the
// filesystem, for tests that only need a valid Config.
func baseConfig() Config {
	return Config{
		DataDir:                  "./lease-data",
		OperatorKey:              "aa",
		LPPAddress:               "leaselpp",
		OracleAddress:            "leaseoracle",
		TimeAlarmsAddress:        "leasetimealarms",
		ProfitAddress:            "leaseprofit",
		ReserveAddress:           "leasereserve",
		TreasuryAddress:          "leasetreasury",
		LeaseCodeID:              1,
		DexConnectionID:          "connection-0",
		DuePeriodHours:           24 * 90,
		GracePeriodHours:         24 * 10,
		AnnualMarginRatePermille: 30,
		LeaseAsset:               "LEASEC1",
		LPN:                      "LPN",
		MinAssetLPN:              100,
		MinTransactionLPN:        10,
		LiabilityCfg: LiabilityConfig{
			InitPermille: 650, HealthyPermille: 700,
			FirstLiqWarnPermille: 730, SecondLiqWarnPermille: 750, ThirdLiqWarnPermille: 780,
			MaxPermille: 800, RecalculateHours: 1,
		},
		DispatchCadenceHours: 10,
		RewardSchedule:       []SchedulePointCfg{{TVL: "0", RatePermille: 10}},
	}
}

func TestLoad_CreatesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.OperatorKey)
	require.Equal(t, uint64(1), cfg.LeaseCodeID)
	require.FileExists(t, path)

	require.NoError(t, ValidateConfig(*cfg))
}

func TestLoad_SeedsMissingOperatorKeyAndPersistsIt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`LPPAddress = "leaselpp"`+"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.OperatorKey)

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.OperatorKey, reloaded.OperatorKey)
}

func TestValidateConfig_RejectsMissingAddresses(t *testing.T) {
	cfg := baseConfig()
	cfg.LPPAddress = ""
	require.Error(t, ValidateConfig(cfg))
}

func TestValidateConfig_RejectsBadLiabilityOrdering(t *testing.T) {
	cfg := baseConfig()
	cfg.LiabilityCfg.HealthyPermille = cfg.LiabilityCfg.InitPermille - 1
	require.Error(t, ValidateConfig(cfg))
}

func TestValidateConfig_RejectsMalformedScheduleTVL(t *testing.T) {
	cfg := baseConfig()
	cfg.RewardSchedule = []SchedulePointCfg{{TVL: "not-a-number", RatePermille: 10}}
	require.Error(t, ValidateConfig(cfg))
}

func TestLeaserConfig_DerivesFromValidatedConfig(t *testing.T) {
	cfg := baseConfig()
	require.NoError(t, ValidateConfig(cfg))

	lc, err := cfg.LeaserConfig()
	require.NoError(t, err)
	require.Equal(t, cfg.LPPAddress, lc.LPPAddress)
	require.Equal(t, cfg.LeaseCodeID, lc.LeaseCodeID)
	require.Equal(t, currency.Ticker(cfg.LeaseAsset), lc.LeaseAsset())
}
