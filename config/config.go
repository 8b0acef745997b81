package config

import (
	"encoding/hex"
	"os"

	"github.com/BurntSushi/toml"

	"leasevault/crypto"
)

// Config is the lease protocol's static runtime configuration: the
// collaborator addresses every lease needs (LPP, oracle, time alarms,
// profit, reserve), the lease wasm code id the leaser instantiates, the
// DEX connection it opens interchain accounts over, and the dispatcher's
// cadence and TVL→APR schedule. It replaces the node-level
// ListenAddress/RPCAddress/BootstrapPeers shape entirely; nothing here
// runs a P2P node.
type Config struct {
	DataDir      string `toml:"DataDir"`
	OperatorKey  string `toml:"OperatorKey"`

	LPPAddress        string `toml:"LPPAddress"`
	OracleAddress     string `toml:"OracleAddress"`
	TimeAlarmsAddress string `toml:"TimeAlarmsAddress"`
	ProfitAddress     string `toml:"ProfitAddress"`
	ReserveAddress    string `toml:"ReserveAddress"`
	TreasuryAddress   string `toml:"TreasuryAddress"`

	LeaseCodeID     uint64 `toml:"LeaseCodeID"`
	DexConnectionID string `toml:"DexConnectionID"`

	DuePeriodHours   uint32 `toml:"DuePeriodHours"`
	GracePeriodHours uint32 `toml:"GracePeriodHours"`

	AnnualMarginRatePermille uint32 `toml:"AnnualMarginRatePermille"`

	LeaseAsset        string `toml:"LeaseAsset"`
	LPN               string `toml:"LPN"`
	MinAssetLPN       int64  `toml:"MinAssetLPN"`
	MinTransactionLPN int64  `toml:"MinTransactionLPN"`

	LiabilityCfg LiabilityConfig `toml:"Liability"`

	DispatchCadenceHours uint32             `toml:"DispatchCadenceHours"`
	RewardSchedule       []SchedulePointCfg `toml:"RewardSchedule"`
}

// Load reads the configuration from path, seeding an operator keypair and
// writing a default file back if one did not already exist, matching the
// node config's stat-if-missing, decode-or-seed control flow.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if cfg.OperatorKey == "" {
		key, err := crypto.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		cfg.OperatorKey = hex.EncodeToString(key.Bytes())

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, os.ModePerm)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if err := toml.NewEncoder(f).Encode(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// createDefault creates and saves a default configuration file with a
// fresh operator keypair and the protocol's published default liability
// policy and dispatch schedule.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:                  "./lease-data",
		OperatorKey:              hex.EncodeToString(key.Bytes()),
		LeaseCodeID:              1,
		DexConnectionID:          "connection-0",
		LPPAddress:               "leaselpp",
		OracleAddress:            "leaseoracle",
		TimeAlarmsAddress:        "leasetimealarms",
		ProfitAddress:            "leaseprofit",
		ReserveAddress:           "leasereserve",
		TreasuryAddress:          "leasetreasury",
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
		RewardSchedule: []SchedulePointCfg{
			{TVL: "0", RatePermille: 10},
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
