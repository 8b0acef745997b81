package currency

// Default is the package-level registry used when a protocol deployment has
// not supplied its own. It mirrors native/token's defaultTokenRegistry
// ("NHB", "ZNHB") pattern: a small, fixed set wired at init time.
var Default = NewRegistry()

func init() {
	Default.MustRegister(Descriptor{Ticker: "USDC", BankSymbol: "ibc/usdc", DexSymbol: "uusdc", Groups: GroupLpns})
	Default.MustRegister(Descriptor{Ticker: "ATOM", BankSymbol: "ibc/atom", DexSymbol: "uatom", Groups: GroupLeaseAssets})
	Default.MustRegister(Descriptor{Ticker: "OSMO", BankSymbol: "ibc/osmo", DexSymbol: "uosmo", Groups: GroupLeaseAssets})
	Default.MustRegister(Descriptor{Ticker: "WETH", BankSymbol: "ibc/weth", DexSymbol: "weth-wei", Groups: GroupLeaseAssets})
	Default.MustRegister(Descriptor{Ticker: "NLS", BankSymbol: "unls", DexSymbol: "unls", Groups: GroupNative})
}
