package asset

// Hedera EVM chain IDs.
const (
	ChainIDHederaMainnet    = 295
	ChainIDHederaTestnet    = 296
	ChainIDHederaPreviewnet = 297
)

// Native coin decimals. Routes and balances count tinybar (8); value attached
// to an EVM transaction is denominated in weibar (18).
const (
	HBARDecimals      = 8
	WeibarDecimals    = 18
	NativeSymbol      = "HBAR"
	WrappedNativeName = "WHBAR"
)

// Mainnet token entity ids.
const (
	EntityWHBARMainnet = "0.0.1456986"
	EntityUSDCMainnet  = "0.0.456858"
	EntityWBTCMainnet  = "0.0.10082597"
	EntitySAUCEMainnet = "0.0.731861"
	EntityHBARXMainnet = "0.0.834116"
)

// Testnet token entity ids.
const (
	EntityWHBARTestnet = "0.0.15058"
)

var (
	HBAR  = NewNative(ChainIDHederaMainnet, NativeSymbol, "Hedera", HBARDecimals)
	WHBAR = NewToken(ChainIDHederaMainnet, MustAddress(EntityWHBARMainnet), WrappedNativeName, "Wrapped HBAR", HBARDecimals)
	USDC  = NewToken(ChainIDHederaMainnet, MustAddress(EntityUSDCMainnet), "USDC", "USD Coin", 6)
	WBTC  = NewToken(ChainIDHederaMainnet, MustAddress(EntityWBTCMainnet), "WBTC", "Wrapped BTC", 8)
	SAUCE = NewToken(ChainIDHederaMainnet, MustAddress(EntitySAUCEMainnet), "SAUCE", "SaucerSwap", 6)
	HBARX = NewToken(ChainIDHederaMainnet, MustAddress(EntityHBARXMainnet), "HBARX", "Stader HBARX", 8)

	HBARTestnet  = NewNative(ChainIDHederaTestnet, NativeSymbol, "Hedera", HBARDecimals)
	WHBARTestnet = NewToken(ChainIDHederaTestnet, MustAddress(EntityWHBARTestnet), WrappedNativeName, "Wrapped HBAR", HBARDecimals)
)

// DefaultRegistry returns a registry with the well-known assets of chainID.
// Unknown chains get an empty registry apart from the native coin.
func DefaultRegistry(chainID uint64) *Registry {
	r := NewRegistry(chainID)

	switch chainID {
	case ChainIDHederaMainnet:
		r.Register(HBAR)
		r.Register(WHBAR)
		r.Register(USDC)
		r.Register(WBTC)
		r.Register(SAUCE)
		r.Register(HBARX)
	case ChainIDHederaTestnet:
		r.Register(HBARTestnet)
		r.Register(WHBARTestnet)
	default:
		r.Register(NewNative(chainID, NativeSymbol, "Hedera", HBARDecimals))
	}

	return r
}
