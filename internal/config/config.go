// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/fd1az/saucerswap-engine/internal/asset"
)

// Network names.
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// Approval modes.
const (
	ApprovalUnlimited = "unlimited"
	ApprovalMultiple  = "multiple"
)

// NetworkPreset holds the deployment constants of one Hedera network.
type NetworkPreset struct {
	ChainID         uint64
	RPCURL          string
	MirrorNodeURL   string
	QuoterID        string
	RouterID        string
	WrappedNativeID string
}

var presets = map[string]NetworkPreset{
	NetworkMainnet: {
		ChainID:         asset.ChainIDHederaMainnet,
		RPCURL:          "https://mainnet.hashio.io/api",
		MirrorNodeURL:   "https://mainnet-public.mirrornode.hedera.com",
		QuoterID:        "0.0.3949424",
		RouterID:        "0.0.3949434",
		WrappedNativeID: asset.EntityWHBARMainnet,
	},
	NetworkTestnet: {
		ChainID:         asset.ChainIDHederaTestnet,
		RPCURL:          "https://testnet.hashio.io/api",
		MirrorNodeURL:   "https://testnet.mirrornode.hedera.com",
		QuoterID:        "0.0.1390002",
		RouterID:        "0.0.1414040",
		WrappedNativeID: asset.EntityWHBARTestnet,
	},
}

// Preset returns the constants of a known network.
func Preset(network string) (NetworkPreset, bool) {
	p, ok := presets[strings.ToLower(network)]
	return p, ok
}

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Ledger     LedgerConfig     `mapstructure:"ledger"`
	SaucerSwap SaucerSwapConfig `mapstructure:"saucerswap"`
	MirrorNode MirrorNodeConfig `mapstructure:"mirror_node"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"` // console or json
}

// LedgerConfig holds the JSON-RPC relay connection and signing credential.
type LedgerConfig struct {
	RPCURL         string        `mapstructure:"rpc_url"`
	PrivateKey     string        `mapstructure:"private_key"`
	Network        string        `mapstructure:"network"`
	ChainID        uint64        `mapstructure:"chain_id"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RateLimitRPM   int           `mapstructure:"rate_limit_rpm"`
}

// SaucerSwapConfig holds contract identifiers and swap policy.
type SaucerSwapConfig struct {
	RouterID            string        `mapstructure:"router_id"`
	QuoterID            string        `mapstructure:"quoter_id"`
	WrappedNativeID     string        `mapstructure:"wrapped_native_id"`
	DefaultFeeTier      uint32        `mapstructure:"default_fee_tier"`
	DeadlineWindow      time.Duration `mapstructure:"deadline_window"`
	DefaultSlippage     float64       `mapstructure:"default_slippage"`
	SingleHopEntry      bool          `mapstructure:"single_hop_entry"`
	ApprovalMode        string        `mapstructure:"approval_mode"`
	ApprovalMultiple    int64         `mapstructure:"approval_multiple"`
	ApprovalSettleDelay time.Duration `mapstructure:"approval_settle_delay"`
	GasLimitDirect      uint64        `mapstructure:"gas_limit_direct"`
	GasLimitMulticall   uint64        `mapstructure:"gas_limit_multicall"`
	GasLimitApprove     uint64        `mapstructure:"gas_limit_approve"`
}

// RouterAddress returns the router as an EVM address.
func (c *SaucerSwapConfig) RouterAddress() (common.Address, error) {
	return asset.ToAddress(c.RouterID)
}

// QuoterAddress returns the quoter as an EVM address.
func (c *SaucerSwapConfig) QuoterAddress() (common.Address, error) {
	return asset.ToAddress(c.QuoterID)
}

// WrappedNativeAddress returns WHBAR as an EVM address.
func (c *SaucerSwapConfig) WrappedNativeAddress() (common.Address, error) {
	return asset.ToAddress(c.WrappedNativeID)
}

// DefaultSlippageDecimal returns the default slippage tolerance as a fraction.
func (c *SaucerSwapConfig) DefaultSlippageDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.DefaultSlippage)
}

// MirrorNodeConfig holds the Hedera mirror node REST endpoint.
type MirrorNodeConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	TraceExporter  string `mapstructure:"trace_exporter"` // console, zipkin, otlp-grpc, otlp-http or none
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"` // comma separated key=value pairs
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SWAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Network-dependent defaults are resolved after the file is read so an
	// explicit ledger.network there selects the right contract set.
	setNetworkDefaults(v, v.GetString("ledger.network"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SWAP_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SWAP_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SWAP_LOG_LEVEL", "LOG_LEVEL")
	v.BindEnv("app.log_format", "SWAP_LOG_FORMAT", "LOG_FORMAT")

	// Ledger
	v.BindEnv("ledger.rpc_url", "SWAP_RPC_URL", "RPC_URL")
	v.BindEnv("ledger.private_key", "SWAP_PRIVATE_KEY", "PRIVATE_KEY")
	v.BindEnv("ledger.network", "SWAP_NETWORK", "NETWORK")
	v.BindEnv("ledger.chain_id", "SWAP_CHAIN_ID")
	v.BindEnv("ledger.confirm_timeout", "SWAP_CONFIRM_TIMEOUT")
	v.BindEnv("ledger.rate_limit_rpm", "SWAP_RATE_LIMIT_RPM")

	// SaucerSwap
	v.BindEnv("saucerswap.router_id", "SWAP_ROUTER_ID")
	v.BindEnv("saucerswap.quoter_id", "SWAP_QUOTER_ID")
	v.BindEnv("saucerswap.wrapped_native_id", "SWAP_WHBAR_ID")
	v.BindEnv("saucerswap.default_fee_tier", "SWAP_DEFAULT_FEE")
	v.BindEnv("saucerswap.default_slippage", "SWAP_DEFAULT_SLIPPAGE")
	v.BindEnv("saucerswap.approval_mode", "SWAP_APPROVAL_MODE")

	// Mirror node
	v.BindEnv("mirror_node.base_url", "SWAP_MIRROR_NODE_URL", "MIRROR_NODE_URL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SWAP_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SWAP_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.trace_exporter", "SWAP_OTEL_TRACE_EXPORTER")
	v.BindEnv("telemetry.otlp_endpoint", "SWAP_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	v.BindEnv("telemetry.otlp_headers", "SWAP_OTEL_HEADERS", "OTEL_EXPORTER_OTLP_HEADERS")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "saucerswap-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")

	// Ledger defaults
	v.SetDefault("ledger.network", NetworkMainnet)
	v.SetDefault("ledger.confirm_timeout", "120s")
	v.SetDefault("ledger.poll_interval", "2s")
	v.SetDefault("ledger.rate_limit_rpm", 600)

	// SaucerSwap defaults
	v.SetDefault("saucerswap.default_fee_tier", 1500) // 0.15%
	v.SetDefault("saucerswap.deadline_window", "600s")
	v.SetDefault("saucerswap.default_slippage", 0.01)
	v.SetDefault("saucerswap.single_hop_entry", false)
	v.SetDefault("saucerswap.approval_mode", ApprovalMultiple)
	v.SetDefault("saucerswap.approval_multiple", 10)
	v.SetDefault("saucerswap.approval_settle_delay", "5s")
	v.SetDefault("saucerswap.gas_limit_direct", 1_000_000)
	v.SetDefault("saucerswap.gas_limit_multicall", 2_000_000)
	v.SetDefault("saucerswap.gas_limit_approve", 1_000_000)

	// Mirror node defaults
	v.SetDefault("mirror_node.timeout", "10s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "saucerswap-engine")
	v.SetDefault("telemetry.trace_exporter", "console")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

func setNetworkDefaults(v *viper.Viper, network string) {
	p, ok := Preset(network)
	if !ok {
		return
	}
	v.SetDefault("ledger.rpc_url", p.RPCURL)
	v.SetDefault("ledger.chain_id", p.ChainID)
	v.SetDefault("saucerswap.router_id", p.RouterID)
	v.SetDefault("saucerswap.quoter_id", p.QuoterID)
	v.SetDefault("saucerswap.wrapped_native_id", p.WrappedNativeID)
	v.SetDefault("mirror_node.base_url", p.MirrorNodeURL)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ledger.RPCURL == "" {
		return fmt.Errorf("ledger.rpc_url is required")
	}
	if c.Ledger.ChainID == 0 {
		return fmt.Errorf("ledger.chain_id is required for network %q", c.Ledger.Network)
	}
	if c.Ledger.ConfirmTimeout <= 0 {
		return fmt.Errorf("ledger.confirm_timeout must be positive")
	}
	if c.Ledger.PollInterval <= 0 {
		return fmt.Errorf("ledger.poll_interval must be positive")
	}

	ids := map[string]string{
		"saucerswap.router_id":         c.SaucerSwap.RouterID,
		"saucerswap.quoter_id":         c.SaucerSwap.QuoterID,
		"saucerswap.wrapped_native_id": c.SaucerSwap.WrappedNativeID,
	}
	for key, id := range ids {
		if !asset.IsIdentifier(id) {
			return fmt.Errorf("invalid %s: %q", key, id)
		}
	}

	if c.SaucerSwap.DefaultSlippage < 0 || c.SaucerSwap.DefaultSlippage >= 1 {
		return fmt.Errorf("saucerswap.default_slippage must be in [0, 1), got %v", c.SaucerSwap.DefaultSlippage)
	}
	if c.SaucerSwap.DefaultFeeTier == 0 || c.SaucerSwap.DefaultFeeTier >= 1<<24 {
		return fmt.Errorf("saucerswap.default_fee_tier out of uint24 range: %d", c.SaucerSwap.DefaultFeeTier)
	}
	if c.SaucerSwap.DeadlineWindow <= 0 {
		return fmt.Errorf("saucerswap.deadline_window must be positive")
	}

	switch c.SaucerSwap.ApprovalMode {
	case ApprovalUnlimited:
	case ApprovalMultiple:
		if c.SaucerSwap.ApprovalMultiple < 1 {
			return fmt.Errorf("saucerswap.approval_multiple must be >= 1")
		}
	default:
		return fmt.Errorf("invalid saucerswap.approval_mode: %q", c.SaucerSwap.ApprovalMode)
	}

	if c.Telemetry.Enabled {
		switch c.Telemetry.TraceExporter {
		case "console", "none":
		case "zipkin", "otlp-grpc", "otlp-http":
			if c.Telemetry.OTLPEndpoint == "" {
				return fmt.Errorf("telemetry.otlp_endpoint is required for exporter %q", c.Telemetry.TraceExporter)
			}
		default:
			return fmt.Errorf("invalid telemetry.trace_exporter: %q", c.Telemetry.TraceExporter)
		}
	}

	return nil
}

// HasCredential reports whether a signing key is configured.
// Read-only commands (quote, tokens) run without one.
func (c *Config) HasCredential() bool {
	return c.Ledger.PrivateKey != ""
}
