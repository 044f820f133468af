package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_MainnetDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  name: test\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Ledger.ChainID != 295 {
		t.Errorf("expected chain 295, got %d", cfg.Ledger.ChainID)
	}
	if cfg.Ledger.RPCURL != "https://mainnet.hashio.io/api" {
		t.Errorf("unexpected rpc url %s", cfg.Ledger.RPCURL)
	}
	if cfg.SaucerSwap.DefaultFeeTier != 1500 {
		t.Errorf("expected fee 1500, got %d", cfg.SaucerSwap.DefaultFeeTier)
	}
	if cfg.SaucerSwap.DeadlineWindow != 600*time.Second {
		t.Errorf("expected 600s deadline window, got %s", cfg.SaucerSwap.DeadlineWindow)
	}
	if cfg.Ledger.ConfirmTimeout != 120*time.Second {
		t.Errorf("expected 120s confirm timeout, got %s", cfg.Ledger.ConfirmTimeout)
	}
	if cfg.SaucerSwap.ApprovalSettleDelay != 5*time.Second {
		t.Errorf("expected 5s settle delay, got %s", cfg.SaucerSwap.ApprovalSettleDelay)
	}

	router, err := cfg.SaucerSwap.RouterAddress()
	if err != nil {
		t.Fatalf("router address: %v", err)
	}
	if router != common.HexToAddress("0x00000000000000000000000000000000003c437a") {
		t.Errorf("unexpected router %s", router.Hex())
	}
	if cfg.HasCredential() {
		t.Error("expected no credential")
	}
}

func TestLoad_TestnetFromEnv(t *testing.T) {
	t.Setenv("NETWORK", "testnet")
	t.Setenv("PRIVATE_KEY", "0xabc")

	cfg, err := Load(writeConfig(t, "app:\n  name: test\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Ledger.ChainID != 296 {
		t.Errorf("expected chain 296, got %d", cfg.Ledger.ChainID)
	}
	if cfg.SaucerSwap.RouterID != "0.0.1414040" {
		t.Errorf("expected testnet router, got %s", cfg.SaucerSwap.RouterID)
	}
	if cfg.SaucerSwap.WrappedNativeID != "0.0.15058" {
		t.Errorf("expected testnet WHBAR, got %s", cfg.SaucerSwap.WrappedNativeID)
	}
	if !cfg.HasCredential() {
		t.Error("expected credential from PRIVATE_KEY")
	}
}

func TestLoad_FileOverridesPreset(t *testing.T) {
	body := `
ledger:
  network: testnet
  rpc_url: http://localhost:7546
saucerswap:
  router_id: "0x00000000000000000000000000000000000004d2"
  default_slippage: 0.005
`
	cfg, err := Load(writeConfig(t, body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Ledger.RPCURL != "http://localhost:7546" {
		t.Errorf("expected file rpc url, got %s", cfg.Ledger.RPCURL)
	}
	if cfg.SaucerSwap.QuoterID != "0.0.1390002" {
		t.Errorf("expected testnet quoter preset, got %s", cfg.SaucerSwap.QuoterID)
	}
	if cfg.SaucerSwap.DefaultSlippageDecimal().String() != "0.005" {
		t.Errorf("unexpected slippage %s", cfg.SaucerSwap.DefaultSlippageDecimal())
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Ledger: LedgerConfig{
				RPCURL:         "https://mainnet.hashio.io/api",
				ChainID:        295,
				ConfirmTimeout: time.Minute,
				PollInterval:   time.Second,
			},
			SaucerSwap: SaucerSwapConfig{
				RouterID:         "0.0.3949434",
				QuoterID:         "0.0.3949424",
				WrappedNativeID:  "0.0.1456986",
				DefaultFeeTier:   1500,
				DeadlineWindow:   10 * time.Minute,
				DefaultSlippage:  0.01,
				ApprovalMode:     ApprovalMultiple,
				ApprovalMultiple: 10,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing rpc", func(c *Config) { c.Ledger.RPCURL = "" }, true},
		{"unknown network without chain id", func(c *Config) { c.Ledger.ChainID = 0 }, true},
		{"bad router id", func(c *Config) { c.SaucerSwap.RouterID = "router" }, true},
		{"slippage of one", func(c *Config) { c.SaucerSwap.DefaultSlippage = 1 }, true},
		{"negative slippage", func(c *Config) { c.SaucerSwap.DefaultSlippage = -0.1 }, true},
		{"fee above uint24", func(c *Config) { c.SaucerSwap.DefaultFeeTier = 1 << 24 }, true},
		{"unknown approval mode", func(c *Config) { c.SaucerSwap.ApprovalMode = "sometimes" }, true},
		{"zero multiple", func(c *Config) { c.SaucerSwap.ApprovalMultiple = 0 }, true},
		{"unlimited ignores multiple", func(c *Config) {
			c.SaucerSwap.ApprovalMode = ApprovalUnlimited
			c.SaucerSwap.ApprovalMultiple = 0
		}, false},
		{"telemetry disabled ignores exporter", func(c *Config) { c.Telemetry.TraceExporter = "jaeger" }, false},
		{"unknown trace exporter", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.TraceExporter = "jaeger"
		}, true},
		{"otlp without endpoint", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.TraceExporter = "otlp-grpc"
		}, true},
		{"console needs no endpoint", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.TraceExporter = "console"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
