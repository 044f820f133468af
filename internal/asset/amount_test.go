package asset_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/saucerswap-engine/internal/asset"
)

func TestAmount_Basic(t *testing.T) {
	// 1 HBAR = 1e8 tinybar
	oneHBAR := asset.NewAmount(asset.HBAR, big.NewInt(1e8))

	if oneHBAR.IsZero() {
		t.Error("expected non-zero amount")
	}
	if !oneHBAR.ToDecimal().Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", oneHBAR.ToDecimal())
	}
	if oneHBAR.String() != "1 HBAR" {
		t.Errorf("expected '1 HBAR', got '%s'", oneHBAR.String())
	}
}

func TestAmount_ScaledRaw(t *testing.T) {
	tests := []struct {
		name     string
		amount   asset.Amount
		decimals uint8
		want     string
	}{
		{"tinybar to weibar", asset.NewAmount(asset.HBAR, big.NewInt(250_000_000)), asset.WeibarDecimals, "2500000000000000000"},
		{"same decimals", asset.NewAmount(asset.USDC, big.NewInt(1_500_000)), 6, "1500000"},
		{"scale down truncates", asset.NewAmount(asset.WBTC, big.NewInt(123_456_789)), 2, "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.amount.ScaledRaw(tt.decimals)
			if got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		name    string
		asset   *asset.Asset
		input   string
		want    string
		wantErr error
	}{
		{"whole HBAR", asset.HBAR, "5", "500000000", nil},
		{"fractional USDC", asset.USDC, "12.345678", "12345678", nil},
		{"too precise USDC", asset.USDC, "0.0000001", "", asset.ErrTooManyDecimals},
		{"negative", asset.WBTC, "-1", "", asset.ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := asset.ParseString(tt.asset, tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Raw().String() != tt.want {
				t.Errorf("expected raw %s, got %s", tt.want, got.Raw())
			}
		})
	}

	if _, err := asset.ParseString(asset.USDC, "abc"); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

func TestAmount_CmpDifferentAssets(t *testing.T) {
	a := asset.NewAmount(asset.USDC, big.NewInt(1))
	b := asset.NewAmount(asset.SAUCE, big.NewInt(1))

	if _, err := a.Cmp(b); !errors.Is(err, asset.ErrAssetMismatch) {
		t.Errorf("expected ErrAssetMismatch, got %v", err)
	}
}

func TestAmount_NegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for negative raw value")
		}
	}()
	asset.NewAmount(asset.HBAR, big.NewInt(-1))
}

func TestExecutionPrice(t *testing.T) {
	in := asset.NewAmount(asset.HBAR, big.NewInt(10e8))       // 10 HBAR
	out := asset.NewAmount(asset.USDC, big.NewInt(2_500_000)) // 2.5 USDC

	p := asset.ExecutionPrice(in, out, time.Now())

	if !p.Rate().Equal(decimal.RequireFromString("0.25")) {
		t.Errorf("expected rate 0.25, got %s", p.Rate())
	}
	if p.Pair() != "HBAR/USDC" {
		t.Errorf("unexpected pair %s", p.Pair())
	}
	if !p.Invert().Rate().Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected inverted rate 4, got %s", p.Invert().Rate())
	}

	converted, err := p.Convert(asset.NewAmount(asset.HBAR, big.NewInt(4e8)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if converted.Raw().Int64() != 1_000_000 {
		t.Errorf("expected 1 USDC, got %s", converted)
	}
}
