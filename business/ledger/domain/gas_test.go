package domain

import (
	"math/big"
	"testing"
)

func TestGasPrice(t *testing.T) {
	// 710 gwei-equivalent weibar, a typical relay answer
	p := NewGasPrice(big.NewInt(710_000_000_000))

	if p.Tinybar().Int64() != 71 {
		t.Errorf("expected 71 tinybar, got %s", p.Tinybar())
	}
	if got := p.MaxCost(1_000_000); got.String() != "710000000000000000" {
		t.Errorf("unexpected max cost %s", got)
	}
}

func TestTxRequest_ValueOrZero(t *testing.T) {
	var r TxRequest
	if r.ValueOrZero().Sign() != 0 {
		t.Error("expected zero value")
	}
}
