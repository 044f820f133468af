package domain

import (
	"math/big"
	"time"
)

// GasPrice is the relay's suggested price. The Hedera relay reports it in
// weibar (10^-18 HBAR).
type GasPrice struct {
	Weibar    *big.Int
	Timestamp time.Time
}

// NewGasPrice creates a GasPrice observed now.
func NewGasPrice(weibar *big.Int) *GasPrice {
	return &GasPrice{
		Weibar:    new(big.Int).Set(weibar),
		Timestamp: time.Now(),
	}
}

// Tinybar returns the price in tinybar per gas unit, truncated.
func (g *GasPrice) Tinybar() *big.Int {
	return new(big.Int).Quo(g.Weibar, WeibarPerTinybar)
}

// MaxCost returns the worst-case fee for gasLimit in weibar.
func (g *GasPrice) MaxCost(gasLimit uint64) *big.Int {
	return new(big.Int).Mul(g.Weibar, new(big.Int).SetUint64(gasLimit))
}

// WeibarPerTinybar converts between the EVM's 18-decimal view of HBAR and
// the ledger's native 8-decimal unit.
var WeibarPerTinybar = big.NewInt(10_000_000_000)
