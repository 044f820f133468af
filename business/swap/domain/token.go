package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/fd1az/saucerswap-engine/internal/asset"
)

// TokenRef is either the native coin or a token contract. The native
// sentinel never appears in an encoded path: the wrapped-native address is
// substituted, while IsNative drives the transaction shape.
type TokenRef struct {
	native   bool
	address  common.Address
	decimals uint8
	symbol   string
}

// Native returns the native coin sentinel (HBAR, 8 decimals in a route).
func Native() TokenRef {
	return TokenRef{native: true, decimals: asset.HBARDecimals, symbol: asset.NativeSymbol}
}

// Token returns a reference to a token contract.
func Token(address common.Address, decimals uint8, symbol string) TokenRef {
	return TokenRef{address: address, decimals: decimals, symbol: symbol}
}

// FromAsset converts registry metadata into a TokenRef.
func FromAsset(a *asset.Asset) TokenRef {
	if a.IsNative() {
		return Native()
	}
	return Token(a.Address(), a.Decimals(), a.Symbol())
}

func (t TokenRef) IsNative() bool  { return t.native }
func (t TokenRef) Decimals() uint8 { return t.decimals }
func (t TokenRef) Symbol() string  { return t.symbol }

// Address returns the token address. Zero for the native coin.
func (t TokenRef) Address() common.Address {
	return t.address
}

// PathAddress returns the address used inside a route, substituting the
// wrapped-native token for the native sentinel.
func (t TokenRef) PathAddress(wrapped common.Address) common.Address {
	if t.native {
		return wrapped
	}
	return t.address
}

// ToRaw converts a human amount into smallest units, truncating precision
// the token cannot represent.
func (t TokenRef) ToRaw(human decimal.Decimal) *big.Int {
	return human.Shift(int32(t.decimals)).Truncate(0).BigInt()
}

// FromRaw converts smallest units into a human amount.
func (t TokenRef) FromRaw(raw *big.Int) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(t.decimals))
}

// Asset converts t back into registry metadata on chainID.
func (t TokenRef) Asset(chainID uint64) *asset.Asset {
	if t.native {
		return asset.NewNative(chainID, asset.NativeSymbol, "Hedera", asset.HBARDecimals)
	}
	return asset.NewToken(chainID, t.address, t.String(), "", t.decimals)
}

// Same reports whether both refs name the same asset.
func (t TokenRef) Same(o TokenRef) bool {
	if t.native || o.native {
		return t.native == o.native
	}
	return t.address == o.address
}

func (t TokenRef) String() string {
	if t.symbol != "" {
		return t.symbol
	}
	if t.native {
		return asset.NativeSymbol
	}
	if id, ok := asset.ToEntityID(t.address); ok {
		return id
	}
	return t.address.Hex()
}
