// Package asset models Hedera assets: the native coin and HTS/ERC-20 tokens
// reachable through the EVM relay. Raw values are big.Int in the smallest
// unit; decimal.Decimal is only used at the boundaries (parsing, display).
package asset

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// AssetID identifies an asset by chain and token address.
// The zero address denotes the chain's native coin.
type AssetID struct {
	chainID uint64
	address common.Address
}

// NewNativeAssetID creates the AssetID of a chain's native coin.
func NewNativeAssetID(chainID uint64) AssetID {
	return AssetID{chainID: chainID}
}

// NewTokenAssetID creates an AssetID for a token contract.
func NewTokenAssetID(chainID uint64, addr common.Address) AssetID {
	if addr == (common.Address{}) {
		panic("token address cannot be zero - use NewNativeAssetID for native coins")
	}
	return AssetID{chainID: chainID, address: addr}
}

// ChainID returns the chain ID.
func (id AssetID) ChainID() uint64 {
	return id.chainID
}

// Address returns the token address (zero for the native coin).
func (id AssetID) Address() common.Address {
	return id.address
}

// IsNative reports whether this is the native coin.
func (id AssetID) IsNative() bool {
	return id.address == (common.Address{})
}

// EntityID returns the "0.0.num" form of a long-zero token address.
func (id AssetID) EntityID() (string, bool) {
	if id.IsNative() {
		return "", false
	}
	return ToEntityID(id.address)
}

// String returns "chain:<id>/native" or "chain:<id>/<entity or hex>".
func (id AssetID) String() string {
	if id.IsNative() {
		return fmt.Sprintf("chain:%d/native", id.chainID)
	}
	if eid, ok := id.EntityID(); ok {
		return fmt.Sprintf("chain:%d/%s", id.chainID, eid)
	}
	return fmt.Sprintf("chain:%d/%s", id.chainID, id.address.Hex())
}

// Equals compares two AssetIDs.
func (id AssetID) Equals(other AssetID) bool {
	return id == other
}
