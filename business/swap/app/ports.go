// Package app contains the swap engine and its port definitions.
package app

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	ledgerDomain "github.com/fd1az/saucerswap-engine/business/ledger/domain"
	"github.com/fd1az/saucerswap-engine/business/swap/domain"
	"github.com/fd1az/saucerswap-engine/internal/asset"
)

// LedgerClient is the subset of the ledger client the engine drives.
type LedgerClient interface {
	// Account returns the signing account, zero when read-only.
	Account() common.Address

	// GetBalance returns the native balance of account in weibar.
	GetBalance(ctx context.Context, account common.Address) (*big.Int, error)

	// Call performs a read-only contract call.
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)

	// EstimateGas returns a gas limit for req including the safety margin.
	EstimateGas(ctx context.Context, req ledgerDomain.TxRequest) (uint64, error)

	// Submit signs and broadcasts req.
	Submit(ctx context.Context, req ledgerDomain.TxRequest) (common.Hash, error)

	// WaitForReceipt blocks until hash is mined or timeout elapses.
	WaitForReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*ledgerDomain.Receipt, error)
}

// Quoter prices exact-input routes.
type Quoter interface {
	QuoteSingle(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, fee domain.FeeTier) (domain.Quote, error)
	QuotePath(ctx context.Context, path []byte, amountIn *big.Int) (domain.Quote, error)
}

// TokenContracts reads token state and encodes approvals.
type TokenContracts interface {
	Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error)
	BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error)
	Decimals(ctx context.Context, token common.Address) (uint8, error)
	EncodeApprove(spender common.Address, amount *big.Int) ([]byte, error)
}

// RouterEncoder builds router calldata.
type RouterEncoder interface {
	Address() common.Address
	EncodeExactInput(call domain.ExactInputCall) ([]byte, error)
	EncodeExactInputSingle(call domain.ExactInputSingleCall) ([]byte, error)
	EncodeUnwrapWHBAR(amountMinimum *big.Int, recipient common.Address) ([]byte, error)
	EncodeMulticall(calls [][]byte) ([]byte, error)
}

// TokenMetadata looks up tokens missing from the static registry.
type TokenMetadata interface {
	TokenInfo(ctx context.Context, id string) (*asset.Asset, error)
}
