// Package app contains application services and port definitions for the ledger context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fd1az/saucerswap-engine/business/ledger/domain"
)

// Node is the JSON-RPC surface of the Hedera relay.
type Node interface {
	// ChainID returns eth_chainId.
	ChainID(ctx context.Context) (*big.Int, error)

	// BalanceAt returns the latest balance of account in weibar.
	BalanceAt(ctx context.Context, account common.Address) (*big.Int, error)

	// PendingNonceAt returns the next nonce for account.
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)

	// SuggestGasPrice returns the relay's gas price.
	SuggestGasPrice(ctx context.Context) (*domain.GasPrice, error)

	// CallContract executes a read-only call against the latest state.
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)

	// EstimateGas returns the raw gas estimate for msg.
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)

	// SendTransaction broadcasts a signed transaction.
	SendTransaction(ctx context.Context, tx *types.Transaction) error

	// TransactionReceipt returns ethereum.NotFound until the tx is mined.
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// Signer holds the signing credential.
type Signer interface {
	// Address returns the EVM account of the credential.
	Address() common.Address

	// SignTx signs tx for chainID.
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}
