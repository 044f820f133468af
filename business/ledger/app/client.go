package app

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/fd1az/saucerswap-engine/business/ledger/domain"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

// ClientConfig configures a Client.
type ClientConfig struct {
	ChainID      uint64
	PollInterval time.Duration
	GasMargin    uint64 // percent added to node gas estimates
}

// DefaultClientConfig returns defaults for chainID.
func DefaultClientConfig(chainID uint64) ClientConfig {
	return ClientConfig{
		ChainID:      chainID,
		PollInterval: 2 * time.Second,
		GasMargin:    10,
	}
}

// Client signs, broadcasts and confirms transactions for one credential.
// Nonce fetch and broadcast are serialized so at most one transaction is
// being assigned a nonce at a time.
type Client struct {
	node    Node
	signer  Signer
	chainID *big.Int
	cfg     ClientConfig
	logger  logger.LoggerInterface

	sendMu sync.Mutex
}

// NewClient verifies the node serves the configured chain and returns a
// Client. A nil signer yields a read-only client.
func NewClient(ctx context.Context, node Node, signer Signer, cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}

	remote, err := node.ChainID(ctx)
	if err != nil {
		return nil, apperror.New(apperror.CodeLedgerConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext("eth_chainId"))
	}
	if cfg.ChainID != 0 && remote.Uint64() != cfg.ChainID {
		return nil, apperror.New(apperror.CodeLedgerConnectionFailed,
			apperror.WithContext(fmt.Sprintf("chain id mismatch: node %s, configured %d", remote, cfg.ChainID)))
	}

	c := &Client{
		node:    node,
		signer:  signer,
		chainID: remote,
		cfg:     cfg,
		logger:  log,
	}

	log.Info(ctx, "ledger client ready", "chain_id", remote.String(), "account", c.Account().Hex())
	return c, nil
}

// Account returns the signing account, zero for a read-only client.
func (c *Client) Account() common.Address {
	if c.signer == nil {
		return common.Address{}
	}
	return c.signer.Address()
}

// ChainID returns the chain id reported by the node.
func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.chainID)
}

// GetBalance returns the balance of account in weibar.
func (c *Client) GetBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	return c.node.BalanceAt(ctx, account)
}

// GetTransactionCount returns the pending nonce of account.
func (c *Client) GetTransactionCount(ctx context.Context, account common.Address) (uint64, error) {
	return c.node.PendingNonceAt(ctx, account)
}

// GetGasPrice returns the node-suggested gas price in weibar.
func (c *Client) GetGasPrice(ctx context.Context) (*big.Int, error) {
	p, err := c.node.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	return p.Weibar, nil
}

// Call performs a read-only contract call from the client's account.
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	return c.node.CallContract(ctx, ethereum.CallMsg{
		From: c.Account(),
		To:   &to,
		Data: data,
	})
}

// EstimateGas estimates req and adds the configured safety margin.
func (c *Client) EstimateGas(ctx context.Context, req domain.TxRequest) (uint64, error) {
	gas, err := c.node.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.Account(),
		To:    &req.To,
		Value: req.ValueOrZero(),
		Data:  req.Data,
	})
	if err != nil {
		return 0, apperror.New(apperror.CodeGasEstimationFailed,
			apperror.WithCause(err),
			apperror.WithContext(req.Label))
	}
	return gas + gas*c.cfg.GasMargin/100, nil
}

// Submit signs req with the next nonce and the node's gas price (legacy,
// EIP-155) and broadcasts it.
func (c *Client) Submit(ctx context.Context, req domain.TxRequest) (common.Hash, error) {
	if c.signer == nil {
		return common.Hash{}, apperror.New(apperror.CodeInvalidCredential,
			apperror.WithContext("no signing key configured"))
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	account := c.signer.Address()

	nonce, err := c.node.PendingNonceAt(ctx, account)
	if err != nil {
		return common.Hash{}, apperror.Wrap(err, apperror.CodeLedgerRPCError, "eth_getTransactionCount")
	}

	price, err := c.node.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, apperror.Wrap(err, apperror.CodeLedgerRPCError, "eth_gasPrice")
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: price.Weibar,
		Gas:      req.GasLimit,
		To:       &req.To,
		Value:    req.ValueOrZero(),
		Data:     req.Data,
	})

	signed, err := c.signer.SignTx(tx, c.chainID)
	if err != nil {
		return common.Hash{}, apperror.New(apperror.CodeInvalidCredential,
			apperror.WithCause(err),
			apperror.WithContext("sign "+req.Label))
	}

	hash, err := c.SendTransaction(ctx, signed)
	if err != nil {
		return common.Hash{}, err
	}

	c.logger.Info(ctx, "transaction broadcast",
		"label", req.Label,
		"tx_hash", hash.Hex(),
		"nonce", nonce,
		"gas_limit", req.GasLimit,
		"gas_price", price.Weibar,
		"value", req.ValueOrZero(),
	)

	return hash, nil
}

// SendTransaction broadcasts an already signed transaction.
func (c *Client) SendTransaction(ctx context.Context, signed *types.Transaction) (common.Hash, error) {
	if err := c.node.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, apperror.New(apperror.CodeTransactionRejected,
			apperror.WithCause(err),
			apperror.WithContext(signed.Hash().Hex()))
	}
	return signed.Hash(), nil
}

// WaitForReceipt polls until hash is mined or timeout elapses.
func (c *Client) WaitForReceipt(ctx context.Context, hash common.Hash, timeout time.Duration) (*domain.Receipt, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(c.cfg.PollInterval)
	defer ticker.Stop()

	for {
		r, err := c.node.TransactionReceipt(ctx, hash)
		switch {
		case err == nil && r != nil:
			receipt := &domain.Receipt{
				TxHash:      hash,
				Success:     r.Status == types.ReceiptStatusSuccessful,
				GasUsed:     r.GasUsed,
				BlockNumber: r.BlockNumber,
				Elapsed:     time.Since(start),
			}
			c.logger.Debug(ctx, "receipt received",
				"tx_hash", hash.Hex(),
				"success", receipt.Success,
				"gas_used", receipt.GasUsed,
				"elapsed", receipt.Elapsed,
			)
			return receipt, nil
		case err != nil && !errors.Is(err, ethereum.NotFound) && ctx.Err() == nil:
			c.logger.Warn(ctx, "receipt poll failed", "tx_hash", hash.Hex(), "error", err)
		}

		select {
		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, apperror.New(apperror.CodeOperationCancelled,
					apperror.WithCause(ctx.Err()),
					apperror.WithContext(fmt.Sprintf("stopped waiting for %s after %s", hash.Hex(), time.Since(start).Round(time.Millisecond))))
			}
			return nil, apperror.New(apperror.CodeConfirmationTimeout,
				apperror.WithCause(ctx.Err()),
				apperror.WithContext(fmt.Sprintf("%s after %s", hash.Hex(), timeout)))
		case <-ticker.C:
		}
	}
}
