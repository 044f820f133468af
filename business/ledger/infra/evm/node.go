// Package evm implements the ledger ports over the Hedera JSON-RPC relay.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/saucerswap-engine/business/ledger/app"
	"github.com/fd1az/saucerswap-engine/business/ledger/domain"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/cache"
	"github.com/fd1az/saucerswap-engine/internal/circuitbreaker"
	"github.com/fd1az/saucerswap-engine/internal/logger"
	"github.com/fd1az/saucerswap-engine/internal/ratelimit"
)

const (
	tracerName = "ledger.evm"
	meterName  = "ledger.evm"

	gasPriceKey = "current"
)

// Ensure Node implements app.Node.
var _ app.Node = (*Node)(nil)

// NodeConfig holds relay connection settings.
type NodeConfig struct {
	RPCURL       string
	RateLimitRPM int           // 0 disables throttling
	GasPriceTTL  time.Duration // how long a suggested price is reused
}

// DefaultNodeConfig returns sensible defaults for the Hashio relay.
func DefaultNodeConfig(rpcURL string) NodeConfig {
	return NodeConfig{
		RPCURL:       rpcURL,
		RateLimitRPM: 600,
		GasPriceTTL:  5 * time.Second,
	}
}

// nodeMetrics holds OTEL metric instruments.
type nodeMetrics struct {
	requests metric.Int64Counter
	errors   metric.Int64Counter
	latency  metric.Float64Histogram
}

// Node wraps ethclient with rate limiting, a circuit breaker on reads and
// a short-lived gas price cache.
type Node struct {
	config NodeConfig
	client *ethclient.Client
	logger logger.LoggerInterface

	limiter  *ratelimit.Limiter
	cb       *circuitbreaker.CircuitBreaker[any]
	gasCache *cache.Cache[string, *domain.GasPrice]

	tracer  trace.Tracer
	metrics *nodeMetrics
}

// Dial connects to the relay. The HTTP transport connects lazily; the
// chain id check in app.NewClient makes the first round trip.
func Dial(ctx context.Context, cfg NodeConfig, log logger.LoggerInterface) (*Node, error) {
	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, apperror.New(apperror.CodeLedgerConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext(cfg.RPCURL))
	}

	n := &Node{
		config:   cfg,
		client:   client,
		logger:   log,
		gasCache: cache.New[string, *domain.GasPrice](time.Minute),
		limiter:  ratelimit.New(cfg.RateLimitRPM),
		tracer:   otel.Tracer(tracerName),
	}

	cbCfg := circuitbreaker.DefaultConfig("ledger-rpc")
	cbCfg.IsSuccessful = isNodeHealthy
	cbCfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	n.cb = circuitbreaker.New[any](cbCfg)

	if err := n.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return n, nil
}

func (n *Node) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	n.metrics = &nodeMetrics{}

	n.metrics.requests, err = meter.Int64Counter(
		"ledger_rpc_requests_total",
		metric.WithDescription("Total JSON-RPC requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return err
	}

	n.metrics.errors, err = meter.Int64Counter(
		"ledger_rpc_errors_total",
		metric.WithDescription("Total failed JSON-RPC requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	n.metrics.latency, err = meter.Float64Histogram(
		"ledger_rpc_latency_ms",
		metric.WithDescription("JSON-RPC latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	return nil
}

// isNodeHealthy tells the breaker which failures are the node's fault.
// Reverts and missing receipts are answers, not outages.
func isNodeHealthy(err error) bool {
	if err == nil || errors.Is(err, ethereum.NotFound) || errors.Is(err, context.Canceled) {
		return true
	}
	return isRevert(err)
}

func isRevert(err error) bool {
	var coded interface{ ErrorCode() int }
	if errors.As(err, &coded) && coded.ErrorCode() == 3 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "revert")
}

// read runs fn behind the limiter and breaker with a span and metrics.
func read[T any](ctx context.Context, n *Node, method string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	ctx, span := n.tracer.Start(ctx, "ledger."+method,
		trace.WithAttributes(attribute.String("rpc.method", method)))
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("method", method))
	n.metrics.requests.Add(ctx, 1, attrs)

	waited, err := n.limiter.Wait(ctx)
	if err != nil {
		span.RecordError(err)
		return zero, apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithCause(err),
			apperror.WithContext(method))
	}
	if waited > time.Millisecond {
		span.SetAttributes(attribute.Int64("ratelimit.wait_ms", waited.Milliseconds()))
	}

	start := time.Now()
	res, err := n.cb.Execute(func() (any, error) {
		return fn(ctx)
	})
	n.metrics.latency.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)

	if err != nil {
		if !errors.Is(err, ethereum.NotFound) {
			n.metrics.errors.Add(ctx, 1, attrs)
			span.RecordError(err)
			span.SetStatus(codes.Error, method+" failed")
		}
		if apperror.IsAppError(err) {
			return zero, err
		}
		return zero, apperror.New(apperror.CodeLedgerRPCError,
			apperror.WithCause(err),
			apperror.WithContext(method))
	}

	span.SetStatus(codes.Ok, "")
	out, _ := res.(T)
	return out, nil
}

// ChainID returns eth_chainId.
func (n *Node) ChainID(ctx context.Context) (*big.Int, error) {
	return read(ctx, n, "eth_chainId", func(ctx context.Context) (*big.Int, error) {
		return n.client.ChainID(ctx)
	})
}

// BalanceAt returns eth_getBalance at the latest block.
func (n *Node) BalanceAt(ctx context.Context, account common.Address) (*big.Int, error) {
	return read(ctx, n, "eth_getBalance", func(ctx context.Context) (*big.Int, error) {
		return n.client.BalanceAt(ctx, account, nil)
	})
}

// PendingNonceAt returns eth_getTransactionCount at the pending block.
func (n *Node) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return read(ctx, n, "eth_getTransactionCount", func(ctx context.Context) (uint64, error) {
		return n.client.PendingNonceAt(ctx, account)
	})
}

// SuggestGasPrice returns eth_gasPrice, cached for GasPriceTTL.
func (n *Node) SuggestGasPrice(ctx context.Context) (*domain.GasPrice, error) {
	if p, ok := n.gasCache.Get(ctx, gasPriceKey); ok {
		return p, nil
	}

	wei, err := read(ctx, n, "eth_gasPrice", func(ctx context.Context) (*big.Int, error) {
		return n.client.SuggestGasPrice(ctx)
	})
	if err != nil {
		return nil, err
	}

	p := domain.NewGasPrice(wei)
	if n.config.GasPriceTTL > 0 {
		n.gasCache.Set(ctx, gasPriceKey, p, n.config.GasPriceTTL)
	}
	return p, nil
}

// CallContract executes eth_call against the latest block.
func (n *Node) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	return read(ctx, n, "eth_call", func(ctx context.Context) ([]byte, error) {
		return n.client.CallContract(ctx, msg, nil)
	})
}

// EstimateGas returns eth_estimateGas.
func (n *Node) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return read(ctx, n, "eth_estimateGas", func(ctx context.Context) (uint64, error) {
		return n.client.EstimateGas(ctx, msg)
	})
}

// SendTransaction broadcasts via eth_sendRawTransaction. Broadcasts bypass
// the breaker so a rejected transaction never masks an outage.
func (n *Node) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	ctx, span := n.tracer.Start(ctx, "ledger.eth_sendRawTransaction",
		trace.WithAttributes(attribute.String("tx_hash", tx.Hash().Hex())))
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("method", "eth_sendRawTransaction"))
	n.metrics.requests.Add(ctx, 1, attrs)

	if _, err := n.limiter.Wait(ctx); err != nil {
		return apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithCause(err),
			apperror.WithContext("eth_sendRawTransaction"))
	}

	if err := n.client.SendTransaction(ctx, tx); err != nil {
		n.metrics.errors.Add(ctx, 1, attrs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "broadcast failed")
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// TransactionReceipt returns eth_getTransactionReceipt; ethereum.NotFound
// is preserved in the error chain while the tx is pending.
func (n *Node) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return read(ctx, n, "eth_getTransactionReceipt", func(ctx context.Context) (*types.Receipt, error) {
		return n.client.TransactionReceipt(ctx, hash)
	})
}

// Close releases the connection.
func (n *Node) Close() {
	n.gasCache.Close()
	n.client.Close()
}
