package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	ledgerDomain "github.com/fd1az/saucerswap-engine/business/ledger/domain"
	"github.com/fd1az/saucerswap-engine/business/swap/domain"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

// BuilderConfig holds transaction assembly settings.
type BuilderConfig struct {
	// SingleHopEntry routes one-hop swaps through exactInputSingle.
	SingleHopEntry    bool
	GasLimitDirect    uint64
	GasLimitMulticall uint64
	// EstimateGas replaces the default limits with the node's estimate
	// when it succeeds.
	EstimateGas bool
}

// DefaultBuilderConfig returns the fallback gas limits.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		GasLimitDirect:    1_000_000,
		GasLimitMulticall: 2_000_000,
		EstimateGas:       true,
	}
}

// Builder assembles the router transaction for a planned swap.
type Builder struct {
	router RouterEncoder
	ledger LedgerClient
	cfg    BuilderConfig
	logger logger.LoggerInterface
}

// NewBuilder returns a Builder.
func NewBuilder(router RouterEncoder, ledger LedgerClient, cfg BuilderConfig, log logger.LoggerInterface) *Builder {
	return &Builder{router: router, ledger: ledger, cfg: cfg, logger: log}
}

// Build returns the unsigned transaction for plan, paying out to recipient.
//
//	NativeIn      exactInput(recipient)                       value = amountIn in weibar
//	NativeOut     multicall[exactInput(router), unwrapWHBAR]  value = 0
//	TokenToToken  exactInput(recipient)                       value = 0
func (b *Builder) Build(ctx context.Context, plan domain.Plan, recipient common.Address, deadline domain.Deadline) (ledgerDomain.TxRequest, error) {
	req := ledgerDomain.TxRequest{
		To:    b.router.Address(),
		Label: "swap." + plan.Shape.String(),
	}

	switch plan.Shape {
	case domain.ShapeNativeIn:
		data, err := b.swapCall(plan, recipient, deadline)
		if err != nil {
			return req, err
		}
		req.Data = data
		req.Value = new(big.Int).Mul(plan.AmountIn, ledgerDomain.WeibarPerTinybar)
		req.GasLimit = b.cfg.GasLimitDirect

	case domain.ShapeNativeOut:
		swap, err := b.swapCall(plan, b.router.Address(), deadline)
		if err != nil {
			return req, err
		}
		unwrap, err := b.router.EncodeUnwrapWHBAR(plan.MinOut, recipient)
		if err != nil {
			return req, err
		}
		data, err := b.router.EncodeMulticall([][]byte{swap, unwrap})
		if err != nil {
			return req, err
		}
		req.Data = data
		req.GasLimit = b.cfg.GasLimitMulticall

	case domain.ShapeTokenToToken:
		data, err := b.swapCall(plan, recipient, deadline)
		if err != nil {
			return req, err
		}
		req.Data = data
		req.GasLimit = b.cfg.GasLimitDirect

	default:
		return req, apperror.New(apperror.CodeInvalidRoute,
			apperror.WithContext("unknown shape "+plan.Shape.String()))
	}

	if b.cfg.EstimateGas {
		b.applyEstimate(ctx, &req)
	}
	return req, nil
}

// swapCall encodes the router swap entry for plan.
func (b *Builder) swapCall(plan domain.Plan, recipient common.Address, deadline domain.Deadline) ([]byte, error) {
	if b.cfg.SingleHopEntry && plan.Intent.Hops() == 1 {
		tokens, fees, err := domain.DecodePath(plan.Path)
		if err != nil {
			return nil, err
		}
		return b.router.EncodeExactInputSingle(domain.ExactInputSingleCall{
			TokenIn:          tokens[0],
			TokenOut:         tokens[1],
			Fee:              fees[0],
			Recipient:        recipient,
			Deadline:         deadline,
			AmountIn:         plan.AmountIn,
			AmountOutMinimum: plan.MinOut,
		})
	}
	return b.router.EncodeExactInput(domain.ExactInputCall{
		Path:             plan.Path,
		Recipient:        recipient,
		Deadline:         deadline,
		AmountIn:         plan.AmountIn,
		AmountOutMinimum: plan.MinOut,
	})
}

func (b *Builder) applyEstimate(ctx context.Context, req *ledgerDomain.TxRequest) {
	gas, err := b.ledger.EstimateGas(ctx, *req)
	if err != nil {
		b.logger.Debug(ctx, "gas estimate unavailable, using default",
			"label", req.Label,
			"gas_limit", req.GasLimit,
			"error", err,
		)
		return
	}
	req.GasLimit = gas
}
