package saucerswap

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/saucerswap-engine/business/swap/domain"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

const (
	tracerName = "saucerswap"
	meterName  = "saucerswap"
)

type quoterMetrics struct {
	quotesTotal  metric.Int64Counter
	quoteLatency metric.Float64Histogram
	quoteErrors  metric.Int64Counter
}

// Quoter asks the QuoterV2 contract for exact-input quotes. Quotes are
// simulated calls and never move funds.
type Quoter struct {
	caller  ContractCaller
	address common.Address
	abi     abi.ABI
	logger  logger.LoggerInterface

	tracer  trace.Tracer
	metrics *quoterMetrics
}

// NewQuoter returns a Quoter for the contract at address.
func NewQuoter(caller ContractCaller, address common.Address, log logger.LoggerInterface) (*Quoter, error) {
	parsed, err := abi.JSON(strings.NewReader(QuoterV2ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse quoter ABI: %w", err)
	}

	q := &Quoter{
		caller:  caller,
		address: address,
		abi:     parsed,
		logger:  log,
		tracer:  otel.Tracer(tracerName),
	}

	if err := q.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return q, nil
}

func (q *Quoter) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	q.metrics = &quoterMetrics{}

	q.metrics.quotesTotal, err = meter.Int64Counter(
		"saucerswap_quotes_total",
		metric.WithDescription("Total quote requests"),
	)
	if err != nil {
		return err
	}

	q.metrics.quoteLatency, err = meter.Float64Histogram(
		"saucerswap_quote_latency_ms",
		metric.WithDescription("Quote request latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	q.metrics.quoteErrors, err = meter.Int64Counter(
		"saucerswap_quote_errors_total",
		metric.WithDescription("Total quote errors"),
	)
	return err
}

// QuoteSingle quotes one pool via quoteExactInputSingle.
func (q *Quoter) QuoteSingle(ctx context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, fee domain.FeeTier) (domain.Quote, error) {
	ctx, span := q.tracer.Start(ctx, "saucerswap.quote_single",
		trace.WithAttributes(
			attribute.String("token_in", tokenIn.Hex()),
			attribute.String("token_out", tokenOut.Hex()),
			attribute.String("amount_in", amountIn.String()),
			attribute.Int64("fee", int64(fee)),
		),
	)
	defer span.End()

	data, err := q.abi.Pack("quoteExactInputSingle", quoteExactInputSingleParams{
		TokenIn:           tokenIn,
		TokenOut:          tokenOut,
		AmountIn:          amountIn,
		Fee:               big.NewInt(int64(fee)),
		SqrtPriceLimitX96: new(big.Int),
	})
	if err != nil {
		return domain.Quote{}, apperror.New(apperror.CodeEncodingFailed, apperror.WithCause(err))
	}

	out, err := q.call(ctx, span, "quoteExactInputSingle", data)
	if err != nil {
		return domain.Quote{}, err
	}

	quote := domain.Quote{
		AmountIn:                amountIn,
		AmountOut:               out[0].(*big.Int),
		SqrtPriceX96After:       []*big.Int{out[1].(*big.Int)},
		InitializedTicksCrossed: []uint32{out[2].(uint32)},
		GasEstimate:             out[3].(*big.Int),
	}
	q.finish(ctx, span, quote)
	return quote, nil
}

// QuotePath quotes an encoded route via quoteExactInput.
func (q *Quoter) QuotePath(ctx context.Context, path []byte, amountIn *big.Int) (domain.Quote, error) {
	ctx, span := q.tracer.Start(ctx, "saucerswap.quote_path",
		trace.WithAttributes(
			attribute.Int("path_bytes", len(path)),
			attribute.String("amount_in", amountIn.String()),
		),
	)
	defer span.End()

	data, err := q.abi.Pack("quoteExactInput", path, amountIn)
	if err != nil {
		return domain.Quote{}, apperror.New(apperror.CodeEncodingFailed, apperror.WithCause(err))
	}

	out, err := q.call(ctx, span, "quoteExactInput", data)
	if err != nil {
		return domain.Quote{}, err
	}

	quote := domain.Quote{
		AmountIn:                amountIn,
		AmountOut:               out[0].(*big.Int),
		SqrtPriceX96After:       out[1].([]*big.Int),
		InitializedTicksCrossed: out[2].([]uint32),
		GasEstimate:             out[3].(*big.Int),
	}
	q.finish(ctx, span, quote)
	return quote, nil
}

// call executes and decodes one quoter method. Reverts and transport
// failures both surface as QUOTE_FAILED.
func (q *Quoter) call(ctx context.Context, span trace.Span, method string, data []byte) ([]any, error) {
	start := time.Now()
	q.metrics.quotesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))

	result, err := q.caller.Call(ctx, q.address, data)
	q.metrics.quoteLatency.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, q.fail(ctx, span, apperror.New(apperror.CodeQuoteFailed,
			apperror.WithCause(err),
			apperror.WithContext(method)))
	}

	out, err := q.abi.Unpack(method, result)
	if err != nil || len(out) < 4 {
		return nil, q.fail(ctx, span, apperror.New(apperror.CodeQuoteFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("decode %s: %d bytes", method, len(result)))))
	}
	return out, nil
}

func (q *Quoter) fail(ctx context.Context, span trace.Span, err error) error {
	q.metrics.quoteErrors.Add(ctx, 1)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	q.logger.Warn(ctx, "quote failed", "error", err)
	return err
}

func (q *Quoter) finish(ctx context.Context, span trace.Span, quote domain.Quote) {
	span.SetAttributes(
		attribute.String("amount_out", quote.AmountOut.String()),
		attribute.String("gas_estimate", quote.GasEstimate.String()),
	)
	span.SetStatus(codes.Ok, "quote received")

	q.logger.Debug(ctx, "saucerswap quote",
		"amount_in", quote.AmountIn.String(),
		"amount_out", quote.AmountOut.String(),
		"gas_estimate", quote.GasEstimate.String(),
	)
}
