package app

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	ledgerDomain "github.com/fd1az/saucerswap-engine/business/ledger/domain"
	"github.com/fd1az/saucerswap-engine/business/swap/domain"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/asset"
	"github.com/fd1az/saucerswap-engine/internal/config"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

const (
	tracerName = "swap"
	meterName  = "swap"
)

// EngineConfig holds the per-deployment swap settings.
type EngineConfig struct {
	WrappedNative   common.Address
	DefaultFee      domain.FeeTier
	DefaultSlippage decimal.Decimal
	DeadlineWindow  time.Duration
	ConfirmTimeout  time.Duration
	Builder         BuilderConfig
	Approval        ApprovalPolicy
}

// EngineConfigFrom derives an EngineConfig from loaded configuration.
func EngineConfigFrom(cfg *config.Config) (EngineConfig, error) {
	wrapped, err := cfg.SaucerSwap.WrappedNativeAddress()
	if err != nil {
		return EngineConfig{}, err
	}

	fee := domain.FeeTier(cfg.SaucerSwap.DefaultFeeTier)
	if !fee.Valid() {
		return EngineConfig{}, apperror.New(apperror.CodeInvalidFeeTier, apperror.WithContext(fee.String()))
	}

	builder := DefaultBuilderConfig()
	builder.SingleHopEntry = cfg.SaucerSwap.SingleHopEntry
	if cfg.SaucerSwap.GasLimitDirect > 0 {
		builder.GasLimitDirect = cfg.SaucerSwap.GasLimitDirect
	}
	if cfg.SaucerSwap.GasLimitMulticall > 0 {
		builder.GasLimitMulticall = cfg.SaucerSwap.GasLimitMulticall
	}

	approval := DefaultApprovalPolicy()
	approval.Unlimited = cfg.SaucerSwap.ApprovalMode == config.ApprovalUnlimited
	if cfg.SaucerSwap.ApprovalMultiple > 0 {
		approval.Multiple = cfg.SaucerSwap.ApprovalMultiple
	}
	approval.SettleDelay = cfg.SaucerSwap.ApprovalSettleDelay
	if cfg.SaucerSwap.GasLimitApprove > 0 {
		approval.GasLimit = cfg.SaucerSwap.GasLimitApprove
	}

	out := EngineConfig{
		WrappedNative:   wrapped,
		DefaultFee:      fee,
		DefaultSlippage: cfg.SaucerSwap.DefaultSlippageDecimal(),
		DeadlineWindow:  cfg.SaucerSwap.DeadlineWindow,
		ConfirmTimeout:  cfg.Ledger.ConfirmTimeout,
		Builder:         builder,
		Approval:        approval,
	}
	if out.DeadlineWindow <= 0 {
		out.DeadlineWindow = domain.DefaultDeadlineWindow
	}
	if out.ConfirmTimeout <= 0 {
		out.ConfirmTimeout = 120 * time.Second
	}
	approval.ConfirmTimeout = out.ConfirmTimeout
	out.Approval = approval
	return out, nil
}

type engineMetrics struct {
	swapsTotal     metric.Int64Counter
	approvalsTotal metric.Int64Counter
	confirmLatency metric.Float64Histogram
}

// Engine quotes and executes exact-input swaps for one signing account.
type Engine struct {
	ledger    LedgerClient
	quoter    Quoter
	tokens    TokenContracts
	router    RouterEncoder
	registry  *asset.Registry
	metadata  TokenMetadata
	allowance *AllowanceManager
	builder   *Builder
	cfg       EngineConfig
	logger    logger.LoggerInterface

	tracer  trace.Tracer
	metrics *engineMetrics
	now     func() time.Time
}

// NewEngine wires an Engine. metadata may be nil, in which case only
// registered tokens and raw addresses resolve.
func NewEngine(
	ledger LedgerClient,
	quoter Quoter,
	tokens TokenContracts,
	router RouterEncoder,
	registry *asset.Registry,
	metadata TokenMetadata,
	cfg EngineConfig,
	log logger.LoggerInterface,
) (*Engine, error) {
	e := &Engine{
		ledger:    ledger,
		quoter:    quoter,
		tokens:    tokens,
		router:    router,
		registry:  registry,
		metadata:  metadata,
		allowance: NewAllowanceManager(ledger, tokens, cfg.Approval, log),
		builder:   NewBuilder(router, ledger, cfg.Builder, log),
		cfg:       cfg,
		logger:    log,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}

	if err := e.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}
	return e, nil
}

func (e *Engine) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	e.metrics = &engineMetrics{}

	e.metrics.swapsTotal, err = meter.Int64Counter(
		"swap_executions_total",
		metric.WithDescription("Swaps by shape and outcome"),
	)
	if err != nil {
		return err
	}

	e.metrics.approvalsTotal, err = meter.Int64Counter(
		"swap_approvals_total",
		metric.WithDescription("Approval transactions submitted"),
	)
	if err != nil {
		return err
	}

	e.metrics.confirmLatency, err = meter.Float64Histogram(
		"swap_confirmation_latency_ms",
		metric.WithDescription("Broadcast to receipt latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	return err
}

// Config returns the engine settings.
func (e *Engine) Config() EngineConfig {
	return e.cfg
}

// Account returns the signing account.
func (e *Engine) Account() common.Address {
	return e.ledger.Account()
}

// Quote validates intent, prices it and derives the minimum output without
// submitting anything.
func (e *Engine) Quote(ctx context.Context, intent domain.SwapIntent) (domain.Plan, error) {
	if err := intent.Validate(); err != nil {
		return domain.Plan{}, err
	}
	shape, _ := domain.SelectShape(intent.TokenIn, intent.TokenOut)
	if intent.Fee == 0 {
		intent.Fee = e.cfg.DefaultFee
	}

	tokens, fees := intent.Route(e.cfg.WrappedNative)
	path, err := domain.EncodePath(tokens, fees)
	if err != nil {
		return domain.Plan{}, err
	}

	amountIn := intent.TokenIn.ToRaw(intent.AmountIn)

	var quote domain.Quote
	if intent.Hops() == 1 {
		quote, err = e.quoter.QuoteSingle(ctx, tokens[0], tokens[1], amountIn, fees[0])
	} else {
		quote, err = e.quoter.QuotePath(ctx, path, amountIn)
	}
	if err != nil {
		return domain.Plan{}, err
	}
	if quote.AmountOut == nil || quote.AmountOut.Sign() <= 0 {
		return domain.Plan{}, apperror.New(apperror.CodeInvalidQuote,
			apperror.WithContext(fmt.Sprintf("zero output for %s %s -> %s", intent.AmountIn, intent.TokenIn, intent.TokenOut)))
	}

	return domain.Plan{
		Intent:   intent,
		Shape:    shape,
		Path:     path,
		AmountIn: amountIn,
		Quote:    quote,
		MinOut:   domain.MinOut(quote.AmountOut, intent.Slippage),
	}, nil
}

// Swap quotes intent and executes the resulting plan. It never returns an
// error: every failure is folded into the result, and TxHash is set only when
// the swap transaction was broadcast.
func (e *Engine) Swap(ctx context.Context, intent domain.SwapIntent) domain.SwapResult {
	return e.run(ctx, intent, nil)
}

// Execute submits a plan previously returned by Quote without re-quoting, so
// the router enforces exactly plan.MinOut. Failures are folded into the
// result as in Swap.
func (e *Engine) Execute(ctx context.Context, plan domain.Plan) domain.SwapResult {
	return e.run(ctx, plan.Intent, &plan)
}

func (e *Engine) run(ctx context.Context, intent domain.SwapIntent, quoted *domain.Plan) (result domain.SwapResult) {
	ctx, span := e.tracer.Start(ctx, "swap.execute",
		trace.WithAttributes(
			attribute.String("token_in", intent.TokenIn.String()),
			attribute.String("token_out", intent.TokenOut.String()),
			attribute.String("amount_in", intent.AmountIn.String()),
			attribute.Bool("prequoted", quoted != nil),
		),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			result = domain.Failed(apperror.New(apperror.CodeInternalError,
				apperror.WithContext(fmt.Sprintf("panic: %v", r))), result.TxHash)
		}
		e.record(ctx, span, result)
	}()

	if e.ledger.Account() == (common.Address{}) {
		return domain.Failed(apperror.New(apperror.CodeInvalidCredential,
			apperror.WithContext("swaps need a signing key")), "")
	}

	var plan domain.Plan
	if quoted != nil {
		if err := e.checkPlan(*quoted); err != nil {
			return domain.Failed(err, "")
		}
		plan = *quoted
	} else {
		var err error
		if plan, err = e.Quote(ctx, intent); err != nil {
			return domain.Failed(err, "")
		}
	}
	span.SetAttributes(
		attribute.String("shape", plan.Shape.String()),
		attribute.String("expected_out", plan.Quote.AmountOut.String()),
		attribute.String("min_out", plan.MinOut.String()),
	)

	e.logger.Info(ctx, "swap planned",
		"shape", plan.Shape.String(),
		"amount_in", intent.AmountIn.String(),
		"token_in", intent.TokenIn.String(),
		"token_out", intent.TokenOut.String(),
		"expected_out", plan.ExpectedOut().String(),
		"min_out", plan.MinOutHuman().String(),
	)

	var approvalHash string
	if !intent.TokenIn.IsNative() {
		approval, err := e.allowance.EnsureApproval(ctx, intent.TokenIn.Address(), e.router.Address(), plan.AmountIn)
		if approval.TxHash != (common.Hash{}) {
			approvalHash = approval.TxHash.Hex()
			e.metrics.approvalsTotal.Add(ctx, 1)
		}
		if err != nil {
			res := domain.Failed(err, "")
			res.ApprovalTxHash = approvalHash
			res.Shape = plan.Shape
			return res
		}
	}

	deadline := domain.NewDeadline(e.now(), e.cfg.DeadlineWindow)
	req, err := e.builder.Build(ctx, plan, e.ledger.Account(), deadline)
	if err != nil {
		return e.failed(plan, err, "", approvalHash)
	}

	hash, err := e.ledger.Submit(ctx, req)
	if err != nil {
		return e.failed(plan, err, "", approvalHash)
	}
	txHash := hash.Hex()

	receipt, err := e.ledger.WaitForReceipt(ctx, hash, e.cfg.ConfirmTimeout)
	if err != nil {
		return e.failed(plan, err, txHash, approvalHash)
	}
	e.metrics.confirmLatency.Record(ctx, float64(receipt.Elapsed.Milliseconds()))

	result = domain.SwapResult{
		Success:        receipt.Success,
		TxHash:         txHash,
		ApprovalTxHash: approvalHash,
		Shape:          plan.Shape,
		AmountIn:       intent.AmountIn,
		AmountOut:      plan.ExpectedOut(),
		MinOut:         plan.MinOutHuman(),
		GasUsed:        receipt.GasUsed,
	}
	if !receipt.Success {
		err := apperror.New(apperror.CodeTransactionReverted, apperror.WithContext(txHash))
		result.Error = err.Error()
		result.Code = err.Code
	}
	return result
}

// checkPlan rejects plans that did not come from Quote or were altered since.
func (e *Engine) checkPlan(plan domain.Plan) error {
	if err := plan.Intent.Validate(); err != nil {
		return err
	}
	if plan.AmountIn == nil || plan.AmountIn.Sign() <= 0 || plan.Quote.AmountOut == nil ||
		plan.MinOut == nil || plan.MinOut.Cmp(plan.Quote.AmountOut) > 0 || len(plan.Path) == 0 {
		return apperror.New(apperror.CodeInvalidInput, apperror.WithContext("plan was not produced by Quote"))
	}
	shape, _ := domain.SelectShape(plan.Intent.TokenIn, plan.Intent.TokenOut)
	if shape != plan.Shape {
		return apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext(fmt.Sprintf("plan shape %s does not match tokens (%s)", plan.Shape, shape)))
	}
	return nil
}

func (e *Engine) failed(plan domain.Plan, err error, txHash, approvalHash string) domain.SwapResult {
	res := domain.Failed(err, txHash)
	res.ApprovalTxHash = approvalHash
	res.Shape = plan.Shape
	res.AmountIn = plan.Intent.AmountIn
	res.AmountOut = plan.ExpectedOut()
	res.MinOut = plan.MinOutHuman()
	return res
}

func (e *Engine) record(ctx context.Context, span trace.Span, result domain.SwapResult) {
	outcome := "success"
	if !result.Success {
		outcome = "failure"
		span.SetStatus(codes.Error, result.Error)
		e.logger.Error(ctx, "swap failed",
			"code", string(result.Code),
			"error", result.Error,
			"tx_hash", result.TxHash,
		)
	} else {
		span.SetStatus(codes.Ok, "swap confirmed")
		e.logger.Info(ctx, "swap confirmed",
			"tx_hash", result.TxHash,
			"gas_used", result.GasUsed,
			"amount_out", result.AmountOut.String(),
		)
	}
	e.metrics.swapsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("shape", result.Shape.String()),
		attribute.String("outcome", outcome),
	))
}

// NativeBalance returns the account's HBAR balance.
func (e *Engine) NativeBalance(ctx context.Context) (asset.Amount, error) {
	weibar, err := e.ledger.GetBalance(ctx, e.ledger.Account())
	if err != nil {
		return asset.Amount{}, err
	}
	native, ok := e.registry.Native()
	if !ok {
		native = asset.NewNative(e.registry.ChainID(), asset.NativeSymbol, "Hedera", asset.HBARDecimals)
	}
	tinybar := new(big.Int).Quo(weibar, ledgerDomain.WeibarPerTinybar)
	return asset.NewAmount(native, tinybar), nil
}

// TokenBalance returns the account's balance of token.
func (e *Engine) TokenBalance(ctx context.Context, token domain.TokenRef) (asset.Amount, error) {
	if token.IsNative() {
		return e.NativeBalance(ctx)
	}
	raw, err := e.tokens.BalanceOf(ctx, token.Address(), e.ledger.Account())
	if err != nil {
		return asset.Amount{}, err
	}
	a, ok := e.registry.GetToken(token.Address())
	if !ok {
		a = asset.NewToken(e.registry.ChainID(), token.Address(), token.Symbol(), "", token.Decimals())
	}
	return asset.NewAmount(a, raw), nil
}

// ResolveToken turns a symbol, HBAR, an entity id or a 0x address into a
// TokenRef. Unregistered tokens are looked up through the metadata source
// and cached in the registry.
func (e *Engine) ResolveToken(ctx context.Context, ref string) (domain.TokenRef, error) {
	ref = strings.TrimSpace(ref)
	if strings.EqualFold(ref, asset.NativeSymbol) {
		return domain.Native(), nil
	}

	a, addr, err := e.registry.Lookup(ref)
	if err == nil {
		return domain.FromAsset(a), nil
	}
	if !apperror.HasCode(err, apperror.CodeTokenNotFound) || addr == (common.Address{}) {
		return domain.TokenRef{}, err
	}

	id, ok := asset.ToEntityID(addr)
	if !ok {
		id = addr.Hex()
	}
	if e.metadata != nil {
		a, err = e.metadata.TokenInfo(ctx, id)
	} else {
		a, err = e.onChainToken(ctx, id, addr)
	}
	if err != nil {
		return domain.TokenRef{}, err
	}
	if err := e.registry.Add(a); err != nil {
		e.logger.Debug(ctx, "token not cached", "token", id, "error", err)
	}
	return domain.FromAsset(a), nil
}

// onChainToken reads decimals() when no mirror node is configured. The entity
// id stands in for the symbol.
func (e *Engine) onChainToken(ctx context.Context, id string, addr common.Address) (*asset.Asset, error) {
	decimals, err := e.tokens.Decimals(ctx, addr)
	if err != nil {
		return nil, apperror.New(apperror.CodeTokenNotFound,
			apperror.WithCause(err),
			apperror.WithContext(id))
	}
	return asset.NewToken(e.registry.ChainID(), addr, id, "", decimals), nil
}
