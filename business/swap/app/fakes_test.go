package app

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	ledgerDomain "github.com/fd1az/saucerswap-engine/business/ledger/domain"
	"github.com/fd1az/saucerswap-engine/business/swap/domain"
	"github.com/fd1az/saucerswap-engine/business/swap/infra/saucerswap"
	"github.com/fd1az/saucerswap-engine/internal/asset"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

var (
	routerAddr = asset.MustAddress("0.0.3949434")
	whbarAddr  = asset.MustAddress(asset.EntityWHBARMainnet)
	usdcAddr   = asset.MustAddress(asset.EntityUSDCMainnet)
	sauceAddr  = asset.MustAddress(asset.EntitySAUCEMainnet)
	account    = common.HexToAddress("0x000000000000000000000000000000000000beef")

	fixedNow = time.UnixMilli(1_750_000_000_000)

	errRPC = errors.New("dial tcp: connection refused")
)

func usdc() domain.TokenRef  { return domain.Token(usdcAddr, 6, "USDC") }
func sauce() domain.TokenRef { return domain.Token(sauceAddr, 6, "SAUCE") }

// fakeLedger answers ERC-20 reads from in-memory state and records every
// submitted transaction. A confirmed approve raises the stored allowance.
type fakeLedger struct {
	t     *testing.T
	erc20 abi.ABI

	mu           sync.Mutex
	account      common.Address
	allowance    *big.Int
	tokenBalance *big.Int
	weibar       *big.Int
	decimals     map[common.Address]uint8

	estimate    uint64
	estimateErr error
	submitErr   error
	waitErr     error
	revert      map[string]bool // labels whose receipt fails

	submitted []ledgerDomain.TxRequest
	labels    map[common.Hash]string
	pending   map[common.Hash]*big.Int // approve hash -> amount
}

func newFakeLedger(t *testing.T) *fakeLedger {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(saucerswap.ERC20ABI))
	if err != nil {
		t.Fatalf("parse erc20 abi: %v", err)
	}
	return &fakeLedger{
		t:            t,
		erc20:        parsed,
		account:      account,
		allowance:    big.NewInt(0),
		tokenBalance: big.NewInt(0),
		weibar:       big.NewInt(0),
		decimals:     map[common.Address]uint8{},
		estimateErr:  errors.New("estimate disabled"),
		revert:       map[string]bool{},
		labels:       map[common.Hash]string{},
		pending:      map[common.Hash]*big.Int{},
	}
}

func (f *fakeLedger) Account() common.Address { return f.account }

func (f *fakeLedger) GetBalance(_ context.Context, _ common.Address) (*big.Int, error) {
	return f.weibar, nil
}

func (f *fakeLedger) Call(_ context.Context, to common.Address, data []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, err := f.erc20.MethodById(data[:4])
	if err != nil {
		return nil, err
	}
	switch m.Name {
	case "allowance":
		return m.Outputs.Pack(f.allowance)
	case "balanceOf":
		return m.Outputs.Pack(f.tokenBalance)
	case "decimals":
		if d, ok := f.decimals[to]; ok {
			return m.Outputs.Pack(d)
		}
		return nil, errors.New("execution reverted")
	}
	return nil, fmt.Errorf("unexpected call %s", m.Name)
}

func (f *fakeLedger) EstimateGas(_ context.Context, _ ledgerDomain.TxRequest) (uint64, error) {
	return f.estimate, f.estimateErr
}

func (f *fakeLedger) Submit(_ context.Context, req ledgerDomain.TxRequest) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitErr != nil {
		return common.Hash{}, f.submitErr
	}
	f.submitted = append(f.submitted, req)
	hash := common.BigToHash(big.NewInt(int64(len(f.submitted))))
	f.labels[hash] = req.Label

	if req.Label == "approve" {
		args := f.unpackApprove(req.Data)
		f.pending[hash] = args
	}
	return hash, nil
}

func (f *fakeLedger) WaitForReceipt(_ context.Context, hash common.Hash, _ time.Duration) (*ledgerDomain.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.waitErr != nil {
		return nil, f.waitErr
	}
	label := f.labels[hash]
	ok := !f.revert[label]
	if amount, isApprove := f.pending[hash]; isApprove && ok {
		f.allowance = amount
	}
	return &ledgerDomain.Receipt{
		TxHash:      hash,
		Success:     ok,
		GasUsed:     123_456,
		BlockNumber: big.NewInt(1),
		Elapsed:     3 * time.Second,
	}, nil
}

func (f *fakeLedger) unpackApprove(data []byte) *big.Int {
	m, err := f.erc20.MethodById(data[:4])
	if err != nil || m.Name != "approve" {
		f.t.Fatalf("approve tx carries %v (%v)", m, err)
	}
	args, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		f.t.Fatalf("unpack approve: %v", err)
	}
	if args[0].(common.Address) != routerAddr {
		f.t.Errorf("approve spender = %s, want router", args[0].(common.Address).Hex())
	}
	return args[1].(*big.Int)
}

func (f *fakeLedger) labelsSubmitted() []string {
	out := make([]string, len(f.submitted))
	for i, r := range f.submitted {
		out[i] = r.Label
	}
	return out
}

// fakeQuoter returns a fixed output and records which entry point was used.
type fakeQuoter struct {
	amountOut *big.Int
	err       error

	singleCalls int
	pathCalls   int
	lastPath    []byte
	lastIn      *big.Int
}

func (q *fakeQuoter) QuoteSingle(_ context.Context, tokenIn, tokenOut common.Address, amountIn *big.Int, fee domain.FeeTier) (domain.Quote, error) {
	q.singleCalls++
	q.lastIn = amountIn
	path, _ := domain.EncodePath([]common.Address{tokenIn, tokenOut}, []domain.FeeTier{fee})
	q.lastPath = path
	return q.quote(amountIn)
}

func (q *fakeQuoter) QuotePath(_ context.Context, path []byte, amountIn *big.Int) (domain.Quote, error) {
	q.pathCalls++
	q.lastIn = amountIn
	q.lastPath = path
	return q.quote(amountIn)
}

func (q *fakeQuoter) quote(amountIn *big.Int) (domain.Quote, error) {
	if q.err != nil {
		return domain.Quote{}, q.err
	}
	return domain.Quote{AmountIn: amountIn, AmountOut: q.amountOut, GasEstimate: big.NewInt(90_000)}, nil
}

type engineFixture struct {
	ledger *fakeLedger
	quoter *fakeQuoter
	engine *Engine
	slept  []time.Duration
}

func newEngineFixture(t *testing.T, mutate func(*EngineConfig)) *engineFixture {
	t.Helper()

	ledger := newFakeLedger(t)
	quoter := &fakeQuoter{amountOut: big.NewInt(1_000_000)}

	tokens, err := saucerswap.NewTokens(ledger)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	router, err := saucerswap.NewRouter(routerAddr)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	cfg := EngineConfig{
		WrappedNative:   whbarAddr,
		DefaultFee:      domain.DefaultFee,
		DefaultSlippage: decimal.RequireFromString("0.01"),
		DeadlineWindow:  domain.DefaultDeadlineWindow,
		ConfirmTimeout:  time.Minute,
		Builder:         DefaultBuilderConfig(),
		Approval:        DefaultApprovalPolicy(),
	}
	if mutate != nil {
		mutate(&cfg)
	}

	engine, err := NewEngine(ledger, quoter, tokens, router, asset.DefaultRegistry(asset.ChainIDHederaMainnet), nil, cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	fx := &engineFixture{ledger: ledger, quoter: quoter, engine: engine}
	engine.now = func() time.Time { return fixedNow }
	engine.allowance.sleep = func(_ context.Context, d time.Duration) error {
		fx.slept = append(fx.slept, d)
		return nil
	}
	return fx
}

// routerCall is a decoded router invocation.
type routerCall struct {
	Method string
	Args   []any
}

func decodeRouter(t *testing.T, data []byte) routerCall {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(saucerswap.SwapRouterABI))
	if err != nil {
		t.Fatalf("parse router abi: %v", err)
	}
	m, err := parsed.MethodById(data[:4])
	if err != nil {
		t.Fatalf("unknown router selector %x", data[:4])
	}
	args, err := m.Inputs.Unpack(data[4:])
	if err != nil {
		t.Fatalf("unpack %s: %v", m.Name, err)
	}
	return routerCall{Method: m.Name, Args: args}
}

type exactInputArgs struct {
	Path             []byte
	Recipient        common.Address
	Deadline         *big.Int
	AmountIn         *big.Int
	AmountOutMinimum *big.Int
}

type exactInputSingleArgs struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	Deadline          *big.Int
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

func (c routerCall) exactInput(t *testing.T) exactInputArgs {
	t.Helper()
	if c.Method != "exactInput" {
		t.Fatalf("method = %s, want exactInput", c.Method)
	}
	return *abi.ConvertType(c.Args[0], new(exactInputArgs)).(*exactInputArgs)
}

func (c routerCall) exactInputSingle(t *testing.T) exactInputSingleArgs {
	t.Helper()
	if c.Method != "exactInputSingle" {
		t.Fatalf("method = %s, want exactInputSingle", c.Method)
	}
	return *abi.ConvertType(c.Args[0], new(exactInputSingleArgs)).(*exactInputSingleArgs)
}
