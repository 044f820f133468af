package app

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"

	ledgerDomain "github.com/fd1az/saucerswap-engine/business/ledger/domain"
	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

// ApprovalPolicy decides how much allowance to grant and how to wait for it.
type ApprovalPolicy struct {
	Unlimited      bool
	Multiple       int64         // factor applied to the required amount when not unlimited
	SettleDelay    time.Duration // relay propagation lag after confirmation
	GasLimit       uint64
	ConfirmTimeout time.Duration
}

// DefaultApprovalPolicy approves ten times the required amount.
func DefaultApprovalPolicy() ApprovalPolicy {
	return ApprovalPolicy{
		Multiple:       10,
		SettleDelay:    5 * time.Second,
		GasLimit:       1_000_000,
		ConfirmTimeout: 120 * time.Second,
	}
}

// Amount returns the allowance to request for required.
func (p ApprovalPolicy) Amount(required *big.Int) *big.Int {
	if p.Unlimited {
		return new(big.Int).Set(math.MaxBig256)
	}
	factor := p.Multiple
	if factor < 1 {
		factor = 1
	}
	return new(big.Int).Mul(required, big.NewInt(factor))
}

// ApprovalResult reports what EnsureApproval did.
type ApprovalResult struct {
	AlreadySufficient bool
	Allowance         *big.Int // allowance read before any approval
	Approved          *big.Int // amount granted, nil when sufficient
	TxHash            common.Hash
}

// AllowanceManager raises a spender's token allowance on demand.
type AllowanceManager struct {
	ledger LedgerClient
	tokens TokenContracts
	policy ApprovalPolicy
	logger logger.LoggerInterface

	sleep func(ctx context.Context, d time.Duration) error
}

// NewAllowanceManager returns an AllowanceManager.
func NewAllowanceManager(ledger LedgerClient, tokens TokenContracts, policy ApprovalPolicy, log logger.LoggerInterface) *AllowanceManager {
	return &AllowanceManager{
		ledger: ledger,
		tokens: tokens,
		policy: policy,
		logger: log,
		sleep:  sleepCtx,
	}
}

// EnsureApproval makes sure spender may move at least required units of
// token from the ledger account. When the allowance is short it submits an
// approve, waits for confirmation and then the settle delay.
func (m *AllowanceManager) EnsureApproval(ctx context.Context, token, spender common.Address, required *big.Int) (ApprovalResult, error) {
	owner := m.ledger.Account()

	current, err := m.tokens.Allowance(ctx, token, owner, spender)
	if err != nil {
		return ApprovalResult{}, err
	}
	if current.Cmp(required) >= 0 {
		m.logger.Debug(ctx, "allowance sufficient",
			"token", token.Hex(),
			"allowance", current.String(),
			"required", required.String(),
		)
		return ApprovalResult{AlreadySufficient: true, Allowance: current}, nil
	}

	m.logger.Info(ctx, "allowance insufficient, approving",
		"token", token.Hex(),
		"spender", spender.Hex(),
		"error", apperror.New(apperror.CodeInsufficientAuthorization,
			apperror.WithContext(fmt.Sprintf("have %s, need %s", current, required))),
	)

	amount := m.policy.Amount(required)
	data, err := m.tokens.EncodeApprove(spender, amount)
	if err != nil {
		return ApprovalResult{}, err
	}

	hash, err := m.ledger.Submit(ctx, ledgerDomain.TxRequest{
		To:       token,
		Data:     data,
		GasLimit: m.policy.GasLimit,
		Label:    "approve",
	})
	if err != nil {
		return ApprovalResult{}, err
	}
	result := ApprovalResult{Allowance: current, Approved: amount, TxHash: hash}

	receipt, err := m.ledger.WaitForReceipt(ctx, hash, m.policy.ConfirmTimeout)
	if err != nil {
		return result, err
	}
	if !receipt.Success {
		return result, apperror.New(apperror.CodeTransactionReverted,
			apperror.WithContext("approve "+hash.Hex()))
	}

	m.logger.Info(ctx, "approval confirmed",
		"token", token.Hex(),
		"amount", amount.String(),
		"tx_hash", hash.Hex(),
		"settle_delay", m.policy.SettleDelay,
	)

	if err := m.sleep(ctx, m.policy.SettleDelay); err != nil {
		return result, apperror.New(apperror.CodeApprovalFailed,
			apperror.WithCause(err),
			apperror.WithContext("interrupted while settling"))
	}
	return result, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
