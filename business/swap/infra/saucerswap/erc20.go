package saucerswap

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
)

// ContractCaller performs read-only contract calls.
type ContractCaller interface {
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// Tokens reads and encodes calls to HTS token ERC-20 facades.
type Tokens struct {
	caller ContractCaller
	abi    abi.ABI
}

// NewTokens returns a Tokens reading through caller.
func NewTokens(caller ContractCaller) (*Tokens, error) {
	parsed, err := abi.JSON(strings.NewReader(ERC20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse erc20 ABI: %w", err)
	}
	return &Tokens{caller: caller, abi: parsed}, nil
}

// Allowance returns allowance(owner, spender) on token.
func (t *Tokens) Allowance(ctx context.Context, token, owner, spender common.Address) (*big.Int, error) {
	return t.readUint(ctx, token, "allowance", owner, spender)
}

// BalanceOf returns balanceOf(account) on token in smallest units.
func (t *Tokens) BalanceOf(ctx context.Context, token, account common.Address) (*big.Int, error) {
	return t.readUint(ctx, token, "balanceOf", account)
}

// Decimals returns decimals() on token.
func (t *Tokens) Decimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := t.read(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}
	d, ok := out[0].(uint8)
	if !ok {
		return 0, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(fmt.Sprintf("decimals: unexpected type %T", out[0])))
	}
	return d, nil
}

// EncodeApprove packs approve(spender, amount).
func (t *Tokens) EncodeApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	data, err := t.abi.Pack("approve", spender, amount)
	if err != nil {
		return nil, apperror.New(apperror.CodeEncodingFailed,
			apperror.WithCause(err),
			apperror.WithContext("erc20.approve"))
	}
	return data, nil
}

func (t *Tokens) readUint(ctx context.Context, token common.Address, method string, args ...any) (*big.Int, error) {
	out, err := t.read(ctx, token, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithContext(fmt.Sprintf("%s: unexpected type %T", method, out[0])))
	}
	return v, nil
}

func (t *Tokens) read(ctx context.Context, token common.Address, method string, args ...any) ([]any, error) {
	data, err := t.abi.Pack(method, args...)
	if err != nil {
		return nil, apperror.New(apperror.CodeEncodingFailed,
			apperror.WithCause(err),
			apperror.WithContext("erc20."+method))
	}

	result, err := t.caller.Call(ctx, token, data)
	if err != nil {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("%s on %s", method, token.Hex())))
	}

	out, err := t.abi.Unpack(method, result)
	if err != nil || len(out) == 0 {
		return nil, apperror.New(apperror.CodeContractCallFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("decode %s from %s", method, token.Hex())))
	}
	return out, nil
}
