// Package mirrornode resolves token metadata through the Hedera mirror node
// REST API.
package mirrornode

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/asset"
	"github.com/fd1az/saucerswap-engine/internal/cache"
	"github.com/fd1az/saucerswap-engine/internal/circuitbreaker"
	"github.com/fd1az/saucerswap-engine/internal/httpclient"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

const (
	tokenPath = "/api/v1/tokens/"
	tokenTTL  = time.Hour

	fungibleType = "FUNGIBLE_COMMON"
)

// tokenResponse is the subset of /api/v1/tokens/{id} the engine needs.
// The mirror node encodes decimals as a string.
type tokenResponse struct {
	TokenID  string `json:"token_id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals string `json:"decimals"`
	Type     string `json:"type"`
}

// Provider looks up fungible token metadata and caches it.
type Provider struct {
	client  httpclient.Client
	chainID uint64
	cache   *cache.Cache[string, *asset.Asset]
	cb      *circuitbreaker.CircuitBreaker[*tokenResponse]
	logger  logger.LoggerInterface
}

// NewProvider returns a Provider for the mirror node at baseURL.
func NewProvider(baseURL string, timeout time.Duration, chainID uint64, log logger.LoggerInterface) (*Provider, error) {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithBaseURL(baseURL),
		httpclient.WithProviderName("mirror-node"),
		httpclient.WithRequestTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mirror node client: %w", err)
	}
	return newProvider(client, chainID, log), nil
}

func newProvider(client httpclient.Client, chainID uint64, log logger.LoggerInterface) *Provider {
	cbCfg := circuitbreaker.DefaultConfig("mirror-node")
	cbCfg.IsSuccessful = func(err error) bool {
		return err == nil || httpclient.IsNotFound(err)
	}

	return &Provider{
		client:  client,
		chainID: chainID,
		cache:   cache.New[string, *asset.Asset](10 * time.Minute),
		cb:      circuitbreaker.New[*tokenResponse](cbCfg),
		logger:  log,
	}
}

// TokenInfo returns the metadata of a fungible token by entity id or EVM
// address.
func (p *Provider) TokenInfo(ctx context.Context, id string) (*asset.Asset, error) {
	if a, ok := p.cache.Get(ctx, id); ok {
		return a, nil
	}

	addr, err := asset.ToAddress(id)
	if err != nil {
		return nil, err
	}

	resp, err := p.cb.Execute(func() (*tokenResponse, error) {
		var out tokenResponse
		if _, err := p.client.NewRequest().SetResult(&out).Get(ctx, tokenPath+id); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		if httpclient.IsNotFound(err) {
			return nil, apperror.New(apperror.CodeTokenNotFound, apperror.WithContext(id), apperror.WithCause(err))
		}
		return nil, apperror.Wrap(err, apperror.CodeMirrorNodeError, "token "+id)
	}

	a, err := p.toAsset(addr, resp)
	if err != nil {
		return nil, err
	}

	p.cache.Set(ctx, id, a, tokenTTL)
	p.logger.Debug(ctx, "token metadata resolved",
		"token", id,
		"symbol", a.Symbol(),
		"decimals", a.Decimals(),
	)
	return a, nil
}

// Close stops the cache sweeper.
func (p *Provider) Close() {
	p.cache.Close()
}

func (p *Provider) toAsset(addr common.Address, resp *tokenResponse) (*asset.Asset, error) {
	if resp.Type != "" && resp.Type != fungibleType {
		return nil, apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext(fmt.Sprintf("%s is %s, not a fungible token", resp.TokenID, resp.Type)))
	}

	decimals, err := strconv.ParseUint(resp.Decimals, 10, 8)
	if err != nil {
		return nil, apperror.New(apperror.CodeMirrorNodeError,
			apperror.WithCause(err),
			apperror.WithContext("decimals "+strconv.Quote(resp.Decimals)))
	}

	symbol := resp.Symbol
	if symbol == "" {
		symbol = resp.TokenID
	}
	return asset.NewToken(p.chainID, addr, symbol, resp.Name, uint8(decimals)), nil
}
