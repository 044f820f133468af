package mirrornode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/asset"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

func newTestProvider(t *testing.T) (*Provider, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.URL.Path {
		case "/api/v1/tokens/0.0.731861":
			w.Write([]byte(`{"token_id":"0.0.731861","symbol":"SAUCE","name":"SaucerSwap","decimals":"6","type":"FUNGIBLE_COMMON"}`))
		case "/api/v1/tokens/0.0.1000":
			w.Write([]byte(`{"token_id":"0.0.1000","symbol":"PUNK","name":"Punks","decimals":"0","type":"NON_FUNGIBLE_UNIQUE"}`))
		case "/api/v1/tokens/0.0.2000":
			w.Write([]byte(`{"token_id":"0.0.2000","symbol":"BAD","decimals":"many"}`))
		case "/api/v1/tokens/0.0.3000":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"_status":{"messages":[{"message":"Not found"}]}}`))
		}
	}))
	t.Cleanup(srv.Close)

	p, err := NewProvider(srv.URL, 0, asset.ChainIDHederaMainnet, logger.NewNop())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	t.Cleanup(p.Close)
	return p, &hits
}

func TestTokenInfo(t *testing.T) {
	p, hits := newTestProvider(t)
	ctx := context.Background()

	a, err := p.TokenInfo(ctx, "0.0.731861")
	if err != nil {
		t.Fatalf("TokenInfo: %v", err)
	}
	if a.Symbol() != "SAUCE" || a.Decimals() != 6 || a.Name() != "SaucerSwap" {
		t.Errorf("asset = %s/%d/%s", a.Symbol(), a.Decimals(), a.Name())
	}
	if a.Address() != asset.MustAddress("0.0.731861") || a.ChainID() != asset.ChainIDHederaMainnet {
		t.Errorf("address %s chain %d", a.Address().Hex(), a.ChainID())
	}

	if _, err := p.TokenInfo(ctx, "0.0.731861"); err != nil {
		t.Fatalf("cached TokenInfo: %v", err)
	}
	if n := atomic.LoadInt32(hits); n != 1 {
		t.Errorf("mirror node hit %d times, want 1", n)
	}
}

func TestTokenInfo_Errors(t *testing.T) {
	p, _ := newTestProvider(t)

	tests := []struct {
		id   string
		want apperror.Code
	}{
		{"0.0.9999", apperror.CodeTokenNotFound},
		{"0.0.1000", apperror.CodeInvalidInput},
		{"0.0.2000", apperror.CodeMirrorNodeError},
		{"0.0.3000", apperror.CodeMirrorNodeError},
		{"not-an-id", apperror.CodeInvalidIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := p.TokenInfo(context.Background(), tt.id)
			if !apperror.HasCode(err, tt.want) {
				t.Errorf("err = %v, want %s", err, tt.want)
			}
		})
	}
}
