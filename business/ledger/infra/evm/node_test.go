package evm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/saucerswap-engine/internal/apperror"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// relayStub answers a fixed set of JSON-RPC methods and counts calls.
type relayStub struct {
	mu      sync.Mutex
	calls   map[string]int
	results map[string]any
}

func newRelayStub() *relayStub {
	return &relayStub{
		calls: make(map[string]int),
		results: map[string]any{
			"eth_chainId":               "0x127", // 295
			"eth_gasPrice":              "0xa54f4c3c00",
			"eth_getBalance":            "0xde0b6b3a7640000",
			"eth_getTransactionReceipt": nil,
		},
	}
}

func (s *relayStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.calls[req.Method]++
	result, ok := s.results[req.Method]
	s.mu.Unlock()

	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
	if ok {
		resp["result"] = result
	} else {
		resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *relayStub) count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func dialStub(t *testing.T, stub *relayStub) *Node {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	cfg := DefaultNodeConfig(srv.URL)
	cfg.RateLimitRPM = 0
	n, err := Dial(context.Background(), cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(n.Close)
	return n
}

func TestNode_Reads(t *testing.T) {
	stub := newRelayStub()
	n := dialStub(t, stub)
	ctx := context.Background()

	id, err := n.ChainID(ctx)
	if err != nil || id.Uint64() != 295 {
		t.Fatalf("ChainID() = %v, %v", id, err)
	}

	bal, err := n.BalanceAt(ctx, common.HexToAddress("0x01"))
	if err != nil || bal.String() != "1000000000000000000" {
		t.Fatalf("BalanceAt() = %v, %v", bal, err)
	}
}

func TestNode_GasPriceCached(t *testing.T) {
	stub := newRelayStub()
	n := dialStub(t, stub)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := n.SuggestGasPrice(ctx)
		if err != nil {
			t.Fatalf("SuggestGasPrice: %v", err)
		}
		if p.Weibar.String() != "710000000000" {
			t.Errorf("unexpected price %s", p.Weibar)
		}
	}

	if got := stub.count("eth_gasPrice"); got != 1 {
		t.Errorf("expected 1 eth_gasPrice call, got %d", got)
	}
}

func TestNode_PendingReceiptIsNotFound(t *testing.T) {
	n := dialStub(t, newRelayStub())

	_, err := n.TransactionReceipt(context.Background(), common.HexToHash("0xabc"))
	if !errors.Is(err, ethereum.NotFound) {
		t.Errorf("expected ethereum.NotFound in chain, got %v", err)
	}
}

func TestNode_RPCErrorsAreCoded(t *testing.T) {
	stub := newRelayStub()
	delete(stub.results, "eth_getBalance")
	n := dialStub(t, stub)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := n.BalanceAt(ctx, common.HexToAddress("0x01"))
	if !apperror.HasCode(err, apperror.CodeLedgerRPCError) {
		t.Errorf("expected LEDGER_RPC_ERROR, got %v", err)
	}
}
