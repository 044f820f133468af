package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func ok(msg string) CheckFunc {
	return func(context.Context) (string, error) { return msg, nil }
}

func failing(err error) CheckFunc {
	return func(context.Context) (string, error) { return "", err }
}

func TestChecker_Run(t *testing.T) {
	tests := []struct {
		name        string
		checks      map[string]CheckFunc
		wantStatus  string
		wantHealthy map[string]bool
	}{
		{
			name:        "no checks",
			checks:      nil,
			wantStatus:  "ok",
			wantHealthy: map[string]bool{},
		},
		{
			name:        "all passing",
			checks:      map[string]CheckFunc{"ledger": ok("chain 295"), "quoter": ok("")},
			wantStatus:  "ok",
			wantHealthy: map[string]bool{"ledger": true, "quoter": true},
		},
		{
			name:        "one failing",
			checks:      map[string]CheckFunc{"ledger": ok("chain 295"), "mirror_node": failing(errors.New("503"))},
			wantStatus:  "degraded",
			wantHealthy: map[string]bool{"ledger": true, "mirror_node": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker("test")
			for name, fn := range tt.checks {
				c.RegisterCheck(name, fn)
			}

			status := c.Run(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, status.Status)
			}

			got := make(map[string]bool, len(status.Checks))
			for name, check := range status.Checks {
				got[name] = check.Healthy
			}
			if !reflect.DeepEqual(got, tt.wantHealthy) {
				t.Errorf("expected %v, got %v", tt.wantHealthy, got)
			}
		})
	}
}

func TestChecker_FailureMessage(t *testing.T) {
	c := NewChecker("test")
	c.RegisterCheck("ledger", failing(errors.New("dial tcp: refused")))

	status := c.Run(context.Background())
	if msg := status.Checks["ledger"].Message; msg != "dial tcp: refused" {
		t.Errorf("expected error as message, got %q", msg)
	}
	if names := status.Names(); !reflect.DeepEqual(names, []string{"ledger"}) {
		t.Errorf("unexpected names %v", names)
	}
}

func TestServer_Endpoints(t *testing.T) {
	c := NewChecker("1.0.0")
	c.RegisterCheck("ledger", ok("chain 295"))
	srv := httptest.NewServer(NewServer(0, c).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected json content type, got %q", ct)
	}
	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Version != "1.0.0" || !status.Checks["ledger"].Healthy {
		t.Errorf("unexpected status %+v", status)
	}

	c.RegisterCheck("quoter", failing(errors.New("reverted")))
	for path, want := range map[string]int{
		"/health": http.StatusServiceUnavailable,
		"/ready":  http.StatusServiceUnavailable,
		"/live":   http.StatusOK,
	} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != want {
			t.Errorf("%s: expected %d, got %d", path, want, resp.StatusCode)
		}
	}
}
