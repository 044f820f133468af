package monolith

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/fd1az/saucerswap-engine/internal/asset"
	"github.com/fd1az/saucerswap-engine/internal/config"
	"github.com/fd1az/saucerswap-engine/internal/di"
	"github.com/fd1az/saucerswap-engine/internal/logger"
)

type recordingModule struct {
	name     string
	startErr error
	events   *[]string
}

func (m *recordingModule) RegisterServices(c di.Container) error {
	*m.events = append(*m.events, "register "+m.name)
	return nil
}

func (m *recordingModule) Startup(context.Context, Monolith) error {
	if m.startErr != nil {
		return m.startErr
	}
	*m.events = append(*m.events, "start "+m.name)
	return nil
}

func (m *recordingModule) Shutdown() {
	*m.events = append(*m.events, "shutdown "+m.name)
}

func newApp() *App {
	cfg := &config.Config{Ledger: config.LedgerConfig{ChainID: asset.ChainIDHederaMainnet}}
	return New(cfg, logger.NewNop())
}

func TestNew_RegistersSharedServices(t *testing.T) {
	app := newApp()

	if _, ok := app.Services().Get("config").(*config.Config); !ok {
		t.Error("expected config service")
	}
	registry, ok := app.Services().Get("assetRegistry").(*asset.Registry)
	if !ok {
		t.Fatal("expected asset registry service")
	}
	if _, ok := registry.GetBySymbol("USDC"); !ok {
		t.Error("expected well-known mainnet tokens in registry")
	}
}

func TestApp_LifecycleOrder(t *testing.T) {
	var events []string
	ledger := &recordingModule{name: "ledger", events: &events}
	swap := &recordingModule{name: "swap", events: &events}

	app := newApp()
	if err := app.RegisterModules(ledger, swap); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := app.StartModules(context.Background(), ledger, swap); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	want := []string{
		"register ledger", "register swap",
		"start ledger", "start swap",
		"shutdown swap", "shutdown ledger",
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestApp_StartFailureShutsDownStarted(t *testing.T) {
	var events []string
	ledger := &recordingModule{name: "ledger", events: &events}
	swap := &recordingModule{name: "swap", events: &events, startErr: errors.New("bad config")}

	app := newApp()
	if err := app.StartModules(context.Background(), ledger, swap); err == nil {
		t.Fatal("expected startup error")
	}
	_ = app.Close()

	want := []string{"start ledger", "shutdown ledger"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}
