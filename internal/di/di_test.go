package di_test

import (
	"testing"

	"github.com/fd1az/saucerswap-engine/internal/di"
)

type counter struct{ n int }

func TestContainer_LazySingleton(t *testing.T) {
	c := di.NewContainer()
	builds := 0
	tok := di.NewToken[*counter]("test.counter")

	di.RegisterToken(c, tok, func(sr di.ServiceRegistry) *counter {
		builds++
		return &counter{n: sr.Get("seed").(int)}
	})
	c.Register("seed", 7)

	a := di.GetToken(c, tok)
	b := di.GetToken(c, tok)

	if a != b {
		t.Error("expected the same instance")
	}
	if builds != 1 {
		t.Errorf("expected 1 build, got %d", builds)
	}
	if a.n != 7 {
		t.Errorf("expected seed 7, got %d", a.n)
	}
}

func TestContainer_UnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown key")
		}
	}()
	di.NewContainer().Get("missing")
}

type greeter interface{ Greet() string }

func TestGetToken_OptionalNil(t *testing.T) {
	c := di.NewContainer()
	tok := di.NewToken[greeter]("test.greeter")
	di.RegisterToken(c, tok, func(di.ServiceRegistry) greeter { return nil })

	if g := di.GetToken(c, tok); g != nil {
		t.Errorf("expected nil optional service, got %v", g)
	}
}
