package transientcache

import (
	"bytes"
	"context"
	"errors"
	"testing"

	c "github.com/unkn0wn-root/transientcache/codec"
)

func TestFactoryCreatesDistinctSentinels(t *testing.T) {
	f, err := NewFactory[string](newMemSubstrate(), c.String{}, nil)
	if err != nil {
		t.Fatalf("NewFactory: %v", err)
	}

	p1, err := f.CreatePool("alpha")
	if err != nil {
		t.Fatalf("CreatePool alpha: %v", err)
	}
	p2, err := f.CreatePool("beta")
	if err != nil {
		t.Fatalf("CreatePool beta: %v", err)
	}

	s1 := mustImpl(t, p1).sentinel
	s2 := mustImpl(t, p2).sentinel
	if len(s1) == 0 || len(s2) == 0 {
		t.Fatalf("sentinels must be non-empty: %q %q", s1, s2)
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("pools must not share a sentinel")
	}
}

func TestFactoryPropagatesNameValidation(t *testing.T) {
	f, err := NewFactory[string](newMemSubstrate(), c.String{}, nil)
	if err != nil {
		t.Fatalf("NewFactory: %v", err)
	}

	_, err = f.CreatePool("timeout_")
	var pne *PoolNameError
	if !errors.As(err, &pne) {
		t.Fatalf("expected PoolNameError, got %v", err)
	}
}

func TestFactoryRequiresSubstrateAndCodec(t *testing.T) {
	if _, err := NewFactory[string](nil, c.String{}, nil); err == nil {
		t.Fatalf("expected error for nil substrate")
	}
	if _, err := NewFactory[string](newMemSubstrate(), nil, nil); err == nil {
		t.Fatalf("expected error for nil codec")
	}
}

// Pools from one factory over one substrate stay isolated by namespace.
func TestFactoryPoolsShareSubstrateNotEntries(t *testing.T) {
	ctx := context.Background()
	f, err := NewFactory[string](newMemSubstrate(), c.String{}, nil)
	if err != nil {
		t.Fatalf("NewFactory: %v", err)
	}
	p1, _ := f.CreatePool("alpha")
	p2, _ := f.CreatePool("beta")

	if err := p1.Set(ctx, "k", "from-alpha", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ok, _ := p2.Has(ctx, "k"); ok {
		t.Fatalf("beta must not see alpha's entry")
	}
	if got, err := p1.Get(ctx, "k", ""); err != nil || got != "from-alpha" {
		t.Fatalf("alpha entry lost: got=%q err=%v", got, err)
	}
}
