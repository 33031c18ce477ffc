package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/lunamarket/storefront-client/internal/kvstore"
	"github.com/lunamarket/storefront-client/internal/tokenstore"
)

func newTestManager(t *testing.T) (*Manager, *tokenstore.Store) {
	t.Helper()
	kv, err := kvstore.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	tokens, err := tokenstore.New(kv, tokenstore.Options{})
	if err != nil {
		t.Fatalf("tokenstore.New failed: %v", err)
	}
	manager, err := NewManager(kv, tokens)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return manager, tokens
}

func TestModeDefaultsToCustomer(t *testing.T) {
	t.Parallel()

	manager, _ := newTestManager(t)
	if got := manager.Mode(context.Background()); got != ModeCustomer {
		t.Fatalf("expected customer default, got %q", got)
	}
}

func TestSetModeMerchantWithoutTokensIsNoOp(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, _ := newTestManager(t)

	if err := manager.SetMode(ctx, ModeMerchant); err != nil {
		t.Fatalf("SetMode should not error: %v", err)
	}
	if got := manager.Mode(ctx); got != ModeCustomer {
		t.Fatalf("mode should remain customer, got %q", got)
	}
}

func TestSetModeMerchantWithTokens(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, tokens := newTestManager(t)

	if err := tokens.SetMerchant(ctx, "m-acc", "m-ref"); err != nil {
		t.Fatalf("SetMerchant failed: %v", err)
	}
	if !manager.HasMerchantAccount(ctx) {
		t.Fatal("merchant account should be visible")
	}
	if err := manager.SetMode(ctx, ModeMerchant); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	if got := manager.Mode(ctx); got != ModeMerchant {
		t.Fatalf("expected merchant mode, got %q", got)
	}

	pair, err := manager.ActivePair(ctx)
	if err != nil {
		t.Fatalf("ActivePair failed: %v", err)
	}
	if pair.AccessToken != "m-acc" {
		t.Fatalf("expected merchant access token, got %q", pair.AccessToken)
	}
}

func TestSetModeRejectsUnknown(t *testing.T) {
	t.Parallel()

	manager, _ := newTestManager(t)
	if err := manager.SetMode(context.Background(), Mode("admin")); err == nil {
		t.Fatal("expected unknown mode to be rejected")
	}
}

func TestResetReturnsToCustomer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, tokens := newTestManager(t)

	if err := tokens.SetMerchant(ctx, "m-acc", "m-ref"); err != nil {
		t.Fatalf("SetMerchant failed: %v", err)
	}
	if err := manager.SetMode(ctx, ModeMerchant); err != nil {
		t.Fatalf("SetMode failed: %v", err)
	}
	if err := manager.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if got := manager.Mode(ctx); got != ModeCustomer {
		t.Fatalf("expected customer after reset, got %q", got)
	}
}

func TestPairForCustomer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	manager, tokens := newTestManager(t)

	if err := tokens.SetCustomer(ctx, "c-acc", "c-ref"); err != nil {
		t.Fatalf("SetCustomer failed: %v", err)
	}
	pair, err := manager.PairFor(ctx, ModeCustomer)
	if err != nil {
		t.Fatalf("PairFor failed: %v", err)
	}
	if pair.AccessToken != "c-acc" || pair.RefreshToken != "c-ref" {
		t.Fatalf("unexpected pair %+v", pair)
	}

	if _, err := manager.PairFor(ctx, Mode("nope")); err == nil {
		t.Fatal("expected unknown mode to be rejected")
	}
}
