package tokenstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lunamarket/storefront-client/internal/kvstore"
)

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	kv, err := kvstore.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	store, err := New(kv, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return store
}

func mintToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("minting token failed: %v", err)
	}
	return signed
}

func TestNewRequiresBackend(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, Options{}); err == nil {
		t.Fatal("expected nil kv store to be rejected")
	}
}

func TestPairLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t, Options{})

	pair, err := store.Customer(ctx)
	if err != nil {
		t.Fatalf("Customer failed: %v", err)
	}
	if !pair.IsZero() {
		t.Fatalf("expected empty pair, got %+v", pair)
	}

	if err := store.SetCustomer(ctx, "acc-1", "ref-1"); err != nil {
		t.Fatalf("SetCustomer failed: %v", err)
	}
	pair, err = store.Customer(ctx)
	if err != nil {
		t.Fatalf("Customer failed: %v", err)
	}
	if pair.AccessToken != "acc-1" || pair.RefreshToken != "ref-1" {
		t.Fatalf("unexpected pair %+v", pair)
	}
	if !pair.HasAccess() || !pair.HasRefresh() {
		t.Fatalf("expected populated pair flags")
	}

	if store.HasMerchantAccount(ctx) {
		t.Fatal("no merchant pair stored yet")
	}
	if err := store.SetMerchant(ctx, "m-acc", "m-ref"); err != nil {
		t.Fatalf("SetMerchant failed: %v", err)
	}
	if !store.HasMerchantAccount(ctx) {
		t.Fatal("merchant pair should be visible")
	}
}

func TestClearRemovesTokensAndProfile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t, Options{})

	if err := store.SetCustomer(ctx, "acc", "ref"); err != nil {
		t.Fatalf("SetCustomer failed: %v", err)
	}
	if err := store.SetMerchant(ctx, "m-acc", "m-ref"); err != nil {
		t.Fatalf("SetMerchant failed: %v", err)
	}
	if err := store.SetProfile(ctx, `{"email":"a@b.c"}`); err != nil {
		t.Fatalf("SetProfile failed: %v", err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	pair, _ := store.Customer(ctx)
	if !pair.IsZero() {
		t.Fatalf("customer pair should be gone, got %+v", pair)
	}
	if store.HasMerchantAccount(ctx) {
		t.Fatal("merchant pair should be gone")
	}
	profile, err := store.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if profile != "" {
		t.Fatalf("profile should be gone, got %q", profile)
	}
}

func TestIsExpiredSafetyMargin(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t, Options{Now: func() time.Time { return now }})

	if !store.IsExpired(mintToken(t, now.Add(29*time.Second))) {
		t.Fatal("token expiring in 29s must be treated as expired")
	}
	if store.IsExpired(mintToken(t, now.Add(31*time.Second))) {
		t.Fatal("token expiring in 31s must be treated as valid")
	}
}

func TestIsExpiredFailsClosed(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, Options{})

	if !store.IsExpired("") {
		t.Fatal("empty token must be expired")
	}
	if !store.IsExpired("not-a-jwt") {
		t.Fatal("malformed token must be expired")
	}
	if !store.IsExpired("aaaa.bbbb.cccc") {
		t.Fatal("undecodable segments must be expired")
	}

	// Valid JWT without an exp claim still fails closed.
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("minting token failed: %v", err)
	}
	if !store.IsExpired(noExp) {
		t.Fatal("token without exp must be expired")
	}
}

func TestCustomExpirySkew(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(t, Options{ExpirySkew: 2 * time.Minute, Now: func() time.Time { return now }})

	if !store.IsExpired(mintToken(t, now.Add(time.Minute))) {
		t.Fatal("token inside the widened skew must be expired")
	}
	if store.IsExpired(mintToken(t, now.Add(3*time.Minute))) {
		t.Fatal("token outside the widened skew must be valid")
	}
}
