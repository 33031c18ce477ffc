package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lunamarket/storefront-client/internal/kvstore"
)

const (
	keyCustomerAccess  = "customer_access_token"
	keyCustomerRefresh = "customer_refresh_token"
	keyMerchantAccess  = "merchant_access_token"
	keyMerchantRefresh = "merchant_refresh_token"
	keyProfile         = "user_profile"
)

// DefaultExpirySkew keeps a token that would expire mid-flight from being
// treated as valid.
const DefaultExpirySkew = 30 * time.Second

// TokenPair holds the opaque bearer strings for one identity.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (p TokenPair) HasAccess() bool {
	return p.AccessToken != ""
}

func (p TokenPair) HasRefresh() bool {
	return p.RefreshToken != ""
}

func (p TokenPair) IsZero() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// Store persists customer and merchant token pairs plus the cached profile
// blob. All reads reflect the latest Set synchronously.
type Store struct {
	kv   kvstore.Store
	skew time.Duration
	now  func() time.Time
}

// Options tunes the store; zero values fall back to defaults.
type Options struct {
	ExpirySkew time.Duration
	Now        func() time.Time
}

// New builds a token store over the provided durable backend.
func New(kv kvstore.Store, opts Options) (*Store, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	skew := opts.ExpirySkew
	if skew <= 0 {
		skew = DefaultExpirySkew
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{kv: kv, skew: skew, now: now}, nil
}

// Customer reads the customer token pair; missing keys yield empty fields.
func (s *Store) Customer(ctx context.Context) (TokenPair, error) {
	return s.readPair(ctx, keyCustomerAccess, keyCustomerRefresh)
}

// SetCustomer overwrites both customer tokens.
func (s *Store) SetCustomer(ctx context.Context, access, refresh string) error {
	return s.writePair(ctx, keyCustomerAccess, keyCustomerRefresh, access, refresh)
}

// Merchant reads the merchant token pair.
func (s *Store) Merchant(ctx context.Context) (TokenPair, error) {
	return s.readPair(ctx, keyMerchantAccess, keyMerchantRefresh)
}

// SetMerchant overwrites both merchant tokens.
func (s *Store) SetMerchant(ctx context.Context, access, refresh string) error {
	return s.writePair(ctx, keyMerchantAccess, keyMerchantRefresh, access, refresh)
}

// HasMerchantAccount reports whether a merchant token pair is stored.
func (s *Store) HasMerchantAccount(ctx context.Context) bool {
	pair, err := s.Merchant(ctx)
	if err != nil {
		return false
	}
	return !pair.IsZero()
}

// Profile returns the cached minimal profile blob, empty when absent.
func (s *Store) Profile(ctx context.Context) (string, error) {
	value, err := s.kv.Get(ctx, keyProfile)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}
	return value, err
}

// SetProfile caches the minimal profile blob.
func (s *Store) SetProfile(ctx context.Context, profileJSON string) error {
	return s.kv.Set(ctx, keyProfile, profileJSON)
}

// Clear removes both token pairs and the cached profile. Used on logout and
// on unrecoverable refresh failure.
func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx,
		keyCustomerAccess, keyCustomerRefresh,
		keyMerchantAccess, keyMerchantRefresh,
		keyProfile,
	)
}

func (s *Store) readPair(ctx context.Context, accessKey, refreshKey string) (TokenPair, error) {
	access, err := s.readOptional(ctx, accessKey)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.readOptional(ctx, refreshKey)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Store) writePair(ctx context.Context, accessKey, refreshKey, access, refresh string) error {
	if err := s.kv.Set(ctx, accessKey, strings.TrimSpace(access)); err != nil {
		return err
	}
	return s.kv.Set(ctx, refreshKey, strings.TrimSpace(refresh))
}

func (s *Store) readOptional(ctx context.Context, key string) (string, error) {
	value, err := s.kv.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}
	return value, err
}
