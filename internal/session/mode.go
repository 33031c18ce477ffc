package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/lunamarket/storefront-client/internal/kvstore"
	"github.com/lunamarket/storefront-client/internal/tokenstore"
)

const keyAuthMode = "auth_mode"

// Mode selects which stored identity outgoing requests authenticate as.
type Mode string

const (
	ModeCustomer Mode = "customer"
	ModeMerchant Mode = "merchant"
)

func (m Mode) IsValid() bool {
	return m == ModeCustomer || m == ModeMerchant
}

// Manager owns the persisted auth mode and resolves the token pair the active
// mode authenticates with. Requests read the pair at dispatch time, so a mode
// switch takes effect on the next call without re-wiring anything.
type Manager struct {
	kv     kvstore.Store
	tokens *tokenstore.Store
}

func NewManager(kv kvstore.Store, tokens *tokenstore.Store) (*Manager, error) {
	if kv == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	return &Manager{kv: kv, tokens: tokens}, nil
}

// Mode returns the active mode, defaulting to customer when unset or when the
// stored value is unrecognized.
func (m *Manager) Mode(ctx context.Context) Mode {
	value, err := m.kv.Get(ctx, keyAuthMode)
	if err != nil {
		return ModeCustomer
	}
	mode := Mode(value)
	if !mode.IsValid() {
		return ModeCustomer
	}
	return mode
}

// SetMode switches the active identity. Switching to merchant with no stored
// merchant token pair is a silent no-op; callers that need to warn the user
// check HasMerchantAccount first.
func (m *Manager) SetMode(ctx context.Context, mode Mode) error {
	if !mode.IsValid() {
		return fmt.Errorf("unknown auth mode %q", mode)
	}
	if mode == ModeMerchant && !m.tokens.HasMerchantAccount(ctx) {
		return nil
	}
	return m.kv.Set(ctx, keyAuthMode, string(mode))
}

// HasMerchantAccount reports whether merchant mode is selectable.
func (m *Manager) HasMerchantAccount(ctx context.Context) bool {
	return m.tokens.HasMerchantAccount(ctx)
}

// ActivePair resolves the token pair for the active mode.
func (m *Manager) ActivePair(ctx context.Context) (tokenstore.TokenPair, error) {
	return m.PairFor(ctx, m.Mode(ctx))
}

// PairFor resolves the token pair for an explicit mode.
func (m *Manager) PairFor(ctx context.Context, mode Mode) (tokenstore.TokenPair, error) {
	switch mode {
	case ModeMerchant:
		return m.tokens.Merchant(ctx)
	case ModeCustomer:
		return m.tokens.Customer(ctx)
	default:
		return tokenstore.TokenPair{}, fmt.Errorf("unknown auth mode %q", mode)
	}
}

// Reset returns the session to customer mode; called on logout.
func (m *Manager) Reset(ctx context.Context) error {
	err := m.kv.Delete(ctx, keyAuthMode)
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil
	}
	return err
}
