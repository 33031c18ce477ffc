package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/lunamarket/storefront-client/internal/api"
	"github.com/lunamarket/storefront-client/internal/kvstore"
	"github.com/lunamarket/storefront-client/internal/session"
	"github.com/lunamarket/storefront-client/pkg/logger"
	"github.com/lunamarket/storefront-client/pkg/metrics"
	"github.com/lunamarket/storefront-client/pkg/types"
)

type backend interface {
	Do(ctx context.Context, req *api.Request, out any) error
}

// Service is the cart synchronization core. It owns the only mutable cart
// state in the process: UI layers read through the selector methods and
// mutate through the operation methods, never directly.
type Service struct {
	client  backend
	session *session.Manager
	kv      kvstore.Store
	logg    *logger.Logger
	metrics *metrics.ClientMetrics

	mu    sync.Mutex
	state *state
	memo  memo
}

// Params bundles the dependencies required to build the cart core.
type Params struct {
	Client  backend
	Session *session.Manager
	KV      kvstore.Store
	Logger  *logger.Logger
	Metrics *metrics.ClientMetrics
}

// New constructs the cart core and rehydrates the persisted slice of state.
func New(ctx context.Context, params Params) (*Service, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.KV == nil {
		return nil, fmt.Errorf("kv store is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	s := &Service{
		client:  params.Client,
		session: params.Session,
		kv:      params.KV,
		logg:    params.Logger,
		metrics: params.Metrics,
		state:   newState(),
	}
	s.rehydrate(ctx)
	return s, nil
}

// AddInput describes one add-to-cart intent.
type AddInput struct {
	ProductID any
	Quantity  int
	Snapshot  *types.ProductSnapshot
}

// AddToCart applies the add optimistically and, for authenticated sessions,
// confirms it with the backend. It never surfaces an error: a rejected or
// unreachable backend degrades to the local cart so the action always
// visibly succeeds.
func (s *Service) AddToCart(ctx context.Context, input AddInput) {
	id := types.NormalizeID(input.ProductID)
	if id.IsZero() {
		s.logg.Warn(ctx, "add to cart ignored, unusable product id")
		return
	}
	qty := input.Quantity
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	st := s.state
	if line := st.findLocal(id); line != nil {
		line.Quantity += qty
	} else {
		st.localItems = append(st.localItems, Line{ProductID: id, Quantity: qty, Product: input.Snapshot})
	}
	st.cacheSnapshot(input.Snapshot)
	st.ui.ShowSuccessToast = true
	st.ui.LastAddedItem = input.Snapshot
	epoch := st.epoch
	s.afterMutation(ctx)
	s.mu.Unlock()

	pair, err := s.session.ActivePair(ctx)
	if err != nil || !pair.HasAccess() {
		return
	}
	s.confirmAdd(ctx, id, qty, epoch)
}

// RemoveFromCart deletes the line entirely.
func (s *Service) RemoveFromCart(ctx context.Context, productID any) {
	id := types.NormalizeID(productID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.removeLocal(id) {
		s.afterMutation(ctx)
	}
}

// UpdateQuantity sets an explicit quantity, clamped to a floor of 1. Zero is
// not a valid quantity; use RemoveFromCart for that intent.
func (s *Service) UpdateQuantity(ctx context.Context, productID any, quantity int) {
	id := types.NormalizeID(productID)
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.state.findLocal(id)
	if line == nil || line.Quantity == quantity {
		return
	}
	line.Quantity = quantity
	s.afterMutation(ctx)
}

// IncreaseQuantity bumps a line by one.
func (s *Service) IncreaseQuantity(ctx context.Context, productID any) {
	id := types.NormalizeID(productID)
	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.state.findLocal(id)
	if line == nil {
		return
	}
	line.Quantity++
	s.afterMutation(ctx)
}

// DecreaseQuantity drops a line by one; at quantity 1 the line is removed
// rather than left at zero.
func (s *Service) DecreaseQuantity(ctx context.Context, productID any) {
	id := types.NormalizeID(productID)
	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.state.findLocal(id)
	if line == nil {
		return
	}
	if line.Quantity <= 1 {
		s.state.removeLocal(id)
	} else {
		line.Quantity--
	}
	s.afterMutation(ctx)
}

// ClearCart empties the local cart. In-flight confirmations from before the
// clear are discarded when they land.
func (s *Service) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.localItems = nil
	st.ui.LastAddedItem = nil
	st.ui.ShowSuccessToast = false
	st.epoch++
	st.mode = ModeLocal
	s.afterMutation(ctx)
}

// CacheSnapshot primes the enrichment cache, typically from a product list
// or detail fetch, so lines added later resolve display data immediately.
func (s *Service) CacheSnapshot(ctx context.Context, snapshot *types.ProductSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.cacheSnapshot(snapshot)
	s.afterMutation(ctx)
}

// OpenSidebar and CloseSidebar flip the persisted cart drawer flag.
func (s *Service) OpenSidebar(ctx context.Context) { s.setOpen(ctx, true) }

func (s *Service) CloseSidebar(ctx context.Context) { s.setOpen(ctx, false) }

func (s *Service) setOpen(ctx context.Context, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ui.IsOpen == open {
		return
	}
	s.state.ui.IsOpen = open
	s.persistLocked(ctx)
}

// DismissToast acknowledges the transient added notification.
func (s *Service) DismissToast(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ui.ShowSuccessToast = false
	s.state.ui.LastAddedItem = nil
	s.persistLocked(ctx)
}

// UI returns a copy of the presentation flags.
func (s *Service) UI(ctx context.Context) UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ui
}

// afterMutation recomputes the local total, invalidates memoized selectors,
// and persists the durable slice. Callers hold the mutex.
func (s *Service) afterMutation(ctx context.Context) {
	s.state.localTotal = s.totalOf(s.state.localItems)
	s.memo.invalidate()
	s.persistLocked(ctx)
}
