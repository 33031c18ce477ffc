package cart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/lunamarket/storefront-client/internal/kvstore"
	"github.com/lunamarket/storefront-client/pkg/types"
)

const stateKey = "cart_state"

// persistLocked writes the durable slice of state. Persistence failures are
// logged and swallowed: the in-memory cart keeps working, it just will not
// survive a restart.
func (s *Service) persistLocked(ctx context.Context) {
	snapshot := persistedState{
		LocalItems:   s.state.localItems,
		LocalTotal:   s.state.localTotal,
		UI:           s.state.ui,
		DetailsCache: s.state.detailsCache,
	}
	blob, err := json.Marshal(snapshot)
	if err != nil {
		s.logg.Warn(ctx, "encoding cart state failed")
		return
	}
	if err := s.kv.Set(ctx, stateKey, string(blob)); err != nil {
		s.logg.Warn(ctx, "persisting cart state failed")
	}
}

// rehydrate restores the persisted slice at construction. A missing or
// corrupt blob starts the session with an empty cart.
func (s *Service) rehydrate(ctx context.Context) {
	blob, err := s.kv.Get(ctx, stateKey)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logg.Warn(ctx, "reading persisted cart failed, starting empty")
		}
		return
	}

	var snapshot persistedState
	if err := json.Unmarshal([]byte(blob), &snapshot); err != nil {
		s.logg.Warn(ctx, "persisted cart is corrupt, starting empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.localItems = snapshot.LocalItems
	s.state.ui = snapshot.UI
	if snapshot.DetailsCache != nil {
		s.state.detailsCache = map[types.ID]types.ProductSnapshot{}
		for key, value := range snapshot.DetailsCache {
			s.state.detailsCache[types.NormalizeID(key)] = value
		}
	}
	// Totals are recomputed rather than trusted from disk.
	s.state.localTotal = s.totalOf(s.state.localItems)
	s.memo.invalidate()
}
