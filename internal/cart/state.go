package cart

import (
	"github.com/lunamarket/storefront-client/pkg/types"
	"github.com/shopspring/decimal"
)

// Mode reports which item list is authoritative for display and totals.
type Mode string

const (
	// ModeLocal means the locally computed cart is authoritative: the guest
	// path, or the state after the backend rejected a write.
	ModeLocal Mode = "local"
	// ModeRemote means the backend-confirmed cart is authoritative.
	ModeRemote Mode = "remote"
)

// Line is one cart entry. Quantity never drops below 1; a decrement at 1
// removes the line instead.
type Line struct {
	ProductID types.ID               `json:"productId"`
	Quantity  int                    `json:"quantity"`
	Product   *types.ProductSnapshot `json:"product,omitempty"`
}

// EnrichedLine is a cart line joined with the best display data available
// from the line itself, its snapshot, and the details cache.
type EnrichedLine struct {
	ProductID types.ID        `json:"productId"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Category  string          `json:"category,omitempty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// UIState carries the transient cart presentation flags that survive reload.
type UIState struct {
	IsOpen           bool                   `json:"isOpen"`
	ShowSuccessToast bool                   `json:"showSuccessToast"`
	LastAddedItem    *types.ProductSnapshot `json:"lastAddedItem,omitempty"`
}

// persistedState is the durable slice of cart state written to the kv
// backend after every mutation. Ephemeral flags (in-flight markers, the
// remote list, the mode) are rebuilt at runtime and stay out.
type persistedState struct {
	LocalItems   []Line                             `json:"localItems"`
	LocalTotal   decimal.Decimal                    `json:"localTotal"`
	UI           UIState                            `json:"ui"`
	DetailsCache map[types.ID]types.ProductSnapshot `json:"productDetailsCache,omitempty"`
}

// state is the full in-memory cart, owned by the service behind its mutex.
type state struct {
	mode Mode

	localItems []Line
	localTotal decimal.Decimal

	remoteItems []Line
	remoteTotal decimal.Decimal

	detailsCache map[types.ID]types.ProductSnapshot
	ui           UIState

	// epoch invalidates in-flight network completions after a clear, so a
	// stale response cannot resurrect state the user already discarded.
	epoch uint64
}

func newState() *state {
	return &state{
		mode:         ModeLocal,
		detailsCache: map[types.ID]types.ProductSnapshot{},
	}
}

func (s *state) findLocal(id types.ID) *Line {
	for i := range s.localItems {
		if s.localItems[i].ProductID == id {
			return &s.localItems[i]
		}
	}
	return nil
}

func (s *state) removeLocal(id types.ID) bool {
	for i := range s.localItems {
		if s.localItems[i].ProductID == id {
			s.localItems = append(s.localItems[:i], s.localItems[i+1:]...)
			return true
		}
	}
	return false
}

// cacheSnapshot stores display data under the canonical id so later lookups
// hit regardless of how the caller spelled the identifier.
func (s *state) cacheSnapshot(snapshot *types.ProductSnapshot) {
	if snapshot == nil {
		return
	}
	id := types.NormalizeID(snapshot.ID)
	if id.IsZero() {
		return
	}
	s.detailsCache[id] = *snapshot
}

func (s *state) cachedSnapshot(id types.ID) *types.ProductSnapshot {
	if cached, ok := s.detailsCache[types.NormalizeID(id)]; ok {
		return &cached
	}
	return nil
}
