package cart

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lunamarket/storefront-client/internal/api"
	pkgerrors "github.com/lunamarket/storefront-client/pkg/errors"
	"github.com/lunamarket/storefront-client/pkg/types"
	"github.com/shopspring/decimal"
)

// confirmAdd performs the authenticated write behind an optimistic local add.
// Rejections and connectivity failures degrade to the local cart; they are
// never surfaced to the caller that clicked the button.
func (s *Service) confirmAdd(ctx context.Context, id types.ID, quantity int, epoch uint64) {
	err := s.client.Do(ctx, &api.Request{
		Method: http.MethodPost,
		Path:   "/users/me/cart/" + url.PathEscape(string(id)),
		Body:   map[string]int{"quantity": quantity},
	}, nil)
	if err != nil {
		s.fallBack(ctx, err, epoch)
		return
	}
	if err := s.syncRemote(ctx, epoch); err != nil {
		s.logg.Warn(s.logg.WithProductID(ctx, string(id)), "cart confirmed but fetch failed, staying local")
	}
}

// fallBack flips the cart to local mode after a failed authenticated write.
func (s *Service) fallBack(ctx context.Context, cause error, epoch uint64) {
	trigger := fallbackTrigger(cause)
	s.metrics.IncCartFallback(trigger)
	s.logg.Warn(s.logg.WithField(ctx, "trigger", trigger), "cart write rejected, falling back to local cart")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.epoch != epoch {
		return
	}
	if s.state.mode != ModeLocal {
		s.state.mode = ModeLocal
		s.memo.invalidate()
	}
}

func fallbackTrigger(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "error"
	}
	switch typed.Code() {
	case pkgerrors.CodeUnauthorized:
		return "unauthorized"
	case pkgerrors.CodeForbidden:
		return "forbidden"
	case pkgerrors.CodeConflict:
		return "conflict"
	case pkgerrors.CodeNetwork:
		return "network"
	default:
		return "error"
	}
}

// FetchRemote pulls the backend cart and makes it authoritative. Used after
// login and after each confirmed mutation.
func (s *Service) FetchRemote(ctx context.Context) error {
	s.mu.Lock()
	epoch := s.state.epoch
	s.mu.Unlock()
	return s.syncRemote(ctx, epoch)
}

func (s *Service) syncRemote(ctx context.Context, epoch uint64) error {
	var payload remoteCartPayload
	if err := s.client.Do(ctx, &api.Request{Path: "/users/me/cart"}, &payload); err != nil {
		return err
	}

	items := payload.lines()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.epoch != epoch {
		// The cart was cleared while this fetch was in flight; its result no
		// longer describes anything the user wants.
		return nil
	}
	for i := range items {
		s.state.cacheSnapshot(items[i].Product)
	}
	s.state.remoteItems = items
	if payload.Total != nil {
		s.state.remoteTotal = *payload.Total
	} else {
		s.state.remoteTotal = s.totalOf(items)
	}
	s.state.mode = ModeRemote
	s.memo.invalidate()
	return nil
}

// remoteCartPayload tolerates the cart shapes backend versions produce:
// camelCase or snake_case ids, quantity or qty, and display data either
// inline or nested under product.
type remoteCartPayload struct {
	Items []remoteCartLine `json:"items"`
	Total *decimal.Decimal `json:"total"`
}

type remoteCartLine struct {
	ProductID      types.ID               `json:"productId"`
	ProductIDSnake types.ID               `json:"product_id"`
	Quantity       int                    `json:"quantity"`
	Qty            int                    `json:"qty"`
	Product        *types.ProductSnapshot `json:"product"`
}

func (p remoteCartPayload) lines() []Line {
	out := make([]Line, 0, len(p.Items))
	for _, item := range p.Items {
		id := item.ProductID
		if id.IsZero() {
			id = item.ProductIDSnake
		}
		if id.IsZero() && item.Product != nil {
			id = item.Product.ID
		}
		id = types.NormalizeID(id)
		if id.IsZero() {
			continue
		}
		qty := item.Quantity
		if qty == 0 {
			qty = item.Qty
		}
		if qty < 1 {
			qty = 1
		}
		out = append(out, Line{ProductID: id, Quantity: qty, Product: item.Product})
	}
	return out
}
