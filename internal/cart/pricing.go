package cart

import (
	"github.com/lunamarket/storefront-client/pkg/types"
	"github.com/shopspring/decimal"
)

// effectivePrice resolves a line's unit price through every source available:
// the line's own snapshot, the snapshot nested inside it, then the details
// cache. Anything unresolved prices at zero so totals stay well defined.
func (s *Service) effectivePrice(line Line) decimal.Decimal {
	if price, ok := snapshotPrice(line.Product); ok {
		return price
	}
	if price, ok := snapshotPrice(s.state.cachedSnapshot(line.ProductID)); ok {
		return price
	}
	return decimal.Zero
}

func snapshotPrice(snapshot *types.ProductSnapshot) (decimal.Decimal, bool) {
	if snapshot == nil {
		return decimal.Zero, false
	}
	if snapshot.Price != nil {
		return *snapshot.Price, true
	}
	if snapshot.Product != nil && snapshot.Product.Price != nil {
		return *snapshot.Product.Price, true
	}
	return decimal.Zero, false
}

func (s *Service) totalOf(items []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range items {
		total = total.Add(s.effectivePrice(line).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// enrich joins a line with the best display data reachable. Each field falls
// back independently: the line snapshot, its nested snapshot, then the cache.
func (s *Service) enrich(line Line) EnrichedLine {
	price := s.effectivePrice(line)
	out := EnrichedLine{
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
		Price:     price,
		LineTotal: price.Mul(decimal.NewFromInt(int64(line.Quantity))),
	}

	sources := []*types.ProductSnapshot{line.Product}
	if line.Product != nil {
		sources = append(sources, line.Product.Product)
	}
	sources = append(sources, s.state.cachedSnapshot(line.ProductID))

	for _, src := range sources {
		if src == nil {
			continue
		}
		if out.Name == "" {
			out.Name = src.Name
		}
		if out.Image == "" {
			out.Image = src.PrimaryImage()
		}
		if out.Category == "" {
			out.Category = src.Category
		}
	}
	return out
}
