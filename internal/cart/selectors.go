package cart

import (
	"github.com/shopspring/decimal"
)

// memo caches the derived selector outputs between mutations so repeated
// reads from the UI layer do not recompute the join every time.
type memo struct {
	valid    bool
	enriched []EnrichedLine
	count    int
	total    decimal.Decimal
}

func (m *memo) invalidate() {
	m.valid = false
	m.enriched = nil
}

// Mode reports which list is currently authoritative.
func (s *Service) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.mode
}

// Items returns a copy of the authoritative item list.
func (s *Service) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.activeItemsLocked()
	out := make([]Line, len(items))
	copy(out, items)
	return out
}

// Total returns the authoritative cart total. It is always the sum of
// quantity times resolved price over the active list, and resolves to a
// well-defined decimal even when no price data exists anywhere.
func (s *Service) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deriveLocked()
	return s.memo.total
}

// ItemCount returns the summed quantity across the active list.
func (s *Service) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deriveLocked()
	return s.memo.count
}

// EnrichedItems returns the active lines joined with display data.
func (s *Service) EnrichedItems() []EnrichedLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deriveLocked()
	out := make([]EnrichedLine, len(s.memo.enriched))
	copy(out, s.memo.enriched)
	return out
}

func (s *Service) activeItemsLocked() []Line {
	if s.state.mode == ModeRemote {
		return s.state.remoteItems
	}
	return s.state.localItems
}

func (s *Service) deriveLocked() {
	if s.memo.valid {
		return
	}
	items := s.activeItemsLocked()
	enriched := make([]EnrichedLine, 0, len(items))
	count := 0
	total := decimal.Zero
	for _, line := range items {
		e := s.enrich(line)
		enriched = append(enriched, e)
		count += line.Quantity
		total = total.Add(e.LineTotal)
	}
	s.memo = memo{valid: true, enriched: enriched, count: count, total: total}
}
