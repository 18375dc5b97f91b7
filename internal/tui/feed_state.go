package tui

import (
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/lancehub/lancecli/internal/types"
)

// FeedState encapsulates the feed collection and its derived view: the
// source filter and the fuzzy title search. The full collection is only ever
// wholesale-replaced, so filters always operate on a consistent snapshot.
type FeedState struct {
	mu sync.RWMutex

	all     []types.Order // Unfiltered collection, replaced on every load
	visible []types.Order // Derived view after filter + search
	filter  string        // Active source filter ("all" = none)
	query   string        // Fuzzy search query over titles
	index   int
	offset  int
}

// NewFeedState creates an empty feed state.
func NewFeedState() *FeedState {
	return &FeedState{
		filter: types.FilterAll,
	}
}

// SetOrders wholesale-replaces the collection and reapplies the active
// filter and search against the new snapshot.
func (s *FeedState) SetOrders(orders []types.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = orders
	s.rebuild()
}

// Orders returns a copy of the full collection.
func (s *FeedState) Orders() []types.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Order, len(s.all))
	copy(out, s.all)
	return out
}

// Visible returns a copy of the filtered view.
func (s *FeedState) Visible() []types.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Order, len(s.visible))
	copy(out, s.visible)
	return out
}

// VisibleCount returns the size of the filtered view.
func (s *FeedState) VisibleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visible)
}

// Filter returns the active source filter.
func (s *FeedState) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// ApplyFilter restricts the view to one source; "all" resets. Filtering
// never re-fetches.
func (s *FeedState) ApplyFilter(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = source
	s.rebuild()
}

// CycleFilter advances the filter chip by delta through all + the fixed
// source order.
func (s *FeedState) CycleFilter(delta int) {
	chips := append([]string{types.FilterAll}, types.SourceOrder...)
	s.mu.Lock()
	defer s.mu.Unlock()

	current := 0
	for i, chip := range chips {
		if chip == s.filter {
			current = i
			break
		}
	}
	current = (current + delta + len(chips)) % len(chips)
	s.filter = chips[current]
	s.rebuild()
}

// Query returns the active search query.
func (s *FeedState) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// ApplySearch restricts the view to fuzzy title matches. An empty query
// clears the search.
func (s *FeedState) ApplySearch(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.rebuild()
}

// rebuild recomputes the visible view. Caller holds the lock.
func (s *FeedState) rebuild() {
	filtered := types.FilterBySource(s.all, s.filter)

	if s.query != "" {
		titles := make([]string, len(filtered))
		for i, o := range filtered {
			titles[i] = o.Title
		}
		matches := fuzzy.Find(s.query, titles)
		matched := make([]types.Order, 0, len(matches))
		for _, match := range matches {
			matched = append(matched, filtered[match.Index])
		}
		filtered = matched
	}

	s.visible = filtered
	if s.index >= len(s.visible) {
		s.index = 0
		s.offset = 0
	}
}

// Index returns the selected position in the visible view.
func (s *FeedState) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Offset returns the scroll offset of the visible view.
func (s *FeedState) Offset() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

// Navigate moves the selection by delta with wrap-around, adjusting the
// scroll offset to keep the selection inside a page of pageSize cards.
func (s *FeedState) Navigate(delta, pageSize int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.visible) == 0 {
		return
	}

	s.index += delta
	if s.index < 0 {
		s.index = len(s.visible) - 1
	} else if s.index >= len(s.visible) {
		s.index = 0
	}

	if pageSize < 1 {
		pageSize = 1
	}
	if s.index < s.offset {
		s.offset = s.index
	} else if s.index >= s.offset+pageSize {
		s.offset = s.index - pageSize + 1
	}
}

// Current returns the selected order, or nil when the view is empty.
func (s *FeedState) Current() *types.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.visible) == 0 || s.index < 0 || s.index >= len(s.visible) {
		return nil
	}
	order := s.visible[s.index]
	return &order
}
