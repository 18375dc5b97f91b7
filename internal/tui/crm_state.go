package tui

import (
	"sync"

	"github.com/lancehub/lancecli/internal/types"
)

// CrmState encapsulates the CRM collection, its status filter and the
// aggregate stat tiles. Stats are recomputed from the full collection on
// every load, never patched incrementally.
type CrmState struct {
	mu sync.RWMutex

	all     []types.Order
	visible []types.Order
	filter  string
	stats   types.CrmStats
	index   int
	offset  int
}

// NewCrmState creates an empty CRM state.
func NewCrmState() *CrmState {
	return &CrmState{
		filter: types.FilterAll,
	}
}

// SetOrders wholesale-replaces the collection, recomputes stats and
// reapplies the active status filter.
func (s *CrmState) SetOrders(orders []types.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = orders
	s.stats = types.ComputeCrmStats(orders)
	s.rebuild()
}

// Orders returns a copy of the full collection.
func (s *CrmState) Orders() []types.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Order, len(s.all))
	copy(out, s.all)
	return out
}

// Visible returns a copy of the filtered view.
func (s *CrmState) Visible() []types.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.Order, len(s.visible))
	copy(out, s.visible)
	return out
}

// Stats returns the aggregate tiles computed at the last load.
func (s *CrmState) Stats() types.CrmStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Filter returns the active status filter.
func (s *CrmState) Filter() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// ApplyFilter restricts the view to one status; "all" resets.
func (s *CrmState) ApplyFilter(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = status
	s.rebuild()
}

// CycleFilter advances the status filter chip by delta.
func (s *CrmState) CycleFilter(delta int) {
	chips := append([]string{types.FilterAll}, types.StatusOrder...)
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

// rebuild recomputes the visible view. Caller holds the lock.
func (s *CrmState) rebuild() {
	s.visible = types.FilterByStatus(s.all, s.filter)
	if s.index >= len(s.visible) {
		s.index = 0
		s.offset = 0
	}
}

// Index returns the selected position in the visible view.
func (s *CrmState) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Offset returns the scroll offset of the visible view.
func (s *CrmState) Offset() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

// Navigate moves the selection by delta with wrap-around.
func (s *CrmState) Navigate(delta, pageSize int) {
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
func (s *CrmState) Current() *types.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.visible) == 0 || s.index < 0 || s.index >= len(s.visible) {
		return nil
	}
	order := s.visible[s.index]
	return &order
}

// FindByID returns the order with the given id from the full collection.
func (s *CrmState) FindByID(id int64) *types.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.all {
		if o.ID == id {
			order := o
			return &order
		}
	}
	return nil
}
