package tui

import (
	"testing"

	"github.com/lancehub/lancecli/internal/types"
)

func crmOrders() []types.Order {
	return []types.Order{
		{ID: 1, Source: "kwork", Title: "Бот", Status: types.StatusNew},
		{ID: 2, Source: "fl", Title: "Лендинг", Status: types.StatusInProgress, MyPrice: 5000},
		{ID: 3, Source: "habr", Title: "Парсер", Status: types.StatusCompleted, MyPrice: 12000},
	}
}

func TestNewCrmState(t *testing.T) {
	state := NewCrmState()

	if state == nil {
		t.Fatal("NewCrmState returned nil")
	}

	if state.Filter() != types.FilterAll {
		t.Errorf("Expected filter 'all', got '%s'", state.Filter())
	}

	stats := state.Stats()
	if stats.Total != 0 {
		t.Errorf("Expected empty stats, got total %d", stats.Total)
	}
}

func TestCrmState_StatsRecomputeOnLoad(t *testing.T) {
	state := NewCrmState()
	state.SetOrders(crmOrders())

	stats := state.Stats()

	if stats.Total != 3 {
		t.Errorf("Expected total 3, got %d", stats.Total)
	}

	if stats.InProgress != 1 {
		t.Errorf("Expected 1 in progress, got %d", stats.InProgress)
	}

	if stats.Completed != 1 {
		t.Errorf("Expected 1 completed, got %d", stats.Completed)
	}

	// Earned sums MyPrice over completed orders only
	if stats.Earned != 12000 {
		t.Errorf("Expected earned 12000, got %v", stats.Earned)
	}
}

func TestCrmState_StatsIgnoreFilter(t *testing.T) {
	state := NewCrmState()
	state.SetOrders(crmOrders())

	state.ApplyFilter(types.StatusNew)

	if len(state.Visible()) != 1 {
		t.Errorf("Expected 1 visible order, got %d", len(state.Visible()))
	}

	// Stats always describe the whole pipeline
	if state.Stats().Total != 3 {
		t.Errorf("Expected total 3 regardless of filter, got %d", state.Stats().Total)
	}
}

func TestCrmState_CycleFilterWalksStatusOrder(t *testing.T) {
	state := NewCrmState()

	state.CycleFilter(1)

	if state.Filter() != types.StatusOrder[0] {
		t.Errorf("Expected first status, got '%s'", state.Filter())
	}

	state.CycleFilter(-1)

	if state.Filter() != types.FilterAll {
		t.Errorf("Expected 'all' after cycling back, got '%s'", state.Filter())
	}
}

func TestCrmState_FindByID(t *testing.T) {
	state := NewCrmState()
	state.SetOrders(crmOrders())

	order := state.FindByID(2)

	if order == nil {
		t.Fatal("Expected to find order 2")
	}

	if order.Title != "Лендинг" {
		t.Errorf("Expected 'Лендинг', got '%s'", order.Title)
	}

	if state.FindByID(99) != nil {
		t.Error("Expected nil for unknown id")
	}
}

func TestCrmState_CurrentFollowsFilter(t *testing.T) {
	state := NewCrmState()
	state.SetOrders(crmOrders())

	state.ApplyFilter(types.StatusCompleted)

	current := state.Current()
	if current == nil || current.ID != 3 {
		t.Error("Expected the completed order to be current")
	}
}
