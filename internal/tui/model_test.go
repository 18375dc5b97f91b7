package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lancehub/lancecli/internal/api"
	"github.com/lancehub/lancecli/internal/types"
)

// testModel builds a model with no backend and no user, so every load
// command is a silent no-op.
func testModel() *Model {
	return &Model{
		client:  api.New("http://localhost:1", zap.NewNop()),
		log:     zap.NewNop(),
		feed:    NewFeedState(),
		crm:     NewCrmState(),
		profile: NewProfileState(),
		tools:   NewToolState(),
	}
}

func TestModel_FeedLoadReplacesWholesale(t *testing.T) {
	m := testModel()
	m.feedToken = 1

	m.Update(feedLoadedMsg{token: 1, ok: true, orders: feedOrders()})

	if m.feed.VisibleCount() != 3 {
		t.Errorf("Expected 3 orders, got %d", m.feed.VisibleCount())
	}

	m.feedToken = 2
	m.Update(feedLoadedMsg{token: 2, ok: true, orders: feedOrders()[:1]})

	if m.feed.VisibleCount() != 1 {
		t.Errorf("Expected 1 order after second load, got %d", m.feed.VisibleCount())
	}
}

func TestModel_StaleFeedResultIsDropped(t *testing.T) {
	m := testModel()
	m.feedToken = 2

	// A result from a superseded request must not overwrite newer state
	m.Update(feedLoadedMsg{token: 1, ok: true, orders: feedOrders()})

	if m.feed.VisibleCount() != 0 {
		t.Errorf("Expected stale load dropped, got %d orders", m.feed.VisibleCount())
	}
}

func TestModel_FailedFeedLoadKeepsPriorState(t *testing.T) {
	m := testModel()
	m.feed.SetOrders(feedOrders())
	m.feedToken = 1

	m.Update(feedLoadedMsg{token: 1, ok: false})

	if m.feed.VisibleCount() != 3 {
		t.Errorf("Expected prior orders kept on failure, got %d", m.feed.VisibleCount())
	}

	if m.errorMsg == "" {
		t.Error("Expected an error toast on failed load")
	}
}

func TestModel_ToolFailureReenablesTrigger(t *testing.T) {
	m := testModel()
	token := m.tools.Begin(ToolCalc)

	m.Update(toolResultMsg{panel: ToolCalc, token: token, ok: false})

	if m.tools.IsBusy(ToolCalc) {
		t.Error("Expected trigger re-enabled after failure")
	}

	result, visible := m.tools.Result(ToolCalc)
	if !visible {
		t.Fatal("Expected result surface visible after failure")
	}

	if result == "" {
		t.Error("Expected a non-empty inline error on the result surface")
	}
}

func TestModel_StaleToolResultIsDropped(t *testing.T) {
	m := testModel()
	m.tools.Begin(ToolCalc)
	latest := m.tools.Begin(ToolCalc)

	m.Update(toolResultMsg{panel: ToolCalc, token: latest - 1, text: "устаревший", ok: true})

	if !m.tools.IsBusy(ToolCalc) {
		t.Error("Expected panel still busy; only the latest token may finish it")
	}

	if _, visible := m.tools.Result(ToolCalc); visible {
		t.Error("Expected stale result dropped")
	}
}

func TestModel_OpenEditModalPreselectsStatus(t *testing.T) {
	m := testModel()
	order := &types.Order{ID: 5, Title: "Бот", Status: types.StatusInProgress, MyPrice: 5000, Notes: "перезвонить"}

	m.openEditModal(order)

	if m.mode != ModeModalEdit {
		t.Errorf("Expected edit mode, got %d", m.mode)
	}

	if types.StatusOrder[m.editStatusIdx] != types.StatusInProgress {
		t.Errorf("Expected status preselected, got '%s'", types.StatusOrder[m.editStatusIdx])
	}

	if m.editPrice != "5000" {
		t.Errorf("Expected price buffer '5000', got '%s'", m.editPrice)
	}

	if m.editNotes != "перезвонить" {
		t.Errorf("Expected notes buffer, got '%s'", m.editNotes)
	}
}

func TestModel_FailedCrmSaveStaysInModal(t *testing.T) {
	m := testModel()
	m.openEditModal(&types.Order{ID: 5, Status: types.StatusNew})

	m.Update(crmSavedMsg{ok: false})

	if m.mode != ModeModalEdit {
		t.Error("Expected modal kept open after failed save")
	}

	if m.errorMsg == "" {
		t.Error("Expected an error toast")
	}
}

func TestModel_SuccessfulCrmSaveClosesModal(t *testing.T) {
	m := testModel()
	m.openEditModal(&types.Order{ID: 5, Status: types.StatusNew})

	m.Update(crmSavedMsg{ok: true})

	if m.mode != ModeNormal {
		t.Error("Expected modal closed after save")
	}

	if m.modalOrder != nil {
		t.Error("Expected modal order cleared")
	}
}

func TestModel_PartialCrmSaveReportsIt(t *testing.T) {
	m := testModel()
	m.openEditModal(&types.Order{ID: 5, Status: types.StatusNew})

	m.Update(crmSavedMsg{ok: true, partial: true})

	if m.mode != ModeNormal {
		t.Error("Expected modal closed: the status did persist")
	}

	if m.errorMsg == "" {
		t.Error("Expected the partial outcome surfaced as an error toast")
	}
}

func TestModel_ResponseReplacesModalSurface(t *testing.T) {
	m := testModel()
	m.openViewModal(&types.Order{ID: 5, Title: "Бот"})
	m.modalToken = 3

	m.Update(responseGeneratedMsg{token: 3, text: "Здравствуйте!", ok: true})

	if m.mode != ModeModalResponse {
		t.Errorf("Expected response mode, got %d", m.mode)
	}

	if m.modalResponse != "Здравствуйте!" {
		t.Errorf("Expected response text stored, got '%s'", m.modalResponse)
	}
}

func TestModel_StaleResponseIsDropped(t *testing.T) {
	m := testModel()
	m.openViewModal(&types.Order{ID: 5, Title: "Бот"})
	m.modalToken = 4

	m.Update(responseGeneratedMsg{token: 3, text: "устаревший", ok: true})

	if m.mode != ModeModalView {
		t.Error("Expected view mode kept for a stale response")
	}
}

func TestModel_ParserToggleUsesConfirmedValue(t *testing.T) {
	m := testModel()
	m.profile.SetProfile(sampleProfile())

	m.Update(parserToggledMsg{active: true, ok: true})

	if !m.profile.Profile().ParserActive {
		t.Error("Expected parser active from confirmed value")
	}

	m.Update(parserToggledMsg{active: false, ok: false})

	if !m.profile.Profile().ParserActive {
		t.Error("Expected failed toggle to leave local state untouched")
	}
}

func TestModel_QuitKey(t *testing.T) {
	m := testModel()

	cmd := m.handleKeyPress(tea.KeyMsg{Type: tea.KeyCtrlC})

	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
}

func TestModel_SaveCrmChangesStatusFailureAbortsNoteCall(t *testing.T) {
	noteCalled := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/status"):
			w.WriteHeader(http.StatusInternalServerError)
		case strings.HasSuffix(r.URL.Path, "/note"):
			noteCalled = true
			w.Write([]byte(`{"ok": true}`))
		}
	}))
	defer server.Close()

	m := testModel()
	m.client = api.New(server.URL, zap.NewNop())
	m.openEditModal(&types.Order{ID: 5, Status: types.StatusNew})
	m.editNotes = "заметка"

	cmd := m.saveCrmChanges()
	if cmd == nil {
		t.Fatal("Expected a save command")
	}

	msg, ok := cmd().(crmSavedMsg)
	if !ok {
		t.Fatal("Expected a crmSavedMsg")
	}

	if msg.ok {
		t.Error("Expected save reported as failed")
	}

	if noteCalled {
		t.Error("Expected the note call skipped after the status failure")
	}
}

func TestModel_SaveCrmChangesReportsPartialSave(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/note") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	m := testModel()
	m.client = api.New(server.URL, zap.NewNop())
	m.openEditModal(&types.Order{ID: 5, Status: types.StatusNew})

	msg, ok := m.saveCrmChanges()().(crmSavedMsg)
	if !ok {
		t.Fatal("Expected a crmSavedMsg")
	}

	if !msg.ok || !msg.partial {
		t.Errorf("Expected ok with partial flag, got ok=%v partial=%v", msg.ok, msg.partial)
	}
}

func TestModel_GenerateResponseCapsDescriptionAtWholeRunes(t *testing.T) {
	var posted struct {
		Description string `json:"description"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&posted); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		w.Write([]byte(`{"response": "Здравствуйте!"}`))
	}))
	defer server.Close()

	m := testModel()
	m.client = api.New(server.URL, zap.NewNop())
	m.userID = 42
	// 600 two-byte runes, so a byte-level cap would split one in half
	m.openViewModal(&types.Order{ID: 5, Title: "Бот", Description: strings.Repeat("ф", 600)})

	cmd := m.generateModalResponse()
	if cmd == nil {
		t.Fatal("Expected a generate command")
	}

	// The command batches a toast with the network call; the call is last
	batch, ok := cmd().(tea.BatchMsg)
	if !ok || len(batch) == 0 {
		t.Fatal("Expected a command batch")
	}
	if msg, ok := batch[len(batch)-1]().(responseGeneratedMsg); !ok || !msg.ok {
		t.Fatalf("Expected a successful responseGeneratedMsg, got %#v", msg)
	}

	if got := len([]rune(posted.Description)); got != 500 {
		t.Errorf("Expected description capped at 500 runes, got %d", got)
	}

	if !utf8.ValidString(posted.Description) {
		t.Error("Expected the capped description to stay valid UTF-8")
	}

	if strings.ContainsRune(posted.Description, utf8.RuneError) {
		t.Error("Expected no replacement characters in the capped description")
	}
}

func TestModel_ToggleCategoryIsOptimisticAndPersists(t *testing.T) {
	m := testModel()
	m.profile.SetProfile(sampleProfile())

	cmd := m.toggleCategory("design")

	if cmd == nil {
		t.Fatal("Expected a persistence command per toggle")
	}

	if !m.profile.Profile().HasCategory("design") {
		t.Error("Expected membership flipped before the round trip resolves")
	}

	// Toggling back restores membership and issues another call
	cmd = m.toggleCategory("design")

	if cmd == nil {
		t.Fatal("Expected a second persistence command")
	}

	if m.profile.Profile().HasCategory("design") {
		t.Error("Expected double toggle to restore membership")
	}
}

func TestEditTextInput_CyrillicBackspace(t *testing.T) {
	value := "бот"
	cursor := len(value)

	editTextInput(&value, &cursor, tea.KeyMsg{Type: tea.KeyBackspace})

	if value != "бо" {
		t.Errorf("Expected whole rune removed, got '%s'", value)
	}

	if cursor != len("бо") {
		t.Errorf("Expected cursor on rune boundary, got %d", cursor)
	}
}

func TestEditTextInput_InsertAtCursor(t *testing.T) {
	value := "бт"
	cursor := len("б")

	editTextInput(&value, &cursor, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("о")})

	if value != "бот" {
		t.Errorf("Expected 'бот', got '%s'", value)
	}
}

func TestEditTextInput_ClearShortcut(t *testing.T) {
	value := "длинный текст"
	cursor := 4

	editTextInput(&value, &cursor, tea.KeyMsg{Type: tea.KeyCtrlK})

	if value != "" || cursor != 0 {
		t.Errorf("Expected cleared input, got '%s' at %d", value, cursor)
	}
}
