package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lancehub/lancecli/internal/activity"
	"github.com/lancehub/lancecli/internal/api"
	"github.com/lancehub/lancecli/internal/types"
)

// Tab is a top-level section of the client.
type Tab int

const (
	TabFeed Tab = iota
	TabCRM
	TabTools
	TabProfile
)

var tabOrder = []Tab{TabFeed, TabCRM, TabTools, TabProfile}

var tabTitles = map[Tab]string{
	TabFeed:    "📡 Лента",
	TabCRM:     "📋 CRM",
	TabTools:   "🤖 Инструменты",
	TabProfile: "👤 Профиль",
}

// Mode represents the current TUI mode. The three modal modes share one
// surface; opening any of them fully replaces whatever the modal showed.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeModalView
	ModeModalEdit
	ModeModalResponse
	ModeActivityClearConfirm
)

// toastTimeout matches the 2.5s toast of the original mini-app surface.
const toastTimeout = 2500 * time.Millisecond

// Model represents the TUI state.
type Model struct {
	// Collaborators
	client   *api.Client
	activity *activity.Manager
	log      *zap.Logger
	userID   int64

	// View state containers, owned here, passed to renderers
	feed    *FeedState
	crm     *CrmState
	profile *ProfileState
	tools   *ToolState

	tab  Tab
	mode Mode

	// Request tokens: one monotonically increasing counter per load
	// operation; a result is applied only if its token is still current.
	feedToken    uint64
	crmToken     uint64
	profileToken uint64
	modalToken   uint64

	// Modal state: exactly one order at a time
	modalOrder    *types.Order
	modalResponse string
	modalView     viewport.Model

	// Edit-mode form
	editStatusIdx int // Index into types.StatusOrder
	editPrice     string
	editNotes     string
	editField     int // 0=status, 1=price, 2=notes
	editCursor    int

	// Feed search input
	searchInput string

	// Profile form: typing goes to the focused field only while editing
	profileEditing bool

	// Activity log shown under the tool panels
	activityEntries []activity.Entry

	// UI state
	width     int
	height    int
	statusMsg string
	errorMsg  string
	loading   bool
}

// Init triggers the initial profile, feed and activity loads.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadProfile(), m.loadFeed(), m.loadActivity())
}

// Cleanup closes database connections.
func (m *Model) Cleanup() {
	if m.activity != nil {
		if err := m.activity.Close(); err != nil {
			m.log.Warn("closing activity database", zap.Error(err))
		}
	}
	_ = m.log.Sync()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.modalView = viewport.New(msg.Width-ModalWidthMargin, msg.Height-ModalHeightMargin)
		if m.mode == ModeModalView || m.mode == ModeModalEdit || m.mode == ModeModalResponse {
			m.updateModalContent()
		}

	case feedLoadedMsg:
		if msg.token != m.feedToken {
			break // A newer load is in flight; drop the stale snapshot
		}
		m.loading = false
		if !msg.ok {
			// Keep prior state: stale but consistent
			cmd = m.setErrorMessage("Не удалось загрузить ленту")
			break
		}
		m.feed.SetOrders(msg.orders)

	case crmLoadedMsg:
		if msg.token != m.crmToken {
			break
		}
		m.loading = false
		if !msg.ok {
			cmd = m.setErrorMessage("Не удалось загрузить CRM")
			break
		}
		m.crm.SetOrders(msg.orders)

	case profileLoadedMsg:
		if msg.token != m.profileToken {
			break
		}
		m.loading = false
		if !msg.ok {
			cmd = m.setErrorMessage("Не удалось загрузить профиль")
			break
		}
		m.profile.SetProfile(msg.profile)

	case orderSavedMsg:
		if msg.ok {
			cmd = m.setStatusMessage("📥 Сохранено в CRM")
		} else {
			cmd = m.setErrorMessage("Не удалось сохранить заказ")
		}

	case crmSavedMsg:
		if !msg.ok {
			// Status update failed: nothing persisted, stay in the modal
			cmd = m.setErrorMessage("Не удалось сохранить изменения")
			break
		}
		if msg.partial {
			cmd = m.setErrorMessage("Статус сохранён, заметки и цена — нет")
		} else {
			cmd = m.setStatusMessage("✅ Сохранено!")
		}
		m.closeModal()
		cmd = tea.Batch(cmd, m.loadCRM())

	case toolResultMsg:
		if !m.tools.IsLatest(msg.panel, msg.token) {
			break // Superseded by a newer submit
		}
		if msg.ok {
			m.tools.Finish(msg.panel, msg.text)
		} else {
			m.tools.Finish(msg.panel, toolFallback(msg.panel, msg.errText))
		}
		cmd = m.loadActivity()

	case responseGeneratedMsg:
		if msg.token != m.modalToken {
			break
		}
		if !msg.ok {
			errText := msg.errText
			if errText == "" {
				errText = "Ошибка генерации"
			}
			cmd = m.setErrorMessage("❌ " + errText)
			break
		}
		// Replace the modal surface with the generated response
		m.modalResponse = msg.text
		m.mode = ModeModalResponse
		m.updateModalContent()

	case categoriesSavedMsg:
		if !msg.ok {
			cmd = m.setErrorMessage("Не удалось сохранить категории")
		}

	case profileSavedMsg:
		if msg.ok {
			// Confirm persisted values rather than trusting the form
			cmd = tea.Batch(m.setStatusMessage("✅ Профиль сохранён!"), m.loadProfile())
		} else {
			cmd = m.setErrorMessage("❌ Ошибка сохранения")
		}

	case parserToggledMsg:
		if !msg.ok {
			cmd = m.setErrorMessage("Не удалось переключить парсер")
			break
		}
		m.profile.SetParserActive(msg.active)
		if msg.active {
			cmd = m.setStatusMessage("🟢 Парсер запущен!")
		} else {
			cmd = m.setStatusMessage("🔴 Парсер остановлен")
		}

	case activityLoadedMsg:
		m.activityEntries = msg.entries

	case clearStatusMsg:
		m.statusMsg = ""

	case clearErrorMsg:
		m.errorMsg = ""
	}

	return m, cmd
}

// Custom message types. Load results carry the token issued when the request
// left, so late responses from superseded requests are dropped instead of
// overwriting newer state.
type feedLoadedMsg struct {
	token  uint64
	orders []types.Order
	ok     bool
}

type crmLoadedMsg struct {
	token  uint64
	orders []types.Order
	ok     bool
}

type profileLoadedMsg struct {
	token   uint64
	profile *types.Profile
	ok      bool
}

type orderSavedMsg struct {
	ok bool
}

// crmSavedMsg reports the sequenced status+note save: ok=false means the
// status call failed and nothing was persisted; partial=true means the
// status persisted but the note call failed.
type crmSavedMsg struct {
	ok      bool
	partial bool
}

type toolResultMsg struct {
	panel   ToolPanel
	token   uint64
	text    string
	errText string
	ok      bool
}

type responseGeneratedMsg struct {
	token   uint64
	text    string
	errText string
	ok      bool
}

type categoriesSavedMsg struct {
	ok bool
}

type profileSavedMsg struct {
	ok bool
}

type parserToggledMsg struct {
	active bool
	ok     bool
}

type activityLoadedMsg struct {
	entries []activity.Entry
}

type clearStatusMsg struct{}
type clearErrorMsg struct{}

// toolFallback picks the inline error string for a failed tool call. The
// result surface always gets a non-empty message.
func toolFallback(panel ToolPanel, errText string) string {
	if errText != "" {
		return errText
	}
	switch panel {
	case ToolCalc:
		return "Ошибка расчёта. Попробуйте позже."
	case ToolReply:
		return "Ошибка. Нужна активная подписка."
	case ToolCheck:
		return "Ошибка проверки. Попробуйте позже."
	}
	return "Ошибка. Попробуйте позже."
}

// setStatusMessage shows a toast that clears itself after the timeout.
func (m *Model) setStatusMessage(msg string) tea.Cmd {
	m.statusMsg = msg
	m.errorMsg = ""
	return tea.Tick(toastTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// setErrorMessage shows a non-blocking error toast.
func (m *Model) setErrorMessage(msg string) tea.Cmd {
	m.errorMsg = msg
	return tea.Tick(toastTimeout, func(time.Time) tea.Msg {
		return clearErrorMsg{}
	})
}
