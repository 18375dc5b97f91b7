package tui

import (
	"os/exec"
	"runtime"
	"strconv"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lancehub/lancecli/internal/activity"
	"github.com/lancehub/lancecli/internal/format"
	"github.com/lancehub/lancecli/internal/types"
)

// loadFeed re-fetches the full feed. Without an identity this is a silent
// no-op, mirroring the mini-app's unauthenticated behavior.
func (m *Model) loadFeed() tea.Cmd {
	if m.userID == 0 {
		return nil
	}
	m.loading = true
	m.feedToken++
	token := m.feedToken
	client, id := m.client, m.userID
	return func() tea.Msg {
		orders, ok := client.FetchFeed(id)
		return feedLoadedMsg{token: token, orders: orders, ok: ok}
	}
}

// loadCRM re-fetches the CRM orders.
func (m *Model) loadCRM() tea.Cmd {
	if m.userID == 0 {
		return nil
	}
	m.loading = true
	m.crmToken++
	token := m.crmToken
	client, id := m.client, m.userID
	return func() tea.Msg {
		orders, ok := client.FetchOrders(id)
		return crmLoadedMsg{token: token, orders: orders, ok: ok}
	}
}

// loadProfile re-fetches the user record.
func (m *Model) loadProfile() tea.Cmd {
	if m.userID == 0 {
		return nil
	}
	m.profileToken++
	token := m.profileToken
	client, id := m.client, m.userID
	return func() tea.Msg {
		profile, ok := client.FetchProfile(id)
		return profileLoadedMsg{token: token, profile: profile, ok: ok}
	}
}

// loadActivity reads the recent tool invocations from the local log.
func (m *Model) loadActivity() tea.Cmd {
	mgr := m.activity
	if mgr == nil {
		return nil
	}
	logger := m.log
	return func() tea.Msg {
		entries, err := mgr.List(ActivityRows)
		if err != nil {
			logger.Warn("loading activity log", zap.Error(err))
			return activityLoadedMsg{}
		}
		return activityLoadedMsg{entries: entries}
	}
}

// switchTab activates a tab and triggers its full re-fetch. Any open tool
// panel collapses, matching the mini-app's tab switch.
func (m *Model) switchTab(tab Tab) tea.Cmd {
	m.tab = tab
	m.tools.Collapse()
	switch tab {
	case TabFeed:
		return m.loadFeed()
	case TabCRM:
		return m.loadCRM()
	case TabTools:
		return m.loadActivity()
	case TabProfile:
		return m.loadProfile()
	}
	return nil
}

// openViewModal opens the shared modal in view mode for a feed order.
func (m *Model) openViewModal(order *types.Order) {
	m.modalOrder = order
	m.modalResponse = ""
	m.mode = ModeModalView
	m.updateModalContent()
}

// openEditModal opens the shared modal in edit mode for a CRM order,
// pre-selecting the status option matching the order's current status.
func (m *Model) openEditModal(order *types.Order) {
	m.modalOrder = order
	m.modalResponse = ""
	m.editStatusIdx = 0
	for i, status := range types.StatusOrder {
		if status == order.Status {
			m.editStatusIdx = i
			break
		}
	}
	m.editPrice = ""
	if order.MyPrice != 0 {
		m.editPrice = strconv.FormatFloat(order.MyPrice, 'f', -1, 64)
	}
	m.editNotes = order.Notes
	m.editField = 0
	m.editCursor = 0
	m.mode = ModeModalEdit
	m.updateModalContent()
}

// closeModal discards whatever the modal shows. The only exit; there is no
// navigation stack.
func (m *Model) closeModal() {
	m.mode = ModeNormal
	m.modalOrder = nil
	m.modalResponse = ""
}

// saveToCRM copies the modal's feed order into the CRM, keyed by hash.
func (m *Model) saveToCRM() tea.Cmd {
	if m.modalOrder == nil || m.modalOrder.Hash == "" {
		return nil
	}
	hash := m.modalOrder.Hash
	client, id := m.client, m.userID
	m.closeModal()
	return func() tea.Msg {
		return orderSavedMsg{ok: client.SaveOrder(id, hash)}
	}
}

// saveCrmChanges persists the edit form. The two backend calls are
// sequenced: a failed status update aborts before the note call so the
// partial-failure window only opens in one direction, and that direction is
// reported explicitly.
func (m *Model) saveCrmChanges() tea.Cmd {
	if m.modalOrder == nil {
		return nil
	}
	orderID := m.modalOrder.ID
	status := types.StatusOrder[m.editStatusIdx]
	notes := m.editNotes

	var price *float64
	if m.editPrice != "" {
		if v, err := strconv.ParseFloat(m.editPrice, 64); err == nil {
			price = &v
		}
	}

	client := m.client
	return func() tea.Msg {
		if !client.UpdateStatus(orderID, status) {
			return crmSavedMsg{ok: false}
		}
		if !client.UpdateNote(orderID, notes, price) {
			return crmSavedMsg{ok: true, partial: true}
		}
		return crmSavedMsg{ok: true}
	}
}

// generateModalResponse asks the assistant for a reply to the modal's order.
// The result replaces the modal body, like the mini-app swapping modal HTML.
func (m *Model) generateModalResponse() tea.Cmd {
	if m.modalOrder == nil {
		return nil
	}
	title := m.modalOrder.Title
	description := format.Truncate(m.modalOrder.Description, 500)

	m.modalToken++
	token := m.modalToken
	client, id := m.client, m.userID
	recorder := m.activity
	cmd := func() tea.Msg {
		response, errText, ok := client.GenerateResponse(id, title, description)
		if recorder != nil {
			_ = recorder.Record(activity.ToolGenerateReply, title, ok, response)
		}
		return responseGeneratedMsg{token: token, text: response, errText: errText, ok: ok}
	}
	return tea.Batch(m.setStatusMessage("⏳ Генерирую отклик..."), cmd)
}

// runTool validates and submits the open tool panel's form.
func (m *Model) runTool(panel ToolPanel) tea.Cmd {
	switch panel {
	case ToolCalc:
		input := m.tools.Input(ToolCalc)
		if !hasText(input) {
			return m.setErrorMessage("⚠️ Опишите задачу")
		}
		token := m.tools.Begin(ToolCalc)
		client, recorder := m.client, m.activity
		return func() tea.Msg {
			result, ok := client.CalculatePrice(input, "general")
			if recorder != nil {
				_ = recorder.Record(activity.ToolPriceCalc, input, ok, result)
			}
			return toolResultMsg{panel: ToolCalc, token: token, text: result, ok: ok}
		}

	case ToolReply:
		title, description := m.tools.ReplyInputs()
		if !hasText(title) {
			return m.setErrorMessage("⚠️ Введите название заказа")
		}
		token := m.tools.Begin(ToolReply)
		client, id, recorder := m.client, m.userID, m.activity
		return func() tea.Msg {
			response, errText, ok := client.GenerateResponse(id, title, description)
			if recorder != nil {
				_ = recorder.Record(activity.ToolGenerateReply, title, ok, response)
			}
			return toolResultMsg{panel: ToolReply, token: token, text: response, errText: errText, ok: ok}
		}

	case ToolCheck:
		info := m.tools.Input(ToolCheck)
		if !hasText(info) {
			return m.setErrorMessage("⚠️ Введите информацию о заказчике")
		}
		token := m.tools.Begin(ToolCheck)
		client, recorder := m.client, m.activity
		return func() tea.Msg {
			result, ok := client.CheckClient(info)
			if recorder != nil {
				_ = recorder.Record(activity.ToolClientCheck, info, ok, result)
			}
			return toolResultMsg{panel: ToolCheck, token: token, text: result, ok: ok}
		}
	}
	return nil
}

// toggleCategory flips membership optimistically and persists the full set.
// Each keypress is its own round trip; there is no debounce.
func (m *Model) toggleCategory(key string) tea.Cmd {
	profile := m.profile.Profile()
	if profile == nil {
		return nil
	}
	categories := profile.ToggleCategory(key)
	m.profile.SetCategories(categories)

	client, id := m.client, m.userID
	return func() tea.Msg {
		return categoriesSavedMsg{ok: client.UpdateCategories(id, categories)}
	}
}

// saveProfile persists the editable form fields in one call.
func (m *Model) saveProfile() tea.Cmd {
	update := m.profile.Update(m.userID)
	client := m.client
	return func() tea.Msg {
		return profileSavedMsg{ok: client.UpdateProfile(update)}
	}
}

// toggleParser flips the parser flag server-side; the local state updates
// only from the confirmed value.
func (m *Model) toggleParser() tea.Cmd {
	client, id := m.client, m.userID
	return func() tea.Msg {
		active, ok := client.ToggleParser(id)
		return parserToggledMsg{active: active, ok: ok}
	}
}

// copyResponse writes the generated response to the system clipboard.
func (m *Model) copyResponse() tea.Cmd {
	if err := clipboard.WriteAll(m.modalResponse); err != nil {
		return m.setErrorMessage("❌ Не удалось скопировать")
	}
	return m.setStatusMessage("📋 Скопировано!")
}

// clearActivity wipes the local tool log.
func (m *Model) clearActivity() tea.Cmd {
	if m.activity == nil {
		return nil
	}
	if err := m.activity.Clear(); err != nil {
		m.log.Warn("clearing activity log", zap.Error(err))
		return m.setErrorMessage("Не удалось очистить журнал")
	}
	return tea.Batch(m.setStatusMessage("Журнал очищен"), m.loadActivity())
}

// openOrderURL opens the order's original posting in the system browser.
// Absence of a browser degrades silently.
func (m *Model) openOrderURL() tea.Cmd {
	if m.modalOrder == nil || m.modalOrder.URL == "" {
		return nil
	}
	url := m.modalOrder.URL
	logger := m.log
	return func() tea.Msg {
		var cmd *exec.Cmd
		switch runtime.GOOS {
		case "darwin":
			cmd = exec.Command("open", url)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
		default:
			cmd = exec.Command("xdg-open", url)
		}
		if err := cmd.Start(); err != nil {
			logger.Warn("opening order url", zap.String("url", url), zap.Error(err))
		}
		return nil
	}
}

// hasText reports whether s contains non-whitespace content, the only input
// validation any form performs.
func hasText(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}
