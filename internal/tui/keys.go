package tui

import (
	"unicode/utf8"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lancehub/lancecli/internal/types"
)

// handleKeyPress dispatches a key press based on the current mode.
func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		m.Cleanup()
		return tea.Quit
	}

	switch m.mode {
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeModalView:
		return m.handleModalViewKeys(msg)
	case ModeModalEdit:
		return m.handleModalEditKeys(msg)
	case ModeModalResponse:
		return m.handleModalResponseKeys(msg)
	case ModeActivityClearConfirm:
		return m.handleClearConfirmKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys outside any modal.
func (m *Model) handleNormalKeys(msg tea.KeyMsg) tea.Cmd {
	// Open tool panels and profile field editing swallow most keys
	if m.tab == TabTools && m.tools.Open() != ToolNone {
		return m.handleToolPanelKeys(msg)
	}
	if m.tab == TabProfile && m.profileEditing {
		return m.handleProfileEditKeys(msg)
	}

	switch msg.String() {
	case "q":
		m.Cleanup()
		return tea.Quit
	case "1":
		return m.switchTab(TabFeed)
	case "2":
		return m.switchTab(TabCRM)
	case "3":
		return m.switchTab(TabTools)
	case "4":
		return m.switchTab(TabProfile)
	case "tab":
		next := tabOrder[(int(m.tab)+1)%len(tabOrder)]
		return m.switchTab(next)
	case "shift+tab":
		prev := tabOrder[(int(m.tab)+len(tabOrder)-1)%len(tabOrder)]
		return m.switchTab(prev)
	case "r":
		return m.switchTab(m.tab)
	}

	switch m.tab {
	case TabFeed:
		return m.handleFeedKeys(msg)
	case TabCRM:
		return m.handleCrmKeys(msg)
	case TabTools:
		return m.handleToolListKeys(msg)
	case TabProfile:
		return m.handleProfileKeys(msg)
	}
	return nil
}

func (m *Model) handleFeedKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		m.feed.Navigate(1, m.pageSize())
	case "k", "up":
		m.feed.Navigate(-1, m.pageSize())
	case "left", "h":
		m.feed.CycleFilter(-1)
	case "right", "l":
		m.feed.CycleFilter(1)
	case "/":
		m.mode = ModeSearch
		m.searchInput = m.feed.Query()
	case "esc":
		m.searchInput = ""
		m.feed.ApplySearch("")
	case "enter":
		if order := m.feed.Current(); order != nil {
			m.openViewModal(order)
		}
	}
	return nil
}

func (m *Model) handleCrmKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		m.crm.Navigate(1, m.pageSize())
	case "k", "up":
		m.crm.Navigate(-1, m.pageSize())
	case "left", "h":
		m.crm.CycleFilter(-1)
	case "right", "l":
		m.crm.CycleFilter(1)
	case "enter", "e":
		if order := m.crm.Current(); order != nil {
			m.openEditModal(order)
		}
	case "v":
		if order := m.crm.Current(); order != nil {
			m.openViewModal(order)
		}
	}
	return nil
}

// handleToolListKeys handles the panel list when no panel is open.
func (m *Model) handleToolListKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		m.tools.NavigateSelection(1)
	case "k", "up":
		m.tools.NavigateSelection(-1)
	case "enter":
		m.tools.OpenPanel(m.tools.SelectedPanel())
	case "x":
		m.mode = ModeActivityClearConfirm
	}
	return nil
}

// handleToolPanelKeys routes keys into the open tool form.
func (m *Model) handleToolPanelKeys(msg tea.KeyMsg) tea.Cmd {
	panel := m.tools.Open()

	switch msg.String() {
	case "esc":
		m.tools.Collapse()
		return nil
	case "enter":
		if m.tools.IsBusy(panel) {
			return nil
		}
		return m.runTool(panel)
	case "tab":
		if panel == ToolReply {
			m.tools.ToggleReplyField()
		}
		return nil
	}

	m.tools.EditInput(func(value *string, cursor *int) {
		editTextInput(value, cursor, msg)
	})
	return nil
}

func (m *Model) handleProfileKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "j", "down":
		m.profile.NavigateField(1)
	case "k", "up":
		m.profile.NavigateField(-1)
	case "left", "h":
		if m.profile.Field() == profileFieldCategories {
			m.profile.NavigateCategory(-1)
		}
	case "right", "l":
		if m.profile.Field() == profileFieldCategories {
			m.profile.NavigateCategory(1)
		}
	case " ":
		if m.profile.Field() == profileFieldCategories {
			return m.toggleCategory(m.profile.SelectedCategory())
		}
	case "enter":
		if m.profile.Field() == profileFieldCategories {
			return m.toggleCategory(m.profile.SelectedCategory())
		}
		m.profileEditing = true
	case "p":
		return m.toggleParser()
	case "ctrl+s":
		return m.saveProfile()
	}
	return nil
}

// handleProfileEditKeys handles typing into the focused profile field.
func (m *Model) handleProfileEditKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "enter":
		m.profileEditing = false
		return nil
	case "ctrl+s":
		m.profileEditing = false
		return m.saveProfile()
	}

	m.profile.EditField(func(value *string, cursor *int) {
		editTextInput(value, cursor, msg)
	})
	return nil
}

// handleSearchKeys handles the feed search prompt. Matches narrow live on
// every edit.
func (m *Model) handleSearchKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.searchInput = ""
		m.feed.ApplySearch("")
		return nil
	case "enter":
		m.mode = ModeNormal
		return nil
	case "backspace":
		m.searchInput = trimLastRune(m.searchInput)
		m.feed.ApplySearch(m.searchInput)
		return nil
	case "ctrl+k":
		m.searchInput = ""
		m.feed.ApplySearch("")
		return nil
	}

	if msg.Type == tea.KeyRunes {
		m.searchInput += string(msg.Runes)
		m.feed.ApplySearch(m.searchInput)
	}
	return nil
}

func (m *Model) handleModalViewKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		m.closeModal()
		return nil
	case "o":
		return m.openOrderURL()
	case "g":
		return m.generateModalResponse()
	case "s":
		if m.tab == TabFeed {
			return m.saveToCRM()
		}
		return nil
	case "e":
		if m.tab == TabCRM && m.modalOrder != nil {
			m.openEditModal(m.modalOrder)
		}
		return nil
	}

	var cmd tea.Cmd
	m.modalView, cmd = m.modalView.Update(msg)
	return cmd
}

func (m *Model) handleModalEditKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return nil
	case "ctrl+s":
		return m.saveCrmChanges()
	case "tab", "down":
		m.setEditField((m.editField + 1) % 3)
		return nil
	case "shift+tab", "up":
		m.setEditField((m.editField + 2) % 3)
		return nil
	}

	if m.editField == 0 {
		n := len(types.StatusOrder)
		switch msg.String() {
		case "left", "h":
			m.editStatusIdx = (m.editStatusIdx + n - 1) % n
		case "right", "l":
			m.editStatusIdx = (m.editStatusIdx + 1) % n
		}
		m.updateModalContent()
		return nil
	}

	field := &m.editPrice
	if m.editField == 2 {
		field = &m.editNotes
	}
	editTextInput(field, &m.editCursor, msg)
	m.updateModalContent()
	return nil
}

// setEditField moves focus in the edit form, placing the cursor at the end
// of the newly focused field.
func (m *Model) setEditField(field int) {
	m.editField = field
	switch field {
	case 1:
		m.editCursor = len(m.editPrice)
	case 2:
		m.editCursor = len(m.editNotes)
	default:
		m.editCursor = 0
	}
	m.updateModalContent()
}

func (m *Model) handleModalResponseKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "q":
		m.closeModal()
		return nil
	case "c":
		return m.copyResponse()
	}

	var cmd tea.Cmd
	m.modalView, cmd = m.modalView.Update(msg)
	return cmd
}

func (m *Model) handleClearConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y":
		m.mode = ModeNormal
		return m.clearActivity()
	case "n", "esc":
		m.mode = ModeNormal
	}
	return nil
}

// pageSize derives how many cards fit the current terminal height.
func (m *Model) pageSize() int {
	return cardPageSize(m.height - ListChromeLines)
}

// editTextInput applies one key press to a text buffer with a byte-offset
// cursor kept on rune boundaries. Adapted for Cyrillic input: insertion and
// deletion work on whole runes.
func editTextInput(input *string, cursor *int, msg tea.KeyMsg) {
	if *cursor < 0 {
		*cursor = 0
	}
	if *cursor > len(*input) {
		*cursor = len(*input)
	}

	switch msg.String() {
	case "left":
		if *cursor > 0 {
			_, size := utf8.DecodeLastRuneInString((*input)[:*cursor])
			*cursor -= size
		}
		return

	case "right":
		if *cursor < len(*input) {
			_, size := utf8.DecodeRuneInString((*input)[*cursor:])
			*cursor += size
		}
		return

	case "home", "ctrl+a":
		*cursor = 0
		return

	case "end", "ctrl+e":
		*cursor = len(*input)
		return

	case "ctrl+v", "shift+insert", "super+v", "ctrl+y":
		if text, err := clipboard.ReadAll(); err == nil {
			*input = (*input)[:*cursor] + text + (*input)[*cursor:]
			*cursor += len(text)
		}
		return

	case "ctrl+k":
		*input = ""
		*cursor = 0
		return

	case "backspace":
		if *cursor > 0 {
			_, size := utf8.DecodeLastRuneInString((*input)[:*cursor])
			*input = (*input)[:*cursor-size] + (*input)[*cursor:]
			*cursor -= size
		}
		return

	case "delete":
		if *cursor < len(*input) {
			_, size := utf8.DecodeRuneInString((*input)[*cursor:])
			*input = (*input)[:*cursor] + (*input)[*cursor+size:]
		}
		return
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		*input = (*input)[:*cursor] + text + (*input)[*cursor:]
		*cursor += len(text)
	}
}

func trimLastRune(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
