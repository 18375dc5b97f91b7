package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lancehub/lancecli/internal/format"
	"github.com/lancehub/lancecli/internal/types"
)

var styleModalBorder = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorCyan).
	Padding(0, 1)

// updateModalContent rebuilds the viewport content for the current modal
// mode. Called on open, on mode switch and on terminal resize.
func (m *Model) updateModalContent() {
	switch m.mode {
	case ModeModalView:
		m.modalView.SetContent(m.viewModalBody())
	case ModeModalEdit:
		m.modalView.SetContent(m.editModalBody())
	case ModeModalResponse:
		m.modalView.SetContent(m.responseModalBody())
	}
	m.modalView.GotoTop()
}

// renderModal renders the shared modal surface centered on screen.
func (m Model) renderModal() string {
	var title, footer string

	switch m.mode {
	case ModeModalView:
		title = "Заказ"
		footer = "o — открыть ссылку, g — отклик, s — в CRM"
		if m.tab == TabCRM {
			footer = "o — открыть ссылку, g — отклик, e — изменить"
		}
	case ModeModalEdit:
		title = "Редактирование"
		footer = "tab — поле, ←/→ — статус, ctrl+s — сохранить"
	case ModeModalResponse:
		title = "✍️ Отклик"
		footer = "c — копировать"
	}
	footer += ", esc — закрыть"

	var toast string
	if m.errorMsg != "" {
		toast = "\n" + styleError.Render(m.errorMsg)
	} else if m.statusMsg != "" {
		toast = "\n" + styleSuccess.Render(m.statusMsg)
	}

	box := styleModalBorder.Width(m.modalView.Width).Render(
		styleTitle.Render(title) + "\n\n" +
			m.modalView.View() + "\n\n" +
			styleSubtle.Render(footer) + toast,
	)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// viewModalBody renders the full order details.
func (m Model) viewModalBody() string {
	o := m.modalOrder
	if o == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n\n",
		types.SourceMarker(o.Source),
		strings.ToUpper(o.Source),
		styleSubtle.Render(format.RelativeTime(o.CreatedAt, time.Now())),
	)
	b.WriteString(styleTitle.Render(format.SanitizeLine(o.Title)) + "\n\n")

	if o.Status != "" {
		b.WriteString("Статус: " + styleWarning.Render(types.StatusLabel(o.Status)) + "\n")
	}
	b.WriteString("💰 Бюджет: " + format.Budget(o.Budget) + "\n")
	if o.MyPrice != 0 {
		b.WriteString("💵 Моя цена: " + styleSuccess.Render(format.Money(o.MyPrice)) + "\n")
	}
	if o.ClientName != "" {
		b.WriteString("👤 Заказчик: " + format.SanitizeLine(o.ClientName) + "\n")
	}
	if o.Priority != "" {
		b.WriteString("⚡ Приоритет: " + format.SanitizeLine(o.Priority) + "\n")
	}
	if o.URL != "" {
		b.WriteString("🔗 " + styleSubtle.Render(o.URL) + "\n")
	}

	if o.Description != "" {
		b.WriteString("\n" + format.Sanitize(o.Description) + "\n")
	}
	if o.Notes != "" {
		b.WriteString("\n📝 Заметки:\n" + format.Sanitize(o.Notes) + "\n")
	}

	return b.String()
}

// editModalBody renders the status/price/notes form.
func (m Model) editModalBody() string {
	o := m.modalOrder
	if o == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(format.TruncateEllipsis(format.SanitizeLine(o.Title), m.modalView.Width-2) + "\n\n")

	// Status selector cycles through the fixed status order
	status := types.StatusLabel(types.StatusOrder[m.editStatusIdx])
	selector := "◂ " + status + " ▸"
	b.WriteString(editFieldRow("Статус", selector, m.editField == 0) + "\n")
	b.WriteString(editFieldRow("Моя цена", inputLine(m.editPrice, m.editCursor, m.editField == 1), m.editField == 1) + "\n")
	b.WriteString(editFieldRow("Заметки", inputLine(m.editNotes, m.editCursor, m.editField == 2), m.editField == 2) + "\n")

	return b.String()
}

func editFieldRow(label, value string, focused bool) string {
	prefix := "  "
	if focused {
		prefix = styleChipActive.Render("▸") + " "
	}
	return prefix + fmt.Sprintf("%-10s %s", label+":", value)
}

// responseModalBody renders the generated response text.
func (m Model) responseModalBody() string {
	if m.modalResponse == "" {
		return styleSubtle.Render("⏳ Генерирую отклик...")
	}
	return format.Sanitize(m.modalResponse)
}
