package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/lancehub/lancecli/internal/format"
	"github.com/lancehub/lancecli/internal/types"
)

// Adaptive color definitions for light/dark terminal support
var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#00ff00"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff0000"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffff00"}
	colorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
)

// Style definitions
var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorGreen)

	styleError = lipgloss.NewStyle().
			Foreground(colorRed)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorYellow)

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	styleChipActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan).
			Underline(true)

	styleTile = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1).
			Align(lipgloss.Center)
)

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	switch m.mode {
	case ModeModalView, ModeModalEdit, ModeModalResponse:
		return m.renderModal()
	case ModeActivityClearConfirm:
		return m.renderActivityClearConfirm()
	default:
		return m.renderMain()
	}
}

// renderMain renders the tab bar, the active tab's content and the status bar.
func (m Model) renderMain() string {
	header := m.renderTabBar()

	contentHeight := m.height - 3 // Tab bar + status bar + spacing
	if contentHeight < 1 {
		contentHeight = 1
	}

	var body string
	switch m.tab {
	case TabFeed:
		body = m.renderFeed(m.width, contentHeight)
	case TabCRM:
		body = m.renderCRM(m.width, contentHeight)
	case TabTools:
		body = m.renderTools(m.width, contentHeight)
	case TabProfile:
		body = m.renderProfile(m.width, contentHeight)
	}

	body = lipgloss.NewStyle().Height(contentHeight).Render(body)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		body,
		m.renderStatusBar(),
	)
}

// renderTabBar renders the top-level section switcher.
func (m Model) renderTabBar() string {
	var parts []string
	for i, tab := range tabOrder {
		label := fmt.Sprintf("%d %s", i+1, tabTitles[tab])
		if tab == m.tab {
			parts = append(parts, styleChipActive.Render(label))
		} else {
			parts = append(parts, styleSubtle.Render(label))
		}
	}
	return " " + strings.Join(parts, "   ")
}

// renderFeed renders the filter chips and the feed card list.
func (m Model) renderFeed(width, height int) string {
	var lines []string

	chips := append([]string{types.FilterAll}, types.SourceOrder...)
	lines = append(lines, renderChips(chips, m.feed.Filter(), sourceChipLabel))

	if m.mode == ModeSearch {
		lines = append(lines, styleWarning.Render("Поиск: "+m.searchInput+"█"))
	} else if q := m.feed.Query(); q != "" {
		lines = append(lines, styleSubtle.Render("Поиск: "+q+" (esc — сброс)"))
	}
	lines = append(lines, "")

	visible := m.feed.Visible()
	if len(visible) == 0 {
		lines = append(lines, styleSubtle.Render("📭 Пока нет заказов. Запустите парсер!"))
		return strings.Join(lines, "\n")
	}

	pageSize := cardPageSize(height - len(lines))
	now := time.Now()
	end := m.feed.Offset() + pageSize
	if end > len(visible) {
		end = len(visible)
	}

	for i := m.feed.Offset(); i < end; i++ {
		lines = append(lines, renderFeedCard(&visible[i], width, i == m.feed.Index(), now)...)
	}

	lines = append(lines, styleSubtle.Render(fmt.Sprintf("[%d/%d]", m.feed.Index()+1, len(visible))))
	return strings.Join(lines, "\n")
}

// renderFeedCard renders one feed order card.
func renderFeedCard(o *types.Order, width int, selected bool, now time.Time) []string {
	header := fmt.Sprintf("%s %s  %s",
		types.SourceMarker(o.Source),
		strings.ToUpper(o.Source),
		styleSubtle.Render(format.RelativeTime(o.CreatedAt, now)),
	)

	title := format.SanitizeLine(o.Title)
	title = format.TruncateEllipsis(title, width-4)

	footer := "💰 " + format.Budget(o.Budget)
	if o.ClientName != "" {
		footer += "  " + styleSubtle.Render("👤 "+format.SanitizeLine(o.ClientName))
	}

	lines := []string{header, title}
	if o.Description != "" {
		desc := format.TruncateEllipsis(format.SanitizeLine(o.Description), DescPreviewLen)
		lines = append(lines, styleSubtle.Render(desc))
	}
	lines = append(lines, footer)

	return decorateCard(lines, selected)
}

// renderCRM renders the stat tiles, status filter chips and the CRM list.
func (m Model) renderCRM(width, height int) string {
	var lines []string

	stats := m.crm.Stats()
	tiles := lipgloss.JoinHorizontal(
		lipgloss.Top,
		statTile(fmt.Sprintf("%d", stats.Total), "Всего"),
		statTile(fmt.Sprintf("%d", stats.InProgress), "В работе"),
		statTile(fmt.Sprintf("%d", stats.Completed), "Завершено"),
		statTile(format.Money(stats.Earned), "Заработано"),
	)
	lines = append(lines, strings.Split(tiles, "\n")...)

	chips := append([]string{types.FilterAll}, types.StatusOrder...)
	lines = append(lines, renderChips(chips, m.crm.Filter(), statusChipLabel))
	lines = append(lines, "")

	visible := m.crm.Visible()
	if len(visible) == 0 {
		lines = append(lines, styleSubtle.Render("📋 В CRM пока пусто. Сохраняйте заказы из ленты!"))
		return strings.Join(lines, "\n")
	}

	pageSize := cardPageSize(height - len(lines))
	end := m.crm.Offset() + pageSize
	if end > len(visible) {
		end = len(visible)
	}

	for i := m.crm.Offset(); i < end; i++ {
		lines = append(lines, renderCrmCard(&visible[i], width, i == m.crm.Index())...)
	}

	lines = append(lines, styleSubtle.Render(fmt.Sprintf("[%d/%d]", m.crm.Index()+1, len(visible))))
	return strings.Join(lines, "\n")
}

// renderCrmCard renders one CRM order card: status badge instead of
// timestamp, optional price, notes hard-cut at the preview cap.
func renderCrmCard(o *types.Order, width int, selected bool) []string {
	header := fmt.Sprintf("%s %s  %s",
		types.SourceMarker(o.Source),
		strings.ToUpper(o.Source),
		styleWarning.Render(types.StatusLabel(o.Status)),
	)

	title := format.TruncateEllipsis(format.SanitizeLine(o.Title), width-4)

	footer := "💰 " + format.Budget(o.Budget)
	if o.MyPrice != 0 {
		footer += "  " + styleSuccess.Render("💵 "+format.Money(o.MyPrice))
	}

	lines := []string{header, title, footer}
	if o.Notes != "" {
		notes := format.Truncate(format.SanitizeLine(o.Notes), NotePreviewLen)
		lines = append(lines, styleSubtle.Render("📝 "+notes))
	}

	return decorateCard(lines, selected)
}

// renderTools renders the tool panel list or the open panel, with the
// activity log underneath.
func (m Model) renderTools(width, height int) string {
	var lines []string

	open := m.tools.Open()
	if open == ToolNone {
		lines = append(lines, styleTitle.Render("Инструменты"))
		lines = append(lines, "")
		for i, panel := range toolPanelOrder {
			label := toolTitle(panel)
			if i == m.tools.Selected() {
				label = styleSelected.Render("▸ " + label)
			} else {
				label = "  " + label
			}
			lines = append(lines, label)
		}
		lines = append(lines, "")
		lines = append(lines, styleSubtle.Render("enter — открыть, j/k — выбор"))
	} else {
		lines = append(lines, m.renderToolPanel(open, width)...)
	}

	lines = append(lines, "", styleTitle.Render("Журнал"))
	if len(m.activityEntries) == 0 {
		lines = append(lines, styleSubtle.Render("Пусто"))
	} else {
		for _, e := range m.activityEntries {
			mark := styleSuccess.Render("✓")
			if !e.OK {
				mark = styleError.Render("✗")
			}
			row := fmt.Sprintf("%s %s  %s  %s",
				mark, e.Timestamp, e.Tool,
				styleSubtle.Render(format.TruncateEllipsis(format.SanitizeLine(e.Input), 40)))
			lines = append(lines, row)
			if len(lines) >= height-2 {
				break
			}
		}
	}

	return strings.Join(lines, "\n")
}

// renderToolPanel renders one open tool form.
func (m Model) renderToolPanel(panel ToolPanel, width int) []string {
	lines := []string{styleTitle.Render(toolTitle(panel)), ""}

	cursor := m.tools.Cursor()
	switch panel {
	case ToolCalc:
		lines = append(lines, "Описание задачи:")
		lines = append(lines, inputLine(m.tools.Input(ToolCalc), cursor, true))
	case ToolReply:
		title, description := m.tools.ReplyInputs()
		focusTitle := m.tools.ReplyField() == replyFieldTitle
		lines = append(lines, "Название заказа:")
		lines = append(lines, inputLine(title, cursor, focusTitle))
		lines = append(lines, "Описание:")
		lines = append(lines, inputLine(description, cursor, !focusTitle))
	case ToolCheck:
		lines = append(lines, "Информация о заказчике:")
		lines = append(lines, inputLine(m.tools.Input(ToolCheck), cursor, true))
	}

	lines = append(lines, "")
	if m.tools.IsBusy(panel) {
		lines = append(lines, styleWarning.Render(toolBusyLabel(panel)))
	} else {
		lines = append(lines, styleSubtle.Render("enter — "+toolTriggerLabel(panel)+", esc — закрыть"))
	}

	if result, visible := m.tools.Result(panel); visible {
		lines = append(lines, "")
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Width(min(width-4, 76)).
			Padding(0, 1).
			Render(format.Sanitize(result))
		lines = append(lines, strings.Split(box, "\n")...)
	}

	return lines
}

// renderProfile renders the profile form, stat tiles, category grid and the
// parser toggle.
func (m Model) renderProfile(width, height int) string {
	profile := m.profile.Profile()
	if profile == nil {
		return styleSubtle.Render("Профиль не загружен")
	}

	var lines []string
	name := profile.FullName
	if name == "" {
		name = "Не указано"
	}
	lines = append(lines, styleTitle.Render(name)+"  "+styleWarning.Render(profile.SubscriptionStatus))
	lines = append(lines, "")

	tiles := lipgloss.JoinHorizontal(
		lipgloss.Top,
		statTile(fmt.Sprintf("%d", profile.OrdersViewed), "Просмотрено"),
		statTile(fmt.Sprintf("%d", profile.ResponsesSent), "Откликов"),
		statTile(fmt.Sprintf("%d", profile.OrdersWon), "Выиграно"),
		statTile(format.Money(profile.TotalEarned), "Заработано"),
	)
	lines = append(lines, strings.Split(tiles, "\n")...)
	lines = append(lines, "")

	fieldLabels := []string{"Имя", "О себе", "Портфолио", "Ставка (₽/ч)", "Опыт (лет)"}
	selectedField := m.profile.Field()
	for i, label := range fieldLabels {
		focused := selectedField == i
		lines = append(lines, fmt.Sprintf("%-14s %s", label+":", inputLine(m.profile.FieldValue(i), m.profile.Cursor(), focused)))
	}
	lines = append(lines, "")

	// Category grid, always in the fixed enum order
	lines = append(lines, styleSubtle.Render("Категории:"))
	var catParts []string
	onGrid := selectedField == profileFieldCategories
	for i, key := range types.CategoryOrder {
		chip := types.CategoryLabels[key]
		if profile.HasCategory(key) {
			chip = styleSuccess.Render("[" + chip + "]")
		} else {
			chip = styleSubtle.Render(" " + chip + " ")
		}
		if onGrid && i == m.profile.CatIndex() {
			chip = styleSelected.Render(chip)
		}
		catParts = append(catParts, chip)
	}
	half := (len(catParts) + 1) / 2
	lines = append(lines, strings.Join(catParts[:half], " "))
	lines = append(lines, strings.Join(catParts[half:], " "))
	lines = append(lines, "")

	parserStatus := "🔴 Выключен"
	if profile.ParserActive {
		parserStatus = "🟢 Активен"
	}
	lines = append(lines, "Парсер: "+parserStatus+"  "+styleSubtle.Render("(p — переключить)"))
	lines = append(lines, styleSubtle.Render("ctrl+s — сохранить профиль, space — категория"))

	return strings.Join(lines, "\n")
}

// renderStatusBar renders the toast line.
func (m Model) renderStatusBar() string {
	if m.errorMsg != "" {
		return styleError.Render(" " + m.errorMsg)
	}
	if m.statusMsg != "" {
		return styleSuccess.Render(" " + m.statusMsg)
	}
	if m.loading {
		return styleSubtle.Render(" Загрузка...")
	}
	return styleSubtle.Render(" 1-4 — вкладки, r — обновить, q — выход")
}

// renderActivityClearConfirm renders the clear-log confirmation.
func (m Model) renderActivityClearConfirm() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorYellow).
		Padding(1, 2).
		Render("Очистить журнал инструментов?\n\n" + styleSubtle.Render("y — да, n — нет"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Helpers

func renderChips(chips []string, active string, label func(string) string) string {
	var parts []string
	for _, chip := range chips {
		text := label(chip)
		if chip == active {
			parts = append(parts, styleChipActive.Render(text))
		} else {
			parts = append(parts, styleSubtle.Render(text))
		}
	}
	return strings.Join(parts, "  ")
}

func sourceChipLabel(chip string) string {
	if chip == types.FilterAll {
		return "Все"
	}
	return types.SourceMarker(chip) + " " + chip
}

func statusChipLabel(chip string) string {
	if chip == types.FilterAll {
		return "Все"
	}
	return types.StatusLabel(chip)
}

func decorateCard(lines []string, selected bool) []string {
	out := make([]string, 0, len(lines)+1)
	for i, line := range lines {
		prefix := "  "
		if selected && i == 0 {
			prefix = styleSelected.Render("▸") + " "
		}
		out = append(out, prefix+line)
	}
	return append(out, "")
}

func statTile(value, label string) string {
	return styleTile.Render(styleTitle.Render(value) + "\n" + styleSubtle.Render(label))
}

// inputLine renders an editable value with a block cursor. The cursor is a
// byte offset kept on rune boundaries by the input handler.
func inputLine(value string, cursor int, focused bool) string {
	if !focused {
		return value
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(value) {
		cursor = len(value)
	}
	return value[:cursor] + "█" + value[cursor:]
}

func cardPageSize(height int) int {
	size := height / CardHeight
	if size < 1 {
		size = 1
	}
	return size
}

func toolTitle(panel ToolPanel) string {
	switch panel {
	case ToolCalc:
		return "💰 Калькулятор цены"
	case ToolReply:
		return "✍️ Генератор откликов"
	case ToolCheck:
		return "🔍 Проверка заказчика"
	}
	return ""
}

func toolBusyLabel(panel ToolPanel) string {
	switch panel {
	case ToolCalc:
		return "⏳ Анализирую..."
	case ToolReply:
		return "⏳ Генерирую..."
	case ToolCheck:
		return "⏳ Проверяю..."
	}
	return "⏳"
}

func toolTriggerLabel(panel ToolPanel) string {
	switch panel {
	case ToolCalc:
		return "рассчитать"
	case ToolReply:
		return "сгенерировать"
	case ToolCheck:
		return "проверить"
	}
	return ""
}
