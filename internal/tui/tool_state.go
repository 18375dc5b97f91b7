package tui

import (
	"sync"
)

// ToolPanel identifies one of the three AI helper forms.
type ToolPanel int

const (
	ToolNone ToolPanel = iota
	ToolCalc
	ToolReply
	ToolCheck
)

// toolPanelOrder is the rendering order on the Tools tab.
var toolPanelOrder = []ToolPanel{ToolCalc, ToolReply, ToolCheck}

// Input fields of the reply generator panel.
const (
	replyFieldTitle = iota
	replyFieldDescription
)

// ToolState encapsulates the three tool panels: which one is open, the input
// buffers, the busy flags and the per-panel result surface. Every in-flight
// request carries a token; only the latest token's result is applied, so a
// rapid double submit cannot leave a stale response on screen.
type ToolState struct {
	mu sync.RWMutex

	open     ToolPanel
	selected int // Panel selection cursor when no panel is open

	busy    map[ToolPanel]bool
	token   map[ToolPanel]uint64
	result  map[ToolPanel]string
	visible map[ToolPanel]bool

	calcInput  string
	replyTitle string
	replyDesc  string
	checkInput string

	replyField int // Which reply-generator field has focus
	cursor     int
}

// NewToolState creates a tool state with all panels collapsed.
func NewToolState() *ToolState {
	return &ToolState{
		open:    ToolNone,
		busy:    make(map[ToolPanel]bool),
		token:   make(map[ToolPanel]uint64),
		result:  make(map[ToolPanel]string),
		visible: make(map[ToolPanel]bool),
	}
}

// Open returns the open panel, ToolNone when all are collapsed.
func (s *ToolState) Open() ToolPanel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// OpenPanel expands one panel, collapsing any other.
func (s *ToolState) OpenPanel(panel ToolPanel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = panel
	s.replyField = replyFieldTitle
	s.cursor = len(s.inputLocked(panel))
}

// Collapse closes any open panel. In-flight requests are not cancelled;
// their results still land in the panel's result surface.
func (s *ToolState) Collapse() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = ToolNone
}

// Selected returns the panel selection cursor.
func (s *ToolState) Selected() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// NavigateSelection moves the panel selection cursor by delta.
func (s *ToolState) NavigateSelection(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(toolPanelOrder)
	s.selected = (s.selected + delta + n) % n
}

// SelectedPanel returns the panel under the selection cursor.
func (s *ToolState) SelectedPanel() ToolPanel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return toolPanelOrder[s.selected]
}

// IsBusy reports whether a request is in flight for the panel.
func (s *ToolState) IsBusy(panel ToolPanel) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy[panel]
}

// Begin marks the panel busy and issues a new request token.
func (s *ToolState) Begin(panel ToolPanel) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[panel] = true
	s.token[panel]++
	return s.token[panel]
}

// IsLatest reports whether token is the most recently issued for the panel.
func (s *ToolState) IsLatest(panel ToolPanel, token uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token[panel] == token
}

// Finish clears the busy flag and writes the result surface. The trigger is
// always re-enabled, success or not.
func (s *ToolState) Finish(panel ToolPanel, result string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[panel] = false
	s.result[panel] = result
	s.visible[panel] = true
}

// Result returns the panel's result surface and whether it is visible.
func (s *ToolState) Result(panel ToolPanel) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result[panel], s.visible[panel]
}

// Input returns the focused input buffer of a panel.
func (s *ToolState) Input(panel ToolPanel) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inputLocked(panel)
}

func (s *ToolState) inputLocked(panel ToolPanel) string {
	switch panel {
	case ToolCalc:
		return s.calcInput
	case ToolReply:
		if s.replyField == replyFieldTitle {
			return s.replyTitle
		}
		return s.replyDesc
	case ToolCheck:
		return s.checkInput
	}
	return ""
}

// ReplyInputs returns both reply-generator buffers.
func (s *ToolState) ReplyInputs() (title, description string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replyTitle, s.replyDesc
}

// ReplyField returns which reply-generator field has focus.
func (s *ToolState) ReplyField() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replyField
}

// ToggleReplyField moves focus between the reply-generator fields.
func (s *ToolState) ToggleReplyField() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.replyField == replyFieldTitle {
		s.replyField = replyFieldDescription
		s.cursor = len(s.replyDesc)
	} else {
		s.replyField = replyFieldTitle
		s.cursor = len(s.replyTitle)
	}
}

// Cursor returns the cursor position in the focused input.
func (s *ToolState) Cursor() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor
}

// EditInput applies an edit function to the open panel's focused input.
func (s *ToolState) EditInput(edit func(value *string, cursor *int)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *string
	switch s.open {
	case ToolCalc:
		target = &s.calcInput
	case ToolReply:
		if s.replyField == replyFieldTitle {
			target = &s.replyTitle
		} else {
			target = &s.replyDesc
		}
	case ToolCheck:
		target = &s.checkInput
	default:
		return
	}
	edit(target, &s.cursor)
}

// PrefillReply loads the reply generator with an order's title and
// description.
func (s *ToolState) PrefillReply(title, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replyTitle = title
	s.replyDesc = description
	s.replyField = replyFieldTitle
	s.cursor = len(title)
}
