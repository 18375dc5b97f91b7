package tui

import (
	"testing"
)

func TestNewToolState(t *testing.T) {
	state := NewToolState()

	if state == nil {
		t.Fatal("NewToolState returned nil")
	}

	if state.Open() != ToolNone {
		t.Error("Expected all panels collapsed initially")
	}

	if state.IsBusy(ToolCalc) {
		t.Error("Expected no panel busy initially")
	}

	if _, visible := state.Result(ToolCalc); visible {
		t.Error("Expected no result surface initially")
	}
}

func TestToolState_OpenPanelCollapsesOthers(t *testing.T) {
	state := NewToolState()

	state.OpenPanel(ToolCalc)
	state.OpenPanel(ToolCheck)

	if state.Open() != ToolCheck {
		t.Errorf("Expected ToolCheck open, got %d", state.Open())
	}

	state.Collapse()

	if state.Open() != ToolNone {
		t.Error("Expected all panels collapsed")
	}
}

func TestToolState_NavigateSelectionWrapsAround(t *testing.T) {
	state := NewToolState()

	state.NavigateSelection(-1)

	if state.SelectedPanel() != ToolCheck {
		t.Errorf("Expected last panel after wrapping up, got %d", state.SelectedPanel())
	}

	state.NavigateSelection(1)

	if state.SelectedPanel() != ToolCalc {
		t.Errorf("Expected first panel after wrapping down, got %d", state.SelectedPanel())
	}
}

func TestToolState_BeginMarksBusyAndIssuesTokens(t *testing.T) {
	state := NewToolState()

	first := state.Begin(ToolCalc)
	second := state.Begin(ToolCalc)

	if !state.IsBusy(ToolCalc) {
		t.Error("Expected panel busy after Begin")
	}

	if second <= first {
		t.Errorf("Expected tokens to increase, got %d then %d", first, second)
	}

	if state.IsLatest(ToolCalc, first) {
		t.Error("Expected the first token to be superseded")
	}

	if !state.IsLatest(ToolCalc, second) {
		t.Error("Expected the second token to be latest")
	}
}

func TestToolState_TokensAreIndependentPerPanel(t *testing.T) {
	state := NewToolState()

	calcToken := state.Begin(ToolCalc)
	state.Begin(ToolCheck)

	if !state.IsLatest(ToolCalc, calcToken) {
		t.Error("Expected a submit on one panel to leave another panel's token intact")
	}
}

func TestToolState_FinishReenablesTrigger(t *testing.T) {
	state := NewToolState()
	state.Begin(ToolReply)

	state.Finish(ToolReply, "Готовый отклик")

	if state.IsBusy(ToolReply) {
		t.Error("Expected busy cleared after Finish")
	}

	result, visible := state.Result(ToolReply)
	if !visible {
		t.Fatal("Expected result surface visible after Finish")
	}

	if result != "Готовый отклик" {
		t.Errorf("Expected result text, got '%s'", result)
	}
}

func TestToolState_EditInputTargetsOpenPanel(t *testing.T) {
	state := NewToolState()
	state.OpenPanel(ToolCalc)

	state.EditInput(func(value *string, cursor *int) {
		*value = "Нужен бот"
		*cursor = len(*value)
	})

	if state.Input(ToolCalc) != "Нужен бот" {
		t.Errorf("Expected calc input set, got '%s'", state.Input(ToolCalc))
	}

	// No edits land while everything is collapsed
	state.Collapse()
	state.EditInput(func(value *string, cursor *int) {
		*value = "потерялось"
	})

	if state.Input(ToolCalc) != "Нужен бот" {
		t.Error("Expected collapsed edit to be a no-op")
	}
}

func TestToolState_ToggleReplyField(t *testing.T) {
	state := NewToolState()
	state.OpenPanel(ToolReply)
	state.PrefillReply("Заголовок", "Описание")

	if state.ReplyField() != replyFieldTitle {
		t.Error("Expected title focused after prefill")
	}

	state.ToggleReplyField()

	if state.ReplyField() != replyFieldDescription {
		t.Error("Expected description focused after toggle")
	}

	if state.Cursor() != len("Описание") {
		t.Errorf("Expected cursor at end of description, got %d", state.Cursor())
	}

	title, description := state.ReplyInputs()
	if title != "Заголовок" || description != "Описание" {
		t.Errorf("Expected prefetched buffers, got '%s'/'%s'", title, description)
	}
}

func TestToolState_InputBuffersSurviveCollapse(t *testing.T) {
	state := NewToolState()
	state.OpenPanel(ToolCheck)
	state.EditInput(func(value *string, cursor *int) {
		*value = "Иван, 3 заказа"
	})

	state.Collapse()
	state.OpenPanel(ToolCheck)

	if state.Input(ToolCheck) != "Иван, 3 заказа" {
		t.Error("Expected input preserved across collapse")
	}
}
