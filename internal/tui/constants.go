package tui

// UI layout constants

const (
	// Modal dimensions - margins around the shared modal surface
	ModalWidthMargin  = 6
	ModalHeightMargin = 3

	// Lines consumed outside the card list: tab bar, filter chips, spacing,
	// status bar
	ListChromeLines = 7

	// Lines one order card occupies, separator included
	CardHeight = 4

	// Feed description preview cap (runes, with ellipsis)
	DescPreviewLen = 80

	// CRM note preview cap (runes, hard cut, no ellipsis)
	NotePreviewLen = 80

	// Activity log rows shown under the tool panels
	ActivityRows = 20
)
