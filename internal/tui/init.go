package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lancehub/lancecli/internal/activity"
	"github.com/lancehub/lancecli/internal/api"
	"github.com/lancehub/lancecli/internal/config"
	"github.com/lancehub/lancecli/internal/logging"
)

// New assembles a Model from resolved configuration. The activity log is
// optional: a database failure degrades to a client without a local log.
func New(serverURL string, userID int64) *Model {
	log := logging.New(config.LogFile)

	mgr, err := activity.NewManager(config.DatabasePath)
	if err != nil {
		log.Warn("opening activity database", zap.Error(err))
		mgr = nil
	}

	return &Model{
		client:   api.New(serverURL, log),
		activity: mgr,
		log:      log,
		userID:   userID,
		feed:     NewFeedState(),
		crm:      NewCrmState(),
		profile:  NewProfileState(),
		tools:    NewToolState(),
		tab:      TabFeed,
		mode:     ModeNormal,
	}
}

// Run starts the interactive client and blocks until exit.
func Run(serverURL string, userID int64) error {
	m := New(serverURL, userID)
	defer m.Cleanup()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
