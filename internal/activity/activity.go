// Package activity keeps a local log of AI tool invocations in SQLite.
// Only tool calls are recorded; feed and CRM data is never persisted.
package activity

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lancehub/lancecli/internal/format"
)

// Tool names recorded in the log.
const (
	ToolPriceCalc     = "price_calc"
	ToolGenerateReply = "generate_reply"
	ToolClientCheck   = "client_check"
)

// Entry is one recorded tool invocation.
type Entry struct {
	ID        int64
	Timestamp string
	Tool      string
	Input     string
	OK        bool
	Result    string
}

// Manager owns the activity database.
type Manager struct {
	db *sql.DB
}

// NewManager opens (creating if needed) the activity database at dbPath.
func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create activity directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open activity database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to activity database: %w", err)
	}

	m := &Manager{db: db}
	if err := m.initSchema(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS activity (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		tool TEXT NOT NULL,
		input TEXT NOT NULL,
		ok INTEGER NOT NULL,
		result TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_activity_timestamp ON activity(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_activity_tool ON activity(tool);
	`

	_, err := m.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to initialize activity schema: %w", err)
	}

	return nil
}

// Record stores one tool invocation. Inputs and results are capped so a
// pasted novel does not bloat the database.
func (m *Manager) Record(tool, input string, ok bool, result string) error {
	const maxLen = 500
	input = format.Truncate(input, maxLen)
	result = format.Truncate(result, maxLen)

	timestampStr := time.Now().Local().Format("2006-01-02 15:04:05")

	query := `INSERT INTO activity (timestamp, tool, input, ok, result) VALUES (?, ?, ?, ?, ?)`
	_, err := m.db.Exec(query, timestampStr, tool, input, boolToInt(ok), result)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (m *Manager) List(limit int) ([]Entry, error) {
	query := `
		SELECT id, timestamp, tool, input, ok, result
		FROM activity
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`
	rows, err := m.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var okInt int
		var result sql.NullString
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Tool, &e.Input, &okInt, &result); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		e.OK = okInt != 0
		e.Result = result.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes all entries.
func (m *Manager) Clear() error {
	_, err := m.db.Exec(`DELETE FROM activity`)
	if err != nil {
		return fmt.Errorf("failed to clear activity: %w", err)
	}
	return nil
}

// Close closes the database.
func (m *Manager) Close() error {
	return m.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
