package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsJSONC(t *testing.T) {
	dir := t.TempDir()
	SettingsFile = filepath.Join(dir, "settings.jsonc")

	content := []byte(`{
  // local backend
  "server_url": "http://127.0.0.1:9000",
  "user_id": 42,
}`)
	require.NoError(t, os.WriteFile(SettingsFile, content, 0644))

	s := LoadSettings()
	assert.Equal(t, "http://127.0.0.1:9000", s.ServerURL)
	assert.Equal(t, int64(42), s.UserID)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	SettingsFile = filepath.Join(t.TempDir(), "nope.jsonc")

	s := LoadSettings()
	assert.Equal(t, Settings{}, s)
}

func TestLoadSettingsMalformed(t *testing.T) {
	dir := t.TempDir()
	SettingsFile = filepath.Join(dir, "settings.jsonc")
	require.NoError(t, os.WriteFile(SettingsFile, []byte("{{{"), 0644))

	s := LoadSettings()
	assert.Equal(t, Settings{}, s)
}

func TestResolveUserID(t *testing.T) {
	SettingsFile = filepath.Join(t.TempDir(), "settings.jsonc")
	t.Setenv("LANCECLI_USER_ID", "")

	// Flag wins
	assert.Equal(t, int64(7), ResolveUserID(7))

	// Env next
	t.Setenv("LANCECLI_USER_ID", "99")
	assert.Equal(t, int64(99), ResolveUserID(0))

	// Nothing set: absent identity
	t.Setenv("LANCECLI_USER_ID", "")
	assert.Equal(t, int64(0), ResolveUserID(0))
}

func TestResolveUserIDBadEnv(t *testing.T) {
	SettingsFile = filepath.Join(t.TempDir(), "settings.jsonc")
	t.Setenv("LANCECLI_USER_ID", "not-a-number")

	assert.Equal(t, int64(0), ResolveUserID(0))
}

func TestResolveServerURL(t *testing.T) {
	SettingsFile = filepath.Join(t.TempDir(), "settings.jsonc")
	t.Setenv("LANCECLI_SERVER", "")

	assert.Equal(t, "http://flag", ResolveServerURL("http://flag"))

	t.Setenv("LANCECLI_SERVER", "http://env")
	assert.Equal(t, "http://env", ResolveServerURL(""))

	t.Setenv("LANCECLI_SERVER", "")
	assert.Equal(t, DefaultServerURL, ResolveServerURL(""))
}
