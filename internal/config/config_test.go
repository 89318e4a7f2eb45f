package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"JOBCRAWL_SITE", "JOBCRAWL_OUTPUT", "JOBCRAWL_SESSION", "JOBCRAWL_BROWSER_PATH",
	"JOBCRAWL_COOKIES_PATH", "JOBCRAWL_LISTEN", "JOBCRAWL_LOG_LEVEL", "JOBCRAWL_KEYWORDS",
	"JOBCRAWL_MAX_PAGES", "JOBCRAWL_HEADLESS", "JOBCRAWL_MANUAL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "DATABASE_URL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_YAMLAndDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
site: boss
keywords: [golang, 后端]
max_pages: 5
item_settle: 500ms
telegram_chat_id: 42
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "boss", cfg.Site)
	assert.Equal(t, []string{"golang", "后端"}, cfg.Keywords)
	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, 500*time.Millisecond, cfg.ItemSettle.Std())
	assert.Equal(t, 3*time.Second, cfg.PageSettle.Std())
	assert.Equal(t, 30*time.Second, cfg.NavigationTimeout.Std())
	assert.Equal(t, "job_info.xlsx", cfg.Output)
	assert.Equal(t, "default", cfg.SessionID)
	assert.Equal(t, "user_data", cfg.UserDataDir)
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	t.Setenv("JOBCRAWL_SITE", "zhaopin")
	t.Setenv("JOBCRAWL_KEYWORDS", "go, kafka ,")
	t.Setenv("JOBCRAWL_MAX_PAGES", "0")
	t.Setenv("JOBCRAWL_HEADLESS", "true")
	t.Setenv("JOBCRAWL_MANUAL", "1")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	path := writeConfig(t, "site: liepin\nmax_pages: 9\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "zhaopin", cfg.Site)
	assert.Equal(t, []string{"go", "kafka"}, cfg.Keywords)
	assert.Equal(t, 0, cfg.MaxPages)
	assert.True(t, cfg.Headless)
	assert.True(t, cfg.Manual)
	assert.Equal(t, int64(-100123), cfg.TelegramChatID)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err, "explicit path must exist")

	_, err = Load(writeConfig(t, "item_settle: soon\n"))
	assert.Error(t, err)

	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")
	_, err = Load(writeConfig(t, ""))
	assert.Error(t, err)
}

func TestLoad_DefaultPathMayBeMissing(t *testing.T) {
	clearEnv(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "liepin", cfg.Site)
}

func TestSession(t *testing.T) {
	cfg := &Config{SessionID: "alice", Site: "Boss", Keywords: []string{" go ", ""}, MaxPages: 3, Output: "out.csv"}

	s, err := cfg.Session()

	require.NoError(t, err)
	assert.Equal(t, Session{ID: "alice", Site: SiteBoss, Keywords: []string{"go"}, MaxPages: 3, OutputPath: "out.csv"}, s)
	assert.Equal(t, filepath.Join("user_data", "alice"), s.ProfileDir("user_data"))
}

func TestSession_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown site", Config{SessionID: "default", Site: "indeed", Output: "x.xlsx"}},
		{"negative pages", Config{SessionID: "default", Site: "liepin", MaxPages: -1, Output: "x.xlsx"}},
		{"no output", Config{SessionID: "default", Site: "liepin"}},
		{"path in session id", Config{SessionID: "../etc", Site: "liepin", Output: "x.xlsx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Session()
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestSession_WithKeywordsCopies(t *testing.T) {
	s, err := NewSession("default", "liepin", nil, 0, "x.xlsx")
	require.NoError(t, err)

	kws := []string{"golang"}
	s2 := s.WithKeywords(kws)
	kws[0] = "changed"

	assert.Empty(t, s.Keywords)
	assert.Equal(t, []string{"golang"}, s2.Keywords)
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"golang", "后端", "k8s"}, SplitKeywords("golang, 后端,,k8s "))
	assert.Nil(t, SplitKeywords(" , "))
}
