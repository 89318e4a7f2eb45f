// Load envs from .env
// Load YAML config, env vars override YAML
// Provide default values
// CLI flags are applied on top by cmd/jobcrawl

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "configs/config.yaml"

// Duration reads Go duration strings ("2s", "500ms") from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	//Crawl session
	Site      string   `yaml:"site"`
	Keywords  []string `yaml:"keywords"`
	Output    string   `yaml:"output"`
	MaxPages  int      `yaml:"max_pages"`
	SessionID string   `yaml:"session"`
	// Manual asks before every listing page instead of paginating alone.
	Manual bool `yaml:"manual"`

	//Browser
	Headless          bool     `yaml:"headless"`
	BrowserPath       string   `yaml:"browser_path"`
	UserDataDir       string   `yaml:"user_data_dir"`
	CookiesPath       string   `yaml:"cookies_path"`
	NavigationTimeout Duration `yaml:"navigation_timeout"`

	//Pacing
	ItemSettle   Duration `yaml:"item_settle"`
	ItemInterval Duration `yaml:"item_interval"`
	PageSettle   Duration `yaml:"page_settle"`

	//Debug and logging
	DebugScreenshots bool   `yaml:"debug_screenshots"`
	ScreenshotDir    string `yaml:"screenshot_dir"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`

	//Optional integrations
	Listen         string `yaml:"listen"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
}

// Load reads .env, then the YAML file at path, then environment overrides,
// then fills defaults. An empty path reads DefaultPath and tolerates its
// absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("could not read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	envString("JOBCRAWL_SITE", &c.Site)
	envString("JOBCRAWL_OUTPUT", &c.Output)
	envString("JOBCRAWL_SESSION", &c.SessionID)
	envString("JOBCRAWL_BROWSER_PATH", &c.BrowserPath)
	envString("JOBCRAWL_COOKIES_PATH", &c.CookiesPath)
	envString("JOBCRAWL_LISTEN", &c.Listen)
	envString("JOBCRAWL_LOG_LEVEL", &c.LogLevel)
	envString("TELEGRAM_BOT_TOKEN", &c.TelegramToken)
	envString("DATABASE_URL", &c.DatabaseURL)

	if kw := os.Getenv("JOBCRAWL_KEYWORDS"); kw != "" {
		c.Keywords = SplitKeywords(kw)
	}
	if v := os.Getenv("JOBCRAWL_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid JOBCRAWL_MAX_PAGES: %w", err)
		}
		c.MaxPages = n
	}
	if v := os.Getenv("JOBCRAWL_MANUAL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid JOBCRAWL_MANUAL: %w", err)
		}
		c.Manual = b
	}
	if v := os.Getenv("JOBCRAWL_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid JOBCRAWL_HEADLESS: %w", err)
		}
		c.Headless = b
	}
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		c.TelegramChatID = id
	}
	return nil
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) applyDefaults() {
	if c.Site == "" {
		c.Site = string(SiteLiepin)
	}
	if c.Output == "" {
		c.Output = "job_info.xlsx"
	}
	if c.SessionID == "" {
		c.SessionID = "default"
	}
	if c.UserDataDir == "" {
		c.UserDataDir = "user_data"
	}
	if c.NavigationTimeout == 0 {
		c.NavigationTimeout = Duration(30 * time.Second)
	}
	if c.ItemSettle == 0 {
		c.ItemSettle = Duration(2 * time.Second)
	}
	if c.ItemInterval == 0 {
		c.ItemInterval = Duration(time.Second)
	}
	if c.PageSettle == 0 {
		c.PageSettle = Duration(3 * time.Second)
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = "logs/screenshots"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "console"
	}
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Session validates the crawl parameters and freezes them.
func (c *Config) Session() (Session, error) {
	return NewSession(c.SessionID, c.Site, c.Keywords, c.MaxPages, c.Output)
}

// SplitKeywords splits a comma separated list, trimming blanks.
func SplitKeywords(s string) []string {
	var out []string
	for _, kw := range strings.Split(s, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
