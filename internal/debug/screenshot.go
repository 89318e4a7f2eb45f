package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go-jobcrawl/internal/driver"

	"go.uber.org/zap"
)

const DefaultDir = "logs/screenshots"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Capturer saves debug screenshots of pages that failed to yield data.
// A nil *Capturer is valid and captures nothing.
type Capturer struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

func NewCapturer(dir string, logger *zap.Logger) (*Capturer, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create screenshot dir: %w", err)
	}
	return &Capturer{dir: dir, logger: logger, now: time.Now}, nil
}

// Capture writes <dir>/<name>_<timestamp>.png and returns the path.
func (c *Capturer) Capture(page driver.Page, name string) (string, error) {
	if c == nil || page == nil {
		return "", nil
	}
	name = unsafeName.ReplaceAllString(name, "_")
	path := filepath.Join(c.dir, fmt.Sprintf("%s_%s.png", name, c.now().Format("2006-01-02_15-04-05")))

	if err := page.Screenshot(path); err != nil {
		c.logger.Warn("⚠️ Failed to capture screenshot", zap.String("name", name), zap.Error(err))
		return "", err
	}
	c.logger.Info("📸 Screenshot saved", zap.String("path", path))
	return path, nil
}
