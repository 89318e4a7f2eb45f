package browser

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go-jobcrawl/internal/driver"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

var ErrExecutableNotFound = errors.New("browser executable not found")

type Options struct {
	Headless bool
	// ExecutablePath overrides the bundled chromium. It must exist when set.
	ExecutablePath string
	// ProfileDir holds the persistent profile (logins survive restarts).
	ProfileDir        string
	NavigationTimeout time.Duration
	// QueryTimeout bounds a single text or attribute read.
	QueryTimeout time.Duration
	Cookies      []playwright.OptionalCookie
}

// Browser is the playwright implementation of driver.Driver.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser // only set in fallback mode
	context playwright.BrowserContext
	listing *Page
	opts    Options
	logger  *zap.Logger
}

// CheckExecutable fails with ErrExecutableNotFound when path is set but
// missing.
func CheckExecutable(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrExecutableNotFound, path)
	}
	return nil
}

// Launch starts chromium with a persistent profile. When the persistent
// launch fails (locked or corrupt profile) it falls back to a throwaway
// browser context.
func Launch(opts Options, logger *zap.Logger) (*Browser, error) {
	if err := CheckExecutable(opts.ExecutablePath); err != nil {
		return nil, err
	}
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 30 * time.Second
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = 5 * time.Second
	}

	logger.Info("🚀 Starting browser...", zap.Bool("headless", opts.Headless), zap.String("profile", opts.ProfileDir))
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	b := &Browser{pw: pw, opts: opts, logger: logger}
	if err := b.launchPersistent(); err != nil {
		logger.Warn("⚠️ Persistent profile launch failed, using a fresh context", zap.Error(err))
		if err := b.launchFallback(); err != nil {
			_ = pw.Stop()
			return nil, err
		}
	}

	b.context.SetDefaultNavigationTimeout(ms(opts.NavigationTimeout))
	if len(opts.Cookies) > 0 {
		if err := b.context.AddCookies(opts.Cookies); err != nil {
			logger.Warn("⚠️ Could not add cookies", zap.Error(err))
		} else {
			logger.Info("🍪 Cookies loaded", zap.Int("count", len(opts.Cookies)))
		}
	}

	var page playwright.Page
	if pages := b.context.Pages(); len(pages) > 0 {
		page = pages[0]
	} else if page, err = b.context.NewPage(); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to create listing page: %w", err)
	}
	b.listing = b.wrap(page)

	logger.Info("✅ Browser initialized successfully!")
	return b, nil
}

func (b *Browser) launchPersistent() error {
	if err := os.MkdirAll(b.opts.ProfileDir, 0o755); err != nil {
		return fmt.Errorf("create profile dir: %w", err)
	}
	options := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless:          playwright.Bool(b.opts.Headless),
		Args:              []string{"--start-maximized", "--no-default-browser-check"},
		IgnoreDefaultArgs: []string{"--enable-automation"},
		NoViewport:        playwright.Bool(true),
	}
	if b.opts.ExecutablePath != "" {
		options.ExecutablePath = playwright.String(b.opts.ExecutablePath)
	}
	ctx, err := b.pw.Chromium.LaunchPersistentContext(b.opts.ProfileDir, options)
	if err != nil {
		return err
	}
	b.context = ctx
	return nil
}

func (b *Browser) launchFallback() error {
	options := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.opts.Headless),
		Args:     []string{"--no-default-browser-check"},
	}
	if b.opts.ExecutablePath != "" {
		options.ExecutablePath = playwright.String(b.opts.ExecutablePath)
	}
	browser, err := b.pw.Chromium.Launch(options)
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	ctx, err := browser.NewContext()
	if err != nil {
		_ = browser.Close()
		return fmt.Errorf("could not create browser context: %w", err)
	}
	b.browser = browser
	b.context = ctx
	return nil
}

func (b *Browser) CurrentPage() driver.Page {
	return b.listing
}

func (b *Browser) NewScopedPage() (driver.Page, error) {
	page, err := b.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	return b.wrap(page), nil
}

func (b *Browser) Close() error {
	var errs []error
	if b.context != nil {
		errs = append(errs, b.context.Close())
	}
	if b.browser != nil {
		errs = append(errs, b.browser.Close())
	}
	if b.pw != nil {
		errs = append(errs, b.pw.Stop())
	}
	return errors.Join(errs...)
}

func (b *Browser) wrap(page playwright.Page) *Page {
	return &Page{
		page:         page,
		navTimeout:   ms(b.opts.NavigationTimeout),
		queryTimeout: ms(b.opts.QueryTimeout),
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
