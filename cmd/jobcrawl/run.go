package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobcrawl/internal/browser"
	"go-jobcrawl/internal/config"
	"go-jobcrawl/internal/control"
	"go-jobcrawl/internal/crawl"
	"go-jobcrawl/internal/debug"
	"go-jobcrawl/internal/logging"
	"go-jobcrawl/internal/pipeline"
	"go-jobcrawl/internal/reporter"
	"go-jobcrawl/internal/scraper/sites"
	"go-jobcrawl/internal/sink"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

func run(ctx context.Context, cfg *config.Config, preconfirmed bool) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat == "console")
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	session, err := cfg.Session()
	if err != nil {
		return err
	}
	console := crawl.NewConsole(os.Stdin, os.Stdout)
	interactive := isTerminal(os.Stdin)
	if len(session.Keywords) == 0 && interactive && !preconfirmed {
		kws, err := console.PromptKeywords(ctx)
		if err != nil {
			return err
		}
		session = session.WithKeywords(kws)
	}
	logger.Info("🔧 Session ready",
		zap.String("site", string(session.Site)),
		zap.String("session", session.ID),
		zap.Strings("keywords", session.Keywords),
		zap.Int("max_pages", session.MaxPages),
		zap.String("output", session.OutputPath))

	var cookies []playwright.OptionalCookie
	if cfg.CookiesPath != "" {
		if cookies, err = browser.LoadCookies(cfg.CookiesPath); err != nil {
			logger.Warn("⚠️ Could not load cookies, continuing without them", zap.Error(err))
		}
	}

	b, err := browser.Launch(browser.Options{
		Headless:          cfg.Headless,
		ExecutablePath:    cfg.BrowserPath,
		ProfileDir:        session.ProfileDir(cfg.UserDataDir),
		NavigationTimeout: cfg.NavigationTimeout.Std(),
		Cookies:           cookies,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			logger.Warn("⚠️ Browser did not close cleanly", zap.Error(err))
		}
	}()

	listing := b.CurrentPage()
	strategy, err := sites.New(session.Site, listing, logger)
	if err != nil {
		return err
	}

	var capturer *debug.Capturer
	if cfg.DebugScreenshots {
		if capturer, err = debug.NewCapturer(cfg.ScreenshotDir, logger); err != nil {
			logger.Warn("⚠️ Debug screenshots disabled", zap.Error(err))
		}
	}

	out, closeSinks, err := openSinks(ctx, cfg, session, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	notifier := reporter.Multi{reporter.NewLog(logger)}
	if cfg.TelegramEnabled() {
		tg, err := reporter.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, strategy.Name(), logger)
		if err != nil {
			logger.Warn("⚠️ Telegram notifications disabled", zap.Error(err))
		} else {
			notifier = append(notifier, tg)
		}
	}

	var (
		observer crawl.Observer
		remote   crawl.ReadyGate
	)
	if cfg.Listen != "" {
		srv := control.New(strategy.Name(), logger)
		if err := srv.Start(cfg.Listen); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		observer = srv
		remote = srv
	}
	gate := readyGate(interactive, preconfirmed, console, remote)
	if gate == nil {
		logger.Warn("⚠️ stdin is not a terminal and no --listen address, starting without confirmation")
		gate = crawl.Preconfirmed{}
	}

	var stepper crawl.Stepper
	if cfg.Manual {
		stepper = crawl.ConsoleStepper{Console: console}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc := pipeline.New(b, strategy, pipeline.Options{
		Settle:   cfg.ItemSettle.Std(),
		Interval: cfg.ItemInterval.Std(),
		Keywords: session.Keywords,
		Capturer: capturer,
	}, logger)
	loop := crawl.New(strategy, listing, proc, out, crawl.Options{
		MaxPages:   session.MaxPages,
		PageSettle: cfg.PageSettle.Std(),
		Notifier:   notifier,
		Observer:   observer,
		Capturer:   capturer,
		Stepper:    stepper,
	}, logger)

	if err := loop.Start(ctx, gate, session.Keywords); err != nil {
		if ctx.Err() != nil {
			logger.Info("🛑 Interrupted before crawling started")
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", strategy.Name(), err)
	}

	summary := loop.Run(ctx)
	notifier.Finished(summary.String())
	logger.Info("✅ Crawl finished",
		zap.Int("records", len(loop.Records())),
		zap.String("output", session.OutputPath),
		zap.Stringer("summary", summary))
	return nil
}

// readyGate picks what the crawl waits for before starting. Stdin only
// counts when it is a terminal. Nil means nothing can confirm.
func readyGate(interactive, preconfirmed bool, console *crawl.Console, remote crawl.ReadyGate) crawl.ReadyGate {
	if preconfirmed {
		return crawl.Preconfirmed{}
	}
	var gates crawl.AnyGate
	if interactive {
		gates = append(gates, crawl.StdinGate{Console: console})
	}
	if remote != nil {
		gates = append(gates, remote)
	}
	if len(gates) == 0 {
		return nil
	}
	return gates
}

// openSinks returns the file sink, mirrored to postgres when configured.
func openSinks(ctx context.Context, cfg *config.Config, session config.Session, logger *zap.Logger) (sink.Sink, func(), error) {
	file := sink.NewFileSink(session.OutputPath, logger)
	if cfg.DatabaseURL == "" {
		return file, func() {}, nil
	}
	pg, err := sink.ConnectPostgres(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, err
	}
	return sink.Multi{file, pg}, pg.Close, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
