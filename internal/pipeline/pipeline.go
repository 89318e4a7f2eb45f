// Package pipeline turns one detail URL into a JobRecord: pace, open a
// scoped tab, navigate, settle, extract, enrich. Every failure comes back as
// an *ExtractionError so one bad listing never ends the crawl.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go-jobcrawl/internal/annotate"
	"go-jobcrawl/internal/debug"
	"go-jobcrawl/internal/driver"
	"go-jobcrawl/internal/salary"
	"go-jobcrawl/internal/scraper"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultSettle   = 2 * time.Second
	DefaultInterval = time.Second
)

type Options struct {
	// Settle is waited after navigation before extraction. Zero uses
	// DefaultSettle; negative disables the wait.
	Settle time.Duration
	// Interval is the minimum spacing between two items. Zero uses
	// DefaultInterval; negative disables pacing.
	Interval time.Duration
	Keywords []string
	Capturer *debug.Capturer
	Now      func() time.Time
}

type Pipeline struct {
	driver    driver.Driver
	strategy  scraper.Strategy
	annotator *annotate.Annotator
	limiter   *rate.Limiter
	settle    time.Duration
	capturer  *debug.Capturer
	now       func() time.Time
	logger    *zap.Logger
}

func New(d driver.Driver, s scraper.Strategy, opts Options, logger *zap.Logger) *Pipeline {
	settle := opts.Settle
	if settle == 0 {
		settle = DefaultSettle
	}
	interval := opts.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if interval > 0 {
		limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		driver:    d,
		strategy:  s,
		annotator: annotate.New(opts.Keywords),
		limiter:   limiter,
		settle:    settle,
		capturer:  opts.Capturer,
		now:       now,
		logger:    logger,
	}
}

// Process visits url in its own tab and returns the enriched record. The tab
// is closed on every path, including a panic inside the strategy.
func (p *Pipeline) Process(ctx context.Context, url string) (rec scraper.JobRecord, err error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return rec, newExtractionError(url, StagePace, err)
	}

	tab, err := p.driver.NewScopedPage()
	if err != nil {
		return rec, newExtractionError(url, StageOpen, err)
	}
	defer func() {
		if cerr := tab.Close(); cerr != nil {
			p.logger.Debug("close detail tab", zap.String("url", url), zap.Error(cerr))
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			rec = scraper.JobRecord{}
			err = newExtractionError(url, StageExtract, fmt.Errorf("panic: %v", r))
		}
		if err != nil {
			_, _ = p.capturer.Capture(tab, "item_failure")
		}
	}()

	if err := tab.Goto(url); err != nil {
		return rec, newExtractionError(url, StageNavigate, err)
	}
	if err := tab.WaitSettled(); err != nil {
		return rec, newExtractionError(url, StageSettle, err)
	}
	if err := Sleep(ctx, p.settle); err != nil {
		return rec, newExtractionError(url, StageSettle, err)
	}

	fields, err := p.strategy.ExtractDetail(ctx, tab, url)
	if err != nil {
		return rec, newExtractionError(url, StageExtract, err)
	}

	rec = scraper.NewJobRecord(fields, url, p.now())
	rec.SortSalary = salary.Rank(rec.SalaryText)
	rec.KeywordContext, _ = p.annotator.Annotate(rec.Description)
	return rec, nil
}

// Sleep waits d or until ctx is done. Non-positive durations return at once.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
