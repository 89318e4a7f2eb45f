// Package crawl drives one crawl session: discover detail links on the
// current listing page, extract each one, persist everything gathered so far,
// then move to the next listing page until the site runs out of pages.
package crawl

import (
	"context"
	"errors"
	"time"

	"go-jobcrawl/internal/debug"
	"go-jobcrawl/internal/driver"
	"go-jobcrawl/internal/frontier"
	"go-jobcrawl/internal/pipeline"
	"go-jobcrawl/internal/reporter"
	"go-jobcrawl/internal/scraper"
	"go-jobcrawl/internal/sink"

	"go.uber.org/zap"
)

const DefaultPageSettle = 3 * time.Second

// Processor turns a detail URL into a record. *pipeline.Pipeline is the
// production implementation.
type Processor interface {
	Process(ctx context.Context, url string) (scraper.JobRecord, error)
}

type Options struct {
	// MaxPages bounds the listing pages visited; 0 means unbounded.
	MaxPages int
	// PageSettle is waited after a successful pagination. Zero uses
	// DefaultPageSettle; negative disables the wait.
	PageSettle time.Duration
	Notifier   reporter.Notifier
	Observer   Observer
	Capturer   *debug.Capturer
	// Stepper switches the loop to manual mode: the operator picks crawl,
	// next page or quit before every listing page.
	Stepper Stepper
}

type Loop struct {
	strategy  scraper.Strategy
	listing   driver.Page
	processor Processor
	sink      sink.Sink
	frontier  *frontier.Frontier
	notifier  reporter.Notifier
	observer  Observer
	capturer  *debug.Capturer
	stepper   Stepper
	logger    *zap.Logger

	maxPages   int
	pageSettle time.Duration

	records []scraper.JobRecord
	status  Status
}

func New(strategy scraper.Strategy, listing driver.Page, processor Processor, out sink.Sink, opts Options, logger *zap.Logger) *Loop {
	pageSettle := opts.PageSettle
	if pageSettle == 0 {
		pageSettle = DefaultPageSettle
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = reporter.NewLog(logger)
	}
	return &Loop{
		strategy:   strategy,
		listing:    listing,
		processor:  processor,
		sink:       out,
		frontier:   frontier.New(),
		notifier:   notifier,
		observer:   opts.Observer,
		capturer:   opts.Capturer,
		stepper:    opts.Stepper,
		logger:     logger,
		maxPages:   opts.MaxPages,
		pageSettle: pageSettle,
	}
}

// Start opens the site, submits the search and then waits at the ready gate
// so the operator can log in, pass verification and adjust filters. A failed
// or missing search is logged only.
func (l *Loop) Start(ctx context.Context, gate ReadyGate, keywords []string) error {
	if err := l.strategy.NavigateHome(ctx); err != nil {
		return err
	}
	if len(keywords) == 0 {
		l.logger.Info("🔍 No keywords, crawling the default listing")
	} else {
		ok, err := l.strategy.Search(ctx, keywords)
		switch {
		case err != nil:
			l.logger.Warn("⚠️ Search failed, search manually before confirming", zap.Error(err))
		case !ok:
			l.logger.Warn("⚠️ Search box not found, search manually before confirming")
		default:
			l.logger.Info("🔍 Search submitted", zap.Strings("keywords", keywords))
		}
	}

	if err := gate.Wait(ctx); err != nil {
		return err
	}
	if err := l.listing.BringToFront(); err != nil {
		l.logger.Debug("bring listing tab to front", zap.Error(err))
	}
	return nil
}

// Run executes the state machine until Done. It never fails: per-item and
// persistence errors are counted in the summary.
func (l *Loop) Run(ctx context.Context) Summary {
	var (
		summary Summary
		links   []string
		page    int // successful paginations so far
		dirty   bool
	)

	l.transition(Discovering, page)
	for l.status.State != Done {
		if ctx.Err() != nil {
			summary.Interrupted = true
			l.logger.Warn("🛑 Crawl interrupted", zap.Error(ctx.Err()))
			l.transition(Done, page)
			break
		}

		switch l.status.State {
		case Discovering:
			if l.stepper != nil {
				step, err := l.stepper.Next(ctx, page+1)
				if err != nil && ctx.Err() != nil {
					continue
				}
				if err != nil {
					l.logger.Warn("⚠️ Could not read the next step, stopping", zap.Error(err))
					step = StepQuit
				}
				switch step {
				case StepQuit:
					l.logger.Info("🛑 Stopped by operator")
					l.transition(Done, page)
					continue
				case StepNext:
					l.transition(Paginating, page)
					continue
				}
			} else if l.maxPages > 0 && page >= l.maxPages {
				l.logger.Info("📄 Page limit reached", zap.Int("max_pages", l.maxPages))
				l.transition(Done, page)
				continue
			}
			summary.Pages++
			links = l.discover(ctx, page)
			if len(links) == 0 {
				l.logger.Info("📭 No new links on this page", zap.Int("page", page+1))
				l.transition(l.afterPage(), page)
				continue
			}
			l.transition(Extracting, page)

		case Extracting:
			for i, url := range links {
				if ctx.Err() != nil {
					break
				}
				l.logger.Info("🔎 Extracting", zap.Int("item", i+1), zap.Int("of", len(links)), zap.String("url", url))
				rec, err := l.processor.Process(ctx, url)
				if err != nil {
					l.itemFailed(url, err)
					continue
				}
				l.records = append(l.records, rec)
				l.frontier.MarkSeen(url)
				l.status.Records = len(l.records)
			}
			dirty = !l.persist(ctx, page+1)
			l.transition(l.afterPage(), page)

		case Paginating:
			ok, err := l.strategy.Paginate(ctx)
			if l.stepper != nil && (err != nil || !ok) {
				l.logger.Warn("⚠️ Could not turn the page, staying here", zap.Error(err))
				l.transition(Discovering, page)
				continue
			}
			if err != nil {
				l.logger.Warn("⚠️ Pagination failed, stopping", zap.Error(err))
				l.transition(Done, page)
				continue
			}
			if !ok {
				l.logger.Info("🏁 No next page")
				l.transition(Done, page)
				continue
			}
			page++
			if err := pipeline.Sleep(ctx, l.pageSettle); err != nil {
				continue
			}
			l.transition(Discovering, page)
		}
	}

	if dirty {
		l.logger.Info("💾 Saving results before exit")
		l.persist(ctx, page+1)
	}

	summary.Records = len(l.records)
	summary.Failures = l.status.Failures
	summary.PersistErrors = l.status.PersistErrors
	summary.State = l.status.State
	return summary
}

// Records returns the accumulated results in discovery order.
func (l *Loop) Records() []scraper.JobRecord {
	return l.records
}

func (l *Loop) discover(ctx context.Context, page int) []string {
	links := l.listLinks(ctx)
	if len(links) > 0 || page > 0 {
		return links
	}

	// first page can come up blank while a verification overlay is dismissed
	l.logger.Warn("⚠️ No links on the first page, reloading once")
	if err := l.listing.Reload(); err != nil {
		l.logger.Warn("⚠️ Reload failed", zap.Error(err))
	} else if err := l.listing.WaitSettled(); err != nil {
		l.logger.Debug("wait after reload", zap.Error(err))
	}
	links = l.listLinks(ctx)
	if len(links) == 0 {
		_, _ = l.capturer.Capture(l.listing, "empty_listing")
	}
	return links
}

func (l *Loop) listLinks(ctx context.Context) []string {
	links, err := l.strategy.ListLinks(ctx, l.frontier.Set())
	if err != nil {
		l.logger.Warn("⚠️ Failed to list job links", zap.String("site", l.strategy.Name()), zap.Error(err))
		return nil
	}
	return l.frontier.FilterNew(links)
}

func (l *Loop) itemFailed(url string, err error) {
	l.status.Failures++
	fields := []zap.Field{zap.String("url", url), zap.Error(err)}
	var extractErr *pipeline.ExtractionError
	if errors.As(err, &extractErr) {
		fields = append(fields, zap.String("stage", string(extractErr.Stage)))
	}
	l.logger.Warn("⚠️ Skipping job", fields...)
}

// persist writes the full accumulated set. The write is not tied to ctx so
// an interrupt still leaves a complete file behind.
func (l *Loop) persist(ctx context.Context, page int) bool {
	err := l.sink.Persist(context.WithoutCancel(ctx), l.records)
	if err != nil {
		l.status.PersistErrors++
		l.status.LastPersistError = err.Error()
		l.notifier.PersistFailed(err)
		l.observe()
		return false
	}
	l.status.LastPersistError = ""
	l.notifier.PageSaved(page, len(l.records))
	l.observe()
	return true
}

// afterPage is where the loop goes once a listing page is done. In manual
// mode the operator decides.
func (l *Loop) afterPage() State {
	if l.stepper != nil {
		return Discovering
	}
	return Paginating
}

func (l *Loop) transition(next State, page int) {
	l.status.State = next
	l.status.Page = page + 1
	l.observe()
}

func (l *Loop) observe() {
	if l.observer != nil {
		l.observer.Observe(l.status)
	}
}
