// Package reporter tells the operator how a crawl is going. Notifications are
// best effort: a failed delivery is logged and never affects the crawl.
package reporter

import "go.uber.org/zap"

type Notifier interface {
	// PageSaved is called after the results through listing page `page` were persisted.
	PageSaved(page, records int)
	PersistFailed(err error)
	Finished(summary string)
}

// Log writes notifications to the structured log.
type Log struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) PageSaved(page, records int) {
	l.logger.Info("💾 Page saved", zap.Int("page", page), zap.Int("records", records))
}

func (l *Log) PersistFailed(err error) {
	l.logger.Error("❌ Failed to save results", zap.Error(err))
}

func (l *Log) Finished(summary string) {
	l.logger.Info("🏁 Crawl finished", zap.String("summary", summary))
}

// Multi fans out to every notifier. Nil entries are skipped.
type Multi []Notifier

func (m Multi) PageSaved(page, records int) {
	for _, n := range m {
		if n != nil {
			n.PageSaved(page, records)
		}
	}
}

func (m Multi) PersistFailed(err error) {
	for _, n := range m {
		if n != nil {
			n.PersistFailed(err)
		}
	}
}

func (m Multi) Finished(summary string) {
	for _, n := range m {
		if n != nil {
			n.Finished(summary)
		}
	}
}
