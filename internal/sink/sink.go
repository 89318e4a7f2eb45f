// Package sink persists the accumulated crawl results. Every Persist call
// receives the full result set and rewrites the output from scratch, so
// persisting the same records twice yields the same output.
package sink

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"go-jobcrawl/internal/scraper"
)

// Columns is the output schema, in order.
var Columns = []string{"company", "description", "salary", "location", "url", "scraped_at", "keyword_context"}

const timeLayout = "2006-01-02 15:04:05"

type Sink interface {
	Persist(ctx context.Context, records []scraper.JobRecord) error
}

// PersistError wraps a failed write. The caller's in-memory records are
// untouched and the next Persist retries with the full set.
type PersistError struct {
	Target string
	Err    error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Target, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// Prepare returns the output view of records: stably sorted by company and
// salary rank, then deduplicated by (company, url) keeping the first row of
// the sorted order. The input slice is not modified.
func Prepare(records []scraper.JobRecord) []scraper.JobRecord {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b scraper.JobRecord) int {
		if c := cmp.Compare(a.Company, b.Company); c != 0 {
			return c
		}
		return cmp.Compare(a.SortSalary, b.SortSalary)
	})

	type key struct{ company, url string }
	seen := make(map[key]bool, len(sorted))
	out := make([]scraper.JobRecord, 0, len(sorted))
	for _, r := range sorted {
		k := key{r.Company, r.URL}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// Row renders r in Columns order. SortSalary is never written.
func Row(r scraper.JobRecord) []string {
	return []string{
		r.Company,
		r.Description,
		r.SalaryText,
		r.Location,
		r.URL,
		r.ScrapedAt.Format(timeLayout),
		r.KeywordContext,
	}
}

// Multi persists to every sink in order and joins their errors.
type Multi []Sink

func (m Multi) Persist(ctx context.Context, records []scraper.JobRecord) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Persist(ctx, records); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
