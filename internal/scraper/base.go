// Define the contract every job site strategy implements
// Keep the crawl loop free of site-specific branching

package scraper

import (
	"context"
	"time"

	"go-jobcrawl/internal/driver"
	"go-jobcrawl/internal/frontier"
)

// Defaults written when no selector candidate matches. Absence is data.
const (
	UnknownCompany   = "unknown company"
	NegotiableSalary = "negotiable"
	UnknownLocation  = "unknown location"
)

// Fields is what a strategy extracts from one detail page.
type Fields struct {
	Company     string
	Description string
	SalaryText  string
	Location    string
}

// WithDefaults fills empty fields with the sentinel values.
func (f Fields) WithDefaults() Fields {
	if f.Company == "" {
		f.Company = UnknownCompany
	}
	if f.SalaryText == "" {
		f.SalaryText = NegotiableSalary
	}
	if f.Location == "" {
		f.Location = UnknownLocation
	}
	return f
}

// JobRecord is one extracted listing. URL identifies it.
type JobRecord struct {
	Company        string
	Description    string
	SalaryText     string
	Location       string
	URL            string
	ScrapedAt      time.Time
	SortSalary     int // ordering only, never written out
	KeywordContext string
}

// NewJobRecord stamps extracted fields with their URL and scrape time.
func NewJobRecord(f Fields, url string, scrapedAt time.Time) JobRecord {
	return JobRecord{
		Company:     f.Company,
		Description: f.Description,
		SalaryText:  f.SalaryText,
		Location:    f.Location,
		URL:         url,
		ScrapedAt:   scrapedAt,
	}
}

// Strategy is the per-site navigation and extraction logic. A strategy owns
// the listing page it was built with; detail pages are handed in by the caller.
type Strategy interface {
	// Name is the site name shown in logs (Liepin, Boss, Zhaopin, ...)
	Name() string

	// NavigateHome opens the site's search/listing entry point
	NavigateHome(ctx context.Context) error

	// Search submits the keywords. Best effort: false with a nil error means
	// the search control was not found and the page was left unchanged.
	Search(ctx context.Context, keywords []string) (bool, error)

	// ListLinks returns absolute detail URLs on the current listing page that
	// are not in seen, without repeats, in document order. No matches is an
	// empty slice, not an error.
	ListLinks(ctx context.Context, seen frontier.Set) ([]string, error)

	// ExtractDetail reads the fields from a freshly navigated detail page.
	// Missing fields come back as defaults; only driver failures are errors.
	ExtractDetail(ctx context.Context, page driver.Page, url string) (Fields, error)

	// Paginate activates the "next page" control. False means there is no
	// further page; that is the normal end of a crawl.
	Paginate(ctx context.Context) (bool, error)
}
