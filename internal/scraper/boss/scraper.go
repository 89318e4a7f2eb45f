package boss

import (
	"context"
	"fmt"

	"go-jobcrawl/internal/driver"
	"go-jobcrawl/internal/frontier"
	"go-jobcrawl/internal/scraper"

	"go.uber.org/zap"
)

const homeURL = "https://www.zhipin.com/"

var (
	searchInputs = []string{".ipt-search"}
	searchSubmit = "button.btn-search"

	linkQuery = scraper.LinkQuery{
		Groups: [][]string{
			{".job-card-wrapper a.job-card-left"},
			{".job-card-wrapper a[href*='/job_detail/']"},
		},
	}

	descriptionSelectors = []string{".job-sec-text"}
	salarySelectors      = []string{".salary"}
	//header link first, sidebar card as fallback
	companySelectors  = []string{".company-info a[ka='job-detail-company_custompage']", ".business-info h4"}
	locationSelectors = []string{".text-desc.text-city", ".location-address"}

	nextSelector  = ".options-pages a.next"
	disabledClass = "disabled"
)

type BossScraper struct {
	page   driver.Page
	logger *zap.Logger
}

func NewBossScraper(page driver.Page, logger *zap.Logger) *BossScraper {
	return &BossScraper{page: page, logger: logger}
}

func (s *BossScraper) Name() string {
	return "Boss"
}

func (s *BossScraper) NavigateHome(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("🏠 Opening Boss Zhipin...", zap.String("url", homeURL))
	if err := s.page.Goto(homeURL); err != nil {
		return fmt.Errorf("failed to load boss home: %w", err)
	}
	return nil
}

func (s *BossScraper) Search(ctx context.Context, keywords []string) (bool, error) {
	return scraper.SubmitSearch(ctx, s.page, searchInputs, searchSubmit, keywords)
}

func (s *BossScraper) ListLinks(ctx context.Context, seen frontier.Set) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	//cards below the fold are lazy loaded
	if err := s.page.Scroll(); err != nil {
		s.logger.Debug("scroll failed", zap.Error(err))
	}
	links, err := scraper.CollectLinks(s.page, homeURL, linkQuery, seen)
	if err != nil {
		return nil, err
	}
	s.logger.Info("📦 Found job links", zap.String("site", s.Name()), zap.Int("new", len(links)))
	return links, nil
}

func (s *BossScraper) ExtractDetail(ctx context.Context, page driver.Page, url string) (scraper.Fields, error) {
	if err := ctx.Err(); err != nil {
		return scraper.Fields{}, err
	}

	var (
		f   scraper.Fields
		err error
	)
	if f.Description, err = scraper.FirstRawText(page, descriptionSelectors...); err != nil {
		return f, err
	}
	if f.SalaryText, err = scraper.FirstText(page, salarySelectors...); err != nil {
		return f, err
	}
	if f.Company, err = scraper.FirstText(page, companySelectors...); err != nil {
		return f, err
	}
	if f.Location, err = scraper.FirstText(page, locationSelectors...); err != nil {
		return f, err
	}
	return f.WithDefaults(), nil
}

func (s *BossScraper) Paginate(ctx context.Context) (bool, error) {
	return scraper.ClickNext(ctx, s.page, nextSelector, disabledClass)
}
