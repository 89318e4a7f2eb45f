package zhaopin

import (
	"context"
	"fmt"

	"go-jobcrawl/internal/driver"
	"go-jobcrawl/internal/frontier"
	"go-jobcrawl/internal/scraper"

	"go.uber.org/zap"
)

const homeURL = "https://sou.zhaopin.com/"

var (
	searchInputs = []string{".search-box__input"}
	searchSubmit = ".search-box__button"

	linkQuery = scraper.LinkQuery{
		Groups: [][]string{{".joblist-box__item .jobinfo__name a"}},
	}

	descriptionSelectors = []string{".describtion__detail-content"}
	salarySelectors      = []string{".summary-plane__salary"}
	companySelectors     = []string{".company-name"}
	locationSelectors    = []string{".summary-plane__info-box .summary-plane__info-text"}

	nextSelector  = ".soupager__btn:has-text('下一页')"
	disabledClass = "soupager__btn--disable"
)

type ZhaopinScraper struct {
	page   driver.Page
	logger *zap.Logger
}

func NewZhaopinScraper(page driver.Page, logger *zap.Logger) *ZhaopinScraper {
	return &ZhaopinScraper{page: page, logger: logger}
}

func (s *ZhaopinScraper) Name() string {
	return "Zhaopin"
}

func (s *ZhaopinScraper) NavigateHome(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("🏠 Opening Zhaopin...", zap.String("url", homeURL))
	if err := s.page.Goto(homeURL); err != nil {
		return fmt.Errorf("failed to load zhaopin home: %w", err)
	}
	return nil
}

func (s *ZhaopinScraper) Search(ctx context.Context, keywords []string) (bool, error) {
	return scraper.SubmitSearch(ctx, s.page, searchInputs, searchSubmit, keywords)
}

func (s *ZhaopinScraper) ListLinks(ctx context.Context, seen frontier.Set) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
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

func (s *ZhaopinScraper) ExtractDetail(ctx context.Context, page driver.Page, url string) (scraper.Fields, error) {
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

func (s *ZhaopinScraper) Paginate(ctx context.Context) (bool, error) {
	return scraper.ClickNext(ctx, s.page, nextSelector, disabledClass)
}
