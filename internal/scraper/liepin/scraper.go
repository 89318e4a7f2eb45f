package liepin

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go-jobcrawl/internal/driver"
	"go-jobcrawl/internal/frontier"
	"go-jobcrawl/internal/scraper"

	"go.uber.org/zap"
)

const homeURL = "https://www.liepin.com/zhaopin/"

var (
	searchInputs = []string{"input[data-selector='search-input']"}
	searchSubmit = ".search-btn"

	//card layouts seen across redesigns, newest first
	cardSelectors = []string{".job-list-item", ".job-card-pc-container", "[data-selector='job-card']", ".job-detail-box"}

	descriptionSelectors = []string{".job-intro-content", "section.job-intro", ".content-content", "[data-selector='job-intro-content']", ".job-item-container", ".job-description"}
	headerSelectors      = []string{".job-apply-container", ".job-title-box", ".name-box"}
	companySelectors     = []string{".company-info-container .company-name", ".title-info h3 a", ".job-company-name", ".company-card .name"}
	locationSelectors    = []string{".job-dq", ".job-area", ".job-properties span"}

	nextSelector = ".ant-pagination-next:not([aria-disabled='true'])"

	//salary sits inside the header block next to title and tags
	salaryRegex = regexp.MustCompile(`(\d+-\d+[kK万]|面议)`)
)

type LiepinScraper struct {
	page   driver.Page
	logger *zap.Logger
}

func NewLiepinScraper(page driver.Page, logger *zap.Logger) *LiepinScraper {
	return &LiepinScraper{page: page, logger: logger}
}

func (s *LiepinScraper) Name() string {
	return "Liepin"
}

func (s *LiepinScraper) NavigateHome(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.logger.Info("🏠 Opening Liepin search page...", zap.String("url", homeURL))
	if err := s.page.Goto(homeURL); err != nil {
		return fmt.Errorf("failed to load liepin search page: %w", err)
	}
	return nil
}

func (s *LiepinScraper) Search(ctx context.Context, keywords []string) (bool, error) {
	return scraper.SubmitSearch(ctx, s.page, searchInputs, searchSubmit, keywords)
}

func (s *LiepinScraper) ListLinks(ctx context.Context, seen frontier.Set) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.page.Scroll(); err != nil {
		s.logger.Debug("scroll failed", zap.Error(err))
	}

	groups := make([][]string, 0, len(cardSelectors))
	for _, card := range cardSelectors {
		groups = append(groups, []string{card + " a[href*='/job/']"})
	}
	links, err := scraper.CollectLinks(s.page, homeURL, scraper.LinkQuery{
		Groups: groups,
		Keep: func(url string) bool {
			return strings.Contains(url, "/job/")
		},
	}, seen)
	if err != nil {
		return nil, err
	}
	s.logger.Info("📦 Found job links", zap.String("site", s.Name()), zap.Int("new", len(links)))
	return links, nil
}

func (s *LiepinScraper) ExtractDetail(ctx context.Context, page driver.Page, url string) (scraper.Fields, error) {
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
	if f.SalaryText, err = scraper.FirstMatch(page, salaryRegex, headerSelectors...); err != nil {
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

func (s *LiepinScraper) Paginate(ctx context.Context) (bool, error) {
	return scraper.ClickNext(ctx, s.page, nextSelector, "")
}
