// Package sites maps a configured site to its scraping strategy.
package sites

import (
	"fmt"

	"go-jobcrawl/internal/config"
	"go-jobcrawl/internal/driver"
	"go-jobcrawl/internal/scraper"
	"go-jobcrawl/internal/scraper/boss"
	"go-jobcrawl/internal/scraper/liepin"
	"go-jobcrawl/internal/scraper/zhaopin"

	"go.uber.org/zap"
)

// New builds the strategy for site bound to the listing page.
func New(site config.Site, listing driver.Page, logger *zap.Logger) (scraper.Strategy, error) {
	switch site {
	case config.SiteLiepin:
		return liepin.NewLiepinScraper(listing, logger), nil
	case config.SiteBoss:
		return boss.NewBossScraper(listing, logger), nil
	case config.SiteZhaopin:
		return zhaopin.NewZhaopinScraper(listing, logger), nil
	}
	return nil, fmt.Errorf("%w: no strategy for site %q", config.ErrInvalidSession, site)
}
