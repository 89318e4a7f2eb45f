package zhaopin

import (
	"context"
	"testing"

	"go-jobcrawl/internal/driver/drivertest"
	"go-jobcrawl/internal/frontier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestZhaopinScraper_Flow(t *testing.T) {
	listing := drivertest.NewPage(drivertest.Content{
		Texts: map[string]string{searchInputs[0]: "", nextSelector: "下一页"},
		Attrs: map[string][]string{
			drivertest.Key(".joblist-box__item .jobinfo__name a", "href"): {
				"https://jobs.zhaopin.com/CC1.htm",
				"https://jobs.zhaopin.com/CC2.htm",
			},
		},
	})
	s := NewZhaopinScraper(listing, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.NavigateHome(ctx))
	assert.Equal(t, []string{homeURL}, listing.Visited)

	ok, err := s.Search(ctx, []string{"golang"})
	require.NoError(t, err)
	assert.True(t, ok)

	links, err := s.ListLinks(ctx, frontier.NewSet())
	require.NoError(t, err)
	assert.Len(t, links, 2)

	ok, err = s.Paginate(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{searchSubmit, nextSelector}, listing.Clicks)
}

func TestZhaopinScraper_ExtractDetail(t *testing.T) {
	s := NewZhaopinScraper(drivertest.NewPage(drivertest.Content{}), zap.NewNop())
	detail := drivertest.NewPage(drivertest.Content{Texts: map[string]string{
		".describtion__detail-content":                       "熟悉Go语言。有Kubernetes经验优先！",
		".summary-plane__salary":                             "1.5万-2万",
		".company-name":                                      "某网络公司",
		".summary-plane__info-box .summary-plane__info-text": "深圳",
	}})

	f, err := s.ExtractDetail(context.Background(), detail, "https://jobs.zhaopin.com/CC1.htm")

	require.NoError(t, err)
	assert.Equal(t, "某网络公司", f.Company)
	assert.Equal(t, "1.5万-2万", f.SalaryText)
	assert.Equal(t, "深圳", f.Location)
}

func TestZhaopinScraper_Paginate_Disabled(t *testing.T) {
	page := drivertest.NewPage(drivertest.Content{Attrs: map[string][]string{
		drivertest.Key(nextSelector, "class"): {"soupager__btn soupager__btn--disable"},
	}})
	s := NewZhaopinScraper(page, zap.NewNop())

	ok, err := s.Paginate(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
}
