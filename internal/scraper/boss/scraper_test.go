package boss

import (
	"context"
	"testing"

	"go-jobcrawl/internal/driver/drivertest"
	"go-jobcrawl/internal/frontier"
	"go-jobcrawl/internal/scraper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBossScraper_ListLinks(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string][]string
		seen  []string
		want  []string
	}{
		{
			name: "card layout",
			attrs: map[string][]string{
				drivertest.Key(".job-card-wrapper a.job-card-left", "href"): {"/job_detail/a.html", "/job_detail/b.html", "/job_detail/c.html"},
			},
			seen: []string{"https://www.zhipin.com/job_detail/b.html"},
			want: []string{"https://www.zhipin.com/job_detail/a.html", "https://www.zhipin.com/job_detail/c.html"},
		},
		{
			name: "fallback anchors",
			attrs: map[string][]string{
				drivertest.Key(".job-card-wrapper a[href*='/job_detail/']", "href"): {"/job_detail/z.html#apply"},
			},
			want: []string{"https://www.zhipin.com/job_detail/z.html"},
		},
		{
			name: "empty listing",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := drivertest.NewPage(drivertest.Content{Attrs: tt.attrs})
			s := NewBossScraper(page, zap.NewNop())

			links, err := s.ListLinks(context.Background(), frontier.NewSet(tt.seen...))

			require.NoError(t, err)
			assert.Equal(t, tt.want, links)
		})
	}
}

func TestBossScraper_ExtractDetail_SidebarFallback(t *testing.T) {
	s := NewBossScraper(drivertest.NewPage(drivertest.Content{}), zap.NewNop())
	detail := drivertest.NewPage(drivertest.Content{Texts: map[string]string{
		".job-sec-text":     "岗位职责：\n维护Go微服务",
		".salary":           "15-25K·13薪",
		".business-info h4": "Example Inc",
		".location-address": "北京 朝阳区",
	}})

	f, err := s.ExtractDetail(context.Background(), detail, "https://www.zhipin.com/job_detail/a.html")

	require.NoError(t, err)
	assert.Equal(t, "Example Inc", f.Company)
	assert.Equal(t, "15-25K·13薪", f.SalaryText)
	assert.Equal(t, "北京 朝阳区", f.Location)
	assert.Equal(t, "岗位职责：\n维护Go微服务", f.Description)
}

func TestBossScraper_ExtractDetail_ClosedTab(t *testing.T) {
	s := NewBossScraper(drivertest.NewPage(drivertest.Content{}), zap.NewNop())
	detail := drivertest.NewPage(drivertest.Content{})
	require.NoError(t, detail.Close())

	_, err := s.ExtractDetail(context.Background(), detail, "https://www.zhipin.com/job_detail/a.html")

	assert.ErrorIs(t, err, drivertest.ErrClosed)
}

func TestBossScraper_Paginate_LastPage(t *testing.T) {
	page := drivertest.NewPage(drivertest.Content{Attrs: map[string][]string{
		drivertest.Key(nextSelector, "class"): {"ui-icon-arrow-right disabled"},
	}})
	s := NewBossScraper(page, zap.NewNop())

	ok, err := s.Paginate(context.Background())

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, page.Clicks)
}

func TestBossScraper_Defaults(t *testing.T) {
	s := NewBossScraper(drivertest.NewPage(drivertest.Content{}), zap.NewNop())

	f, err := s.ExtractDetail(context.Background(), drivertest.NewPage(drivertest.Content{}), "https://www.zhipin.com/job_detail/x.html")

	require.NoError(t, err)
	assert.Equal(t, scraper.NegotiableSalary, f.SalaryText)
	assert.Equal(t, scraper.UnknownCompany, f.Company)
	assert.Empty(t, f.Description)
}
