package sites

import (
	"testing"

	"go-jobcrawl/internal/config"
	"go-jobcrawl/internal/driver/drivertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	names := map[config.Site]string{
		config.SiteLiepin:  "Liepin",
		config.SiteBoss:    "Boss",
		config.SiteZhaopin: "Zhaopin",
	}
	for _, site := range config.Sites {
		t.Run(string(site), func(t *testing.T) {
			s, err := New(site, drivertest.NewPage(drivertest.Content{}), zap.NewNop())
			require.NoError(t, err)
			assert.Equal(t, names[site], s.Name())
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("indeed", drivertest.NewPage(drivertest.Content{}), zap.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidSession)
}
