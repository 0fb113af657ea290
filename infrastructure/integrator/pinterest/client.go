package pinterest

import (
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/config"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

// Client integra com a Pinterest Ads API. Autenticação via bearer header;
// paginação por bookmark opaco.
type Client struct {
	cfg *config.Config
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
	}
}

func (c *Client) Platform() string {
	return domain.PlatformPinterest
}

var _ integrator.Client = (*Client)(nil)
