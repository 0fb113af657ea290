package meta

import (
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/config"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

// Client integra com a Graph API do Meta. Autenticação via access_token na
// query string; paginação via link opaco paging.next.
type Client struct {
	cfg *config.Config
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
	}
}

func (c *Client) Platform() string {
	return domain.PlatformMeta
}

var _ integrator.Client = (*Client)(nil)
