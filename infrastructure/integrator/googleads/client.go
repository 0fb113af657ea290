package googleads

import (
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/config"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

// Client integra com a Google Ads API. Autenticação via bearer header mais o
// developer-token; paginação via nextPageToken. A API segmenta por dia
// independentemente do tamanho da janela pedida.
type Client struct {
	cfg *config.Config
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
	}
}

func (c *Client) Platform() string {
	return domain.PlatformGoogleAds
}

var _ integrator.Client = (*Client)(nil)
