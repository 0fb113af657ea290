package linkedin

import (
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/config"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

// Client integra com a LinkedIn Marketing API. Autenticação via bearer
// header; paginação por offset start/count. A API limita cada consulta a
// uma janela de 30 dias.
type Client struct {
	cfg *config.Config
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
	}
}

func (c *Client) Platform() string {
	return domain.PlatformLinkedIn
}

var _ integrator.Client = (*Client)(nil)
