package meta

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// RefreshToken troca o token atual por um novo token de longa duração.
// O Meta não rotaciona refresh token: o próprio access token é a moeda de troca.
func (c *Client) RefreshToken(integration *domain.Integration) (*domain.RefreshedTokens, error) {
	params := url.Values{}
	params.Add("grant_type", "fb_exchange_token")
	params.Add("client_id", c.cfg.Meta.AppID)
	params.Add("client_secret", c.cfg.Meta.AppSecret)
	params.Add("fb_exchange_token", integration.AccessToken)

	requestURL := fmt.Sprintf("%s/oauth/access_token?%s", c.cfg.Meta.URL, params.Encode())

	req, err := http.NewRequest(http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}

	body, syncErr := integrator.DoRequest(req, domain.PlatformMeta, integration.ID)
	if syncErr != nil {
		return nil, syncErr
	}

	var response tokenResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta do token: %w", err)
	}

	if response.AccessToken == "" {
		return nil, fmt.Errorf("resposta de token sem access_token")
	}

	return &domain.RefreshedTokens{
		AccessToken: response.AccessToken,
		ExpiresAt:   integrator.CalculateTokenExpiration(response.ExpiresIn),
	}, nil
}
