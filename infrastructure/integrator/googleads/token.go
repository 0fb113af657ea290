package googleads

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// RefreshToken renova o access token no endpoint OAuth do Google.
// O refresh token do Google não rotaciona.
func (c *Client) RefreshToken(integration *domain.Integration) (*domain.RefreshedTokens, error) {
	form := url.Values{}
	form.Add("grant_type", "refresh_token")
	form.Add("client_id", c.cfg.GoogleAds.ClientID)
	form.Add("client_secret", c.cfg.GoogleAds.ClientSecret)
	form.Add("refresh_token", integration.RefreshToken)

	req, err := http.NewRequest(http.MethodPost, c.cfg.GoogleAds.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, syncErr := integrator.DoRequest(req, domain.PlatformGoogleAds, integration.ID)
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
