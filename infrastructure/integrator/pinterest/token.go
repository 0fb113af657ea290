package pinterest

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
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// RefreshToken renova o par de tokens via basic auth com as credenciais do app.
// O Pinterest pode rotacionar o refresh token na renovação.
func (c *Client) RefreshToken(integration *domain.Integration) (*domain.RefreshedTokens, error) {
	form := url.Values{}
	form.Add("grant_type", "refresh_token")
	form.Add("refresh_token", integration.RefreshToken)

	req, err := http.NewRequest(http.MethodPost, c.cfg.Pinterest.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.Pinterest.ClientID, c.cfg.Pinterest.ClientSecret)

	body, syncErr := integrator.DoRequest(req, domain.PlatformPinterest, integration.ID)
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
		AccessToken:  response.AccessToken,
		RefreshToken: response.RefreshToken,
		ExpiresAt:    integrator.CalculateTokenExpiration(response.ExpiresIn),
	}, nil
}
