package tiktok

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

type refreshRequest struct {
	AppID        string `json:"app_id"`
	Secret       string `json:"secret"`
	RefreshToken string `json:"refresh_token"`
	GrantType    string `json:"grant_type"`
}

type refreshResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	} `json:"data"`
}

// RefreshToken renova o par de tokens. O TikTok rotaciona o refresh token a
// cada renovação: o novo valor precisa ser persistido ou a integração se perde.
func (c *Client) RefreshToken(integration *domain.Integration) (*domain.RefreshedTokens, error) {
	payload, err := json.Marshal(refreshRequest{
		AppID:        c.cfg.TikTok.AppID,
		Secret:       c.cfg.TikTok.AppSecret,
		RefreshToken: integration.RefreshToken,
		GrantType:    "refresh_token",
	})
	if err != nil {
		return nil, err
	}

	requestURL := fmt.Sprintf("%s/oauth2/refresh_token/", c.cfg.TikTok.URL)

	req, err := http.NewRequest(http.MethodPost, requestURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, syncErr := integrator.DoRequest(req, domain.PlatformTikTok, integration.ID)
	if syncErr != nil {
		return nil, syncErr
	}

	var response refreshResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("erro ao decodificar resposta do token: %w", err)
	}

	if response.Code != 0 || response.Data.AccessToken == "" {
		return nil, fmt.Errorf("falha no refresh do token: code %d: %s", response.Code, response.Message)
	}

	return &domain.RefreshedTokens{
		AccessToken:  response.Data.AccessToken,
		RefreshToken: response.Data.RefreshToken,
		ExpiresAt:    integrator.CalculateTokenExpiration(response.Data.ExpiresIn),
	}, nil
}
