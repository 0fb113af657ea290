package domain

import "time"

type IntegrationStatus string

const (
	IntegrationStatusActive   IntegrationStatus = "ACTIVE"
	IntegrationStatusInactive IntegrationStatus = "INACTIVE"
	IntegrationStatusExpired  IntegrationStatus = "EXPIRED"
)

// Integration representa um conjunto de credenciais conectado por (tenant, plataforma).
// Os tokens são mutados apenas pelo TokenGuard durante o refresh.
type Integration struct {
	ID              string            `json:"id"`
	TenantID        string            `json:"tenant_id"`
	Platform        string            `json:"platform"`
	AccessToken     string            `json:"-"`
	RefreshToken    string            `json:"-"`
	ExpiresAt       time.Time         `json:"expires_at"`
	Status          IntegrationStatus `json:"status"`
	LastRefreshedAt *time.Time        `json:"last_refreshed_at,omitempty"`
	LastSyncedAt    *time.Time        `json:"last_synced_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// TokenExpiresWithin retorna verdadeiro quando a expiração é desconhecida ou
// está dentro da margem de segurança informada.
func (i *Integration) TokenExpiresWithin(margin time.Duration) bool {
	if i.ExpiresAt.IsZero() {
		return true
	}
	return time.Until(i.ExpiresAt) < margin
}

// RefreshedTokens é o resultado de um refresh bem-sucedido persistido de forma atômica.
type RefreshedTokens struct {
	AccessToken  string
	RefreshToken string // vazio quando a plataforma não rotaciona o refresh token
	ExpiresAt    time.Time
}
