package domain

type AdAccountStatus string

const (
	AdAccountStatusActive   AdAccountStatus = "ACTIVE"
	AdAccountStatusInactive AdAccountStatus = "INACTIVE"
)

type AdAccount struct {
	ID            string          `json:"id"`
	IntegrationID string          `json:"integration_id"`
	TenantID      string          `json:"tenant_id"`
	ExternalID    string          `json:"external_id"`
	Name          string          `json:"name"`
	Currency      string          `json:"currency"`
	Timezone      string          `json:"timezone"`
	Status        AdAccountStatus `json:"status"`
}
