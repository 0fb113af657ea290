package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

type Granularity string

const (
	GranularityDaily     Granularity = "daily"
	GranularityAggregate Granularity = "aggregate"
)

// MetricIdentity identifica unicamente uma métrica por
// (tenant, conta, campanha, plataforma, data).
type MetricIdentity struct {
	TenantID     string
	AdAccountID  string
	AdCampaignID string
	Platform     string
	Date         time.Time
}

// Checksum gera o hash determinístico usado como chave de idempotência no upsert.
// Identidades iguais produzem sempre o mesmo checksum; qualquer campo diferente
// produz um checksum diferente.
func (id MetricIdentity) Checksum() string {
	canonical := fmt.Sprintf("%s|%s|%s|%s|%s",
		id.TenantID,
		id.AdAccountID,
		id.AdCampaignID,
		id.Platform,
		id.Date.Format(time.DateOnly),
	)

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// MetricValues agrupa os campos de valor normalizados de um dia (ou chunk agregado)
type MetricValues struct {
	Spend            float64 `json:"spend"`
	Impressions      int64   `json:"impressions"`
	Clicks           int64   `json:"clicks"`
	Conversions      int64   `json:"conversions"`
	Leads            int64   `json:"leads"`
	Purchases        int64   `json:"purchases"`
	Calls            int64   `json:"calls"`
	OtherConversions int64   `json:"other_conversions"`
	VideoViews       int64   `json:"video_views"`
	Reach            int64   `json:"reach"`
	Sessions         int64   `json:"sessions"`
	AddToCart        int64   `json:"add_to_cart"`
	Revenue          float64 `json:"revenue"`
}

// MetricRecord é a unidade produzida pelo motor de sincronização.
// Invariante: no máximo um registro por identidade, garantido pelo upsert por checksum.
type MetricRecord struct {
	Identity    MetricIdentity `json:"identity"`
	Values      MetricValues   `json:"values"`
	Currency    string         `json:"currency"`
	Granularity Granularity    `json:"granularity"`
}

func (r *MetricRecord) Checksum() string {
	return r.Identity.Checksum()
}
