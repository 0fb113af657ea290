package normalizing

import (
	"fmt"
	"time"

	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

// Normalizer mapeia uma linha bruta de plataforma para o registro canônico.
// Função pura: não faz I/O.
type Normalizer struct{}

func New() *Normalizer {
	return &Normalizer{}
}

// Normalize produz o MetricRecord canônico de uma linha bruta.
//
// Convenções preservadas:
//   - Conversão de moeda pela tabela estática quando a moeda da linha difere
//     da moeda configurada da conta.
//   - Linhas agregadas (sem data própria) são registradas na data FINAL do
//     chunk, exigida para a reconciliação posterior diário-vs-agregado.
func (n *Normalizer) Normalize(
	platform string,
	row integrator.RawRow,
	account *domain.AdAccount,
	campaign *domain.AdCampaign,
	chunk domain.SyncChunk,
) (*domain.MetricRecord, error) {
	if account == nil || campaign == nil {
		return nil, fmt.Errorf("conta e campanha são obrigatórias para normalizar")
	}

	date := chunk.EndDate
	recordGranularity := domain.GranularityAggregate
	if row.Date != nil {
		date = *row.Date
		recordGranularity = domain.GranularityDaily
	}

	spend := row.Spend
	revenue := row.Revenue
	if row.Currency != "" && row.Currency != account.Currency {
		spend = ConvertCurrency(spend, row.Currency, account.Currency)
		revenue = ConvertCurrency(revenue, row.Currency, account.Currency)
	}

	buckets := BucketActions(row.Actions)

	record := &domain.MetricRecord{
		Identity: domain.MetricIdentity{
			TenantID:     account.TenantID,
			AdAccountID:  account.ID,
			AdCampaignID: campaign.ID,
			Platform:     platform,
			Date:         truncateToDay(date),
		},
		Values: domain.MetricValues{
			Spend:            spend,
			Impressions:      row.Impressions,
			Clicks:           row.Clicks,
			Conversions:      buckets.TotalConversions(),
			Leads:            buckets.Leads,
			Purchases:        buckets.Purchases,
			Calls:            buckets.Calls,
			OtherConversions: buckets.Other,
			VideoViews:       row.VideoViews,
			Reach:            row.Reach,
			Sessions:         row.Sessions + buckets.Sessions,
			AddToCart:        buckets.AddToCart,
			Revenue:          revenue,
		},
		Currency:    account.Currency,
		Granularity: recordGranularity,
	}

	return record, nil
}

func truncateToDay(date time.Time) time.Time {
	year, month, day := date.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
