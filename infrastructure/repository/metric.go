package repository

import (
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/ad-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

// DefaultUpsertBatchSize limita o tamanho dos lotes de upsert para
// conter o tamanho da transação e o pico de memória
const DefaultUpsertBatchSize = 500

// MetricRepository é o destino dos registros normalizados. A chave de
// unicidade é exclusivamente o checksum da identidade: nunca existem duas
// linhas para a mesma identidade e o valor gravado reflete sempre a última busca.
type MetricRepository interface {
	UpsertBatch(records []*domain.MetricRecord) (created int, updated int, err error)
}

type metricRepository struct {
	conn      *postgres.Connection
	batchSize int
}

func NewMetricRepository(conn *postgres.Connection, batchSize int) MetricRepository {
	if batchSize <= 0 {
		batchSize = DefaultUpsertBatchSize
	}

	return &metricRepository{
		conn:      conn,
		batchSize: batchSize,
	}
}

func (r *metricRepository) UpsertBatch(records []*domain.MetricRecord) (int, int, error) {
	created := 0
	updated := 0

	for start := 0; start < len(records); start += r.batchSize {
		end := start + r.batchSize
		if end > len(records) {
			end = len(records)
		}

		c, u, err := r.upsertSlice(records[start:end])
		if err != nil {
			return created, updated, err
		}

		created += c
		updated += u
	}

	return created, updated, nil
}

func (r *metricRepository) upsertSlice(records []*domain.MetricRecord) (int, int, error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	queryBuilder := squirrel.StatementBuilder.
		Insert("ad_metrics").
		Columns(
			"checksum", "tenant_id", "account_id", "campaign_id", "platform", "date",
			"spend", "impressions", "clicks", "conversions", "leads", "purchases",
			"calls", "other_conversions", "video_views", "reach", "sessions",
			"add_to_cart", "revenue", "currency", "granularity",
		)

	for _, record := range records {
		queryBuilder = queryBuilder.Values(
			record.Checksum(),
			record.Identity.TenantID,
			record.Identity.AdAccountID,
			record.Identity.AdCampaignID,
			record.Identity.Platform,
			record.Identity.Date.Format(time.DateOnly),
			record.Values.Spend,
			record.Values.Impressions,
			record.Values.Clicks,
			record.Values.Conversions,
			record.Values.Leads,
			record.Values.Purchases,
			record.Values.Calls,
			record.Values.OtherConversions,
			record.Values.VideoViews,
			record.Values.Reach,
			record.Values.Sessions,
			record.Values.AddToCart,
			record.Values.Revenue,
			record.Currency,
			record.Granularity,
		)
	}

	// xmax = 0 distingue inserção de atualização dentro do próprio comando,
	// evitando um read-then-write na camada de aplicação
	query, args, err := queryBuilder.
		Suffix(`
			ON CONFLICT (checksum) DO UPDATE SET
				spend = EXCLUDED.spend,
				impressions = EXCLUDED.impressions,
				clicks = EXCLUDED.clicks,
				conversions = EXCLUDED.conversions,
				leads = EXCLUDED.leads,
				purchases = EXCLUDED.purchases,
				calls = EXCLUDED.calls,
				other_conversions = EXCLUDED.other_conversions,
				video_views = EXCLUDED.video_views,
				reach = EXCLUDED.reach,
				sessions = EXCLUDED.sessions,
				add_to_cart = EXCLUDED.add_to_cart,
				revenue = EXCLUDED.revenue,
				currency = EXCLUDED.currency,
				granularity = EXCLUDED.granularity,
				updated_at = NOW()
			RETURNING (xmax = 0) AS inserted
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, 0, fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return 0, 0, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	created := 0
	updated := 0
	for rows.Next() {
		var inserted bool
		if err := rows.Scan(&inserted); err != nil {
			return created, updated, fmt.Errorf("erro ao escanear resultado do upsert: %w", err)
		}

		if inserted {
			created++
		} else {
			updated++
		}
	}

	if err = rows.Err(); err != nil {
		return created, updated, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return created, updated, nil
}
