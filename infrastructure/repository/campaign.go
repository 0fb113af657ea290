package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/ad-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

const (
	campaignsTable = "ad_campaigns c"
)

type CampaignRepository interface {
	ListCampaignsByAccount(accountID string) ([]*domain.AdCampaign, error)
}

type campaignRepository struct {
	conn *postgres.Connection
}

func NewCampaignRepository(conn *postgres.Connection) CampaignRepository {
	return &campaignRepository{
		conn: conn,
	}
}

func (r *campaignRepository) ListCampaignsByAccount(accountID string) ([]*domain.AdCampaign, error) {
	query, args, err := squirrel.
		Select("c.id, c.account_id, c.external_id, c.name, c.objective, c.funnel_stage, c.status").
		From(campaignsTable).
		Where(squirrel.Eq{"c.account_id": accountID}).
		OrderBy("c.name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	campaigns := make([]*domain.AdCampaign, 0)
	for rows.Next() {
		campaign := &domain.AdCampaign{}
		if err := rows.Scan(
			&campaign.ID,
			&campaign.AccountID,
			&campaign.ExternalID,
			&campaign.Name,
			&campaign.Objective,
			&campaign.FunnelStage,
			&campaign.Status,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear campanhas: %w", err)
		}
		campaigns = append(campaigns, campaign)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return campaigns, nil
}
