package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/ad-metrics-api/infrastructure/database/postgres"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

const (
	integrationsTable = "integrations i"
)

// IntegrationRepository é o credential store das integrações.
// Tokens são gravados apenas pelo TokenGuard; last_synced_at pelo orquestrador.
type IntegrationRepository interface {
	GetByID(integrationID string) (*domain.Integration, error)
	ListByStatus(statuses []domain.IntegrationStatus) ([]*domain.Integration, error)
	UpdateTokens(integrationID string, tokens *domain.RefreshedTokens) error
	UpdateLastSyncedAt(integrationID string, syncedAt time.Time) error
	UpdateStatus(integrationID string, status domain.IntegrationStatus) error
}

type integrationRepository struct {
	conn *postgres.Connection
}

func NewIntegrationRepository(conn *postgres.Connection) IntegrationRepository {
	return &integrationRepository{
		conn: conn,
	}
}

func (r *integrationRepository) GetByID(integrationID string) (*domain.Integration, error) {
	query, args, err := squirrel.
		Select("i.id, i.tenant_id, i.platform, i.access_token, i.refresh_token, i.expires_at, i.status, i.last_refreshed_at, i.last_synced_at, i.created_at, i.updated_at").
		From(integrationsTable).
		Where(squirrel.Eq{"i.id": integrationID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)

	integration, err := r.scanIntegration(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao escanear integração: %w", err)
	}

	return integration, nil
}

func (r *integrationRepository) ListByStatus(statuses []domain.IntegrationStatus) ([]*domain.Integration, error) {
	queryBuilder := squirrel.
		Select("i.id, i.tenant_id, i.platform, i.access_token, i.refresh_token, i.expires_at, i.status, i.last_refreshed_at, i.last_synced_at, i.created_at, i.updated_at").
		From(integrationsTable).
		OrderBy("i.tenant_id ASC, i.platform ASC").
		PlaceholderFormat(squirrel.Dollar)

	if len(statuses) > 0 {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"i.status": statuses})
	}

	query, args, err := queryBuilder.ToSql()
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

	integrations := make([]*domain.Integration, 0)
	for rows.Next() {
		integration := &domain.Integration{}
		var expiresAt sql.NullTime

		if err := rows.Scan(
			&integration.ID,
			&integration.TenantID,
			&integration.Platform,
			&integration.AccessToken,
			&integration.RefreshToken,
			&expiresAt,
			&integration.Status,
			&integration.LastRefreshedAt,
			&integration.LastSyncedAt,
			&integration.CreatedAt,
			&integration.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("erro ao escanear integrações: %w", err)
		}

		if expiresAt.Valid {
			integration.ExpiresAt = expiresAt.Time
		}

		integrations = append(integrations, integration)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return integrations, nil
}

// UpdateTokens persiste atomicamente o resultado de um refresh de token.
// O refresh token só é sobrescrito quando a plataforma rotacionou um novo.
func (r *integrationRepository) UpdateTokens(integrationID string, tokens *domain.RefreshedTokens) error {
	queryBuilder := squirrel.
		Update("integrations").
		Set("access_token", tokens.AccessToken).
		Set("expires_at", tokens.ExpiresAt).
		Set("last_refreshed_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": integrationID}).
		PlaceholderFormat(squirrel.Dollar)

	if tokens.RefreshToken != "" {
		queryBuilder = queryBuilder.Set("refresh_token", tokens.RefreshToken)
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao atualizar tokens da integração: %w", err)
	}

	return nil
}

func (r *integrationRepository) UpdateLastSyncedAt(integrationID string, syncedAt time.Time) error {
	query, args, err := squirrel.
		Update("integrations").
		Set("last_synced_at", syncedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": integrationID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao atualizar last_synced_at: %w", err)
	}

	return nil
}

func (r *integrationRepository) UpdateStatus(integrationID string, status domain.IntegrationStatus) error {
	query, args, err := squirrel.
		Update("integrations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": integrationID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("erro ao atualizar status da integração: %w", err)
	}

	return nil
}

func (r *integrationRepository) scanIntegration(row *sql.Row) (*domain.Integration, error) {
	integration := &domain.Integration{}
	var expiresAt sql.NullTime

	err := row.Scan(
		&integration.ID,
		&integration.TenantID,
		&integration.Platform,
		&integration.AccessToken,
		&integration.RefreshToken,
		&expiresAt,
		&integration.Status,
		&integration.LastRefreshedAt,
		&integration.LastSyncedAt,
		&integration.CreatedAt,
		&integration.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		integration.ExpiresAt = expiresAt.Time
	}

	return integration, nil
}
