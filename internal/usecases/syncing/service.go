package syncing

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/infrastructure/repository"
	"github.com/vfg2006/ad-metrics-api/internal/config"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
	"github.com/vfg2006/ad-metrics-api/internal/usecases/normalizing"
	"github.com/vfg2006/ad-metrics-api/pkg/utils"
)

// Service orquestra uma execução de sincronização do início ao fim:
// resolve o escopo, percorre conta a conta e chunk a chunk, e acumula os
// contadores da execução. Falhas de chunk são isoladas: logadas com contexto
// completo, contadas em Errors e a execução segue adiante.
type Service interface {
	Sync(scope domain.SyncScope) (*domain.SyncStats, error)
}

type service struct {
	cfg             *config.Config
	integrationRepo repository.IntegrationRepository
	accountRepo     repository.AccountRepository
	campaignRepo    repository.CampaignRepository
	metricRepo      repository.MetricRepository
	registry        *integrator.Registry
	tokenGuard      *integrator.TokenGuard
	normalizer      *normalizing.Normalizer
	progress        ProgressReporter
}

func NewService(
	cfg *config.Config,
	integrationRepo repository.IntegrationRepository,
	accountRepo repository.AccountRepository,
	campaignRepo repository.CampaignRepository,
	metricRepo repository.MetricRepository,
	registry *integrator.Registry,
	tokenGuard *integrator.TokenGuard,
	normalizer *normalizing.Normalizer,
	progress ProgressReporter,
) Service {
	return &service{
		cfg:             cfg,
		integrationRepo: integrationRepo,
		accountRepo:     accountRepo,
		campaignRepo:    campaignRepo,
		metricRepo:      metricRepo,
		registry:        registry,
		tokenGuard:      tokenGuard,
		normalizer:      normalizer,
		progress:        progress,
	}
}

func (s *service) Sync(scope domain.SyncScope) (*domain.SyncStats, error) {
	runID, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar o identificador da execução: %w", err)
	}

	stats := &domain.SyncStats{
		RunID:     runID,
		StartedAt: time.Now(),
	}

	// Falhas de resolução de escopo impedem a execução de começar e por isso
	// são os únicos erros que retornam em vez de contar
	integration, client, start, end, err := s.resolveScope(&scope)
	if err != nil {
		return nil, err
	}

	granularity := domain.GranularityDaily
	if scope.Mode == domain.SyncModeQuick {
		granularity = domain.GranularityAggregate
	}

	accounts, err := s.resolveAccounts(integration, scope.AccountIDs)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"run_id":         runID,
		"integration_id": integration.ID,
		"platform":       integration.Platform,
		"mode":           scope.Mode,
		"accounts":       len(accounts),
		"start_date":     start.Format(time.DateOnly),
		"end_date":       end.Format(time.DateOnly),
	}).Info("Iniciando sincronização de métricas")

	for _, account := range accounts {
		accountStats := s.syncAccount(integration, client, account, start, end, granularity)
		stats.Merge(*accountStats)
	}

	if err := s.integrationRepo.UpdateLastSyncedAt(integration.ID, time.Now()); err != nil {
		logrus.WithError(err).WithField("integration_id", integration.ID).
			Error("Erro ao atualizar a data da última sincronização")
	}

	stats.Duration = time.Since(stats.StartedAt).Round(time.Millisecond).String()

	logrus.WithFields(logrus.Fields{
		"run_id":   runID,
		"created":  stats.Created,
		"updated":  stats.Updated,
		"skipped":  stats.Skipped,
		"errors":   stats.Errors,
		"duration": stats.Duration,
	}).Info("Sincronização de métricas finalizada")

	return stats, nil
}

func (s *service) resolveScope(scope *domain.SyncScope) (*domain.Integration, integrator.Client, time.Time, time.Time, error) {
	integration, err := s.integrationRepo.GetByID(scope.IntegrationID)
	if err != nil {
		return nil, nil, time.Time{}, time.Time{}, fmt.Errorf("erro ao buscar a integração: %w", err)
	}
	if integration == nil {
		return nil, nil, time.Time{}, time.Time{}, fmt.Errorf("integração não encontrada: %s", scope.IntegrationID)
	}
	if integration.Status != domain.IntegrationStatusActive {
		return nil, nil, time.Time{}, time.Time{}, fmt.Errorf("integração %s não está ativa: %s", integration.ID, integration.Status)
	}

	client, err := s.registry.Get(integration.Platform)
	if err != nil {
		return nil, nil, time.Time{}, time.Time{}, err
	}

	start, end := scope.StartDate, scope.EndDate
	if scope.AllTime {
		start, end = AllTimeRange(integration.Platform)
	}
	if start.IsZero() || end.IsZero() {
		return nil, nil, time.Time{}, time.Time{}, fmt.Errorf("intervalo de datas não informado")
	}

	return integration, client, start, end, nil
}

func (s *service) resolveAccounts(integration *domain.Integration, accountIDs []string) ([]*domain.AdAccount, error) {
	accounts, err := s.accountRepo.ListAccountsByIntegration(
		integration.ID,
		[]domain.AdAccountStatus{domain.AdAccountStatusActive},
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar as contas da integração: %w", err)
	}

	if len(accountIDs) == 0 {
		return accounts, nil
	}

	wanted := make(map[string]bool, len(accountIDs))
	for _, id := range accountIDs {
		wanted[id] = true
	}

	filtered := make([]*domain.AdAccount, 0, len(accountIDs))
	for _, account := range accounts {
		if wanted[account.ID] {
			filtered = append(filtered, account)
		}
	}

	return filtered, nil
}

func (s *service) syncAccount(
	integration *domain.Integration,
	client integrator.Client,
	account *domain.AdAccount,
	start, end time.Time,
	granularity domain.Granularity,
) *domain.SyncStats {
	stats := &domain.SyncStats{}

	campaigns, err := s.campaignRepo.ListCampaignsByAccount(account.ID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"platform":   integration.Platform,
			"account_id": account.ID,
		}).Error("Erro ao listar as campanhas da conta. Pulando conta")
		stats.Errors++
		return stats
	}

	campaignsByExternalID := make(map[string]*domain.AdCampaign, len(campaigns))
	for _, campaign := range campaigns {
		campaignsByExternalID[campaign.ExternalID] = campaign
	}

	chunks, err := ChunkRange(integration.Platform, start, end)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"platform":   integration.Platform,
			"account_id": account.ID,
		}).Error("Erro ao dividir o intervalo em chunks. Pulando conta")
		stats.Errors++
		return stats
	}

	delay := time.Duration(s.cfg.Sync.RequestDelayMilliseconds) * time.Millisecond

	for i, chunk := range chunks {
		s.syncChunk(integration, client, account, campaignsByExternalID, chunk, granularity, stats)

		if delay > 0 && i < len(chunks)-1 {
			time.Sleep(delay)
		}
	}

	return stats
}

func (s *service) syncChunk(
	integration *domain.Integration,
	client integrator.Client,
	account *domain.AdAccount,
	campaignsByExternalID map[string]*domain.AdCampaign,
	chunk domain.SyncChunk,
	granularity domain.Granularity,
	stats *domain.SyncStats,
) {
	campaigns := make([]*domain.AdCampaign, 0, len(campaignsByExternalID))
	for _, campaign := range campaignsByExternalID {
		campaigns = append(campaigns, campaign)
	}

	token := s.tokenGuard.EnsureValid(integration)
	result := client.FetchMetrics(account, campaigns, chunk, token, granularity)

	// Erros de autenticação ganham uma única retentativa após refresh forçado,
	// cobrindo tokens revogados antes do vencimento declarado
	if result.Status == integrator.FetchFailed && result.Err.IsAuthError() {
		logrus.WithFields(logrus.Fields{
			"platform":   integration.Platform,
			"account_id": account.ID,
			"chunk":      chunk.String(),
		}).Warn("Falha de autenticação durante o fetch. Forçando refresh do token")

		if err := s.tokenGuard.ForceRefresh(integration); err == nil {
			token = s.tokenGuard.EnsureValid(integration)
			result = client.FetchMetrics(account, campaigns, chunk, token, granularity)
		}
	}

	switch result.Status {
	case integrator.FetchFailed:
		logrus.WithError(result.Err.WithChunk(chunk)).WithFields(logrus.Fields{
			"platform":   integration.Platform,
			"account_id": account.ID,
			"chunk":      chunk.String(),
			"error_kind": result.Err.Kind,
		}).Error("Erro ao buscar métricas do chunk")
		stats.Errors++
		return

	case integrator.FetchEmpty:
		logrus.WithFields(logrus.Fields{
			"platform":   integration.Platform,
			"account_id": account.ID,
			"chunk":      chunk.String(),
		}).Debug("Chunk sem métricas")
		s.progress.ChunkCompleted(integration.Platform, account.ID, chunk, 0)
		return
	}

	records := make([]*domain.MetricRecord, 0, len(result.Rows))
	for _, row := range result.Rows {
		campaign, ok := campaignsByExternalID[row.ExternalCampaignID]
		if !ok {
			// Campanhas desconhecidas são esperadas em contas onde nem toda
			// campanha remota é gerenciada localmente
			logrus.WithFields(logrus.Fields{
				"platform":             integration.Platform,
				"account_id":           account.ID,
				"external_campaign_id": row.ExternalCampaignID,
			}).Debug("Campanha sem mapeamento local. Ignorando linha")
			stats.Skipped++
			continue
		}

		record, err := s.normalizer.Normalize(integration.Platform, row, account, campaign, chunk)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"platform":   integration.Platform,
				"account_id": account.ID,
				"chunk":      chunk.String(),
			}).Error("Erro ao normalizar linha de métrica")
			stats.Errors++
			continue
		}

		records = append(records, record)
	}

	records = mergeByChecksum(records)

	if len(records) == 0 {
		s.progress.ChunkCompleted(integration.Platform, account.ID, chunk, 0)
		return
	}

	created, updated, err := s.metricRepo.UpsertBatch(records)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"platform":   integration.Platform,
			"account_id": account.ID,
			"chunk":      chunk.String(),
			"error_kind": domain.ErrKindPersistenceConflit,
		}).Error("Erro ao gravar métricas do chunk")
		stats.Errors++
		return
	}

	stats.Created += created
	stats.Updated += updated

	s.progress.ChunkCompleted(integration.Platform, account.ID, chunk, len(records))
}

// mergeByChecksum colapsa registros com a mesma identidade somando seus
// valores, preservando a ordem da primeira ocorrência. Necessário porque
// algumas plataformas retornam linhas diárias mesmo em consultas agregadas e o
// upsert em lote não pode receber a mesma chave duas vezes.
func mergeByChecksum(records []*domain.MetricRecord) []*domain.MetricRecord {
	if len(records) < 2 {
		return records
	}

	merged := make([]*domain.MetricRecord, 0, len(records))
	byChecksum := make(map[string]*domain.MetricRecord, len(records))

	for _, record := range records {
		checksum := record.Identity.Checksum()

		existing, ok := byChecksum[checksum]
		if !ok {
			byChecksum[checksum] = record
			merged = append(merged, record)
			continue
		}

		existing.Values = sumValues(existing.Values, record.Values)
	}

	return merged
}

func sumValues(a, b domain.MetricValues) domain.MetricValues {
	return domain.MetricValues{
		Spend:            a.Spend + b.Spend,
		Impressions:      a.Impressions + b.Impressions,
		Clicks:           a.Clicks + b.Clicks,
		Conversions:      a.Conversions + b.Conversions,
		Leads:            a.Leads + b.Leads,
		Purchases:        a.Purchases + b.Purchases,
		Calls:            a.Calls + b.Calls,
		OtherConversions: a.OtherConversions + b.OtherConversions,
		VideoViews:       a.VideoViews + b.VideoViews,
		Reach:            a.Reach + b.Reach,
		Sessions:         a.Sessions + b.Sessions,
		AddToCart:        a.AddToCart + b.AddToCart,
		Revenue:          a.Revenue + b.Revenue,
	}
}
