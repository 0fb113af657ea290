package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-metrics-api/infrastructure/repository"
	"github.com/vfg2006/ad-metrics-api/internal/config"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
	"github.com/vfg2006/ad-metrics-api/internal/usecases/syncing"
)

// MetricsSyncConfig representa a configuração do agendador de sincronização de métricas
type MetricsSyncConfig struct {
	CronSchedule      string
	LookbackDays      int
	MaxConcurrentJobs int
	SyncEnabled       bool
}

// MetricsSyncService gerencia o agendamento da sincronização incremental de
// métricas de todas as integrações ativas
type MetricsSyncService struct {
	scheduler           *gocron.Scheduler
	config              MetricsSyncConfig
	integrationRepo     repository.IntegrationRepository
	syncService         syncing.Service
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncStats       []*domain.SyncStats
}

// NewMetricsSyncService cria uma nova instância do serviço de sincronização de métricas
func NewMetricsSyncService(
	integrationRepo repository.IntegrationRepository,
	syncService syncing.Service,
	appConfig *config.Config,
) *MetricsSyncService {
	syncConfig := MetricsSyncConfig{
		CronSchedule:      appConfig.MetricsSync.CronSchedule,
		LookbackDays:      appConfig.MetricsSync.LookbackDays,
		MaxConcurrentJobs: appConfig.MetricsSync.MaxConcurrentJobs,
		SyncEnabled:       appConfig.MetricsSync.Enabled,
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       syncConfig.CronSchedule,
		"lookback_days":       syncConfig.LookbackDays,
		"max_concurrent_jobs": syncConfig.MaxConcurrentJobs,
		"sync_enabled":        syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de sincronização de métricas carregada")

	return &MetricsSyncService{
		scheduler:       scheduler,
		config:          syncConfig,
		integrationRepo: integrationRepo,
		syncService:     syncService,
		syncRunning:     false,
	}
}

// Start inicia o agendador
func (s *MetricsSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de métricas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização de métricas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllIntegrations()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização de métricas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização de métricas")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllIntegrations roda a sincronização incremental de todas as integrações ativas
func (s *MetricsSyncService) syncAllIntegrations() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de métricas já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando sincronização de métricas de todas as integrações ativas")

	integrations, err := s.integrationRepo.ListByStatus([]domain.IntegrationStatus{domain.IntegrationStatusActive})
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar integrações ativas para sincronização")
		return
	}

	if len(integrations) == 0 {
		logrus.Info("Nenhuma integração ativa encontrada para sincronização de métricas")
		return
	}

	// Janela incremental: apenas os últimos N dias, terminando ontem
	endDate := time.Now().AddDate(0, 0, -1)
	startDate := endDate.AddDate(0, 0, -(s.config.LookbackDays - 1))

	logrus.WithFields(logrus.Fields{
		"integrations": len(integrations),
		"start_date":   startDate.Format(time.DateOnly),
		"end_date":     endDate.Format(time.DateOnly),
	}).Info("Período para sincronização incremental de métricas")

	stats := s.syncIntegrations(integrations, startDate, endDate)

	s.syncMutex.Lock()
	s.lastSyncStats = stats
	s.syncMutex.Unlock()

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration":     duration.String(),
		"integrations": len(integrations),
		"days":         s.config.LookbackDays,
	}).Info("Sincronização de métricas concluída")

	s.lastSyncCompletedAt = time.Now()
}

// syncIntegrations processa as integrações com concorrência limitada.
// Cada integração roda em um worker próprio; as contas de uma mesma
// integração rodam em sequência dentro dele.
func (s *MetricsSyncService) syncIntegrations(integrations []*domain.Integration, startDate, endDate time.Time) []*domain.SyncStats {
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup

	var statsMutex sync.Mutex
	stats := make([]*domain.SyncStats, 0, len(integrations))

	for _, integration := range integrations {
		wg.Add(1)
		semaphore <- struct{}{} // Adquirir semáforo

		go func(integ *domain.Integration) {
			defer func() {
				<-semaphore // Liberar semáforo
				wg.Done()
			}()

			logrus.WithFields(logrus.Fields{
				"integration_id": integ.ID,
				"platform":       integ.Platform,
			}).Info("Processando sincronização de métricas da integração")

			runStats, err := s.syncService.Sync(domain.SyncScope{
				TenantID:      integ.TenantID,
				IntegrationID: integ.ID,
				Platform:      integ.Platform,
				StartDate:     startDate,
				EndDate:       endDate,
				Mode:          domain.SyncModeFull,
			})
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"integration_id": integ.ID,
					"platform":       integ.Platform,
				}).Error("Erro ao sincronizar métricas da integração")
				return
			}

			statsMutex.Lock()
			stats = append(stats, runStats)
			statsMutex.Unlock()
		}(integration)
	}

	wg.Wait()

	return stats
}

// TriggerManualSync inicia manualmente uma sincronização de métricas
func (s *MetricsSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de métricas já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização manual de métricas")
	go s.syncAllIntegrations()
}

// GetStatus retorna o status atual do agendador
func (s *MetricsSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_max_concurrent":    s.config.MaxConcurrentJobs,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_stats":        s.lastSyncStats,
	}
}
