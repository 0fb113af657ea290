package handler

import (
	"errors"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-metrics-api/infrastructure/repository"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
	"github.com/vfg2006/ad-metrics-api/internal/scheduler"
	"github.com/vfg2006/ad-metrics-api/internal/usecases/syncing"
	"github.com/vfg2006/ad-metrics-api/pkg/apiErrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	errDateRangeRequired = errors.New("start_date e end_date são obrigatórios quando all_time é falso")
	errInvalidStartDate  = errors.New("start_date inválida. Formato esperado: YYYY-MM-DD")
	errInvalidEndDate    = errors.New("end_date inválida. Formato esperado: YYYY-MM-DD")
	errStartAfterEnd     = errors.New("start_date posterior à end_date")
)

// SyncServices contém os serviços necessários para disparar sincronizações via API
type SyncServices struct {
	SyncService        syncing.Service
	MetricsSyncService *scheduler.MetricsSyncService
	IntegrationRepo    repository.IntegrationRepository
}

type triggerSyncRequest struct {
	IntegrationID string   `json:"integration_id"`
	AccountIDs    []string `json:"account_ids"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	AllTime       bool     `json:"all_time"`
	Mode          string   `json:"mode"`
}

// TriggerSync dispara uma sincronização para as integrações de uma plataforma.
// Quando integration_id é informado no corpo, apenas essa integração é
// sincronizada; caso contrário, todas as ativas da plataforma. A execução é
// assíncrona: a resposta confirma o disparo, e o progresso fica nos logs e em
// GET /v1/sync/status.
func TriggerSync(services SyncServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - TriggerSync")

		platform := httprouter.ParamsFromContext(r.Context()).ByName("platform")
		if !isKnownPlatform(platform) {
			apiErrors.WriteError(w, apiErrors.ErrUnknownPlatform, "Plataforma desconhecida", map[string]any{
				"platform": platform,
				"known":    domain.KnownPlatforms(),
			})
			return
		}

		var req triggerSyncRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
				return
			}
		}

		mode := domain.SyncModeFull
		if req.Mode != "" {
			mode = domain.SyncMode(req.Mode)
			if mode != domain.SyncModeFull && mode != domain.SyncModeQuick {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Modo de sincronização inválido. Valores aceitos: full, quick", nil)
				return
			}
		}

		var startDate, endDate time.Time
		if !req.AllTime {
			var err error
			startDate, endDate, err = parseDateRange(req.StartDate, req.EndDate)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, err.Error(), nil)
				return
			}
		}

		integrations, err := resolveIntegrations(services.IntegrationRepo, platform, req.IntegrationID)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar integrações", nil)
			return
		}
		if len(integrations) == 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Nenhuma integração ativa encontrada para a plataforma", map[string]any{
				"platform": platform,
			})
			return
		}

		for _, integration := range integrations {
			scope := domain.SyncScope{
				TenantID:      integration.TenantID,
				IntegrationID: integration.ID,
				Platform:      integration.Platform,
				AccountIDs:    req.AccountIDs,
				StartDate:     startDate,
				EndDate:       endDate,
				AllTime:       req.AllTime,
				Mode:          mode,
			}

			go func(s domain.SyncScope) {
				if _, err := services.SyncService.Sync(s); err != nil {
					logrus.WithError(err).WithFields(logrus.Fields{
						"integration_id": s.IntegrationID,
						"platform":       s.Platform,
					}).Error("Erro na sincronização disparada via API")
				}
			}(scope)
		}

		response := map[string]any{
			"message":      "Sincronização iniciada com sucesso",
			"platform":     platform,
			"integrations": len(integrations),
			"mode":         mode,
			"all_time":     req.AllTime,
		}
		json.NewEncoder(w).Encode(response)
	}
}

// GetSyncStatus retorna o status do agendador de sincronização
func GetSyncStatus(services SyncServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetSyncStatus")

		status := map[string]any{
			"metrics": services.MetricsSyncService.GetStatus(),
		}

		json.NewEncoder(w).Encode(status)
	}
}

// RunScheduledSync dispara manualmente o mesmo job incremental agendado no cron
func RunScheduledSync(services SyncServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunScheduledSync")

		if services.MetricsSyncService == nil {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço de sincronização de métricas não disponível", nil)
			return
		}

		services.MetricsSyncService.TriggerManualSync()

		response := map[string]any{
			"message": "Sincronização incremental iniciada com sucesso",
		}
		json.NewEncoder(w).Encode(response)
	}
}

func isKnownPlatform(platform string) bool {
	for _, known := range domain.KnownPlatforms() {
		if platform == known {
			return true
		}
	}
	return false
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, time.Time{}, errDateRangeRequired
	}

	startDate, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidStartDate
	}

	endDate, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidEndDate
	}

	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, errStartAfterEnd
	}

	return startDate, endDate, nil
}

func resolveIntegrations(repo repository.IntegrationRepository, platform, integrationID string) ([]*domain.Integration, error) {
	if integrationID != "" {
		integration, err := repo.GetByID(integrationID)
		if err != nil {
			return nil, err
		}
		if integration == nil || integration.Platform != platform {
			return []*domain.Integration{}, nil
		}
		return []*domain.Integration{integration}, nil
	}

	active, err := repo.ListByStatus([]domain.IntegrationStatus{domain.IntegrationStatusActive})
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Integration, 0, len(active))
	for _, integration := range active {
		if integration.Platform == platform {
			matched = append(matched, integration)
		}
	}

	return matched, nil
}
