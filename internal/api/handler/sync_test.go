package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-metrics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

// fakeSyncService registra os escopos recebidos para inspeção nos testes
type fakeSyncService struct {
	scopes chan domain.SyncScope
}

func newFakeSyncService() *fakeSyncService {
	return &fakeSyncService{scopes: make(chan domain.SyncScope, 8)}
}

func (f *fakeSyncService) Sync(scope domain.SyncScope) (*domain.SyncStats, error) {
	f.scopes <- scope
	return &domain.SyncStats{RunID: "run-1"}, nil
}

func triggerRequest(platform, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/v1/sync/"+platform, strings.NewReader(body))
	params := httprouter.Params{{Key: "platform", Value: platform}}
	return req.WithContext(context.WithValue(req.Context(), httprouter.ParamsKey, params))
}

func TestTriggerSync_PlataformaDesconhecida(t *testing.T) {
	recorder := httptest.NewRecorder()

	TriggerSync(SyncServices{}).ServeHTTP(recorder, triggerRequest("orkut", ""))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var apiErr struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &apiErr))
	assert.Equal(t, "VAL_004", apiErr.Code)
}

func TestTriggerSync_IntervaloInvalido(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"sem datas", `{}`},
		{"data ilegivel", `{"start_date": "01/06/2023", "end_date": "2023-06-30"}`},
		{"inicio depois do fim", `{"start_date": "2023-07-01", "end_date": "2023-06-01"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()

			TriggerSync(SyncServices{}).ServeHTTP(recorder, triggerRequest("meta", tt.body))

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestTriggerSync_ModoInvalido(t *testing.T) {
	recorder := httptest.NewRecorder()

	body := `{"mode": "turbo", "start_date": "2023-06-01", "end_date": "2023-06-30"}`
	TriggerSync(SyncServices{}).ServeHTTP(recorder, triggerRequest("meta", body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestTriggerSync_DisparaSincronizacaoPorIntegracao(t *testing.T) {
	ctrl := gomock.NewController(t)
	integrationRepo := mocks.NewMockIntegrationRepository(ctrl)
	syncService := newFakeSyncService()

	integrationRepo.EXPECT().
		ListByStatus([]domain.IntegrationStatus{domain.IntegrationStatusActive}).
		Return([]*domain.Integration{
			{ID: "int-1", TenantID: "tenant-1", Platform: domain.PlatformMeta, Status: domain.IntegrationStatusActive},
			{ID: "int-2", TenantID: "tenant-2", Platform: domain.PlatformTikTok, Status: domain.IntegrationStatusActive},
		}, nil)

	recorder := httptest.NewRecorder()
	body := `{"start_date": "2023-06-01", "end_date": "2023-06-30", "mode": "quick"}`

	TriggerSync(SyncServices{
		SyncService:     syncService,
		IntegrationRepo: integrationRepo,
	}).ServeHTTP(recorder, triggerRequest("meta", body))

	assert.Equal(t, http.StatusOK, recorder.Code)

	// Apenas a integração da plataforma pedida deve ser sincronizada
	select {
	case scope := <-syncService.scopes:
		assert.Equal(t, "int-1", scope.IntegrationID)
		assert.Equal(t, domain.SyncModeQuick, scope.Mode)
		assert.Equal(t, domain.PlatformMeta, scope.Platform)
	case <-time.After(2 * time.Second):
		t.Fatal("sincronização não foi disparada")
	}

	select {
	case scope := <-syncService.scopes:
		t.Fatalf("sincronização inesperada para %s", scope.IntegrationID)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestTriggerSync_IntegracaoEspecifica(t *testing.T) {
	ctrl := gomock.NewController(t)
	integrationRepo := mocks.NewMockIntegrationRepository(ctrl)
	syncService := newFakeSyncService()

	integrationRepo.EXPECT().GetByID("int-9").Return(&domain.Integration{
		ID: "int-9", TenantID: "tenant-1", Platform: domain.PlatformPinterest, Status: domain.IntegrationStatusActive,
	}, nil)

	recorder := httptest.NewRecorder()
	body := `{"integration_id": "int-9", "all_time": true}`

	TriggerSync(SyncServices{
		SyncService:     syncService,
		IntegrationRepo: integrationRepo,
	}).ServeHTTP(recorder, triggerRequest("pinterest", body))

	assert.Equal(t, http.StatusOK, recorder.Code)

	select {
	case scope := <-syncService.scopes:
		assert.Equal(t, "int-9", scope.IntegrationID)
		assert.True(t, scope.AllTime)
		assert.Equal(t, domain.SyncModeFull, scope.Mode)
	case <-time.After(2 * time.Second):
		t.Fatal("sincronização não foi disparada")
	}
}

func TestTriggerSync_SemIntegracoesAtivas(t *testing.T) {
	ctrl := gomock.NewController(t)
	integrationRepo := mocks.NewMockIntegrationRepository(ctrl)

	integrationRepo.EXPECT().
		ListByStatus(gomock.Any()).
		Return([]*domain.Integration{}, nil)

	recorder := httptest.NewRecorder()
	body := `{"start_date": "2023-06-01", "end_date": "2023-06-30"}`

	TriggerSync(SyncServices{IntegrationRepo: integrationRepo}).
		ServeHTTP(recorder, triggerRequest("linkedin", body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
