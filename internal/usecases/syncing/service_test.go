package syncing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	integratormocks "github.com/vfg2006/ad-metrics-api/infrastructure/integrator/mocks"
	"github.com/vfg2006/ad-metrics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ad-metrics-api/internal/config"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
	"github.com/vfg2006/ad-metrics-api/internal/usecases/normalizing"
	"go.uber.org/mock/gomock"
)

type serviceFixture struct {
	integrationRepo *mocks.MockIntegrationRepository
	accountRepo     *mocks.MockAccountRepository
	campaignRepo    *mocks.MockCampaignRepository
	metricRepo      *mocks.MockMetricRepository
	client          *integratormocks.MockClient
	service         *service
}

func newServiceFixture(t *testing.T, platform string) *serviceFixture {
	ctrl := gomock.NewController(t)

	integrationRepo := mocks.NewMockIntegrationRepository(ctrl)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	campaignRepo := mocks.NewMockCampaignRepository(ctrl)
	metricRepo := mocks.NewMockMetricRepository(ctrl)

	client := integratormocks.NewMockClient(ctrl)
	client.EXPECT().Platform().Return(platform).AnyTimes()

	registry := integrator.NewRegistry(client)
	tokenGuard := integrator.NewTokenGuard(integrationRepo, registry, 15*time.Minute)

	svc := &service{
		cfg:             &config.Config{},
		integrationRepo: integrationRepo,
		accountRepo:     accountRepo,
		campaignRepo:    campaignRepo,
		metricRepo:      metricRepo,
		registry:        registry,
		tokenGuard:      tokenGuard,
		normalizer:      normalizing.New(),
		progress:        NewLogProgressReporter(),
	}

	return &serviceFixture{
		integrationRepo: integrationRepo,
		accountRepo:     accountRepo,
		campaignRepo:    campaignRepo,
		metricRepo:      metricRepo,
		client:          client,
		service:         svc,
	}
}

func integrationFixture(platform string) *domain.Integration {
	return &domain.Integration{
		ID:          "int-1",
		TenantID:    "tenant-1",
		Platform:    platform,
		AccessToken: "token-valido",
		ExpiresAt:   time.Now().Add(24 * time.Hour),
		Status:      domain.IntegrationStatusActive,
	}
}

func syncAccountFixture() *domain.AdAccount {
	return &domain.AdAccount{
		ID:         "acc-1",
		TenantID:   "tenant-1",
		ExternalID: "act_123",
		Name:       "Conta Teste",
		Currency:   "BRL",
		Status:     domain.AdAccountStatusActive,
	}
}

func syncCampaignFixture() *domain.AdCampaign {
	return &domain.AdCampaign{
		ID:         "camp-1",
		AccountID:  "acc-1",
		ExternalID: "ext-1",
		Name:       "Campanha Teste",
	}
}

func rowForChunk(chunk domain.SyncChunk) integrator.RawRow {
	rowDate := chunk.StartDate
	return integrator.RawRow{
		ExternalCampaignID: "ext-1",
		Date:               &rowDate,
		Spend:              10,
		Impressions:        100,
		Clicks:             5,
	}
}

func TestSync_FalhaDeChunkNaoDerrubaAExecucao(t *testing.T) {
	f := newServiceFixture(t, domain.PlatformTikTok)

	f.integrationRepo.EXPECT().GetByID("int-1").Return(integrationFixture(domain.PlatformTikTok), nil)
	f.integrationRepo.EXPECT().UpdateLastSyncedAt("int-1", gomock.Any()).Return(nil)
	f.accountRepo.EXPECT().ListAccountsByIntegration("int-1", gomock.Any()).
		Return([]*domain.AdAccount{syncAccountFixture()}, nil)
	f.campaignRepo.EXPECT().ListCampaignsByAccount("acc-1").
		Return([]*domain.AdCampaign{syncCampaignFixture()}, nil)

	// TikTok com janela de 30 dias: 2023-01-01..2023-05-15 produz 5 chunks.
	// O terceiro (02/03..31/03) falha com rate limit; os demais persistem.
	failingStart := time.Date(2023, 3, 2, 0, 0, 0, 0, time.UTC)

	f.client.EXPECT().
		FetchMetrics(gomock.Any(), gomock.Any(), gomock.Any(), "token-valido", domain.GranularityDaily).
		DoAndReturn(func(_ *domain.AdAccount, _ []*domain.AdCampaign, chunk domain.SyncChunk, _ string, _ domain.Granularity) integrator.FetchResult {
			if chunk.StartDate.Equal(failingStart) {
				return integrator.FailedResult(domain.NewSyncError(domain.ErrKindRateLimited, domain.PlatformTikTok, "acc-1", nil))
			}
			return integrator.OkResult([]integrator.RawRow{rowForChunk(chunk)})
		}).
		Times(5)

	f.metricRepo.EXPECT().UpsertBatch(gomock.Any()).Return(1, 0, nil).Times(4)

	stats, err := f.service.Sync(domain.SyncScope{
		IntegrationID: "int-1",
		StartDate:     time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC),
		Mode:          domain.SyncModeFull,
	})

	require.NoError(t, err)
	assert.Equal(t, 4, stats.Created)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 1, stats.Errors)
	assert.False(t, stats.Succeeded())
}

func TestSync_ModoQuickUsaGranularidadeAgregada(t *testing.T) {
	f := newServiceFixture(t, domain.PlatformPinterest)

	f.integrationRepo.EXPECT().GetByID("int-1").Return(integrationFixture(domain.PlatformPinterest), nil)
	f.integrationRepo.EXPECT().UpdateLastSyncedAt("int-1", gomock.Any()).Return(nil)
	f.accountRepo.EXPECT().ListAccountsByIntegration("int-1", gomock.Any()).
		Return([]*domain.AdAccount{syncAccountFixture()}, nil)
	f.campaignRepo.EXPECT().ListCampaignsByAccount("acc-1").
		Return([]*domain.AdCampaign{syncCampaignFixture()}, nil)

	f.client.EXPECT().
		FetchMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), domain.GranularityAggregate).
		Return(integrator.OkResult([]integrator.RawRow{
			{ExternalCampaignID: "ext-1", Spend: 300},
		}))

	f.metricRepo.EXPECT().UpsertBatch(gomock.Any()).
		DoAndReturn(func(records []*domain.MetricRecord) (int, int, error) {
			require.Len(t, records, 1)
			assert.Equal(t, domain.GranularityAggregate, records[0].Granularity)
			return 1, 0, nil
		})

	stats, err := f.service.Sync(domain.SyncScope{
		IntegrationID: "int-1",
		StartDate:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC),
		Mode:          domain.SyncModeQuick,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)
	assert.True(t, stats.Succeeded())
}

func TestSync_CampanhaDesconhecidaIncrementaSkipped(t *testing.T) {
	f := newServiceFixture(t, domain.PlatformLinkedIn)

	f.integrationRepo.EXPECT().GetByID("int-1").Return(integrationFixture(domain.PlatformLinkedIn), nil)
	f.integrationRepo.EXPECT().UpdateLastSyncedAt("int-1", gomock.Any()).Return(nil)
	f.accountRepo.EXPECT().ListAccountsByIntegration("int-1", gomock.Any()).
		Return([]*domain.AdAccount{syncAccountFixture()}, nil)
	f.campaignRepo.EXPECT().ListCampaignsByAccount("acc-1").
		Return([]*domain.AdCampaign{syncCampaignFixture()}, nil)

	f.client.EXPECT().
		FetchMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(integrator.OkResult([]integrator.RawRow{
			{ExternalCampaignID: "fantasma-1", Spend: 50},
			{ExternalCampaignID: "fantasma-2", Spend: 70},
		}))

	stats, err := f.service.Sync(domain.SyncScope{
		IntegrationID: "int-1",
		StartDate:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		Mode:          domain.SyncModeFull,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Skipped)
	assert.Equal(t, 0, stats.Errors)
	assert.True(t, stats.Succeeded())
}

func TestSync_LinhasComMesmaIdentidadeSaoSomadas(t *testing.T) {
	f := newServiceFixture(t, domain.PlatformGoogleAds)

	f.integrationRepo.EXPECT().GetByID("int-1").Return(integrationFixture(domain.PlatformGoogleAds), nil)
	f.integrationRepo.EXPECT().UpdateLastSyncedAt("int-1", gomock.Any()).Return(nil)
	f.accountRepo.EXPECT().ListAccountsByIntegration("int-1", gomock.Any()).
		Return([]*domain.AdAccount{syncAccountFixture()}, nil)
	f.campaignRepo.EXPECT().ListCampaignsByAccount("acc-1").
		Return([]*domain.AdCampaign{syncCampaignFixture()}, nil)

	// Duas linhas agregadas da mesma campanha no mesmo chunk: caem na mesma
	// identidade (data final do chunk) e o upsert só pode receber uma
	f.client.EXPECT().
		FetchMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(integrator.OkResult([]integrator.RawRow{
			{ExternalCampaignID: "ext-1", Spend: 100, Clicks: 10},
			{ExternalCampaignID: "ext-1", Spend: 50, Clicks: 4},
		}))

	f.metricRepo.EXPECT().UpsertBatch(gomock.Any()).
		DoAndReturn(func(records []*domain.MetricRecord) (int, int, error) {
			require.Len(t, records, 1)
			assert.Equal(t, 150.0, records[0].Values.Spend)
			assert.Equal(t, int64(14), records[0].Values.Clicks)
			return 1, 0, nil
		})

	stats, err := f.service.Sync(domain.SyncScope{
		IntegrationID: "int-1",
		StartDate:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC),
		Mode:          domain.SyncModeQuick,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)
}

func TestSync_IntegracaoInexistente(t *testing.T) {
	f := newServiceFixture(t, domain.PlatformMeta)

	f.integrationRepo.EXPECT().GetByID("nao-existe").Return(nil, nil)

	_, err := f.service.Sync(domain.SyncScope{
		IntegrationID: "nao-existe",
		StartDate:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC),
	})

	assert.Error(t, err)
}

func TestSync_IntegracaoInativa(t *testing.T) {
	f := newServiceFixture(t, domain.PlatformMeta)

	inactive := integrationFixture(domain.PlatformMeta)
	inactive.Status = domain.IntegrationStatusExpired
	f.integrationRepo.EXPECT().GetByID("int-1").Return(inactive, nil)

	_, err := f.service.Sync(domain.SyncScope{
		IntegrationID: "int-1",
		StartDate:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC),
	})

	assert.Error(t, err)
}

func TestSync_FiltraContasDoEscopo(t *testing.T) {
	f := newServiceFixture(t, domain.PlatformMeta)

	otherAccount := syncAccountFixture()
	otherAccount.ID = "acc-2"

	f.integrationRepo.EXPECT().GetByID("int-1").Return(integrationFixture(domain.PlatformMeta), nil)
	f.integrationRepo.EXPECT().UpdateLastSyncedAt("int-1", gomock.Any()).Return(nil)
	f.accountRepo.EXPECT().ListAccountsByIntegration("int-1", gomock.Any()).
		Return([]*domain.AdAccount{syncAccountFixture(), otherAccount}, nil)

	// Apenas acc-2 está no escopo: acc-1 não deve ser consultada
	f.campaignRepo.EXPECT().ListCampaignsByAccount("acc-2").
		Return([]*domain.AdCampaign{}, nil)

	f.client.EXPECT().
		FetchMetrics(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(integrator.FetchResult{Status: integrator.FetchEmpty})

	stats, err := f.service.Sync(domain.SyncScope{
		IntegrationID: "int-1",
		AccountIDs:    []string{"acc-2"},
		StartDate:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC),
		Mode:          domain.SyncModeFull,
	})

	require.NoError(t, err)
	assert.True(t, stats.Succeeded())
}

func TestMergeByChecksum_PreservaRegistrosDistintos(t *testing.T) {
	first := &domain.MetricRecord{
		Identity: domain.MetricIdentity{
			TenantID: "t", AdAccountID: "a", AdCampaignID: "c1",
			Platform: domain.PlatformMeta,
			Date:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		Values: domain.MetricValues{Spend: 10},
	}
	second := &domain.MetricRecord{
		Identity: domain.MetricIdentity{
			TenantID: "t", AdAccountID: "a", AdCampaignID: "c2",
			Platform: domain.PlatformMeta,
			Date:     time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		Values: domain.MetricValues{Spend: 20},
	}

	merged := mergeByChecksum([]*domain.MetricRecord{first, second})

	require.Len(t, merged, 2)
	assert.Equal(t, 10.0, merged[0].Values.Spend)
	assert.Equal(t, 20.0, merged[1].Values.Spend)
}
