package integrator_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	integratormocks "github.com/vfg2006/ad-metrics-api/infrastructure/integrator/mocks"
	"github.com/vfg2006/ad-metrics-api/infrastructure/repository/mocks"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func guardFixture(t *testing.T) (*integrator.TokenGuard, *mocks.MockIntegrationRepository, *integratormocks.MockClient) {
	ctrl := gomock.NewController(t)

	integrationRepo := mocks.NewMockIntegrationRepository(ctrl)

	client := integratormocks.NewMockClient(ctrl)
	client.EXPECT().Platform().Return(domain.PlatformTikTok).AnyTimes()

	guard := integrator.NewTokenGuard(integrationRepo, integrator.NewRegistry(client), 15*time.Minute)

	return guard, integrationRepo, client
}

func tokenIntegration(expiresAt time.Time) *domain.Integration {
	return &domain.Integration{
		ID:           "int-1",
		TenantID:     "tenant-1",
		Platform:     domain.PlatformTikTok,
		AccessToken:  "token-atual",
		RefreshToken: "refresh-atual",
		ExpiresAt:    expiresAt,
		Status:       domain.IntegrationStatusActive,
	}
}

func TestEnsureValid_TokenLongeDaExpiracao(t *testing.T) {
	guard, _, _ := guardFixture(t)

	integration := tokenIntegration(time.Now().Add(2 * time.Hour))

	token := guard.EnsureValid(integration)

	assert.Equal(t, "token-atual", token)
}

func TestEnsureValid_TokenDentroDaMargemRenova(t *testing.T) {
	guard, integrationRepo, client := guardFixture(t)

	integration := tokenIntegration(time.Now().Add(5 * time.Minute))
	newExpiry := time.Now().Add(24 * time.Hour)

	client.EXPECT().RefreshToken(integration).Return(&domain.RefreshedTokens{
		AccessToken:  "token-novo",
		RefreshToken: "refresh-novo",
		ExpiresAt:    newExpiry,
	}, nil)
	integrationRepo.EXPECT().UpdateTokens("int-1", gomock.Any()).Return(nil)

	token := guard.EnsureValid(integration)

	assert.Equal(t, "token-novo", token)
	assert.Equal(t, "refresh-novo", integration.RefreshToken)
	assert.Equal(t, newExpiry, integration.ExpiresAt)
	require.NotNil(t, integration.LastRefreshedAt)
}

func TestEnsureValid_ExpiracaoDesconhecidaRenova(t *testing.T) {
	guard, integrationRepo, client := guardFixture(t)

	integration := tokenIntegration(time.Time{})

	client.EXPECT().RefreshToken(integration).Return(&domain.RefreshedTokens{
		AccessToken: "token-novo",
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil)
	integrationRepo.EXPECT().UpdateTokens("int-1", gomock.Any()).Return(nil)

	token := guard.EnsureValid(integration)

	assert.Equal(t, "token-novo", token)
	// Plataforma sem rotação de refresh token mantém o anterior
	assert.Equal(t, "refresh-atual", integration.RefreshToken)
}

func TestEnsureValid_FalhaDeRefreshDevolveTokenAntigo(t *testing.T) {
	guard, _, client := guardFixture(t)

	integration := tokenIntegration(time.Now().Add(time.Minute))

	client.EXPECT().RefreshToken(integration).Return(nil, errors.New("api fora do ar"))

	token := guard.EnsureValid(integration)

	// Falha de refresh não é fatal: o token antigo volta para que a próxima
	// chamada falhe com erro de autenticação explícito
	assert.Equal(t, "token-atual", token)
}

func TestEnsureValid_FalhaDePersistenciaNaoMutaIntegracao(t *testing.T) {
	guard, integrationRepo, client := guardFixture(t)

	integration := tokenIntegration(time.Now().Add(time.Minute))

	client.EXPECT().RefreshToken(integration).Return(&domain.RefreshedTokens{
		AccessToken: "token-novo",
		ExpiresAt:   time.Now().Add(time.Hour),
	}, nil)
	integrationRepo.EXPECT().UpdateTokens("int-1", gomock.Any()).Return(errors.New("conexão perdida"))

	token := guard.EnsureValid(integration)

	assert.Equal(t, "token-atual", token)
	assert.Equal(t, "refresh-atual", integration.RefreshToken)
}

func TestForceRefresh(t *testing.T) {
	guard, integrationRepo, client := guardFixture(t)

	integration := tokenIntegration(time.Now().Add(2 * time.Hour))

	client.EXPECT().RefreshToken(integration).Return(&domain.RefreshedTokens{
		AccessToken: "token-novo",
		ExpiresAt:   time.Now().Add(48 * time.Hour),
	}, nil)
	integrationRepo.EXPECT().UpdateTokens("int-1", gomock.Any()).Return(nil)

	err := guard.ForceRefresh(integration)

	require.NoError(t, err)
	assert.Equal(t, "token-novo", integration.AccessToken)
}
