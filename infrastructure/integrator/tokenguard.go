package integrator

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-metrics-api/infrastructure/repository"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

// TokenGuard garante um token de acesso válido antes de cada lote de chamadas.
// O refresh de uma integração é single-flight: dois refreshes concorrentes
// invalidariam o refresh token rotacionado um do outro.
type TokenGuard struct {
	integrationRepo repository.IntegrationRepository
	registry        *Registry
	refreshMargin   time.Duration

	mutex sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTokenGuard(integrationRepo repository.IntegrationRepository, registry *Registry, refreshMargin time.Duration) *TokenGuard {
	return &TokenGuard{
		integrationRepo: integrationRepo,
		registry:        registry,
		refreshMargin:   refreshMargin,
		locks:           make(map[string]*sync.Mutex),
	}
}

// EnsureValid retorna um token utilizável para a integração. Quando a expiração
// é desconhecida ou está dentro da margem de segurança, dispara o refresh no
// endpoint da plataforma e persiste o resultado de forma atômica.
//
// Falha de refresh não é fatal para a execução: o último token conhecido é
// retornado mesmo expirado, para que a chamada seguinte falhe com um erro de
// autenticação explícito em vez de travar a sincronização.
func (g *TokenGuard) EnsureValid(integration *domain.Integration) string {
	if !integration.TokenExpiresWithin(g.refreshMargin) {
		return integration.AccessToken
	}

	lock := g.lockFor(integration.ID)
	lock.Lock()
	defer lock.Unlock()

	// Outra goroutine pode ter renovado enquanto aguardávamos o lock
	if !integration.TokenExpiresWithin(g.refreshMargin) {
		return integration.AccessToken
	}

	if err := g.refresh(integration); err != nil {
		logrus.WithFields(logrus.Fields{
			"integration_id": integration.ID,
			"platform":       integration.Platform,
			"error":          err.Error(),
		}).Error("Falha ao renovar token. Continuando com o último token conhecido")
	}

	return integration.AccessToken
}

// ForceRefresh renova o token imediatamente, usado quando a API sinaliza
// expiração no meio de um lote
func (g *TokenGuard) ForceRefresh(integration *domain.Integration) error {
	lock := g.lockFor(integration.ID)
	lock.Lock()
	defer lock.Unlock()

	return g.refresh(integration)
}

func (g *TokenGuard) refresh(integration *domain.Integration) error {
	client, err := g.registry.Get(integration.Platform)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"integration_id": integration.ID,
		"platform":       integration.Platform,
	}).Info("Iniciando renovação do token da integração")

	tokens, err := client.RefreshToken(integration)
	if err != nil {
		return fmt.Errorf("erro ao obter novo token: %w", err)
	}

	if err := g.integrationRepo.UpdateTokens(integration.ID, tokens); err != nil {
		return fmt.Errorf("erro ao persistir tokens renovados: %w", err)
	}

	// Atualiza a cópia em memória somente após a persistência
	integration.AccessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		integration.RefreshToken = tokens.RefreshToken
	}
	integration.ExpiresAt = tokens.ExpiresAt
	now := time.Now()
	integration.LastRefreshedAt = &now

	logrus.WithFields(logrus.Fields{
		"integration_id": integration.ID,
		"platform":       integration.Platform,
		"expires_at":     tokens.ExpiresAt.Format(time.RFC3339),
	}).Info("Token da integração renovado com sucesso")

	return nil
}

func (g *TokenGuard) lockFor(integrationID string) *sync.Mutex {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	lock, ok := g.locks[integrationID]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[integrationID] = lock
	}
	return lock
}
