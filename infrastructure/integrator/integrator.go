package integrator

import (
	"fmt"
	"sort"
	"time"

	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

// Action é uma ação bruta reportada pela plataforma (lead, purchase, like...)
type Action struct {
	Type  string
	Value float64
}

// RawRow é uma linha de métrica bruta já decodificada do payload da plataforma,
// antes da normalização para o esquema canônico
type RawRow struct {
	ExternalCampaignID string
	// Date é nulo em linhas agregadas (uma linha por chunk inteiro)
	Date        *time.Time
	Currency    string // vazio = moeda configurada da conta
	Spend       float64
	Impressions int64
	Clicks      int64
	Actions     []Action
	VideoViews  int64
	Reach       int64
	Sessions    int64
	Revenue     float64
}

type FetchStatus int

const (
	FetchOK FetchStatus = iota
	FetchEmpty
	FetchFailed
)

// FetchResult distingue explicitamente um chunk vazio-mas-bem-sucedido de uma
// falha, tanto nos logs quanto nas estatísticas da execução
type FetchResult struct {
	Status FetchStatus
	Rows   []RawRow
	Err    *domain.SyncError
}

func OkResult(rows []RawRow) FetchResult {
	if len(rows) == 0 {
		return FetchResult{Status: FetchEmpty}
	}
	return FetchResult{Status: FetchOK, Rows: rows}
}

func FailedResult(err *domain.SyncError) FetchResult {
	return FetchResult{Status: FetchFailed, Err: err}
}

// Client é o adaptador polimórfico por plataforma. Cada implementação encapsula
// o transporte de autenticação e o idioma de paginação da sua API, paginando
// internamente até esgotar as linhas do chunk.
type Client interface {
	Platform() string
	FetchMetrics(account *domain.AdAccount, campaigns []*domain.AdCampaign, chunk domain.SyncChunk, token string, granularity domain.Granularity) FetchResult
	RefreshToken(integration *domain.Integration) (*domain.RefreshedTokens, error)
}

// Registry seleciona o cliente pelo identificador da plataforma,
// no lugar de um switch crescente por string
type Registry struct {
	clients map[string]Client
}

func NewRegistry(clients ...Client) *Registry {
	registry := &Registry{
		clients: make(map[string]Client, len(clients)),
	}

	for _, client := range clients {
		registry.clients[client.Platform()] = client
	}

	return registry
}

func (r *Registry) Get(platform string) (Client, error) {
	client, ok := r.clients[platform]
	if !ok {
		return nil, fmt.Errorf("plataforma não registrada: %s", platform)
	}
	return client, nil
}

func (r *Registry) Platforms() []string {
	platforms := make([]string, 0, len(r.clients))
	for platform := range r.clients {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	return platforms
}
