package domain

import (
	"fmt"
	"time"
)

// SyncChunk é um sub-intervalo contíguo de datas limitado pela janela máxima
// da plataforma. Chunks de um mesmo range nunca se sobrepõem.
type SyncChunk struct {
	StartDate time.Time
	EndDate   time.Time
}

func (c SyncChunk) String() string {
	return fmt.Sprintf("[%s, %s]", c.StartDate.Format(time.DateOnly), c.EndDate.Format(time.DateOnly))
}

// Days retorna o número de dias cobertos pelo chunk, inclusivo nas duas pontas
func (c SyncChunk) Days() int {
	return int(c.EndDate.Sub(c.StartDate).Hours()/24) + 1
}

type SyncMode string

const (
	// SyncModeFull busca linhas diárias por campanha
	SyncModeFull SyncMode = "full"
	// SyncModeQuick busca uma única linha agregada por campanha por chunk,
	// usada para verificação rápida de conectividade
	SyncModeQuick SyncMode = "quick"
)

// SyncScope seleciona o escopo de uma execução de sincronização
type SyncScope struct {
	TenantID      string
	IntegrationID string
	Platform      string
	AccountIDs    []string // vazio = todas as contas ativas da integração
	StartDate     time.Time
	EndDate       time.Time
	AllTime       bool
	Mode          SyncMode
}

// SyncStats acumula os contadores de uma execução. Nunca é persistido,
// apenas reportado ao final da execução.
type SyncStats struct {
	RunID     string    `json:"run_id"`
	Created   int       `json:"created"`
	Updated   int       `json:"updated"`
	Skipped   int       `json:"skipped"`
	Errors    int       `json:"errors"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
}

// Succeeded indica sucesso da execução: nenhum erro registrado.
// Progresso parcial já gravado nunca é desfeito, mesmo quando falso.
func (s *SyncStats) Succeeded() bool {
	return s.Errors == 0
}

func (s *SyncStats) Merge(other SyncStats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Skipped += other.Skipped
	s.Errors += other.Errors
}
