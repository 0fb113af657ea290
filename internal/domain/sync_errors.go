package domain

import (
	"errors"
	"fmt"
)

// SyncErrorKind classifica as falhas capturadas durante uma sincronização
type SyncErrorKind string

const (
	ErrKindAuthExpired        SyncErrorKind = "AUTH_EXPIRED"
	ErrKindAuthInvalid        SyncErrorKind = "AUTH_INVALID"
	ErrKindRateLimited        SyncErrorKind = "RATE_LIMITED"
	ErrKindMalformedResponse  SyncErrorKind = "MALFORMED_RESPONSE"
	ErrKindNetworkTimeout     SyncErrorKind = "NETWORK_TIMEOUT"
	ErrKindUnknownCampaign    SyncErrorKind = "UNKNOWN_CAMPAIGN_MAPPING"
	ErrKindPersistenceConflit SyncErrorKind = "PERSISTENCE_CONFLICT"
)

// SyncError é um erro com escopo de chunk/conta. Nunca propaga além do
// orquestrador: é logado com contexto e incrementa o contador de erros da execução.
type SyncError struct {
	Kind      SyncErrorKind
	Platform  string
	AccountID string
	Chunk     *SyncChunk
	Cause     error
}

func NewSyncError(kind SyncErrorKind, platform, accountID string, cause error) *SyncError {
	return &SyncError{
		Kind:      kind,
		Platform:  platform,
		AccountID: accountID,
		Cause:     cause,
	}
}

func (e *SyncError) WithChunk(chunk SyncChunk) *SyncError {
	e.Chunk = &chunk
	return e
}

func (e *SyncError) Error() string {
	msg := fmt.Sprintf("%s: plataforma=%s conta=%s", e.Kind, e.Platform, e.AccountID)
	if e.Chunk != nil {
		msg += fmt.Sprintf(" chunk=%s", e.Chunk)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *SyncError) Unwrap() error {
	return e.Cause
}

// IsAuthError indica falha de autenticação que justifica tentar um refresh de token
func (e *SyncError) IsAuthError() bool {
	return e.Kind == ErrKindAuthExpired || e.Kind == ErrKindAuthInvalid
}

// SyncErrorKindOf extrai o kind de um erro qualquer, com fallback para timeout de rede
func SyncErrorKindOf(err error) SyncErrorKind {
	var syncErr *SyncError
	if errors.As(err, &syncErr) {
		return syncErr.Kind
	}
	return ErrKindNetworkTimeout
}
