package integrator

import (
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// DoRequest executa a requisição e classifica falhas na taxonomia de erros de
// sincronização. O corpo só é retornado para respostas 200.
func DoRequest(req *http.Request, platform, accountID string) ([]byte, *domain.SyncError) {
	resp, err := httpClient.Do(req)
	if err != nil {
		// Falhas de transporte são recuperáveis no escopo do chunk
		return nil, domain.NewSyncError(domain.ErrKindNetworkTimeout, platform, accountID, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewSyncError(domain.ErrKindMalformedResponse, platform, accountID,
			errors.Wrap(err, "erro ao ler o corpo da resposta"))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, domain.NewSyncError(domain.ErrKindAuthExpired, platform, accountID,
			errors.Errorf("status %d: %s", resp.StatusCode, truncateBody(body)))
	case resp.StatusCode == http.StatusForbidden:
		return nil, domain.NewSyncError(domain.ErrKindAuthInvalid, platform, accountID,
			errors.Errorf("status %d: %s", resp.StatusCode, truncateBody(body)))
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, domain.NewSyncError(domain.ErrKindRateLimited, platform, accountID,
			errors.Errorf("status %d: %s", resp.StatusCode, truncateBody(body)))
	case resp.StatusCode == http.StatusRequestTimeout, resp.StatusCode == http.StatusGatewayTimeout:
		return nil, domain.NewSyncError(domain.ErrKindNetworkTimeout, platform, accountID,
			errors.Errorf("status %d", resp.StatusCode))
	default:
		return nil, domain.NewSyncError(domain.ErrKindMalformedResponse, platform, accountID,
			errors.Errorf("status inesperado %d: %s", resp.StatusCode, truncateBody(body)))
	}
}

// truncateBody limita o corpo logado para não poluir os logs com payloads grandes
func truncateBody(body []byte) string {
	const maxLen = 512
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}

// CalculateTokenExpiration converte o expires_in (segundos) retornado pelos
// endpoints de refresh em um timestamp absoluto
func CalculateTokenExpiration(expiresIn int) time.Time {
	if expiresIn <= 0 {
		// Sem informação de expiração, assumir o padrão de 1 hora
		expiresIn = 3600
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}
