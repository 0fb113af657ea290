package syncing

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

// windowPolicy define os limites de janela de cada plataforma
type windowPolicy struct {
	// maxWindowDays é o tamanho máximo de cada chunk. Para tiktok e linkedin
	// é um limite rígido da API; para as demais é um teto escolhido para
	// conter o pico de memória de backfills longos.
	maxWindowDays int
	// lookbackMonths limita o histórico disponível (0 = sem limite conhecido)
	lookbackMonths int
}

var windowPolicies = map[string]windowPolicy{
	domain.PlatformMeta:      {maxWindowDays: 90, lookbackMonths: 37},
	domain.PlatformGoogleAds: {maxWindowDays: 365},
	domain.PlatformTikTok:    {maxWindowDays: 30},
	domain.PlatformLinkedIn:  {maxWindowDays: 30},
	domain.PlatformPinterest: {maxWindowDays: 90},
}

// ChunkRange divide o intervalo pedido em chunks ordenados do mais antigo para
// o mais recente, contíguos, sem sobreposição e nunca maiores que a janela da
// plataforma. A saída é totalmente determinística: re-invocar com os mesmos
// argumentos reproduz os mesmos chunks, o que torna uma execução interrompida
// segura de repetir.
func ChunkRange(platform string, start, end time.Time) ([]domain.SyncChunk, error) {
	policy, ok := windowPolicies[platform]
	if !ok {
		return nil, fmt.Errorf("plataforma sem política de janela: %s", platform)
	}

	start = truncateToDay(start)
	end = truncateToDay(end)

	if start.After(end) {
		return nil, fmt.Errorf("data inicial %s posterior à final %s",
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	// Datas além do lookback suportado são clampadas com aviso, nunca erro
	if policy.lookbackMonths > 0 {
		oldest := truncateToDay(time.Now().AddDate(0, -policy.lookbackMonths, 0))
		if start.Before(oldest) {
			logrus.WithFields(logrus.Fields{
				"platform":   platform,
				"start_date": start.Format(time.DateOnly),
				"clamped_to": oldest.Format(time.DateOnly),
			}).Warn("Data inicial além do histórico suportado pela plataforma. Ajustando")
			start = oldest

			if start.After(end) {
				return []domain.SyncChunk{}, nil
			}
		}
	}

	chunks := make([]domain.SyncChunk, 0)
	for cursor := start; !cursor.After(end); {
		chunkEnd := cursor.AddDate(0, 0, policy.maxWindowDays-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}

		chunks = append(chunks, domain.SyncChunk{
			StartDate: cursor,
			EndDate:   chunkEnd,
		})

		cursor = chunkEnd.AddDate(0, 0, 1)
	}

	return chunks, nil
}

// AllTimeRange retorna o intervalo de um backfill completo: do início do
// histórico suportado (ou 24 meses, quando a plataforma não declara limite)
// até ontem
func AllTimeRange(platform string) (time.Time, time.Time) {
	policy, ok := windowPolicies[platform]

	lookbackMonths := 24
	if ok && policy.lookbackMonths > 0 {
		lookbackMonths = policy.lookbackMonths
	}

	now := time.Now()
	end := truncateToDay(now.AddDate(0, 0, -1))
	start := truncateToDay(now.AddDate(0, -lookbackMonths, 0))

	return start, end
}

func truncateToDay(date time.Time) time.Time {
	year, month, day := date.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
