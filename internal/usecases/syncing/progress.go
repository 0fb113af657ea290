package syncing

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

// ProgressReporter recebe a conclusão de cada chunk para dar visibilidade a
// backfills longos
type ProgressReporter interface {
	ChunkCompleted(platform, accountID string, chunk domain.SyncChunk, rows int)
}

type logProgressReporter struct {
	mu        sync.Mutex
	lastMonth map[string]time.Time
}

// NewLogProgressReporter cria um reporter que loga marcos de avanço: um log a
// cada virada de mês do intervalo sincronizado, por conta
func NewLogProgressReporter() ProgressReporter {
	return &logProgressReporter{
		lastMonth: make(map[string]time.Time),
	}
}

func (r *logProgressReporter) ChunkCompleted(platform, accountID string, chunk domain.SyncChunk, rows int) {
	logrus.WithFields(logrus.Fields{
		"platform":   platform,
		"account_id": accountID,
		"chunk":      chunk.String(),
		"rows":       rows,
	}).Debug("Chunk sincronizado")

	month := time.Date(chunk.EndDate.Year(), chunk.EndDate.Month(), 1, 0, 0, 0, 0, time.UTC)

	r.mu.Lock()
	defer r.mu.Unlock()

	key := platform + ":" + accountID
	if last, ok := r.lastMonth[key]; ok && !month.After(last) {
		return
	}
	r.lastMonth[key] = month

	logrus.WithFields(logrus.Fields{
		"platform":   platform,
		"account_id": accountID,
		"month":      month.Format("2006-01"),
		"quarter":    quarterOf(month),
	}).Info("Sincronização avançou de mês")
}

func quarterOf(date time.Time) string {
	quarter := (int(date.Month())-1)/3 + 1
	return fmt.Sprintf("%dT%d", date.Year(), quarter)
}
