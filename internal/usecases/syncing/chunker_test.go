package syncing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

func date(value string) time.Time {
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestChunkRange_JanelaDe30Dias(t *testing.T) {
	chunks, err := ChunkRange(domain.PlatformTikTok, date("2023-01-01"), date("2023-03-15"))
	require.NoError(t, err)

	expected := []domain.SyncChunk{
		{StartDate: date("2023-01-01"), EndDate: date("2023-01-30")},
		{StartDate: date("2023-01-31"), EndDate: date("2023-03-01")},
		{StartDate: date("2023-03-02"), EndDate: date("2023-03-15")},
	}
	assert.Equal(t, expected, chunks)
}

func TestChunkRange_IntervaloMenorQueAJanela(t *testing.T) {
	chunks, err := ChunkRange(domain.PlatformMeta, date("2023-05-10"), date("2023-05-20"))
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, date("2023-05-10"), chunks[0].StartDate)
	assert.Equal(t, date("2023-05-20"), chunks[0].EndDate)
}

func TestChunkRange_DiaUnico(t *testing.T) {
	chunks, err := ChunkRange(domain.PlatformLinkedIn, date("2023-07-04"), date("2023-07-04"))
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Equal(t, 1, chunks[0].Days())
}

func TestChunkRange_CoberturaContiguaSemSobreposicao(t *testing.T) {
	for _, platform := range domain.KnownPlatforms() {
		chunks, err := ChunkRange(platform, date("2024-01-01"), date("2024-12-31"))
		require.NoError(t, err, platform)
		require.NotEmpty(t, chunks, platform)

		assert.Equal(t, date("2024-01-01"), chunks[0].StartDate, platform)
		assert.Equal(t, date("2024-12-31"), chunks[len(chunks)-1].EndDate, platform)

		for i := 1; i < len(chunks); i++ {
			previousEnd := chunks[i-1].EndDate
			assert.Equal(t, previousEnd.AddDate(0, 0, 1), chunks[i].StartDate, platform)
		}
	}
}

func TestChunkRange_RespeitaJanelaMaxima(t *testing.T) {
	tests := []struct {
		platform string
		maxDays  int
	}{
		{domain.PlatformMeta, 90},
		{domain.PlatformGoogleAds, 365},
		{domain.PlatformTikTok, 30},
		{domain.PlatformLinkedIn, 30},
		{domain.PlatformPinterest, 90},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			chunks, err := ChunkRange(tt.platform, date("2023-01-01"), date("2024-12-31"))
			require.NoError(t, err)

			for _, chunk := range chunks {
				assert.LessOrEqual(t, chunk.Days(), tt.maxDays)
			}
		})
	}
}

func TestChunkRange_Deterministico(t *testing.T) {
	first, err := ChunkRange(domain.PlatformPinterest, date("2024-02-01"), date("2024-09-30"))
	require.NoError(t, err)

	second, err := ChunkRange(domain.PlatformPinterest, date("2024-02-01"), date("2024-09-30"))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestChunkRange_ClampDeHistorico(t *testing.T) {
	// Meta limita o histórico a 37 meses: datas anteriores são ajustadas, não erram
	tooOld := time.Now().AddDate(-5, 0, 0)
	end := time.Now().AddDate(0, 0, -1)

	chunks, err := ChunkRange(domain.PlatformMeta, tooOld, end)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	oldest := time.Now().AddDate(0, -37, 0)
	assert.False(t, chunks[0].StartDate.Before(oldest.AddDate(0, 0, -1)))
}

func TestChunkRange_PlataformaDesconhecida(t *testing.T) {
	_, err := ChunkRange("orkut", date("2023-01-01"), date("2023-01-31"))
	assert.Error(t, err)
}

func TestChunkRange_DataInicialPosteriorAFinal(t *testing.T) {
	_, err := ChunkRange(domain.PlatformMeta, date("2023-02-01"), date("2023-01-01"))
	assert.Error(t, err)
}

func TestAllTimeRange_UsaLookbackDaPlataforma(t *testing.T) {
	start, end := AllTimeRange(domain.PlatformMeta)

	assert.True(t, start.Before(end))
	assert.True(t, end.Before(time.Now()))

	// 37 meses de lookback, com margem de um dia para a virada do relógio
	expectedStart := time.Now().AddDate(0, -37, 0)
	assert.WithinDuration(t, expectedStart, start, 48*time.Hour)
}

func TestAllTimeRange_LookbackPadrao(t *testing.T) {
	start, _ := AllTimeRange(domain.PlatformTikTok)

	expectedStart := time.Now().AddDate(0, -24, 0)
	assert.WithinDuration(t, expectedStart, start, 48*time.Hour)
}
