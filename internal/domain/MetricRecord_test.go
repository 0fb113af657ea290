package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func identityFixture() MetricIdentity {
	return MetricIdentity{
		TenantID:     "tenant-1",
		AdAccountID:  "acc-1",
		AdCampaignID: "camp-1",
		Platform:     PlatformMeta,
		Date:         time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestChecksum_Deterministico(t *testing.T) {
	first := identityFixture()
	second := identityFixture()

	assert.Equal(t, first.Checksum(), second.Checksum())
	assert.Len(t, first.Checksum(), 64)
}

func TestChecksum_IgnoraHorario(t *testing.T) {
	first := identityFixture()

	second := identityFixture()
	second.Date = second.Date.Add(14 * time.Hour)

	assert.Equal(t, first.Checksum(), second.Checksum())
}

func TestChecksum_MudaComQualquerCampo(t *testing.T) {
	base := identityFixture()

	tests := []struct {
		name   string
		mutate func(*MetricIdentity)
	}{
		{"tenant", func(id *MetricIdentity) { id.TenantID = "tenant-2" }},
		{"conta", func(id *MetricIdentity) { id.AdAccountID = "acc-2" }},
		{"campanha", func(id *MetricIdentity) { id.AdCampaignID = "camp-2" }},
		{"plataforma", func(id *MetricIdentity) { id.Platform = PlatformTikTok }},
		{"data", func(id *MetricIdentity) { id.Date = id.Date.AddDate(0, 0, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := identityFixture()
			tt.mutate(&changed)

			assert.NotEqual(t, base.Checksum(), changed.Checksum())
		})
	}
}

func TestFunnelStageFromObjective(t *testing.T) {
	tests := []struct {
		objective string
		expected  FunnelStage
	}{
		{"OUTCOME_AWARENESS", FunnelStageTop},
		{"VIDEO_VIEWS", FunnelStageTop},
		{"TRAFFIC", FunnelStageMiddle},
		{"ENGAGEMENT", FunnelStageMiddle},
		{"OUTCOME_SALES", FunnelStageBottom},
		{"lead_generation", FunnelStageBottom},
	}

	for _, tt := range tests {
		t.Run(tt.objective, func(t *testing.T) {
			assert.Equal(t, tt.expected, FunnelStageFromObjective(tt.objective))
		})
	}
}
