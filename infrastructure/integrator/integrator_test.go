package integrator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	integratormocks "github.com/vfg2006/ad-metrics-api/infrastructure/integrator/mocks"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func TestRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)

	metaClient := integratormocks.NewMockClient(ctrl)
	metaClient.EXPECT().Platform().Return(domain.PlatformMeta).AnyTimes()

	tiktokClient := integratormocks.NewMockClient(ctrl)
	tiktokClient.EXPECT().Platform().Return(domain.PlatformTikTok).AnyTimes()

	registry := integrator.NewRegistry(metaClient, tiktokClient)

	client, err := registry.Get(domain.PlatformMeta)
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformMeta, client.Platform())

	_, err = registry.Get("myspace")
	assert.Error(t, err)

	assert.Equal(t, []string{domain.PlatformMeta, domain.PlatformTikTok}, registry.Platforms())
}

func TestOkResult(t *testing.T) {
	empty := integrator.OkResult(nil)
	assert.Equal(t, integrator.FetchEmpty, empty.Status)

	filled := integrator.OkResult([]integrator.RawRow{{ExternalCampaignID: "c-1"}})
	assert.Equal(t, integrator.FetchOK, filled.Status)
	assert.Len(t, filled.Rows, 1)
}
