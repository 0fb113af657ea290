package meta

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/config"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

func testClient(serverURL string) *Client {
	cfg := &config.Config{}
	cfg.Meta.URL = serverURL
	return NewClient(cfg)
}

func testAccount() *domain.AdAccount {
	return &domain.AdAccount{
		ID:         "acc-1",
		ExternalID: "1234567890",
		Currency:   "BRL",
	}
}

func testChunk() domain.SyncChunk {
	return domain.SyncChunk{
		StartDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestFetchMetrics_SeguePaginacao(t *testing.T) {
	var server *httptest.Server
	page := 0

	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-1", r.URL.Query().Get("access_token"))
		assert.Equal(t, "campaign", r.URL.Query().Get("level"))
		assert.Equal(t, "1", r.URL.Query().Get("time_increment"))

		page++
		if page == 1 {
			fmt.Fprintf(w, `{
				"data": [{
					"campaign_id": "c-1",
					"date_start": "2023-06-01",
					"account_currency": "BRL",
					"spend": "10.50",
					"impressions": "1000",
					"clicks": "50",
					"reach": "800",
					"actions": [{"action_type": "lead", "value": "3"}]
				}],
				"paging": {"next": "%s/act_1234567890/insights?access_token=token-1&level=campaign&time_increment=1&page=2"}
			}`, server.URL)
			return
		}

		fmt.Fprint(w, `{
			"data": [{
				"campaign_id": "c-1",
				"date_start": "2023-06-02",
				"account_currency": "BRL",
				"spend": "7.25",
				"impressions": "500",
				"clicks": "20",
				"reach": "400"
			}],
			"paging": {}
		}`)
	}))
	defer server.Close()

	result := testClient(server.URL).FetchMetrics(testAccount(), nil, testChunk(), "token-1", domain.GranularityDaily)

	require.Equal(t, integrator.FetchOK, result.Status)
	require.Len(t, result.Rows, 2)

	first := result.Rows[0]
	assert.Equal(t, "c-1", first.ExternalCampaignID)
	require.NotNil(t, first.Date)
	assert.Equal(t, "2023-06-01", first.Date.Format(time.DateOnly))
	assert.Equal(t, 10.50, first.Spend)
	assert.Equal(t, int64(1000), first.Impressions)
	require.Len(t, first.Actions, 1)
	assert.Equal(t, "lead", first.Actions[0].Type)
	assert.Equal(t, 3.0, first.Actions[0].Value)
}

func TestFetchMetrics_AgregadoSemDataEPorChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("time_increment"))

		fmt.Fprint(w, `{
			"data": [{
				"campaign_id": "c-1",
				"date_start": "2023-06-01",
				"spend": "300.00"
			}],
			"paging": {}
		}`)
	}))
	defer server.Close()

	result := testClient(server.URL).FetchMetrics(testAccount(), nil, testChunk(), "token-1", domain.GranularityAggregate)

	require.Equal(t, integrator.FetchOK, result.Status)
	require.Len(t, result.Rows, 1)
	assert.Nil(t, result.Rows[0].Date)
}

func TestFetchMetrics_PayloadMalformadoViraZeroLinhas(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `nada-de-json`)
	}))
	defer server.Close()

	result := testClient(server.URL).FetchMetrics(testAccount(), nil, testChunk(), "token-1", domain.GranularityDaily)

	assert.Equal(t, integrator.FetchEmpty, result.Status)
	assert.Nil(t, result.Err)
}

func TestFetchMetrics_TokenExpirado(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "Session has expired"}}`)
	}))
	defer server.Close()

	result := testClient(server.URL).FetchMetrics(testAccount(), nil, testChunk(), "token-velho", domain.GranularityDaily)

	require.Equal(t, integrator.FetchFailed, result.Status)
	require.NotNil(t, result.Err)
	assert.Equal(t, domain.ErrKindAuthExpired, result.Err.Kind)
	assert.True(t, result.Err.IsAuthError())
}

func TestFetchMetrics_RateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	result := testClient(server.URL).FetchMetrics(testAccount(), nil, testChunk(), "token-1", domain.GranularityDaily)

	require.Equal(t, integrator.FetchFailed, result.Status)
	assert.Equal(t, domain.ErrKindRateLimited, result.Err.Kind)
	assert.False(t, result.Err.IsAuthError())
}

func TestParseFloat_ValorIlegivelViraZero(t *testing.T) {
	assert.Equal(t, 0.0, parseFloat("abc"))
	assert.Equal(t, 0.0, parseFloat(""))
	assert.Equal(t, 12.5, parseFloat("12.5"))
}
