package meta

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

type insightRow struct {
	CampaignID      string `json:"campaign_id"`
	DateStart       string `json:"date_start"`
	AccountCurrency string `json:"account_currency"`
	Spend           string `json:"spend"`
	Impressions     string `json:"impressions"`
	Clicks          string `json:"clicks"`
	Reach           string `json:"reach"`
	VideoViews      string `json:"video_play_actions,omitempty"`
	Actions         []struct {
		ActionType string `json:"action_type"`
		Value      string `json:"value"`
	} `json:"actions"`
}

type insightsResponse struct {
	Data   []insightRow `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// FetchMetrics busca os insights de campanha da conta para o chunk, seguindo
// paging.next até esgotar as páginas
func (c *Client) FetchMetrics(account *domain.AdAccount, campaigns []*domain.AdCampaign, chunk domain.SyncChunk, token string, granularity domain.Granularity) integrator.FetchResult {
	timeRange := fmt.Sprintf("{\"since\":\"%s\",\"until\":\"%s\"}",
		chunk.StartDate.Format(time.DateOnly), chunk.EndDate.Format(time.DateOnly))

	params := url.Values{}
	params.Add("level", "campaign")
	params.Add("fields", "campaign_id,account_currency,spend,impressions,clicks,reach,actions")
	params.Add("time_range", timeRange)
	params.Add("limit", "100")
	params.Add("access_token", token)

	if granularity == domain.GranularityDaily {
		// Uma linha por campanha por dia
		params.Add("time_increment", "1")
	}

	requestURL := fmt.Sprintf("%s/act_%s/insights?%s", c.cfg.Meta.URL, account.ExternalID, params.Encode())

	allRows := make([]integrator.RawRow, 0)
	for requestURL != "" {
		req, err := http.NewRequest(http.MethodGet, requestURL, nil)
		if err != nil {
			return integrator.FailedResult(domain.NewSyncError(
				domain.ErrKindNetworkTimeout, domain.PlatformMeta, account.ID, err))
		}

		body, syncErr := integrator.DoRequest(req, domain.PlatformMeta, account.ID)
		if syncErr != nil {
			return integrator.FailedResult(syncErr.WithChunk(chunk))
		}

		var response insightsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithFields(logrus.Fields{
				"platform":   domain.PlatformMeta,
				"account_id": account.ID,
				"chunk":      chunk.String(),
				"error":      err.Error(),
			}).Warn("Payload malformado do Meta. Tratando como zero linhas")
			return integrator.OkResult(nil)
		}

		for _, row := range response.Data {
			allRows = append(allRows, convertRow(row, granularity))
		}

		requestURL = response.Paging.Next
	}

	return integrator.OkResult(allRows)
}

func convertRow(row insightRow, granularity domain.Granularity) integrator.RawRow {
	raw := integrator.RawRow{
		ExternalCampaignID: row.CampaignID,
		Currency:           row.AccountCurrency,
		Spend:              parseFloat(row.Spend),
		Impressions:        parseInt(row.Impressions),
		Clicks:             parseInt(row.Clicks),
		Reach:              parseInt(row.Reach),
	}

	if granularity == domain.GranularityDaily && row.DateStart != "" {
		if date, err := time.Parse(time.DateOnly, row.DateStart); err == nil {
			raw.Date = &date
		}
	}

	for _, action := range row.Actions {
		raw.Actions = append(raw.Actions, integrator.Action{
			Type:  action.ActionType,
			Value: parseFloat(action.Value),
		})
	}

	return raw
}

// A Graph API devolve números como strings; valores ilegíveis viram zero
func parseFloat(value string) float64 {
	if value == "" {
		return 0
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"value": value,
			"error": err.Error(),
		}).Warn("Erro ao converter valor numérico do Meta")
		return 0
	}
	return parsed
}

func parseInt(value string) int64 {
	return int64(parseFloat(value))
}
