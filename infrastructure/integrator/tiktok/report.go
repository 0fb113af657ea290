package tiktok

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

type reportResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		List []struct {
			Dimensions struct {
				CampaignID  string `json:"campaign_id"`
				StatTimeDay string `json:"stat_time_day"`
			} `json:"dimensions"`
			Metrics struct {
				Spend       string `json:"spend"`
				Impressions string `json:"impressions"`
				Clicks      string `json:"clicks"`
				Conversions string `json:"conversion"`
				Reach       string `json:"reach"`
				VideoViews  string `json:"video_play_actions"`
			} `json:"metrics"`
		} `json:"list"`
		PageInfo struct {
			Page      int `json:"page"`
			TotalPage int `json:"total_page"`
		} `json:"page_info"`
	} `json:"data"`
}

// FetchMetrics busca o relatório integrado de campanhas, avançando página a
// página até total_page
func (c *Client) FetchMetrics(account *domain.AdAccount, campaigns []*domain.AdCampaign, chunk domain.SyncChunk, token string, granularity domain.Granularity) integrator.FetchResult {
	dimensions := `["campaign_id"]`
	if granularity == domain.GranularityDaily {
		dimensions = `["campaign_id","stat_time_day"]`
	}

	allRows := make([]integrator.RawRow, 0)
	page := 1
	for {
		params := url.Values{}
		params.Add("advertiser_id", account.ExternalID)
		params.Add("report_type", "BASIC")
		params.Add("data_level", "AUCTION_CAMPAIGN")
		params.Add("dimensions", dimensions)
		params.Add("metrics", `["spend","impressions","clicks","conversion","reach","video_play_actions"]`)
		params.Add("start_date", chunk.StartDate.Format(time.DateOnly))
		params.Add("end_date", chunk.EndDate.Format(time.DateOnly))
		params.Add("page", strconv.Itoa(page))
		params.Add("page_size", "200")

		requestURL := fmt.Sprintf("%s/report/integrated/get/?%s", c.cfg.TikTok.URL, params.Encode())

		req, err := http.NewRequest(http.MethodGet, requestURL, nil)
		if err != nil {
			return integrator.FailedResult(domain.NewSyncError(
				domain.ErrKindNetworkTimeout, domain.PlatformTikTok, account.ID, err))
		}
		req.Header.Set("Access-Token", token)

		body, syncErr := integrator.DoRequest(req, domain.PlatformTikTok, account.ID)
		if syncErr != nil {
			return integrator.FailedResult(syncErr.WithChunk(chunk))
		}

		var response reportResponse
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithFields(logrus.Fields{
				"platform":   domain.PlatformTikTok,
				"account_id": account.ID,
				"chunk":      chunk.String(),
				"error":      err.Error(),
			}).Warn("Payload malformado do TikTok. Tratando como zero linhas")
			return integrator.OkResult(nil)
		}

		// A API sinaliza falhas de negócio com code != 0 e HTTP 200
		if response.Code != 0 {
			kind := domain.ErrKindMalformedResponse
			switch response.Code {
			case 40001, 40100:
				kind = domain.ErrKindAuthExpired
			case 40700:
				kind = domain.ErrKindRateLimited
			}
			return integrator.FailedResult(domain.NewSyncError(kind, domain.PlatformTikTok, account.ID,
				fmt.Errorf("code %d: %s", response.Code, response.Message)).WithChunk(chunk))
		}

		for _, item := range response.Data.List {
			row := integrator.RawRow{
				ExternalCampaignID: item.Dimensions.CampaignID,
				Spend:              parseFloat(item.Metrics.Spend),
				Impressions:        parseInt(item.Metrics.Impressions),
				Clicks:             parseInt(item.Metrics.Clicks),
				Reach:              parseInt(item.Metrics.Reach),
				VideoViews:         parseInt(item.Metrics.VideoViews),
				Actions: []integrator.Action{
					{Type: "conversion", Value: parseFloat(item.Metrics.Conversions)},
				},
			}

			if granularity == domain.GranularityDaily && item.Dimensions.StatTimeDay != "" {
				// stat_time_day vem como "2024-06-01 00:00:00"
				if date, err := time.Parse(time.DateTime, item.Dimensions.StatTimeDay); err == nil {
					dateOnly := date.Truncate(24 * time.Hour)
					row.Date = &dateOnly
				}
			}

			allRows = append(allRows, row)
		}

		if page >= response.Data.PageInfo.TotalPage {
			break
		}
		page++
	}

	return integrator.OkResult(allRows)
}

func parseFloat(value string) float64 {
	if value == "" {
		return 0
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"value": value,
			"error": err.Error(),
		}).Warn("Erro ao converter valor numérico do TikTok")
		return 0
	}
	return parsed
}

func parseInt(value string) int64 {
	return int64(parseFloat(value))
}
