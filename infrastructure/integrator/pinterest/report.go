package pinterest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

type analyticsItem struct {
	CampaignID   string  `json:"CAMPAIGN_ID"`
	Date         string  `json:"DATE"`
	Spend        float64 `json:"SPEND_IN_DOLLAR"`
	Impressions  int64   `json:"IMPRESSION_1"`
	Clicks       int64   `json:"CLICKTHROUGH_1"`
	Conversions  int64   `json:"TOTAL_CONVERSIONS"`
	AddToCart    int64   `json:"TOTAL_WEB_ADD_TO_CART"`
	Checkout     int64   `json:"TOTAL_WEB_CHECKOUT"`
	VideoViews   int64   `json:"VIDEO_MRC_VIEWS_1"`
	SessionVisit int64   `json:"TOTAL_PAGE_VISIT"`
	Revenue      float64 `json:"TOTAL_WEB_CHECKOUT_VALUE_IN_MICRO_DOLLAR"`
}

type analyticsResponse struct {
	Items    []analyticsItem `json:"items"`
	Bookmark string          `json:"bookmark"`
}

// FetchMetrics busca o analytics de campanhas da conta, seguindo o bookmark
// até a última página
func (c *Client) FetchMetrics(account *domain.AdAccount, campaigns []*domain.AdCampaign, chunk domain.SyncChunk, token string, granularity domain.Granularity) integrator.FetchResult {
	reportGranularity := "TOTAL"
	if granularity == domain.GranularityDaily {
		reportGranularity = "DAY"
	}

	allRows := make([]integrator.RawRow, 0)
	bookmark := ""
	for {
		params := url.Values{}
		params.Add("start_date", chunk.StartDate.Format(time.DateOnly))
		params.Add("end_date", chunk.EndDate.Format(time.DateOnly))
		params.Add("granularity", reportGranularity)
		params.Add("columns", "SPEND_IN_DOLLAR,IMPRESSION_1,CLICKTHROUGH_1,TOTAL_CONVERSIONS,TOTAL_WEB_ADD_TO_CART,TOTAL_WEB_CHECKOUT,VIDEO_MRC_VIEWS_1,TOTAL_PAGE_VISIT,TOTAL_WEB_CHECKOUT_VALUE_IN_MICRO_DOLLAR")
		params.Add("page_size", "100")
		if bookmark != "" {
			params.Add("bookmark", bookmark)
		}

		requestURL := fmt.Sprintf("%s/ad_accounts/%s/campaigns/analytics?%s",
			c.cfg.Pinterest.URL, account.ExternalID, params.Encode())

		req, err := http.NewRequest(http.MethodGet, requestURL, nil)
		if err != nil {
			return integrator.FailedResult(domain.NewSyncError(
				domain.ErrKindNetworkTimeout, domain.PlatformPinterest, account.ID, err))
		}
		req.Header.Set("Authorization", "Bearer "+token)

		body, syncErr := integrator.DoRequest(req, domain.PlatformPinterest, account.ID)
		if syncErr != nil {
			return integrator.FailedResult(syncErr.WithChunk(chunk))
		}

		var response analyticsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithFields(logrus.Fields{
				"platform":   domain.PlatformPinterest,
				"account_id": account.ID,
				"chunk":      chunk.String(),
				"error":      err.Error(),
			}).Warn("Payload malformado do Pinterest. Tratando como zero linhas")
			return integrator.OkResult(nil)
		}

		for _, item := range response.Items {
			row := integrator.RawRow{
				ExternalCampaignID: item.CampaignID,
				Spend:              item.Spend,
				Impressions:        item.Impressions,
				Clicks:             item.Clicks,
				VideoViews:         item.VideoViews,
				Sessions:           item.SessionVisit,
				Revenue:            item.Revenue / 1e6,
				Actions: []integrator.Action{
					{Type: "total_conversions", Value: float64(item.Conversions)},
					{Type: "web_checkout", Value: float64(item.Checkout)},
					{Type: "add_to_cart", Value: float64(item.AddToCart)},
				},
			}

			if granularity == domain.GranularityDaily && item.Date != "" {
				if date, err := time.Parse(time.DateOnly, item.Date); err == nil {
					row.Date = &date
				}
			}

			allRows = append(allRows, row)
		}

		if response.Bookmark == "" {
			break
		}
		bookmark = response.Bookmark
	}

	return integrator.OkResult(allRows)
}
