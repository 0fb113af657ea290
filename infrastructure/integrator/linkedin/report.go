package linkedin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
	"github.com/vfg2006/ad-metrics-api/internal/domain"
)

const pageSize = 100

type analyticsElement struct {
	PivotValues []string `json:"pivotValues"`
	DateRange   struct {
		Start struct {
			Day   int `json:"day"`
			Month int `json:"month"`
			Year  int `json:"year"`
		} `json:"start"`
	} `json:"dateRange"`
	CostInLocalCurrency        string `json:"costInLocalCurrency"`
	Impressions                int64  `json:"impressions"`
	Clicks                     int64  `json:"clicks"`
	ExternalWebsiteConversions int64  `json:"externalWebsiteConversions"`
	OneClickLeads              int64  `json:"oneClickLeads"`
	VideoViews                 int64  `json:"videoViews"`
	Reach                      int64  `json:"approximateUniqueImpressions"`
}

type analyticsResponse struct {
	Elements []analyticsElement `json:"elements"`
	Paging   struct {
		Start int `json:"start"`
		Count int `json:"count"`
		Total int `json:"total"`
	} `json:"paging"`
}

// FetchMetrics busca o relatório adAnalytics pivotado por campanha, avançando
// o offset start até cobrir o total reportado
func (c *Client) FetchMetrics(account *domain.AdAccount, campaigns []*domain.AdCampaign, chunk domain.SyncChunk, token string, granularity domain.Granularity) integrator.FetchResult {
	timeGranularity := "ALL"
	if granularity == domain.GranularityDaily {
		timeGranularity = "DAILY"
	}

	allRows := make([]integrator.RawRow, 0)
	start := 0
	for {
		params := url.Values{}
		params.Add("q", "analytics")
		params.Add("pivot", "CAMPAIGN")
		params.Add("timeGranularity", timeGranularity)
		params.Add("accounts", fmt.Sprintf("urn:li:sponsoredAccount:%s", account.ExternalID))
		params.Add("dateRange.start.day", strconv.Itoa(chunk.StartDate.Day()))
		params.Add("dateRange.start.month", strconv.Itoa(int(chunk.StartDate.Month())))
		params.Add("dateRange.start.year", strconv.Itoa(chunk.StartDate.Year()))
		params.Add("dateRange.end.day", strconv.Itoa(chunk.EndDate.Day()))
		params.Add("dateRange.end.month", strconv.Itoa(int(chunk.EndDate.Month())))
		params.Add("dateRange.end.year", strconv.Itoa(chunk.EndDate.Year()))
		params.Add("start", strconv.Itoa(start))
		params.Add("count", strconv.Itoa(pageSize))

		requestURL := fmt.Sprintf("%s/adAnalytics?%s", c.cfg.LinkedIn.URL, params.Encode())

		req, err := http.NewRequest(http.MethodGet, requestURL, nil)
		if err != nil {
			return integrator.FailedResult(domain.NewSyncError(
				domain.ErrKindNetworkTimeout, domain.PlatformLinkedIn, account.ID, err))
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("LinkedIn-Version", "202401")

		body, syncErr := integrator.DoRequest(req, domain.PlatformLinkedIn, account.ID)
		if syncErr != nil {
			return integrator.FailedResult(syncErr.WithChunk(chunk))
		}

		var response analyticsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithFields(logrus.Fields{
				"platform":   domain.PlatformLinkedIn,
				"account_id": account.ID,
				"chunk":      chunk.String(),
				"error":      err.Error(),
			}).Warn("Payload malformado do LinkedIn. Tratando como zero linhas")
			return integrator.OkResult(nil)
		}

		for _, element := range response.Elements {
			allRows = append(allRows, convertElement(element, granularity))
		}

		start += pageSize
		if start >= response.Paging.Total || len(response.Elements) == 0 {
			break
		}
	}

	return integrator.OkResult(allRows)
}

func convertElement(element analyticsElement, granularity domain.Granularity) integrator.RawRow {
	row := integrator.RawRow{
		ExternalCampaignID: campaignIDFromURN(element.PivotValues),
		Spend:              parseFloat(element.CostInLocalCurrency),
		Impressions:        element.Impressions,
		Clicks:             element.Clicks,
		VideoViews:         element.VideoViews,
		Reach:              element.Reach,
		Actions: []integrator.Action{
			{Type: "lead", Value: float64(element.OneClickLeads)},
			{Type: "external_website_conversion", Value: float64(element.ExternalWebsiteConversions)},
		},
	}

	if granularity == domain.GranularityDaily && element.DateRange.Start.Year > 0 {
		date := time.Date(
			element.DateRange.Start.Year,
			time.Month(element.DateRange.Start.Month),
			element.DateRange.Start.Day,
			0, 0, 0, 0, time.UTC,
		)
		row.Date = &date
	}

	return row
}

// campaignIDFromURN extrai o id numérico de "urn:li:sponsoredCampaign:123456"
func campaignIDFromURN(pivotValues []string) string {
	for _, urn := range pivotValues {
		if strings.HasPrefix(urn, "urn:li:sponsoredCampaign:") {
			return strings.TrimPrefix(urn, "urn:li:sponsoredCampaign:")
		}
	}
	return ""
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
		}).Warn("Erro ao converter valor numérico do LinkedIn")
		return 0
	}
	return parsed
}
