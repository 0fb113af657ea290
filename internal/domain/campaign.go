package domain

import "strings"

type FunnelStage string

const (
	FunnelStageTop    FunnelStage = "TOP"
	FunnelStageMiddle FunnelStage = "MIDDLE"
	FunnelStageBottom FunnelStage = "BOTTOM"
)

type CampaignStatus string

const (
	CampaignStatusActive   CampaignStatus = "ACTIVE"
	CampaignStatusPaused   CampaignStatus = "PAUSED"
	CampaignStatusArchived CampaignStatus = "ARCHIVED"
)

type AdCampaign struct {
	ID          string         `json:"id"`
	AccountID   string         `json:"account_id"`
	ExternalID  string         `json:"external_id"`
	Name        string         `json:"name"`
	Objective   string         `json:"objective"`
	FunnelStage FunnelStage    `json:"funnel_stage"`
	Status      CampaignStatus `json:"status"`
}

// FunnelStageFromObjective deriva o estágio do funil a partir do objetivo da campanha
func FunnelStageFromObjective(objective string) FunnelStage {
	obj := strings.ToUpper(objective)

	switch {
	case strings.Contains(obj, "AWARENESS"), strings.Contains(obj, "REACH"),
		strings.Contains(obj, "VIDEO_VIEW"), strings.Contains(obj, "BRAND"):
		return FunnelStageTop
	case strings.Contains(obj, "TRAFFIC"), strings.Contains(obj, "ENGAGEMENT"),
		strings.Contains(obj, "APP_PROMOTION"), strings.Contains(obj, "CONSIDERATION"):
		return FunnelStageMiddle
	default:
		// Conversões, leads e vendas ficam no fundo do funil
		return FunnelStageBottom
	}
}
