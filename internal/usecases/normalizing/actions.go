package normalizing

import (
	"strings"

	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
)

// ActionBuckets é o resultado do particionamento da lista bruta de ações.
// Conversões totais = leads + purchases + calls + other; ações de puro
// engajamento não contribuem para nenhum balde de conversão.
type ActionBuckets struct {
	Leads     int64
	Purchases int64
	Calls     int64
	Other     int64
	AddToCart int64
	Sessions  int64
}

func (b ActionBuckets) TotalConversions() int64 {
	return b.Leads + b.Purchases + b.Calls + b.Other
}

// Palavras-chave de engajamento: nunca contam como conversão
var engagementKeywords = []string{
	"link_click",
	"like",
	"comment",
	"share",
	"reaction",
	"follow",
	"save",
	"video_view",
	"video_play",
	"engagement",
	"post_",
}

// BucketActions particiona as ações brutas por palavra-chave do action type.
// Valores fracionários (o Google reporta conversões como float) são truncados.
func BucketActions(actions []integrator.Action) ActionBuckets {
	buckets := ActionBuckets{}

	for _, action := range actions {
		actionType := strings.ToLower(action.Type)
		value := int64(action.Value)
		if value == 0 {
			continue
		}

		switch {
		case isEngagement(actionType):
			// Engajamento puro: contribui zero para conversões
		case strings.Contains(actionType, "add_to_cart") || strings.Contains(actionType, "cart"):
			buckets.AddToCart += value
		case strings.Contains(actionType, "landing_page_view") || strings.Contains(actionType, "page_visit"):
			buckets.Sessions += value
		case strings.Contains(actionType, "lead"):
			buckets.Leads += value
		case strings.Contains(actionType, "purchase") || strings.Contains(actionType, "checkout") ||
			strings.Contains(actionType, "order"):
			buckets.Purchases += value
		case strings.Contains(actionType, "call") || strings.Contains(actionType, "phone"):
			buckets.Calls += value
		default:
			buckets.Other += value
		}
	}

	return buckets
}

func isEngagement(actionType string) bool {
	for _, keyword := range engagementKeywords {
		if strings.Contains(actionType, keyword) {
			return true
		}
	}
	return false
}
