package normalizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/ad-metrics-api/infrastructure/integrator"
)

func TestBucketActions_ParticionaPorTipo(t *testing.T) {
	actions := []integrator.Action{
		{Type: "lead", Value: 4},
		{Type: "onsite_conversion.lead_grouped", Value: 2},
		{Type: "purchase", Value: 3},
		{Type: "complete_checkout", Value: 1},
		{Type: "click_to_call", Value: 5},
		{Type: "app_install", Value: 7},
	}

	buckets := BucketActions(actions)

	assert.Equal(t, int64(6), buckets.Leads)
	assert.Equal(t, int64(4), buckets.Purchases)
	assert.Equal(t, int64(5), buckets.Calls)
	assert.Equal(t, int64(7), buckets.Other)
}

func TestBucketActions_SomaDosBaldesIgualAoTotal(t *testing.T) {
	// Toda ação que não é engajamento cai em exatamente um balde de conversão,
	// então a soma dos baldes é o total de conversões
	actions := []integrator.Action{
		{Type: "lead", Value: 10},
		{Type: "purchase", Value: 5},
		{Type: "phone_call", Value: 2},
		{Type: "subscribe", Value: 8},
		{Type: "donate", Value: 1},
	}

	buckets := BucketActions(actions)

	sum := buckets.Leads + buckets.Purchases + buckets.Calls + buckets.Other
	assert.Equal(t, sum, buckets.TotalConversions())
	assert.Equal(t, int64(26), buckets.TotalConversions())
}

func TestBucketActions_EngajamentoNaoContaComoConversao(t *testing.T) {
	actions := []integrator.Action{
		{Type: "link_click", Value: 150},
		{Type: "post_reaction", Value: 42},
		{Type: "video_view", Value: 900},
		{Type: "like", Value: 33},
	}

	buckets := BucketActions(actions)

	assert.Equal(t, int64(0), buckets.TotalConversions())
	assert.Equal(t, int64(0), buckets.AddToCart)
}

func TestBucketActions_CarrinhoESessoesForaDasConversoes(t *testing.T) {
	actions := []integrator.Action{
		{Type: "add_to_cart", Value: 12},
		{Type: "landing_page_view", Value: 30},
		{Type: "lead", Value: 2},
	}

	buckets := BucketActions(actions)

	assert.Equal(t, int64(12), buckets.AddToCart)
	assert.Equal(t, int64(30), buckets.Sessions)
	assert.Equal(t, int64(2), buckets.TotalConversions())
}

func TestBucketActions_ValorFracionarioTruncado(t *testing.T) {
	buckets := BucketActions([]integrator.Action{
		{Type: "conversions", Value: 3.7},
	})

	assert.Equal(t, int64(3), buckets.Other)
}

func TestConvertCurrency(t *testing.T) {
	assert.InDelta(t, 54.3, ConvertCurrency(10, "USD", "BRL"), 0.001)
	assert.Equal(t, 10.0, ConvertCurrency(10, "BRL", "BRL"))
	assert.Equal(t, 0.0, ConvertCurrency(0, "USD", "BRL"))

	// Par desconhecido mantém o valor original
	assert.Equal(t, 99.0, ConvertCurrency(99, "JPY", "BRL"))
}
