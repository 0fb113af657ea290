package normalizing

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ad-metrics-api/pkg/utils"
)

// Tabela estática de conversão de moedas. Taxas aproximadas, revisadas
// manualmente; consulta de cotação ao vivo está fora do escopo do motor.
var conversionRates = map[string]float64{
	"USD:BRL": 5.43,
	"BRL:USD": 0.18,
	"EUR:BRL": 5.88,
	"BRL:EUR": 0.17,
	"USD:EUR": 0.92,
	"EUR:USD": 1.08,
	"GBP:USD": 1.27,
	"USD:GBP": 0.79,
	"GBP:BRL": 6.89,
	"BRL:GBP": 0.15,
}

// ConvertCurrency converte um valor monetário entre moedas pela tabela
// estática. Par desconhecido mantém o valor original com um aviso no log,
// para não derrubar o chunk por causa de uma moeda nova.
func ConvertCurrency(amount float64, from, to string) float64 {
	if amount == 0 || from == "" || from == to {
		return amount
	}

	rate, ok := conversionRates[fmt.Sprintf("%s:%s", from, to)]
	if !ok {
		logrus.WithFields(logrus.Fields{
			"from": from,
			"to":   to,
		}).Warn("Par de moedas sem taxa na tabela de conversão. Mantendo valor original")
		return amount
	}

	return utils.RoundWithTwoDecimalPlace(amount * rate)
}
