package stats

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// mustFloat converte a string decimal do evento para o INCRBYFLOAT.
// Evento malformado conta como zero em vez de travar o worker.
func mustFloat(s string) float64 {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

func asInt(v any) int64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// asMoney normaliza o acumulador float do Redis para duas casas.
func asMoney(v any) string {
	s, ok := v.(string)
	if !ok {
		return "0.00"
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}
