// market/instruments.go
package market

import (
	"math"
	"strings"
)

type InstrumentMeta struct {
	Name          string
	BaseCurrency  string
	QuoteCurrency string
	PipLocation   int
}

func fx(base, quote string) InstrumentMeta {
	loc := -4
	if quote == "JPY" {
		loc = -2
	}
	return InstrumentMeta{
		Name:          base + quote,
		BaseCurrency:  base,
		QuoteCurrency: quote,
		PipLocation:   loc,
	}
}

var Instruments = map[string]InstrumentMeta{
	"EURUSD": fx("EUR", "USD"),
	"GBPUSD": fx("GBP", "USD"),
	"USDJPY": fx("USD", "JPY"),
	"USDCHF": fx("USD", "CHF"),
	"AUDUSD": fx("AUD", "USD"),
	"USDCAD": fx("USD", "CAD"),
	"NZDUSD": fx("NZD", "USD"),
	"EURJPY": fx("EUR", "JPY"),
	"GBPJPY": fx("GBP", "JPY"),
	"EURGBP": fx("EUR", "GBP"),
	"AUDJPY": fx("AUD", "JPY"),
	"EURCHF": fx("EUR", "CHF"),
}

// Normalize turns "EUR_USD", "EUR/USD" or "eurusd" into "EURUSD".
func Normalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	return strings.NewReplacer("_", "", "/", "", "-", "", " ", "").Replace(s)
}

// Lookup returns the instrument metadata for symbol. Unknown six letter
// symbols are derived from their currency codes.
func Lookup(symbol string) (InstrumentMeta, bool) {
	name := Normalize(symbol)
	if meta, ok := Instruments[name]; ok {
		return meta, true
	}
	if len(name) == 6 {
		return fx(name[:3], name[3:]), false
	}
	return InstrumentMeta{Name: name, PipLocation: -4}, false
}

// PipSize is 0.01 for JPY quoted pairs and 0.0001 for everything else.
func PipSize(symbol string) float64 {
	meta, _ := Lookup(symbol)
	return math.Pow(10, float64(meta.PipLocation))
}

// ToPips converts a price distance into pips.
func ToPips(symbol string, distance float64) float64 {
	return distance / PipSize(symbol)
}

// FromPips converts pips into a price distance.
func FromPips(symbol string, pips float64) float64 {
	return pips * PipSize(symbol)
}

// RoundPrice rounds a price to pipette precision (a tenth of a pip).
func RoundPrice(symbol string, price float64) float64 {
	pipette := PipSize(symbol) / 10
	return math.Round(price/pipette) * pipette
}
