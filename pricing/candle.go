package pricing

import "time"

type Candle struct {
	Time time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Series splits candles into the high, low and close columns indicator
// functions expect.
func Series(candles []Candle) (highs, lows, closes []float64) {
	highs = make([]float64, len(candles))
	lows = make([]float64, len(candles))
	closes = make([]float64, len(candles))
	for i, c := range candles {
		highs[i] = c.High
		lows[i] = c.Low
		closes[i] = c.Close
	}
	return highs, lows, closes
}

// Closes returns the closing prices of candles.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
