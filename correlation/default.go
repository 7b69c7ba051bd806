package correlation

// defaultCoefficients are long run daily correlations between the majors and
// the most traded crosses. Each pair is authored once; New mirrors it.
var defaultCoefficients = map[string]map[string]float64{
	"EURUSD": {
		"GBPUSD": 0.73,
		"USDCHF": -0.87,
		"AUDUSD": 0.65,
		"NZDUSD": 0.62,
		"USDCAD": -0.55,
		"USDJPY": -0.30,
		"EURJPY": 0.50,
		"EURGBP": 0.35,
		"GBPJPY": 0.35,
		"EURCHF": 0.40,
	},
	"GBPUSD": {
		"USDCHF": -0.68,
		"AUDUSD": 0.58,
		"NZDUSD": 0.55,
		"USDCAD": -0.50,
		"USDJPY": -0.25,
		"GBPJPY": 0.60,
		"EURGBP": -0.40,
		"EURJPY": 0.40,
	},
	"USDJPY": {
		"USDCHF": 0.45,
		"EURJPY": 0.78,
		"GBPJPY": 0.72,
		"AUDJPY": 0.70,
		"AUDUSD": -0.20,
		"USDCAD": 0.30,
		"NZDUSD": -0.20,
	},
	"USDCHF": {
		"AUDUSD": -0.55,
		"NZDUSD": -0.52,
		"USDCAD": 0.48,
		"EURJPY": -0.20,
		"EURCHF": 0.30,
	},
	"AUDUSD": {
		"NZDUSD": 0.88,
		"USDCAD": -0.62,
		"AUDJPY": 0.76,
	},
	"NZDUSD": {
		"USDCAD": -0.58,
		"AUDJPY": 0.68,
	},
	"EURJPY": {
		"GBPJPY": 0.89,
		"AUDJPY": 0.81,
	},
	"GBPJPY": {
		"AUDJPY": 0.79,
	},
}

var defaultTable = MustNew(defaultCoefficients)

// Default returns the built-in correlation table.
func Default() Table {
	return defaultTable
}
