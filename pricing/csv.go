package pricing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order for the first column.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ReadCandlesCSV reads rows of time,open,high,low,close. A header row is
// skipped when its first price column is not a number. Extra columns such as
// volume are ignored.
func ReadCandlesCSV(r io.Reader) ([]Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []Candle
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read candles: %w", err)
		}
		line++

		if len(rec) < 5 {
			return nil, fmt.Errorf("line %d: want 5 columns, got %d", line, len(rec))
		}
		if line == 1 {
			if _, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64); err != nil {
				continue
			}
		}

		c, err := parseCandle(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadCandlesCSV reads candles from a file.
func LoadCandlesCSV(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candles: %w", err)
	}
	defer f.Close()
	return ReadCandlesCSV(f)
}

func parseCandle(rec []string) (Candle, error) {
	ts, err := parseTime(strings.TrimSpace(rec[0]))
	if err != nil {
		return Candle{}, err
	}

	var px [4]float64
	for i := range px {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i+1]), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("column %d: %w", i+2, err)
		}
		px[i] = v
	}
	if px[1] < px[2] {
		return Candle{}, fmt.Errorf("high %v below low %v", px[1], px[2])
	}

	return Candle{Time: ts, Open: px[0], High: px[1], Low: px[2], Close: px[3]}, nil
}

func parseTime(s string) (time.Time, error) {
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
