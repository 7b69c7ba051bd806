package correlation

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads an authored table from path. The file is a mapping of
// symbol to a mapping of symbol to coefficient, YAML or JSON.
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read correlation table: %w", err)
	}

	raw, err := parseRaw(data)
	if err != nil {
		return Table{}, err
	}

	t, err := New(raw)
	if err != nil {
		return Table{}, fmt.Errorf("correlation table %s: %w", path, err)
	}
	return t, nil
}

// LoadRawFile reads an authored table without normalizing it, so it can be
// audited with Asymmetries.
func LoadRawFile(path string) (map[string]map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read correlation table: %w", err)
	}
	return parseRaw(data)
}

func parseRaw(data []byte) (map[string]map[string]float64, error) {
	raw := map[string]map[string]float64{}

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, &raw); err != nil {
		raw = map[string]map[string]float64{}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse correlation table (tried YAML and JSON): %w", err)
		}
	}
	return raw, nil
}

// SaveFile writes the table as YAML, one row per symbol.
func (t Table) SaveFile(path string) error {
	data, err := yaml.Marshal(t.Raw())
	if err != nil {
		return fmt.Errorf("marshal correlation table: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write correlation table: %w", err)
	}
	return nil
}
