package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// collectValues merges the values file with --set pairs; pairs win.
func collectValues(file string, pairs []string) (map[string]string, error) {
	values := make(map[string]string)
	if file != "" {
		fromFile, err := loadValuesFile(file)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			values[k] = v
		}
	}

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q, want name=value", pair)
		}
		values[name] = value
	}
	return values, nil
}

// loadValuesFile reads a flat YAML or JSON mapping of field values. Scalars
// are converted to text; null becomes an empty value.
func loadValuesFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading values: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing values %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			values[k] = ""
		case string:
			values[k] = v
		case bool, int, int64, uint64, float64:
			values[k] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("parsing values %s: field %q must be a scalar", path, k)
		}
	}
	return values, nil
}
