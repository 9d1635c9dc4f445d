// Package meta builds key/value documents from layered sources: environment
// variables, a JSON or YAML file, a JSON string and key=value pairs.
// Later sources override earlier ones.
package meta

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseKV parses a key=value pair, attempting type inference for the value
func ParseKV(kvPair string) (string, any, error) {
	key, valueStr, ok := strings.Cut(kvPair, "=")
	if !ok {
		return "", nil, fmt.Errorf("invalid format, expected key=value: %s", kvPair)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", nil, fmt.Errorf("empty key in key=value pair")
	}

	valueStr = strings.TrimSpace(valueStr)

	// Integers first so "1" is not read as boolean true
	if intVal, err := strconv.Atoi(valueStr); err == nil {
		return key, intVal, nil
	}

	if floatVal, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return key, floatVal, nil
	}

	// Only the explicit spellings count as booleans
	if valueStr == "true" || valueStr == "false" {
		return key, valueStr == "true", nil
	}

	return key, valueStr, nil
}

// SplitKV splits a key=value pair without type inference.
func SplitKV(kvPair string) (string, string, error) {
	key, value, ok := strings.Cut(kvPair, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid format, expected key=value: %s", kvPair)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("empty key in key=value pair")
	}
	return key, strings.TrimSpace(value), nil
}

// ParseJSON parses a JSON string into a map or other structure
func ParseJSON(jsonStr string) (any, error) {
	var result any
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return result, nil
}

// ParseFile reads a document from a file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var result any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("invalid YAML in file %s: %w", path, err)
		}
		if result == nil {
			return nil, fmt.Errorf("empty YAML document in file %s", path)
		}
	default:
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("invalid JSON in file %s: %w", path, err)
		}
	}
	return result, nil
}

// ParseEnvWithPrefix reads PREFIX as a JSON object and every PREFIX_NAME
// variable as key "name". It returns nil when nothing is set.
func ParseEnvWithPrefix(prefix string) map[string]any {
	values := make(map[string]any)

	// Invalid JSON in PREFIX is ignored
	if jsonStr := os.Getenv(prefix); jsonStr != "" {
		if parsed, err := ParseJSON(jsonStr); err == nil {
			if m, ok := parsed.(map[string]any); ok {
				maps.Copy(values, m)
			}
		}
	}

	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if key == "" {
			continue
		}
		_, typed, _ := ParseKV(key + "=" + value)
		values[key] = typed
	}

	if len(values) == 0 {
		return nil
	}
	return values
}

// Merge merges documents, later ones overriding earlier ones key by key.
// A non-map document is returned as-is only when no map precedes it.
func Merge(docs ...any) any {
	result := make(map[string]any)

	for _, doc := range docs {
		if doc == nil {
			continue
		}

		switch v := doc.(type) {
		case map[string]any:
			maps.Copy(result, v)
		default:
			if len(result) == 0 {
				return v
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// Build merges, in increasing precedence, the environment under envPrefix,
// the file, the JSON string and the key=value pairs.
func Build(envPrefix, jsonStr string, kvPairs []string, filePath string) (any, error) {
	var docs []any

	if envDoc := ParseEnvWithPrefix(envPrefix); envDoc != nil {
		docs = append(docs, envDoc)
	}

	if filePath != "" {
		fileDoc, err := ParseFile(filePath)
		if err != nil {
			return nil, err
		}
		docs = append(docs, fileDoc)
	}

	if jsonStr != "" {
		jsonDoc, err := ParseJSON(jsonStr)
		if err != nil {
			return nil, err
		}
		docs = append(docs, jsonDoc)
	}

	if len(kvPairs) > 0 {
		kvDoc := make(map[string]any)
		for _, kv := range kvPairs {
			key, value, err := ParseKV(kv)
			if err != nil {
				return nil, err
			}
			kvDoc[key] = value
		}
		docs = append(docs, kvDoc)
	}

	return Merge(docs...), nil
}

// BuildMap is Build for documents that must be objects. It never returns a nil map.
func BuildMap(envPrefix, jsonStr string, kvPairs []string, filePath string) (map[string]any, error) {
	doc, err := Build(envPrefix, jsonStr, kvPairs, filePath)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return make(map[string]any), nil
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", doc)
	}
	return m, nil
}
