package jsonmap

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// FromMap converts a plain map into a GORM JSON map value.
func FromMap(values map[string]interface{}) datatypes.JSONMap {
	out := datatypes.JSONMap{}
	for key, value := range values {
		out[key] = value
	}
	return out
}

// ToMap converts a GORM JSON map value into a plain map.
func ToMap(values datatypes.JSONMap) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for key, value := range values {
		out[key] = normalize(value)
	}
	return out
}

// Normalize rewrites a JSON map scanned from the database so that it
// is structurally identical to what a writer supplied: the scan
// decodes numbers as json.Number, writers carry float64.
func Normalize(values datatypes.JSONMap) datatypes.JSONMap {
	if values == nil {
		return nil
	}

	out := make(datatypes.JSONMap, len(values))
	for key, value := range values {
		out[key] = normalize(value)
	}
	return out
}

func normalize(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, entry := range v {
			out[key] = normalize(entry)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, entry := range v {
			out[i] = normalize(entry)
		}
		return out
	}
	return value
}
