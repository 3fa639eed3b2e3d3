package jsonmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestFromMapHandlesNil(t *testing.T) {
	assert.Empty(t, FromMap(nil))
}

func TestRoundTrip(t *testing.T) {
	in := map[string]interface{}{"key1": "test1", "key2": float64(2)}
	assert.Equal(t, in, ToMap(FromMap(in)))
}

func TestToMapHandlesNil(t *testing.T) {
	assert.Empty(t, ToMap(nil))
}

// A database scan decodes JSON numbers as json.Number; Normalize must
// hand back the float64 shape writers supplied, at any depth.
func TestNormalizeScannedNumbers(t *testing.T) {
	scanned := datatypes.JSONMap{
		"key1": "test1",
		"key2": json.Number("2"),
		"beams": map[string]interface{}{
			"count": json.Number("5"),
			"arc":   true,
		},
		"angles": []interface{}{json.Number("0"), json.Number("180")},
	}

	normalized := Normalize(scanned)

	assert.Equal(t, float64(2), normalized["key2"])
	assert.Equal(t, "test1", normalized["key1"])

	beams := normalized["beams"].(map[string]interface{})
	assert.Equal(t, float64(5), beams["count"])
	assert.Equal(t, true, beams["arc"])

	angles := normalized["angles"].([]interface{})
	assert.Equal(t, []interface{}{float64(0), float64(180)}, angles)
}

func TestNormalizeHandlesNil(t *testing.T) {
	assert.Nil(t, Normalize(nil))
}
