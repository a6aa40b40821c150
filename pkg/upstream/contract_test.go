package upstream

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placesSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["lat", "lon"],
    "properties": {
      "lat": {"type": "string"},
      "lon": {"type": "string"}
    }
  }
}`

func TestContract_Validate(t *testing.T) {
	contract := MustContract("places", placesSchema)
	assert.Equal(t, "places", contract.Name())

	tests := []struct {
		name           string
		body           string
		wantErr        bool
		wantViolations bool
	}{
		{name: "valid", body: `[{"lat":"47.37","lon":"8.54"}]`},
		{name: "empty array", body: `[]`},
		{name: "object instead of array", body: `{"error":"Unable to geocode"}`, wantErr: true, wantViolations: true},
		{name: "numeric coordinates", body: `[{"lat":47.37,"lon":8.54}]`, wantErr: true, wantViolations: true},
		{name: "not json", body: `<html>`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := contract.Validate(BackendGeolocation, []byte(tt.body))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			var contractErr *ContractError
			require.True(t, errors.As(err, &contractErr))
			assert.Equal(t, "places", contractErr.Contract)
			assert.Equal(t, tt.wantViolations, len(contractErr.Violations) > 0)
		})
	}
}

func TestContract_Decode(t *testing.T) {
	contract := MustContract("places", placesSchema)

	var places []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	require.NoError(t, contract.Decode(BackendGeolocation, []byte(`[{"lat":"1.5","lon":"2.5"}]`), &places))
	require.Len(t, places, 1)
	assert.Equal(t, "2.5", places[0].Lon)
}

func TestNewContract_InvalidSchema(t *testing.T) {
	_, err := NewContract("broken", `{"type": 12}`)
	assert.Error(t, err)
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, 404, StatusCode(&StatusError{StatusCode: 404}))
	assert.Equal(t, 500, StatusCode(&TransportError{Cause: errors.New("refused")}))
	assert.Equal(t, 500, StatusCode(&ContractError{}))
	assert.Equal(t, 500, StatusCode(errors.New("other")))
}
