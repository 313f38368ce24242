package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var supplierSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"name"},
	"properties": map[string]interface{}{
		"name":  map[string]interface{}{"type": "string", "minLength": 1},
		"email": map[string]interface{}{"type": "string"},
		"type":  map[string]interface{}{"type": "string", "enum": []interface{}{"hotel", "lodge", "transport"}},
	},
}

func TestSchema_Validate(t *testing.T) {
	schema := MustCompile(supplierSchema)

	tests := []struct {
		name      string
		doc       map[string]interface{}
		wantValid bool
		wantField string
	}{
		{
			name:      "valid supplier",
			doc:       map[string]interface{}{"name": "Etosha Lodge", "type": "lodge"},
			wantValid: true,
		},
		{
			name:      "missing name",
			doc:       map[string]interface{}{"type": "hotel"},
			wantValid: false,
			wantField: "name",
		},
		{
			name:      "bad enum",
			doc:       map[string]interface{}{"name": "X", "type": "castle"},
			wantValid: false,
			wantField: "type",
		},
		{
			name:      "wrong type",
			doc:       map[string]interface{}{"name": 12.0},
			wantValid: false,
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := schema.Validate(tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, result.Valid)
			if !tt.wantValid {
				assert.True(t, result.HasErrors(tt.wantField), "errors: %v", result.GetErrorMessages())
				assert.NotEmpty(t, result.GetErrorMessages())
			}
		})
	}
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(map[string]interface{}{"type": 42})
	assert.Error(t, err)
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("ops@nomadtours.example"))
	assert.False(t, ValidateEmail("not-an-email"))
}
