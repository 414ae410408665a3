package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefs_UnmarshalJSON_NormalizesShapes(t *testing.T) {
	var got Refs
	err := json.Unmarshal([]byte(`["rent", 42, {"id": "sale", "name": "Sale"}, {"value": 7}, "", "  lease  "]`), &got)
	require.NoError(t, err)

	assert.Equal(t, Refs{{ID: "rent"}, {ID: "42"}, {ID: "sale"}, {ID: "7"}, {ID: "lease"}}, got)
}

func TestRefs_UnmarshalJSON_SingleValue(t *testing.T) {
	var got Refs
	require.NoError(t, json.Unmarshal([]byte(`{"id":"villa"}`), &got))

	assert.Equal(t, Refs{{ID: "villa"}}, got)
}

func TestRefs_UnmarshalJSON_ObjectWithoutID(t *testing.T) {
	var got Refs
	err := json.Unmarshal([]byte(`[{"name":"nameless"}]`), &got)

	assert.Error(t, err)
}

func TestRefs_IDs_Distinct(t *testing.T) {
	rs := Refs{{ID: "a"}, {ID: "b"}, {ID: "a"}, {ID: ""}}

	assert.Equal(t, []string{"a", "b"}, rs.IDs())
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "number", input: `12.5`, want: 12.5},
		{name: "numeric string", input: `"1,250,000"`, want: 1250000},
		{name: "blank string", input: `"  "`, want: 0},
		{name: "invalid string", input: `"abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			err := json.Unmarshal([]byte(tt.input), &a)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, a.Float(), 1e-9)
		})
	}
}

func TestEstimatedRevenue_Lenient(t *testing.T) {
	var e EstimatedRevenue
	require.NoError(t, json.Unmarshal([]byte(`{"estimated_revenue":"n/a","price":"1200.5","currency":"USD"}`), &e))

	v, ok := e.Value()
	assert.True(t, ok)
	assert.InDelta(t, 1200.5, v, 1e-9)
	assert.Nil(t, e.EstimatedRevenue)
	assert.Equal(t, "USD", e.Currency)

	var empty EstimatedRevenue
	require.NoError(t, json.Unmarshal([]byte(`{}`), &empty))
	_, ok = empty.Value()
	assert.False(t, ok)
}
