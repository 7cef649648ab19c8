package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_Presence(t *testing.T) {
	var req dto.UpdateProductRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Vase"}`), &req))
	assert.False(t, req.Price.Present)
	assert.False(t, req.Stock.Present)

	require.NoError(t, json.Unmarshal([]byte(`{"stock":0,"price":"12.50"}`), &req))
	assert.True(t, req.Stock.Present)
	assert.True(t, req.Stock.Falsy)
	n, ok := req.Stock.Int()
	assert.True(t, ok)
	assert.Equal(t, 0, n)

	assert.True(t, req.Price.Present)
	assert.False(t, req.Price.Falsy)
	p, ok := req.Price.Float()
	assert.True(t, ok)
	assert.Equal(t, 12.5, p)
}

func TestNumber_FalsyValues(t *testing.T) {
	for _, raw := range []string{`0`, `""`, `null`} {
		var n dto.Number
		require.NoError(t, json.Unmarshal([]byte(raw), &n), raw)
		assert.True(t, n.Present, raw)
		assert.True(t, n.Falsy, raw)
	}
}

func TestNumber_StringForms(t *testing.T) {
	var n dto.Number
	require.NoError(t, json.Unmarshal([]byte(`"0"`), &n))
	assert.False(t, n.Falsy, "a non-empty string is truthy")

	n = dto.Number{}
	require.NoError(t, json.Unmarshal([]byte(`"12abc"`), &n))
	assert.False(t, n.Valid)
	v, ok := n.Int()
	assert.True(t, ok)
	assert.Equal(t, 12, v)

	n = dto.Number{}
	require.NoError(t, json.Unmarshal([]byte(`"abc"`), &n))
	_, ok = n.Int()
	assert.False(t, ok)
	_, ok = n.Float()
	assert.False(t, ok)
}

func TestNumber_RejectsNonNumericJSON(t *testing.T) {
	var n dto.Number
	assert.Error(t, json.Unmarshal([]byte(`true`), &n))
}
