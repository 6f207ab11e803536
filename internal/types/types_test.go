package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_MarshalJSON(t *testing.T) {
	cases := map[string]struct {
		in   Amount
		want string
	}{
		"whole value":     {in: 20, want: "20.0"},
		"zero":            {in: 0, want: "0.0"},
		"fractional":      {in: 1.5, want: "1.5"},
		"negative whole":  {in: -3, want: "-3.0"},
		"large whole":     {in: 1e21, want: "1000000000000000000000.0"},
	}
	for name, tc := range cases {
		t.Run("Should write a decimal point for "+name, func(t *testing.T) {
			data, err := json.Marshal(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(data))
		})
	}

	t.Run("Should reject a non-finite amount", func(t *testing.T) {
		_, err := json.Marshal(Amount(math.Inf(1)))
		assert.Error(t, err)
	})

	t.Run("Should decode back into the same value", func(t *testing.T) {
		rec := NewSaleRecord("d", Number{Text: "2", Value: 2}, Number{Text: "10.0", Value: 10}, "1", "P", "MX")
		data, err := json.Marshal(rec)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"total":20.0`)

		var back SaleRecord
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, Amount(20), back.Total)
	})
}

func TestParseNumber(t *testing.T) {
	t.Run("Should keep the original text and trim for parsing", func(t *testing.T) {
		n, err := ParseNumber(" 2.50 ")
		require.NoError(t, err)
		assert.Equal(t, " 2.50 ", n.Text)
		assert.Equal(t, 2.5, n.Value)
	})

	t.Run("Should reject non-finite values", func(t *testing.T) {
		for _, text := range []string{"NaN", "inf", "-Inf"} {
			_, err := ParseNumber(text)
			assert.Error(t, err, text)
		}
	})
}
