package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JLuisHub/flujo-de-datosV2/internal/types"
)

func TestCheckFieldCount(t *testing.T) {
	pos := Position{Source: "a.txt", Index: 3, Record: "x"}

	t.Run("Should accept exactly eight fields", func(t *testing.T) {
		fields := []string{"1", "A", "desc", "2", "2023-01-01", "10.0", "P1", "MX"}
		assert.NoError(t, CheckFieldCount(fields, pos))
	})

	t.Run("Should reject seven and nine fields as malformed", func(t *testing.T) {
		for _, n := range []int{7, 9} {
			err := CheckFieldCount(make([]string, n), pos)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrMalformedRecord))

			var recErr *types.RecordError
			require.True(t, errors.As(err, &recErr))
			assert.Equal(t, "a.txt", recErr.Source)
			assert.Equal(t, 3, recErr.Index)
		}
	})
}

func TestCheckTrailingDelimiter(t *testing.T) {
	t.Run("Should accept an empty tail", func(t *testing.T) {
		assert.NoError(t, CheckTrailingDelimiter("", Position{}))
	})

	t.Run("Should reject leftover text after the last delimiter", func(t *testing.T) {
		err := CheckTrailingDelimiter("1,A", Position{Source: "b.txt", Index: 2})
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrMalformedRecord)
		assert.Contains(t, err.Error(), "trailing delimiter")
	})
}

func TestParseNumeric(t *testing.T) {
	fields := []string{"1", "A", "desc", " 2 ", "2023-01-01", "abc", "P1", "MX"}
	pos := Position{Source: "c.txt", Index: 1}

	t.Run("Should parse a number and keep its text", func(t *testing.T) {
		n, err := ParseNumeric(fields, types.FieldQuantity, pos)
		require.NoError(t, err)
		assert.Equal(t, 2.0, n.Value)
		assert.Equal(t, " 2 ", n.Text)
	})

	t.Run("Should report the failing field name and value", func(t *testing.T) {
		_, err := ParseNumeric(fields, types.FieldUnitPrice, pos)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrNumericParse)

		var recErr *types.RecordError
		require.True(t, errors.As(err, &recErr))
		assert.Equal(t, "unit_price", recErr.Field)
		assert.Equal(t, "abc", recErr.Value)
	})

	t.Run("Should reject non-finite values", func(t *testing.T) {
		for _, v := range []string{"NaN", "inf", "-Inf", "1e400"} {
			f := append([]string(nil), fields...)
			f[types.FieldQuantity] = v
			_, err := ParseNumeric(f, types.FieldQuantity, pos)
			assert.ErrorIs(t, err, types.ErrNumericParse, v)
		}
	})
}
