// =============================================================================
// Sales Pipeline - Record Validation
// =============================================================================
//
// This module holds the checks applied to one raw sub-record before it becomes
// a SaleRecord:
//   - Field count: exactly types.FieldCount positional fields
//   - Numeric fields: quantity and unit_price must parse as finite numbers
//
// ERROR HANDLING:
//   Every check returns a *types.RecordError carrying the source, the
//   sub-record index and the offending value. The caller decides whether to
//   abort; the pipeline always aborts on the first error.
//
// =============================================================================

package validation

import (
	"fmt"

	"github.com/JLuisHub/flujo-de-datosV2/internal/types"
)

// Position identifies a sub-record for error reporting.
type Position struct {
	// Source is the input name (usually the file path).
	Source string

	// Index is the 1-based position of the sub-record in the payload line.
	Index int

	// Record is the raw sub-record text.
	Record string
}

// CheckFieldCount verifies that fields has exactly types.FieldCount entries.
func CheckFieldCount(fields []string, pos Position) error {
	if len(fields) == types.FieldCount {
		return nil
	}
	return &types.RecordError{
		Kind:   types.ErrMalformedRecord,
		Source: pos.Source,
		Index:  pos.Index,
		Record: pos.Record,
		Reason: fmt.Sprintf("expected %d fields, got %d", types.FieldCount, len(fields)),
	}
}

// CheckTrailingDelimiter verifies that the text following the last sub-record
// delimiter is empty.
func CheckTrailingDelimiter(tail string, pos Position) error {
	if tail == "" {
		return nil
	}
	return &types.RecordError{
		Kind:   types.ErrMalformedRecord,
		Source: pos.Source,
		Index:  pos.Index,
		Record: tail,
		Reason: "payload line is missing its trailing delimiter",
	}
}

// ParseNumeric parses the field at position idx of fields as a number.
//
// PARAMETERS:
//   - fields: A sub-record that already passed CheckFieldCount.
//   - idx: One of the types.Field* positions.
//   - pos: Where the sub-record came from.
func ParseNumeric(fields []string, idx int, pos Position) (types.Number, error) {
	value := fields[idx]
	n, err := types.ParseNumber(value)
	if err != nil {
		return types.Number{}, &types.RecordError{
			Kind:   types.ErrNumericParse,
			Source: pos.Source,
			Index:  pos.Index,
			Record: pos.Record,
			Field:  types.FieldNames[idx],
			Value:  value,
			Reason: "not a valid number",
		}
	}
	return n, nil
}
