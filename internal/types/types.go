// =============================================================================
// Sales Pipeline - Shared Types
// =============================================================================
//
// This package contains the record types shared by the pipeline stages. They
// live here to avoid import cycles between:
//   - txtparser (produces records)
//   - transform (aggregates and persists records)
//   - artifact  (serializes records)
//   - report    (reads records back from the artifact)
//
// =============================================================================

package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldCount is the number of positional fields in one raw sub-record.
const FieldCount = 8

// Positions of the fields inside a raw sub-record.
const (
	FieldSequenceNumber = iota
	FieldCode
	FieldDescription
	FieldQuantity
	FieldDate
	FieldUnitPrice
	FieldID
	FieldCountry
)

// FieldNames maps each position to the column label used in error messages.
var FieldNames = [FieldCount]string{
	"sequence_number",
	"code",
	"description",
	"quantity",
	"date",
	"unit_price",
	"id",
	"country",
}

// =============================================================================
// NUMERIC FIELDS
// =============================================================================

// Number is a numeric field that keeps the text it was parsed from.
//
// The artifact carries quantity and price as their original text, while the
// pipeline computes with the parsed value. Marshalling writes Text as a JSON
// string; unmarshalling parses it back into Value.
type Number struct {
	Text  string
	Value float64
}

// ParseNumber parses text into a Number. Surrounding whitespace is tolerated,
// non-finite values are rejected.
func ParseNumber(text string) (Number, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return Number{}, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}, fmt.Errorf("non-finite value %q", text)
	}
	return Number{Text: text, Value: v}, nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Text)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("number must be a JSON string: %w", err)
	}
	parsed, err := ParseNumber(text)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// Amount is a computed monetary value. It is written to JSON with a decimal
// point even when whole (20.0, not 20) so readers always decode a float.
type Amount float64

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	v := float64(a)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("non-finite amount %v", v)
	}
	text := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(text, ".eE") {
		text += ".0"
	}
	return []byte(text), nil
}

// =============================================================================
// SALE RECORDS
// =============================================================================

// SaleRecord is one normalized sale line item.
// Field order matches the key order of the JSON artifact.
type SaleRecord struct {
	// Description is carried through verbatim.
	Description string `json:"description"`

	Quantity Number `json:"quantity"`
	Price    Number `json:"price"`

	// Total is always Price * Quantity, never read from input.
	Total Amount `json:"total"`

	// Invoice comes from the sub-record's sequence number.
	Invoice string `json:"invoice"`

	// Provider comes from the sub-record's id field.
	Provider string `json:"provider"`

	Country string `json:"country"`
}

// NewSaleRecord builds a record and computes its total.
func NewSaleRecord(description string, quantity, price Number, invoice, provider, country string) SaleRecord {
	return SaleRecord{
		Description: description,
		Quantity:    quantity,
		Price:       price,
		Total:       Amount(price.Value * quantity.Value),
		Invoice:     invoice,
		Provider:    provider,
		Country:     country,
	}
}
