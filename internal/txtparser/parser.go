// =============================================================================
// Sales Pipeline - TXT Payload Parser
// =============================================================================
//
// This module parses one raw sales file into SaleRecords. The file format is:
//
//   line 1: header (column labels, never parsed)
//   line 2: payload, sub-records separated by ';' with a trailing ';'
//           each sub-record holds 8 ',' separated fields:
//           sequence_number,code,description,quantity,date,unit_price,id,country
//
// LIMITATIONS:
//   - Only line 2 carries data. Any further lines are ignored.
//   - A file without a payload line yields zero records.
//   - The payload must end with ';'. When text follows the last ';' the file
//     is rejected as malformed instead of dropping that trailing sub-record.
//
// Parsing is all-or-nothing: the first malformed sub-record aborts the file.
//
// =============================================================================

package txtparser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JLuisHub/flujo-de-datosV2/internal/types"
	"github.com/JLuisHub/flujo-de-datosV2/internal/validation"
)

const (
	// RecordDelimiter separates sub-records on the payload line.
	RecordDelimiter = ";"

	// FieldDelimiter separates fields inside a sub-record.
	FieldDelimiter = ","
)

// =============================================================================
// PAYLOAD EXTRACTION
// =============================================================================

// Payload is the first two lines of a raw file.
type Payload struct {
	// Source is the input name used in error messages.
	Source string

	// Header is line 1 without its terminator.
	Header string

	// Line is line 2 without its terminator. Empty when the file has no
	// payload line.
	Line string
}

// SubRecord is one non-empty sub-record from a payload line.
type SubRecord struct {
	// Index is the 1-based position in the payload line, counting empty
	// sub-records too, so it matches what a reader sees in the file.
	Index int

	Text string
}

// ReadPayload reads the header and payload lines from r. Anything after the
// second line is left unread.
func ReadPayload(r io.Reader, source string) (Payload, error) {
	reader := bufio.NewReader(r)

	header, err := readLine(reader)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to read header line of %s: %w", source, err)
	}

	line, err := readLine(reader)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to read payload line of %s: %w", source, err)
	}

	return Payload{Source: source, Header: header, Line: line}, nil
}

// readLine returns the next line without its "\n" or "\r\n" terminator.
// End of input is not an error; it yields whatever was read, possibly "".
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// SubRecords splits the payload line into its non-empty sub-records.
//
// The element after the final delimiter is discarded. It must be blank:
// leftover text there means the trailing delimiter is missing and the line is
// rejected as malformed rather than silently dropping a record.
func (p Payload) SubRecords() ([]SubRecord, error) {
	if p.Line == "" {
		return nil, nil
	}

	parts := strings.Split(p.Line, RecordDelimiter)
	last := len(parts) - 1

	if err := validation.CheckTrailingDelimiter(strings.TrimSpace(parts[last]), validation.Position{
		Source: p.Source,
		Index:  last + 1,
	}); err != nil {
		return nil, err
	}

	records := make([]SubRecord, 0, last)
	for i, text := range parts[:last] {
		if text == "" {
			continue
		}
		records = append(records, SubRecord{Index: i + 1, Text: text})
	}

	return records, nil
}

// =============================================================================
// SUB-RECORD PARSING
// =============================================================================

// ParseSubRecord converts one sub-record into a SaleRecord.
//
// RETURNS:
//   - The normalized record with its total computed.
//   - A *types.RecordError wrapping ErrMalformedRecord or ErrNumericParse.
func ParseSubRecord(source string, sr SubRecord) (types.SaleRecord, error) {
	pos := validation.Position{Source: source, Index: sr.Index, Record: sr.Text}

	fields := strings.Split(sr.Text, FieldDelimiter)
	if err := validation.CheckFieldCount(fields, pos); err != nil {
		return types.SaleRecord{}, err
	}

	quantity, err := validation.ParseNumeric(fields, types.FieldQuantity, pos)
	if err != nil {
		return types.SaleRecord{}, err
	}

	price, err := validation.ParseNumeric(fields, types.FieldUnitPrice, pos)
	if err != nil {
		return types.SaleRecord{}, err
	}

	return types.NewSaleRecord(
		fields[types.FieldDescription],
		quantity,
		price,
		fields[types.FieldSequenceNumber],
		fields[types.FieldID],
		fields[types.FieldCountry],
	), nil
}

// =============================================================================
// PARSER
// =============================================================================

// Parse reads one raw file from r and returns its records in payload order.
func Parse(r io.Reader, source string) ([]types.SaleRecord, error) {
	payload, err := ReadPayload(r, source)
	if err != nil {
		return nil, err
	}

	subRecords, err := payload.SubRecords()
	if err != nil {
		return nil, err
	}

	records := make([]types.SaleRecord, 0, len(subRecords))
	for _, sr := range subRecords {
		record, err := ParseSubRecord(source, sr)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}
