package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Frame is one [suffix, payload] unit of the serial protocol.
//
// Payload is an arbitrary decoded JSON value. Numeric literals decode to
// json.Number, which keeps the exact digit sequence from the wire: a node
// reporting 23.50 is published as 23.50, never 23.5.
type Frame struct {
	Suffix  string
	Payload any
}

// nullPayload is what an empty or absent payload encodes as.
var nullPayload = []byte("null")

// DecodeLine parses one serial line as a frame.
//
// The line must be a JSON array of at least two elements whose first
// element is a non-empty string. Extra elements are tolerated and ignored,
// matching the tolerance of earlier gateway releases. Trailing non-space
// bytes after the array are rejected.
//
// Returns:
//   - Frame: Decoded suffix and payload
//   - error: Wrapped ErrFrameDecode if the line is not a valid frame
func DecodeLine(line []byte) (Frame, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	var elems []any
	if err := dec.Decode(&elems); err != nil {
		return Frame{}, fmt.Errorf("%w: %w", ErrFrameDecode, err)
	}
	if dec.More() {
		return Frame{}, fmt.Errorf("%w: trailing data after array", ErrFrameDecode)
	}
	if len(elems) < 2 {
		return Frame{}, fmt.Errorf("%w: array needs at least 2 elements, got %d", ErrFrameDecode, len(elems))
	}

	suffix, ok := elems[0].(string)
	if !ok {
		return Frame{}, fmt.Errorf("%w: first element must be a string", ErrFrameDecode)
	}
	if suffix == "" {
		return Frame{}, fmt.Errorf("%w: empty topic suffix", ErrFrameDecode)
	}

	return Frame{Suffix: suffix, Payload: elems[1]}, nil
}

// MarshalPayload serializes a decoded payload back to JSON text.
//
// json.Number values emit their original digit text unchanged, so decimal
// precision survives the round trip. A nil payload serializes as null.
func MarshalPayload(payload any) ([]byte, error) {
	if payload == nil {
		return nullPayload, nil
	}
	return json.Marshal(payload)
}

// EncodeRawLine builds the outbound serial line for the bus-to-serial
// direction: ["<suffix>",<payload>]\n.
//
// The payload bytes are spliced in unparsed — whatever arrived from the bus
// goes to the node verbatim. An empty payload is forced to null so the node
// always sees a two-element array.
func EncodeRawLine(suffix string, payload []byte) []byte {
	if len(payload) == 0 {
		payload = nullPayload
	}

	quoted, _ := json.Marshal(suffix) // marshaling a string cannot fail

	line := make([]byte, 0, len(quoted)+len(payload)+3)
	line = append(line, '[')
	line = append(line, quoted...)
	line = append(line, ',')
	line = append(line, payload...)
	line = append(line, ']', '\n')
	return line
}

// EncodeLine serializes a frame to its wire form.
//
// It is the inverse of DecodeLine: DecodeLine(EncodeLine(s, p)) reproduces
// (s, p) exactly for any valid pair, including exact decimal text.
func EncodeLine(suffix string, payload any) ([]byte, error) {
	data, err := MarshalPayload(payload)
	if err != nil {
		return nil, err
	}
	return EncodeRawLine(suffix, data), nil
}
