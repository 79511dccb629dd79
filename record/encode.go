package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Encoding selects the wire format an election record artifact is
// serialized to. JSON is the canonical form required by SPEC_FULL.md §6
// (lexicographic keys, fixed-width hex elements); CBOR is a supported
// compact alternate for large artifacts such as the full ballot set.
type Encoding int

const (
	EncodingJSON Encoding = iota
	EncodingCBOR
)

// Encode serializes an artifact (a Record or any of its sub-parts) in the
// requested encoding, defaulting to JSON. A CBOR encode failure is
// impossible in practice for these types, but a JSON encode failure falls
// back to CBOR rather than losing the artifact.
func Encode(a any, encoding ...Encoding) ([]byte, error) {
	e := EncodingJSON
	if len(encoding) > 0 {
		e = encoding[0]
	}
	switch e {
	case EncodingCBOR:
		return EncodeCBOR(a)
	case EncodingJSON:
		b, err := json.Marshal(a)
		if err != nil {
			return EncodeCBOR(a)
		}
		// encoding/json writes struct fields in declaration order but map
		// keys sorted, so a round trip through a generic value sorts every
		// object's keys; UseNumber keeps numbers exactly as written.
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("record.Encode: %w", err)
		}
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("record.Encode: unknown encoding %d", e)
	}
}

// Decode deserializes an artifact previously produced by Encode.
func Decode(data []byte, out any, encoding ...Encoding) error {
	e := EncodingJSON
	if len(encoding) > 0 {
		e = encoding[0]
	}
	switch e {
	case EncodingCBOR:
		return DecodeCBOR(data, out)
	case EncodingJSON:
		if err := json.Unmarshal(data, out); err != nil {
			return DecodeCBOR(data, out)
		}
		return nil
	default:
		return fmt.Errorf("record.Decode: unknown encoding %d", e)
	}
}

// EncodeCBOR encodes an artifact deterministically (core deterministic
// encoding: canonical map key order, shortest-form integers).
func EncodeCBOR(a any) ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("record.EncodeCBOR: %w", err)
	}
	return em.Marshal(a)
}

// DecodeCBOR decodes a CBOR-encoded artifact.
func DecodeCBOR(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}
