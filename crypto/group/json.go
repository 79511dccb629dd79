package group

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/electionguard-go/core/egerrors"
)

// MarshalJSON renders the element as a lowercase, zero-padded, prefix-free
// hex string, matching the wire layout fixed for every ElementModQ in the
// election record.
func (e ElementModQ) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON parses the hex form produced by MarshalJSON, rejecting
// anything that is not exactly ByteLenQ bytes or that decodes out of range.
func (e *ElementModQ) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := decodeFixedHex(s, ByteLenQ)
	if err != nil {
		return egerrors.New(egerrors.InvalidElement, "ElementModQ.UnmarshalJSON", err)
	}
	v, err := ElementModQFromBytes(b)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// MarshalJSON renders the element as a lowercase, zero-padded hex string.
func (e ElementModP) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON parses the hex form produced by MarshalJSON.
func (e *ElementModP) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := decodeFixedHex(s, ByteLenP)
	if err != nil {
		return egerrors.New(egerrors.InvalidElement, "ElementModP.UnmarshalJSON", err)
	}
	v, err := ElementModPFromBytes(b)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

func decodeFixedHex(s string, width int) ([]byte, error) {
	if len(s) != width*2 {
		return nil, fmt.Errorf("expected %d hex chars, got %d", width*2, len(s))
	}
	return hex.DecodeString(s)
}
