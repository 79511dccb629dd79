package group

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/electionguard-go/core/egerrors"
)

// MarshalCBOR renders the element as the same fixed-width hex string used
// by MarshalJSON, so a record encoded as CBOR carries identical element
// text to its JSON counterpart.
func (e ElementModQ) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(e.String())
}

// UnmarshalCBOR parses the hex form produced by MarshalCBOR.
func (e *ElementModQ) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := decodeFixedHex(s, ByteLenQ)
	if err != nil {
		return egerrors.New(egerrors.InvalidElement, "ElementModQ.UnmarshalCBOR", err)
	}
	v, err := ElementModQFromBytes(b)
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// MarshalCBOR renders the element as the same fixed-width hex string used
// by MarshalJSON.
func (e ElementModP) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(e.String())
}

// UnmarshalCBOR parses the hex form produced by MarshalCBOR.
func (e *ElementModP) UnmarshalCBOR(data []byte) error {
	var s string
	if err := cbor.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := decodeFixedHex(s, ByteLenP)
	if err != nil {
		return egerrors.New(egerrors.InvalidElement, "ElementModP.UnmarshalCBOR", err)
	}
	v, err := ElementModPFromBytes(b)
	if err != nil {
		return err
	}
	*e = v
	return nil
}
