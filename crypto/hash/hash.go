// Package hash implements the domain-separated hash used to derive
// Fiat-Shamir challenges and nonce seeds: a canonical byte encoding of a
// heterogeneous argument list, reduced to an element of Z_q via SHA-256.
package hash

import (
	"crypto/sha256"
	"fmt"
	"math/big"
	"strings"

	"github.com/electionguard-go/core/crypto/group"
)

// element is satisfied by both field element types, so Elems can accept
// either without the caller converting first.
type element interface {
	Bytes() []byte
}

// Elems canonicalizes every argument to its byte form and hashes the
// joined transcript to Z_q. Supported argument types: ElementModP,
// ElementModQ, string, int, int64, uint64, []byte, nil, and []any (for
// nested sequences, joined with "|" like the top level but wrapped as
// "[|...|]" where the top level is wrapped as "|...|").
// Any other type is a programming error and panics rather than silently
// hashing something the spec's canonicalization does not define.
func Elems(xs ...any) group.ElementModQ {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = canonicalize(x)
	}
	transcript := "|" + strings.Join(parts, "|") + "|"
	sum := sha256.Sum256([]byte(transcript))
	return group.NewElementModQ(new(big.Int).SetBytes(sum[:]))
}

func canonicalize(x any) string {
	switch v := x.(type) {
	case nil:
		return "null"
	case element:
		return fmt.Sprintf("%x", v.Bytes())
	case string:
		return v
	case int:
		return fmt.Sprintf("%02x", v)
	case int64:
		return fmt.Sprintf("%02x", v)
	case uint64:
		return fmt.Sprintf("%02x", v)
	case []byte:
		return fmt.Sprintf("%x", v)
	case []any:
		inner := make([]string, len(v))
		for i, e := range v {
			inner[i] = canonicalize(e)
		}
		return "[|" + strings.Join(inner, "|") + "|]"
	default:
		panic(fmt.Sprintf("hash.Elems: unsupported argument type %T", x))
	}
}
