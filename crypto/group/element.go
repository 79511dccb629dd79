// Package group implements the fixed-modulus arithmetic ElectionGuard runs
// on: a 4096-bit safe prime field Z_p containing a 256-bit order-q
// subgroup generated by G. Every value that crosses a component boundary
// is one of the two types below, never a bare *big.Int, so a caller can
// never accidentally reduce an element mod the wrong modulus.
package group

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/electionguard-go/core/egerrors"
)

// ElementModQ is an integer in [0, Q).
type ElementModQ struct{ v big.Int }

// ElementModP is an integer in [0, P).
type ElementModP struct{ v big.Int }

// Int returns a defensive copy of the underlying integer.
func (e ElementModQ) Int() *big.Int { return new(big.Int).Set(&e.v) }

// Int returns a defensive copy of the underlying integer.
func (e ElementModP) Int() *big.Int { return new(big.Int).Set(&e.v) }

// ZeroModQ is the additive identity of Z_q.
func ZeroModQ() ElementModQ { return ElementModQ{v: *big.NewInt(0)} }

// OneModQ is the multiplicative identity of Z_q, used as a neutral
// polynomial coefficient and as the starting nonce accumulator.
func OneModQ() ElementModQ { return ElementModQ{v: *big.NewInt(1)} }

// ZeroModP is the additive identity of Z_p.
func ZeroModP() ElementModP { return ElementModP{v: *big.NewInt(0)} }

// OneModP is the multiplicative identity of Z_p.
func OneModP() ElementModP { return ElementModP{v: *big.NewInt(1)} }

// GeneratorP returns G, the fixed generator of the order-Q subgroup.
func GeneratorP() ElementModP { return ElementModP{v: *G()} }

// NewElementModQ reduces v modulo Q and wraps it. Use this for values the
// caller already trusts (e.g. the result of hashing); use
// ElementModQFromBytes when the bytes come from an untrusted artifact and
// must be rejected if out of range.
func NewElementModQ(v *big.Int) ElementModQ {
	return ElementModQ{v: *new(big.Int).Mod(v, Q())}
}

// NewElementModP reduces v modulo P and wraps it.
func NewElementModP(v *big.Int) ElementModP {
	return ElementModP{v: *new(big.Int).Mod(v, P())}
}

// ElementModQFromBytes decodes a big-endian byte string as an element of
// Z_q, failing InvalidElement if it is out of range (rather than silently
// reducing it, which would let a malicious artifact smuggle in a value
// the sender did not intend).
func ElementModQFromBytes(b []byte) (ElementModQ, error) {
	v := new(big.Int).SetBytes(b)
	if v.Sign() < 0 || v.Cmp(Q()) >= 0 {
		return ElementModQ{}, egerrors.New(egerrors.InvalidElement, "group.ElementModQFromBytes", nil)
	}
	return ElementModQ{v: *v}, nil
}

// ElementModPFromBytes decodes a big-endian byte string as an element of
// Z_p, failing InvalidElement if it is out of range.
func ElementModPFromBytes(b []byte) (ElementModP, error) {
	v := new(big.Int).SetBytes(b)
	if v.Sign() < 0 || v.Cmp(P()) >= 0 {
		return ElementModP{}, egerrors.New(egerrors.InvalidElement, "group.ElementModPFromBytes", nil)
	}
	return ElementModP{v: *v}, nil
}

// Bytes returns the fixed-width (ByteLenQ) big-endian encoding.
func (e ElementModQ) Bytes() []byte { return padLeft(e.v.Bytes(), ByteLenQ) }

// Bytes returns the fixed-width (ByteLenP) big-endian encoding.
func (e ElementModP) Bytes() []byte { return padLeft(e.v.Bytes(), ByteLenP) }

func padLeft(b []byte, n int) []byte {
	if len(b) >= n {
		return b
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}

// Equal reports whether two elements of Z_q are the same integer.
func (e ElementModQ) Equal(o ElementModQ) bool { return e.v.Cmp(&o.v) == 0 }

// Equal reports whether two elements of Z_p are the same integer.
func (e ElementModP) Equal(o ElementModP) bool { return e.v.Cmp(&o.v) == 0 }

// IsZero reports whether e is the additive identity of Z_q.
func (e ElementModQ) IsZero() bool { return e.v.Sign() == 0 }

// AddModQ returns a + b mod Q.
func AddModQ(a, b ElementModQ) ElementModQ {
	sum := new(big.Int).Add(&a.v, &b.v)
	return ElementModQ{v: *sum.Mod(sum, Q())}
}

// SubModQ returns a - b mod Q.
func SubModQ(a, b ElementModQ) ElementModQ {
	diff := new(big.Int).Sub(&a.v, &b.v)
	return ElementModQ{v: *diff.Mod(diff, Q())}
}

// NegateModQ returns -a mod Q.
func NegateModQ(a ElementModQ) ElementModQ {
	neg := new(big.Int).Neg(&a.v)
	return ElementModQ{v: *neg.Mod(neg, Q())}
}

// MultModQ returns a * b mod Q, used for Lagrange coefficients and
// nonce combination.
func MultModQ(a, b ElementModQ) ElementModQ {
	prod := new(big.Int).Mul(&a.v, &b.v)
	return ElementModQ{v: *prod.Mod(prod, Q())}
}

// InvertModQ returns the multiplicative inverse of a mod Q. Q is prime so
// every non-zero element is invertible; callers must not pass zero.
func InvertModQ(a ElementModQ) (ElementModQ, error) {
	if a.IsZero() {
		return ElementModQ{}, egerrors.New(egerrors.InvariantViolation, "group.InvertModQ", fmt.Errorf("zero has no inverse"))
	}
	inv := new(big.Int).ModInverse(&a.v, Q())
	return ElementModQ{v: *inv}, nil
}

// MultModP returns a * b mod P.
func MultModP(a, b ElementModP) ElementModP {
	prod := new(big.Int).Mul(&a.v, &b.v)
	return ElementModP{v: *prod.Mod(prod, P())}
}

// MultModPMany folds MultModP across a slice, returning OneModP for an
// empty slice. Used to accumulate the joint public key and tally pads.
func MultModPMany(xs ...ElementModP) ElementModP {
	acc := OneModP()
	for _, x := range xs {
		acc = MultModP(acc, x)
	}
	return acc
}

// InvertModP returns the multiplicative inverse of a mod P.
func InvertModP(a ElementModP) (ElementModP, error) {
	if a.v.Sign() == 0 {
		return ElementModP{}, egerrors.New(egerrors.InvariantViolation, "group.InvertModP", fmt.Errorf("zero has no inverse"))
	}
	inv := new(big.Int).ModInverse(&a.v, P())
	if inv == nil {
		return ElementModP{}, egerrors.New(egerrors.InvariantViolation, "group.InvertModP", fmt.Errorf("value is not invertible mod P"))
	}
	return ElementModP{v: *inv}, nil
}

// PowP computes a^x mod P. When constantTime is true the exponentiation
// runs a fixed sequence of squarings regardless of x's bit pattern, for
// use whenever x is a guardian secret or ballot nonce; verification of
// public proofs may pass false to use math/big's faster variable-time path.
func PowP(a ElementModP, x ElementModQ, constantTime bool) ElementModP {
	if !constantTime {
		return ElementModP{v: *new(big.Int).Exp(&a.v, &x.v, P())}
	}
	return ElementModP{v: *constantTimeExpP(&a.v, &x.v)}
}

// GPowP computes G^x mod P using the constant-time ladder; this is the
// hot path for encryption and key derivation, where x is always secret.
func GPowP(x ElementModQ) ElementModP {
	return PowP(GeneratorP(), x, true)
}

// constantTimeExpP implements a left-to-right binary square-and-multiply
// ladder over the Q-bit exponent space: every iteration performs both a
// square and a (possibly discarded) multiply, so the sequence of modular
// multiplications performed does not depend on the bits of x.
func constantTimeExpP(base, exp *big.Int) *big.Int {
	p := P()
	result := big.NewInt(1)
	b := new(big.Int).Mod(base, p)
	bitLen := Q().BitLen()
	tmp := new(big.Int)
	for i := bitLen - 1; i >= 0; i-- {
		result.Mul(result, result)
		result.Mod(result, p)
		tmp.Mul(result, b)
		tmp.Mod(tmp, p)
		if exp.Bit(i) == 1 {
			result.Set(tmp)
		}
	}
	return result
}

// RandModQ samples a uniformly random element of [0, Q) using a
// rejection-sampling draw from crypto/rand, the same source the teacher's
// key-generation code relies on for nonces and polynomial coefficients.
func RandModQ() (ElementModQ, error) {
	v, err := rand.Int(rand.Reader, Q())
	if err != nil {
		return ElementModQ{}, fmt.Errorf("group.RandModQ: %w", err)
	}
	return ElementModQ{v: *v}, nil
}

// IsValidResidue reports whether a is a member of the order-Q subgroup of
// Z_p*, i.e. a^Q ≡ 1 (mod P). Every element accepted from an external
// artifact must pass this check before use (invariant 1/2 of the data
// model: published P-elements and ciphertext components are subgroup
// elements).
func IsValidResidue(a ElementModP) bool {
	return new(big.Int).Exp(&a.v, Q(), P()).Cmp(big.NewInt(1)) == 0
}

// String renders the element as lowercase zero-padded hex, the canonical
// wire form used throughout the election record.
func (e ElementModQ) String() string { return fmt.Sprintf("%0*x", ByteLenQ*2, &e.v) }

// String renders the element as lowercase zero-padded hex.
func (e ElementModP) String() string { return fmt.Sprintf("%0*x", ByteLenP*2, &e.v) }
