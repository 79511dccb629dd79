// Package proof implements ElectionGuard's four non-interactive
// zero-knowledge proofs, all rendered non-interactive via the Fiat-Shamir
// transform over hash.Elems: Schnorr (knowledge of a secret exponent),
// Chaum-Pedersen (equality of discrete logs), constant-CP (a ciphertext
// encrypts a known constant), and disjoint-CP (a ciphertext encrypts 0 or 1).
package proof

import (
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/hash"
	"github.com/electionguard-go/core/egerrors"
)

// Schnorr proves knowledge of s with K = G^s, without revealing s.
type Schnorr struct {
	Commitment group.ElementModP // U = G^u
	Challenge  group.ElementModQ // c = H(K, U)
	Response   group.ElementModQ // v = u + c*s
}

// BuildSchnorr constructs a proof of knowledge of the secret exponent s
// whose public counterpart is publicKey = G^s.
func BuildSchnorr(s group.ElementModQ, publicKey group.ElementModP) (Schnorr, error) {
	u, err := group.RandModQ()
	if err != nil {
		return Schnorr{}, err
	}
	commitment := group.GPowP(u)
	challenge := hash.Elems(publicKey, commitment)
	response := group.AddModQ(u, group.MultModQ(challenge, s))
	return Schnorr{Commitment: commitment, Challenge: challenge, Response: response}, nil
}

// Verify checks G^v == U * K^c, failing ProofVerificationFailed otherwise.
func (p Schnorr) Verify(publicKey group.ElementModP) error {
	challenge := hash.Elems(publicKey, p.Commitment)
	if !challenge.Equal(p.Challenge) {
		return egerrors.New(egerrors.ProofVerificationFailed, "Schnorr.Verify", nil)
	}
	left := group.GPowP(p.Response)
	right := group.MultModP(p.Commitment, group.PowP(publicKey, p.Challenge, false))
	if !left.Equal(right) {
		return egerrors.New(egerrors.ProofVerificationFailed, "Schnorr.Verify", nil)
	}
	return nil
}
