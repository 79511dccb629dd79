// Package polynomial implements the secret-sharing polynomials the Key
// Ceremony and Decryption components build on: generation of a guardian's
// election polynomial with per-coefficient commitments and Schnorr proofs,
// point evaluation, backup verification, and Lagrange coefficients for
// reconstructing a polynomial's value at zero from a set of known points.
package polynomial

import (
	"fmt"
	"math/big"

	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/proof"
	"github.com/electionguard-go/core/egerrors"
)

// Polynomial is a guardian's election polynomial: secret coefficients
// a_0..a_{k-1} (a_0 is the guardian's own secret), each with a public
// commitment K_j = G^{a_j} and a Schnorr proof of knowledge of a_j.
type Polynomial struct {
	Coefficients []group.ElementModQ
	Commitments  []group.ElementModP
	Proofs       []proof.Schnorr
}

// Generate samples a degree-(k-1) polynomial with uniformly random
// coefficients in Z_q and produces a commitment and Schnorr proof for
// each one.
func Generate(k int) (Polynomial, error) {
	p := Polynomial{
		Coefficients: make([]group.ElementModQ, k),
		Commitments:  make([]group.ElementModP, k),
		Proofs:       make([]proof.Schnorr, k),
	}
	for j := 0; j < k; j++ {
		a, err := group.RandModQ()
		if err != nil {
			return Polynomial{}, err
		}
		commitment := group.GPowP(a)
		sp, err := proof.BuildSchnorr(a, commitment)
		if err != nil {
			return Polynomial{}, err
		}
		p.Coefficients[j] = a
		p.Commitments[j] = commitment
		p.Proofs[j] = sp
	}
	return p, nil
}

// VerifyCommitments checks every coefficient's Schnorr proof; a failure
// here is the per-guardian eviction trigger in the Key Ceremony. A proof
// count that doesn't match the commitment count fails outright, rather
// than letting a short or empty Proofs slice skip verification of the
// commitments it doesn't cover.
func (p Polynomial) VerifyCommitments() error {
	if len(p.Proofs) != len(p.Commitments) {
		return egerrors.New(egerrors.ProofVerificationFailed, "Polynomial.VerifyCommitments", fmt.Errorf("expected %d proofs, got %d", len(p.Commitments), len(p.Proofs)))
	}
	for j, sp := range p.Proofs {
		if err := sp.Verify(p.Commitments[j]); err != nil {
			return egerrors.New(egerrors.ProofVerificationFailed, "Polynomial.VerifyCommitments", err)
		}
	}
	return nil
}

// Eval evaluates the polynomial at x via Horner's method modulo Q, where
// x is typically a guardian's sequence_order reduced mod Q.
func (p Polynomial) Eval(x int64) group.ElementModQ {
	return evalCoefficients(p.Coefficients, x)
}

func evalCoefficients(coeffs []group.ElementModQ, x int64) group.ElementModQ {
	result := group.ZeroModQ()
	xq := group.NewElementModQ(big.NewInt(x))
	for i := len(coeffs) - 1; i >= 0; i-- {
		result = group.AddModQ(group.MultModQ(result, xq), coeffs[i])
	}
	return result
}

// VerifyBackup checks that a claimed evaluation v = P(x) is consistent
// with the sender's public commitments: G^v == Prod_j K_j^{x^j}.
func VerifyBackup(v group.ElementModQ, commitments []group.ElementModP, x int64) bool {
	return group.GPowP(v).Equal(EvaluateCommitment(commitments, x))
}

// EvaluateCommitment computes Prod_j K_j^{x^j}, the public counterpart of
// a polynomial's evaluation at x given only its coefficient commitments.
// Used both by VerifyBackup and, during compensated decryption, to check
// a guardian's claimed share of a point on a missing guardian's
// polynomial without ever learning the polynomial itself.
func EvaluateCommitment(commitments []group.ElementModP, x int64) group.ElementModP {
	rhs := group.OneModP()
	xq := group.NewElementModQ(big.NewInt(x))
	power := group.OneModQ()
	for _, k := range commitments {
		rhs = group.MultModP(rhs, group.PowP(k, power, false))
		power = group.MultModQ(power, xq)
	}
	return rhs
}

// Lagrange computes the coefficient lambda_i that weights the value at xi
// when reconstructing P(0) from the set of points X (xi must be a member of X):
// lambda_i = Prod_{xj in X, xj != xi} xj / (xj - xi) mod Q.
func Lagrange(xi int64, x []int64) (group.ElementModQ, error) {
	numerator := group.OneModQ()
	denominator := group.OneModQ()
	xiQ := group.NewElementModQ(big.NewInt(xi))
	for _, xj := range x {
		if xj == xi {
			continue
		}
		xjQ := group.NewElementModQ(big.NewInt(xj))
		numerator = group.MultModQ(numerator, xjQ)
		denominator = group.MultModQ(denominator, group.SubModQ(xjQ, xiQ))
	}
	denomInv, err := group.InvertModQ(denominator)
	if err != nil {
		return group.ElementModQ{}, egerrors.New(egerrors.InvariantViolation, "polynomial.Lagrange", err)
	}
	return group.MultModQ(numerator, denomInv), nil
}
