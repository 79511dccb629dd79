// Package decryption implements cooperative threshold decryption of a
// tally ciphertext or spoiled ballot: per-guardian shares with
// Chaum-Pedersen proofs, Lagrange-compensated shares for guardians who
// are unavailable, an |X| >= k quorum policy where all available
// guardians always participate, and bounded discrete-log recovery of the
// final plaintext count.
package decryption

import (
	"github.com/electionguard-go/core/crypto/elgamal"
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/polynomial"
	"github.com/electionguard-go/core/crypto/proof"
	"github.com/electionguard-go/core/egerrors"
)

// Share is one guardian's decryption share for a ciphertext, M_i = A^s_i,
// with a Chaum-Pedersen proof that it shares the discrete log of the
// guardian's public key.
type Share struct {
	GuardianID string
	M          group.ElementModP
	Proof      proof.ChaumPedersen
}

// ComputeShare produces guardian i's share of ciphertext c using its
// secret key s_i, whose public counterpart is publicKey = G^s_i.
func ComputeShare(guardianID string, c elgamal.Ciphertext, secretKey group.ElementModQ, publicKey group.ElementModP) (Share, error) {
	m := group.PowP(c.Pad, secretKey, true)
	cp, err := proof.BuildChaumPedersen(secretKey, publicKey, c.Pad, m)
	if err != nil {
		return Share{}, err
	}
	return Share{GuardianID: guardianID, M: m, Proof: cp}, nil
}

// VerifyShare checks a share's Chaum-Pedersen proof against the
// guardian's public key and the ciphertext it was computed from. A
// failing share must be excluded from combination; if its exclusion
// breaks quorum, decryption fails QuorumUnmet.
func VerifyShare(s Share, publicKey group.ElementModP, c elgamal.Ciphertext) error {
	if err := s.Proof.Verify(publicKey, c.Pad, s.M); err != nil {
		return egerrors.New(egerrors.ProofVerificationFailed, "decryption.VerifyShare", err)
	}
	return nil
}

// CompensatedShare is an available guardian i's contribution toward
// reconstructing a missing guardian l's share. i computes it from the
// backup P_l(i) it received from l during the Key Ceremony and verified
// at the time against l's published commitments: M_{i,l} = A^{P_l(i)},
// proved relative to the same commitment G^{P_l(i)} = Prod_j K_{l,j}^{i^j}
// (polynomial.EvaluateCommitment(l's commitments, i's sequence order)).
type CompensatedShare struct {
	GuardianID string
	M          group.ElementModP
	Proof      proof.ChaumPedersen
}

// ComputeCompensatedShare is called by available guardian i holding the
// backup value pli = P_l(i) it received from missing guardian l, to
// produce its contribution toward l's reconstructed share. commitment is
// G^{P_l(i)}, computed by the caller via
// polynomial.EvaluateCommitment(l's commitments, i's own sequence order).
func ComputeCompensatedShare(guardianID string, c elgamal.Ciphertext, pli group.ElementModQ, commitment group.ElementModP) (CompensatedShare, error) {
	m := group.PowP(c.Pad, pli, true)
	cp, err := proof.BuildChaumPedersen(pli, commitment, c.Pad, m)
	if err != nil {
		return CompensatedShare{}, err
	}
	return CompensatedShare{GuardianID: guardianID, M: m, Proof: cp}, nil
}

// VerifyCompensatedShare checks a compensated share's proof against the
// commitment it was built against.
func VerifyCompensatedShare(s CompensatedShare, commitment group.ElementModP, c elgamal.Ciphertext) error {
	if err := s.Proof.Verify(commitment, c.Pad, s.M); err != nil {
		return egerrors.New(egerrors.ProofVerificationFailed, "decryption.VerifyCompensatedShare", err)
	}
	return nil
}

// ReconstructMissingShare combines present guardians' compensated shares
// into M_l = Prod_i M_{i,l}^{lambda_i}, the missing guardian l's
// reconstructed decryption share. Every M_{i,l} = A^{P_l(i)} is a point on
// the SAME polynomial P_l, so lambda_i is the ordinary Lagrange
// coefficient for recovering P_l(0) at x=0 from the present guardians'
// coordinates alone (no coordinate for l itself is needed or used).
// compensated and guardianSeq are both keyed by guardian id; guardianSeq
// supplies each present guardian's own sequence order (its coordinate x_i).
func ReconstructMissingShare(compensated map[string]CompensatedShare, guardianSeq map[string]int64) (group.ElementModP, error) {
	xs := make([]int64, 0, len(guardianSeq))
	for _, x := range guardianSeq {
		xs = append(xs, x)
	}

	result := group.OneModP()
	for id, share := range compensated {
		xi, ok := guardianSeq[id]
		if !ok {
			return group.ElementModP{}, egerrors.New(egerrors.InvariantViolation, "decryption.ReconstructMissingShare", nil)
		}
		lambda, err := polynomial.Lagrange(xi, xs)
		if err != nil {
			return group.ElementModP{}, err
		}
		result = group.MultModP(result, group.PowP(share.M, lambda, false))
	}
	return result, nil
}

// Combine combines every present guardian's verified share (and every
// reconstructed missing share) into M = Prod M_i * Prod M_l, then
// recovers the plaintext count by bounded discrete-log search over
// data/M.
func Combine(c elgamal.Ciphertext, shares []group.ElementModP, maxResult int64) (uint64, error) {
	known := group.MultModPMany(shares...)
	return elgamal.DecryptKnownProduct(c, known, maxResult)
}

// Quorum decides whether a decryption may proceed: it requires at least k
// available guardians (QuorumUnmet otherwise), and always uses every
// available guardian rather than an arbitrary subset of size k, per
// SPEC_FULL.md §4.9's deliberate design choice to maximize the collusion
// threshold.
func Quorum(available int, k int) error {
	if available < k {
		return egerrors.New(egerrors.QuorumUnmet, "decryption.Quorum", nil)
	}
	return nil
}
