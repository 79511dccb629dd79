package proof

import (
	"math/big"

	"github.com/electionguard-go/core/crypto/elgamal"
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/hash"
	"github.com/electionguard-go/core/egerrors"
)

// branch holds one side of the disjunction: a simulated or real
// Chaum-Pedersen transcript proving the ciphertext encrypts a specific
// bit value.
type branch struct {
	CommitA   group.ElementModP
	CommitB   group.ElementModP
	Challenge group.ElementModQ
	Response  group.ElementModQ
}

// DisjointCP proves a ciphertext encrypts 0 or 1 without revealing which,
// by simulating the false branch and proving the true branch, then
// binding the two challenges to a single Fiat-Shamir hash.
type DisjointCP struct {
	Zero, One branch
}

// BuildDisjointCP proves ciphertext (encrypted under nonce r, public key
// K) encrypts the bit value m in {0,1}.
func BuildDisjointCP(r group.ElementModQ, publicKey group.ElementModP, ciphertext elgamal.Ciphertext, m int) (DisjointCP, error) {
	if m != 0 && m != 1 {
		return DisjointCP{}, egerrors.New(egerrors.InvariantViolation, "proof.BuildDisjointCP", nil)
	}

	// The false branch is simulated: pick its (challenge, response) up
	// front and solve the verification equations backwards for its
	// commitments, which works for any challenge without knowledge of r.
	simChallenge, err := group.RandModQ()
	if err != nil {
		return DisjointCP{}, err
	}
	simResponse, err := group.RandModQ()
	if err != nil {
		return DisjointCP{}, err
	}
	simBit := uint64(0)
	if m == 0 {
		simBit = 1
	}
	simBranch := simulateBranch(publicKey, ciphertext, simBit, simChallenge, simResponse)

	// The true branch commits honestly with fresh randomness u; its
	// challenge is whatever makes the two challenges sum to the overall
	// Fiat-Shamir hash.
	u, err := group.RandModQ()
	if err != nil {
		return DisjointCP{}, err
	}
	realCommitA := group.GPowP(u)
	realCommitB := group.PowP(publicKey, u, true)

	var zero, one branch
	if m == 0 {
		total := hash.Elems(ciphertext.Pad, ciphertext.Data, realCommitA, realCommitB, simBranch.CommitA, simBranch.CommitB)
		realChallenge := group.SubModQ(total, simChallenge)
		zero = branch{
			CommitA: realCommitA, CommitB: realCommitB, Challenge: realChallenge,
			Response: group.AddModQ(u, group.MultModQ(realChallenge, r)),
		}
		one = simBranch
	} else {
		total := hash.Elems(ciphertext.Pad, ciphertext.Data, simBranch.CommitA, simBranch.CommitB, realCommitA, realCommitB)
		realChallenge := group.SubModQ(total, simChallenge)
		one = branch{
			CommitA: realCommitA, CommitB: realCommitB, Challenge: realChallenge,
			Response: group.AddModQ(u, group.MultModQ(realChallenge, r)),
		}
		zero = simBranch
	}
	return DisjointCP{Zero: zero, One: one}, nil
}

// simulateBranch produces a transcript for the claim "ciphertext encrypts
// bit", valid for the given (challenge, response) pair without knowledge
// of the nonce: solved backwards from the verification equations.
func simulateBranch(publicKey group.ElementModP, ciphertext elgamal.Ciphertext, bit uint64, challenge, response group.ElementModQ) branch {
	m := messageComponent(ciphertext, bit)

	padInvC, _ := group.InvertModP(group.PowP(ciphertext.Pad, challenge, false))
	commitA := group.MultModP(group.GPowP(response), padInvC)

	mInvC, _ := group.InvertModP(group.PowP(m, challenge, false))
	commitB := group.MultModP(group.PowP(publicKey, response, false), mInvC)

	return branch{CommitA: commitA, CommitB: commitB, Challenge: challenge, Response: response}
}

// messageComponent returns data / G^bit, the value that should equal K^r
// when the ciphertext truly encrypts bit.
func messageComponent(ciphertext elgamal.Ciphertext, bit uint64) group.ElementModP {
	gBit := group.GPowP(group.NewElementModQ(new(big.Int).SetUint64(bit)))
	gBitInv, _ := group.InvertModP(gBit)
	return group.MultModP(ciphertext.Data, gBitInv)
}

// Verify checks both branches individually and that their challenges sum
// to the overall Fiat-Shamir hash, per the disjoint-CP protocol.
func (p DisjointCP) Verify(publicKey group.ElementModP, ciphertext elgamal.Ciphertext) error {
	total := hash.Elems(ciphertext.Pad, ciphertext.Data, p.Zero.CommitA, p.Zero.CommitB, p.One.CommitA, p.One.CommitB)
	sum := group.AddModQ(p.Zero.Challenge, p.One.Challenge)
	if !sum.Equal(total) {
		return egerrors.New(egerrors.ProofVerificationFailed, "DisjointCP.Verify", nil)
	}
	if err := verifyBranch(publicKey, ciphertext, 0, p.Zero); err != nil {
		return err
	}
	if err := verifyBranch(publicKey, ciphertext, 1, p.One); err != nil {
		return err
	}
	return nil
}

func verifyBranch(publicKey group.ElementModP, ciphertext elgamal.Ciphertext, bit uint64, b branch) error {
	m := messageComponent(ciphertext, bit)

	left1 := group.GPowP(b.Response)
	right1 := group.MultModP(b.CommitA, group.PowP(ciphertext.Pad, b.Challenge, false))
	if !left1.Equal(right1) {
		return egerrors.New(egerrors.ProofVerificationFailed, "DisjointCP.Verify", nil)
	}
	left2 := group.PowP(publicKey, b.Response, false)
	right2 := group.MultModP(b.CommitB, group.PowP(m, b.Challenge, false))
	if !left2.Equal(right2) {
		return egerrors.New(egerrors.ProofVerificationFailed, "DisjointCP.Verify", nil)
	}
	return nil
}
