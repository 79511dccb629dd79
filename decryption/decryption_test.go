package decryption

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/electionguard-go/core/crypto/elgamal"
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/polynomial"
	"github.com/electionguard-go/core/egerrors"
)

// trio builds three guardians' degree-1 election polynomials (k=2) and
// the joint public key, for driving both the full-participation and
// one-guardian-missing decryption paths.
func trio(c *qt.C) (map[string]polynomial.Polynomial, group.ElementModP) {
	polys := make(map[string]polynomial.Polynomial, 3)
	for _, id := range []string{"g1", "g2", "g3"} {
		p, err := polynomial.Generate(2)
		c.Assert(err, qt.IsNil)
		polys[id] = p
	}
	joint := group.OneModP()
	for _, p := range polys {
		joint = group.MultModP(joint, p.Commitments[0])
	}
	return polys, joint
}

func TestDecryptionAllGuardiansPresent(t *testing.T) {
	c := qt.New(t)
	polys, joint := trio(c)

	r, err := group.RandModQ()
	c.Assert(err, qt.IsNil)
	for r.IsZero() {
		r, err = group.RandModQ()
		c.Assert(err, qt.IsNil)
	}
	ct, err := elgamal.Encrypt(3, r, joint)
	c.Assert(err, qt.IsNil)

	var shares []group.ElementModP
	for id, p := range polys {
		s := p.Coefficients[0]
		sh, err := ComputeShare(id, ct, s, p.Commitments[0])
		c.Assert(err, qt.IsNil)
		c.Assert(VerifyShare(sh, p.Commitments[0], ct), qt.IsNil)
		shares = append(shares, sh.M)
	}

	got, err := Combine(ct, shares, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, uint64(3))
}

func TestDecryptionWithMissingGuardianCompensated(t *testing.T) {
	c := qt.New(t)
	polys, joint := trio(c)

	seqs := map[string]int64{"g1": 1, "g2": 2, "g3": 3}

	r, err := group.RandModQ()
	c.Assert(err, qt.IsNil)
	for r.IsZero() {
		r, err = group.RandModQ()
		c.Assert(err, qt.IsNil)
	}
	ct, err := elgamal.Encrypt(5, r, joint)
	c.Assert(err, qt.IsNil)

	// g3 is missing. g1 and g2 each already hold the backup they received
	// from g3 during the ceremony: P_3(1) and P_3(2).
	present := []string{"g1", "g2"}
	var shares []group.ElementModP
	for _, id := range present {
		s := polys[id].Coefficients[0]
		sh, err := ComputeShare(id, ct, s, polys[id].Commitments[0])
		c.Assert(err, qt.IsNil)
		shares = append(shares, sh.M)
	}

	compensated := make(map[string]CompensatedShare)
	presentSeq := map[string]int64{"g1": 1, "g2": 2}
	for _, id := range present {
		pli := polys["g3"].Eval(seqs[id])
		commitment := polynomial.EvaluateCommitment(polys["g3"].Commitments, seqs[id])
		cs, err := ComputeCompensatedShare(id, ct, pli, commitment)
		c.Assert(err, qt.IsNil)
		c.Assert(VerifyCompensatedShare(cs, commitment, ct), qt.IsNil)
		compensated[id] = cs
	}

	reconstructed, err := ReconstructMissingShare(compensated, presentSeq)
	c.Assert(err, qt.IsNil)
	c.Assert(reconstructed.Equal(group.PowP(ct.Pad, polys["g3"].Coefficients[0], false)), qt.IsTrue)

	shares = append(shares, reconstructed)
	got, err := Combine(ct, shares, 10)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, uint64(5))
}

func TestQuorumRejectsBelowThreshold(t *testing.T) {
	c := qt.New(t)
	c.Assert(egerrors.Is(Quorum(1, 2), egerrors.QuorumUnmet), qt.IsTrue)
	c.Assert(Quorum(2, 2), qt.IsNil)
	c.Assert(Quorum(3, 2), qt.IsNil)
}

func TestVerifyShareRejectsTamperedShare(t *testing.T) {
	c := qt.New(t)
	polys, _ := trio(c)
	p := polys["g1"]

	r, err := group.RandModQ()
	c.Assert(err, qt.IsNil)
	for r.IsZero() {
		r, err = group.RandModQ()
		c.Assert(err, qt.IsNil)
	}
	ct, err := elgamal.Encrypt(1, r, p.Commitments[0])
	c.Assert(err, qt.IsNil)

	sh, err := ComputeShare("g1", ct, p.Coefficients[0], p.Commitments[0])
	c.Assert(err, qt.IsNil)
	sh.M = group.MultModP(sh.M, group.GeneratorP())
	c.Assert(VerifyShare(sh, p.Commitments[0], ct), qt.Not(qt.IsNil))
}
