package proof

import (
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/hash"
	"github.com/electionguard-go/core/egerrors"
)

// ChaumPedersen proves log_G(K) == log_A(M) for public K, A, M, without
// revealing the shared exponent s. Used both for a guardian's decryption
// share (A is the tally pad, M the share) and, generalized, wherever two
// group elements must be shown to share a discrete log.
type ChaumPedersen struct {
	CommitA   group.ElementModP // a = G^u
	CommitB   group.ElementModP // b = base^u
	Challenge group.ElementModQ // c = H(gPow, base, basePow, a, b)
	Response  group.ElementModQ // v = u + c*s
}

// BuildChaumPedersen proves knowledge of s such that gPow = G^s and
// basePow = base^s, for the given alternate base.
func BuildChaumPedersen(s group.ElementModQ, gPow, base, basePow group.ElementModP) (ChaumPedersen, error) {
	u, err := group.RandModQ()
	if err != nil {
		return ChaumPedersen{}, err
	}
	commitA := group.GPowP(u)
	commitB := group.PowP(base, u, true)
	challenge := hash.Elems(gPow, base, basePow, commitA, commitB)
	response := group.AddModQ(u, group.MultModQ(challenge, s))
	return ChaumPedersen{CommitA: commitA, CommitB: commitB, Challenge: challenge, Response: response}, nil
}

// Verify checks G^v == a * gPow^c and base^v == b * basePow^c.
func (p ChaumPedersen) Verify(gPow, base, basePow group.ElementModP) error {
	challenge := hash.Elems(gPow, base, basePow, p.CommitA, p.CommitB)
	if !challenge.Equal(p.Challenge) {
		return egerrors.New(egerrors.ProofVerificationFailed, "ChaumPedersen.Verify", nil)
	}
	left1 := group.GPowP(p.Response)
	right1 := group.MultModP(p.CommitA, group.PowP(gPow, p.Challenge, false))
	if !left1.Equal(right1) {
		return egerrors.New(egerrors.ProofVerificationFailed, "ChaumPedersen.Verify", nil)
	}
	left2 := group.PowP(base, p.Response, false)
	right2 := group.MultModP(p.CommitB, group.PowP(basePow, p.Challenge, false))
	if !left2.Equal(right2) {
		return egerrors.New(egerrors.ProofVerificationFailed, "ChaumPedersen.Verify", nil)
	}
	return nil
}
