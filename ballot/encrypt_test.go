package ballot

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/electionguard-go/core/crypto/elgamal"
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/egerrors"
)

func descHash(n int64) group.ElementModQ {
	return group.NewElementModQ(big.NewInt(n))
}

func testManifest() Manifest {
	return Manifest{
		StyleID: "ballot-style-1",
		Contests: []Contest{
			{
				ID:              "contest-1",
				DescriptionHash: descHash(1),
				SelectionLimit:  1,
				Options: []Option{
					{ID: "alice", DescriptionHash: descHash(2)},
					{ID: "bob", DescriptionHash: descHash(3)},
				},
			},
		},
		StyleContestIDs: map[string][]string{"ballot-style-1": {"contest-1"}},
	}
}

func testKey(c *qt.C) (elgamal.Keypair, group.ElementModP) {
	kp, err := elgamal.GenerateKeypair()
	c.Assert(err, qt.IsNil)
	return kp, kp.PublicKey
}

func TestEncryptBallotProofsVerify(t *testing.T) {
	c := qt.New(t)
	m := testManifest()
	_, pub := testKey(c)
	omega, err := group.RandModQ()
	c.Assert(err, qt.IsNil)

	plaintext := PlaintextBallot{
		BallotID: "ballot-1",
		StyleID:  "ballot-style-1",
		Contests: []PlaintextContest{{ContestID: "contest-1", Selected: []string{"alice"}}},
	}

	ct, err := EncryptBallot(m, pub, omega, plaintext)
	c.Assert(err, qt.IsNil)
	c.Assert(ct.Contests, qt.HasLen, 1)

	cc := ct.Contests[0]
	c.Assert(cc.Proof.Verify(pub, cc.Sum), qt.IsNil)
	for _, sel := range cc.Selections {
		c.Assert(sel.Proof.Verify(pub, sel.Ciphertext), qt.IsNil)
	}
	for _, sel := range cc.Placeholders {
		c.Assert(sel.Proof.Verify(pub, sel.Ciphertext), qt.IsNil)
	}
}

func TestEncryptBallotIsDeterministicInOmega(t *testing.T) {
	c := qt.New(t)
	m := testManifest()
	_, pub := testKey(c)
	omega, err := group.RandModQ()
	c.Assert(err, qt.IsNil)

	plaintext := PlaintextBallot{
		BallotID: "ballot-1",
		StyleID:  "ballot-style-1",
		Contests: []PlaintextContest{{ContestID: "contest-1", Selected: []string{"bob"}}},
	}

	ct1, err := EncryptBallot(m, pub, omega, plaintext)
	c.Assert(err, qt.IsNil)
	ct2, err := EncryptBallot(m, pub, omega, plaintext)
	c.Assert(err, qt.IsNil)
	c.Assert(ct1.CryptoHash.Equal(ct2.CryptoHash), qt.IsTrue)
	c.Assert(ct1.Contests[0].Sum.Pad.Equal(ct2.Contests[0].Sum.Pad), qt.IsTrue)
	c.Assert(ct1.Contests[0].Sum.Data.Equal(ct2.Contests[0].Sum.Data), qt.IsTrue)
}

func TestEncryptBallotRejectsUnknownSelection(t *testing.T) {
	c := qt.New(t)
	m := testManifest()
	_, pub := testKey(c)
	omega, err := group.RandModQ()
	c.Assert(err, qt.IsNil)

	plaintext := PlaintextBallot{
		BallotID: "ballot-1",
		StyleID:  "ballot-style-1",
		Contests: []PlaintextContest{{ContestID: "contest-1", Selected: []string{"carol"}}},
	}
	_, err = EncryptBallot(m, pub, omega, plaintext)
	c.Assert(egerrors.Is(err, egerrors.UnknownSelection), qt.IsTrue)
}

func TestEncryptBallotRejectsOverVote(t *testing.T) {
	c := qt.New(t)
	m := testManifest()
	_, pub := testKey(c)
	omega, err := group.RandModQ()
	c.Assert(err, qt.IsNil)

	plaintext := PlaintextBallot{
		BallotID: "ballot-1",
		StyleID:  "ballot-style-1",
		Contests: []PlaintextContest{{ContestID: "contest-1", Selected: []string{"alice", "bob"}}},
	}
	_, err = EncryptBallot(m, pub, omega, plaintext)
	c.Assert(egerrors.Is(err, egerrors.OverVote), qt.IsTrue)
}

func TestEncryptBallotRejectsWrongStyle(t *testing.T) {
	c := qt.New(t)
	m := testManifest()
	_, pub := testKey(c)
	omega, err := group.RandModQ()
	c.Assert(err, qt.IsNil)

	plaintext := PlaintextBallot{
		BallotID: "ballot-1",
		StyleID:  "no-such-style",
		Contests: []PlaintextContest{{ContestID: "contest-1", Selected: []string{"alice"}}},
	}
	_, err = EncryptBallot(m, pub, omega, plaintext)
	c.Assert(egerrors.Is(err, egerrors.WrongStyle), qt.IsTrue)
}
