package elgamal

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/egerrors"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	c := qt.New(t)

	kp, err := GenerateKeypair()
	c.Assert(err, qt.IsNil)

	r, err := group.RandModQ()
	c.Assert(err, qt.IsNil)
	for r.IsZero() {
		r, err = group.RandModQ()
		c.Assert(err, qt.IsNil)
	}

	ct, err := Encrypt(7, r, kp.PublicKey)
	c.Assert(err, qt.IsNil)

	m, err := Decrypt(ct, kp.SecretKey, 1000)
	c.Assert(err, qt.IsNil)
	c.Assert(m, qt.Equals, uint64(7))
}

func TestEncryptZeroNonceFails(t *testing.T) {
	c := qt.New(t)

	kp, err := GenerateKeypair()
	c.Assert(err, qt.IsNil)
	_, err = Encrypt(1, group.ZeroModQ(), kp.PublicKey)
	c.Assert(egerrors.Is(err, egerrors.BadNonce), qt.IsTrue)
}

func TestAddIsHomomorphic(t *testing.T) {
	c := qt.New(t)

	kp, err := GenerateKeypair()
	c.Assert(err, qt.IsNil)

	r1, _ := group.RandModQ()
	r2, _ := group.RandModQ()
	for r1.IsZero() {
		r1, _ = group.RandModQ()
	}
	for r2.IsZero() {
		r2, _ = group.RandModQ()
	}

	c1, err := Encrypt(3, r1, kp.PublicKey)
	c.Assert(err, qt.IsNil)
	c2, err := Encrypt(5, r2, kp.PublicKey)
	c.Assert(err, qt.IsNil)

	sum := Add(c1, c2)
	m, err := Decrypt(sum, kp.SecretKey, 1000)
	c.Assert(err, qt.IsNil)
	c.Assert(m, qt.Equals, uint64(8))
}

func TestKeypairFromWeakSecretFails(t *testing.T) {
	c := qt.New(t)

	_, err := KeypairFromSecret(group.ZeroModQ())
	c.Assert(egerrors.Is(err, egerrors.WeakSecret), qt.IsTrue)

	_, err = KeypairFromSecret(group.OneModQ())
	c.Assert(egerrors.Is(err, egerrors.WeakSecret), qt.IsTrue)
}
