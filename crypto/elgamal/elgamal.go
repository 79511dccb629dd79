// Package elgamal implements additively-homomorphic exponential ElGamal
// over the ElectionGuard group: encryption, homomorphic combination, and
// bounded-discrete-log decryption of a known product.
package elgamal

import (
	"fmt"
	"math/big"

	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/dlog"
	"github.com/electionguard-go/core/egerrors"
)

var bigTwo = big.NewInt(2)

// Keypair is an ElGamal secret/public key pair: secret s in Z_q, public
// K = G^s mod P.
type Keypair struct {
	SecretKey group.ElementModQ
	PublicKey group.ElementModP
}

// KeypairFromSecret builds a Keypair from an existing secret scalar,
// rejecting weak secrets (0 or 1) per the data model's invariant that a
// guardian's own secret must not be trivially guessable.
func KeypairFromSecret(s group.ElementModQ) (Keypair, error) {
	v := s.Int()
	if v.Cmp(bigTwo) < 0 {
		return Keypair{}, egerrors.New(egerrors.WeakSecret, "elgamal.KeypairFromSecret", fmt.Errorf("secret must satisfy 2 <= s < Q, got %s", v))
	}
	return Keypair{SecretKey: s, PublicKey: group.GPowP(s)}, nil
}

// GenerateKeypair samples a uniformly random secret, retrying on the rare
// draw of a weak value, and returns the resulting keypair.
func GenerateKeypair() (Keypair, error) {
	for {
		s, err := group.RandModQ()
		if err != nil {
			return Keypair{}, fmt.Errorf("elgamal.GenerateKeypair: %w", err)
		}
		kp, err := KeypairFromSecret(s)
		if err == nil {
			return kp, nil
		}
		if !egerrors.Is(err, egerrors.WeakSecret) {
			return Keypair{}, err
		}
	}
}

// Ciphertext is an exponential ElGamal ciphertext (pad, data) = (G^r,
// K^r * G^m).
type Ciphertext struct {
	Pad  group.ElementModP
	Data group.ElementModP
}

// Encrypt produces Ciphertext(m, r, K) = (G^r, K^r * G^m). The nonce r
// must be non-zero (BadNonce): an r of 0 would make the pad the identity
// and leak that no blinding was applied.
func Encrypt(m uint64, r group.ElementModQ, publicKey group.ElementModP) (Ciphertext, error) {
	if r.IsZero() {
		return Ciphertext{}, egerrors.New(egerrors.BadNonce, "elgamal.Encrypt", nil)
	}
	pad := group.GPowP(r)
	gm := group.GPowP(group.NewElementModQ(new(big.Int).SetUint64(m)))
	kr := group.PowP(publicKey, r, true)
	data := group.MultModP(kr, gm)
	return Ciphertext{Pad: pad, Data: data}, nil
}

// Add combines ciphertexts component-wise; the result decrypts to the sum
// of the operands' plaintexts under the additive homomorphism.
func Add(cs ...Ciphertext) Ciphertext {
	pad := group.OneModP()
	data := group.OneModP()
	for _, c := range cs {
		pad = group.MultModP(pad, c.Pad)
		data = group.MultModP(data, c.Data)
	}
	return Ciphertext{Pad: pad, Data: data}
}

// DecryptKnownProduct recovers m from a ciphertext given M = pad^s (the
// "known product" of the secret key(s) that together decrypt it), by
// computing G^m = data * M^-1 and then solving the bounded discrete log.
func DecryptKnownProduct(c Ciphertext, knownProduct group.ElementModP, maxResult int64) (uint64, error) {
	inv, err := group.InvertModP(knownProduct)
	if err != nil {
		return 0, fmt.Errorf("elgamal.DecryptKnownProduct: %w", err)
	}
	gm := group.MultModP(c.Data, inv)
	m, err := dlog.Recover(gm, maxResult)
	if err != nil {
		return 0, err
	}
	return uint64(m), nil
}

// Decrypt decrypts a ciphertext directly with a single secret key, a
// convenience wrapper over DecryptKnownProduct for the non-threshold case.
func Decrypt(c Ciphertext, secretKey group.ElementModQ, maxResult int64) (uint64, error) {
	m := group.PowP(c.Pad, secretKey, true)
	return DecryptKnownProduct(c, m, maxResult)
}
