package proof

import (
	"math/big"

	"github.com/electionguard-go/core/crypto/elgamal"
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/egerrors"
)

// ConstantCP proves that a ciphertext encrypts a known, fixed constant L
// without revealing the nonce: it shows pad = G^r and data/G^L = K^r for
// the same r, i.e. log_G(pad) = log_K(data/G^L). Used for the per-contest
// proof that the homomorphic sum of a contest's selections equals its
// selection limit.
type ConstantCP struct {
	Constant uint64
	Inner    ChaumPedersen
}

// BuildConstantCP proves ciphertext encrypts the constant L under nonce r
// and public key K.
func BuildConstantCP(r group.ElementModQ, publicKey group.ElementModP, ciphertext elgamal.Ciphertext, l uint64) (ConstantCP, error) {
	gL := group.GPowP(group.NewElementModQ(new(big.Int).SetUint64(l)))
	gLInv, err := group.InvertModP(gL)
	if err != nil {
		return ConstantCP{}, err
	}
	m := group.MultModP(ciphertext.Data, gLInv) // data / G^L, should equal K^r

	inner, err := BuildChaumPedersen(r, ciphertext.Pad, publicKey, m)
	if err != nil {
		return ConstantCP{}, err
	}
	return ConstantCP{Constant: l, Inner: inner}, nil
}

// Verify checks the proof against the declared constant transcripted
// within the inner Chaum-Pedersen challenge.
func (p ConstantCP) Verify(publicKey group.ElementModP, ciphertext elgamal.Ciphertext) error {
	gL := group.GPowP(group.NewElementModQ(new(big.Int).SetUint64(p.Constant)))
	gLInv, err := group.InvertModP(gL)
	if err != nil {
		return err
	}
	m := group.MultModP(ciphertext.Data, gLInv)
	if err := p.Inner.Verify(ciphertext.Pad, publicKey, m); err != nil {
		return egerrors.New(egerrors.ProofVerificationFailed, "ConstantCP.Verify", err)
	}
	return nil
}
