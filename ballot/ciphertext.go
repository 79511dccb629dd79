package ballot

import (
	"github.com/electionguard-go/core/crypto/elgamal"
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/proof"
)

// CiphertextSelection is one encrypted option within a contest, real or
// placeholder, with its disjoint-CP membership proof.
type CiphertextSelection struct {
	OptionID   string
	Ciphertext elgamal.Ciphertext
	Proof      proof.DisjointCP
	hash       group.ElementModQ
}

// Hash returns H(description_hash, pad, data), the per-selection hash
// folded into the contest hash.
func (s CiphertextSelection) Hash() group.ElementModQ { return s.hash }

// CiphertextContest is a contest's encrypted selections plus its
// placeholders and the constant-CP proof that the sum equals the
// selection limit.
type CiphertextContest struct {
	ContestID  string
	Selections []CiphertextSelection // real selections, manifest order
	Placeholders []CiphertextSelection
	Sum        elgamal.Ciphertext // homomorphic sum of Selections and Placeholders
	Proof      proof.ConstantCP
	hash       group.ElementModQ
}

// Hash returns the contest's chained hash.
func (c CiphertextContest) Hash() group.ElementModQ { return c.hash }

// CiphertextBallot is the fully encrypted form of a PlaintextBallot: one
// CiphertextContest per contest listed in the plaintext ballot, in that
// order (a contest the style allows but the plaintext omits is not
// encrypted), plus the top-level crypto_hash chaining every contest hash
// together.
type CiphertextBallot struct {
	BallotID    string
	StyleID     string
	ManifestHash group.ElementModQ
	Contests    []CiphertextContest
	CryptoHash  group.ElementModQ
}
