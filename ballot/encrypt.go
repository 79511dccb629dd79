package ballot

import (
	"math/big"

	"github.com/electionguard-go/core/crypto/elgamal"
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/hash"
	"github.com/electionguard-go/core/crypto/proof"
	"github.com/electionguard-go/core/egerrors"
)

// EncryptBallot encrypts plaintext under the joint public key K, deriving
// every nonce deterministically from the device-provided seed omega so
// the ballot can be re-encrypted bit-exactly for audit (SPEC_FULL.md
// §4.7). Re-running EncryptBallot with the same manifest, key, omega and
// plaintext MUST produce byte-identical ciphertexts.
func EncryptBallot(manifest Manifest, publicKey group.ElementModP, omega group.ElementModQ, plaintext PlaintextBallot) (CiphertextBallot, error) {
	if !manifest.hasStyle(plaintext.StyleID) {
		return CiphertextBallot{}, egerrors.New(egerrors.WrongStyle, "ballot.EncryptBallot", nil)
	}

	contestHashes := make([]group.ElementModQ, 0, len(plaintext.Contests))
	out := CiphertextBallot{
		BallotID:     plaintext.BallotID,
		StyleID:      plaintext.StyleID,
		ManifestHash: manifest.Hash(),
	}

	for _, pc := range plaintext.Contests {
		if !manifest.AllowsContest(plaintext.StyleID, pc.ContestID) {
			return CiphertextBallot{}, egerrors.New(egerrors.WrongStyle, "ballot.EncryptBallot", nil)
		}
		contest, ok := manifest.ContestByID(pc.ContestID)
		if !ok {
			return CiphertextBallot{}, egerrors.New(egerrors.WrongStyle, "ballot.EncryptBallot", nil)
		}

		cc, err := encryptContest(contest, publicKey, omega, plaintext.BallotID, pc.Selected)
		if err != nil {
			return CiphertextBallot{}, err
		}
		out.Contests = append(out.Contests, cc)
		contestHashes = append(contestHashes, cc.Hash())
	}

	out.CryptoHash = hash.Elems(plaintext.StyleID, out.ManifestHash, hash.Elems(toAnySlice(contestHashes)...))
	return out, nil
}

func (m Manifest) hasStyle(style string) bool {
	_, ok := m.StyleContestIDs[style]
	return ok
}

func toAnySlice(xs []group.ElementModQ) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

func encryptContest(contest Contest, publicKey group.ElementModP, omega group.ElementModQ, ballotID string, selected []string) (CiphertextContest, error) {
	chosen := make(map[string]bool, len(selected))
	for _, id := range selected {
		if !hasOption(contest, id) {
			return CiphertextContest{}, egerrors.New(egerrors.UnknownSelection, "ballot.encryptContest", nil)
		}
		chosen[id] = true
	}
	if len(chosen) > contest.SelectionLimit {
		return CiphertextContest{}, egerrors.New(egerrors.OverVote, "ballot.encryptContest", nil)
	}

	cc := CiphertextContest{ContestID: contest.ID}
	sum := elgamal.Ciphertext{Pad: group.OneModP(), Data: group.OneModP()}

	for _, opt := range contest.Options {
		v := uint64(0)
		if chosen[opt.ID] {
			v = 1
		}
		sel, err := encryptSelection(opt.ID, opt.DescriptionHash, publicKey, omega, ballotID, v)
		if err != nil {
			return CiphertextContest{}, err
		}
		cc.Selections = append(cc.Selections, sel)
		sum = elgamal.Add(sum, sel.Ciphertext)
	}

	// Placeholders: exactly SelectionLimit of them, with (L - chosen count)
	// set to 1 so real selections plus placeholders always sum to L.
	onesNeeded := contest.SelectionLimit - len(chosen)
	for i := 0; i < contest.SelectionLimit; i++ {
		v := uint64(0)
		if i < onesNeeded {
			v = 1
		}
		placeholderID := placeholderOptionID(contest.ID, i)
		descHash := hash.Elems(contest.DescriptionHash, "placeholder", int64(i))
		sel, err := encryptSelection(placeholderID, descHash, publicKey, omega, ballotID, v)
		if err != nil {
			return CiphertextContest{}, err
		}
		cc.Placeholders = append(cc.Placeholders, sel)
		sum = elgamal.Add(sum, sel.Ciphertext)
	}
	cc.Sum = sum

	// The nonce used for the contest-level constant-CP is the sum of every
	// selection and placeholder nonce; since each nonce is rederived
	// deterministically below we recompute it rather than threading it
	// through encryptSelection's return value.
	contestNonce := group.ZeroModQ()
	for _, opt := range contest.Options {
		contestNonce = group.AddModQ(contestNonce, selectionNonce(opt.DescriptionHash, omega, ballotID))
	}
	for i := 0; i < contest.SelectionLimit; i++ {
		descHash := hash.Elems(contest.DescriptionHash, "placeholder", int64(i))
		contestNonce = group.AddModQ(contestNonce, selectionNonce(descHash, omega, ballotID))
	}

	cp, err := proof.BuildConstantCP(contestNonce, publicKey, sum, uint64(contest.SelectionLimit))
	if err != nil {
		return CiphertextContest{}, err
	}
	cc.Proof = cp

	hashes := make([]any, 0, len(cc.Selections)+len(cc.Placeholders)+1)
	hashes = append(hashes, contest.DescriptionHash)
	for _, s := range cc.Selections {
		hashes = append(hashes, s.Hash())
	}
	for _, s := range cc.Placeholders {
		hashes = append(hashes, s.Hash())
	}
	cc.hash = hash.Elems(hashes...)
	return cc, nil
}

func encryptSelection(optionID string, descHash group.ElementModQ, publicKey group.ElementModP, omega group.ElementModQ, ballotID string, v uint64) (CiphertextSelection, error) {
	r := selectionNonce(descHash, omega, ballotID)
	if r.IsZero() {
		return CiphertextSelection{}, egerrors.New(egerrors.BadNonce, "ballot.encryptSelection", nil)
	}
	ct, err := elgamal.Encrypt(v, r, publicKey)
	if err != nil {
		return CiphertextSelection{}, err
	}
	dcp, err := proof.BuildDisjointCP(r, publicKey, ct, int(v))
	if err != nil {
		return CiphertextSelection{}, err
	}
	return CiphertextSelection{
		OptionID:   optionID,
		Ciphertext: ct,
		Proof:      dcp,
		hash:       hash.Elems(descHash, ct.Pad, ct.Data),
	}, nil
}

// selectionNonce derives r_s = H(h_s, omega, ballot_id) mod Q.
func selectionNonce(descHash group.ElementModQ, omega group.ElementModQ, ballotID string) group.ElementModQ {
	return hash.Elems(descHash, omega, ballotID)
}

func hasOption(c Contest, id string) bool {
	for _, o := range c.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

func placeholderOptionID(contestID string, i int) string {
	return contestID + "-placeholder-" + big.NewInt(int64(i)).String()
}
