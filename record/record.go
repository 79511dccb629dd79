// Package record assembles and re-verifies the election record: the
// single artifact collection (manifest, group constants, joint key,
// guardian public records, every ballot, the ciphertext tally, guardian
// decryption shares, the plaintext tally and decrypted spoiled ballots)
// from which a third party can re-check the guardian, ballot and
// decryption-share proofs using nothing else.
package record

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/electionguard-go/core/ballot"
	"github.com/electionguard-go/core/ceremony"
	"github.com/electionguard-go/core/crypto/elgamal"
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/hash"
	"github.com/electionguard-go/core/crypto/proof"
	"github.com/electionguard-go/core/decryption"
	"github.com/electionguard-go/core/egerrors"
)

// Constants is the group parameter snapshot published in constants.json.
type Constants struct {
	P group.ElementModP
	Q group.ElementModQ
	G group.ElementModP
	R group.ElementModQ
}

// Context is the per-election parameter set published in context.json.
type Context struct {
	NumberOfGuardians int
	Quorum            int
	JointPublicKey    group.ElementModP
	ManifestHash      group.ElementModQ
	CryptoBaseHash    group.ElementModQ // H(P, Q, G, n, k, manifest_hash)
	CryptoExtendedHash group.ElementModQ // H(crypto_base_hash, joint_public_key)
}

// NewContext derives crypto_base_hash and crypto_extended_hash per
// SPEC_FULL.md §6.
func NewContext(n, k int, jointPublicKey group.ElementModP, manifestHash group.ElementModQ, c Constants) Context {
	base := hash.Elems(c.P, c.Q, c.G, int64(n), int64(k), manifestHash)
	extended := hash.Elems(base, jointPublicKey)
	return Context{
		NumberOfGuardians:  n,
		Quorum:             k,
		JointPublicKey:     jointPublicKey,
		ManifestHash:       manifestHash,
		CryptoBaseHash:     base,
		CryptoExtendedHash: extended,
	}
}

// SelectionTally is one contest/selection's final plaintext count,
// alongside the direct decryption shares of the guardians who took part;
// compensated shares reconstructed for missing guardians are not recorded.
type SelectionTally struct {
	ContestID string
	OptionID  string
	Cast      elgamal.Ciphertext
	Shares    []decryption.Share
	Count     uint64
}

// Record is the complete election record.
type Record struct {
	Context     Context
	Constants   Constants
	Guardians   []ceremony.PublicRecord
	Ballots     []ballot.CiphertextBallot // cast and spoiled, as submitted
	SpoiledPlaintext map[string]ballot.PlaintextBallot
	Tally       []SelectionTally
}

// Verify re-checks the proofs in the record: every guardian's coefficient
// proofs, every ballot's selection and contest proofs, and every
// decryption share's proof. It does not recompute the homomorphic sums,
// does not combine the shares, and does not re-run discrete-log recovery,
// so a Count that does not match its shares, or a Cast ciphertext that is
// not the sum of the cast ballots, is not detected by this pass.
//
// Guardians, ballots and tally selections are each independent of one
// another, so every one of them is checked in its own goroutine via
// errgroup; Wait returns the first failure once every check has run.
func Verify(r Record) error {
	var eg errgroup.Group

	for _, g := range r.Guardians {
		g := g
		eg.Go(func() error { return verifyGuardianProofs(g) })
	}

	for _, b := range r.Ballots {
		b := b
		eg.Go(func() error { return verifyBallotProofs(r.Context.JointPublicKey, b) })
	}

	publicKeys := make(map[string]group.ElementModP, len(r.Guardians))
	for _, g := range r.Guardians {
		publicKeys[g.GuardianID] = g.PublicKey
	}
	for _, st := range r.Tally {
		st := st
		eg.Go(func() error { return verifyTallyShares(st, publicKeys) })
	}

	return eg.Wait()
}

func verifyGuardianProofs(g ceremony.PublicRecord) error {
	for j, p := range g.Proofs {
		sp := proof.Schnorr{Commitment: p.Commitment, Challenge: p.Challenge, Response: p.Response}
		if err := sp.Verify(g.Commitments[j]); err != nil {
			return egerrors.New(egerrors.ProofVerificationFailed, "record.Verify", err)
		}
	}
	return nil
}

func verifyBallotProofs(jointPublicKey group.ElementModP, b ballot.CiphertextBallot) error {
	for _, cc := range b.Contests {
		if err := cc.Proof.Verify(jointPublicKey, cc.Sum); err != nil {
			return egerrors.New(egerrors.ProofVerificationFailed, "record.Verify", err)
		}
		for _, sel := range cc.Selections {
			if err := sel.Proof.Verify(jointPublicKey, sel.Ciphertext); err != nil {
				return egerrors.New(egerrors.ProofVerificationFailed, "record.Verify", err)
			}
		}
		for _, sel := range cc.Placeholders {
			if err := sel.Proof.Verify(jointPublicKey, sel.Ciphertext); err != nil {
				return egerrors.New(egerrors.ProofVerificationFailed, "record.Verify", err)
			}
		}
	}
	return nil
}

func verifyTallyShares(st SelectionTally, publicKeys map[string]group.ElementModP) error {
	for _, sh := range st.Shares {
		pub, ok := publicKeys[sh.GuardianID]
		if !ok {
			return egerrors.New(egerrors.InvariantViolation, "record.Verify", fmt.Errorf("share from unknown guardian %s", sh.GuardianID))
		}
		if err := decryption.VerifyShare(sh, pub, st.Cast); err != nil {
			return err
		}
	}
	return nil
}
