package main

import (
	"fmt"

	"github.com/electionguard-go/core/ballot"
	"github.com/electionguard-go/core/ceremony"
	"github.com/electionguard-go/core/crypto/elgamal"
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/polynomial"
	"github.com/electionguard-go/core/decryption"
	"github.com/electionguard-go/core/egerrors"
	"github.com/electionguard-go/core/record"
	"github.com/electionguard-go/core/tally"
)

// runElection drives one full n-guardian, k-quorum election: Key
// Ceremony, a single cast ballot for "alice", homomorphic tally, and
// threshold decryption. If missingID names a guardian, that guardian's
// share is reconstructed from the compensated backups the remaining
// guardians already hold instead of being computed directly.
func runElection(n, k int, missingID string, boundedDlogMax int64) (record.Record, error) {
	guardians := make([]*ceremony.Guardian, n)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("guardian-%d", i+1)
		ids[i] = id
		guardians[i] = ceremony.NewGuardian(id, int64(i+1), k)
	}

	if err := runKeyCeremony(guardians, ids); err != nil {
		return record.Record{}, err
	}

	joint := group.OneModP()
	for _, g := range guardians {
		joint = group.MultModP(joint, g.PublicKey())
	}

	manifest := ballot.Manifest{
		StyleID: "demo-style",
		Contests: []ballot.Contest{{
			ID:             "contest-1",
			SelectionLimit: 1,
			Options:        []ballot.Option{{ID: "alice"}, {ID: "bob"}},
		}},
		StyleContestIDs: map[string][]string{"demo-style": {"contest-1"}},
	}

	omega, err := group.RandModQ()
	if err != nil {
		return record.Record{}, err
	}
	plaintext := ballot.PlaintextBallot{
		BallotID: "ballot-1",
		StyleID:  "demo-style",
		Contests: []ballot.PlaintextContest{{ContestID: "contest-1", Selected: []string{"alice"}}},
	}
	cb, err := ballot.EncryptBallot(manifest, joint, omega, plaintext)
	if err != nil {
		return record.Record{}, err
	}

	t := tally.New()
	if err := t.Add(cb); err != nil {
		return record.Record{}, err
	}
	sum, ok := t.Sum("contest-1", "alice")
	if !ok {
		return record.Record{}, egerrors.New(egerrors.InvariantViolation, "main.runElection", fmt.Errorf("no tally entry for alice"))
	}

	shareProofs, count, err := decryptSum(guardians, missingID, sum, boundedDlogMax)
	if err != nil {
		return record.Record{}, err
	}

	guardianRecords := make([]ceremony.PublicRecord, n)
	for i, g := range guardians {
		guardianRecords[i] = g.Record()
	}

	constants := record.Constants{
		P: group.NewElementModP(group.P()),
		Q: group.NewElementModQ(group.Q()),
		G: group.GeneratorP(),
		R: group.NewElementModQ(group.R()),
	}
	ctx := record.NewContext(n, k, joint, manifest.Hash(), constants)

	return record.Record{
		Context:   ctx,
		Constants: constants,
		Guardians: guardianRecords,
		Ballots:   []ballot.CiphertextBallot{cb},
		Tally: []record.SelectionTally{{
			ContestID: "contest-1",
			OptionID:  "alice",
			Cast:      sum,
			Shares:    shareProofs,
			Count:     count,
		}},
	}, nil
}

// runKeyCeremony drives every guardian through key generation, public-key
// exchange, and backup distribution/verification, ending with every
// guardian in state BackupsVerified.
func runKeyCeremony(guardians []*ceremony.Guardian, ids []string) error {
	for _, g := range guardians {
		if err := g.GenerateKeys(); err != nil {
			return err
		}
	}
	for _, g := range guardians {
		for _, other := range guardians {
			if other == g {
				continue
			}
			if err := g.ReceivePublicKey(other.ID, other.SequenceOrder, other.Commitments(), other.Record().Proofs); err != nil {
				return err
			}
		}
		if !g.AllPublicKeysReceived(ids) {
			return egerrors.New(egerrors.InvariantViolation, "main.runKeyCeremony", fmt.Errorf("guardian %s missing peer keys", g.ID))
		}
	}

	seqs := make(map[string]int64, len(guardians))
	for _, g := range guardians {
		seqs[g.ID] = g.SequenceOrder
	}
	for _, g := range guardians {
		if err := g.GenerateBackups(seqs); err != nil {
			return err
		}
	}
	backupsFor := make(map[string]map[string]ceremony.BackupCiphertext, len(guardians))
	for _, other := range guardians {
		backupsFor[other.ID] = make(map[string]ceremony.BackupCiphertext, len(guardians)-1)
	}
	for _, g := range guardians {
		for _, other := range guardians {
			if other == g {
				continue
			}
			ct, err := g.EncryptBackup(other.ID, other.PublicKey())
			if err != nil {
				return err
			}
			backupsFor[other.ID][g.ID] = ct
		}
	}
	// Each guardian verifies every sender's backup concurrently rather
	// than one at a time, since the checks are independent of each other.
	for _, g := range guardians {
		if err := g.ReceiveBackups(backupsFor[g.ID]); err != nil {
			return err
		}
	}
	for _, g := range guardians {
		if err := g.MarkBackupsDistributed(); err != nil {
			return err
		}
		if !g.AllBackupsVerified(ids) {
			return egerrors.New(egerrors.InvariantViolation, "main.runKeyCeremony", fmt.Errorf("guardian %s missing verified backups", g.ID))
		}
	}
	return nil
}

// decryptSum produces every present guardian's direct decryption share. If
// missingID names a guardian, it is excluded from direct participation and
// its share is instead reconstructed from the backups the present
// guardians already hold, per SPEC_FULL.md §4.9's compensated-decryption
// procedure. The returned shares are the present guardians' direct shares
// only, suitable for inclusion in the election record; the reconstructed
// missing share (if any) contributes to the combined plaintext count but
// has no Chaum-Pedersen proof of its own to record, since it is itself a
// combination of other guardians' proven contributions.
func decryptSum(guardians []*ceremony.Guardian, missingID string, sum elgamal.Ciphertext, boundedDlogMax int64) ([]decryption.Share, uint64, error) {
	var missing *ceremony.Guardian
	present := make([]*ceremony.Guardian, 0, len(guardians))
	for _, g := range guardians {
		if g.ID == missingID {
			missing = g
			continue
		}
		present = append(present, g)
	}
	if missingID != "" && missing == nil {
		return nil, 0, egerrors.New(egerrors.InvariantViolation, "main.decryptSum", fmt.Errorf("no such guardian %s", missingID))
	}

	shares := make([]decryption.Share, 0, len(present))
	ms := make([]group.ElementModP, 0, len(present)+1)
	for _, g := range present {
		sh, err := decryption.ComputeShare(g.ID, sum, g.SecretKey(), g.PublicKey())
		if err != nil {
			return nil, 0, err
		}
		if err := decryption.VerifyShare(sh, g.PublicKey(), sum); err != nil {
			return nil, 0, err
		}
		shares = append(shares, sh)
		ms = append(ms, sh.M)
	}

	if missing != nil {
		compensated := make(map[string]decryption.CompensatedShare, len(present))
		presentSeq := make(map[string]int64, len(present))
		for _, g := range present {
			pli, ok := g.ReceivedBackup(missing.ID)
			if !ok {
				return nil, 0, egerrors.New(egerrors.InvariantViolation, "main.decryptSum", fmt.Errorf("guardian %s holds no backup from %s", g.ID, missing.ID))
			}
			commitment := commitmentAt(missing, g.SequenceOrder)
			cs, err := decryption.ComputeCompensatedShare(g.ID, sum, pli, commitment)
			if err != nil {
				return nil, 0, err
			}
			if err := decryption.VerifyCompensatedShare(cs, commitment, sum); err != nil {
				return nil, 0, err
			}
			compensated[g.ID] = cs
			presentSeq[g.ID] = g.SequenceOrder
		}
		reconstructed, err := decryption.ReconstructMissingShare(compensated, presentSeq)
		if err != nil {
			return nil, 0, err
		}
		ms = append(ms, reconstructed)
	}

	count, err := decryption.Combine(sum, ms, boundedDlogMax)
	if err != nil {
		return nil, 0, err
	}
	return shares, count, nil
}

// commitmentAt computes G^{P(x)} for guardian g's polynomial from its
// published commitments alone, without g having to reveal P(x) itself.
func commitmentAt(g *ceremony.Guardian, x int64) group.ElementModP {
	return polynomial.EvaluateCommitment(g.Commitments(), x)
}
