package ceremony

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/egerrors"
)

// runKeyGeneration drives every guardian through GenerateKeys and a full
// pairwise exchange of public records, returning once every guardian has
// reached PublicKeysReceived.
func runKeyGeneration(c *qt.C, guardians []*Guardian) {
	ids := make([]string, len(guardians))
	for i, g := range guardians {
		c.Assert(g.GenerateKeys(), qt.IsNil)
		ids[i] = g.ID
	}
	for _, recipient := range guardians {
		for _, sender := range guardians {
			if sender.ID == recipient.ID {
				continue
			}
			err := recipient.ReceivePublicKey(sender.ID, sender.SequenceOrder, sender.Commitments(), sender.Record().Proofs)
			c.Assert(err, qt.IsNil)
		}
	}
	for _, g := range guardians {
		c.Assert(g.AllPublicKeysReceived(ids), qt.IsTrue)
	}
}

func seqMap(guardians []*Guardian) map[string]int64 {
	m := make(map[string]int64, len(guardians))
	for _, g := range guardians {
		m[g.ID] = g.SequenceOrder
	}
	return m
}

func publicKeyOf(guardians []*Guardian, id string) group.ElementModP {
	for _, g := range guardians {
		if g.ID == id {
			return g.PublicKey()
		}
	}
	panic("unknown guardian id")
}

func TestCeremonyHappyPath(t *testing.T) {
	c := qt.New(t)

	g1 := NewGuardian("g1", 1, 2)
	g2 := NewGuardian("g2", 2, 2)
	g3 := NewGuardian("g3", 3, 2)
	guardians := []*Guardian{g1, g2, g3}
	ids := []string{"g1", "g2", "g3"}

	runKeyGeneration(c, guardians)

	seqs := seqMap(guardians)
	for _, g := range guardians {
		c.Assert(g.GenerateBackups(seqs), qt.IsNil)
	}

	for _, sender := range guardians {
		for _, recipientID := range ids {
			if recipientID == sender.ID {
				continue
			}
			ct, err := sender.EncryptBackup(recipientID, publicKeyOf(guardians, recipientID))
			c.Assert(err, qt.IsNil)

			var recipient *Guardian
			for _, g := range guardians {
				if g.ID == recipientID {
					recipient = g
				}
			}
			c.Assert(recipient.ReceiveBackup(sender.ID, ct), qt.IsNil)
		}
	}

	for _, g := range guardians {
		c.Assert(g.AllBackupsVerified(ids), qt.IsTrue)
		c.Assert(g.State(), qt.Equals, BackupsVerified)
	}

	peerKeys := []group.ElementModP{g2.PublicKey(), g3.PublicKey()}
	joint1 := g1.JointPublicKey(peerKeys)
	c.Assert(g1.State(), qt.Equals, JointKeyReady)

	joint2 := g2.JointPublicKey([]group.ElementModP{g1.PublicKey(), g3.PublicKey()})
	c.Assert(joint1.Equal(joint2), qt.IsTrue)
}

func TestReceivePublicKeyRejectsDuplicateGuardian(t *testing.T) {
	c := qt.New(t)

	g1 := NewGuardian("g1", 1, 2)
	g2 := NewGuardian("g2", 2, 2)
	c.Assert(g1.GenerateKeys(), qt.IsNil)
	c.Assert(g2.GenerateKeys(), qt.IsNil)

	c.Assert(g1.ReceivePublicKey("g2", 2, g2.Commitments(), g2.Record().Proofs), qt.IsNil)
	err := g1.ReceivePublicKey("g2", 2, g2.Commitments(), g2.Record().Proofs)
	c.Assert(egerrors.Is(err, egerrors.DuplicateGuardianId), qt.IsTrue)
}

func TestReceivePublicKeyRejectsDuplicateSequenceOrder(t *testing.T) {
	c := qt.New(t)

	g1 := NewGuardian("g1", 1, 2)
	g2 := NewGuardian("g2", 2, 2)
	g3 := NewGuardian("g3", 2, 2) // same sequence order as g2, by mistake
	c.Assert(g1.GenerateKeys(), qt.IsNil)
	c.Assert(g2.GenerateKeys(), qt.IsNil)
	c.Assert(g3.GenerateKeys(), qt.IsNil)

	c.Assert(g1.ReceivePublicKey("g2", g2.SequenceOrder, g2.Commitments(), g2.Record().Proofs), qt.IsNil)
	err := g1.ReceivePublicKey("g3", g3.SequenceOrder, g3.Commitments(), g3.Record().Proofs)
	c.Assert(egerrors.Is(err, egerrors.DuplicateSequenceOrder), qt.IsTrue)
}

func TestReceivePublicKeyRejectsBadCommitmentProof(t *testing.T) {
	c := qt.New(t)

	g1 := NewGuardian("g1", 1, 2)
	g2 := NewGuardian("g2", 2, 2)
	c.Assert(g1.GenerateKeys(), qt.IsNil)
	c.Assert(g2.GenerateKeys(), qt.IsNil)

	proofs := g2.Record().Proofs
	// Tamper with one coefficient's proof response so it no longer
	// satisfies the Schnorr verification equation for its commitment.
	proofs[0].Response = group.AddModQ(proofs[0].Response, group.OneModQ())

	err := g1.ReceivePublicKey("g2", g2.SequenceOrder, g2.Commitments(), proofs)
	c.Assert(egerrors.Is(err, egerrors.ProofVerificationFailed), qt.IsTrue)

	_, ok := g1.receivedPublic["g2"]
	c.Assert(ok, qt.IsFalse)
}

func TestReceivePublicKeyRejectsProofCountMismatch(t *testing.T) {
	c := qt.New(t)

	g1 := NewGuardian("g1", 1, 2)
	g2 := NewGuardian("g2", 2, 2)
	c.Assert(g1.GenerateKeys(), qt.IsNil)
	c.Assert(g2.GenerateKeys(), qt.IsNil)

	err := g1.ReceivePublicKey("g2", g2.SequenceOrder, g2.Commitments(), g2.Record().Proofs[:1])
	c.Assert(egerrors.Is(err, egerrors.ProofVerificationFailed), qt.IsTrue)
}

func TestBackupDisputeResolvedInSendersFavor(t *testing.T) {
	c := qt.New(t)

	g1 := NewGuardian("g1", 1, 2)
	g2 := NewGuardian("g2", 2, 2)
	guardians := []*Guardian{g1, g2}

	runKeyGeneration(c, guardians)
	seqs := seqMap(guardians)
	for _, g := range guardians {
		c.Assert(g.GenerateBackups(seqs), qt.IsNil)
	}

	ct, err := g1.EncryptBackup("g2", g2.PublicKey())
	c.Assert(err, qt.IsNil)

	// A corrupted envelope on the wire makes the honest backup look bad to
	// the recipient, who raises a dispute.
	ct.Data[0] ^= 0xff
	err = g2.ReceiveBackup("g1", ct)
	c.Assert(egerrors.Is(err, egerrors.BackupVerificationFailed), qt.IsTrue)
	c.Assert(g2.State(), qt.Equals, Disputed)

	// g1 reveals the original (uncorrupted) plaintext so a mediator can
	// check it against g1's commitments directly; it matches, so the
	// dispute resolves against the recipient's copy, not the sender.
	revealed := g1.polynomial.Eval(g2.SequenceOrder)
	c.Assert(revealed.Equal(g1.sentBackups["g2"]), qt.IsTrue)
	g2.ResolveDispute(false)
	c.Assert(g2.State(), qt.Equals, BackupsVerified)
}

func TestGenerateKeysRejectsWrongState(t *testing.T) {
	c := qt.New(t)

	g := NewGuardian("g1", 1, 2)
	c.Assert(g.GenerateKeys(), qt.IsNil)
	err := g.GenerateKeys()
	c.Assert(egerrors.Is(err, egerrors.InvariantViolation), qt.IsTrue)
}

func TestReceiveBackupsVerifiesConcurrently(t *testing.T) {
	c := qt.New(t)

	g1 := NewGuardian("g1", 1, 3)
	g2 := NewGuardian("g2", 2, 3)
	g3 := NewGuardian("g3", 3, 3)
	guardians := []*Guardian{g1, g2, g3}

	runKeyGeneration(c, guardians)
	seqs := seqMap(guardians)
	for _, g := range guardians {
		c.Assert(g.GenerateBackups(seqs), qt.IsNil)
	}

	backups := make(map[string]BackupCiphertext, 2)
	for _, sender := range guardians {
		if sender.ID == "g3" {
			continue
		}
		ct, err := sender.EncryptBackup("g3", g3.PublicKey())
		c.Assert(err, qt.IsNil)
		backups[sender.ID] = ct
	}

	c.Assert(g3.ReceiveBackups(backups), qt.IsNil)
	_, ok1 := g3.ReceivedBackup("g1")
	c.Assert(ok1, qt.IsTrue)
	_, ok2 := g3.ReceivedBackup("g2")
	c.Assert(ok2, qt.IsTrue)
}

func TestReceiveBackupsRejectsBadBackup(t *testing.T) {
	c := qt.New(t)

	g1 := NewGuardian("g1", 1, 2)
	g2 := NewGuardian("g2", 2, 2)
	guardians := []*Guardian{g1, g2}

	runKeyGeneration(c, guardians)
	seqs := seqMap(guardians)
	for _, g := range guardians {
		c.Assert(g.GenerateBackups(seqs), qt.IsNil)
	}

	ct, err := g1.EncryptBackup("g2", g2.PublicKey())
	c.Assert(err, qt.IsNil)
	ct.Data[0] ^= 0xff

	err = g2.ReceiveBackups(map[string]BackupCiphertext{"g1": ct})
	c.Assert(egerrors.Is(err, egerrors.BackupVerificationFailed), qt.IsTrue)
	c.Assert(g2.State(), qt.Equals, Disputed)
}

func TestMediatorPublishesAndRoutes(t *testing.T) {
	c := qt.New(t)

	g1 := NewGuardian("g1", 1, 2)
	g2 := NewGuardian("g2", 2, 2)
	c.Assert(g1.GenerateKeys(), qt.IsNil)
	c.Assert(g2.GenerateKeys(), qt.IsNil)

	m := NewMediator([]string{"g1", "g2"}, 4)
	m.PublishRecord(g1.Record())
	c.Assert(m.AllRecordsPublished(), qt.IsFalse)
	m.PublishRecord(g2.Record())
	c.Assert(m.AllRecordsPublished(), qt.IsTrue)

	announce1 := <-m.Outbox()
	announce2 := <-m.Outbox()
	c.Assert(announce1.Kind, qt.Equals, PublicKeyAnnounce)
	c.Assert(announce2.Kind, qt.Equals, PublicKeyAnnounce)

	m.Inbox() <- Message{Kind: BackupSend, From: "g1", To: "g2"}
	m.Drain()
	routed := <-m.Outbox()
	c.Assert(routed.Kind, qt.Equals, BackupSend)
}
