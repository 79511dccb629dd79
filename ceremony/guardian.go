// Package ceremony implements the threshold Key Ceremony: each guardian
// generates an election polynomial, publishes commitments and Schnorr
// proofs, distributes encrypted backups of its polynomial's evaluation at
// every other guardian's coordinate, and the ceremony concludes once every
// backup is verified and the joint public key can be published.
package ceremony

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/polynomial"
	"github.com/electionguard-go/core/crypto/proof"
	"github.com/electionguard-go/core/egerrors"
	"github.com/electionguard-go/core/log"
)

// State is a guardian's position in the ceremony state machine. States
// only move forward; Disputed only resolves via Evicted or back into
// BackupsVerified once a challenge reveal succeeds.
type State int

const (
	Init State = iota
	KeysGenerated
	PublicKeysReceived
	BackupsGenerated
	BackupsDistributed
	BackupsVerified
	JointKeyReady
	Disputed
	Evicted
)

func (s State) String() string {
	switch s {
	case Init:
		return "Init"
	case KeysGenerated:
		return "KeysGenerated"
	case PublicKeysReceived:
		return "PublicKeysReceived"
	case BackupsGenerated:
		return "BackupsGenerated"
	case BackupsDistributed:
		return "BackupsDistributed"
	case BackupsVerified:
		return "BackupsVerified"
	case JointKeyReady:
		return "JointKeyReady"
	case Disputed:
		return "Disputed"
	case Evicted:
		return "Evicted"
	default:
		return "Unknown"
	}
}

// PublicRecord is the append-only public half of a guardian's state,
// published once at KeysGenerated and never mutated afterward.
type PublicRecord struct {
	GuardianID    string
	SequenceOrder int64
	PublicKey     group.ElementModP
	Commitments   []group.ElementModP
	Proofs        []struct {
		Commitment group.ElementModP
		Challenge  group.ElementModQ
		Response   group.ElementModQ
	}
}

// Guardian holds one participant's full ceremony state: its own
// polynomial (private), the backups it has sent and received, and the
// state machine position. The zero value is not usable; use NewGuardian.
type Guardian struct {
	ID            string
	SequenceOrder int64
	Quorum        int

	state      State
	polynomial polynomial.Polynomial

	// receivedPublic holds every other guardian's sequence order, public
	// key and coefficient commitments, keyed by guardian id.
	receivedPublic map[string]otherGuardian

	// sentBackups[recipientID] = this guardian's evaluation at the
	// recipient's coordinate, still held in the clear here because the
	// ceremony is simulated in-process; a real deployment encrypts this
	// to the recipient's public key before it ever leaves the guardian.
	sentBackups map[string]group.ElementModQ

	// receivedShares[senderID] = the verified evaluation this guardian
	// received from sender at its own coordinate.
	receivedShares map[string]group.ElementModQ
}

type otherGuardian struct {
	sequenceOrder int64
	publicKey     group.ElementModP
	commitments   []group.ElementModP
}

// NewGuardian constructs a guardian in state Init.
func NewGuardian(id string, sequenceOrder int64, quorum int) *Guardian {
	return &Guardian{
		ID:             id,
		SequenceOrder:  sequenceOrder,
		Quorum:         quorum,
		state:          Init,
		receivedPublic: make(map[string]otherGuardian),
		sentBackups:    make(map[string]group.ElementModQ),
		receivedShares: make(map[string]group.ElementModQ),
	}
}

// State returns the guardian's current state machine position.
func (g *Guardian) State() State { return g.state }

// GenerateKeys samples the guardian's election polynomial and transitions
// to KeysGenerated. Step 1 of the protocol in SPEC_FULL.md §4.6.
func (g *Guardian) GenerateKeys() error {
	if g.state != Init {
		return egerrors.New(egerrors.InvariantViolation, "Guardian.GenerateKeys", fmt.Errorf("expected Init, got %s", g.state))
	}
	p, err := polynomial.Generate(g.Quorum)
	if err != nil {
		return err
	}
	g.polynomial = p
	g.state = KeysGenerated
	log.Infow("guardian generated election polynomial", "guardian", g.ID, "quorum", g.Quorum)
	return nil
}

// PublicKey returns K_i = G^{a_0}, the guardian's contribution to the
// joint public key. Valid once KeysGenerated.
func (g *Guardian) PublicKey() group.ElementModP {
	return g.polynomial.Commitments[0]
}

// SecretKey returns a_0, the guardian's own decryption secret. Valid once
// KeysGenerated.
func (g *Guardian) SecretKey() group.ElementModQ {
	return g.polynomial.Coefficients[0]
}

// Commitments returns the full set of per-coefficient commitments
// {K_{i,j}}.
func (g *Guardian) Commitments() []group.ElementModP {
	return g.polynomial.Commitments
}

// ReceivePublicKey records another guardian's published commitments and
// verifies its Schnorr proofs (step 2); a failed proof evicts the sender
// from this guardian's point of view and is returned as an error rather
// than silently dropped.
func (g *Guardian) ReceivePublicKey(senderID string, sequenceOrder int64, commitments []group.ElementModP, proofs []struct {
	Commitment group.ElementModP
	Challenge  group.ElementModQ
	Response   group.ElementModQ
}) error {
	if _, dup := g.receivedPublic[senderID]; dup {
		return egerrors.New(egerrors.DuplicateGuardianId, "Guardian.ReceivePublicKey", nil)
	}
	for _, otherSeq := range g.receivedPublic {
		if otherSeq.sequenceOrder == sequenceOrder {
			return egerrors.New(egerrors.DuplicateSequenceOrder, "Guardian.ReceivePublicKey", nil)
		}
	}
	if err := verifyCommitmentProofs(commitments, proofs); err != nil {
		return egerrors.New(egerrors.ProofVerificationFailed, "Guardian.ReceivePublicKey", fmt.Errorf("commitment proof from %s: %w", senderID, err))
	}
	g.receivedPublic[senderID] = otherGuardian{
		sequenceOrder: sequenceOrder,
		publicKey:     commitments[0],
		commitments:   commitments,
	}
	return nil
}

// verifyCommitmentProofs checks every coefficient commitment's Schnorr
// proof via polynomial.Polynomial.VerifyCommitments, rejecting a proof
// count mismatch outright rather than letting a short (or nil) proof
// slice silently skip verification of the commitments it doesn't cover.
func verifyCommitmentProofs(commitments []group.ElementModP, proofs []struct {
	Commitment group.ElementModP
	Challenge  group.ElementModQ
	Response   group.ElementModQ
}) error {
	if len(proofs) != len(commitments) {
		return fmt.Errorf("expected %d commitment proofs, got %d", len(commitments), len(proofs))
	}
	schnorrProofs := make([]proof.Schnorr, len(proofs))
	for i, p := range proofs {
		schnorrProofs[i] = proof.Schnorr{Commitment: p.Commitment, Challenge: p.Challenge, Response: p.Response}
	}
	return polynomial.Polynomial{Commitments: commitments, Proofs: schnorrProofs}.VerifyCommitments()
}

// AllPublicKeysReceived reports whether this guardian holds commitments
// for every other participant in the set of expected peer ids.
func (g *Guardian) AllPublicKeysReceived(peers []string) bool {
	for _, id := range peers {
		if id == g.ID {
			continue
		}
		if _, ok := g.receivedPublic[id]; !ok {
			return false
		}
	}
	g.state = PublicKeysReceived
	return true
}

// GenerateBackups evaluates this guardian's polynomial at every peer's
// coordinate (step 3). In production these values are encrypted to the
// recipient's public key before transmission; EncryptBackup produces the
// ciphertext form.
func (g *Guardian) GenerateBackups(peers map[string]int64) error {
	if g.state != PublicKeysReceived {
		return egerrors.New(egerrors.InvariantViolation, "Guardian.GenerateBackups", fmt.Errorf("expected PublicKeysReceived, got %s", g.state))
	}
	for id, seq := range peers {
		if id == g.ID {
			continue
		}
		g.sentBackups[id] = g.polynomial.Eval(seq)
	}
	g.state = BackupsGenerated
	return nil
}

// EncryptBackup encrypts the backup destined for recipientID under the
// recipient's public key, as BACKUP_SEND{from,to,ciphertext} requires. A
// backup is a full Z_q element, too large for exponential ElGamal's
// small-message encoding, so it is sealed with a hashed-ElGamal (DHIES
// style) construction instead: pad = G^r, data = value XOR H(K^r).
func (g *Guardian) EncryptBackup(recipientID string, recipientPublicKey group.ElementModP) (BackupCiphertext, error) {
	value, ok := g.sentBackups[recipientID]
	if !ok {
		return BackupCiphertext{}, egerrors.New(egerrors.InvariantViolation, "Guardian.EncryptBackup", fmt.Errorf("no backup generated for %s", recipientID))
	}
	return sealBackup(value, recipientPublicKey)
}

// MarkBackupsDistributed transitions once every recipient has been sent a
// sealed backup (step 3 complete).
func (g *Guardian) MarkBackupsDistributed() error {
	if g.state != BackupsGenerated {
		return egerrors.New(egerrors.InvariantViolation, "Guardian.MarkBackupsDistributed", fmt.Errorf("expected BackupsGenerated, got %s", g.state))
	}
	g.state = BackupsDistributed
	return nil
}

// ReceiveBackup opens a sealed backup from senderID and checks it against
// the sender's published commitments (step 4). A verification failure
// does not evict outright: it moves this guardian to Disputed so the
// challenge/reveal procedure in SPEC_FULL.md §4.6 can adjudicate whether
// the sender or the recipient is at fault.
func (g *Guardian) ReceiveBackup(senderID string, ct BackupCiphertext) error {
	sender, ok := g.receivedPublic[senderID]
	if !ok {
		return egerrors.New(egerrors.InvariantViolation, "Guardian.ReceiveBackup", fmt.Errorf("unknown sender %s", senderID))
	}
	value, err := openBackup(ct, g.polynomial.Coefficients[0])
	if err != nil {
		return err
	}
	if !polynomial.VerifyBackup(value, sender.commitments, g.SequenceOrder) {
		g.state = Disputed
		return egerrors.New(egerrors.BackupVerificationFailed, "Guardian.ReceiveBackup", fmt.Errorf("backup from %s failed verification", senderID))
	}
	g.receivedShares[senderID] = value
	return nil
}

// ReceiveBackups opens and verifies every entry in backups (keyed by
// sender id) concurrently, one goroutine per sender via errgroup, since
// each sender's backup is checked against that sender's own published
// commitments independently of every other's. Equivalent to calling
// ReceiveBackup once per entry, except that a verification failure in one
// goroutine does not prevent the others from completing; errgroup.Wait
// returns the first error encountered, if any, after every goroutine has
// finished.
func (g *Guardian) ReceiveBackups(backups map[string]BackupCiphertext) error {
	var eg errgroup.Group
	var mu sync.Mutex

	for senderID, ct := range backups {
		senderID, ct := senderID, ct
		eg.Go(func() error {
			sender, ok := g.receivedPublic[senderID]
			if !ok {
				return egerrors.New(egerrors.InvariantViolation, "Guardian.ReceiveBackups", fmt.Errorf("unknown sender %s", senderID))
			}
			value, err := openBackup(ct, g.polynomial.Coefficients[0])
			if err != nil {
				return err
			}
			if !polynomial.VerifyBackup(value, sender.commitments, g.SequenceOrder) {
				mu.Lock()
				g.state = Disputed
				mu.Unlock()
				return egerrors.New(egerrors.BackupVerificationFailed, "Guardian.ReceiveBackups", fmt.Errorf("backup from %s failed verification", senderID))
			}
			mu.Lock()
			g.receivedShares[senderID] = value
			mu.Unlock()
			return nil
		})
	}
	return eg.Wait()
}

// ReceivedBackup returns the verified evaluation this guardian received
// from senderID during the ceremony (P_senderID(this guardian's
// coordinate)), for use as a compensated-decryption contribution if
// senderID later becomes unavailable.
func (g *Guardian) ReceivedBackup(senderID string) (group.ElementModQ, bool) {
	v, ok := g.receivedShares[senderID]
	return v, ok
}

// AllBackupsVerified reports whether this guardian holds a verified share
// from every peer and, if so, transitions to BackupsVerified.
func (g *Guardian) AllBackupsVerified(peers []string) bool {
	for _, id := range peers {
		if id == g.ID {
			continue
		}
		if _, ok := g.receivedShares[id]; !ok {
			return false
		}
	}
	g.state = BackupsVerified
	return true
}

// ChallengeBackup is invoked by a guardian who disputed a backup from
// senderID: it opens the original sealed backup using the recipient's own
// secret key so a mediator can re-verify the plaintext against the
// sender's commitments in public, resolving the dispute in step 5 of the
// protocol without requiring the recipient to reveal its secret key
// itself.
func (g *Guardian) ChallengeBackup(senderID string, ct BackupCiphertext) (group.ElementModQ, error) {
	return openBackup(ct, g.polynomial.Coefficients[0])
}

// ResolveDispute moves a Disputed guardian back to BackupsVerified once a
// challenge reveal has vindicated the sender (the published plaintext
// matched the sender's commitments after all, so the original complaint
// is withdrawn), or to Evicted if the sender truly sent a bad backup.
func (g *Guardian) ResolveDispute(senderAtFault bool) {
	if g.state != Disputed {
		return
	}
	if senderAtFault {
		g.state = Evicted
		return
	}
	g.state = BackupsVerified
}

// JointPublicKey combines this guardian's own public key with every peer's
// published public key into K = Prod_i K_i (step 6). Valid once
// BackupsVerified for all participating guardians.
func (g *Guardian) JointPublicKey(peerKeys []group.ElementModP) group.ElementModP {
	keys := append([]group.ElementModP{g.PublicKey()}, peerKeys...)
	joint := group.MultModPMany(keys...)
	g.state = JointKeyReady
	return joint
}

// Record returns the public half of this guardian's state, suitable for
// publication via a mediator and for inclusion in the final election
// record.
func (g *Guardian) Record() PublicRecord {
	proofs := make([]struct {
		Commitment group.ElementModP
		Challenge  group.ElementModQ
		Response   group.ElementModQ
	}, len(g.polynomial.Proofs))
	for i, p := range g.polynomial.Proofs {
		proofs[i].Commitment = p.Commitment
		proofs[i].Challenge = p.Challenge
		proofs[i].Response = p.Response
	}
	return PublicRecord{
		GuardianID:    g.ID,
		SequenceOrder: g.SequenceOrder,
		PublicKey:     g.PublicKey(),
		Commitments:   g.Commitments(),
		Proofs:        proofs,
	}
}
