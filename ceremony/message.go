package ceremony

import "github.com/electionguard-go/core/crypto/group"

// MessageKind tags the variant held by a Message.
type MessageKind int

const (
	PublicKeyAnnounce MessageKind = iota
	BackupSend
	BackupVerify
	BackupChallenge
	BackupReveal
)

func (k MessageKind) String() string {
	switch k {
	case PublicKeyAnnounce:
		return "PUBLIC_KEY_ANNOUNCE"
	case BackupSend:
		return "BACKUP_SEND"
	case BackupVerify:
		return "BACKUP_VERIFY"
	case BackupChallenge:
		return "BACKUP_CHALLENGE"
	case BackupReveal:
		return "BACKUP_REVEAL"
	default:
		return "UNKNOWN"
	}
}

// Message is the tagged union of every message a guardian exchanges with
// the mediator during the Key Ceremony. Only the fields relevant to Kind
// are populated; it is a deliberately flat envelope rather than an
// interface hierarchy so a mediator's inbox can be a single typed channel.
type Message struct {
	Kind MessageKind
	From string
	To   string // recipient id; a PublicKeyAnnounce is sent as one copy per peer

	// PublicKeyAnnounce
	SequenceOrder int64
	Commitments   []group.ElementModP
	Proofs        []struct {
		Commitment group.ElementModP
		Challenge  group.ElementModQ
		Response   group.ElementModQ
	}

	// BackupSend
	Backup BackupCiphertext

	// BackupVerify
	OK bool

	// BackupReveal
	Plaintext group.ElementModQ
}
