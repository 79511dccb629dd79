package ceremony

import "github.com/electionguard-go/core/log"

// Mediator is a pure message router: it holds no guardian secrets, only
// the public records and pending messages needed to get every guardian's
// output in front of every other guardian. A real deployment replaces
// this with whatever transport carries Message between guardians; this
// type models the logical conduit so the ceremony can be driven and
// tested in-process.
type Mediator struct {
	peers   []string
	records map[string]PublicRecord
	inbox   chan Message
	outbox  chan Message
}

// NewMediator constructs a mediator for the given set of guardian ids.
// bufSize sizes the internal channels. Sends block while a channel is full,
// so a driver that publishes and routes from a single goroutine needs a
// buffer large enough for the messages it queues before draining them.
func NewMediator(peers []string, bufSize int) *Mediator {
	return &Mediator{
		peers:   peers,
		records: make(map[string]PublicRecord),
		inbox:   make(chan Message, bufSize),
		outbox:  make(chan Message, bufSize),
	}
}

// Inbox is the channel a collaborator application sends incoming Messages
// to for routing.
func (m *Mediator) Inbox() chan<- Message { return m.inbox }

// Outbox is the channel the mediator publishes routed Messages on.
func (m *Mediator) Outbox() <-chan Message { return m.outbox }

// PublishRecord records a guardian's public half, as produced once it
// reaches KeysGenerated. A PUBLIC_KEY_ANNOUNCE is broadcast to every other
// peer over the outbox.
func (m *Mediator) PublishRecord(r PublicRecord) {
	m.records[r.GuardianID] = r
	for _, peer := range m.peers {
		if peer == r.GuardianID {
			continue
		}
		m.outbox <- Message{
			Kind:          PublicKeyAnnounce,
			From:          r.GuardianID,
			To:            peer,
			SequenceOrder: r.SequenceOrder,
			Commitments:   r.Commitments,
			Proofs:        r.Proofs,
		}
	}
	log.Infow("mediator published guardian record", "guardian", r.GuardianID, "peers", len(m.peers)-1)
}

// AllRecordsPublished reports whether every expected peer has a record on
// file, the gate before backup distribution can begin.
func (m *Mediator) AllRecordsPublished() bool {
	for _, p := range m.peers {
		if _, ok := m.records[p]; !ok {
			return false
		}
	}
	return true
}

// Route forwards a BACKUP_SEND, BACKUP_VERIFY, BACKUP_CHALLENGE or
// BACKUP_REVEAL message from its inbox straight to its addressed
// recipient via the outbox, unmodified: the mediator never inspects
// backup payloads, only their envelopes.
func (m *Mediator) Route(msg Message) {
	m.outbox <- msg
}

// Drain processes every currently queued inbox message by routing it, for
// callers driving the mediator synchronously rather than via goroutines.
func (m *Mediator) Drain() {
	for {
		select {
		case msg := <-m.inbox:
			m.Route(msg)
		default:
			return
		}
	}
}

// Record returns the published public record for a guardian id, if any.
func (m *Mediator) Record(id string) (PublicRecord, bool) {
	r, ok := m.records[id]
	return r, ok
}

// Records returns every published public record, keyed by guardian id.
func (m *Mediator) Records() map[string]PublicRecord {
	out := make(map[string]PublicRecord, len(m.records))
	for k, v := range m.records {
		out[k] = v
	}
	return out
}
