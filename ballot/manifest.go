// Package ballot implements ballot encryption: the internal election
// manifest shape, plaintext and ciphertext ballot representations, and
// EncryptBallot's deterministic nonce derivation, placeholder insertion,
// and per-selection/per-contest proof attachment.
package ballot

import (
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/crypto/hash"
)

// Manifest is the minimal internal shape EncryptBallot needs to drive
// encryption: styles reference a subset of contests, each contest has a
// selection limit and an ordered list of options. Parsing an external
// election manifest format into this shape is out of scope.
type Manifest struct {
	StyleID         string
	Contests        []Contest
	StyleContestIDs map[string][]string // ballot style id -> contest ids eligible under that style
}

// Contest describes one contest's options and selection limit (the
// maximum number of options a voter may select, L).
type Contest struct {
	ID             string
	DescriptionHash group.ElementModQ
	SelectionLimit int
	Options        []Option
}

// Option is one selectable option within a contest, carrying its own
// description hash for nonce derivation.
type Option struct {
	ID              string
	DescriptionHash group.ElementModQ
}

// ContestByID finds a contest by id, for validating a plaintext ballot
// against the manifest.
func (m Manifest) ContestByID(id string) (Contest, bool) {
	for _, c := range m.Contests {
		if c.ID == id {
			return c, true
		}
	}
	return Contest{}, false
}

// AllowsContest reports whether contest id is eligible under style.
func (m Manifest) AllowsContest(style, contestID string) bool {
	for _, id := range m.StyleContestIDs[style] {
		if id == contestID {
			return true
		}
	}
	return false
}

// Hash returns the manifest's description hash, folding in the style id
// and every contest/option description hash in order. Used as
// manifest_hash in context.json and the ballot crypto_hash chain.
func (m Manifest) Hash() group.ElementModQ {
	args := []any{m.StyleID}
	for _, c := range m.Contests {
		args = append(args, c.ID, c.DescriptionHash, int64(c.SelectionLimit))
		for _, o := range c.Options {
			args = append(args, o.ID, o.DescriptionHash)
		}
	}
	return hash.Elems(args...)
}
