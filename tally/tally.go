// Package tally implements the homomorphic ballot tally: a running
// (A, B) ElGamal pair per contest/selection that CAST ballots accumulate
// into, idempotent per ballot id, with spoiled ballots retained
// separately for individual decryption rather than folded into the sum.
package tally

import (
	"sync"

	"github.com/electionguard-go/core/ballot"
	"github.com/electionguard-go/core/crypto/elgamal"
	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/egerrors"
)

// selectionKey identifies one selection's accumulator slot.
type selectionKey struct {
	contestID string
	optionID  string
}

// Tally accumulates CAST ballots into a per-contest, per-selection
// running ciphertext sum. The zero value is not usable; use New.
type Tally struct {
	mu sync.Mutex

	sums     map[selectionKey]elgamal.Ciphertext
	contests map[string][]string // contestID -> option ids, in first-seen order
	seenCast map[string]bool     // ballot ids already folded into sums

	spoiled map[string]ballot.CiphertextBallot
}

// New constructs an empty tally.
func New() *Tally {
	return &Tally{
		sums:     make(map[selectionKey]elgamal.Ciphertext),
		contests: make(map[string][]string),
		seenCast: make(map[string]bool),
		spoiled:  make(map[string]ballot.CiphertextBallot),
	}
}

// Add folds a CAST ballot's selections into the running sums. Adding the
// same ballot id twice fails DuplicateBallot without mutating the tally.
func (t *Tally) Add(b ballot.CiphertextBallot) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seenCast[b.BallotID] {
		return egerrors.New(egerrors.DuplicateBallot, "Tally.Add", nil)
	}
	if _, spoiled := t.spoiled[b.BallotID]; spoiled {
		return egerrors.New(egerrors.DuplicateBallot, "Tally.Add", nil)
	}

	for _, cc := range b.Contests {
		for _, sel := range cc.Selections {
			key := selectionKey{contestID: cc.ContestID, optionID: sel.OptionID}
			if _, ok := t.sums[key]; !ok {
				t.contests[cc.ContestID] = append(t.contests[cc.ContestID], sel.OptionID)
				t.sums[key] = elgamal.Ciphertext{Pad: group.OneModP(), Data: group.OneModP()}
			}
			t.sums[key] = elgamal.Add(t.sums[key], sel.Ciphertext)
		}
	}
	t.seenCast[b.BallotID] = true
	return nil
}

// AddSpoiled retains a spoiled ballot for individual decryption; it is
// never folded into the homomorphic sums. Adding the same ballot id twice
// (as spoiled or previously cast) fails DuplicateBallot.
func (t *Tally) AddSpoiled(b ballot.CiphertextBallot) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seenCast[b.BallotID] {
		return egerrors.New(egerrors.DuplicateBallot, "Tally.AddSpoiled", nil)
	}
	if _, ok := t.spoiled[b.BallotID]; ok {
		return egerrors.New(egerrors.DuplicateBallot, "Tally.AddSpoiled", nil)
	}
	t.spoiled[b.BallotID] = b
	return nil
}

// Sum returns the running ciphertext for one contest/selection and
// whether any cast ballot has contributed to it yet.
func (t *Tally) Sum(contestID, optionID string) (elgamal.Ciphertext, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ct, ok := t.sums[selectionKey{contestID: contestID, optionID: optionID}]
	return ct, ok
}

// Selections returns the option ids seen for a contest, in first-seen
// order.
func (t *Tally) Selections(contestID string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.contests[contestID]))
	copy(out, t.contests[contestID])
	return out
}

// Spoiled returns the retained spoiled ballots, keyed by ballot id.
func (t *Tally) Spoiled() map[string]ballot.CiphertextBallot {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]ballot.CiphertextBallot, len(t.spoiled))
	for k, v := range t.spoiled {
		out[k] = v
	}
	return out
}

// CastBallotCount returns the number of distinct cast ballot ids folded
// into the tally, usable as an upper bound T_max for bounded discrete-log
// recovery during decryption.
func (t *Tally) CastBallotCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seenCast)
}
