// Package egerrors defines the closed set of semantic failure kinds
// produced by the election engine, plus a wrapper type that carries the
// operation name and the underlying cause alongside the kind.
package egerrors

import (
	"errors"
	"fmt"
)

// Kind identifies the semantic category of a failure. Kinds are stable
// across releases; callers are expected to switch on them with errors.Is,
// not on formatted message text.
type Kind int

const (
	_ Kind = iota
	// InvalidElement means bytes did not decode to a canonical ElementModP/Q.
	InvalidElement
	// SubgroupViolation means a value failed the order-Q subgroup check.
	SubgroupViolation
	// WeakSecret means a generated or supplied secret exponent was 0 or 1.
	WeakSecret
	// BadNonce means an encryption or nonce-derivation input reduced to 0.
	BadNonce
	// UnknownSelection means a ballot referenced an option absent from the manifest.
	UnknownSelection
	// OverVote means a contest's selections exceeded its selection limit.
	OverVote
	// WrongStyle means a ballot's style does not match the manifest it targets.
	WrongStyle
	// ProofVerificationFailed means a Schnorr/Chaum-Pedersen/disjoint/constant proof failed to verify.
	ProofVerificationFailed
	// BackupVerificationFailed means a guardian backup share failed its commitment check.
	BackupVerificationFailed
	// DuplicateSequenceOrder means two guardians were assigned the same sequence order.
	DuplicateSequenceOrder
	// DuplicateGuardianId means two guardians were registered under the same id.
	DuplicateGuardianId
	// QuorumUnmet means fewer than the threshold quorum of guardians were available.
	QuorumUnmet
	// DuplicateBallot means a ballot id was added to a tally more than once.
	DuplicateBallot
	// TallyOutOfRange means bounded discrete-log recovery exceeded its search ceiling.
	TallyOutOfRange
	// InvariantViolation means an internal invariant broke; never expected on adversarial input.
	InvariantViolation
)

func (k Kind) String() string {
	switch k {
	case InvalidElement:
		return "InvalidElement"
	case SubgroupViolation:
		return "SubgroupViolation"
	case WeakSecret:
		return "WeakSecret"
	case BadNonce:
		return "BadNonce"
	case UnknownSelection:
		return "UnknownSelection"
	case OverVote:
		return "OverVote"
	case WrongStyle:
		return "WrongStyle"
	case ProofVerificationFailed:
		return "ProofVerificationFailed"
	case BackupVerificationFailed:
		return "BackupVerificationFailed"
	case DuplicateSequenceOrder:
		return "DuplicateSequenceOrder"
	case DuplicateGuardianId:
		return "DuplicateGuardianId"
	case QuorumUnmet:
		return "QuorumUnmet"
	case DuplicateBallot:
		return "DuplicateBallot"
	case TallyOutOfRange:
		return "TallyOutOfRange"
	case InvariantViolation:
		return "InvariantViolation"
	default:
		return "Unknown"
	}
}

// Error wraps a Kind with the operation that raised it and, optionally,
// the lower-level error that caused it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, egerrors.New(egerrors.BadNonce, "", nil)) or,
// more idiomatically, egerrors.Is(err, egerrors.BadNonce).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	var k kindSentinel
	if errors.As(target, &k) {
		return Kind(k) == e.Kind
	}
	return false
}

// kindSentinel lets a bare Kind value be used as an errors.Is target.
type kindSentinel Kind

func (k kindSentinel) Error() string { return Kind(k).String() }

// New constructs an *Error for the given kind, operation, and cause.
func New(kind Kind, op string, cause error) error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// Is reports whether err carries the given Kind anywhere in its chain,
// allowing callers to write egerrors.Is(err, egerrors.DuplicateBallot).
func Is(err error, kind Kind) bool {
	return errors.Is(err, kindSentinel(kind))
}
