package ballot

// PlaintextBallot is a voter's selections for one ballot style: each
// contest the style allows maps to the set of option ids the voter chose.
// Options not present in a contest's slice are implicitly 0 (not
// selected); the zero value for an allowed contest means undervoted,
// which is always legal.
type PlaintextBallot struct {
	BallotID string
	StyleID  string
	Contests []PlaintextContest
}

// PlaintextContest names the options a voter selected within one contest.
// Each entry must name an option the manifest defines for that contest.
type PlaintextContest struct {
	ContestID string
	Selected  []string // ids of the options the voter chose
}
