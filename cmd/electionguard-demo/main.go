// Command electionguard-demo runs one complete election end to end: a
// threshold Key Ceremony, ballot encryption, homomorphic tally, threshold
// decryption (optionally with a guardian missing and compensated), and
// assembly of the resulting election record, which it then writes to disk
// and re-verifies independently of the in-memory state that produced it.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/electionguard-go/core/config"
	"github.com/electionguard-go/core/log"
	"github.com/electionguard-go/core/record"
)

func main() {
	guardianCount := flag.IntP("guardians", "n", 5, "number of guardians")
	quorum := flag.IntP("quorum", "k", 3, "decryption quorum")
	missing := flag.StringP("missing", "m", "", "guardian id to simulate as unavailable during decryption (compensated)")
	out := flag.StringP("out", "o", "election_record.json", "path to write the assembled election record")

	// config.Load registers its own flags (bounded-dlog-max, log.*) and
	// parses the combined flag set exactly once.
	cfg, err := config.Load(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.Log.Level, cfg.Log.Output, nil)

	if *quorum < 1 || *quorum > *guardianCount {
		log.Fatalf("quorum must satisfy 1 <= k <= n, got k=%d n=%d", *quorum, *guardianCount)
	}

	r, err := runElection(*guardianCount, *quorum, *missing, cfg.BoundedDlogMax)
	if err != nil {
		log.Fatalf("election run failed: %v", err)
	}

	if err := record.Verify(r); err != nil {
		log.Fatalf("assembled record failed self-verification: %v", err)
	}
	log.Infow("election record verified", "guardians", *guardianCount, "quorum", *quorum)

	data, err := record.Encode(r, record.EncodingJSON)
	if err != nil {
		log.Fatalf("failed to encode election record: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("failed to write election record: %v", err)
	}
	log.Infow("election record written", "path", *out, "bytes", len(data))

	for _, st := range r.Tally {
		fmt.Printf("%s / %s: %d\n", st.ContestID, st.OptionID, st.Count)
	}
}
