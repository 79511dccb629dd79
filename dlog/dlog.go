// Package dlog recovers small discrete logarithms base G in the
// ElectionGuard group: given M = G^m mod P with m bounded by a known
// ceiling, it finds m via baby-step/giant-step and memoizes the values it
// resolves in a shared, thread-safe LRU cache of 4096 entries, since the
// same small set of tally totals gets decrypted and re-verified repeatedly
// across a ceremony, a tally, and a later audit. Once the cache is full the
// least recently used entries are evicted, and an evicted value is
// recomputed on its next lookup.
package dlog

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/hashicorp/golang-lru/v2"

	"github.com/electionguard-go/core/crypto/group"
	"github.com/electionguard-go/core/egerrors"
)

// DefaultMaxResult is the ceiling used when no explicit bound is supplied:
// generous enough for a tally of real-world ballot counts, small enough
// that baby-step/giant-step stays fast.
const DefaultMaxResult = 1 << 24

var (
	cacheOnce sync.Once
	cache     *lru.Cache[string, int64]
)

func sharedCache() *lru.Cache[string, int64] {
	cacheOnce.Do(func() {
		c, err := lru.New[string, int64](4096)
		if err != nil {
			panic(fmt.Sprintf("dlog: failed to create cache: %v", err))
		}
		cache = c
	})
	return cache
}

// Recover returns m such that G^m mod P == target, searching
// [0, maxResult]. It consults the shared cache first and populates it with
// every intermediate baby-step value it computes, so a later call for a
// nearby or equal target is O(1).
func Recover(target group.ElementModP, maxResult int64) (int64, error) {
	if maxResult <= 0 {
		maxResult = DefaultMaxResult
	}
	key := target.String()
	c := sharedCache()
	if m, ok := c.Get(key); ok && m <= maxResult {
		return m, nil
	}

	m, err := babyStepGiantStep(target, maxResult, c)
	if err != nil {
		return 0, err
	}
	return m, nil
}

// babyStepGiantStep finds m with G^m == target for m in [0, max], caching
// every baby-step value G^j (j in [0, step)) as it is produced so repeat
// queries with different targets still benefit from the table.
func babyStepGiantStep(target group.ElementModP, max int64, c *lru.Cache[string, int64]) (int64, error) {
	step := int64(new(big.Int).Sqrt(big.NewInt(max)).Int64()) + 1

	table := make(map[string]int64, step)
	baby := group.OneModP()
	g := group.GeneratorP()
	for j := int64(0); j < step; j++ {
		k := baby.String()
		table[k] = j
		c.Add(k, j)
		baby = group.MultModP(baby, g)
	}

	giantStride := group.PowP(g, group.NewElementModQ(big.NewInt(step)), false)
	giantStrideInv, err := group.InvertModP(giantStride)
	if err != nil {
		return 0, egerrors.New(egerrors.InvariantViolation, "dlog.babyStepGiantStep", err)
	}

	giant := target
	for i := int64(0); i <= max/step+1; i++ {
		if j, ok := table[giant.String()]; ok {
			m := i*step + j
			if m <= max {
				c.Add(target.String(), m)
				return m, nil
			}
		}
		giant = group.MultModP(giant, giantStrideInv)
	}
	return 0, egerrors.New(egerrors.TallyOutOfRange, "dlog.babyStepGiantStep", fmt.Errorf("no discrete log found in [0, %d]", max))
}
