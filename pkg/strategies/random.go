package strategies

import (
	"math/rand"
	"sync"
	"time"
)

// The fake-data and format-preserving strategies draw from one shared,
// seeded-once source. Their output is intentionally non-deterministic;
// value stability across a document comes from the caller's replacement
// context, never from the strategy itself.
var (
	sharedRNG *rand.Rand
	rngMu     sync.Mutex
	rngOnce   sync.Once
)

func getRNG() *rand.Rand {
	rngOnce.Do(func() {
		sharedRNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	})
	return sharedRNG
}

// randInt returns a random integer in the range [0, n).
func randInt(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return getRNG().Intn(n)
}

// randIntRange returns a random integer in the range [min, max).
func randIntRange(minVal, maxVal int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return getRNG().Intn(maxVal-minVal) + minVal
}

// pick returns a uniformly chosen element of items.
func pick(items []string) string {
	return items[randInt(len(items))]
}
