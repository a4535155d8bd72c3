package sampling

import (
	"math/rand"
	"sort"
)

// SelectRandom draws nSamples indices from [0, nTotal) uniformly at
// random without replacement, seeded, in ascending order. Requests of
// nTotal or more return every index; non-positive requests return an
// empty set.
func SelectRandom(nTotal, nSamples int, seed int64) []int {
	if nSamples >= nTotal {
		return allIndices(nTotal)
	}
	if nSamples <= 0 {
		return []int{}
	}
	rng := rand.New(rand.NewSource(seed))
	selected := drawWithoutReplacement(rng, allIndices(nTotal), nSamples)
	sort.Ints(selected)
	return selected
}

func allIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// drawWithoutReplacement picks k elements from pool by partial
// Fisher-Yates. The pool is consumed; callers pass a fresh slice.
func drawWithoutReplacement(rng *rand.Rand, pool []int, k int) []int {
	if k > len(pool) {
		k = len(pool)
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}
