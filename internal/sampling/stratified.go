package sampling

import (
	"math/rand"
	"sort"

	"github.com/arpitg1304/tessera/internal/domain"
)

// SelectStratified picks nSamples indices preserving the proportional
// representation of the distinct values of one metadata field.
//
// Groups are visited in the canonical order of their values. Every
// group except the last gets floor(nSamples * size / nTotal) indices,
// raised to 1 when the group is non-empty and budget remains, and
// capped by the group size and the remaining budget. The last group
// absorbs the remainder, capped by its own size; any leftover from
// that cap is redistributed to earlier groups with spare capacity so
// the total is exactly min(nSamples, nTotal).
//
// Within each group the quota is drawn uniformly at random without
// replacement from a generator seeded by the single input seed and
// consumed in canonical group order, so equal inputs give equal output.
func SelectStratified(metadata domain.Metadata, field string, nSamples int, seed int64, nTotal int) ([]int, error) {
	column, ok := metadata[field]
	if !ok {
		return nil, &UnknownFieldError{Field: field, Available: metadata.Fields()}
	}
	if nSamples >= nTotal {
		return allIndices(nTotal), nil
	}
	if nSamples <= 0 {
		return []int{}, nil
	}

	groups := column.Groups()
	quotas := allocate(groups, nSamples, nTotal)

	rng := rand.New(rand.NewSource(seed))
	selected := make([]int, 0, nSamples)
	for g, group := range groups {
		if quotas[g] == 0 {
			continue
		}
		pool := make([]int, len(group.Indices))
		copy(pool, group.Indices)
		selected = append(selected, drawWithoutReplacement(rng, pool, quotas[g])...)
	}

	sort.Ints(selected)
	return selected, nil
}

// allocate computes per-group quotas. The quotas sum to exactly
// nSamples (nSamples < nTotal implies enough capacity exists).
func allocate(groups []domain.Group, nSamples, nTotal int) []int {
	quotas := make([]int, len(groups))
	remaining := nSamples
	for g, group := range groups {
		size := len(group.Indices)
		if g == len(groups)-1 {
			quotas[g] = min(remaining, size)
			remaining -= quotas[g]
			break
		}
		q := nSamples * size / nTotal
		if q < 1 && size > 0 && remaining > 0 {
			q = 1
		}
		q = min(q, size, remaining)
		quotas[g] = q
		remaining -= q
	}

	// The last group's size cap can leave budget unplaced; top up
	// earlier groups with spare capacity in canonical order.
	for g := range groups {
		if remaining == 0 {
			break
		}
		spare := len(groups[g].Indices) - quotas[g]
		if spare <= 0 {
			continue
		}
		add := min(spare, remaining)
		quotas[g] += add
		remaining -= add
	}
	return quotas
}
