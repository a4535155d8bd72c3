package sampling

import (
	"testing"

	"github.com/arpitg1304/tessera/internal/domain"
)

// groupCounts tallies selected indices per field value.
func groupCounts(column domain.Column, indices []int) map[string]int {
	counts := make(map[string]int)
	for _, idx := range indices {
		counts[column.Value(idx)]++
	}
	return counts
}

func TestStratifiedProportions(t *testing.T) {
	// 140 "pick" episodes and 60 "place" episodes; 20 samples must
	// split 14 / 6.
	values := make([]string, 200)
	for i := range values {
		if i < 140 {
			values[i] = "pick"
		} else {
			values[i] = "place"
		}
	}
	metadata := domain.Metadata{"task": domain.StringColumn(values)}

	indices, err := SelectStratified(metadata, "task", 20, 42, 200)
	if err != nil {
		t.Fatal(err)
	}
	checkSelection(t, indices, 20, 200)

	counts := groupCounts(metadata["task"], indices)
	if counts["pick"] != 14 || counts["place"] != 6 {
		t.Errorf("expected 14 pick / 6 place, got %d / %d", counts["pick"], counts["place"])
	}
}

func TestStratifiedSmallGroupsRepresented(t *testing.T) {
	// A group far below one proportional share still gets a sample.
	values := make([]string, 1000)
	for i := range values {
		if i < 995 {
			values[i] = "common"
		} else {
			values[i] = "rare"
		}
	}
	metadata := domain.Metadata{"task": domain.StringColumn(values)}

	indices, err := SelectStratified(metadata, "task", 10, 1, 1000)
	if err != nil {
		t.Fatal(err)
	}
	checkSelection(t, indices, 10, 1000)

	counts := groupCounts(metadata["task"], indices)
	if counts["rare"] == 0 {
		t.Error("expected the rare group to be represented")
	}
}

func TestStratifiedExactTotal(t *testing.T) {
	// The last group's size caps its remainder; the shortfall must be
	// redistributed so the total is still exact.
	values := make([]string, 21)
	for i := 0; i < 10; i++ {
		values[i] = "a"
	}
	for i := 10; i < 20; i++ {
		values[i] = "b"
	}
	values[20] = "c"
	metadata := domain.Metadata{"task": domain.StringColumn(values)}

	indices, err := SelectStratified(metadata, "task", 20, 3, 21)
	if err != nil {
		t.Fatal(err)
	}
	checkSelection(t, indices, 20, 21)
}

func TestStratifiedGroupOrderIsCanonical(t *testing.T) {
	// Equal inputs must give equal outputs regardless of map iteration
	// order, so the group visit order has to be canonical.
	values := []string{"b", "a", "c", "a", "b", "c", "a", "b", "c", "a"}
	metadata := domain.Metadata{"task": domain.StringColumn(values)}

	first, err := SelectStratified(metadata, "task", 5, 9, len(values))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		again, err := SelectStratified(metadata, "task", 5, 9, len(values))
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: selection size changed", i)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d: selection changed: %v vs %v", i, again, first)
			}
		}
	}
}

func TestStratifiedNumericField(t *testing.T) {
	// Numeric group values order numerically, not lexically.
	metadata := domain.Metadata{
		"episode_length": domain.IntColumn([]int64{100, 2, 100, 2, 100, 2, 100, 2, 100, 2}),
	}

	indices, err := SelectStratified(metadata, "episode_length", 4, 11, 10)
	if err != nil {
		t.Fatal(err)
	}
	checkSelection(t, indices, 4, 10)

	counts := groupCounts(metadata["episode_length"], indices)
	if counts["2"] != 2 || counts["100"] != 2 {
		t.Errorf("expected 2 / 2 split across groups, got %v", counts)
	}
}

func TestAllocateSumsExactly(t *testing.T) {
	cases := []struct {
		sizes    []int
		nSamples int
	}{
		{[]int{140, 60}, 20},
		{[]int{10, 10, 1}, 20},
		{[]int{1, 1, 1, 1, 1}, 3},
		{[]int{995, 5}, 10},
		{[]int{7}, 3},
		{[]int{3, 3, 3}, 8},
	}
	for _, tc := range cases {
		groups := make([]domain.Group, len(tc.sizes))
		total := 0
		for g, size := range tc.sizes {
			indices := make([]int, size)
			for i := range indices {
				indices[i] = total + i
			}
			groups[g] = domain.Group{Indices: indices}
			total += size
		}

		quotas := allocate(groups, tc.nSamples, total)
		sum := 0
		for g, q := range quotas {
			if q > tc.sizes[g] {
				t.Errorf("sizes=%v n=%d: quota %d exceeds group size %d", tc.sizes, tc.nSamples, q, tc.sizes[g])
			}
			sum += q
		}
		want := tc.nSamples
		if want > total {
			want = total
		}
		if sum != want {
			t.Errorf("sizes=%v n=%d: quotas sum to %d, want %d", tc.sizes, tc.nSamples, sum, want)
		}
	}
}
