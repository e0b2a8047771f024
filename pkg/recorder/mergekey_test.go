package recorder

import (
	"math/rand"
	"sort"
	"testing"
)

func randomKey(r *rand.Rand) MergeKey {
	return MergeKey{
		RecordedAtMs: uint64(r.Intn(5)),
		PaneID:       uint64(r.Intn(5)),
		StreamRank:   r.Intn(4),
		Sequence:     uint64(r.Intn(5)),
		EventID:      string(rune('a' + r.Intn(3))),
	}
}

func TestMergeKey_TotalOrder(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		a := randomKey(r)
		b := randomKey(r)

		lt := a.Compare(b) < 0
		eq := a.Compare(b) == 0
		gt := a.Compare(b) > 0

		count := 0
		for _, v := range []bool{lt, eq, gt} {
			if v {
				count++
			}
		}
		if count != 1 {
			t.Fatalf("expected exactly one of lt/eq/gt for %+v vs %+v, got lt=%v eq=%v gt=%v", a, b, lt, eq, gt)
		}

		// antisymmetry
		if lt && b.Compare(a) <= 0 {
			t.Fatalf("antisymmetry violated for %+v vs %+v", a, b)
		}
	}
}

func TestMergeKey_SortStable(t *testing.T) {
	keys := []MergeKey{
		{RecordedAtMs: 2, PaneID: 1, StreamRank: 0, Sequence: 0, EventID: "b"},
		{RecordedAtMs: 1, PaneID: 9, StreamRank: 3, Sequence: 5, EventID: "a"},
		{RecordedAtMs: 1, PaneID: 1, StreamRank: 2, Sequence: 0, EventID: "c"},
		{RecordedAtMs: 1, PaneID: 1, StreamRank: 1, Sequence: 0, EventID: "z"},
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	for i := 1; i < len(keys); i++ {
		if keys[i-1].Compare(keys[i]) > 0 {
			t.Fatalf("sort did not produce a non-decreasing order at index %d: %+v > %+v", i, keys[i-1], keys[i])
		}
	}
	if keys[0].RecordedAtMs != 1 || keys[0].StreamRank != 1 {
		t.Fatalf("unexpected sort head: %+v", keys[0])
	}
}
