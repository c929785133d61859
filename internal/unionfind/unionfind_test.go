package unionfind

import "testing"

func TestNewSingletons(t *testing.T) {
	f := New(4)
	if f.Sets() != 4 || f.Len() != 4 {
		t.Fatalf("expected 4 singleton sets, got sets=%d len=%d", f.Sets(), f.Len())
	}
	for i := 0; i < 4; i++ {
		if f.Find(i) != i {
			t.Fatalf("Find(%d) = %d, want %d", i, f.Find(i), i)
		}
	}
}

func TestUnionAndConnected(t *testing.T) {
	f := New(6)
	if !f.Union(0, 1) {
		t.Fatal("expected first union to merge")
	}
	if f.Union(1, 0) {
		t.Fatal("expected repeated union to report no merge")
	}
	f.Union(2, 3)
	f.Union(1, 3)

	if !f.Connected(0, 2) {
		t.Fatal("expected 0 and 2 connected transitively")
	}
	if f.Connected(0, 4) {
		t.Fatal("expected 0 and 4 disjoint")
	}
	if f.Sets() != 3 {
		t.Fatalf("Sets() = %d, want 3", f.Sets())
	}
}

func TestAllConnected(t *testing.T) {
	f := New(5)
	f.Union(0, 1)
	f.Union(1, 2)

	tests := []struct {
		name    string
		members []int
		want    bool
	}{
		{"empty", nil, true},
		{"single", []int{4}, true},
		{"joined", []int{0, 1, 2}, true},
		{"split", []int{0, 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.AllConnected(tt.members); got != tt.want {
				t.Errorf("AllConnected(%v) = %v, want %v", tt.members, got, tt.want)
			}
		})
	}
}

func TestGroupsPreserveInputOrder(t *testing.T) {
	f := New(5)
	f.Union(4, 0)
	f.Union(2, 3)

	groups := f.Groups([]int{0, 1, 2, 3, 4})
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d: %v", len(groups), groups)
	}
	g := groups[f.Find(0)]
	if len(g) != 2 || g[0] != 0 || g[1] != 4 {
		t.Fatalf("unexpected group for 0: %v", g)
	}
}

func TestLongChainCompresses(t *testing.T) {
	const n = 10000
	f := New(n)
	for i := 1; i < n; i++ {
		f.Union(i-1, i)
	}
	if f.Sets() != 1 {
		t.Fatalf("expected a single set, got %d", f.Sets())
	}
	root := f.Find(n - 1)
	for i := 0; i < n; i++ {
		if f.Find(i) != root {
			t.Fatalf("element %d not in root set", i)
		}
	}
}
