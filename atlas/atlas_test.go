package atlas

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// checkSkyline verifies the skyline covers [0, width) with sorted,
// contiguous nodes and no equal-height neighbours.
func checkSkyline(t *testing.T, a *Atlas) {
	t.Helper()
	nodes := a.Nodes()
	if len(nodes) == 0 {
		t.Fatal("empty skyline")
	}
	x := 0
	for i, n := range nodes {
		if n.X != x {
			t.Fatalf("node %d starts at %d, want %d: %v", i, n.X, x, nodes)
		}
		if n.Width <= 0 {
			t.Fatalf("node %d has width %d: %v", i, n.Width, nodes)
		}
		if n.Y < 0 || n.Y > a.Height() {
			t.Fatalf("node %d height %d outside [0, %d]", i, n.Y, a.Height())
		}
		if i > 0 && nodes[i-1].Y == n.Y {
			t.Fatalf("nodes %d and %d share height %d: %v", i-1, i, n.Y, nodes)
		}
		x += n.Width
	}
	if x != a.Width() {
		t.Fatalf("skyline ends at %d, want %d", x, a.Width())
	}
}

type rect struct{ x, y, w, h int }

func (r rect) overlaps(o rect) bool {
	return r.x < o.x+o.w && o.x < r.x+r.w && r.y < o.y+o.h && o.y < r.y+r.h
}

func TestNew(t *testing.T) {
	a := New(64, 32)
	if a.Width() != 64 || a.Height() != 32 {
		t.Errorf("size = %dx%d, want 64x32", a.Width(), a.Height())
	}
	if diff := cmp.Diff([]Node{{X: 0, Y: 0, Width: 64}}, a.Nodes()); diff != "" {
		t.Errorf("Nodes() mismatch (-want +got):\n%s", diff)
	}
	if a.MaxY() != 0 {
		t.Errorf("MaxY() = %d, want 0", a.MaxY())
	}
}

func TestAddRectBottomLeft(t *testing.T) {
	a := New(10, 10)

	steps := []struct {
		w, h   int
		wantX  int
		wantY  int
		wantSk []Node
	}{
		{4, 3, 0, 0, []Node{{0, 3, 4}, {4, 0, 6}}},
		{2, 2, 4, 0, []Node{{0, 3, 4}, {4, 2, 2}, {6, 0, 4}}},
		// lowest top wins: x=6 rests at 0, top 5; x=4 would rest at 2
		{4, 5, 6, 0, []Node{{0, 3, 4}, {4, 2, 2}, {6, 5, 4}}},
		// fills the notch and merges with the left neighbour
		{2, 1, 4, 2, []Node{{0, 3, 6}, {6, 5, 4}}},
	}
	for i, s := range steps {
		x, y, err := a.AddRect(s.w, s.h)
		if err != nil {
			t.Fatalf("step %d: AddRect(%d, %d) error: %v", i, s.w, s.h, err)
		}
		if x != s.wantX || y != s.wantY {
			t.Errorf("step %d: AddRect(%d, %d) = (%d, %d), want (%d, %d)", i, s.w, s.h, x, y, s.wantX, s.wantY)
		}
		if diff := cmp.Diff(s.wantSk, a.Nodes()); diff != "" {
			t.Errorf("step %d: skyline mismatch (-want +got):\n%s", i, diff)
		}
	}
	if a.MaxY() != 5 {
		t.Errorf("MaxY() = %d, want 5", a.MaxY())
	}
}

func TestAddRectTieBreak(t *testing.T) {
	a := New(10, 10)
	mustAdd(t, a, 6, 2)
	mustAdd(t, a, 1, 4)
	mustAdd(t, a, 3, 2)
	want := []Node{{0, 2, 6}, {6, 4, 1}, {7, 2, 3}}
	if diff := cmp.Diff(want, a.Nodes()); diff != "" {
		t.Fatalf("skyline mismatch (-want +got):\n%s", diff)
	}
	// x=0 and x=7 both give a top of 3; the narrower span wins.
	if x, y := mustAdd(t, a, 2, 1); x != 7 || y != 2 {
		t.Errorf("AddRect = (%d, %d), want (7, 2)", x, y)
	}
}

func mustAdd(t *testing.T, a *Atlas, w, h int) (int, int) {
	t.Helper()
	x, y, err := a.AddRect(w, h)
	if err != nil {
		t.Fatalf("AddRect(%d, %d): %v", w, h, err)
	}
	return x, y
}

func TestAddRectErrors(t *testing.T) {
	a := New(8, 8)
	tests := []struct {
		name string
		w, h int
		want error
	}{
		{"zero width", 0, 3, ErrInvalidSize},
		{"negative height", 3, -1, ErrInvalidSize},
		{"too wide", 9, 1, ErrFull},
		{"too tall", 1, 9, ErrFull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := a.AddRect(tt.w, tt.h); !errors.Is(err, tt.want) {
				t.Errorf("AddRect(%d, %d) error = %v, want %v", tt.w, tt.h, err, tt.want)
			}
		})
	}
	checkSkyline(t, a)
}

func TestUnitSquaresFill(t *testing.T) {
	const w, h = 7, 5
	a := New(w, h)
	seen := make(map[[2]int]bool)
	for i := 0; i < w*h; i++ {
		x, y, err := a.AddRect(1, 1)
		if err != nil {
			t.Fatalf("square %d: %v", i, err)
		}
		if seen[[2]int{x, y}] {
			t.Fatalf("square %d reused (%d, %d)", i, x, y)
		}
		seen[[2]int{x, y}] = true
		if a.MaxY() > h {
			t.Fatalf("MaxY() = %d exceeds %d", a.MaxY(), h)
		}
		checkSkyline(t, a)
	}
	if _, _, err := a.AddRect(1, 1); !errors.Is(err, ErrFull) {
		t.Errorf("extra square error = %v, want %v", err, ErrFull)
	}
}

func TestRandomInvariants(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 20; round++ {
		a := New(64+r.IntN(64), 64+r.IntN(64))
		var placed []rect
		for i := 0; i < 200; i++ {
			switch op := r.IntN(20); {
			case op == 0:
				if err := a.Expand(a.Width()+r.IntN(16), a.Height()+r.IntN(16)); err != nil {
					t.Fatalf("Expand: %v", err)
				}
			case op == 1 && round%2 == 1:
				a.Reset(a.Width(), a.Height())
				placed = placed[:0]
			default:
				w, h := 1+r.IntN(12), 1+r.IntN(12)
				x, y, err := a.AddRect(w, h)
				if errors.Is(err, ErrFull) {
					continue
				}
				if err != nil {
					t.Fatalf("AddRect: %v", err)
				}
				n := rect{x, y, w, h}
				if x < 0 || y < 0 || x+w > a.Width() || y+h > a.Height() {
					t.Fatalf("rect %v outside %dx%d", n, a.Width(), a.Height())
				}
				for _, p := range placed {
					if n.overlaps(p) {
						t.Fatalf("rect %v overlaps %v", n, p)
					}
				}
				placed = append(placed, n)
			}
			checkSkyline(t, a)
		}
	}
}

func TestExpand(t *testing.T) {
	a := New(8, 8)
	mustAdd(t, a, 8, 3)
	if err := a.Expand(12, 10); err != nil {
		t.Fatal(err)
	}
	want := []Node{{0, 3, 8}, {8, 0, 4}}
	if diff := cmp.Diff(want, a.Nodes()); diff != "" {
		t.Errorf("skyline mismatch (-want +got):\n%s", diff)
	}
	if x, y := mustAdd(t, a, 4, 10); x != 8 || y != 0 {
		t.Errorf("AddRect after Expand = (%d, %d), want (8, 0)", x, y)
	}

	if err := a.Expand(4, 4); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("shrinking Expand error = %v, want %v", err, ErrInvalidSize)
	}

	// Expanding an empty atlas keeps a single node.
	b := New(4, 4)
	if err := b.Expand(8, 4); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]Node{{0, 0, 8}}, b.Nodes()); diff != "" {
		t.Errorf("empty Expand mismatch (-want +got):\n%s", diff)
	}
}

func TestReset(t *testing.T) {
	a := New(16, 16)
	mustAdd(t, a, 5, 5)
	mustAdd(t, a, 7, 2)
	a.Reset(32, 8)
	if diff := cmp.Diff([]Node{{0, 0, 32}}, a.Nodes()); diff != "" {
		t.Errorf("Reset mismatch (-want +got):\n%s", diff)
	}
	if a.Width() != 32 || a.Height() != 8 {
		t.Errorf("size = %dx%d, want 32x8", a.Width(), a.Height())
	}
}

func BenchmarkAddRect(b *testing.B) {
	r := rand.New(rand.NewPCG(3, 4))
	a := New(1024, 1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := a.AddRect(4+r.IntN(24), 4+r.IntN(24)); err != nil {
			a.Reset(1024, 1024)
		}
	}
}
