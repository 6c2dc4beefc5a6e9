package geom

import (
	"math"
	"testing"
)

// pencil returns n lines through a common point, at spread angles.
func pencil(through Point, n int) []Segment {
	lines := make([]Segment, 0, n)
	for i := 0; i < n; i++ {
		angle := float64(i+1) * math.Pi / float64(n+2)
		dx := math.Cos(angle) * 100
		dy := math.Sin(angle) * 100
		lines = append(lines, Segment{
			X1: through.X - dx, Y1: through.Y - dy,
			X2: through.X + dx, Y2: through.Y + dy,
		})
	}
	return lines
}

func TestLargestIntersectionClusterEmpty(t *testing.T) {
	members, err := LargestIntersectionCluster(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected no members got %d", len(members))
	}
}

func TestLargestIntersectionClusterSinglePoint(t *testing.T) {
	lines := []Segment{{0, 0, 1, 1}, {0, 10, 10, 0}}
	members, err := LargestIntersectionCluster(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) != 1 || members[0] != (Point{5, 5}) {
		t.Fatalf("expected [(5, 5)] got %v", members)
	}
}

func TestLargestIntersectionClusterDominantKnot(t *testing.T) {
	// Four lines through (50, 50) give six coincident intersections;
	// one stray line adds a few distant ones.
	lines := pencil(Point{50, 50}, 4)
	lines = append(lines, Segment{-1000, -990, -990, -1000})

	members, err := LargestIntersectionCluster(lines)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(members) < 2 {
		t.Fatalf("expected the knot as the largest cluster, got %d members", len(members))
	}
	for _, p := range members {
		if Dist(p, Point{50, 50}) > 1 {
			t.Fatalf("cluster member %v too far from the knot", p)
		}
	}
}

func TestBiggestIntersection(t *testing.T) {
	lines := pencil(Point{50, 50}, 3)
	lines = append(lines, Segment{0, 200, 10, 200})

	p, members, ok := BiggestIntersection(lines, 1)
	if !ok {
		t.Fatalf("expected an intersection")
	}
	if Dist(p, Point{50, 50}) > 1e-6 {
		t.Fatalf("expected the shared point, got %v", p)
	}
	if len(members) != 3 {
		t.Fatalf("expected 3 member lines got %d", len(members))
	}
}

func TestBiggestIntersectionNone(t *testing.T) {
	lines := []Segment{{0, 0, 1, 1}, {0, 1, 1, 2}}
	if _, _, ok := BiggestIntersection(lines, 1); ok {
		t.Fatalf("parallel lines must produce no intersection")
	}
}
