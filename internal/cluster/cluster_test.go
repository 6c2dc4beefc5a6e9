package cluster

import (
	"math"
	"testing"
)

// twoBlobs returns points forming two well separated groups, the
// first four near the origin and the last four near (100, 100).
func twoBlobs() [][]float64 {
	return [][]float64{
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
		{100, 100}, {101, 100}, {100, 101}, {101, 101},
	}
}

func TestKMeansSeparatesBlobs(t *testing.T) {
	points := twoBlobs()
	res, err := KMeans(points, 2, DefaultKMeansParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Labels) != len(points) {
		t.Fatalf("expected %d labels got %d", len(points), len(res.Labels))
	}
	for i := 1; i < 4; i++ {
		if res.Labels[i] != res.Labels[0] {
			t.Fatalf("first blob split: labels %v", res.Labels)
		}
	}
	for i := 5; i < 8; i++ {
		if res.Labels[i] != res.Labels[4] {
			t.Fatalf("second blob split: labels %v", res.Labels)
		}
	}
	if res.Labels[0] == res.Labels[4] {
		t.Fatalf("blobs merged: labels %v", res.Labels)
	}
	if res.SSE > 8.01 {
		t.Fatalf("expected SSE of 8 for unit blobs, got %v", res.SSE)
	}
}

func TestKMeansDeterministic(t *testing.T) {
	points := twoBlobs()
	a, err := KMeans(points, 2, DefaultKMeansParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := KMeans(points, 2, DefaultKMeansParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			t.Fatalf("same seed produced different labels: %v vs %v", a.Labels, b.Labels)
		}
	}
	if a.SSE != b.SSE {
		t.Fatalf("same seed produced different SSE: %v vs %v", a.SSE, b.SSE)
	}
}

func TestKMeansInvalidK(t *testing.T) {
	points := twoBlobs()
	if _, err := KMeans(points, 0, DefaultKMeansParams()); err == nil {
		t.Fatalf("expected error for k=0")
	}
	if _, err := KMeans(points, len(points)+1, DefaultKMeansParams()); err == nil {
		t.Fatalf("expected error for k > len(points)")
	}
}

func TestKMeansSingleCluster(t *testing.T) {
	points := twoBlobs()
	res, err := KMeans(points, 1, DefaultKMeansParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, l := range res.Labels {
		if l != 0 {
			t.Fatalf("expected all points in cluster 0, got %v", res.Labels)
		}
	}
	if len(res.Centers) != 1 {
		t.Fatalf("expected 1 center got %d", len(res.Centers))
	}
	if math.Abs(res.Centers[0][0]-50.5) > 1e-9 || math.Abs(res.Centers[0][1]-50.5) > 1e-9 {
		t.Fatalf("expected center (50.5, 50.5) got %v", res.Centers[0])
	}
}

func TestAdaptiveFindsTwoClusters(t *testing.T) {
	labels, err := Adaptive(twoBlobs(), 5, DefaultKMeansParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if labels[0] == labels[4] {
		t.Fatalf("expected the blobs in different clusters: %v", labels)
	}
	for i := 1; i < 4; i++ {
		if labels[i] != labels[0] {
			t.Fatalf("first blob split: %v", labels)
		}
	}
}

func TestAdaptiveDuplicatePoints(t *testing.T) {
	points := [][]float64{{5, 5}, {5, 5}, {5, 5}, {5, 5}}
	labels, err := Adaptive(points, 0, DefaultKMeansParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, l := range labels {
		if l != labels[0] {
			t.Fatalf("identical points must share one cluster: %v", labels)
		}
	}
}

func TestAdaptiveNegativeMax(t *testing.T) {
	if _, err := Adaptive(twoBlobs(), -1, DefaultKMeansParams()); err == nil {
		t.Fatalf("expected error for negative max clusters")
	}
}

func TestKMeansParamsValidate(t *testing.T) {
	p := DefaultKMeansParams()
	if err := p.Validate(); err != nil {
		t.Fatalf("default params must validate: %v", err)
	}
	p.MaxIterations = 0
	if err := p.Validate(); err == nil {
		t.Fatalf("expected error for zero iterations")
	}
}
