package score

import (
	"math"
	"testing"

	"github.com/banshee-data/horizon.report/internal/geom"
	"github.com/banshee-data/horizon.report/internal/horizon"
)

func line(slope, intercept float64) *horizon.Line {
	return &horizon.Line{Slope: slope, Intercept: intercept}
}

func TestPrincipalPoint(t *testing.T) {
	pp := ImageDims{Width: 101, Height: 51}.PrincipalPoint()
	if pp != (geom.Point{X: 50, Y: 25}) {
		t.Fatalf("expected (50, 25) got %v", pp)
	}
}

func TestHorizonError(t *testing.T) {
	dims := ImageDims{Width: 100, Height: 100}

	e, ok := HorizonError(line(1, 0), line(2, 0), dims)
	if !ok || e != 1 {
		t.Fatalf("expected 1 got %v (ok=%v)", e, ok)
	}

	e, ok = HorizonError(line(-1, 100), line(2, 0), dims)
	if !ok || e != 2 {
		t.Fatalf("expected 2 got %v (ok=%v)", e, ok)
	}

	// Same intercepts: the gap is constant across the image.
	e, ok = HorizonError(line(1, 0), line(1, 500), dims)
	if !ok || e != 5 {
		t.Fatalf("expected 5 got %v (ok=%v)", e, ok)
	}

	// Identical horizons score zero.
	e, ok = HorizonError(line(0.5, 10), line(0.5, 10), dims)
	if !ok || e != 0 {
		t.Fatalf("expected 0 got %v (ok=%v)", e, ok)
	}
}

func TestHorizonErrorHeightNormalized(t *testing.T) {
	e, ok := HorizonError(line(1, 0), line(2, 0), ImageDims{Width: 100, Height: 50})
	if !ok || e != 2 {
		t.Fatalf("expected 2 got %v (ok=%v)", e, ok)
	}
}

func TestHorizonErrorMissing(t *testing.T) {
	dims := ImageDims{Width: 100, Height: 100}
	if _, ok := HorizonError(nil, line(1, 0), dims); ok {
		t.Fatalf("expected no score without ground truth")
	}
	if _, ok := HorizonError(line(1, 0), nil, dims); ok {
		t.Fatalf("expected no score without detection")
	}
}

func TestVPDirectionErrorSingle(t *testing.T) {
	dims := ImageDims{Width: 200, Height: 200}
	errors := VPDirectionError(
		[]geom.Point{{X: 200, Y: 200}},
		[]geom.Point{{X: 100, Y: 200}},
		dims,
	)
	if len(errors) != 1 || errors[0] == nil {
		t.Fatalf("expected one matched entry got %v", errors)
	}
	if math.Abs(*errors[0]-45) > 1e-9 {
		t.Fatalf("expected 45 got %v", *errors[0])
	}
}

func TestVPDirectionErrorGreedyAssignment(t *testing.T) {
	dims := ImageDims{Width: 200, Height: 200}
	errors := VPDirectionError(
		[]geom.Point{{X: 200, Y: 200}, {X: 100, Y: 500}},
		[]geom.Point{{X: 200, Y: 400}, {X: 100, Y: 600}},
		dims,
	)
	if len(errors) != 2 || errors[0] == nil || errors[1] == nil {
		t.Fatalf("expected two matched entries got %v", errors)
	}
	// (100, 500) and (100, 600) are both straight up from the
	// principal point: exact match. (200, 200) pairs with the leftover
	// (200, 400): 71.57 - 45 degrees.
	if math.Abs(*errors[0]-26.565051177) > 1e-6 {
		t.Fatalf("expected 26.57 got %v", *errors[0])
	}
	if *errors[1] != 0 {
		t.Fatalf("expected 0 got %v", *errors[1])
	}
}

func TestVPDirectionErrorUnmatched(t *testing.T) {
	dims := ImageDims{Width: 200, Height: 200}
	errors := VPDirectionError(
		[]geom.Point{{X: 200, Y: 200}, {X: 0, Y: 200}},
		[]geom.Point{{X: 200, Y: 200}},
		dims,
	)
	if len(errors) != 2 {
		t.Fatalf("expected one entry per ground truth VP, got %d", len(errors))
	}
	if errors[0] == nil || *errors[0] != 0 {
		t.Fatalf("expected the exact match scored 0, got %v", errors[0])
	}
	if errors[1] != nil {
		t.Fatalf("expected the surplus ground truth VP unmatched, got %v", *errors[1])
	}
}

func TestVPDirectionErrorFolding(t *testing.T) {
	dims := ImageDims{Width: 200, Height: 200}
	// Rays at 10 and 350 degrees differ by 20, not 340.
	errors := VPDirectionError(
		[]geom.Point{{X: 100 + 100*math.Cos(10*math.Pi/180), Y: 100 + 100*math.Sin(10*math.Pi/180)}},
		[]geom.Point{{X: 100 + 100*math.Cos(-10*math.Pi/180), Y: 100 + 100*math.Sin(-10*math.Pi/180)}},
		dims,
	)
	if errors[0] == nil || math.Abs(*errors[0]-20) > 1e-9 {
		t.Fatalf("expected 20 got %v", errors[0])
	}
}

func TestLocationAccuracyError(t *testing.T) {
	e := LocationAccuracyError([]geom.Point{{X: 0, Y: 0}}, []geom.Point{{X: 10, Y: 0}})
	if math.Abs(e-math.Log(10)) > 1e-9 {
		t.Fatalf("expected ln(10) got %v", e)
	}

	e = LocationAccuracyError([]geom.Point{{X: 0, Y: 0}}, []geom.Point{{X: 1000, Y: 0}})
	if math.Abs(e-math.Log(1000)) > 1e-9 {
		t.Fatalf("expected ln(1000) got %v", e)
	}
}

func TestLocationAccuracyErrorClosestFirst(t *testing.T) {
	// Input order would pair (0,0) with (100,0) first; sorting by
	// distance pairs each ground truth VP with its nearest detection.
	gt := []geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}}
	dt := []geom.Point{{X: 101, Y: 0}, {X: 1, Y: 0}}
	e := LocationAccuracyError(gt, dt)
	if math.Abs(e-0) > 1e-9 {
		t.Fatalf("expected 0 (two distance-1 pairs, ln(1)=0), got %v", e)
	}
}

func TestLocationAccuracyErrorExactMatch(t *testing.T) {
	vps := []geom.Point{{X: 5, Y: 5}, {X: 100, Y: 200}}
	if e := LocationAccuracyError(vps, vps); e != 0 {
		t.Fatalf("expected 0 got %v", e)
	}
}

func TestLocationAccuracyErrorEmpty(t *testing.T) {
	if e := LocationAccuracyError(nil, []geom.Point{{X: 1, Y: 1}}); e != 0 {
		t.Fatalf("expected 0 got %v", e)
	}
	if e := LocationAccuracyError([]geom.Point{{X: 1, Y: 1}}, nil); e != 0 {
		t.Fatalf("expected 0 got %v", e)
	}
}

func TestLocationAccuracyErrorUnevenCounts(t *testing.T) {
	gt := []geom.Point{{X: 0, Y: 0}, {X: 1000, Y: 1000}}
	dt := []geom.Point{{X: 0, Y: math.E}}
	// Only the closest pair matches; divisor is min(2, 1) = 1.
	e := LocationAccuracyError(gt, dt)
	if math.Abs(e-1) > 1e-9 {
		t.Fatalf("expected 1 got %v", e)
	}
}

func TestModelCountError(t *testing.T) {
	two := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}
	three := []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	if e := ModelCountError(two, three); e != 1 {
		t.Fatalf("expected 1 got %d", e)
	}
	if e := ModelCountError(three, two[:1]); e != -2 {
		t.Fatalf("expected -2 got %d", e)
	}
	if e := ModelCountError(two, two); e != 0 {
		t.Fatalf("expected 0 got %d", e)
	}
}
