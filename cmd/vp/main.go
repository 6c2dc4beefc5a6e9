// Command vp runs vanishing point and horizon detection on a single
// image and prints the results as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"sort"

	_ "image/jpeg"
	_ "image/png"

	"github.com/banshee-data/horizon.report/internal/draw"
	"github.com/banshee-data/horizon.report/internal/geom"
	"github.com/banshee-data/horizon.report/internal/horizon"
	"github.com/banshee-data/horizon.report/internal/linedetect"
	"github.com/banshee-data/horizon.report/internal/vanish"
	"github.com/banshee-data/horizon.report/internal/version"
)

type result struct {
	Image      string          `json:"image"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Lines      int             `json:"lines"`
	VPs        []vpResult      `json:"vanishing_points"`
	Outliers   int             `json:"outliers"`
	Horizon    *horizonResult  `json:"horizon,omitempty"`
	LineGroups [][]geomSegment `json:"line_groups,omitempty"`
}

type vpResult struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Lines int     `json:"lines"`
}

type horizonResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

type geomSegment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func main() {
	var imagePath string
	var modeStr string
	var seed int64
	var overlayPath string
	var groupsOut bool
	var maxIterations int

	flag.StringVar(&imagePath, "image", "", "path to input image (jpeg or png)")
	flag.StringVar(&modeStr, "mode", "jlinkage", "consensus mode: jlinkage or xransac")
	flag.Int64Var(&seed, "seed", 0, "random seed for reproducible runs")
	flag.StringVar(&overlayPath, "overlay", "", "optional path to write an annotated PNG")
	flag.BoolVar(&groupsOut, "groups", false, "include line groups in JSON output")
	flag.IntVar(&maxIterations, "max-iterations", 0, "override iteration cap (0 = default)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("vp %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if imagePath == "" {
		log.Fatalf("image must be provided")
	}

	mode, err := parseMode(modeStr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	f, err := os.Open(imagePath)
	if err != nil {
		log.Fatalf("open image: %v", err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		log.Fatalf("decode image: %v", err)
	}
	bounds := img.Bounds()

	lines, err := linedetect.Detect(img, linedetect.DefaultOptions())
	if err != nil {
		log.Fatalf("detect lines: %v", err)
	}
	log.Printf("detected %d line segments", len(lines))

	opts := vanish.DefaultOptions()
	opts.Mode = mode
	opts.Seed = seed
	if maxIterations > 0 {
		opts.MaxIterations = maxIterations
	}

	vps, outliers, err := vanish.FindVanishingPoints(lines, opts)
	if err != nil {
		log.Fatalf("find vanishing points: %v", err)
	}

	// Deterministic output order for diffing runs.
	points := make([]geom.Point, 0, len(vps))
	for p := range vps {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].X != points[j].X {
			return points[i].X < points[j].X
		}
		return points[i].Y < points[j].Y
	})

	pp := geom.Point{
		X: float64(bounds.Dx() / 2),
		Y: float64(bounds.Dy() / 2),
	}
	hl := horizon.Find(points, pp, nil)

	res := result{
		Image:    imagePath,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Lines:    len(lines),
		Outliers: len(outliers),
		Horizon:  &horizonResult{Slope: hl.Slope, Intercept: hl.Intercept},
	}
	for _, p := range points {
		res.VPs = append(res.VPs, vpResult{X: p.X, Y: p.Y, Lines: len(vps[p])})
		if groupsOut {
			group := make([]geomSegment, 0, len(vps[p]))
			for _, s := range vps[p] {
				group = append(group, geomSegment{X1: s.X1, Y1: s.Y1, X2: s.X2, Y2: s.Y2})
			}
			res.LineGroups = append(res.LineGroups, group)
		}
	}

	if overlayPath != "" {
		if err := writeOverlay(overlayPath, img, points, vps, hl); err != nil {
			log.Fatalf("write overlay: %v", err)
		}
		log.Printf("wrote overlay to %s", overlayPath)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Fatalf("encode result: %v", err)
	}
}

func parseMode(s string) (vanish.Mode, error) {
	switch s {
	case "jlinkage":
		return vanish.ModeJLinkage, nil
	case "xransac":
		return vanish.ModeXRANSAC, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want jlinkage or xransac)", s)
}

func writeOverlay(path string, img image.Image, points []geom.Point, vps map[geom.Point][]geom.Segment, hl horizon.Line) error {
	canvas := draw.NewCanvas(img)
	groups := make([][]geom.Segment, 0, len(points))
	for _, p := range points {
		groups = append(groups, vps[p])
	}
	canvas.LineGroups(groups)
	for i, p := range points {
		canvas.FittedPoint(p, draw.GroupColor(i), 6)
	}
	canvas.Horizon(hl.Slope, hl.Intercept, color.RGBA{255, 255, 255, 255}, 3)
	return canvas.SavePNG(path)
}
