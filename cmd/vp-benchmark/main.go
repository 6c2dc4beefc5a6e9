// Command vp-benchmark runs the vanishing point pipeline over a ground
// truth corpus, scores each image, persists the results and renders a
// report.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"sort"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/banshee-data/horizon.report/internal/config"
	"github.com/banshee-data/horizon.report/internal/dataset"
	"github.com/banshee-data/horizon.report/internal/geom"
	"github.com/banshee-data/horizon.report/internal/horizon"
	"github.com/banshee-data/horizon.report/internal/linedetect"
	"github.com/banshee-data/horizon.report/internal/monitoring"
	"github.com/banshee-data/horizon.report/internal/report"
	"github.com/banshee-data/horizon.report/internal/score"
	"github.com/banshee-data/horizon.report/internal/store"
	"github.com/banshee-data/horizon.report/internal/vanish"
	"github.com/banshee-data/horizon.report/internal/version"
)

func main() {
	var corpusPath string
	var format string
	var modeStr string
	var seed int64
	var dbPath string
	var reportPath string
	var histogramPath string
	var lineSource string
	var tuningPath string
	var quiet bool
	var showVersion bool

	flag.StringVar(&corpusPath, "corpus", "", "corpus manifest file or sidecar directory")
	flag.StringVar(&format, "format", "plaintext", "corpus format: manifest or plaintext")
	flag.StringVar(&modeStr, "mode", "jlinkage", "consensus mode: jlinkage or xransac")
	flag.Int64Var(&seed, "seed", 0, "random seed for reproducible runs")
	flag.StringVar(&dbPath, "db", "benchmark.db", "path to sqlite results database")
	flag.StringVar(&reportPath, "report", "", "optional path to write an HTML report")
	flag.StringVar(&histogramPath, "histogram", "", "optional path to write a horizon error histogram PNG")
	flag.StringVar(&lineSource, "lines", "truth", "line source: truth (ground truth segments) or detect (run line detection)")
	flag.StringVar(&tuningPath, "config", "", "optional JSON tuning file overriding detection defaults")
	flag.BoolVar(&quiet, "quiet", false, "suppress per-image progress output")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("vp-benchmark %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}
	if quiet {
		monitoring.SetLogger(nil)
	}

	if corpusPath == "" {
		log.Fatalf("corpus must be provided")
	}

	mode, err := parseMode(modeStr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if lineSource != "truth" && lineSource != "detect" {
		log.Fatalf("unknown line source %q (want truth or detect)", lineSource)
	}

	ds, err := loadCorpus(corpusPath, format)
	if err != nil {
		log.Fatalf("load corpus: %v", err)
	}
	if len(ds.Images) == 0 {
		log.Fatalf("corpus %s has no images", corpusPath)
	}
	log.Printf("loaded %d images from %s", len(ds.Images), corpusPath)

	db, err := store.Open(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()
	results := store.NewResultStore(db)

	opts := vanish.DefaultOptions()
	opts.Mode = mode
	opts.Seed = seed
	if tuningPath != "" {
		tuning, err := config.Load(tuningPath)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if opts, err = tuning.Apply(opts); err != nil {
			log.Fatalf("%v", err)
		}
	}

	optionsJSON, err := json.Marshal(opts)
	if err != nil {
		log.Fatalf("marshal options: %v", err)
	}
	run := &store.Run{
		Corpus:      corpusPath,
		Mode:        opts.Mode.String(),
		OptionsJSON: optionsJSON,
	}
	if err := results.InsertRun(run); err != nil {
		log.Fatalf("insert run: %v", err)
	}
	log.Printf("run %s started", run.RunID)

	var scores []*store.ImageScore
	for i, img := range ds.Images {
		sc, err := benchmarkImage(img, opts, lineSource)
		if err != nil {
			monitoring.Logf("skip %s: %v", img.Path, err)
			continue
		}
		sc.RunID = run.RunID
		if err := results.InsertImageScore(sc); err != nil {
			log.Fatalf("insert score for %s: %v", img.Path, err)
		}
		scores = append(scores, sc)
		monitoring.Logf("scored %d/%d %s (%d VPs)", i+1, len(ds.Images), img.Path, sc.DetectedVPs)
	}

	summary := report.Summarize(scores)
	fmt.Printf("run %s: %d images scored\n", run.RunID, summary.Images)
	fmt.Printf("  mean horizon error:  %.4f (%d images with both horizons)\n",
		summary.MeanHorizonError, summary.HorizonScored)
	fmt.Printf("  mean location error: %.4f\n", summary.MeanLocationError)
	fmt.Printf("  mean |count error|:  %.2f\n", summary.MeanAbsCountError)

	if reportPath != "" {
		if err := report.WriteHTML(reportPath, run, scores); err != nil {
			log.Fatalf("write report: %v", err)
		}
		log.Printf("wrote report to %s", reportPath)
	}
	if histogramPath != "" {
		n, err := report.WriteHorizonHistogram(histogramPath, scores, 16)
		if err != nil {
			log.Fatalf("write histogram: %v", err)
		}
		log.Printf("wrote histogram of %d values to %s", n, histogramPath)
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

func loadCorpus(path, format string) (*dataset.Dataset, error) {
	switch format {
	case "manifest":
		return dataset.LoadManifest(path)
	case "plaintext":
		return dataset.LoadPlaintext(path)
	}
	// Fall back on the path shape when format is unrecognised.
	if strings.HasSuffix(path, ".json") {
		return dataset.LoadManifest(path)
	}
	return nil, fmt.Errorf("unknown corpus format %q (want manifest or plaintext)", format)
}

// benchmarkImage runs detection on one image and scores it against its
// ground truth.
func benchmarkImage(img dataset.Image, opts vanish.Options, lineSource string) (*store.ImageScore, error) {
	lines, err := imageLines(img, lineSource)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no line segments")
	}

	vps, _, err := vanish.FindVanishingPoints(lines, opts)
	if err != nil {
		return nil, fmt.Errorf("find vanishing points: %w", err)
	}

	detected := make([]geom.Point, 0, len(vps))
	for p := range vps {
		detected = append(detected, p)
	}
	sort.Slice(detected, func(i, j int) bool {
		if detected[i].X != detected[j].X {
			return detected[i].X < detected[j].X
		}
		return detected[i].Y < detected[j].Y
	})

	var detectedHorizon *horizon.Line
	if len(detected) > 0 {
		hl := horizon.Find(detected, img.Dims.PrincipalPoint(), nil)
		detectedHorizon = &hl
	}

	sc := &store.ImageScore{
		ImagePath:       img.Path,
		LocationError:   score.LocationAccuracyError(img.VPs, detected),
		ModelCountError: score.ModelCountError(img.VPs, detected),
		DirectionErrors: score.VPDirectionError(img.VPs, detected, img.Dims),
		DetectedVPs:     len(detected),
	}
	if he, ok := score.HorizonError(img.GroundTruthHorizon(), detectedHorizon, img.Dims); ok {
		sc.HorizonError = &he
	}
	return sc, nil
}

// imageLines yields the segments to fit: either the flattened ground
// truth groups or fresh detections from the image file.
func imageLines(img dataset.Image, lineSource string) ([]geom.Segment, error) {
	if lineSource == "truth" {
		var lines []geom.Segment
		for _, group := range img.LineGroups {
			lines = append(lines, group...)
		}
		return lines, nil
	}

	f, err := os.Open(img.Path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return linedetect.Detect(decoded, linedetect.DefaultOptions())
}
