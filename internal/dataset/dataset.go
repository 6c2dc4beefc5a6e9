// Package dataset loads benchmark corpora: per-image ground truth
// vanishing points and the line segment groups supporting them. Two
// corpus layouts are supported, a single-file JSON manifest and a
// directory of per-image plaintext sidecars. Ground truth horizons
// are derived from the VP set rather than stored.
package dataset

import (
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"  // register decoder for DecodeConfig
	_ "image/jpeg" // register decoder for DecodeConfig
	_ "image/png"  // register decoder for DecodeConfig
	"os"
	"path/filepath"

	"github.com/banshee-data/horizon.report/internal/geom"
	"github.com/banshee-data/horizon.report/internal/horizon"
	"github.com/banshee-data/horizon.report/internal/score"
	"github.com/banshee-data/horizon.report/internal/security"
)

// Image is one benchmark image with its ground truth.
type Image struct {
	// Path to the image file, relative paths resolved against the
	// corpus root.
	Path string
	Dims score.ImageDims
	// VPs are the ground truth vanishing points.
	VPs []geom.Point
	// LineGroups holds the ground truth segments per VP, in the same
	// order as VPs. May be empty for corpora without line annotations.
	LineGroups [][]geom.Segment
}

// GroundTruthHorizon derives the image's horizon from its ground
// truth VPs via the same perpendicularity rule the detector uses. The
// result is nil only when the image has no VPs at all, in which case
// there is no meaningful ground truth horizon to score against.
func (img Image) GroundTruthHorizon() *horizon.Line {
	if len(img.VPs) == 0 {
		return nil
	}
	line := horizon.Find(img.VPs, img.Dims.PrincipalPoint(), nil)
	return &line
}

// Dataset is a loaded benchmark corpus.
type Dataset struct {
	Root   string
	Images []Image
}

// manifest mirrors the JSON layout of a manifest corpus.
type manifest struct {
	Images []manifestImage `json:"images"`
}

type manifestImage struct {
	Path       string        `json:"path"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	VPs        [][2]float64  `json:"vps"`
	LineGroups [][][4]float64 `json:"line_groups"`
}

// LoadManifest loads a corpus described by a single JSON manifest
// file listing every image with its dimensions, VPs and line groups.
func LoadManifest(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: read manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("dataset: parse manifest %s: %w", path, err)
	}

	root := filepath.Dir(path)
	ds := &Dataset{Root: root}
	for i, mi := range m.Images {
		if mi.Width <= 0 || mi.Height <= 0 {
			return nil, fmt.Errorf("dataset: image %d (%s) has invalid dimensions %dx%d",
				i, mi.Path, mi.Width, mi.Height)
		}
		// Manifests name image files; keep them inside the corpus.
		if err := security.ValidateWithinDir(mi.Path, root); err != nil {
			return nil, fmt.Errorf("dataset: image %d: %w", i, err)
		}
		img := Image{
			Path: resolve(root, mi.Path),
			Dims: score.ImageDims{Width: mi.Width, Height: mi.Height},
		}
		for _, vp := range mi.VPs {
			img.VPs = append(img.VPs, geom.Point{X: vp[0], Y: vp[1]})
		}
		for _, group := range mi.LineGroups {
			var segs []geom.Segment
			for _, l := range group {
				segs = append(segs, geom.Segment{X1: l[0], Y1: l[1], X2: l[2], Y2: l[3]})
			}
			img.LineGroups = append(img.LineGroups, segs)
		}
		ds.Images = append(ds.Images, img)
	}
	return ds, nil
}

func resolve(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// imageDims reads only the header of an image file.
func imageDims(path string) (score.ImageDims, error) {
	f, err := os.Open(path)
	if err != nil {
		return score.ImageDims{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return score.ImageDims{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return score.ImageDims{Width: cfg.Width, Height: cfg.Height}, nil
}
