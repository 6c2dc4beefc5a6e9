package dataset

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/banshee-data/horizon.report/internal/geom"
)

// Plaintext corpus layout: a directory of images, each with sidecar
// files next to it.
//
//	scene01.jpg
//	scene01.vps.txt    one "x y" per line
//	scene01.lines.txt  "x1 y1 x2 y2" per line, blank line between groups
//
// Images without a .vps.txt sidecar are skipped; the lines sidecar is
// optional. Dimensions are read from the image header.

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// LoadPlaintext loads a sidecar-file corpus from a directory.
func LoadPlaintext(dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset: read corpus dir: %w", err)
	}

	ds := &Dataset{Root: dir}
	for _, entry := range entries {
		if entry.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		imgPath := filepath.Join(dir, entry.Name())
		base := strings.TrimSuffix(imgPath, filepath.Ext(imgPath))

		vps, err := readVPs(base + ".vps.txt")
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		dims, err := imageDims(imgPath)
		if err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		groups, err := readLineGroups(base + ".lines.txt")
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		ds.Images = append(ds.Images, Image{
			Path:       imgPath,
			Dims:       dims,
			VPs:        vps,
			LineGroups: groups,
		})
	}
	// Directory order is platform-dependent; keep runs comparable.
	sort.Slice(ds.Images, func(i, j int) bool { return ds.Images[i].Path < ds.Images[j].Path })
	return ds, nil
}

func readVPs(path string) ([]geom.Point, error) {
	rows, err := readNumberRows(path, 2)
	if err != nil {
		return nil, err
	}
	var vps []geom.Point
	for _, row := range rows {
		if row == nil {
			continue
		}
		vps = append(vps, geom.Point{X: row[0], Y: row[1]})
	}
	return vps, nil
}

func readLineGroups(path string) ([][]geom.Segment, error) {
	rows, err := readNumberRows(path, 4)
	if err != nil {
		return nil, err
	}
	var groups [][]geom.Segment
	var current []geom.Segment
	for _, row := range rows {
		if row == nil {
			if len(current) > 0 {
				groups = append(groups, current)
				current = nil
			}
			continue
		}
		current = append(current, geom.Segment{X1: row[0], Y1: row[1], X2: row[2], Y2: row[3]})
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups, nil
}

// readNumberRows parses whitespace-separated float rows of a fixed
// width. Blank lines come back as nil rows so callers can treat them
// as group separators; lines starting with '#' are comments.
func readNumberRows(path string, width int) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows [][]float64
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			rows = append(rows, nil)
			continue
		}
		if strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != width {
			return nil, fmt.Errorf("dataset: %s:%d: want %d values, got %d", path, lineNo, width, len(fields))
		}
		row := make([]float64, width)
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("dataset: %s:%d: %w", path, lineNo, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("dataset: scan %s: %w", path, err)
	}
	return rows, nil
}
