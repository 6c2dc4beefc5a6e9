package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run represents one benchmark invocation over a corpus.
type Run struct {
	RunID       string          `json:"run_id"`
	Corpus      string          `json:"corpus"`
	Mode        string          `json:"mode"`
	OptionsJSON json.RawMessage `json:"options_json,omitempty"`
	CreatedAt   int64           `json:"created_at"`
}

// ImageScore holds the scoring metrics for one image within a run.
// HorizonError is nil when either horizon was undetected;
// DirectionErrors holds one entry per ground truth VP, null for
// unmatched VPs.
type ImageScore struct {
	RunID           string     `json:"run_id"`
	ImagePath       string     `json:"image_path"`
	HorizonError    *float64   `json:"horizon_error"`
	LocationError   float64    `json:"location_error"`
	ModelCountError int        `json:"model_count_error"`
	DirectionErrors []*float64 `json:"direction_errors,omitempty"`
	DetectedVPs     int        `json:"detected_vps"`
	CreatedAt       int64      `json:"created_at"`
}

// ResultStore provides persistence for benchmark results.
type ResultStore struct {
	db *DB
}

// NewResultStore creates a ResultStore over an open database.
func NewResultStore(db *DB) *ResultStore {
	return &ResultStore{db: db}
}

// InsertRun persists a new run. If RunID is empty, a UUID is
// generated; if CreatedAt is zero, the current time is used.
func (s *ResultStore) InsertRun(run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}
	var optionsStr interface{}
	if len(run.OptionsJSON) > 0 {
		optionsStr = string(run.OptionsJSON)
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO benchmark_runs (run_id, corpus, mode, options_json, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			run.RunID, run.Corpus, run.Mode, optionsStr, run.CreatedAt,
		)
		return err
	})
}

// InsertImageScore persists the scores for one image of a run.
func (s *ResultStore) InsertImageScore(score *ImageScore) error {
	if score.RunID == "" {
		return fmt.Errorf("store: image score for %s has no run id", score.ImagePath)
	}
	if score.CreatedAt == 0 {
		score.CreatedAt = time.Now().UnixNano()
	}
	var directionStr interface{}
	if score.DirectionErrors != nil {
		raw, err := json.Marshal(score.DirectionErrors)
		if err != nil {
			return fmt.Errorf("store: marshal direction errors: %w", err)
		}
		directionStr = string(raw)
	}
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO image_scores (
				run_id, image_path, horizon_error, location_error,
				model_count_error, direction_errors, detected_vps, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			score.RunID, score.ImagePath, score.HorizonError, score.LocationError,
			score.ModelCountError, directionStr, score.DetectedVPs, score.CreatedAt,
		)
		return err
	})
}

// GetRun returns a single run by id.
func (s *ResultStore) GetRun(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, corpus, mode, options_json, created_at
		FROM benchmark_runs WHERE run_id = ?`, runID)

	var r Run
	var optionsStr sql.NullString
	if err := row.Scan(&r.RunID, &r.Corpus, &r.Mode, &optionsStr, &r.CreatedAt); err != nil {
		return nil, fmt.Errorf("store: scan run: %w", err)
	}
	if optionsStr.Valid {
		r.OptionsJSON = json.RawMessage(optionsStr.String)
	}
	return &r, nil
}

// ListRuns returns all runs, newest first.
func (s *ResultStore) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query(`
		SELECT run_id, corpus, mode, options_json, created_at
		FROM benchmark_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var r Run
		var optionsStr sql.NullString
		if err := rows.Scan(&r.RunID, &r.Corpus, &r.Mode, &optionsStr, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan run row: %w", err)
		}
		if optionsStr.Valid {
			r.OptionsJSON = json.RawMessage(optionsStr.String)
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}

// ListImageScores returns all image scores for a run, in image path
// order.
func (s *ResultStore) ListImageScores(runID string) ([]*ImageScore, error) {
	rows, err := s.db.Query(`
		SELECT run_id, image_path, horizon_error, location_error,
		       model_count_error, direction_errors, detected_vps, created_at
		FROM image_scores WHERE run_id = ? ORDER BY image_path`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: query image scores: %w", err)
	}
	defer rows.Close()

	var scores []*ImageScore
	for rows.Next() {
		var sc ImageScore
		var horizonErr sql.NullFloat64
		var directionStr sql.NullString
		if err := rows.Scan(
			&sc.RunID, &sc.ImagePath, &horizonErr, &sc.LocationError,
			&sc.ModelCountError, &directionStr, &sc.DetectedVPs, &sc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("store: scan image score row: %w", err)
		}
		if horizonErr.Valid {
			v := horizonErr.Float64
			sc.HorizonError = &v
		}
		if directionStr.Valid {
			if err := json.Unmarshal([]byte(directionStr.String), &sc.DirectionErrors); err != nil {
				return nil, fmt.Errorf("store: unmarshal direction errors: %w", err)
			}
		}
		scores = append(scores, &sc)
	}
	return scores, rows.Err()
}
