package scenarios

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Run is a persisted scenario result
type Run struct {
	ID string `json:"id"`
	Result
	ModelSource string    `json:"model_source,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// scenarioRunsColumns must match scanRun
const scenarioRunsColumns = `id, category, new_price, baseline_price, row_count, old_demand, new_demand, pct_change, model_source, created_at`

// Repository stores scenario runs in analytics.db
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a scenario run repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "scenario_runs").Logger(),
	}
}

// Save records result and returns the stored run
func (r *Repository) Save(result Result, modelSource string) (*Run, error) {
	run := &Run{
		ID:          uuid.New().String(),
		Result:      result,
		ModelSource: modelSource,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}

	query := `
		INSERT INTO scenario_runs
		(` + scenarioRunsColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		run.ID,
		run.Category,
		run.NewPrice,
		run.BaselinePrice,
		run.Rows,
		run.OldDemand,
		run.NewDemand,
		run.PctChange,
		nullString(modelSource),
		run.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save scenario run: %w", err)
	}

	r.log.Debug().Str("id", run.ID).Str("category", run.Category).Msg("Scenario run saved")
	return run, nil
}

// List returns up to limit runs, newest first. limit <= 0 returns all runs.
func (r *Repository) List(limit int) ([]Run, error) {
	query := "SELECT " + scenarioRunsColumns + " FROM scenario_runs ORDER BY created_at DESC, rowid DESC"
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenario runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scenario runs: %w", err)
	}
	return runs, nil
}

// Get returns one run by id, or nil when it does not exist
func (r *Repository) Get(id string) (*Run, error) {
	row := r.db.QueryRow("SELECT "+scenarioRunsColumns+" FROM scenario_runs WHERE id = ?", id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(s scanner) (Run, error) {
	var run Run
	var modelSource sql.NullString
	var createdAt int64

	err := s.Scan(
		&run.ID,
		&run.Category,
		&run.NewPrice,
		&run.BaselinePrice,
		&run.Rows,
		&run.OldDemand,
		&run.NewDemand,
		&run.PctChange,
		&modelSource,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("failed to scan scenario run: %w", err)
	}

	if modelSource.Valid {
		run.ModelSource = modelSource.String
	}
	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	return run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
