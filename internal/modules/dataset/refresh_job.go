package dataset

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RefreshJob re-reads the dataset on the scheduler's cadence
type RefreshJob struct {
	store   *Store
	timeout time.Duration
	log     zerolog.Logger
}

// NewRefreshJob creates a refresh job for store
func NewRefreshJob(store *Store, log zerolog.Logger) *RefreshJob {
	return &RefreshJob{
		store:   store,
		timeout: 2 * time.Minute,
		log:     log.With().Str("job", "dataset_refresh").Logger(),
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "dataset_refresh"
}

// Run reloads the dataset. A failed reload keeps the previous snapshot.
func (j *RefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.store.Reload(ctx); err != nil {
		j.log.Warn().Err(err).Msg("Dataset refresh failed, keeping previous snapshot")
		return err
	}
	return nil
}
