package di

import (
	"fmt"

	"github.com/aristath/retail-insights/internal/config"
	"github.com/aristath/retail-insights/internal/modules/dataset"
	"github.com/aristath/retail-insights/internal/scheduler"
	"github.com/rs/zerolog"
)

// walCheckpointSchedule runs the analytics.db checkpoint every hour on the hour
const walCheckpointSchedule = "0 0 * * * *"

// RegisterJobs creates the background jobs and schedules them on sched.
// sched may be nil to only build the instances.
func RegisterJobs(container *Container, cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	instances := &JobInstances{
		WALCheckpoint: scheduler.NewWALCheckpointJob(container.AnalyticsDB, log),
	}
	if cfg.DatasetRefreshSchedule != "" {
		instances.DatasetRefresh = &refreshWithMetrics{
			RefreshJob: dataset.NewRefreshJob(container.Dataset, log),
			container:  container,
		}
	}

	if sched == nil {
		return instances, nil
	}

	if err := sched.AddJob(walCheckpointSchedule, instances.WALCheckpoint); err != nil {
		return nil, fmt.Errorf("failed to schedule %s: %w", instances.WALCheckpoint.Name(), err)
	}
	if instances.DatasetRefresh != nil {
		if err := sched.AddJob(cfg.DatasetRefreshSchedule, instances.DatasetRefresh); err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", instances.DatasetRefresh.Name(), err)
		}
	}

	return instances, nil
}

// refreshWithMetrics publishes the dataset size after each successful refresh
type refreshWithMetrics struct {
	*dataset.RefreshJob
	container *Container
}

func (j *refreshWithMetrics) Run() error {
	if err := j.RefreshJob.Run(); err != nil {
		return err
	}
	j.container.Metrics.SetDatasetRows(j.container.Dataset.Snapshot().Rows)
	return nil
}
