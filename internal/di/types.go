// Package di holds the dependency container and the wiring that fills it.
//
// The Container is the single source of truth for service instances. The model,
// elasticity table and dataset are loaded once at startup and handed to the
// services explicitly; nothing is kept in package-level state.
package di

import (
	"github.com/aristath/retail-insights/internal/clients/objectstore"
	"github.com/aristath/retail-insights/internal/database"
	"github.com/aristath/retail-insights/internal/metrics"
	"github.com/aristath/retail-insights/internal/modules/artifacts"
	"github.com/aristath/retail-insights/internal/modules/dataset"
	"github.com/aristath/retail-insights/internal/modules/elasticity"
	"github.com/aristath/retail-insights/internal/modules/forecasting"
	"github.com/aristath/retail-insights/internal/modules/model"
	"github.com/aristath/retail-insights/internal/modules/scenarios"
	"github.com/aristath/retail-insights/internal/scheduler"
)

// Container holds all application dependencies
type Container struct {
	// Databases
	AnalyticsDB *database.DB // scenario run history

	// Clients
	ObjectStore *objectstore.Client // nil unless an artifact lives in s3://
	Artifacts   *artifacts.Source

	// Loaded artifacts
	Model      *model.Adapter
	Elasticity *elasticity.Table // nil when the table could not be loaded
	Dataset    *dataset.Store

	// Repositories
	ScenarioRepo *scenarios.Repository

	// Services
	ForecastService *forecasting.Service
	Simulator       *scenarios.Simulator

	Metrics *metrics.Metrics
}

// JobInstances holds the background jobs so they can be scheduled or run on demand
type JobInstances struct {
	DatasetRefresh scheduler.Job // nil when DATASET_REFRESH_SCHEDULE is empty
	WALCheckpoint  scheduler.Job
}

// Close releases the container's databases
func (c *Container) Close() error {
	if c == nil || c.AnalyticsDB == nil {
		return nil
	}
	return c.AnalyticsDB.Close()
}
