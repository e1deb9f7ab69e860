package di

import (
	"context"
	"fmt"

	"github.com/aristath/retail-insights/internal/clients/objectstore"
	"github.com/aristath/retail-insights/internal/config"
	"github.com/aristath/retail-insights/internal/metrics"
	"github.com/aristath/retail-insights/internal/modules/artifacts"
	"github.com/aristath/retail-insights/internal/modules/dataset"
	"github.com/aristath/retail-insights/internal/modules/elasticity"
	"github.com/aristath/retail-insights/internal/modules/forecasting"
	"github.com/aristath/retail-insights/internal/modules/model"
	"github.com/aristath/retail-insights/internal/modules/scenarios"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// InitializeServices loads the artifacts and builds the services on top of them.
// The model, elasticity table and dataset are independent and load concurrently.
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	if needsObjectStore(cfg) {
		client, err := objectstore.New(ctx, objectstore.Config{
			Endpoint:        cfg.ObjectStore.Endpoint,
			Region:          cfg.ObjectStore.Region,
			AccessKeyID:     cfg.ObjectStore.AccessKeyID,
			SecretAccessKey: cfg.ObjectStore.SecretAccessKey,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to create object store client: %w", err)
		}
		container.ObjectStore = client
	}

	// A nil *Client must not become a non-nil RemoteFetcher
	var remote artifacts.RemoteFetcher
	if container.ObjectStore != nil {
		remote = container.ObjectStore
	}
	container.Artifacts = artifacts.NewSource(remote, log)
	container.Dataset = dataset.NewStore(container.Artifacts, cfg.DatasetPath, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		adapter, err := model.NewLoader(container.Artifacts, log).Load(gctx, cfg.ModelPath)
		if err != nil {
			return err
		}
		container.Model = adapter
		return nil
	})

	g.Go(func() error {
		return container.Dataset.Reload(gctx)
	})

	g.Go(func() error {
		if cfg.ElasticityPath == "" {
			return nil
		}
		table, err := elasticity.Load(gctx, container.Artifacts, cfg.ElasticityPath, log)
		if err != nil {
			// display-only data; the service is usable without it
			log.Warn().Err(err).Str("location", cfg.ElasticityPath).Msg("Elasticity table unavailable")
			return nil
		}
		container.Elasticity = table
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to load startup artifacts: %w", err)
	}

	if container.Metrics == nil {
		container.Metrics = metrics.New()
	}
	container.Metrics.SetDatasetRows(container.Dataset.Snapshot().Rows)

	container.ScenarioRepo = scenarios.NewRepository(container.AnalyticsDB.Conn(), log)
	container.ForecastService = forecasting.NewService(container.Model, log)
	container.Simulator = scenarios.NewSimulator(container.ForecastService, log)

	log.Info().
		Str("model", container.Model.Info().Kind).
		Int("dataset_rows", container.Dataset.Snapshot().Rows).
		Bool("elasticity", container.Elasticity != nil).
		Msg("Services initialized")

	return nil
}

func needsObjectStore(cfg *config.Config) bool {
	return artifacts.IsRemote(cfg.ModelPath) ||
		artifacts.IsRemote(cfg.ElasticityPath) ||
		artifacts.IsRemote(cfg.DatasetPath)
}
