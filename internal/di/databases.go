package di

import (
	"fmt"

	"github.com/aristath/retail-insights/internal/config"
	"github.com/aristath/retail-insights/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens analytics.db and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	analyticsDB, err := database.New(database.Config{
		Path: cfg.AnalyticsDBPath(),
		Name: "analytics",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analytics database: %w", err)
	}
	if err := analyticsDB.Migrate(); err != nil {
		analyticsDB.Close()
		return nil, fmt.Errorf("failed to migrate analytics database: %w", err)
	}
	container.AnalyticsDB = analyticsDB

	log.Info().Str("path", analyticsDB.Path()).Msg("Analytics database ready")
	return container, nil
}
