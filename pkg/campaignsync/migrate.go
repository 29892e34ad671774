package campaignsync

import (
	"context"
	"fmt"
)

// Migrate creates or extends the campaigns schema in the configured durable
// store. It is rejected while the application is read-only.
func (a *App) Migrate(ctx context.Context, cmd *MigrateCommand) error {
	a.log.Info().Str("backend", a.config.Backend).Msg("running database migrations")
	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	a.log.Info().Msg("migrations completed successfully")
	return nil
}
