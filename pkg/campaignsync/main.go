package campaignsync

import (
	"context"
	"fmt"
)

// Main parses args, builds the application and executes the selected
// command. It can be called from tests without building the binary; ctx
// cancellation stops a running server gracefully.
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *MigrateCommand:
		if err := app.Migrate(ctx, c); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case *RunCommand:
		if err := app.Run(ctx, c); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}
	return nil
}
