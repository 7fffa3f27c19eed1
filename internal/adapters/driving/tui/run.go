package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/skycatch/internal/adapters/driven/ingestwatch"
	"github.com/custodia-labs/skycatch/internal/core/ports/driving"
	"github.com/custodia-labs/skycatch/internal/logger"
)

// Run starts the status view and blocks until it exits. The archive
// database at dbPath is watched for out-of-band ingestion; each settled
// batch of writes triggers a recompute and refresh.
func Run(ctx context.Context, stats driving.StatsService, dbPath string) error {
	app, err := NewApp(stats)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(app.WithContext(ctx), tea.WithContext(ctx))

	watcher, err := ingestwatch.New(dbPath, func() {
		program.Send(archiveChangedMsg{})
	})
	if err != nil {
		return fmt.Errorf("watching archive: %w", err)
	}
	defer watcher.Close()

	go func() {
		if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("ingest watcher stopped: %v", err)
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running status view: %w", err)
	}
	return nil
}
