package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/banger/internal/shared"
	"github.com/desertthunder/banger/internal/ui"
	"github.com/urfave/cli/v3"
)

// Browse launches the interactive terminal UI over the songs database.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	catalog := r.catalog(sourcePath(cmd, r.config.Database.SongsPath))
	p := tea.NewProgram(ui.NewModel(ctx, catalog), tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
