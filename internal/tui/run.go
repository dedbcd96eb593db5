package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/gradebook/internal/rules"
	"github.com/Veraticus/gradebook/internal/session"
)

// Run drives a grading session full screen until the user quits or ctx is
// canceled.
func Run(ctx context.Context, controller *session.Controller, evaluator *rules.Evaluator, opts ...Option) error {
	m, err := New(ctx, controller, evaluator, opts...)
	if err != nil {
		return err
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if m.config.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	// Restore the terminal even if the program exits abnormally.
	defer func() {
		_, _ = os.Stdout.Write([]byte("\033[?25h")) // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))    // Reset colors
	}()

	if _, err := tea.NewProgram(m, programOpts...).Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
