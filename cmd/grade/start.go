package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/gradebook/internal/cli"
	"github.com/Veraticus/gradebook/internal/rules"
	"github.com/Veraticus/gradebook/internal/session"
	"github.com/Veraticus/gradebook/internal/tui"
	"github.com/Veraticus/gradebook/internal/tui/themes"
)

func startCmd() *cobra.Command {
	var (
		plain bool
		theme string
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start or resume a grading session",
		Long: `Start grading the named gradebook. A saved gradebook resumes at the group
before its first ungraded item. Use --plain for a line-oriented prompt instead of
the full-screen interface.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			name := gradebookName(cmd, cfg)

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			files, err := initFiles(cfg)
			if err != nil {
				return err
			}

			sessionCfg, err := restoreSession(ctx, store, files, name)
			if err != nil {
				return err
			}

			controller, err := session.New(ctx, store, files, sessionCfg)
			if err != nil {
				return err
			}
			evaluator := rules.NewEvaluator(sessionCfg.Scale, cfg.MaxTier)

			slog.Debug("starting session", "gradebook", name, "plain", plain || cfg.Plain)

			if plain || cfg.Plain || !isTerminal() {
				handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), name)
				ctx, stop := handler.HandleInterrupts(ctx)
				defer stop()

				err := cli.NewGrader(controller, evaluator, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
				if handler.WasInterrupted() {
					return nil
				}
				return err
			}

			if err := tui.Run(ctx, controller, evaluator, tui.WithTheme(themes.ByName(theme))); err != nil {
				return fmt.Errorf("grading session failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringP("name", "n", "", "gradebook name (default from gradebook.name)")
	cmd.Flags().BoolVar(&plain, "plain", false, "use the line prompt instead of the full-screen UI")
	cmd.Flags().StringVar(&theme, "theme", "default", "color theme (default, catppuccin)")

	return cmd
}
