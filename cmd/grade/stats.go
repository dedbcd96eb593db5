package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/gradebook/internal/cli"
)

const statsBarWidth = 30

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show grading progress",
		Long:  `Show how many items of a gradebook are graded and how the grades are spread over the scale.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

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

			summary, err := store.GradeSummary(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s %s", cli.ChartIcon, name)))
			fmt.Fprintf(out, "%d of %d items graded, %d remaining\n\n", summary.Graded, summary.Total, summary.Remaining())

			scale := sessionCfg.Scale
			for g := scale.Max(); g >= 1; g-- {
				count := summary.ByGrade[g]
				width := 0
				if summary.Graded > 0 {
					width = count * statsBarWidth / summary.Graded
				}
				fmt.Fprintf(out, "%-28s %s %d\n",
					cli.FormatGrade(g, scale),
					cli.GradeStyle.Render(strings.Repeat("█", width)),
					count)
			}
			return nil
		},
	}

	cmd.Flags().StringP("name", "n", "", "gradebook name (default from gradebook.name)")
	return cmd
}
