package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Veraticus/gradebook/internal/cli"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved gradebooks",
		Long:  `Display every gradebook in the gradebook directory with its scale and progress.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			files, err := initFiles(cfg)
			if err != nil {
				return err
			}

			names, err := files.List()
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No gradebooks found. Use 'grade new <name>' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				headerStyle.Render("Name"),
				headerStyle.Render("Scale"),
				headerStyle.Render("Graded"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 16),
				strings.Repeat("-", 24),
				strings.Repeat("-", 10))

			for _, name := range names {
				book, err := files.Read(ctx, name)
				if err != nil {
					fmt.Fprintf(w, "%s\t%s\t%s\n", name, cli.ErrorStyle.Render("unreadable"), cli.SubtleStyle.Render(err.Error()))
					continue
				}
				scale := book.Scale.String()
				if book.Legacy {
					scale += " (legacy)"
				}
				fmt.Fprintf(w, "%s\t%s\t%d/%d\n", name, scale, book.Graded(), len(book.Grades))
			}
			return nil
		},
	}
}
