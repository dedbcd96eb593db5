package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/gradebook/internal/catalog"
	"github.com/Veraticus/gradebook/internal/cli"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the item catalog",
		Long:  `Import the items and groups to grade, and inspect what is stored.`,
	}

	cmd.AddCommand(importCatalogCmd())
	cmd.AddCommand(categoriesCmd())

	return cmd
}

func importCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <manifest>",
		Short: "Replace the catalog from a YAML or JSON manifest",
		Long: `Replace every stored item and group with the contents of a manifest file.
Grades already stored for items that survive the import are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			manifest, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := catalog.Import(ctx, store, manifest, cfg.MaxTier); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Imported %d items in %d groups",
				len(manifest.Items), len(manifest.Groups))))
			return nil
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List every category in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}
			if len(categories) == 0 {
				fmt.Fprintln(out, cli.InfoStyle.Render("No categories found. Use 'grade catalog import' first."))
				return nil
			}

			fmt.Fprintln(out, strings.Join(categories, "\n"))
			return nil
		},
	}
}
