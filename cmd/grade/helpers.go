package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/config"
	"github.com/Veraticus/gradebook/internal/gradefile"
	"github.com/Veraticus/gradebook/internal/session"
	"github.com/Veraticus/gradebook/internal/storage"
)

// loadConfig resolves the validated application configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens the catalog database and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initFiles opens the gradebook directory.
func initFiles(cfg *config.Config) (*gradefile.FileStore, error) {
	return gradefile.NewFileStore(cfg.GradebookDir)
}

// gradebookName returns the --name flag, falling back to the configured default.
func gradebookName(cmd *cobra.Command, cfg *config.Config) string {
	if name, _ := cmd.Flags().GetString("name"); name != "" {
		return name
	}
	return cfg.GradebookName
}

// restoreSession loads a saved gradebook into the catalog and returns the
// controller configuration that resumes it.
func restoreSession(ctx context.Context, store *storage.SQLiteStorage, files *gradefile.FileStore, name string) (session.Config, error) {
	book, err := files.Read(ctx, name)
	if errors.Is(err, common.ErrNotFound) {
		return session.Config{}, common.NewUserError(
			fmt.Sprintf("gradebook %q does not exist; create it with: grade new %s", name, name), err)
	}
	if err != nil {
		return session.Config{}, err
	}
	return session.Restore(ctx, store, book, name)
}

// isTerminal reports whether stdin is attached to a terminal.
func isTerminal() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
