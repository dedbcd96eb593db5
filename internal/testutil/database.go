// Package testutil provides test helpers for building in-memory catalogs.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/gradebook/internal/model"
	"github.com/Veraticus/gradebook/internal/storage"
)

// SetupTestCatalog creates a migrated in-memory catalog seeded with items and groups.
//
// Example:
//
//	db := testutil.SetupTestCatalog(t, testutil.StarterItems(), testutil.StarterGroups())
func SetupTestCatalog(t *testing.T, items []model.Item, groups []model.Group) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(items) > 0 {
		if err := store.SaveCatalog(ctx, items, groups); err != nil {
			_ = store.Close()
			t.Fatalf("failed to seed catalog: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// Grade returns a pointer to g for populating model.Item.Grade.
func Grade(g int) *int {
	return &g
}
