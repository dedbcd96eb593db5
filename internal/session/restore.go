package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/gradefile"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/Veraticus/gradebook/internal/service"
)

// Restore loads book's grades into the catalog and returns the configuration
// that resumes the session one group before the first ungraded item, so the
// first Advance shows it. When every item is graded the session starts from
// the beginning and ResumeItemID is 0.
func Restore(ctx context.Context, catalog service.Catalog, book gradefile.Gradebook, fileID string) (Config, error) {
	items, err := catalog.ListItems(ctx)
	if err != nil {
		return Config{}, fmt.Errorf("failed to list items: %w", err)
	}
	groups, err := catalog.Groups(ctx)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load groups: %w", err)
	}
	if len(groups) == 0 {
		return Config{}, common.ErrNoGroups
	}

	if len(book.Grades) > len(items) {
		slog.Warn("Gradebook has more grades than the catalog has items",
			"file", fileID, "grades", len(book.Grades), "items", len(items))
	}

	dexOrder := make([]int, len(items))
	batch := make(map[int]int)
	for i, item := range items {
		dexOrder[i] = item.ID
		if i < len(book.Grades) && book.Grades[i] != gradefile.Ungraded {
			batch[item.ID] = book.Grades[i]
		}
	}

	if err := catalog.ReplaceGrades(ctx, batch); err != nil {
		return Config{}, fmt.Errorf("failed to restore grades: %w", err)
	}

	cfg := DefaultConfig(fileID)
	cfg.Scale = book.Scale

	resumeID, err := gradefile.ResolveResumePoint(book.Grades, dexOrder)
	switch {
	case errors.Is(err, common.ErrNotFound):
		slog.Info("Every item is graded, starting from the first group", "file", fileID)
		return cfg, nil
	case err != nil:
		return Config{}, err
	}

	cfg.ResumeItemID = resumeID
	cfg.Cursor = ResumeCursor(groups, resumeID)

	slog.Info("Restored gradebook",
		"file", fileID,
		"graded", len(batch),
		"resume_item", resumeID,
		"cursor", cfg.Cursor)
	return cfg, nil
}

// ResumeCursor returns the cursor one step before the group containing
// itemID. An item outside every group yields BeforeStart.
func ResumeCursor(groups []model.Group, itemID int) int {
	index := model.GroupIndexOf(groups, itemID)
	if index < 0 {
		return BeforeStart
	}
	return index - 1
}
