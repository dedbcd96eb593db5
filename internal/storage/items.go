package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

// SaveCatalog replaces the stored catalog with items and their group manifest.
// Existing grades are kept for ids that survive the replacement.
func (s *SQLiteStorage) SaveCatalog(ctx context.Context, items []model.Item, groups []model.Group) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCatalog(items, groups); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		previous := make(map[int]int)
		rows, err := tx.QueryContext(ctx, `SELECT id, grade FROM items WHERE grade IS NOT NULL`)
		if err != nil {
			return fmt.Errorf("failed to read existing grades: %w", err)
		}
		for rows.Next() {
			var id, grade int
			if err := rows.Scan(&id, &grade); err != nil {
				_ = rows.Close()
				return fmt.Errorf("failed to scan grade: %w", err)
			}
			previous[id] = grade
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return fmt.Errorf("error iterating existing grades: %w", err)
		}
		_ = rows.Close()

		for _, q := range []string{`DELETE FROM item_groups`, `DELETE FROM item_categories`, `DELETE FROM items`} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("failed to clear catalog: %w", err)
			}
		}

		for _, item := range items {
			var grade sql.NullInt64
			if g, ok := previous[item.ID]; ok {
				grade = sql.NullInt64{Int64: int64(g), Valid: true}
			} else if item.IsGraded() {
				grade = sql.NullInt64{Int64: int64(*item.Grade), Valid: true}
			}

			if _, err := tx.ExecContext(ctx,
				`INSERT INTO items (id, name, tier, grade) VALUES (?, ?, ?, ?)`,
				item.ID, item.Name, item.Tier, grade); err != nil {
				return fmt.Errorf("failed to insert item %d: %w", item.ID, err)
			}

			for pos, category := range item.Categories {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO item_categories (item_id, position, category) VALUES (?, ?, ?)`,
					item.ID, pos, category); err != nil {
					return fmt.Errorf("failed to insert category for item %d: %w", item.ID, err)
				}
			}
		}

		for gi, g := range groups {
			for slot, id := range g.ItemIDs {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO item_groups (group_index, slot, item_id) VALUES (?, ?, ?)`,
					gi, slot, id); err != nil {
					return fmt.Errorf("failed to insert group %d: %w", gi, err)
				}
			}
		}

		slog.Info("Saved catalog", "items", len(items), "groups", len(groups))
		return nil
	})
}

// FetchItem returns one item with its categories and grade.
func (s *SQLiteStorage) FetchItem(ctx context.Context, id int) (*model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var item model.Item
	var grade sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, tier, grade FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Tier, &grade)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: item %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query item %d: %w", id, err)
	}
	item.Grade = nullGrade(grade)

	rows, err := s.db.QueryContext(ctx,
		`SELECT category FROM item_categories WHERE item_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for item %d: %w", id, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		item.Categories = append(item.Categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return &item, nil
}

// ListItems returns the whole catalog in dex order.
func (s *SQLiteStorage) ListItems(ctx context.Context) ([]model.Item, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, tier, grade FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}

	var items []model.Item
	index := make(map[int]int)
	for rows.Next() {
		var item model.Item
		var grade sql.NullInt64
		if err := rows.Scan(&item.ID, &item.Name, &item.Tier, &grade); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		item.Grade = nullGrade(grade)
		index[item.ID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("error iterating items: %w", err)
	}
	_ = rows.Close()

	catRows, err := s.db.QueryContext(ctx,
		`SELECT item_id, category FROM item_categories ORDER BY item_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = catRows.Close() }()

	for catRows.Next() {
		var id int
		var category string
		if err := catRows.Scan(&id, &category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		if i, ok := index[id]; ok {
			items[i].Categories = append(items[i].Categories, category)
		}
	}
	if err := catRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved items", "count", len(items))
	return items, nil
}

// ListCategories returns every distinct category value in alphabetical order.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM item_categories ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// Groups returns the group manifest in pagination order.
func (s *SQLiteStorage) Groups(ctx context.Context) ([]model.Group, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT group_index, item_id FROM item_groups ORDER BY group_index, slot`)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var groups []model.Group
	for rows.Next() {
		var gi, id int
		if err := rows.Scan(&gi, &id); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		if len(groups) == 0 || groups[len(groups)-1].Index != gi {
			groups = append(groups, model.Group{Index: gi})
		}
		last := &groups[len(groups)-1]
		last.ItemIDs = append(last.ItemIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating groups: %w", err)
	}

	// Stored indexes are dense, but renumber so Index always equals position.
	for i := range groups {
		groups[i].Index = i
	}

	return groups, nil
}

func nullGrade(v sql.NullInt64) *int {
	if !v.Valid || v.Int64 < 1 {
		return nil
	}
	g := int(v.Int64)
	return &g
}
