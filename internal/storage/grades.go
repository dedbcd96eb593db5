package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/service"
)

// AssignGrade stores grade for item id. Re-assigning the same grade is a no-op.
func (s *SQLiteStorage) AssignGrade(ctx context.Context, id, grade int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateGrade(grade); err != nil {
		return err
	}

	return assignGradeTx(ctx, s.db, id, grade)
}

// AssignGrades stores a batch of grades atomically: either every item in the
// batch is updated or none is.
func (s *SQLiteStorage) AssignGrades(ctx context.Context, grades map[int]int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(grades) == 0 {
		return nil
	}

	ids := make([]int, 0, len(grades))
	for id, grade := range grades {
		if err := validateGrade(grade); err != nil {
			return fmt.Errorf("item %d: %w", id, err)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, id := range ids {
			if err := assignGradeTx(ctx, tx, id, grades[id]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Debug("assigned grades", "count", len(ids))
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func assignGradeTx(ctx context.Context, db execer, id, grade int) error {
	result, err := db.ExecContext(ctx, `UPDATE items SET grade = ? WHERE id = ?`, grade, id)
	if err != nil {
		return fmt.Errorf("failed to assign grade to item %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: item %d", common.ErrNotFound, id)
	}
	return nil
}

// ClearGrades removes every grade from the catalog.
func (s *SQLiteStorage) ClearGrades(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE items SET grade = NULL`); err != nil {
		return fmt.Errorf("failed to clear grades: %w", err)
	}
	return nil
}

// ReplaceGrades clears every grade and stores grades in one transaction. A
// failure leaves the previous grades in place.
func (s *SQLiteStorage) ReplaceGrades(ctx context.Context, grades map[int]int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	ids := make([]int, 0, len(grades))
	for id, grade := range grades {
		if err := validateGrade(grade); err != nil {
			return fmt.Errorf("item %d: %w", id, err)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE items SET grade = NULL`); err != nil {
			return fmt.Errorf("failed to clear grades: %w", err)
		}
		for _, id := range ids {
			if err := assignGradeTx(ctx, tx, id, grades[id]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Debug("replaced grades", "count", len(ids))
	return nil
}

// GradesInDexOrder returns one grade per item in dex order, 0 for ungraded.
func (s *SQLiteStorage) GradesInDexOrder(ctx context.Context) ([]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT COALESCE(grade, 0) FROM items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query grades: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var grades []int
	for rows.Next() {
		var grade int
		if err := rows.Scan(&grade); err != nil {
			return nil, fmt.Errorf("failed to scan grade: %w", err)
		}
		grades = append(grades, grade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grades: %w", err)
	}

	return grades, nil
}

// GradeSummary counts graded items per grade.
func (s *SQLiteStorage) GradeSummary(ctx context.Context) (service.GradeSummary, error) {
	summary := service.GradeSummary{ByGrade: make(map[int]int)}
	if err := validateContext(ctx); err != nil {
		return summary, err
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&summary.Total); err != nil {
		return summary, fmt.Errorf("failed to count items: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT grade, COUNT(*) FROM items WHERE grade IS NOT NULL AND grade > 0 GROUP BY grade`)
	if err != nil {
		return summary, fmt.Errorf("failed to summarize grades: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var grade, count int
		if err := rows.Scan(&grade, &count); err != nil {
			return summary, fmt.Errorf("failed to scan grade summary: %w", err)
		}
		summary.ByGrade[grade] = count
		summary.Graded += count
	}
	if err := rows.Err(); err != nil {
		return summary, fmt.Errorf("error iterating grade summary: %w", err)
	}

	return summary, nil
}
