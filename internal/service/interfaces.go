// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/gradebook/internal/model"
)

// Catalog defines the contract for the item store that the grading session
// reads from and writes grades into.
type Catalog interface {
	// Item queries
	FetchItem(ctx context.Context, id int) (*model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	ListCategories(ctx context.Context) ([]string, error)
	Groups(ctx context.Context) ([]model.Group, error)

	// Grade operations
	AssignGrade(ctx context.Context, id, grade int) error
	AssignGrades(ctx context.Context, grades map[int]int) error
	ClearGrades(ctx context.Context) error
	ReplaceGrades(ctx context.Context, grades map[int]int) error
	GradesInDexOrder(ctx context.Context) ([]int, error)
	GradeSummary(ctx context.Context) (GradeSummary, error)
}

// GradeSummary contains aggregate grading progress for the catalog.
type GradeSummary struct {
	ByGrade map[int]int
	Total   int
	Graded  int
}

// Remaining returns the number of items without a grade.
func (s GradeSummary) Remaining() int {
	return s.Total - s.Graded
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
