// Package rules evaluates prioritized autofill rules across the whole catalog.
package rules

import "context"

// Assigner persists a batch of grades atomically.
type Assigner interface {
	AssignGrades(ctx context.Context, grades map[int]int) error
}

// Progress receives one tick per evaluated item. *progressbar.ProgressBar
// satisfies it.
type Progress interface {
	Add(num int) error
}
