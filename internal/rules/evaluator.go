package rules

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

// Evaluator holds the session's pending autofill rules. Rules are a one-shot
// batch: a successful Apply clears them.
type Evaluator struct {
	rules     []model.AutofillRule
	summaries []string
	scale     model.GradeScale
	maxTier   int
}

// NewEvaluator creates an evaluator that validates rule grades against scale
// and tier predicates against maxTier.
func NewEvaluator(scale model.GradeScale, maxTier int) *Evaluator {
	if maxTier <= 0 {
		maxTier = model.DefaultMaxTier
	}
	return &Evaluator{
		scale:   scale,
		maxTier: maxTier,
	}
}

// Add validates rule and appends it. A rejected rule leaves the list unchanged.
func (e *Evaluator) Add(rule model.AutofillRule) error {
	if err := rule.Validate(e.scale.Max(), e.maxTier); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidRule, err)
	}

	e.rules = append(e.rules, rule)
	e.summaries = append(e.summaries, rule.Summary(e.scale))

	slog.Debug("added autofill rule", "rule", e.summaries[len(e.summaries)-1], "count", len(e.rules))
	return nil
}

// Remove deletes the rule at index, keeping the remaining rules and their
// summaries in their original relative order.
func (e *Evaluator) Remove(index int) error {
	if index < 0 || index >= len(e.rules) {
		return fmt.Errorf("%w: rule %d (have %d)", common.ErrNotFound, index, len(e.rules))
	}

	e.rules = slices.Delete(e.rules, index, index+1)
	e.summaries = slices.Delete(e.summaries, index, index+1)
	return nil
}

// Len returns the number of pending rules.
func (e *Evaluator) Len() int {
	return len(e.rules)
}

// Rules returns a copy of the pending rules in insertion order.
func (e *Evaluator) Rules() []model.AutofillRule {
	return slices.Clone(e.rules)
}

// Summaries returns the display form of each pending rule, aligned with Rules.
func (e *Evaluator) Summaries() []string {
	return slices.Clone(e.summaries)
}

// Clear discards every pending rule.
func (e *Evaluator) Clear() {
	e.rules = nil
	e.summaries = nil
}

// SetScale replaces the scale used to validate and summarize rules.
// Summaries of pending rules are rebuilt.
func (e *Evaluator) SetScale(scale model.GradeScale) {
	e.scale = scale
	for i, r := range e.rules {
		e.summaries[i] = r.Summary(scale)
	}
}

// ordered returns a copy of the rules sorted by ascending priority. Rules with
// equal priority keep their insertion order.
func (e *Evaluator) ordered() []model.AutofillRule {
	sorted := slices.Clone(e.rules)
	slices.SortStableFunc(sorted, func(a, b model.AutofillRule) int {
		return cmp.Compare(a.Priority, b.Priority)
	})
	return sorted
}

// Resolve returns the grade of the first matching rule for each item. Items
// that match no rule are absent from the result.
func (e *Evaluator) Resolve(items []model.Item) map[int]int {
	result := make(map[int]int)
	sorted := e.ordered()
	for _, item := range items {
		if grade, ok := firstMatch(sorted, item); ok {
			result[item.ID] = e.scale.Clamp(grade)
		}
	}
	return result
}

func firstMatch(sorted []model.AutofillRule, item model.Item) (int, bool) {
	for _, r := range sorted {
		if r.Matches(item) {
			return r.Grade, true
		}
	}
	return 0, false
}

// Apply evaluates the pending rules over items and pushes the resulting grades
// through assigner in a single batch. An empty rule list is a no-op. The
// pending rules are cleared once the batch is stored.
func (e *Evaluator) Apply(ctx context.Context, items []model.Item, assigner Assigner, progress Progress) (map[int]int, error) {
	if len(e.rules) == 0 {
		return map[int]int{}, nil
	}

	sorted := e.ordered()
	assigned := make(map[int]int)
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if grade, ok := firstMatch(sorted, item); ok {
			assigned[item.ID] = e.scale.Clamp(grade)
		}
		if progress != nil {
			_ = progress.Add(1)
		}
	}

	if len(assigned) > 0 {
		if err := assigner.AssignGrades(ctx, assigned); err != nil {
			return nil, fmt.Errorf("failed to store autofill grades: %w", err)
		}
	}

	slog.Info("Applied autofill rules",
		"rules", len(sorted),
		"items", len(items),
		"assigned", len(assigned))

	e.Clear()
	return assigned, nil
}
