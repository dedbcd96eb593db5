package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/Veraticus/gradebook/internal/testutil"
)

type recordingAssigner struct {
	err     error
	batches []map[int]int
}

func (r *recordingAssigner) AssignGrades(_ context.Context, grades map[int]int) error {
	r.batches = append(r.batches, grades)
	return r.err
}

type countingProgress struct {
	ticks int
}

func (c *countingProgress) Add(n int) error {
	c.ticks += n
	return nil
}

func TestEvaluator_Add(t *testing.T) {
	e := NewEvaluator(model.DefaultScale(), model.DefaultMaxTier)

	require.NoError(t, e.Add(model.AutofillRule{Predicate1: model.TierIs(1), Grade: 4, Priority: 1}))
	assert.Equal(t, 1, e.Len())
	assert.Equal(t, []string{"Tier 1 = Grade: 4 | Priority: 1"}, e.Summaries())

	tests := []struct {
		name string
		rule model.AutofillRule
	}{
		{name: "no predicates", rule: model.AutofillRule{Grade: 3}},
		{name: "grade above scale", rule: model.AutofillRule{Predicate1: model.CategoryIs("Fire"), Grade: 6}},
		{name: "grade zero", rule: model.AutofillRule{Predicate1: model.CategoryIs("Fire"), Grade: 0}},
		{name: "tier out of bounds", rule: model.AutofillRule{Predicate2: model.TierIs(12), Grade: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.Add(tt.rule)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidRule)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, 1, e.Len(), "rejected rule must not be appended")
			assert.Len(t, e.Summaries(), 1)
		})
	}
}

func TestEvaluator_Remove(t *testing.T) {
	e := NewEvaluator(model.DefaultScale(), model.DefaultMaxTier)
	for _, category := range []string{"Fire", "Water", "Grass"} {
		require.NoError(t, e.Add(model.AutofillRule{Predicate1: model.CategoryIs(category), Grade: 2}))
	}

	require.NoError(t, e.Remove(1))
	assert.Equal(t, []string{
		"Fire = Grade: 2 | Priority: 0",
		"Grass = Grade: 2 | Priority: 0",
	}, e.Summaries())
	rules := e.Rules()
	require.Len(t, rules, 2)
	assert.Equal(t, "Grass", rules[1].Predicate1.Category)

	assert.ErrorIs(t, e.Remove(2), common.ErrNotFound)
	assert.ErrorIs(t, e.Remove(-1), common.ErrNotFound)
	assert.Equal(t, 2, e.Len())
}

func TestEvaluator_Resolve(t *testing.T) {
	fireTier1 := model.Item{ID: 4, Name: "Charmander", Tier: 1, Categories: []string{"Fire"}}
	waterTier1 := model.Item{ID: 7, Name: "Squirtle", Tier: 1, Categories: []string{"Water"}}

	tests := []struct {
		want  map[int]int
		name  string
		rules []model.AutofillRule
		items []model.Item
	}{
		{
			name: "lower priority number wins",
			rules: []model.AutofillRule{
				{Predicate1: model.TierIs(1), Grade: 5, Priority: 2},
				{Predicate1: model.CategoryIs("Fire"), Grade: 2, Priority: 1},
			},
			items: []model.Item{fireTier1},
			want:  map[int]int{4: 2},
		},
		{
			name: "equal priority keeps insertion order",
			rules: []model.AutofillRule{
				{Predicate1: model.CategoryIs("Fire"), Grade: 1, Priority: 3},
				{Predicate1: model.TierIs(1), Grade: 4, Priority: 3},
			},
			items: []model.Item{fireTier1, waterTier1},
			want:  map[int]int{4: 1, 7: 4},
		},
		{
			name: "conjunctive rule skips partial match",
			rules: []model.AutofillRule{
				{Predicate1: model.TierIs(1), Predicate2: model.CategoryIs("Fire"), Conjunctive: true, Grade: 3},
			},
			items: []model.Item{fireTier1, waterTier1},
			want:  map[int]int{4: 3},
		},
		{
			name:  "no rules",
			items: []model.Item{fireTier1},
			want:  map[int]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(model.DefaultScale(), model.DefaultMaxTier)
			for _, r := range tt.rules {
				require.NoError(t, e.Add(r))
			}
			assert.Equal(t, tt.want, e.Resolve(tt.items))
		})
	}
}

func TestEvaluator_ApplyTriad(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestCatalog(t, testutil.TriadItems(), testutil.TriadGroups())
	require.NoError(t, store.AssignGrade(ctx, 2, 1))

	e := NewEvaluator(model.DefaultScale(), model.DefaultMaxTier)
	require.NoError(t, e.Add(model.AutofillRule{Predicate1: model.TierIs(1), Grade: 4, Priority: 1}))

	items, err := store.ListItems(ctx)
	require.NoError(t, err)

	progress := &countingProgress{}
	assigned, err := e.Apply(ctx, items, store, progress)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 4, 3: 4}, assigned)
	assert.Equal(t, 3, progress.ticks)
	assert.Equal(t, 0, e.Len(), "rules are discarded after apply")

	grades, err := store.GradesInDexOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 1, 4}, grades)
}

func TestEvaluator_ApplyEmptyIsNoop(t *testing.T) {
	ctx := context.Background()
	assigner := &recordingAssigner{}
	e := NewEvaluator(model.DefaultScale(), model.DefaultMaxTier)

	assigned, err := e.Apply(ctx, testutil.TriadItems(), assigner, nil)
	require.NoError(t, err)
	assert.Empty(t, assigned)
	assert.Empty(t, assigner.batches)
}

func TestEvaluator_ApplySingleBatch(t *testing.T) {
	ctx := context.Background()
	assigner := &recordingAssigner{}
	e := NewEvaluator(model.DefaultScale(), model.DefaultMaxTier)
	require.NoError(t, e.Add(model.AutofillRule{Predicate1: model.CategoryIs("Water"), Grade: 2}))

	_, err := e.Apply(ctx, testutil.TriadItems(), assigner, nil)
	require.NoError(t, err)
	require.Len(t, assigner.batches, 1)
	assert.Equal(t, map[int]int{2: 2, 3: 2}, assigner.batches[0])
}

func TestEvaluator_ApplyFailureKeepsRules(t *testing.T) {
	ctx := context.Background()
	assigner := &recordingAssigner{err: errors.New("disk full")}
	e := NewEvaluator(model.DefaultScale(), model.DefaultMaxTier)
	require.NoError(t, e.Add(model.AutofillRule{Predicate1: model.TierIs(2), Grade: 5}))

	_, err := e.Apply(ctx, testutil.TriadItems(), assigner, nil)
	require.Error(t, err)
	assert.Equal(t, 1, e.Len())
}

func TestEvaluator_ApplyCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assigner := &recordingAssigner{}
	e := NewEvaluator(model.DefaultScale(), model.DefaultMaxTier)
	require.NoError(t, e.Add(model.AutofillRule{Predicate1: model.TierIs(1), Grade: 5}))

	_, err := e.Apply(ctx, testutil.TriadItems(), assigner, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, assigner.batches)
}

func TestEvaluator_SetScale(t *testing.T) {
	e := NewEvaluator(model.DefaultScale(), model.DefaultMaxTier)
	require.NoError(t, e.Add(model.AutofillRule{Predicate1: model.CategoryIs("Fire"), Grade: 5, Priority: 1}))

	tierList, err := model.PresetScale(model.PresetTierList)
	require.NoError(t, err)
	e.SetScale(tierList)
	assert.Equal(t, []string{"Fire = Grade: A | Priority: 1"}, e.Summaries())
}
