package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

func TestParseRule(t *testing.T) {
	tierList, err := model.PresetScale(model.PresetTierList)
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   string
		want    model.AutofillRule
		wantErr bool
	}{
		{
			name:  "single predicate with numeric grade",
			input: "tier=1 -> 4",
			want:  model.AutofillRule{Predicate1: model.TierIs(1), Grade: 4},
		},
		{
			name:  "label grade and priority",
			input: "category=Fire -> S @2",
			want:  model.AutofillRule{Predicate1: model.CategoryIs("Fire"), Grade: 6, Priority: 2},
		},
		{
			name:  "conjunction",
			input: "tier=1 and category=Fire -> c",
			want: model.AutofillRule{
				Predicate1:  model.TierIs(1),
				Predicate2:  model.CategoryIs("Fire"),
				Conjunctive: true,
				Grade:       3,
			},
		},
		{
			name:  "disjunction with symbols",
			input: "Water || 2 -> 1 @0",
			want: model.AutofillRule{
				Predicate1: model.CategoryIs("Water"),
				Predicate2: model.TierIs(2),
				Grade:      1,
			},
		},
		{name: "missing arrow", input: "tier=1 4", wantErr: true},
		{name: "no predicates", input: "-> 4", wantErr: true},
		{name: "dangling joiner", input: "tier=1 and -> 4", wantErr: true},
		{name: "three predicates", input: "Fire or Water or Grass -> 4", wantErr: true},
		{name: "bad priority", input: "Fire -> 4 2", wantErr: true},
		{name: "unknown grade label", input: "Fire -> Z", wantErr: true},
		{name: "bad predicate", input: "tier=x -> 4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRule(tt.input, tierList)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveGrade(t *testing.T) {
	vibes, err := model.PresetScale(model.PresetVibes)
	require.NoError(t, err)

	g, err := ResolveGrade("meh", vibes)
	require.NoError(t, err)
	assert.Equal(t, 2, g)

	g, err = ResolveGrade("5", vibes)
	require.NoError(t, err)
	assert.Equal(t, 5, g)

	g, err = ResolveGrade("10", model.NumericScale(10))
	require.NoError(t, err)
	assert.Equal(t, 10, g)
}
