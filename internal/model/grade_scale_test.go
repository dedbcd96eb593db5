package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeScale_Clamp(t *testing.T) {
	scale := DefaultScale()

	tests := []struct {
		name  string
		grade int
		want  int
	}{
		{name: "in range", grade: 3, want: 3},
		{name: "max", grade: 5, want: 5},
		{name: "above max", grade: 5 + 5, want: 5},
		{name: "zero", grade: 0, want: 1},
		{name: "negative", grade: -2, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scale.Clamp(tt.grade))
		})
	}
}

func TestPresetScale(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			s, err := PresetScale(name)
			require.NoError(t, err)
			assert.NoError(t, s.Validate())
		})
	}

	tierList, _ := PresetScale(PresetTierList)
	assert.Equal(t, 6, tierList.Max())
	assert.Equal(t, "S", tierList.Label(6))
	assert.False(t, tierList.IsNumeric())

	ten, _ := PresetScale(PresetTen)
	assert.Equal(t, "10", ten.Label(10))
	assert.True(t, ten.IsNumeric())

	_, err := PresetScale("stars")
	assert.Error(t, err)
}

func TestGradeScale_Validate(t *testing.T) {
	_, err := NewGradeScale(nil)
	assert.Error(t, err)

	_, err = NewGradeScale([]string{"good", "", "great"})
	assert.Error(t, err)

	_, err = NewGradeScale([]string{"bad", "okay, I guess"})
	assert.Error(t, err)

	_, err = NewGradeScale([]string{" low", "high "})
	assert.Error(t, err, "surrounding spaces would not survive a save")

	s, err := NewGradeScale([]string{"bad", "good"})
	require.NoError(t, err)
	assert.Equal(t, "bad,good", s.String())
	assert.Equal(t, "", s.Label(0))
	assert.Equal(t, "", s.Label(3))
}

func TestGroupIndexOf(t *testing.T) {
	groups := []Group{
		{Index: 0, ItemIDs: []int{1, 2, 3}},
		{Index: 1, ItemIDs: []int{4, 5, 6}},
	}

	assert.Equal(t, 1, GroupIndexOf(groups, 5))
	assert.Equal(t, 0, GroupIndexOf(groups, 1))
	assert.Equal(t, -1, GroupIndexOf(groups, 99))
}
