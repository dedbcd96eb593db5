package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItem_Grade(t *testing.T) {
	zero, four := 0, 4

	tests := []struct {
		grade      *int
		name       string
		wantValue  int
		wantGraded bool
	}{
		{name: "nil grade", grade: nil, wantValue: 0, wantGraded: false},
		{name: "zero grade", grade: &zero, wantValue: 0, wantGraded: false},
		{name: "graded", grade: &four, wantValue: 4, wantGraded: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := Item{ID: 1, Name: "Bulbasaur", Grade: tt.grade}
			assert.Equal(t, tt.wantGraded, item.IsGraded())
			assert.Equal(t, tt.wantValue, item.GradeValue())
		})
	}
}

func TestItem_HasCategory(t *testing.T) {
	item := Item{Categories: []string{"Grass", "Poison"}}

	assert.True(t, item.HasCategory("Grass"))
	assert.True(t, item.HasCategory("poison"))
	assert.False(t, item.HasCategory("Fire"))
	assert.False(t, Item{}.HasCategory("Grass"))
}

func TestGroup_Contains(t *testing.T) {
	g := Group{Index: 2, ItemIDs: []int{7, 8}}
	assert.True(t, g.Contains(8))
	assert.False(t, g.Contains(9))
}
