package gradefile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

func TestEncode(t *testing.T) {
	tierList, err := model.PresetScale(model.PresetTierList)
	require.NoError(t, err)

	got := Encode(tierList, []int{6, 0, 3, 9, -1})
	assert.Equal(t, "F,D,C,B,A,S\n6,0,3,6,0\n", got)

	assert.Equal(t, "F,D,C,B,A,S\n\n", Encode(tierList, nil))
}

func TestRoundTrip(t *testing.T) {
	vibes, err := model.PresetScale(model.PresetVibes)
	require.NoError(t, err)

	tests := []struct {
		name   string
		scale  model.GradeScale
		grades []int
	}{
		{name: "default scale", scale: model.DefaultScale(), grades: []int{1, 2, 3, 4, 5, 0}},
		{name: "ten", scale: model.NumericScale(10), grades: []int{10, 0, 0, 7}},
		{name: "labels with spaces", scale: vibes, grades: []int{6, 1, 0}},
		{name: "single label", scale: model.GradeScale{Labels: []string{"yes"}}, grades: []int{1, 0, 1}},
		{name: "all ungraded", scale: model.DefaultScale(), grades: []int{0, 0, 0}},
		{name: "no grades with numeric labels", scale: model.NumericScale(3), grades: []int{}},
		{name: "no grades with word labels", scale: model.GradeScale{Labels: []string{"F", "S"}}, grades: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book, err := Decode(Encode(tt.scale, tt.grades))
			require.NoError(t, err)

			want := Gradebook{Scale: tt.scale, Grades: tt.grades}
			if diff := cmp.Diff(want, book); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		input   string
		want    Gradebook
	}{
		{
			name:  "legacy single line",
			input: "1,0,5,3",
			want:  Gradebook{Scale: model.DefaultScale(), Grades: []int{1, 0, 5, 3}, Legacy: true},
		},
		{
			name:  "legacy with trailing newline",
			input: "2,2\n",
			want:  Gradebook{Scale: model.DefaultScale(), Grades: []int{2, 2}, Legacy: true},
		},
		{
			name:  "empty tokens are ungraded",
			input: "a,b,c\n1,,3,",
			want:  Gradebook{Scale: model.GradeScale{Labels: []string{"a", "b", "c"}}, Grades: []int{1, 0, 3, 0}},
		},
		{
			name:  "grades above scale are clamped",
			input: "a,b\n1,2,7",
			want:  Gradebook{Scale: model.GradeScale{Labels: []string{"a", "b"}}, Grades: []int{1, 2, 2}},
		},
		{
			name:  "header with empty grade line",
			input: "1,2,3\n\n",
			want:  Gradebook{Scale: model.NumericScale(3), Grades: []int{}},
		},
		{
			name:  "extra blank lines after grades",
			input: "a,b\n1,2\n\n\n",
			want:  Gradebook{Scale: model.GradeScale{Labels: []string{"a", "b"}}, Grades: []int{1, 2}},
		},
		{
			name:  "labels are trimmed",
			input: "low , high\n2,1",
			want:  Gradebook{Scale: model.GradeScale{Labels: []string{"low", "high"}}, Grades: []int{2, 1}},
		},
		{
			name:  "wrapped grade lines are joined",
			input: "1,2,3\n1,2\n3,0",
			want:  Gradebook{Scale: model.NumericScale(3), Grades: []int{1, 2, 3, 0}},
		},
		{
			name:  "windows line endings",
			input: "1,2,3\r\n3,2,1\r\n",
			want:  Gradebook{Scale: model.NumericScale(3), Grades: []int{3, 2, 1}},
		},
		{
			name:    "empty file",
			input:   "",
			wantErr: common.ErrEmptyGradebook,
		},
		{
			name:    "only newlines",
			input:   "\n\n",
			wantErr: common.ErrEmptyGradebook,
		},
		{
			name:    "non-integer grade",
			input:   "1,2,3\n1,two,3",
			wantErr: common.ErrValidation,
		},
		{
			name:    "negative grade",
			input:   "1,2,3\n-1",
			wantErr: common.ErrValidation,
		},
		{
			name:    "empty label",
			input:   "a,,c\n1",
			wantErr: common.ErrInvalidScale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveResumePoint(t *testing.T) {
	dex := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name    string
		grades  []int
		want    int
		wantErr bool
	}{
		{name: "nothing graded", grades: []int{0, 0, 0, 0, 0}, want: 1},
		{name: "first gap", grades: []int{3, 4, 0, 2, 0}, want: 3},
		{name: "short sequence", grades: []int{1, 1}, want: 3},
		{name: "fully graded", grades: []int{1, 2, 3, 4, 5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveResumePoint(tt.grades, dex)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGradebook_Graded(t *testing.T) {
	book := Gradebook{Grades: []int{0, 1, 0, 4}}
	assert.Equal(t, 2, book.Graded())
}
