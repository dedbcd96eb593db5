// Package gradefile reads and writes gradebook files.
//
// A gradebook is plain text: the first line holds the comma-joined scale
// labels and the second the comma-joined grades in dex order, with 0 marking
// an ungraded item. Files written before scales existed have only the grade
// line and are read with the default scale. Labels cannot contain commas.
package gradefile

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

// Ungraded is the sentinel written for items without a grade.
const Ungraded = 0

// Gradebook is the decoded content of a gradebook file.
type Gradebook struct {
	Scale  model.GradeScale
	Grades []int
	Legacy bool
}

// Graded returns the number of non-zero grades.
func (g Gradebook) Graded() int {
	n := 0
	for _, v := range g.Grades {
		if v != Ungraded {
			n++
		}
	}
	return n
}

// Encode renders scale and grades as gradebook text. Grades above the scale are
// clamped and grades below 1 are written as ungraded. Both lines end with a
// newline, so an empty grade list still yields a two-line file.
func Encode(scale model.GradeScale, grades []int) string {
	var b strings.Builder
	b.WriteString(scale.String())
	b.WriteByte('\n')
	for i, g := range grades {
		if i > 0 {
			b.WriteByte(',')
		}
		if g < 1 {
			g = Ungraded
		} else {
			g = scale.Clamp(g)
		}
		b.WriteString(strconv.Itoa(g))
	}
	b.WriteByte('\n')
	return b.String()
}

// Decode parses gradebook text. Only the final line ending is dropped, so a
// header followed by an empty grade line is a gradebook with no grades rather
// than a legacy file. Lines after the header are joined with commas before
// tokenizing, so wrapped grade lines are accepted.
func Decode(text string) (Gradebook, error) {
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")
	if strings.TrimSpace(text) == "" {
		return Gradebook{}, common.ErrEmptyGradebook
	}

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	book := Gradebook{}
	var body string
	if len(lines) == 1 {
		book.Scale = model.DefaultScale()
		book.Legacy = true
		body = lines[0]
	} else {
		scale, err := model.NewGradeScale(splitLabels(lines[0]))
		if err != nil {
			return Gradebook{}, fmt.Errorf("%w: %w", common.ErrInvalidScale, err)
		}
		book.Scale = scale
		body = strings.Join(trimBlankTail(lines[1:]), ",")
	}

	grades, err := decodeGrades(body, book.Scale)
	if err != nil {
		return Gradebook{}, err
	}
	book.Grades = grades
	return book, nil
}

func splitLabels(line string) []string {
	labels := strings.Split(line, ",")
	for i := range labels {
		labels[i] = strings.TrimSpace(labels[i])
	}
	return labels
}

// trimBlankTail drops blank lines after the first grade line.
func trimBlankTail(lines []string) []string {
	for len(lines) > 1 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func decodeGrades(body string, scale model.GradeScale) ([]int, error) {
	if strings.TrimSpace(body) == "" {
		return []int{}, nil
	}
	tokens := strings.Split(body, ",")
	grades := make([]int, len(tokens))
	for i, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			grades[i] = Ungraded
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: grade %d is %q, not a number", common.ErrValidation, i+1, tok)
		}
		switch {
		case v == Ungraded:
			grades[i] = Ungraded
		case v < 0:
			return nil, fmt.Errorf("%w: grade %d is negative (%d)", common.ErrValidation, i+1, v)
		default:
			grades[i] = scale.Clamp(v)
		}
	}
	return grades, nil
}

// ResolveResumePoint returns the id of the first item in dexOrder whose grade
// is missing. grades is aligned with dexOrder; a short sequence leaves the
// trailing items ungraded. It returns common.ErrNotFound when every item has a
// grade.
func ResolveResumePoint(grades []int, dexOrder []int) (int, error) {
	for i, id := range dexOrder {
		if i >= len(grades) || grades[i] == Ungraded {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: no ungraded item to resume at", common.ErrNotFound)
}
