package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// GradeScale is the ordered list of labels that defines the valid grade range.
// Grades are 1-indexed positions into Labels.
type GradeScale struct {
	Labels []string
}

// Preset scale names offered when creating a gradebook.
const (
	PresetFive     = "5"
	PresetTen      = "10"
	PresetTierList = "tierlist"
	PresetVibes    = "vibes"
)

var numericLabel = regexp.MustCompile(`^[0-9]+$`)

// DefaultScale returns the 1..5 numeric scale.
func DefaultScale() GradeScale {
	return NumericScale(5)
}

// NumericScale returns a scale labelled 1..n.
func NumericScale(n int) GradeScale {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return GradeScale{Labels: labels}
}

// PresetScale returns the scale for a named preset.
func PresetScale(name string) (GradeScale, error) {
	switch name {
	case PresetFive:
		return NumericScale(5), nil
	case PresetTen:
		return NumericScale(10), nil
	case PresetTierList:
		return GradeScale{Labels: []string{"F", "D", "C", "B", "A", "S"}}, nil
	case PresetVibes:
		return GradeScale{Labels: []string{
			"Ew",
			"Meh",
			"Has some appeal",
			"I could see it on my team",
			"I want it on my team",
			"Absolute favorite",
		}}, nil
	default:
		return GradeScale{}, fmt.Errorf("unknown scale preset %q", name)
	}
}

// PresetNames lists the preset scale names.
func PresetNames() []string {
	return []string{PresetFive, PresetTen, PresetTierList, PresetVibes}
}

// NewGradeScale builds a validated scale from labels.
func NewGradeScale(labels []string) (GradeScale, error) {
	s := GradeScale{Labels: append([]string(nil), labels...)}
	if err := s.Validate(); err != nil {
		return GradeScale{}, err
	}
	return s, nil
}

// Max returns the highest valid grade.
func (s GradeScale) Max() int {
	return len(s.Labels)
}

// Clamp forces grade into [1, Max].
func (s GradeScale) Clamp(grade int) int {
	if grade > s.Max() {
		return s.Max()
	}
	if grade < 1 {
		return 1
	}
	return grade
}

// Label returns the label for grade, or "" when out of range.
func (s GradeScale) Label(grade int) string {
	if grade < 1 || grade > s.Max() {
		return ""
	}
	return s.Labels[grade-1]
}

// IsNumeric reports whether every label is a plain number, in which case the
// UI has no need for a label legend.
func (s GradeScale) IsNumeric() bool {
	for _, l := range s.Labels {
		if !numericLabel.MatchString(l) {
			return false
		}
	}
	return true
}

// Equal reports whether both scales have the same labels in the same order.
func (s GradeScale) Equal(other GradeScale) bool {
	if len(s.Labels) != len(other.Labels) {
		return false
	}
	for i := range s.Labels {
		if s.Labels[i] != other.Labels[i] {
			return false
		}
	}
	return true
}

// Validate ensures the scale can be persisted.
func (s GradeScale) Validate() error {
	if len(s.Labels) == 0 {
		return fmt.Errorf("scale must have at least one label")
	}
	for i, l := range s.Labels {
		if strings.TrimSpace(l) == "" {
			return fmt.Errorf("label %d is empty", i+1)
		}
		if strings.TrimSpace(l) != l {
			return fmt.Errorf("label %q has leading or trailing spaces", l)
		}
		// The gradebook file has no escaping.
		if strings.ContainsAny(l, ",\n\r") {
			return fmt.Errorf("label %q must not contain a comma or newline", l)
		}
	}
	return nil
}

// String joins the labels the way they are written to disk.
func (s GradeScale) String() string {
	return strings.Join(s.Labels, ",")
}
