package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

// ParseRule reads the textual rule form used by the line prompter and the
// autofill command:
//
//	<predicate> [and|or <predicate>] -> <grade> [@<priority>]
//
// e.g. "tier=1 and category=Fire -> S @2". The grade may be a scale label or
// a number. Predicates are parsed by model.ParsePredicate.
func ParseRule(text string, scale model.GradeScale) (model.AutofillRule, error) {
	var rule model.AutofillRule

	lhs, rhs, found := strings.Cut(text, "->")
	if !found {
		return rule, fmt.Errorf("%w: %q has no \"->\" before the grade", common.ErrInvalidRule, text)
	}

	if err := parsePredicates(strings.Fields(lhs), &rule); err != nil {
		return rule, err
	}

	target := strings.Fields(rhs)
	switch len(target) {
	case 1, 2:
	default:
		return rule, fmt.Errorf("%w: expected \"<grade> [@priority]\" after \"->\"", common.ErrInvalidRule)
	}

	grade, err := ResolveGrade(target[0], scale)
	if err != nil {
		return rule, err
	}
	rule.Grade = grade

	if len(target) == 2 {
		p, ok := strings.CutPrefix(target[1], "@")
		n, convErr := strconv.Atoi(p)
		if !ok || convErr != nil {
			return rule, fmt.Errorf("%w: priority %q must look like @1", common.ErrInvalidRule, target[1])
		}
		rule.Priority = n
	}

	return rule, nil
}

func parsePredicates(words []string, rule *model.AutofillRule) error {
	var terms [][]string
	current := []string{}
	joiners := 0
	for _, w := range words {
		switch strings.ToLower(w) {
		case "and", "&&":
			rule.Conjunctive = true
		case "or", "||":
			rule.Conjunctive = false
		default:
			current = append(current, w)
			continue
		}
		joiners++
		terms = append(terms, current)
		current = []string{}
	}
	terms = append(terms, current)

	if joiners > 1 {
		return fmt.Errorf("%w: at most two predicates are supported", common.ErrInvalidRule)
	}

	for i, term := range terms {
		if len(term) == 0 {
			if joiners == 0 {
				return fmt.Errorf("%w: rule needs at least one predicate", common.ErrInvalidRule)
			}
			return fmt.Errorf("%w: missing predicate around \"and\"/\"or\"", common.ErrInvalidRule)
		}
		p, err := model.ParsePredicate(strings.Join(term, " "))
		if err != nil {
			return fmt.Errorf("%w: %w", common.ErrInvalidRule, err)
		}
		if i == 0 {
			rule.Predicate1 = p
		} else {
			rule.Predicate2 = p
		}
	}
	return nil
}

// ResolveGrade turns a label or number into a grade on scale. Labels are
// matched first, case-insensitively, so a numeric scale resolves "3" to its
// third label.
func ResolveGrade(token string, scale model.GradeScale) (int, error) {
	token = strings.TrimSpace(token)
	for i, label := range scale.Labels {
		if strings.EqualFold(label, token) {
			return i + 1, nil
		}
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a grade on %s", common.ErrValidation, token, scale.String())
	}
	return n, nil
}
