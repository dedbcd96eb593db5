package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PredicateKind identifies which attribute a predicate tests.
type PredicateKind string

// Predicate kinds.
const (
	PredicateCategory PredicateKind = "category"
	PredicateTier     PredicateKind = "tier"
)

// Predicate is a single test against an item: category membership or tier equality.
type Predicate struct {
	Kind     PredicateKind
	Category string
	Tier     int
}

// CategoryIs matches items tagged with category.
func CategoryIs(category string) *Predicate {
	return &Predicate{Kind: PredicateCategory, Category: category}
}

// TierIs matches items in tier.
func TierIs(tier int) *Predicate {
	return &Predicate{Kind: PredicateTier, Tier: tier}
}

// ParsePredicate parses "category=Fire" or "tier=3". A bare word is taken as a
// category and a bare number as a tier.
func ParsePredicate(s string) (*Predicate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty predicate")
	}

	key, value, found := strings.Cut(s, "=")
	if !found {
		if n, err := strconv.Atoi(s); err == nil {
			return TierIs(n), nil
		}
		return CategoryIs(s), nil
	}

	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("predicate %q has no value", s)
	}

	switch key {
	case "category", "type", "cat":
		return CategoryIs(value), nil
	case "tier", "gen", "generation":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("tier %q is not a number", value)
		}
		return TierIs(n), nil
	default:
		return nil, fmt.Errorf("unknown predicate %q (want category= or tier=)", key)
	}
}

// Matches reports whether item satisfies the predicate.
func (p Predicate) Matches(item Item) bool {
	switch p.Kind {
	case PredicateCategory:
		return item.HasCategory(p.Category)
	case PredicateTier:
		return item.IsTier(p.Tier)
	}
	return false
}

// Validate checks the predicate against the tier bound.
func (p Predicate) Validate(maxTier int) error {
	switch p.Kind {
	case PredicateCategory:
		if strings.TrimSpace(p.Category) == "" {
			return fmt.Errorf("category predicate has no category")
		}
	case PredicateTier:
		if p.Tier < 1 || (maxTier > 0 && p.Tier > maxTier) {
			return fmt.Errorf("tier %d is outside 1..%d", p.Tier, maxTier)
		}
	default:
		return fmt.Errorf("unknown predicate kind %q", p.Kind)
	}
	return nil
}

func (p Predicate) String() string {
	switch p.Kind {
	case PredicateCategory:
		return p.Category
	case PredicateTier:
		return fmt.Sprintf("Tier %d", p.Tier)
	}
	return "?"
}

// AutofillRule assigns Grade to every item matching its predicates. Lower
// Priority values are evaluated first.
type AutofillRule struct {
	Predicate1  *Predicate
	Predicate2  *Predicate
	Grade       int
	Priority    int
	Conjunctive bool
}

// Matches reports whether item satisfies the rule. With both predicates set the
// rule is an OR unless Conjunctive is true.
func (r AutofillRule) Matches(item Item) bool {
	switch {
	case r.Predicate1 != nil && r.Predicate2 != nil:
		if r.Conjunctive {
			return r.Predicate1.Matches(item) && r.Predicate2.Matches(item)
		}
		return r.Predicate1.Matches(item) || r.Predicate2.Matches(item)
	case r.Predicate1 != nil:
		return r.Predicate1.Matches(item)
	case r.Predicate2 != nil:
		return r.Predicate2.Matches(item)
	}
	return false
}

// Validate ensures the rule can be evaluated against a scale of maxGrade labels.
func (r AutofillRule) Validate(maxGrade, maxTier int) error {
	if r.Predicate1 == nil && r.Predicate2 == nil {
		return fmt.Errorf("rule needs at least one predicate")
	}
	for _, p := range []*Predicate{r.Predicate1, r.Predicate2} {
		if p == nil {
			continue
		}
		if err := p.Validate(maxTier); err != nil {
			return err
		}
	}
	if r.Grade < 1 || r.Grade > maxGrade {
		return fmt.Errorf("grade %d is outside 1..%d", r.Grade, maxGrade)
	}
	return nil
}

// Summary renders the rule for display, e.g. "Fire && Tier 1 = Grade: S | Priority: 2".
func (r AutofillRule) Summary(scale GradeScale) string {
	var b strings.Builder

	joiner := " || "
	if r.Conjunctive {
		joiner = " && "
	}

	parts := make([]string, 0, 2)
	for _, p := range []*Predicate{r.Predicate1, r.Predicate2} {
		if p != nil {
			parts = append(parts, p.String())
		}
	}
	b.WriteString(strings.Join(parts, joiner))

	label := scale.Label(r.Grade)
	if label == "" {
		label = strconv.Itoa(r.Grade)
	}
	fmt.Fprintf(&b, " = Grade: %s | Priority: %d", label, r.Priority)

	return b.String()
}
