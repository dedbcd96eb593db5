// Package model defines the core data structures for the gradebook application.
package model

import (
	"slices"
	"strings"
)

// DefaultMaxTier is the highest tier (generation) in the stock catalog.
const DefaultMaxTier = 9

// Item is one catalog entry. ID is its position in dex order.
type Item struct {
	Grade      *int     `json:"grade,omitempty" yaml:"grade,omitempty"`
	Name       string   `json:"name" yaml:"name" validate:"required"`
	Categories []string `json:"categories" yaml:"categories" validate:"dive,required"`
	ID         int      `json:"id" yaml:"id" validate:"gte=1"`
	Tier       int      `json:"tier" yaml:"tier" validate:"gte=1"`
}

// HasCategory reports whether category is one of the item's tags.
func (i Item) HasCategory(category string) bool {
	return slices.ContainsFunc(i.Categories, func(c string) bool {
		return strings.EqualFold(c, category)
	})
}

// IsTier reports whether the item belongs to tier.
func (i Item) IsTier(tier int) bool {
	return i.Tier == tier
}

// IsGraded reports whether the item has a grade assigned.
func (i Item) IsGraded() bool {
	return i.Grade != nil && *i.Grade > 0
}

// GradeValue returns the assigned grade, or 0 when ungraded.
func (i Item) GradeValue() int {
	if !i.IsGraded() {
		return 0
	}
	return *i.Grade
}

// Group is an ordered set of item ids that are displayed and graded together.
type Group struct {
	ItemIDs []int
	Index   int
}

// Contains reports whether the group holds the given item.
func (g Group) Contains(id int) bool {
	return slices.Contains(g.ItemIDs, id)
}

// GroupIndexOf returns the index of the group containing id, or -1.
func GroupIndexOf(groups []Group, id int) int {
	for i, g := range groups {
		if g.Contains(id) {
			return i
		}
	}
	return -1
}
