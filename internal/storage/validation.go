// Package storage provides the data persistence layer for the gradebook catalog.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrEmptySlice   = errors.New("slice cannot be empty")
	ErrInvalidItem  = fmt.Errorf("%w: invalid item", common.ErrValidation)
	ErrInvalidGrade = fmt.Errorf("%w: invalid grade", common.ErrValidation)
	ErrInvalidGroup = fmt.Errorf("%w: invalid group", common.ErrValidation)
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateItem validates a single catalog item.
func validateItem(item *model.Item) error {
	if item.ID < 1 {
		return fmt.Errorf("%w: id %d must be positive", ErrInvalidItem, item.ID)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: item %d missing name", ErrInvalidItem, item.ID)
	}
	if item.Tier < 1 {
		return fmt.Errorf("%w: item %d tier %d must be positive", ErrInvalidItem, item.ID, item.Tier)
	}
	for _, c := range item.Categories {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: item %d has an empty category", ErrInvalidItem, item.ID)
		}
	}
	return nil
}

// validateGrade ensures a stored grade is a 1-indexed scale position.
func validateGrade(grade int) error {
	if grade < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidGrade, grade)
	}
	return nil
}

// validateCatalog checks that items are unique and that groups partition them.
func validateCatalog(items []model.Item, groups []model.Group) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: items", ErrEmptySlice)
	}
	if len(groups) == 0 {
		return common.ErrNoGroups
	}

	known := make(map[int]bool, len(items))
	for i := range items {
		if err := validateItem(&items[i]); err != nil {
			return err
		}
		if known[items[i].ID] {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidItem, items[i].ID)
		}
		known[items[i].ID] = true
	}

	placed := make(map[int]int, len(items))
	for gi, g := range groups {
		if len(g.ItemIDs) == 0 {
			return fmt.Errorf("%w: group %d is empty", ErrInvalidGroup, gi)
		}
		for _, id := range g.ItemIDs {
			if !known[id] {
				return fmt.Errorf("%w: group %d references unknown item %d", ErrInvalidGroup, gi, id)
			}
			if prev, ok := placed[id]; ok {
				return fmt.Errorf("%w: item %d appears in groups %d and %d", ErrInvalidGroup, id, prev, gi)
			}
			placed[id] = gi
		}
	}

	if len(placed) != len(known) {
		for _, item := range items {
			if _, ok := placed[item.ID]; !ok {
				return fmt.Errorf("%w: item %d is not in any group", ErrInvalidGroup, item.ID)
			}
		}
	}

	return nil
}
