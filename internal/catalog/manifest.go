// Package catalog loads item catalogs from YAML or JSON manifests.
//
// A manifest lists every item and the groups that partition them:
//
//	items:
//	  - {id: 1, name: Bulbasaur, tier: 1, categories: [Grass, Poison]}
//	  - {id: 2, name: Ivysaur, tier: 1, categories: [Grass, Poison]}
//	groups:
//	  - [1, 2]
//
// JSON manifests use the same keys.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/model"
)

// manifestValidate checks struct tags on manifests and their items.
var manifestValidate = validator.New()

// Manifest is the on-disk description of a catalog.
type Manifest struct {
	Items   []model.Item `yaml:"items" json:"items" validate:"required,min=1,dive"`
	Groups  [][]int      `yaml:"groups" json:"groups" validate:"required,min=1,dive,min=1,dive,gte=1"`
	MaxTier int          `yaml:"max_tier,omitempty" json:"max_tier,omitempty" validate:"gte=0"`
}

// Saver stores a validated catalog. *storage.SQLiteStorage satisfies it.
type Saver interface {
	SaveCatalog(ctx context.Context, items []model.Item, groups []model.Group) error
}

// Parse decodes a manifest from YAML or JSON.
func Parse(r io.Reader) (*Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read manifest: %w", common.ErrIO, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: manifest is empty", common.ErrValidation)
	}

	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: failed to parse manifest: %w", common.ErrValidation, err)
	}
	return &m, nil
}

// LoadFile reads and validates the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	// #nosec G304 - path is supplied by the user on the command line
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: manifest %s", common.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrIO, err)
	}
	defer func() { _ = f.Close() }()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := m.Validate(0); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Validate checks field constraints and that every tier is within maxTier.
// A zero maxTier defers to the manifest's own max_tier, then to
// model.DefaultMaxTier.
func (m *Manifest) Validate(maxTier int) error {
	if err := manifestValidate.Struct(m); err != nil {
		return fmt.Errorf("%w: %s", common.ErrValidation, describe(err))
	}

	bound := m.tierBound(maxTier)
	for _, item := range m.Items {
		if item.Tier > bound {
			return fmt.Errorf("%w: item %d tier %d is above %d", common.ErrValidation, item.ID, item.Tier, bound)
		}
	}
	return nil
}

func (m *Manifest) tierBound(maxTier int) int {
	switch {
	case maxTier > 0:
		return maxTier
	case m.MaxTier > 0:
		return m.MaxTier
	default:
		return model.DefaultMaxTier
	}
}

// GroupList converts the manifest's id lists into ordered groups.
func (m *Manifest) GroupList() []model.Group {
	groups := make([]model.Group, len(m.Groups))
	for i, ids := range m.Groups {
		groups[i] = model.Group{Index: i, ItemIDs: append([]int(nil), ids...)}
	}
	return groups
}

// Import validates m and replaces the stored catalog with it. Grades already
// stored for surviving ids are kept by the saver.
func Import(ctx context.Context, saver Saver, m *Manifest, maxTier int) error {
	if err := m.Validate(maxTier); err != nil {
		return err
	}
	if err := saver.SaveCatalog(ctx, m.Items, m.GroupList()); err != nil {
		common.LogError(err, "Catalog import failed", common.Fields{"items": len(m.Items)})
		return fmt.Errorf("failed to import catalog: %w", err)
	}

	common.LogInfo("Imported catalog", common.Fields{"items": len(m.Items), "groups": len(m.Groups)})
	return nil
}

// describe flattens validator errors into one line.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s is %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
