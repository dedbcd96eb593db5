package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Veraticus/gradebook/internal/common"
	"github.com/Veraticus/gradebook/internal/gradefile"
	"github.com/Veraticus/gradebook/internal/model"
	"github.com/Veraticus/gradebook/internal/rules"
	"github.com/Veraticus/gradebook/internal/service"
)

// Writer persists gradebook text under a name. *gradefile.FileStore satisfies it.
type Writer interface {
	Write(ctx context.Context, name, text string) error
}

// Config holds the starting state of a controller.
type Config struct {
	Scale  model.GradeScale
	FileID string
	// Cursor is the group index before the first Advance. BeforeStart by default.
	Cursor int
	// ResumeItemID is the first ungraded item when the session was restored,
	// or 0 when every item was already graded.
	ResumeItemID int
	Retry        service.RetryOptions
}

// DefaultConfig returns a fresh session on the default scale.
func DefaultConfig(fileID string) Config {
	return Config{
		Scale:  model.DefaultScale(),
		FileID: fileID,
		Cursor: BeforeStart,
	}
}

// Controller serializes every session operation. Navigation persists the whole
// catalog's grades before returning.
type Controller struct {
	catalog   service.Catalog
	writer    Writer
	logger    *slog.Logger
	renderers []Renderer
	groups    []model.Group
	state     State
	retry     service.RetryOptions
	mu        sync.Mutex
}

// New creates a controller over the catalog's groups. A catalog without groups
// is rejected with common.ErrNoGroups.
func New(ctx context.Context, catalog service.Catalog, writer Writer, cfg Config) (*Controller, error) {
	if err := cfg.Scale.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidScale, err)
	}
	if _, err := gradefile.CleanName(cfg.FileID); err != nil {
		return nil, err
	}

	groups, err := catalog.Groups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	if len(groups) == 0 {
		return nil, common.ErrNoGroups
	}

	cursor := cfg.Cursor
	if cursor < BeforeStart || cursor >= len(groups) {
		cursor = BeforeStart
	}

	id := uuid.NewString()
	c := &Controller{
		catalog: catalog,
		writer:  writer,
		groups:  groups,
		retry:   cfg.Retry,
		logger:  slog.With("session_id", id),
		state: State{
			ID:     id,
			FileID: cfg.FileID,
			Scale:  cfg.Scale,
			Cursor: cursor,
		},
	}
	if cursor >= 0 {
		c.state.CurrentGroup = groups[cursor]
	}

	c.logger.Info("Started grading session",
		"file", cfg.FileID,
		"groups", len(groups),
		"cursor", cursor,
		"labels", cfg.Scale.Max())

	return c, nil
}

// Subscribe registers a renderer for every subsequent view.
func (c *Controller) Subscribe(r Renderer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderers = append(c.renderers, r)
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// GroupCount returns the number of groups in the pagination cycle.
func (c *Controller) GroupCount() int {
	return len(c.groups)
}

// Advance moves to the next group, wrapping after the last, renders it and
// persists the gradebook.
func (c *Controller) Advance(ctx context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveTo(ctx, nextCursor(c.state.Cursor, len(c.groups)))
}

// Retreat moves to the previous group, wrapping before the first, renders it
// and persists the gradebook.
func (c *Controller) Retreat(ctx context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moveTo(ctx, prevCursor(c.state.Cursor, len(c.groups)))
}

// Refresh re-renders the current group without moving or saving.
func (c *Controller) Refresh(ctx context.Context) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.render(ctx, false)
}

func (c *Controller) moveTo(ctx context.Context, cursor int) (View, error) {
	c.state.Cursor = cursor
	c.state.CurrentGroup = c.groups[cursor]

	view, err := c.render(ctx, true)
	if err != nil {
		return view, err
	}

	c.logger.Debug("moved cursor", "cursor", cursor, "items", len(view.Entries))
	return view, c.persist(ctx)
}

// SetGrade clamps value into the scale and assigns it to itemID. It returns
// the grade actually stored.
func (c *Controller) SetGrade(ctx context.Context, itemID, value int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	grade := c.state.Scale.Clamp(value)
	if err := c.catalog.AssignGrade(ctx, itemID, grade); err != nil {
		return 0, fmt.Errorf("failed to grade item %d: %w", itemID, err)
	}
	if grade != value {
		c.logger.Debug("clamped grade", "item", itemID, "requested", value, "stored", grade)
	}

	if c.state.Started() {
		if _, err := c.render(ctx, false); err != nil {
			return grade, err
		}
	}
	return grade, nil
}

// AutoFillCursorGroup assigns value to every item in the displayed group.
func (c *Controller) AutoFillCursorGroup(ctx context.Context, value int) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.Started() {
		return View{}, fmt.Errorf("%w: no group is displayed", common.ErrValidation)
	}

	grade := c.state.Scale.Clamp(value)
	batch := make(map[int]int, len(c.state.CurrentGroup.ItemIDs))
	for _, id := range c.state.CurrentGroup.ItemIDs {
		batch[id] = grade
	}
	if err := c.catalog.AssignGrades(ctx, batch); err != nil {
		return View{}, fmt.Errorf("failed to fill group %d: %w", c.state.Cursor, err)
	}

	c.logger.Debug("filled group", "cursor", c.state.Cursor, "grade", grade, "items", len(batch))
	return c.render(ctx, false)
}

// ApplyRules runs the evaluator over the whole catalog. No other operation
// runs until the pass is stored. The current group is then re-rendered and the
// gradebook persisted.
func (c *Controller) ApplyRules(ctx context.Context, ev *rules.Evaluator, progress rules.Progress) (map[int]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.catalog.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	assigned, err := ev.Apply(ctx, items, c.catalog, progress)
	if err != nil {
		return nil, err
	}

	if c.state.Started() {
		if _, err := c.render(ctx, false); err != nil {
			return assigned, err
		}
	}
	return assigned, c.persist(ctx)
}

// ReplaceScale swaps the whole grade scale. A scale too short for a grade
// already assigned is rejected.
func (c *Controller) ReplaceScale(ctx context.Context, scale model.GradeScale) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := scale.Validate(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidScale, err)
	}
	if scale.Equal(c.state.Scale) {
		return nil
	}

	summary, err := c.catalog.GradeSummary(ctx)
	if err != nil {
		return fmt.Errorf("failed to summarize grades: %w", err)
	}
	for grade := range summary.ByGrade {
		if grade > scale.Max() {
			return fmt.Errorf("%w: grade %d is assigned but the new scale stops at %d",
				common.ErrInvalidScale, grade, scale.Max())
		}
	}

	c.state.Scale = scale
	c.logger.Info("Replaced grade scale", "labels", scale.String())

	if c.state.Started() {
		if _, err := c.render(ctx, false); err != nil {
			return err
		}
	}
	return c.persist(ctx)
}

// Save writes the gradebook.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persist(ctx)
}

func (c *Controller) render(ctx context.Context, navigated bool) (View, error) {
	view := View{
		State:      c.state,
		GroupCount: len(c.groups),
		Navigated:  navigated,
	}

	for _, id := range c.state.CurrentGroup.ItemIDs {
		item, err := c.catalog.FetchItem(ctx, id)
		if err != nil {
			return view, fmt.Errorf("failed to load item %d: %w", id, err)
		}
		grade := item.GradeValue()
		view.Entries = append(view.Entries, Entry{
			ItemID:     item.ID,
			Name:       item.Name,
			Categories: item.Categories,
			Tier:       item.Tier,
			Grade:      grade,
			Label:      c.state.Scale.Label(grade),
		})
	}

	summary, err := c.catalog.GradeSummary(ctx)
	if err != nil {
		return view, fmt.Errorf("failed to summarize grades: %w", err)
	}
	view.Graded = summary.Graded
	view.Total = summary.Total

	for _, r := range c.renderers {
		r(view)
	}
	return view, nil
}

func (c *Controller) persist(ctx context.Context) error {
	grades, err := c.catalog.GradesInDexOrder(ctx)
	if err != nil {
		return fmt.Errorf("failed to export grades: %w", err)
	}
	text := gradefile.Encode(c.state.Scale, grades)

	err = common.WithRetry(ctx, func() error {
		return c.writer.Write(ctx, c.state.FileID, text)
	}, c.retry)
	if err != nil {
		c.logger.Error("Failed to save gradebook", "file", c.state.FileID, "error", err)
		return common.NewUserError("could not save gradebook; press s to retry", err)
	}

	c.logger.Debug("saved gradebook", "file", c.state.FileID, "items", len(grades))
	return nil
}
