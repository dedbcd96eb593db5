// Package session implements the grading session: a cursor over the catalog's
// groups, grade assignment, rule-based autofill and gradebook persistence.
package session

import (
	"github.com/Veraticus/gradebook/internal/model"
)

// BeforeStart is the cursor value of a session whose first group has not been
// shown yet. The first Advance lands on group 0.
const BeforeStart = -1

// State is the session's explicit state. The controller owns it; callers get
// copies.
type State struct {
	ID           string
	FileID       string
	Scale        model.GradeScale
	CurrentGroup model.Group
	Cursor       int
}

// Started reports whether a group has been displayed.
func (s State) Started() bool {
	return s.Cursor != BeforeStart
}

// Entry is one item of the displayed group, keyed by item id.
type Entry struct {
	Name       string
	Label      string
	Categories []string
	ItemID     int
	Tier       int
	Grade      int
}

// Graded reports whether the entry has a grade.
func (e Entry) Graded() bool {
	return e.Grade > 0
}

// View is what renderers receive after every navigation or grade change.
// Navigated is set when the view follows Advance or Retreat.
type View struct {
	State      State
	Entries    []Entry
	GroupCount int
	Graded     int
	Total      int
	Navigated  bool
}

// Renderer draws a view. Renderers run while the controller holds its lock and
// must not call back into the controller.
type Renderer func(View)

// nextCursor advances cursor through n groups, wrapping at the end.
func nextCursor(cursor, n int) int {
	if cursor < 0 {
		return 0
	}
	return (cursor + 1) % n
}

// prevCursor retreats cursor through n groups, wrapping at the start.
func prevCursor(cursor, n int) int {
	if cursor < 0 {
		return n - 1
	}
	return (cursor - 1 + n) % n
}
