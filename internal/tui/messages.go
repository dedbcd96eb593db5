package tui

import "github.com/Veraticus/gradebook/internal/session"

// viewMsg carries the result of a navigation run outside Update.
type viewMsg struct {
	err  error
	view session.View
}
