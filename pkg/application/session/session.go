// Package session holds the per-user state of a shopping run: selected recipes,
// stock levels, extra items and editor access flags. A Session is created when a
// user starts, discarded when they leave, and re-initialized on Reset.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/vsinha/shoplist/pkg/domain/entities"
)

// MaxSelectedRecipes caps how many recipes a shopping run may use.
const MaxSelectedRecipes = 5

// ErrTooManyRecipes is returned when a selection exceeds the cap.
var ErrTooManyRecipes = errors.New("too many recipes selected")

// Session is the explicit context object passed to services and editors.
type Session struct {
	ID        string
	CreatedAt time.Time

	maxRecipes int
	selected   []string
	stock      *StockTracker
	extras     []entities.ExtraItem
	authorized map[string]bool

	// Editor form state survives between requests of the same session.
	RecipeDraft   *RecipeDraft
	BaselineDraft string
}

// RecipeDraft remembers which recipe is being edited and how many ingredient rows the form shows.
type RecipeDraft struct {
	Editing  string
	RowCount int
}

// New creates a session using the default recipe cap.
func New(id string) *Session {
	return NewWithLimit(id, MaxSelectedRecipes)
}

// NewWithLimit creates a session with a custom recipe cap.
func NewWithLimit(id string, maxRecipes int) *Session {
	if maxRecipes <= 0 {
		maxRecipes = MaxSelectedRecipes
	}
	return &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		maxRecipes: maxRecipes,
		stock:      NewStockTracker(nil),
		authorized: make(map[string]bool),
	}
}

// MaxRecipes returns the selection cap.
func (s *Session) MaxRecipes() int {
	return s.maxRecipes
}

// Select replaces the recipe selection, preserving order and dropping duplicates.
// A selection longer than the cap is rejected and leaves the current one untouched.
func (s *Session) Select(names []string) error {
	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	if len(unique) > s.maxRecipes {
		return fmt.Errorf("%w: %d selected, at most %d allowed", ErrTooManyRecipes, len(unique), s.maxRecipes)
	}
	s.selected = unique
	return nil
}

// Selected returns a copy of the selected recipe names.
func (s *Session) Selected() []string {
	return append([]string(nil), s.selected...)
}

// IsSelected reports whether name is part of the selection.
func (s *Session) IsSelected(name string) bool {
	for _, selected := range s.selected {
		if selected == name {
			return true
		}
	}
	return false
}

// Stock returns the session's stock tracker.
func (s *Session) Stock() *StockTracker {
	return s.stock
}

// AddExtra appends an extra item for this run.
func (s *Session) AddExtra(extra entities.ExtraItem) {
	s.extras = append(s.extras, extra)
}

// Extras returns a copy of the extra items.
func (s *Session) Extras() []entities.ExtraItem {
	return append([]entities.ExtraItem(nil), s.extras...)
}

// Authorize marks the named editor as unlocked for this session.
func (s *Session) Authorize(editor string) {
	s.authorized[editor] = true
}

// Authorized reports whether the named editor was unlocked.
func (s *Session) Authorized(editor string) bool {
	return s.authorized[editor]
}

// Reset clears the selection and extras and tracks baseline items at zero stock.
// Editor access is kept.
func (s *Session) Reset(baselineItems []string) {
	s.selected = nil
	s.extras = nil
	s.stock.reset(baselineItems)
}
