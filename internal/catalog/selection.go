package catalog

import "strings"

// Selection is the mutable per-organization state layered over an immutable
// catalog: the ordered set of selected item ids plus free-text notes keyed by
// id. Persisting only this (instead of the whole augmented catalog) keeps
// saved data small and immune to catalog drift.
type Selection struct {
	Selected []string          `json:"selected"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// IsSelected reports whether id is in the selection.
func (s *Selection) IsSelected(id string) bool {
	for _, existing := range s.Selected {
		if existing == id {
			return true
		}
	}
	return false
}

// Select adds id to the selection. Duplicate adds are no-ops; insertion order
// is preserved for display. Returns true if the selection changed.
func (s *Selection) Select(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" || s.IsSelected(id) {
		return false
	}
	s.Selected = append(s.Selected, id)
	return true
}

// Deselect removes id from the selection. The note, if any, is kept so a
// re-select does not lose the user's text.
func (s *Selection) Deselect(id string) bool {
	for i, existing := range s.Selected {
		if existing == id {
			s.Selected = append(s.Selected[:i], s.Selected[i+1:]...)
			return true
		}
	}
	return false
}

// SetNote attaches free-text notes to a catalog item. Empty text clears the
// note.
func (s *Selection) SetNote(id, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		delete(s.Notes, id)
		return
	}
	if s.Notes == nil {
		s.Notes = map[string]string{}
	}
	s.Notes[id] = text
}

// Note returns the note for id, or "".
func (s *Selection) Note(id string) string {
	return s.Notes[id]
}

// Count returns how many items are selected.
func (s *Selection) Count() int {
	return len(s.Selected)
}
