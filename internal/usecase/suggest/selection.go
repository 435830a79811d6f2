package suggest

import (
	"path/filepath"
	"sort"

	"github.com/futig/context-engine/internal/entity"
)

// Selection tracks the visible candidate list, the suggestions the user has
// attached and their per-suggestion delivery modes. It is owned by one
// controller and all calls are serialized there; no locking here.
type Selection struct {
	suggestions []entity.Suggestion
	attached    []entity.Suggestion
	modes       map[string]entity.DeliveryMode
}

func NewSelection() *Selection {
	return &Selection{
		modes: make(map[string]entity.DeliveryMode),
	}
}

// Attach moves a suggestion from the visible list to the attached list.
// Non-searchable suggestions and already-attached ids are no-ops.
func (s *Selection) Attach(sug entity.Suggestion) bool {
	if sug.ID == "" || !sug.IsSearchable() || s.isAttached(sug.ID) {
		return false
	}

	if _, ok := s.modes[sug.ID]; !ok {
		s.modes[sug.ID] = entity.DefaultDeliveryMode(sug.SourceType)
	}

	s.attached = append(s.attached, sug)
	s.suggestions = removeByID(s.suggestions, sug.ID)
	return true
}

// Detach removes an attached suggestion and clears its mode override. The
// suggestion is reinserted at the front of the visible list only when the
// draft is non-empty; an empty draft implies the session is ending.
func (s *Selection) Detach(id string, draftNonEmpty bool) bool {
	idx := -1
	for i, a := range s.attached {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	detached := s.attached[idx]
	s.attached = append(s.attached[:idx], s.attached[idx+1:]...)
	delete(s.modes, id)

	if draftNonEmpty {
		s.suggestions = append([]entity.Suggestion{detached}, removeByID(s.suggestions, id)...)
	}
	return true
}

// SetMode overrides the delivery mode for an attached or not-yet-attached
// suggestion.
func (s *Selection) SetMode(mode entity.DeliveryMode, id string) {
	if id == "" {
		return
	}
	s.modes[id] = mode
}

// ModeFor returns the effective delivery mode for an attached suggestion.
func (s *Selection) ModeFor(sug entity.Suggestion) entity.DeliveryMode {
	if mode, ok := s.modes[sug.ID]; ok {
		return mode
	}
	return entity.DefaultDeliveryMode(sug.SourceType)
}

// Refresh reconciles a new candidate list against the attachments: attached
// suggestions are updated in place (same id, fresher score and snippet)
// without losing attachment or mode; the rest become the visible list.
func (s *Selection) Refresh(candidates []entity.Suggestion) {
	byID := make(map[string]entity.Suggestion, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	for i, a := range s.attached {
		if fresh, ok := byID[a.ID]; ok {
			a.RelevanceScore = fresh.RelevanceScore
			a.Snippet = fresh.Snippet
			s.attached[i] = a
		}
	}

	visible := make([]entity.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		if !s.isAttached(c.ID) {
			visible = append(visible, c)
		}
	}
	s.suggestions = visible
}

// ContextPackRequest assembles the submit-time payload, or nil when nothing is
// attached.
func (s *Selection) ContextPackRequest(query string) *entity.ContextPackRequest {
	if len(s.attached) == 0 {
		return nil
	}

	ids := make([]string, 0, len(s.attached))
	overrides := make(map[string]string, len(s.attached))
	for _, a := range s.attached {
		ids = append(ids, a.ID)
		overrides[a.ID] = string(s.ModeFor(a))
	}

	return &entity.ContextPackRequest{
		Query:                 query,
		SelectedSuggestionIDs: ids,
		ModeOverrides:         overrides,
	}
}

// FallbackFilePaths returns the deduplicated, sorted absolute paths of attached
// file-reference suggestions, excluding images. Used only when the context-pack
// call fails.
func (s *Selection) FallbackFilePaths() []string {
	seen := make(map[string]bool)
	var paths []string
	for _, a := range s.attached {
		if s.ModeFor(a) != entity.DeliveryModeFileReference {
			continue
		}
		if a.SourceType != entity.SourceTypeFile || !filepath.IsAbs(a.SourcePath) {
			continue
		}
		if entity.IsImagePath(a.SourcePath) || seen[a.SourcePath] {
			continue
		}
		seen[a.SourcePath] = true
		paths = append(paths, a.SourcePath)
	}
	sort.Strings(paths)
	return paths
}

// Reset clears all selection state.
func (s *Selection) Reset() {
	s.suggestions = nil
	s.attached = nil
	s.modes = make(map[string]entity.DeliveryMode)
}

// Suggestions returns the visible, unattached candidates.
func (s *Selection) Suggestions() []entity.Suggestion {
	return s.suggestions
}

// Attached returns the attached suggestions in user-controlled order.
func (s *Selection) Attached() []entity.Suggestion {
	return s.attached
}

func (s *Selection) isAttached(id string) bool {
	for _, a := range s.attached {
		if a.ID == id {
			return true
		}
	}
	return false
}

func removeByID(list []entity.Suggestion, id string) []entity.Suggestion {
	out := list[:0]
	for _, s := range list {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}
