package session

import (
	"github.com/futig/context-engine/internal/entity"
	"github.com/futig/context-engine/internal/usecase/suggest"
)

// toStateDTO converts a pipeline snapshot to the API representation
func toStateDTO(snap suggest.StateSnapshot) *entity.SessionStateDTO {
	suggestions := snap.Suggestions
	if suggestions == nil {
		suggestions = []entity.Suggestion{}
	}
	attached := snap.AttachedSuggestions
	if attached == nil {
		attached = []entity.Suggestion{}
	}

	return &entity.SessionStateDTO{
		Draft:               snap.Draft,
		Suggestions:         suggestions,
		AttachedSuggestions: attached,
		IsLoading:           snap.IsLoading,
		LastError:           snap.LastError,
	}
}
