package entity

// CreateSessionResponse is returned by POST /sessions.
type CreateSessionResponse struct {
	ID string `json:"id"`
}

// UpdateDraftRequest carries the current draft text for a session.
type UpdateDraftRequest struct {
	Text string `json:"text"`
}

type DetachRequest struct {
	ID string `json:"id"`
}

type SetModeRequest struct {
	ID   string       `json:"id"`
	Mode DeliveryMode `json:"mode"`
}

type SubmitRequest struct {
	Query string `json:"query"`
}

// SubmitResponse carries the created context pack, or the locally computed
// fallback paths when the context-pack call failed or nothing was attached.
type SubmitResponse struct {
	ContextPack   *ContextPack `json:"contextPack,omitempty"`
	FallbackPaths []string     `json:"fallbackPaths,omitempty"`
}

// SessionStateDTO exposes the observable pipeline fields to the presentation layer.
type SessionStateDTO struct {
	Draft               string       `json:"draft"`
	Suggestions         []Suggestion `json:"suggestions"`
	AttachedSuggestions []Suggestion `json:"attachedSuggestions"`
	IsLoading           bool         `json:"isLoading"`
	LastError           string       `json:"lastError,omitempty"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
