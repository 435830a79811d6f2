package entity

// SuggestRequest is the payload for POST /retrieval/suggest.
type SuggestRequest struct {
	Query                        string   `json:"query"`
	SourceFilters                []string `json:"sourceFilters,omitempty"`
	Limit                        int      `json:"limit"`
	TypingMode                   bool     `json:"typingMode"`
	IncludeColdPartitionFallback bool     `json:"includeColdPartitionFallback"`
}

type SuggestResponse struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// ContextPackRequest is the payload for POST /retrieval/context-pack,
// built from the attached suggestions at submit time.
type ContextPackRequest struct {
	Query                 string            `json:"query"`
	SelectedSuggestionIDs []string          `json:"selectedSuggestionIds"`
	ModeOverrides         map[string]string `json:"modeOverrides"`
}

// ContextPack is the finalized bundle returned by the retrieval daemon.
// Immutable once received.
type ContextPack struct {
	ID                 string   `json:"id"`
	AttachmentPaths    []string `json:"attachmentPaths"`
	InlinePromptBlocks []string `json:"inlinePromptBlocks"`
}
