package entity

// RelevanceCandidate is the compact representation of a suggestion sent to the
// LLM relevance gate.
type RelevanceCandidate struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ResourceName string `json:"resourceName"`
	Snippet      string `json:"snippet"`
}

// RelevanceVerdict is one judgement in the LLM gate response.
type RelevanceVerdict struct {
	ID         string  `json:"id"`
	IsRelevant bool    `json:"isRelevant"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason,omitempty"`
}

type RelevanceVerdictsResponse struct {
	Verdicts []RelevanceVerdict `json:"verdicts"`
}
