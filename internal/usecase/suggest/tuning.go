package suggest

import "time"

// RetrievalProfile names a latency/completeness tradeoff for one suggest call.
type RetrievalProfile struct {
	Name                  string
	Limit                 int
	TypingMode            bool
	ColdPartitionFallback bool
	Timeout               time.Duration
}

// Tuning holds every pipeline threshold. The values are defaults tuned against
// the reference retrieval daemon; deployments override the operational ones
// (debounce, idle, timeouts) through config.
type Tuning struct {
	// Query normalizer
	QueryCompactionThreshold int // drafts longer than this are replaced by keywords
	MaxQueryKeywords         int
	MaxQueryLength           int

	// Query expander
	ExpansionMinQueryLength int
	ExpansionMinKeywords    int
	MaxExpansions           int

	// Retrieval orchestrator
	PrimaryFast   RetrievalProfile
	PrimaryDeep   RetrievalProfile
	ExpansionFast RetrievalProfile

	DeepQueryMinDraftLength int
	DeepQueryMinKeywords    int
	FastSufficientCount     int // skip the deep call when the fast call returned this many
	ExpansionCutoffCount    int // skip expansion calls at this many merged candidates

	RetryDelay            time.Duration
	RetryTimeoutIncrement time.Duration

	// Merge/rank engine
	ExpansionPenalty float64
	TieBreakDelta    float64
	MaxCandidates    int

	// Relevance gate
	GateMinDraftLength  int
	GateMinKeywords     int
	GateMinCandidates   int
	MinConfidence       float64
	HighConfidence      float64
	MinOverlapRatio     float64
	LowOverlapRatio     float64
	NoKeywordConfidence float64

	FallbackOverlapRatio float64
	FallbackMinScore     float64
	FallbackLimit        int

	GateSettleDelay   time.Duration
	MinIdleBeforeGate time.Duration
	MaxSnippetChars   int

	// Pipeline controller
	Debounce time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		QueryCompactionThreshold: 180,
		MaxQueryKeywords:         14,
		MaxQueryLength:           260,

		ExpansionMinQueryLength: 56,
		ExpansionMinKeywords:    4,
		MaxExpansions:           1,

		PrimaryFast: RetrievalProfile{
			Name:       "primary-fast",
			Limit:      10,
			TypingMode: true,
			Timeout:    1200 * time.Millisecond,
		},
		PrimaryDeep: RetrievalProfile{
			Name:                  "primary-deep",
			Limit:                 20,
			ColdPartitionFallback: true,
			Timeout:               1800 * time.Millisecond,
		},
		ExpansionFast: RetrievalProfile{
			Name:       "expansion-fast",
			Limit:      8,
			TypingMode: true,
			Timeout:    1200 * time.Millisecond,
		},

		DeepQueryMinDraftLength: 64,
		DeepQueryMinKeywords:    4,
		FastSufficientCount:     8,
		ExpansionCutoffCount:    12,

		RetryDelay:            150 * time.Millisecond,
		RetryTimeoutIncrement: 600 * time.Millisecond,

		ExpansionPenalty: 0.09,
		TieBreakDelta:    0.05,
		MaxCandidates:    18,

		GateMinDraftLength:  48,
		GateMinKeywords:     3,
		GateMinCandidates:   4,
		MinConfidence:       0.72,
		HighConfidence:      0.90,
		MinOverlapRatio:     0.10,
		LowOverlapRatio:     0.05,
		NoKeywordConfidence: 0.82,

		FallbackOverlapRatio: 0.12,
		FallbackMinScore:     0.24,
		FallbackLimit:        3,

		GateSettleDelay:   200 * time.Millisecond,
		MinIdleBeforeGate: 650 * time.Millisecond,
		MaxSnippetChars:   320,

		Debounce: 250 * time.Millisecond,
	}
}
