package suggest

import (
	"context"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/futig/context-engine/internal/entity"
	pkgretry "github.com/futig/context-engine/internal/pkg/retry"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Orchestrator fans out the profiled retrieval calls and tolerates partial
// failure: a failed call reduces recall, it never fails the pipeline.
type Orchestrator struct {
	retrieval RetrievalConnector
	tuning    Tuning
}

func NewOrchestrator(retrieval RetrievalConnector, tuning Tuning) *Orchestrator {
	return &Orchestrator{
		retrieval: retrieval,
		tuning:    tuning,
	}
}

// RetrievalResult is the fan-in of all calls that returned before cancellation.
type RetrievalResult struct {
	// Candidates is the concatenation of all successfully returned lists.
	Candidates []entity.Suggestion
	// BaseIDs is the identity set of suggestions returned by a primary
	// profile, as opposed to expansion-only hits.
	BaseIDs map[string]bool
	// Err is set only when every call came back empty and at least one
	// failed; surfaced through the session's lastError field.
	Err error
}

func (o *Orchestrator) Run(ctx context.Context, draft, query string, keywords, expansions []string) *RetrievalResult {
	result := &RetrievalResult{BaseIDs: make(map[string]bool)}
	var firstErr error

	fast, err := o.call(ctx, query, o.tuning.PrimaryFast)
	if err != nil {
		firstErr = err
	}
	o.addBase(result, fast)

	if ctx.Err() != nil {
		return result
	}

	// Deep queries are expensive: only issue one for substantial drafts where
	// the fast call looks inadequate.
	deepGate := len(draft) >= o.tuning.DeepQueryMinDraftLength &&
		len(keywords) >= o.tuning.DeepQueryMinKeywords
	if deepGate && len(fast) < o.tuning.FastSufficientCount {
		deep, err := o.call(ctx, query, o.tuning.PrimaryDeep)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		o.addBase(result, deep)
	}

	if ctx.Err() != nil {
		return result
	}

	if len(expansions) > 0 && len(result.Candidates) < o.tuning.ExpansionCutoffCount {
		lists := make([][]entity.Suggestion, len(expansions))
		var wg sync.WaitGroup
		for i, expansion := range expansions {
			wg.Add(1)
			go func(i int, expansion string) {
				defer wg.Done()
				hits, err := o.call(ctx, expansion, o.tuning.ExpansionFast)
				if err != nil {
					ctxzap.Debug(ctx, "expansion retrieval failed",
						zap.String("expansion", expansion),
						zap.Error(err),
					)
					return
				}
				lists[i] = hits
			}(i, expansion)
		}
		wg.Wait()

		for _, hits := range lists {
			result.Candidates = append(result.Candidates, hits...)
		}
	}

	if len(result.Candidates) == 0 && firstErr != nil && ctx.Err() == nil {
		result.Err = firstErr
	}

	return result
}

func (o *Orchestrator) addBase(result *RetrievalResult, hits []entity.Suggestion) {
	for _, s := range hits {
		result.BaseIDs[s.ID] = true
	}
	result.Candidates = append(result.Candidates, hits...)
}

// call issues one suggest request under the profile's timeout. A
// timeout-classified failure is retried exactly once with the timeout extended;
// any other failure returns immediately.
func (o *Orchestrator) call(ctx context.Context, query string, profile RetrievalProfile) ([]entity.Suggestion, error) {
	req := &entity.SuggestRequest{
		Query:                        query,
		Limit:                        profile.Limit,
		TypingMode:                   profile.TypingMode,
		IncludeColdPartitionFallback: profile.ColdPartitionFallback,
	}

	rc := pkgretry.RetryConfig{
		Attempts:         2,
		Delay:            o.tuning.RetryDelay,
		TimeoutIncrement: o.tuning.RetryTimeoutIncrement,
	}

	var suggestions []entity.Suggestion
	attempt := 0

	err := retry.Do(func() error {
		timeout := profile.Timeout + time.Duration(attempt)*rc.TimeoutIncrement
		attempt++

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		resp, err := o.retrieval.Suggest(callCtx, req)
		if err != nil {
			if ctx.Err() != nil {
				// The orchestration was cancelled, not the call.
				return retry.Unrecoverable(ctx.Err())
			}
			return err
		}

		suggestions = resp.Suggestions
		return nil
	}, rc.ToRetryOptions(ctx)...)

	if err != nil {
		ctxzap.Warn(ctx, "retrieval call failed",
			zap.String("profile", profile.Name),
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
		return nil, err
	}

	ctxzap.Debug(ctx, "retrieval call succeeded",
		zap.String("profile", profile.Name),
		zap.Int("count", len(suggestions)),
	)

	return suggestions, nil
}
