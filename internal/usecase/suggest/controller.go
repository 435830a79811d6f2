package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/futig/context-engine/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Controller owns one pipeline per input session: it debounces draft edits,
// assigns a monotonically increasing request id, runs the retrieval and
// relevance stages, and applies a stage's output only while its captured id is
// still current. That apply-if-current rule is the sole mechanism preventing
// out-of-order results from clobbering newer ones.
type Controller struct {
	mu sync.Mutex

	tuning       Tuning
	orchestrator *Orchestrator
	gate         *Gate
	retrieval    RetrievalConnector
	logger       *zap.Logger

	draft     string
	requestID uint64
	lastEdit  time.Time
	isLoading bool
	lastError string
	selection *Selection
	cancel    context.CancelFunc
	closed    bool
	wg        sync.WaitGroup
}

func NewController(retrieval RetrievalConnector, llm LLMConnector, tuning Tuning, logger *zap.Logger) *Controller {
	return &Controller{
		tuning:       tuning,
		orchestrator: NewOrchestrator(retrieval, tuning),
		gate:         NewGate(llm, tuning),
		retrieval:    retrieval,
		logger:       logger,
		selection:    NewSelection(),
	}
}

// StateSnapshot carries the observable pipeline fields at one point in time.
type StateSnapshot struct {
	Draft               string
	Suggestions         []entity.Suggestion
	AttachedSuggestions []entity.Suggestion
	IsLoading           bool
	LastError           string
}

// UpdateDraft is the pipeline entry point: it cancels any in-flight run,
// bumps the request id and starts a new debounced run for a non-empty draft.
func (c *Controller) UpdateDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.draft = text
	c.lastEdit = time.Now()
	c.cancelInFlightLocked()
	c.requestID++

	if strings.TrimSpace(text) == "" {
		c.isLoading = false
		c.selection.Refresh(nil)
		return
	}

	id := c.requestID
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxzap.ToContext(ctx, c.logger.With(zap.Uint64("request_id", id)))
	c.cancel = cancel

	c.wg.Add(1)
	go c.run(ctx, id, text)
}

func (c *Controller) run(ctx context.Context, id uint64, draft string) {
	defer c.wg.Done()

	if !sleepCtx(ctx, c.tuning.Debounce) {
		return
	}

	query, keywords := NormalizeDraft(draft, c.tuning)
	expansions := ExpandQuery(query, keywords, c.tuning)

	if !c.markLoading(id) {
		return
	}

	res := c.orchestrator.Run(ctx, draft, query, keywords, expansions)
	if ctx.Err() != nil {
		return
	}

	for _, s := range res.Candidates {
		if s.ID == "" {
			c.logger.DPanic("retrieval returned suggestion with empty id",
				zap.String("title", s.Title))
			break
		}
	}

	preliminary := MergeRank(res.Candidates, res.BaseIDs, c.tuning)
	if !c.applyCandidates(id, preliminary, res.Err, false) {
		return
	}

	// The gate runs once per pause in typing, not once per keystroke: a short
	// settle delay plus a wait until the user has been idle long enough.
	if !sleepCtx(ctx, c.tuning.GateSettleDelay) {
		return
	}
	if !c.waitForIdle(ctx) {
		return
	}

	final := c.gate.Filter(ctx, draft, keywords, preliminary, res.BaseIDs)
	if ctx.Err() != nil {
		return
	}
	c.applyCandidates(id, final, res.Err, true)
}

// markLoading flips the loading flag if the run is still current.
func (c *Controller) markLoading(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || id != c.requestID {
		return false
	}
	c.isLoading = true
	return true
}

// applyCandidates publishes a stage's output, discarding it silently when the
// captured id is stale. lastError is set only when the whole retrieval attempt
// yielded nothing, and cleared by the next successful stage.
func (c *Controller) applyCandidates(id uint64, candidates []entity.Suggestion, retrievalErr error, final bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || id != c.requestID {
		return false
	}

	c.selection.Refresh(candidates)

	if retrievalErr != nil && len(candidates) == 0 {
		c.lastError = retrievalErr.Error()
	} else {
		c.lastError = ""
	}

	if final {
		c.isLoading = false
	}
	return true
}

func (c *Controller) waitForIdle(ctx context.Context) bool {
	for {
		c.mu.Lock()
		idle := time.Since(c.lastEdit)
		c.mu.Unlock()

		remain := c.tuning.MinIdleBeforeGate - idle
		if remain <= 0 {
			return true
		}
		if !sleepCtx(ctx, remain) {
			return false
		}
	}
}

// Attach pins a suggestion into the context selection.
func (c *Controller) Attach(sug entity.Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.selection.Attach(sug)
}

// Detach removes a pinned suggestion and clears its mode override.
func (c *Controller) Detach(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.selection.Detach(id, strings.TrimSpace(c.draft) != "")
}

// ToggleSelection attaches the suggestion, or detaches it when already attached.
func (c *Controller) ToggleSelection(sug entity.Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if c.selection.isAttached(sug.ID) {
		c.selection.Detach(sug.ID, strings.TrimSpace(c.draft) != "")
		return
	}
	c.selection.Attach(sug)
}

// SetMode overrides the delivery mode for a suggestion.
func (c *Controller) SetMode(mode entity.DeliveryMode, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.selection.SetMode(mode, id)
}

// State returns a copy of the observable pipeline fields.
func (c *Controller) State() StateSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return StateSnapshot{
		Draft:               c.draft,
		Suggestions:         append([]entity.Suggestion(nil), c.selection.Suggestions()...),
		AttachedSuggestions: append([]entity.Suggestion(nil), c.selection.Attached()...),
		IsLoading:           c.isLoading,
		LastError:           c.lastError,
	}
}

// CreateContextPackIfNeeded builds and submits the context pack from the
// attached suggestions. Returns nil with no error when nothing is attached.
// A failed call is the caller's cue to use the file-attachment fallback.
func (c *Controller) CreateContextPackIfNeeded(ctx context.Context, query string) (*entity.ContextPack, error) {
	c.mu.Lock()
	req := c.selection.ContextPackRequest(query)
	c.mu.Unlock()

	if req == nil {
		return nil, nil
	}

	pack, err := c.retrieval.CreateContextPack(ctx, req)
	if err != nil {
		ctxzap.Warn(ctx, "context pack creation failed", zap.Error(err))
		return nil, err
	}

	ctxzap.Info(ctx, "context pack created",
		zap.String("pack_id", pack.ID),
		zap.Int("attachment_count", len(pack.AttachmentPaths)),
	)
	return pack, nil
}

// FallbackFileAttachmentPaths lists the attached file paths used when the
// context-pack call fails.
func (c *Controller) FallbackFileAttachmentPaths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.FallbackFilePaths()
}

// ClearAfterSubmit resets all pipeline state once the task has been submitted.
func (c *Controller) ClearAfterSubmit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelInFlightLocked()
	c.requestID++
	c.draft = ""
	c.isLoading = false
	c.lastError = ""
	c.selection.Reset()
}

// Close tears the session down: cancels in-flight work and waits for it to
// drain. The controller accepts no calls afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelInFlightLocked()
	c.requestID++
	c.selection.Reset()
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Controller) cancelInFlightLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
