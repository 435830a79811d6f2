package suggest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/futig/context-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func controllerTuning() Tuning {
	t := DefaultTuning()
	t.Debounce = 2 * time.Millisecond
	t.GateSettleDelay = time.Millisecond
	t.MinIdleBeforeGate = time.Millisecond
	t.RetryDelay = time.Millisecond
	t.RetryTimeoutIncrement = time.Millisecond
	return t
}

func fixedResponse(suggs ...entity.Suggestion) func(context.Context, int, *entity.SuggestRequest) (*entity.SuggestResponse, error) {
	return func(context.Context, int, *entity.SuggestRequest) (*entity.SuggestResponse, error) {
		return &entity.SuggestResponse{Suggestions: suggs}, nil
	}
}

func TestControllerPublishesRankedSuggestions(t *testing.T) {
	stub := &stubRetrieval{respond: fixedResponse(suggestion("a", 0.8), suggestion("b", 0.6))}
	c := NewController(stub, nil, controllerTuning(), zap.NewNop())
	defer c.Close()

	c.UpdateDraft(shortDraft)

	require.Eventually(t, func() bool {
		st := c.State()
		return !st.IsLoading && len(st.Suggestions) == 2
	}, time.Second, time.Millisecond)

	st := c.State()
	assert.Equal(t, []string{"a", "b"}, ids(st.Suggestions))
	assert.Empty(t, st.LastError)
	assert.Equal(t, shortDraft, st.Draft)
}

func TestControllerEmptyDraftSkipsRetrieval(t *testing.T) {
	stub := &stubRetrieval{respond: fixedResponse(suggestion("a", 0.8))}
	c := NewController(stub, nil, controllerTuning(), zap.NewNop())
	defer c.Close()

	c.UpdateDraft("   ")
	time.Sleep(20 * time.Millisecond)

	st := c.State()
	assert.Zero(t, stub.callCount())
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Suggestions)
}

func TestControllerDebouncesKeystrokes(t *testing.T) {
	tuning := controllerTuning()
	tuning.Debounce = 50 * time.Millisecond
	stub := &stubRetrieval{respond: fixedResponse(suggestion("a", 0.8))}
	c := NewController(stub, nil, tuning, zap.NewNop())
	defer c.Close()

	c.UpdateDraft("fix th")
	c.UpdateDraft("fix the log")
	c.UpdateDraft("fix the login bug")

	require.Eventually(t, func() bool {
		return stub.callCount() > 0
	}, 2*time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 1, stub.callCount(), "superseded keystrokes never reach retrieval")
	assert.Equal(t, "fix the login bug", stub.callAt(0).Query)
}

func TestControllerDiscardsStaleApply(t *testing.T) {
	stub := &stubRetrieval{respond: fixedResponse()}
	c := NewController(stub, nil, controllerTuning(), zap.NewNop())
	defer c.Close()

	c.UpdateDraft("") // bumps the request id without starting a run

	assert.False(t, c.applyCandidates(0, []entity.Suggestion{suggestion("old", 0.9)}, nil, true))
	assert.Empty(t, c.State().Suggestions)

	assert.True(t, c.applyCandidates(1, []entity.Suggestion{suggestion("new", 0.9)}, nil, true))
	assert.Equal(t, []string{"new"}, ids(c.State().Suggestions))
}

func TestControllerNewerDraftSupersedesSlowerOlderRun(t *testing.T) {
	release := make(chan struct{})
	stub := &stubRetrieval{respond: func(_ context.Context, _ int, req *entity.SuggestRequest) (*entity.SuggestResponse, error) {
		if strings.Contains(req.Query, "alpha") {
			<-release
			return &entity.SuggestResponse{Suggestions: []entity.Suggestion{suggestion("old", 0.9)}}, nil
		}
		return &entity.SuggestResponse{Suggestions: []entity.Suggestion{suggestion("new", 0.9)}}, nil
	}}
	c := NewController(stub, nil, controllerTuning(), zap.NewNop())

	c.UpdateDraft("alpha payment retries")
	require.Eventually(t, func() bool { return stub.callCount() == 1 }, time.Second, time.Millisecond)

	c.UpdateDraft("beta refund flow")
	require.Eventually(t, func() bool {
		st := c.State()
		return !st.IsLoading && len(st.Suggestions) == 1 && st.Suggestions[0].ID == "new"
	}, time.Second, time.Millisecond)

	// The slow run for the first draft finishes only now; its result must not
	// clobber the newer one.
	close(release)
	time.Sleep(30 * time.Millisecond)

	st := c.State()
	require.Len(t, st.Suggestions, 1)
	assert.Equal(t, "new", st.Suggestions[0].ID)

	c.Close()
}

func TestControllerSurfacesRetrievalFailure(t *testing.T) {
	stub := &stubRetrieval{respond: func(_ context.Context, call int, _ *entity.SuggestRequest) (*entity.SuggestResponse, error) {
		if call == 1 {
			return nil, errors.New("retrieval daemon unavailable")
		}
		return &entity.SuggestResponse{Suggestions: []entity.Suggestion{suggestion("a", 0.8)}}, nil
	}}
	c := NewController(stub, nil, controllerTuning(), zap.NewNop())
	defer c.Close()

	c.UpdateDraft(shortDraft)
	require.Eventually(t, func() bool {
		st := c.State()
		return !st.IsLoading && st.LastError != ""
	}, time.Second, time.Millisecond)
	assert.Empty(t, c.State().Suggestions)

	// The next successful run clears the error.
	c.UpdateDraft(shortDraft + " again")
	require.Eventually(t, func() bool {
		st := c.State()
		return !st.IsLoading && len(st.Suggestions) == 1 && st.LastError == ""
	}, time.Second, time.Millisecond)
}

func TestControllerAttachDetachRoundTrip(t *testing.T) {
	a, b := suggestion("a", 0.8), suggestion("b", 0.6)
	stub := &stubRetrieval{respond: fixedResponse(a, b)}
	c := NewController(stub, nil, controllerTuning(), zap.NewNop())
	defer c.Close()

	c.UpdateDraft(shortDraft)
	require.Eventually(t, func() bool {
		st := c.State()
		return !st.IsLoading && len(st.Suggestions) == 2
	}, time.Second, time.Millisecond)

	c.Attach(a)
	st := c.State()
	assert.Equal(t, []string{"a"}, ids(st.AttachedSuggestions))
	assert.Equal(t, []string{"b"}, ids(st.Suggestions))

	c.Detach("a")
	st = c.State()
	assert.Empty(t, st.AttachedSuggestions)
	assert.Equal(t, []string{"a", "b"}, ids(st.Suggestions))
}

func TestControllerToggleSelection(t *testing.T) {
	a := suggestion("a", 0.8)
	stub := &stubRetrieval{respond: fixedResponse(a)}
	c := NewController(stub, nil, controllerTuning(), zap.NewNop())
	defer c.Close()

	c.UpdateDraft(shortDraft)
	require.Eventually(t, func() bool {
		return len(c.State().Suggestions) == 1
	}, time.Second, time.Millisecond)

	c.ToggleSelection(a)
	assert.Equal(t, []string{"a"}, ids(c.State().AttachedSuggestions))

	c.ToggleSelection(a)
	assert.Empty(t, c.State().AttachedSuggestions)
}

func TestControllerSubmitWithoutAttachments(t *testing.T) {
	stub := &stubRetrieval{respond: fixedResponse()}
	c := NewController(stub, nil, controllerTuning(), zap.NewNop())
	defer c.Close()

	pack, err := c.CreateContextPackIfNeeded(context.Background(), "query")

	require.NoError(t, err)
	assert.Nil(t, pack)
	assert.Empty(t, stub.packReqs)
}

func TestControllerSubmitCreatesPackAndClears(t *testing.T) {
	stub := &stubRetrieval{respond: fixedResponse()}
	c := NewController(stub, nil, controllerTuning(), zap.NewNop())
	defer c.Close()

	a := suggestion("a", 0.8)
	c.UpdateDraft("")
	c.Attach(a)
	c.SetMode(entity.DeliveryModeInlineSnippet, "a")

	pack, err := c.CreateContextPackIfNeeded(context.Background(), "find the budget")
	require.NoError(t, err)
	require.NotNil(t, pack)
	assert.Equal(t, "pack-1", pack.ID)

	require.Len(t, stub.packReqs, 1)
	req := stub.packReqs[0]
	assert.Equal(t, []string{"a"}, req.SelectedSuggestionIDs)
	assert.Equal(t, string(entity.DeliveryModeInlineSnippet), req.ModeOverrides["a"])

	c.ClearAfterSubmit()
	st := c.State()
	assert.Empty(t, st.Draft)
	assert.Empty(t, st.Suggestions)
	assert.Empty(t, st.AttachedSuggestions)
	assert.Empty(t, st.LastError)
}

func TestControllerFallbackPathsWhenPackFails(t *testing.T) {
	stub := &stubRetrieval{
		respond: fixedResponse(),
		packErr: errors.New("context pack endpoint down"),
	}
	c := NewController(stub, nil, controllerTuning(), zap.NewNop())
	defer c.Close()

	a := suggestion("a", 0.8)
	a.SourcePath = "/docs/a.md"
	c.Attach(a)

	pack, err := c.CreateContextPackIfNeeded(context.Background(), "query")
	require.Error(t, err)
	assert.Nil(t, pack)

	assert.Equal(t, []string{"/docs/a.md"}, c.FallbackFileAttachmentPaths())
}

func TestControllerCloseStopsAcceptingWork(t *testing.T) {
	stub := &stubRetrieval{respond: fixedResponse(suggestion("a", 0.8))}
	c := NewController(stub, nil, controllerTuning(), zap.NewNop())

	c.Close()
	c.UpdateDraft(shortDraft)
	c.Attach(suggestion("a", 0.8))
	time.Sleep(20 * time.Millisecond)

	st := c.State()
	assert.Zero(t, stub.callCount())
	assert.Empty(t, st.Suggestions)
	assert.Empty(t, st.AttachedSuggestions)

	c.Close() // idempotent
}
