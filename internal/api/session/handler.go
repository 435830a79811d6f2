package session

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/futig/context-engine/internal/entity"
	"github.com/futig/context-engine/internal/pkg/logger"
	"github.com/futig/context-engine/internal/pkg/response"
	"github.com/futig/context-engine/internal/usecase/suggest"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	registry SessionRegistry
}

func NewHandler(registry SessionRegistry) *Handler {
	return &Handler{
		registry: registry,
	}
}

// CreateSession handles POST /sessions - start a new pipeline session
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateSession")

	id := h.registry.Create()

	ctxzap.Info(ctx, "pipeline session created", zap.String("session_id", id))
	response.JSON(w, http.StatusCreated, entity.CreateSessionResponse{ID: id})
}

// UpdateDraft handles POST /sessions/{id}/draft - feed the current draft text.
// The pipeline runs asynchronously; clients poll the state endpoint.
func (h *Handler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	ctx, ctrl, ok := h.resolve(w, r, "UpdateDraft")
	if !ok {
		return
	}

	var req entity.UpdateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctrl.UpdateDraft(req.Text)

	response.Accepted(w, map[string]string{"status": "accepted"})
}

// GetState handles GET /sessions/{id}/state - observable pipeline fields
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	_, ctrl, ok := h.resolve(w, r, "GetState")
	if !ok {
		return
	}

	response.Success(w, toStateDTO(ctrl.State()))
}

// Attach handles POST /sessions/{id}/attach - pin a suggestion
func (h *Handler) Attach(w http.ResponseWriter, r *http.Request) {
	ctx, ctrl, ok := h.resolve(w, r, "Attach")
	if !ok {
		return
	}

	var sug entity.Suggestion
	if err := json.NewDecoder(r.Body).Decode(&sug); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if sug.ID == "" {
		response.Error(w, http.StatusBadRequest, "suggestion id is required")
		return
	}

	ctrl.Attach(sug)
	response.Success(w, toStateDTO(ctrl.State()))
}

// Detach handles POST /sessions/{id}/detach - unpin a suggestion
func (h *Handler) Detach(w http.ResponseWriter, r *http.Request) {
	ctx, ctrl, ok := h.resolve(w, r, "Detach")
	if !ok {
		return
	}

	var req entity.DetachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctrl.Detach(req.ID)
	response.Success(w, toStateDTO(ctrl.State()))
}

// Toggle handles POST /sessions/{id}/toggle - attach or detach a suggestion
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, ctrl, ok := h.resolve(w, r, "Toggle")
	if !ok {
		return
	}

	var sug entity.Suggestion
	if err := json.NewDecoder(r.Body).Decode(&sug); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if sug.ID == "" {
		response.Error(w, http.StatusBadRequest, "suggestion id is required")
		return
	}

	ctrl.ToggleSelection(sug)
	response.Success(w, toStateDTO(ctrl.State()))
}

// SetMode handles POST /sessions/{id}/mode - override a delivery mode
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	ctx, ctrl, ok := h.resolve(w, r, "SetMode")
	if !ok {
		return
	}

	var req entity.SetModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Mode {
	case entity.DeliveryModeFileReference, entity.DeliveryModeInlineSnippet, entity.DeliveryModeStructuredSummary:
	default:
		response.Error(w, http.StatusBadRequest, "unknown delivery mode")
		return
	}

	ctrl.SetMode(req.Mode, req.ID)
	response.Success(w, toStateDTO(ctrl.State()))
}

// Submit handles POST /sessions/{id}/submit - create the context pack and
// clear the session. A failed context-pack call is non-fatal: the response
// carries the locally computed file-attachment fallback instead.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, ctrl, ok := h.resolve(w, r, "Submit")
	if !ok {
		return
	}

	var req entity.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ctxzap.Error(ctx, "failed to decode request body", zap.Error(err))
		response.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := entity.SubmitResponse{}

	pack, err := ctrl.CreateContextPackIfNeeded(ctx, req.Query)
	if err != nil {
		ctxzap.Warn(ctx, "context pack creation failed, using fallback paths", zap.Error(err))
		resp.FallbackPaths = ctrl.FallbackFileAttachmentPaths()
	} else {
		resp.ContextPack = pack
	}

	ctrl.ClearAfterSubmit()

	ctxzap.Info(ctx, "session submitted",
		zap.Bool("has_context_pack", resp.ContextPack != nil),
		zap.Int("fallback_path_count", len(resp.FallbackPaths)),
	)
	response.Success(w, resp)
}

// DeleteSession handles DELETE /sessions/{id} - tear the session down
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DeleteSession")
	sessionID := chi.URLParam(r, "id")

	if !h.registry.Delete(sessionID) {
		response.Error(w, http.StatusNotFound, entity.ErrSessionNotFound.Error())
		return
	}

	ctxzap.Info(ctx, "session deleted", zap.String("session_id", sessionID))
	response.NoContent(w)
}

// resolve looks the session up and prepares the request context.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, action string) (context.Context, *suggest.Controller, bool) {
	sessionID := chi.URLParam(r, "id")

	ctx := logger.AddFields(r.Context(),
		zap.String("session_id", sessionID),
		zap.String("action", action),
	)

	ctrl, found := h.registry.Get(sessionID)
	if !found {
		response.Error(w, http.StatusNotFound, entity.ErrSessionNotFound.Error())
		return ctx, nil, false
	}

	return ctx, ctrl, true
}
