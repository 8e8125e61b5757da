package review

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/internal/actors"
	"github.com/lectio-edu/lectio/pkg/handlers"
	"github.com/lectio-edu/lectio/pkg/middleware"
	"github.com/lectio-edu/lectio/pkg/routes"
)

// Handler provides HTTP endpoints for workflow transitions and history.
type Handler struct {
	engine   *Engine
	actors   actors.System
	recorder Recorder
	logger   *slog.Logger
}

// TransitionRequest is the JSON body for requesting a status change.
type TransitionRequest struct {
	Target  string `json:"target"`
	Comment string `json:"comment"`
}

// NewHandler creates a Handler over the engine and recorder.
func NewHandler(engine *Engine, actorSys actors.System, recorder Recorder, logger *slog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		actors:   actorSys,
		recorder: recorder,
		logger:   logger.With("handler", "review"),
	}
}

// Routes returns the route group definition for workflow endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/syllabi",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}/transitions", Handler: h.Transition},
			{Method: "GET", Pattern: "/{id}/transitions", Handler: h.History},
			{Method: "GET", Pattern: "/{id}/audit", Handler: h.Audit},
		},
	}
}

// Transition applies a requested status change on behalf of the caller.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, newError(KindValidationFailed, "invalid syllabus id"))
		return
	}

	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusForbidden, newError(KindPermissionDenied, "no authenticated identity"))
		return
	}

	actor, err := h.actors.Resolve(r.Context(), identity.Email)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusForbidden, newError(KindPermissionDenied, "caller is not a registered user"))
		return
	}

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, newError(KindValidationFailed, "invalid request body"))
		return
	}

	s, err := h.engine.Request(r.Context(), id, req.Target, ForUser(actor), req.Comment)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}

// History returns the transition history of a syllabus, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, newError(KindValidationFailed, "invalid syllabus id"))
		return
	}

	records, err := h.recorder.History(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, records)
}

// Audit returns the audit trail of a syllabus, newest first.
func (h *Handler) Audit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, newError(KindValidationFailed, "invalid syllabus id"))
		return
	}

	entries, err := h.recorder.Audit(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entries)
}
