package checks

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lectio-edu/lectio/internal/syllabi"
	"github.com/lectio-edu/lectio/pkg/handlers"
	"github.com/lectio-edu/lectio/pkg/routes"
)

// Handler provides HTTP endpoints for running checks and reading their history.
type Handler struct {
	checks System
	worker *Worker
	logger *slog.Logger
}

// NewHandler creates a Handler over the check system and worker.
func NewHandler(checksSys System, worker *Worker, logger *slog.Logger) *Handler {
	return &Handler{
		checks: checksSys,
		worker: worker,
		logger: logger.With("handler", "checks"),
	}
}

// Routes returns the route group definition for check endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/syllabi",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/{id}/checks", Handler: h.Run},
			{Method: "GET", Pattern: "/{id}/checks", Handler: h.History},
		},
	}
}

// Run executes the check pipeline synchronously and applies the verdict.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, syllabi.ErrInvalidInput)
		return
	}

	result, err := h.worker.Process(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, syllabi.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// History returns the stored check results for a syllabus, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, syllabi.ErrInvalidInput)
		return
	}

	results, err := h.checks.History(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, results)
}
