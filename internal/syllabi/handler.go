package syllabi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/lectio-edu/lectio/internal/actors"
	"github.com/lectio-edu/lectio/pkg/handlers"
	"github.com/lectio-edu/lectio/pkg/middleware"
	"github.com/lectio-edu/lectio/pkg/pagination"
	"github.com/lectio-edu/lectio/pkg/routes"
)

// Handler provides HTTP endpoints for syllabus operations.
type Handler struct {
	sys           System
	actors        actors.System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// SearchRequest combines pagination and filter criteria for the search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// CreateRequest is the JSON body for registering a new syllabus.
type CreateRequest struct {
	CourseID             uuid.UUID `json:"course_id"`
	Semester             string    `json:"semester"`
	AcademicYear         string    `json:"academic_year"`
	MainLanguage         string    `json:"main_language"`
	TotalWeeks           int       `json:"total_weeks"`
	IsShared             bool      `json:"is_shared"`
	CourseDescription    string    `json:"course_description"`
	CourseGoal           string    `json:"course_goal"`
	MainLiterature       string    `json:"main_literature"`
	AdditionalLiterature string    `json:"additional_literature"`
}

// TopicsRequest is the JSON body for replacing a syllabus's weekly topic plan.
type TopicsRequest struct {
	Topics []TopicInput `json:"topics"`
}

// NewHandler creates a Handler with the given systems, logger, pagination
// config, and upload size limit.
func NewHandler(
	sys System,
	actorSys actors.System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		actors:        actorSys,
		logger:        logger.With("handler", "syllabi"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for syllabus endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/syllabi",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "POST", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "PUT", Pattern: "/{id}/topics", Handler: h.ReplaceTopics},
			{Method: "POST", Pattern: "/{id}/file", Handler: h.Upload},
			{Method: "GET", Pattern: "/{id}/file", Handler: h.Download},
		},
	}
}

// List returns a paginated list of syllabi with optional query parameter filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Search accepts a JSON body with pagination and filter criteria and returns matching syllabi.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.List(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns a single syllabus with its topic plan by UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	detail, err := h.sys.FindDetail(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}

// Create registers a new draft syllabus authored by the caller.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := h.resolveActor(r, actors.CapAuthor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	s, err := h.sys.Create(r.Context(), CreateCommand{
		CourseID:             req.CourseID,
		AuthorID:             actor.ID,
		Semester:             req.Semester,
		AcademicYear:         req.AcademicYear,
		MainLanguage:         req.MainLanguage,
		TotalWeeks:           req.TotalWeeks,
		IsShared:             req.IsShared,
		CourseDescription:    req.CourseDescription,
		CourseGoal:           req.CourseGoal,
		MainLiterature:       req.MainLiterature,
		AdditionalLiterature: req.AdditionalLiterature,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, s)
}

// ReplaceTopics swaps the weekly topic plan of an editable syllabus.
func (h *Handler) ReplaceTopics(w http.ResponseWriter, r *http.Request) {
	actor, err := h.resolveActor(r, actors.CapAuthor)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	var req TopicsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	detail, err := h.sys.ReplaceTopics(r.Context(), id, actor.ID, req.Topics)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, detail)
}

// Upload processes a multipart form upload containing a syllabus document.
// Extracts PDF page count automatically for PDF files using pdfcpu.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, err := h.resolveActor(r, actors.CapAuthor|actors.CapMethodology)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), data)
	pageCount := extractPDFPageCount(h.logger, data, contentType)

	// only methodology office and admins may replace approved files
	caps := actor.Capabilities()
	allowApproved := caps.Has(actors.CapMethodology) || caps.Has(actors.CapOverride)

	cmd := AttachCommand{
		ActorID:     actor.ID,
		Data:        data,
		Filename:    header.Filename,
		ContentType: contentType,
		PageCount:   pageCount,
	}

	s, err := h.sys.AttachFile(r.Context(), id, cmd, allowApproved)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, s)
}

// Download streams the attached syllabus document.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidInput)
		return
	}

	reader, filename, err := h.sys.DownloadFile(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Type", "application/octet-stream")

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("syllabus download interrupted", "id", id, "error", err)
	}
}

func (h *Handler) resolveActor(r *http.Request, required actors.Capability) (*actors.Actor, error) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		return nil, ErrForbidden
	}

	actor, err := h.actors.Resolve(r.Context(), identity.Email)
	if err != nil {
		return nil, ErrForbidden
	}

	if actor.Capabilities()&required == 0 {
		return nil, ErrForbidden
	}

	return actor, nil
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func extractPDFPageCount(logger *slog.Logger, data []byte, contentType string) *int {
	if contentType != "application/pdf" {
		return nil
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return nil
	}

	return &count
}
