// Package projects serves the project store over the JSON API.
package projects

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/storage"
)

// Response helpers (same envelope as the rest of the API)
type errorResponse struct {
	Error errorBody `json:"error"`
}
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
type dataResponse struct {
	Data any `json:"data"`
}

const (
	errCodeNotFound      = "NOT_FOUND"
	errCodeInternalError = "INTERNAL_ERROR"
)

func jsonError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errorBody{Code: code, Message: message}})
}

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dataResponse{Data: data})
}

// ProjectResponse is a project with the ids of its members.
type ProjectResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func projectToResponse(p *models.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Members:     p.MemberIDs(),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

type Handler struct {
	repo   storage.ProjectRepository
	logger *zap.Logger
}

func NewHandler(repo storage.ProjectRepository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// List returns all projects, or the projects of one member with ?member=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		projects []*models.Project
		err      error
	)
	if member := r.URL.Query().Get("member"); member != "" {
		projects, err = h.repo.ListForMember(ctx, member)
	} else {
		projects, err = h.repo.List(ctx)
	}
	if err != nil {
		h.logger.Error("list projects failed", zap.Error(err))
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}

	resp := make([]*ProjectResponse, len(projects))
	for i, p := range projects {
		resp[i] = projectToResponse(p)
	}
	jsonOK(w, resp)
}

// GetByID returns a project by ID.
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	project, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("get project failed", zap.String("id", id), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, errCodeInternalError, "internal server error")
		return
	}
	if project == nil {
		jsonError(w, http.StatusNotFound, errCodeNotFound, "project not found")
		return
	}
	jsonOK(w, projectToResponse(project))
}
