package pages

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workerbull/internal/auth"
	"workerbull/internal/logger"
	"workerbull/internal/models"
	"workerbull/internal/utils"
)

type Handler struct {
	Service *Service
	Logger  *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.WriteError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, ErrSlugTaken):
		utils.WriteError(w, http.StatusConflict, "A page with this slug already exists")
	case errors.Is(err, sql.ErrNoRows):
		utils.WriteError(w, http.StatusNotFound, "Page not found")
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: failed: %v", op, err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// Create handles POST /api/admin/pages.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := h.Service.Create(req, auth.SubjectFromContext(r.Context()))
	if err != nil {
		h.writeError(w, "CreatePage", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: p})
}

// Update handles PUT /api/admin/pages/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	p, err := h.Service.Update(chi.URLParam(r, "id"), req, auth.SubjectFromContext(r.Context()))
	if err != nil {
		h.writeError(w, "UpdatePage", err)
		return
	}
	if p == nil {
		utils.WriteError(w, http.StatusNotFound, "Page not found")
		return
	}
	utils.WriteSuccess(w, p)
}

// Delete handles DELETE /api/admin/pages/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeError(w, "DeletePage", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /api/admin/pages, drafts included.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	pages, err := h.Service.List()
	if err != nil {
		h.writeError(w, "ListPages", err)
		return
	}
	utils.WriteSuccess(w, pages)
}

// GetBySlug handles GET /api/pages/{slug}, published pages only.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetPublished(chi.URLParam(r, "slug"))
	if err != nil {
		h.writeError(w, "GetPageBySlug", err)
		return
	}
	if p == nil {
		utils.WriteError(w, http.StatusNotFound, "Page not found")
		return
	}
	utils.WriteSuccess(w, p)
}
