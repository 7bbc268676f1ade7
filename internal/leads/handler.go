package leads

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

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
	if errors.As(err, &vErr) {
		utils.WriteError(w, http.StatusBadRequest, vErr.Error())
		return
	}
	if errors.Is(err, sql.ErrNoRows) {
		utils.WriteError(w, http.StatusNotFound, "Not found")
		return
	}
	h.Logger.Error("API", fmt.Sprintf("%s: failed: %v", op, err))
	utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// JoinWaitlist handles POST /api/waitlist.
func (h *Handler) JoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req WaitlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	entry, err := h.Service.JoinWaitlist(req)
	if err != nil {
		h.writeError(w, "JoinWaitlist", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: entry})
}

// SubmitContact handles POST /api/contact.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	msg, err := h.Service.SubmitContact(req)
	if err != nil {
		h.writeError(w, "SubmitContact", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: msg})
}

// ApplyAffiliate handles POST /api/affiliates.
func (h *Handler) ApplyAffiliate(w http.ResponseWriter, r *http.Request) {
	var req AffiliateApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	a, err := h.Service.ApplyAffiliate(req)
	if err != nil {
		h.writeError(w, "ApplyAffiliate", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: a})
}

// ListWaitlist handles GET /api/admin/waitlist.
func (h *Handler) ListWaitlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Service.ListWaitlist()
	if err != nil {
		h.writeError(w, "ListWaitlist", err)
		return
	}
	utils.WriteSuccess(w, entries)
}

// ListContacts handles GET /api/admin/contacts.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	messages, err := h.Service.ListContacts()
	if err != nil {
		h.writeError(w, "ListContacts", err)
		return
	}
	utils.WriteSuccess(w, messages)
}

// MarkContact handles PATCH /api/admin/contacts/{id}.
func (h *Handler) MarkContact(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.ContactStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.Service.MarkContact(chi.URLParam(r, "id"), body.Status); err != nil {
		h.writeError(w, "MarkContact", err)
		return
	}
	utils.WriteSuccess(w, utils.APIResponse{Success: true})
}

// ListAffiliates handles GET /api/admin/affiliates.
func (h *Handler) ListAffiliates(w http.ResponseWriter, r *http.Request) {
	requests, err := h.Service.ListAffiliates()
	if err != nil {
		h.writeError(w, "ListAffiliates", err)
		return
	}
	utils.WriteSuccess(w, requests)
}

// ReviewAffiliate handles PATCH /api/admin/affiliates/{id}.
func (h *Handler) ReviewAffiliate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status models.AffiliateStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.Service.ReviewAffiliate(chi.URLParam(r, "id"), body.Status); err != nil {
		h.writeError(w, "ReviewAffiliate", err)
		return
	}
	utils.WriteSuccess(w, utils.APIResponse{Success: true})
}
