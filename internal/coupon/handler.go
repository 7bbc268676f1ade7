package coupon

import (
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

// Create handles POST /api/admin/coupons.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CouponCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("CreateCoupon: failed to decode request body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.Service.Create(req)
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			utils.WriteError(w, http.StatusBadRequest, vErr.Error())
		case errors.Is(err, ErrCodeTaken):
			utils.WriteError(w, http.StatusConflict, "Coupon code already exists")
		default:
			h.Logger.Error("API", fmt.Sprintf("CreateCoupon: failed: %v", err))
			utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{Success: true, Data: c})
}

// List handles GET /api/admin/coupons.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.Service.List()
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListCoupons: failed: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.WriteSuccess(w, coupons)
}

// Validate handles GET /api/coupons/{code}. The checkout form uses it to
// show the discount before submitting.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	c, err := h.Service.Lookup(code)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ValidateCoupon: lookup failed for %s: %v", code, err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if c == nil {
		utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"valid": false})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":    true,
		"discount": 10,
	})
}
