package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workerbull/internal/logger"
	"workerbull/internal/models"
	"workerbull/internal/order"
	"workerbull/internal/utils"
)

type Handler struct {
	OrderService *order.Service
	Logger       *logger.Logger
}

func NewHandler(orderService *order.Service, log *logger.Logger) *Handler {
	return &Handler{
		OrderService: orderService,
		Logger:       log,
	}
}

// writeIntakeError maps validation failures to 400 and everything else to 500.
func (h *Handler) writeIntakeError(w http.ResponseWriter, op string, err error) {
	var vErr *order.ValidationError
	if errors.As(err, &vErr) {
		h.Logger.Warn("API", fmt.Sprintf("%s: rejected: %v", op, err))
		utils.WriteError(w, http.StatusBadRequest, vErr.Error())
		return
	}
	h.Logger.Error("API", fmt.Sprintf("%s: failed: %v", op, err))
	utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
}

// RegisterCourse handles POST /api/register.
func (h *Handler) RegisterCourse(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("RegisterCourse: failed to decode request body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.OrderService.RegisterCourse(req)
	if err != nil {
		h.writeIntakeError(w, "RegisterCourse", err)
		return
	}
	utils.WriteSuccess(w, resp)
}

// RegisterMasterclass handles POST /api/masterclass.
func (h *Handler) RegisterMasterclass(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("RegisterMasterclass: failed to decode request body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.OrderService.RegisterMasterclass(req)
	if err != nil {
		h.writeIntakeError(w, "RegisterMasterclass", err)
		return
	}
	utils.WriteSuccess(w, resp)
}

// BookConsultation handles POST /api/book.
func (h *Handler) BookConsultation(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Error("API", fmt.Sprintf("BookConsultation: failed to decode request body: %v", err))
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.OrderService.BookConsultation(req)
	if err != nil {
		h.writeIntakeError(w, "BookConsultation", err)
		return
	}
	utils.WriteSuccess(w, resp)
}

// GetOrder handles GET /api/orders/{orderId}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	o, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetOrder: lookup failed: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if o == nil {
		utils.WriteError(w, http.StatusNotFound, "Order not found")
		return
	}
	utils.WriteSuccess(w, o)
}

// ListOrders handles the admin listings for each kind, e.g.
// GET /api/admin/orders/course.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	kind := models.OrderKind(chi.URLParam(r, "kind"))
	switch kind {
	case models.KindCourse, models.KindMasterclass, models.KindConsultation:
	default:
		utils.WriteError(w, http.StatusBadRequest, "Unknown order kind")
		return
	}

	orders, stats, err := h.OrderService.ListOrders(kind)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: failed for kind %s: %v", kind, err))
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.WriteSuccess(w, map[string]interface{}{
		"orders": orders,
		"stats":  stats,
	})
}

// StripeWebhook handles POST /api/webhooks/stripe. Stripe expects a 2xx
// acknowledgement; anything else triggers a retry.
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.OrderService.HandleStripeWebhook(r); err != nil {
		var webhookErr *order.WebhookError
		if errors.As(err, &webhookErr) {
			h.Logger.Error("API", fmt.Sprintf("StripeWebhook: category=%s status=%d: %v",
				webhookErr.Category, webhookErr.StatusCode, err))
			http.Error(w, webhookErr.PublicError, webhookErr.StatusCode)
			return
		}
		h.Logger.Error("API", fmt.Sprintf("StripeWebhook: failed to process webhook: %v", err))
		http.Error(w, "Webhook processing error", http.StatusBadRequest)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
