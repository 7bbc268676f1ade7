package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"workerbull/internal/logger"
	"workerbull/internal/models"
	"workerbull/internal/order"
	"workerbull/internal/order/api"
)

// stubDB implements order.DBLayer with function fields so each test wires
// only what it needs.
type stubDB struct {
	createOrder  func(models.Order) error
	updateOrder  func(models.Order) error
	bySessionID  func(string) (*models.Order, error)
	byID         func(string) (*models.Order, error)
	bookingSlot  func(string, string) (*models.Order, error)
	listByKind   func(models.OrderKind, int) ([]models.Order, error)
	stats        func(models.OrderKind) (*models.OrderStats, error)
	listOrphaned func(time.Time) ([]models.Order, error)
}

func (s *stubDB) CreateOrder(o models.Order) error {
	if s.createOrder != nil {
		return s.createOrder(o)
	}
	return nil
}

func (s *stubDB) UpdateOrder(o models.Order) error {
	if s.updateOrder != nil {
		return s.updateOrder(o)
	}
	return nil
}

func (s *stubDB) GetOrderByID(id string) (*models.Order, error) {
	if s.byID != nil {
		return s.byID(id)
	}
	return nil, nil
}

func (s *stubDB) GetOrderBySessionID(sessionID string) (*models.Order, error) {
	if s.bySessionID != nil {
		return s.bySessionID(sessionID)
	}
	return nil, nil
}

func (s *stubDB) GetBookingBySlot(date, timeSlot string) (*models.Order, error) {
	if s.bookingSlot != nil {
		return s.bookingSlot(date, timeSlot)
	}
	return nil, nil
}

func (s *stubDB) ListOrdersByKind(kind models.OrderKind, limit int) ([]models.Order, error) {
	if s.listByKind != nil {
		return s.listByKind(kind, limit)
	}
	return []models.Order{}, nil
}

func (s *stubDB) GetOrderStats(kind models.OrderKind) (*models.OrderStats, error) {
	if s.stats != nil {
		return s.stats(kind)
	}
	return &models.OrderStats{}, nil
}

func (s *stubDB) ListOrphanedPendingOrders(olderThan time.Time) ([]models.Order, error) {
	if s.listOrphaned != nil {
		return s.listOrphaned(olderThan)
	}
	return nil, nil
}

type stubCheckout struct {
	sessionID string
	err       error
}

func (s *stubCheckout) CreateSession(o models.Order) (string, error) {
	return s.sessionID, s.err
}

type stubMailer struct{}

func (s *stubMailer) Send(to, subject, html string) error { return nil }

func newHandler(db *stubDB, checkout *stubCheckout) (*api.Handler, *order.Service) {
	log := logger.NewLogger()
	svc := order.NewService(db, checkout, &stubMailer{}, nil, "whsec_test", log)
	return api.NewHandler(svc, log), svc
}

func TestRegisterCourse_ReturnsSessionID(t *testing.T) {
	h, _ := newHandler(&stubDB{}, &stubCheckout{sessionID: "cs_handler"})

	body, _ := json.Marshal(models.RegistrationRequest{
		Name:  "Jordan Miles",
		Email: "jordan@example.com",
		Phone: "555-123-4567",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.RegisterCourse(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.IntakeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "cs_handler", resp.SessionID)
}

func TestRegisterCourse_ValidationFailureIs400(t *testing.T) {
	h, _ := newHandler(&stubDB{}, &stubCheckout{sessionID: "cs"})

	body, _ := json.Marshal(models.RegistrationRequest{Name: "X", Email: "bad", Phone: "555-123-4567"})
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.RegisterCourse(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterCourse_StoreFailureIs500(t *testing.T) {
	db := &stubDB{createOrder: func(models.Order) error { return errors.New("insert failed") }}
	h, _ := newHandler(db, &stubCheckout{sessionID: "cs"})

	body, _ := json.Marshal(models.RegistrationRequest{
		Name:  "Jordan Miles",
		Email: "jordan@example.com",
		Phone: "555-123-4567",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.RegisterCourse(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStripeWebhook_AcknowledgesWithReceivedTrue(t *testing.T) {
	completed := &models.Order{
		ID:              "order-1",
		Kind:            models.KindCourse,
		PaymentStatus:   models.PaymentCompleted,
		StripeSessionID: "cs_done",
	}
	db := &stubDB{bySessionID: func(string) (*models.Order, error) { return completed, nil }}
	h, svc := newHandler(db, &stubCheckout{})
	svc.SetEventVerifier(func(payload []byte, sigHeader, secret string) (stripe.Event, error) {
		raw, _ := json.Marshal(map[string]string{"id": "cs_done"})
		return stripe.Event{Type: "checkout.session.completed", Data: &stripe.EventData{Raw: raw}}, nil
	})

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.StripeWebhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp["received"])
}

func TestStripeWebhook_SignatureFailureIs400(t *testing.T) {
	h, svc := newHandler(&stubDB{}, &stubCheckout{})
	svc.SetEventVerifier(func(payload []byte, sigHeader, secret string) (stripe.Event, error) {
		return stripe.Event{}, errors.New("bad signature")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	h.StripeWebhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_NotFoundIs404(t *testing.T) {
	h, _ := newHandler(&stubDB{}, &stubCheckout{})

	r := chi.NewRouter()
	r.Get("/api/orders/{orderId}", h.GetOrder)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrders_RejectsUnknownKind(t *testing.T) {
	h, _ := newHandler(&stubDB{}, &stubCheckout{})

	r := chi.NewRouter()
	r.Get("/api/admin/orders/{kind}", h.ListOrders)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders/widgets", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
