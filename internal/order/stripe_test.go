package order_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v82"

	"workerbull/internal/logger"
	"workerbull/internal/models"
	"workerbull/internal/order"
)

func webhookRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	return req
}

func sessionEvent(eventType, sessionID string) stripe.Event {
	raw, _ := json.Marshal(map[string]string{"id": sessionID})
	return stripe.Event{
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func stubVerifier(event stripe.Event) func([]byte, string, string) (stripe.Event, error) {
	return func(payload []byte, sigHeader, secret string) (stripe.Event, error) {
		return event, nil
	}
}

func TestWebhook_SignatureFailureNeverTouchesStore(t *testing.T) {
	db := new(MockDBLayer)
	svc := newTestService(db, new(MockCheckout), new(MockMailer))
	svc.SetEventVerifier(func(payload []byte, sigHeader, secret string) (stripe.Event, error) {
		return stripe.Event{}, errors.New("signature mismatch")
	})

	err := svc.HandleStripeWebhook(webhookRequest())

	var webhookErr *order.WebhookError
	assert.ErrorAs(t, err, &webhookErr)
	assert.Equal(t, http.StatusBadRequest, webhookErr.StatusCode)
	assert.Equal(t, "validation", webhookErr.Category)
	db.AssertNotCalled(t, "GetOrderBySessionID", mock.Anything)
	db.AssertNotCalled(t, "UpdateOrder", mock.Anything)
}

func TestWebhook_MissingSecretFailsClosed(t *testing.T) {
	db := new(MockDBLayer)
	svc := order.NewService(db, new(MockCheckout), new(MockMailer), nil, "", logger.NewLogger())

	err := svc.HandleStripeWebhook(webhookRequest())

	var webhookErr *order.WebhookError
	assert.ErrorAs(t, err, &webhookErr)
	assert.Equal(t, "configuration", webhookErr.Category)
	assert.Equal(t, http.StatusInternalServerError, webhookErr.StatusCode)
	db.AssertNotCalled(t, "GetOrderBySessionID", mock.Anything)
}

func TestWebhook_CompletionMarksOrderPaidAndSendsEmail(t *testing.T) {
	db := new(MockDBLayer)
	mailer := new(MockMailer)
	svc := newTestService(db, new(MockCheckout), mailer)
	svc.SetEventVerifier(stubVerifier(sessionEvent("checkout.session.completed", "cs_done")))

	pending := &models.Order{
		ID:              "order-1",
		Kind:            models.KindCourse,
		Name:            "Jordan Miles",
		Email:           "jordan@example.com",
		Amount:          497,
		PaymentStatus:   models.PaymentPending,
		StripeSessionID: "cs_done",
	}
	db.On("GetOrderBySessionID", "cs_done").Return(pending, nil)
	db.On("UpdateOrder", mock.MatchedBy(func(o models.Order) bool {
		return o.ID == "order-1" && o.PaymentStatus == models.PaymentCompleted
	})).Return(nil)
	mailer.On("Send", "jordan@example.com", mock.Anything, mock.Anything).Return(nil)

	err := svc.HandleStripeWebhook(webhookRequest())

	assert.NoError(t, err)
	db.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestWebhook_DuplicateCompletionIsNoOp(t *testing.T) {
	db := new(MockDBLayer)
	mailer := new(MockMailer)
	svc := newTestService(db, new(MockCheckout), mailer)
	svc.SetEventVerifier(stubVerifier(sessionEvent("checkout.session.completed", "cs_done")))

	completed := &models.Order{
		ID:              "order-1",
		Kind:            models.KindCourse,
		Email:           "jordan@example.com",
		PaymentStatus:   models.PaymentCompleted,
		StripeSessionID: "cs_done",
	}
	db.On("GetOrderBySessionID", "cs_done").Return(completed, nil)

	err := svc.HandleStripeWebhook(webhookRequest())

	assert.NoError(t, err)
	db.AssertNotCalled(t, "UpdateOrder", mock.Anything)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhook_UnknownSessionIsAcknowledged(t *testing.T) {
	db := new(MockDBLayer)
	svc := newTestService(db, new(MockCheckout), new(MockMailer))
	svc.SetEventVerifier(stubVerifier(sessionEvent("checkout.session.completed", "cs_unknown")))

	db.On("GetOrderBySessionID", "cs_unknown").Return(nil, nil)

	err := svc.HandleStripeWebhook(webhookRequest())

	assert.NoError(t, err)
	db.AssertNotCalled(t, "UpdateOrder", mock.Anything)
}

func TestWebhook_ExpiryCancelsConsultationBooking(t *testing.T) {
	db := new(MockDBLayer)
	mailer := new(MockMailer)
	svc := newTestService(db, new(MockCheckout), mailer)
	svc.SetEventVerifier(stubVerifier(sessionEvent("checkout.session.expired", "cs_gone")))

	booking := &models.Order{
		ID:              "order-2",
		Kind:            models.KindConsultation,
		Email:           "jordan@example.com",
		PaymentStatus:   models.PaymentPending,
		Status:          models.BookingScheduled,
		StripeSessionID: "cs_gone",
	}
	db.On("GetOrderBySessionID", "cs_gone").Return(booking, nil)
	db.On("UpdateOrder", mock.MatchedBy(func(o models.Order) bool {
		return o.Status == models.BookingCancelled && o.PaymentStatus == models.PaymentPending
	})).Return(nil)

	err := svc.HandleStripeWebhook(webhookRequest())

	assert.NoError(t, err)
	db.AssertExpectations(t)
	mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhook_ExpiryKeepsRegistrationPending(t *testing.T) {
	db := new(MockDBLayer)
	svc := newTestService(db, new(MockCheckout), new(MockMailer))
	svc.SetEventVerifier(stubVerifier(sessionEvent("checkout.session.expired", "cs_gone")))

	registration := &models.Order{
		ID:              "order-3",
		Kind:            models.KindMasterclass,
		Email:           "jordan@example.com",
		PaymentStatus:   models.PaymentPending,
		StripeSessionID: "cs_gone",
	}
	db.On("GetOrderBySessionID", "cs_gone").Return(registration, nil)
	db.On("UpdateOrder", mock.MatchedBy(func(o models.Order) bool {
		return o.PaymentStatus == models.PaymentPending && o.Status == models.BookingStatus("")
	})).Return(nil)

	err := svc.HandleStripeWebhook(webhookRequest())

	assert.NoError(t, err)
	db.AssertExpectations(t)
}

func TestWebhook_ExpiryNeverDowngradesCompletedOrder(t *testing.T) {
	db := new(MockDBLayer)
	svc := newTestService(db, new(MockCheckout), new(MockMailer))
	svc.SetEventVerifier(stubVerifier(sessionEvent("checkout.session.expired", "cs_done")))

	completed := &models.Order{
		ID:              "order-4",
		Kind:            models.KindCourse,
		PaymentStatus:   models.PaymentCompleted,
		StripeSessionID: "cs_done",
	}
	db.On("GetOrderBySessionID", "cs_done").Return(completed, nil)

	err := svc.HandleStripeWebhook(webhookRequest())

	assert.NoError(t, err)
	db.AssertNotCalled(t, "UpdateOrder", mock.Anything)
}

func TestWebhook_UnhandledEventTypeIsIgnored(t *testing.T) {
	db := new(MockDBLayer)
	svc := newTestService(db, new(MockCheckout), new(MockMailer))
	svc.SetEventVerifier(stubVerifier(stripe.Event{Type: "invoice.paid", Data: &stripe.EventData{Raw: []byte(`{}`)}}))

	err := svc.HandleStripeWebhook(webhookRequest())

	assert.NoError(t, err)
	db.AssertNotCalled(t, "GetOrderBySessionID", mock.Anything)
}

func TestWebhook_LookupErrorSurfacesAsProcessingError(t *testing.T) {
	db := new(MockDBLayer)
	svc := newTestService(db, new(MockCheckout), new(MockMailer))
	svc.SetEventVerifier(stubVerifier(sessionEvent("checkout.session.completed", "cs_err")))

	db.On("GetOrderBySessionID", "cs_err").Return(nil, fmt.Errorf("db unavailable"))

	err := svc.HandleStripeWebhook(webhookRequest())

	var webhookErr *order.WebhookError
	assert.ErrorAs(t, err, &webhookErr)
	assert.Equal(t, "processing", webhookErr.Category)
	assert.Equal(t, http.StatusInternalServerError, webhookErr.StatusCode)
}
