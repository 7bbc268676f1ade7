package order

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"workerbull/internal/logger"
	"workerbull/internal/models"
)

// StripeCheckout creates hosted checkout sessions through the Stripe API.
type StripeCheckout struct {
	client  *client.API
	baseURL string
	log     *logger.Logger
}

func NewStripeCheckout(secretKey, baseURL string, log *logger.Logger) (*StripeCheckout, error) {
	if secretKey == "" {
		log.Error("STRIPE", "Stripe secret key is not configured")
		return nil, fmt.Errorf("stripe secret key is not configured")
	}
	sc := client.New(secretKey, nil)
	log.Info("STRIPE", "Stripe client initialized successfully")
	return &StripeCheckout{client: sc, baseURL: baseURL, log: log}, nil
}

func productName(kind models.OrderKind) string {
	switch kind {
	case models.KindCourse:
		return "AI Course Registration"
	case models.KindMasterclass:
		return "Live Masterclass"
	default:
		return "Consultation Booking"
	}
}

// CreateSession opens a hosted checkout session for the order. Amounts are
// stored in whole dollars and converted to cents here.
func (c *StripeCheckout) CreateSession(o models.Order) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String("usd"),
					UnitAmount: stripe.Int64(o.Amount * 100),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(productName(o.Kind)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(o.Email),
		SuccessURL:    stripe.String(fmt.Sprintf("%s/payment/success?session_id={CHECKOUT_SESSION_ID}", c.baseURL)),
		CancelURL:     stripe.String(fmt.Sprintf("%s/payment/cancelled", c.baseURL)),
		Metadata: map[string]string{
			"order_id": o.ID,
			"kind":     string(o.Kind),
			"coupon":   o.Coupon,
		},
	}

	session, err := c.client.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe session creation failed: %w", err)
	}
	return session.ID, nil
}

// eventVerifier decodes and authenticates a raw webhook payload. Swappable
// in tests so reconciliation logic can be exercised without real signatures.
type eventVerifier func(payload []byte, sigHeader, secret string) (stripe.Event, error)

func verifyStripeEvent(payload []byte, sigHeader, secret string) (stripe.Event, error) {
	opts := webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	}
	return webhook.ConstructEventWithOptions(payload, sigHeader, secret, opts)
}

// SetEventVerifier overrides webhook verification so reconciliation can be
// driven with pre-built events.
func (s *Service) SetEventVerifier(v func(payload []byte, sigHeader, secret string) (stripe.Event, error)) {
	s.verifyEvent = v
}

// WebhookError carries an HTTP status and a client-safe message alongside
// the detailed internal error.
type WebhookError struct {
	Category      string // "configuration", "validation", "processing"
	StatusCode    int
	PublicError   string
	InternalError string
	OriginalErr   error
}

func (e *WebhookError) Error() string {
	return e.InternalError
}

// HandleStripeWebhook verifies and reconciles one Stripe event. The store is
// never touched before the signature check passes.
func (s *Service) HandleStripeWebhook(r *http.Request) error {
	if s.webhookSecret == "" {
		s.Logger.Error("WEBHOOK", "Stripe webhook secret is not configured")
		return &WebhookError{
			Category:      "configuration",
			StatusCode:    http.StatusInternalServerError,
			PublicError:   "Webhook processing error",
			InternalError: "Stripe webhook secret is not configured",
		}
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.Logger.Error("WEBHOOK", fmt.Sprintf("Failed to read webhook payload: %v", err))
		return &WebhookError{
			Category:      "validation",
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid webhook payload",
			InternalError: fmt.Sprintf("Failed to read webhook payload: %v", err),
			OriginalErr:   err,
		}
	}

	event, err := s.verifyEvent(payload, r.Header.Get("Stripe-Signature"), s.webhookSecret)
	if err != nil {
		s.Logger.Error("WEBHOOK", fmt.Sprintf("Webhook signature verification failed: %v", err))
		return &WebhookError{
			Category:      "validation",
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Webhook signature verification failed",
			InternalError: fmt.Sprintf("Webhook signature verification failed: %v", err),
			OriginalErr:   err,
		}
	}

	s.Logger.LogWebhook(string(event.Type), "processing Stripe webhook event")

	switch event.Type {
	case "checkout.session.completed":
		session, werr := decodeSession(event)
		if werr != nil {
			s.Logger.Error("WEBHOOK", werr.InternalError)
			return werr
		}
		return s.completeOrder(session.ID)

	case "checkout.session.expired":
		session, werr := decodeSession(event)
		if werr != nil {
			s.Logger.Error("WEBHOOK", werr.InternalError)
			return werr
		}
		return s.expireOrder(session.ID)

	default:
		s.Logger.Info("WEBHOOK", fmt.Sprintf("Unhandled event type: %s", event.Type))
	}

	return nil
}

func decodeSession(event stripe.Event) (*stripe.CheckoutSession, *WebhookError) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, &WebhookError{
			Category:      "processing",
			StatusCode:    http.StatusBadRequest,
			PublicError:   "Invalid event data",
			InternalError: fmt.Sprintf("Failed to unmarshal checkout session: %v", err),
			OriginalErr:   err,
		}
	}
	return &session, nil
}

// completeOrder marks the matching order paid and sends the confirmation.
// Unknown sessions and already-completed orders are acknowledged without
// side effects so Stripe's retries stay harmless.
func (s *Service) completeOrder(sessionID string) error {
	o, err := s.DB.GetOrderBySessionID(sessionID)
	if err != nil {
		s.Logger.Error("WEBHOOK", fmt.Sprintf("Order lookup failed for session %s: %v", sessionID, err))
		return &WebhookError{
			Category:      "processing",
			StatusCode:    http.StatusInternalServerError,
			PublicError:   "Failed to process payment",
			InternalError: fmt.Sprintf("Order lookup failed for session %s: %v", sessionID, err),
			OriginalErr:   err,
		}
	}
	if o == nil {
		s.Logger.Warn("WEBHOOK", fmt.Sprintf("No order found for session %s, acknowledging", sessionID))
		return nil
	}
	if o.PaymentStatus == models.PaymentCompleted {
		s.Logger.Info("WEBHOOK", fmt.Sprintf("Order %s already completed, skipping", o.ID))
		return nil
	}

	o.PaymentStatus = models.PaymentCompleted
	o.UpdatedAt = time.Now()
	if err := s.DB.UpdateOrder(*o); err != nil {
		s.Logger.Error("WEBHOOK", fmt.Sprintf("Failed to complete order %s: %v", o.ID, err))
		return &WebhookError{
			Category:      "processing",
			StatusCode:    http.StatusInternalServerError,
			PublicError:   "Failed to process payment",
			InternalError: fmt.Sprintf("Failed to complete order %s: %v", o.ID, err),
			OriginalErr:   err,
		}
	}

	s.Logger.LogOrder("COMPLETE", o.ID, fmt.Sprintf("%s payment completed for session %s", o.Kind, sessionID))
	s.publishEvent(EventPaymentCompleted, *o)
	s.sendConfirmation(*o)
	return nil
}

// expireOrder handles an abandoned checkout session. Completed orders are
// never touched; an expiry racing a completion loses.
func (s *Service) expireOrder(sessionID string) error {
	o, err := s.DB.GetOrderBySessionID(sessionID)
	if err != nil {
		s.Logger.Error("WEBHOOK", fmt.Sprintf("Order lookup failed for session %s: %v", sessionID, err))
		return &WebhookError{
			Category:      "processing",
			StatusCode:    http.StatusInternalServerError,
			PublicError:   "Failed to process expiry",
			InternalError: fmt.Sprintf("Order lookup failed for session %s: %v", sessionID, err),
			OriginalErr:   err,
		}
	}
	if o == nil {
		s.Logger.Warn("WEBHOOK", fmt.Sprintf("No order found for expired session %s, acknowledging", sessionID))
		return nil
	}
	if o.PaymentStatus == models.PaymentCompleted {
		s.Logger.Info("WEBHOOK", fmt.Sprintf("Order %s already completed, ignoring expiry", o.ID))
		return nil
	}

	// The customer can retry, so payment stays pending. A consultation
	// releases its slot by cancelling the booking.
	o.PaymentStatus = models.PaymentPending
	if o.Kind == models.KindConsultation {
		o.Status = models.BookingCancelled
	}
	o.UpdatedAt = time.Now()
	if err := s.DB.UpdateOrder(*o); err != nil {
		s.Logger.Error("WEBHOOK", fmt.Sprintf("Failed to expire order %s: %v", o.ID, err))
		return &WebhookError{
			Category:      "processing",
			StatusCode:    http.StatusInternalServerError,
			PublicError:   "Failed to process expiry",
			InternalError: fmt.Sprintf("Failed to expire order %s: %v", o.ID, err),
			OriginalErr:   err,
		}
	}

	s.Logger.LogOrder("EXPIRE", o.ID, fmt.Sprintf("checkout session %s expired", sessionID))
	s.publishEvent(EventPaymentExpired, *o)
	return nil
}
