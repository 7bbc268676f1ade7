package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"workerbull/internal/logger"
	"workerbull/internal/models"
	"workerbull/internal/notify"
)

const (
	coursePrice      int64 = 497
	masterclassPrice int64 = 750
)

var consultationPrices = map[string]int64{
	"30 minutes": 97,
	"60 minutes": 197,
	"90 minutes": 297,
}

type DBLayer interface {
	CreateOrder(order models.Order) error
	UpdateOrder(order models.Order) error
	GetOrderByID(id string) (*models.Order, error)
	GetOrderBySessionID(sessionID string) (*models.Order, error)
	GetBookingBySlot(date, timeSlot string) (*models.Order, error)
	ListOrdersByKind(kind models.OrderKind, limit int) ([]models.Order, error)
	GetOrderStats(kind models.OrderKind) (*models.OrderStats, error)
	ListOrphanedPendingOrders(olderThan time.Time) ([]models.Order, error)
}

// Checkout creates a hosted payment session for an order and returns the
// provider's session reference.
type Checkout interface {
	CreateSession(order models.Order) (string, error)
}

type Mailer interface {
	Send(to, subject, html string) error
}

type Publisher interface {
	Publish(topic string, key string, value []byte) error
}

type Service struct {
	DB       DBLayer
	Checkout Checkout
	Mailer   Mailer
	Events   Publisher
	Logger   *logger.Logger

	// webhookSecret is required before any webhook event is trusted.
	webhookSecret string
	verifyEvent   eventVerifier
}

func NewService(db DBLayer, checkout Checkout, mailer Mailer, events Publisher, webhookSecret string, log *logger.Logger) *Service {
	return &Service{
		DB:            db,
		Checkout:      checkout,
		Mailer:        mailer,
		Events:        events,
		Logger:        log,
		webhookSecret: webhookSecret,
		verifyEvent:   verifyStripeEvent,
	}
}

// RegisterCourse handles course-registration intake: validate, price, insert
// a pending order, open a checkout session and attach its reference.
func (s *Service) RegisterCourse(req models.RegistrationRequest) (*models.IntakeResponse, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	o := models.Order{
		ID:              uuid.NewString(),
		Kind:            models.KindCourse,
		Name:            req.Name,
		Email:           strings.ToLower(req.Email),
		Phone:           req.Phone,
		Coupon:          req.Coupon,
		Amount:          applyCoupon(coursePrice, req.Coupon),
		PaymentStatus:   models.PaymentPending,
		CourseStartDate: NextCourseStartDate(time.Now()),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	return s.openCheckout(o)
}

// RegisterMasterclass is the masterclass twin of RegisterCourse.
func (s *Service) RegisterMasterclass(req models.RegistrationRequest) (*models.IntakeResponse, error) {
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	o := models.Order{
		ID:              uuid.NewString(),
		Kind:            models.KindMasterclass,
		Name:            req.Name,
		Email:           strings.ToLower(req.Email),
		Phone:           req.Phone,
		Coupon:          req.Coupon,
		Amount:          applyCoupon(masterclassPrice, req.Coupon),
		PaymentStatus:   models.PaymentPending,
		MasterclassDate: NextMasterclassDate(time.Now()),
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	return s.openCheckout(o)
}

// BookConsultation validates the slot, prices by duration, and either opens a
// checkout session (paid) or confirms immediately (free).
func (s *Service) BookConsultation(req models.BookingRequest) (*models.IntakeResponse, error) {
	if err := validateBooking(req); err != nil {
		return nil, err
	}

	// Best-effort slot check; the check-then-insert window is accepted
	// rather than paying for a lock.
	existing, err := s.DB.GetBookingBySlot(req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("slot lookup failed: %w", err)
	}
	if existing != nil {
		return nil, &ValidationError{msg: "This time slot is already booked"}
	}

	duration := req.Duration
	if duration == "" {
		duration = "30 minutes"
	}

	var amount int64
	if req.ConsultationType == models.ConsultationPaid {
		amount = applyCoupon(consultationPrice(duration), req.Coupon)
	}

	o := models.Order{
		ID:               uuid.NewString(),
		Kind:             models.KindConsultation,
		Name:             req.Name,
		Email:            strings.ToLower(req.Email),
		Phone:            req.Phone,
		Coupon:           req.Coupon,
		Amount:           amount,
		ConsultationType: req.ConsultationType,
		SlotDate:         req.Date,
		SlotTime:         req.Time,
		Duration:         duration,
		Topic:            req.Topic,
		Description:      req.Description,
		Status:           models.BookingScheduled,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if req.ConsultationType == models.ConsultationFree {
		o.PaymentStatus = models.PaymentNotRequired
		if err := s.DB.CreateOrder(o); err != nil {
			return nil, fmt.Errorf("failed to create booking: %w", err)
		}
		s.publishEvent(EventOrderCreated, o)
		s.sendConfirmation(o)
		return &models.IntakeResponse{
			Success: true,
			OrderID: o.ID,
			Message: "Free consultation booked successfully",
		}, nil
	}

	o.PaymentStatus = models.PaymentPending
	return s.openCheckout(o)
}

// openCheckout inserts the pending order, requests a hosted checkout session
// and persists the session reference. A session failure leaves the pending
// order orphaned; the sweep picks it up later.
func (s *Service) openCheckout(o models.Order) (*models.IntakeResponse, error) {
	if err := s.DB.CreateOrder(o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	s.publishEvent(EventOrderCreated, o)

	sessionID, err := s.Checkout.CreateSession(o)
	if err != nil {
		s.Logger.Error("CHECKOUT", fmt.Sprintf("session creation failed for order %s: %v", o.ID, err))
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	o.StripeSessionID = sessionID
	o.UpdatedAt = time.Now()
	if err := s.DB.UpdateOrder(o); err != nil {
		return nil, fmt.Errorf("failed to attach session to order %s: %w", o.ID, err)
	}

	s.Logger.LogOrder("INTAKE", o.ID, fmt.Sprintf("%s order pending, session %s, amount %d", o.Kind, sessionID, o.Amount))

	return &models.IntakeResponse{
		Success:   true,
		OrderID:   o.ID,
		SessionID: sessionID,
	}, nil
}

func (s *Service) GetOrder(id string) (*models.Order, error) {
	return s.DB.GetOrderByID(id)
}

// ListOrders returns the newest orders of a kind plus its stats block for the
// admin dashboard.
func (s *Service) ListOrders(kind models.OrderKind) ([]models.Order, *models.OrderStats, error) {
	orders, err := s.DB.ListOrdersByKind(kind, 100)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.DB.GetOrderStats(kind)
	if err != nil {
		return nil, nil, err
	}
	return orders, stats, nil
}

// StartOrphanSweep marks pending orders that never obtained a checkout
// session as failed once they exceed maxAge. Runs until ctx is cancelled.
func (s *Service) StartOrphanSweep(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweepOrphans(maxAge)
			}
		}
	}()
}

func (s *Service) sweepOrphans(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)
	orphans, err := s.DB.ListOrphanedPendingOrders(cutoff)
	if err != nil {
		s.Logger.Error("SWEEP", fmt.Sprintf("orphan query failed: %v", err))
		return
	}
	for _, o := range orphans {
		o.PaymentStatus = models.PaymentFailed
		o.UpdatedAt = time.Now()
		if err := s.DB.UpdateOrder(o); err != nil {
			s.Logger.Error("SWEEP", fmt.Sprintf("failed to mark orphan %s: %v", o.ID, err))
			continue
		}
		s.Logger.Warn("SWEEP", fmt.Sprintf("order %s (%s) had no checkout session after %s, marked failed", o.ID, o.Kind, maxAge))
	}
}

func applyCoupon(amount int64, coupon string) int64 {
	if coupon == "" {
		return amount
	}
	// Flat 10% regardless of the coupon's own discount field.
	return (amount*9 + 5) / 10
}

func consultationPrice(duration string) int64 {
	if price, ok := consultationPrices[duration]; ok {
		return price
	}
	return consultationPrices["30 minutes"]
}

// sendConfirmation emails the kind-appropriate confirmation. Failures are
// logged and never surfaced to the order flow.
func (s *Service) sendConfirmation(o models.Order) {
	var subject, html string
	var err error

	switch o.Kind {
	case models.KindCourse:
		subject, html = notify.CourseConfirmation(o.Name, FormatDateWithOrdinal(o.CourseStartDate))
	case models.KindMasterclass:
		subject, html, err = notify.MasterclassConfirmation(o.Name, o.ID, o.MasterclassDate)
		if err != nil {
			s.Logger.Error("EMAIL", fmt.Sprintf("failed to build masterclass confirmation for order %s: %v", o.ID, err))
			return
		}
	case models.KindConsultation:
		subject, html = notify.BookingConfirmation(o.Name, notify.BookingDetails{
			Date:     o.SlotDate,
			Time:     o.SlotTime,
			Duration: o.Duration,
			Topic:    o.Topic,
			Type:     o.ConsultationType,
		})
	default:
		s.Logger.Warn("EMAIL", fmt.Sprintf("no confirmation template for order kind %q", o.Kind))
		return
	}

	if err := s.Mailer.Send(o.Email, subject, html); err != nil {
		s.Logger.Error("EMAIL", fmt.Sprintf("confirmation send failed for order %s: %v", o.ID, err))
		return
	}
	s.Logger.LogEmail(o.Email, subject, "confirmation sent")
}

func (s *Service) publishEvent(eventType string, o models.Order) {
	if s.Events == nil {
		return
	}
	event := models.OrderEvent{
		Type:      eventType,
		OrderID:   o.ID,
		Kind:      o.Kind,
		Email:     o.Email,
		Amount:    o.Amount,
		Timestamp: time.Now(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to marshal %s event: %v", eventType, err))
		return
	}
	if err := s.Events.Publish(topicFor(eventType), o.ID, value); err != nil {
		s.Logger.Error("KAFKA", fmt.Sprintf("failed to publish %s for order %s: %v", eventType, o.ID, err))
	}
}
