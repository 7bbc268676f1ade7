package models

import (
	"time"

	"github.com/uptrace/bun"
)

type OrderKind string

const (
	KindCourse       OrderKind = "course"
	KindMasterclass  OrderKind = "masterclass"
	KindConsultation OrderKind = "consultation"
)

type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentCompleted   PaymentStatus = "completed"
	PaymentFailed      PaymentStatus = "failed"
	PaymentRefunded    PaymentStatus = "refunded"
	PaymentNotRequired PaymentStatus = "not_required"
)

type BookingStatus string

const (
	BookingScheduled BookingStatus = "scheduled"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
	BookingNoShow    BookingStatus = "no_show"
)

const (
	ConsultationFree = "free"
	ConsultationPaid = "paid"
)

// Order is a single checkout attempt for any of the three products.
// Kind-specific columns are left zero for the kinds that don't use them.
// StripeSessionID is the correlation key for webhook reconciliation and is
// empty until the checkout session has been created.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID              string        `bun:"id,pk" json:"id"`
	Kind            OrderKind     `bun:"kind" json:"kind"`
	Name            string        `bun:"name" json:"name"`
	Email           string        `bun:"email" json:"email"`
	Phone           string        `bun:"phone" json:"phone"`
	Coupon          string        `bun:"coupon" json:"coupon,omitempty"`
	Amount          int64         `bun:"amount" json:"amount"`
	PaymentStatus   PaymentStatus `bun:"payment_status" json:"paymentStatus"`
	StripeSessionID string        `bun:"stripe_session_id" json:"stripeSessionId,omitempty"`

	// Course / masterclass scheduling.
	CourseStartDate time.Time `bun:"course_start_date,nullzero" json:"courseStartDate,omitempty"`
	MasterclassDate time.Time `bun:"masterclass_date,nullzero" json:"masterclassDate,omitempty"`

	// Consultation bookings.
	ConsultationType string        `bun:"consultation_type" json:"consultationType,omitempty"`
	SlotDate         string        `bun:"slot_date" json:"date,omitempty"`
	SlotTime         string        `bun:"slot_time" json:"time,omitempty"`
	Duration         string        `bun:"duration" json:"duration,omitempty"`
	Topic            string        `bun:"topic" json:"topic,omitempty"`
	Description      string        `bun:"description" json:"description,omitempty"`
	Status           BookingStatus `bun:"status" json:"status,omitempty"`
	MeetingLink      string        `bun:"meeting_link" json:"meetingLink,omitempty"`
	Notes            string        `bun:"notes" json:"notes,omitempty"`

	CreatedAt time.Time `bun:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at" json:"updatedAt"`
}

// RegistrationRequest is the intake payload for both course and masterclass
// registrations.
type RegistrationRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Coupon string `json:"coupon"`
}

type BookingRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	ConsultationType string `json:"consultationType"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Duration         string `json:"duration"`
	Topic            string `json:"topic"`
	Description      string `json:"description"`
	Coupon           string `json:"coupon"`
}

// IntakeResponse is returned by all three intake handlers. SessionID is set
// on the paid path (the caller redirects to hosted checkout); Message on the
// free path.
type IntakeResponse struct {
	Success   bool   `json:"success"`
	OrderID   string `json:"orderId"`
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message,omitempty"`
}

// OrderStats backs the admin listing endpoints.
type OrderStats struct {
	Total        int   `json:"total"`
	Completed    int   `json:"completed"`
	Pending      int   `json:"pending"`
	TotalRevenue int64 `json:"totalRevenue"`
}

// OrderEvent is the Kafka payload for order lifecycle events.
type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	Kind      OrderKind `json:"kind"`
	Email     string    `json:"email"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}
