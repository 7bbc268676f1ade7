package models

import (
	"time"

	"github.com/uptrace/bun"
)

// WaitlistEntry holds one waitlist signup. Email is unique and lowercased.
type WaitlistEntry struct {
	bun.BaseModel `bun:"table:waitlist"`

	ID        string    `bun:"id,pk" json:"id"`
	Name      string    `bun:"name" json:"name"`
	Email     string    `bun:"email" json:"email"`
	Phone     string    `bun:"phone" json:"phone,omitempty"`
	Source    string    `bun:"source" json:"source"`
	CreatedAt time.Time `bun:"created_at" json:"createdAt"`
}

type ContactStatus string

const (
	ContactNew     ContactStatus = "new"
	ContactRead    ContactStatus = "read"
	ContactReplied ContactStatus = "replied"
)

type ContactMessage struct {
	bun.BaseModel `bun:"table:contact_messages"`

	ID        string        `bun:"id,pk" json:"id"`
	Name      string        `bun:"name" json:"name"`
	Email     string        `bun:"email" json:"email"`
	Subject   string        `bun:"subject" json:"subject"`
	Message   string        `bun:"message" json:"message"`
	Status    ContactStatus `bun:"status" json:"status"`
	CreatedAt time.Time     `bun:"created_at" json:"createdAt"`
}

type AffiliateStatus string

const (
	AffiliatePending  AffiliateStatus = "pending"
	AffiliateApproved AffiliateStatus = "approved"
	AffiliateRejected AffiliateStatus = "rejected"
)

type AffiliateRequest struct {
	bun.BaseModel `bun:"table:affiliate_requests"`

	ID        string          `bun:"id,pk" json:"id"`
	OwnerID   string          `bun:"owner_id" json:"owner_id"`
	FirstName string          `bun:"first_name" json:"firstName"`
	LastName  string          `bun:"last_name" json:"lastName"`
	Email     string          `bun:"email" json:"email"`
	Reason    string          `bun:"reason" json:"reason"`
	Status    AffiliateStatus `bun:"status" json:"status"`
	CreatedAt time.Time       `bun:"created_at" json:"createdAt"`
}
