package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Coupon is an affiliate discount code. Codes are stored uppercase and are
// immutable after creation. The Discount field is informational for the
// coupon owner; order pricing applies a flat 10% for any recognized code.
type Coupon struct {
	bun.BaseModel `bun:"table:coupons"`

	ID        string    `bun:"id,pk" json:"id"`
	OwnerID   string    `bun:"owner_id" json:"owner_id"`
	FirstName string    `bun:"first_name" json:"firstName"`
	LastName  string    `bun:"last_name" json:"lastName"`
	Email     string    `bun:"email" json:"email"`
	Code      string    `bun:"code" json:"coupon"`
	Discount  int       `bun:"discount" json:"discount"`
	CreatedAt time.Time `bun:"created_at" json:"createdAt"`
}

type CouponCreateRequest struct {
	OwnerID   string `json:"owner_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Code      string `json:"coupon"`
	Discount  int    `json:"discount"`
}
