package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Page is a CMS-managed content page served by slug.
type Page struct {
	bun.BaseModel `bun:"table:pages"`

	ID              string    `bun:"id,pk" json:"id"`
	Title           string    `bun:"title" json:"title"`
	Slug            string    `bun:"slug" json:"slug"`
	Content         string    `bun:"content" json:"content"`
	MetaDescription string    `bun:"meta_description" json:"metaDescription,omitempty"`
	Published       bool      `bun:"published" json:"isPublished"`
	LastEditedBy    string    `bun:"last_edited_by" json:"lastEditedBy,omitempty"`
	CreatedAt       time.Time `bun:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `bun:"updated_at" json:"updatedAt"`
}

type PageRequest struct {
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Content         string `json:"content"`
	MetaDescription string `json:"metaDescription"`
	Published       bool   `json:"isPublished"`
}
