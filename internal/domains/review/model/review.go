package model

import (
	"time"

	"github.com/google/uuid"
)

// Moderation actions accepted by the admin endpoints
const (
	ActionApprove        = "approve"
	ActionReject         = "reject"
	ActionDelete         = "delete"
	ActionToggleVerified = "toggle_verified"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusVerified = "verified"
)

type Review struct {
	ID                 uuid.UUID `json:"id"`
	BookID             uuid.UUID `json:"book_id"`
	CustomerID         uuid.UUID `json:"customer_id"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	IsApproved         bool      `json:"is_approved"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	BookTitle    string `json:"book_title,omitempty"`
	BookSlug     string `json:"book_slug,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}

type Stats struct {
	Total         int     `json:"total_reviews"`
	Pending       int     `json:"pending_reviews"`
	Approved      int     `json:"approved_reviews"`
	Verified      int     `json:"verified_reviews"`
	AverageRating float64 `json:"avg_rating"`
}

type ListFilter struct {
	Status string
	Rating int
	Search string
	Page   int
	Limit  int
}
