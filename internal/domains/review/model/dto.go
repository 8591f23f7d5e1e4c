package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type ReviewInput struct {
	Rating  int    `json:"rating"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (in *ReviewInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
}

func (in ReviewInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Rating,
			validation.Required.Error("Rating must be between 1 and 5"),
			validation.Min(1).Error("Rating must be between 1 and 5"),
			validation.Max(5).Error("Rating must be between 1 and 5"),
		),
		validation.Field(&in.Title, validation.RuneLength(0, 200).Error("Title must be at most 200 characters")),
		validation.Field(&in.Content, validation.Required.Error("Review content is required")),
	)
}

type ActionRequest struct {
	Action string `json:"action"`
}

type BulkActionRequest struct {
	Action    string      `json:"action"`
	ReviewIDs []uuid.UUID `json:"review_ids"`
}

// ActionResult is returned by a single moderation action
type ActionResult struct {
	Message    string `json:"-"`
	IsVerified *bool  `json:"is_verified,omitempty"`
}
