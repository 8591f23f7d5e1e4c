package model

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// CategoryInput is shared by create and update
type CategoryInput struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	ParentID    *uuid.UUID `json:"parent_id"`
	IsActive    *bool      `json:"is_active"`
}

func (in *CategoryInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
}

func (in CategoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("Category name is required"),
			validation.RuneLength(0, 100).Error("Category name must be at most 100 characters"),
		),
		validation.Field(&in.ImageURL, is.URL.Error("Please enter a valid URL")),
	)
}

type ListFilter struct {
	Search string
	Page   int
	Limit  int
}
