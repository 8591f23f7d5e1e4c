package model

import (
	"strings"
	"time"

	"buxta-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// AuthorInput is shared by create and update
type AuthorInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	BirthDate string `json:"birth_date"`
	DeathDate string `json:"death_date"`
	PhotoURL  string `json:"photo_url"`
	Website   string `json:"website"`
}

func (in *AuthorInput) Normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Bio = strings.TrimSpace(in.Bio)
	in.Website = strings.TrimSpace(in.Website)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
}

func (in AuthorInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.FirstName,
			validation.Required.Error("First name is required"),
			validation.RuneLength(0, 100),
		),
		validation.Field(&in.LastName,
			validation.Required.Error("Last name is required"),
			validation.RuneLength(0, 100),
		),
		validation.Field(&in.BirthDate, validation.Date(utils.DateLayout).Error("Please enter a valid birth date (YYYY-MM-DD)")),
		validation.Field(&in.DeathDate,
			validation.Date(utils.DateLayout).Error("Please enter a valid death date (YYYY-MM-DD)"),
			validation.By(in.deathAfterBirth),
		),
		validation.Field(&in.Website, is.URL.Error("Please enter a valid URL")),
		validation.Field(&in.PhotoURL, is.URL.Error("Please enter a valid URL")),
	)
}

func (in AuthorInput) deathAfterBirth(interface{}) error {
	birth, err1 := time.Parse(utils.DateLayout, in.BirthDate)
	death, err2 := time.Parse(utils.DateLayout, in.DeathDate)
	if err1 != nil || err2 != nil {
		return nil
	}
	if !death.After(birth) {
		return validation.NewError("validation_death_date", "Death date must be after birth date")
	}
	return nil
}

type ListFilter struct {
	Search string
	Page   int
	Limit  int
}
