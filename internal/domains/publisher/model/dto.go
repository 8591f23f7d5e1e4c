package model

import (
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const MinFoundedYear = 1000

// PublisherInput is shared by create and update
type PublisherInput struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Website     string `json:"website"`
	Email       string `json:"email"`
	FoundedYear *int   `json:"founded_year"`
}

// Normalize trims fields and prefixes a scheme-less website with https://
func (in *PublisherInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Email = strings.TrimSpace(in.Email)
	in.Website = strings.TrimSpace(in.Website)
	if in.Website != "" && !strings.HasPrefix(in.Website, "http://") && !strings.HasPrefix(in.Website, "https://") {
		in.Website = "https://" + in.Website
	}
}

func (in PublisherInput) Validate(now time.Time) error {
	currentYear := now.Year()
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name,
			validation.Required.Error("Publisher name is required"),
			validation.RuneLength(0, 200),
		),
		validation.Field(&in.Email, is.EmailFormat.Error("Please enter a valid email address")),
		validation.Field(&in.Website, is.URL.Error("Please enter a valid URL")),
		validation.Field(&in.FoundedYear,
			validation.Min(MinFoundedYear).Error(fmt.Sprintf("Please enter a valid founding year (%d-%d)", MinFoundedYear, currentYear)),
			validation.Max(currentYear).Error(fmt.Sprintf("Please enter a valid founding year (%d-%d)", MinFoundedYear, currentYear)),
		),
	)
}

type ListFilter struct {
	Search string
	Page   int
	Limit  int
}
