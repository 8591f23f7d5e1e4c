package model

import (
	"strings"

	"buxta-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type ProfileInput struct {
	Phone                  string `json:"phone"`
	BirthDate              string `json:"birth_date"`
	NewsletterSubscription bool   `json:"newsletter_subscription"`
}

func (in *ProfileInput) Normalize() {
	in.Phone = strings.TrimSpace(in.Phone)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
}

func (in ProfileInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Phone, validation.RuneLength(0, 20).Error("Phone number is too long")),
		validation.Field(&in.BirthDate, validation.Date(utils.DateLayout).Error("Please enter a valid birth date (YYYY-MM-DD)")),
	)
}

// AddressInput validates both address creation and edits
type AddressInput struct {
	AddressType  string `json:"address_type"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Company      string `json:"company"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
	IsDefault    bool   `json:"is_default"`
}

func (in *AddressInput) Normalize() {
	for _, f := range []*string{
		&in.AddressType, &in.FirstName, &in.LastName, &in.Company, &in.AddressLine1,
		&in.AddressLine2, &in.City, &in.State, &in.PostalCode, &in.Country, &in.Phone,
	} {
		*f = strings.TrimSpace(*f)
	}
	in.AddressType = strings.ToLower(in.AddressType)
	if in.AddressType == "" {
		in.AddressType = AddressShipping
	}
	if in.Country == "" {
		in.Country = DefaultCountry
	}
}

func (in AddressInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.AddressType, validation.In(AddressShipping, AddressBilling, AddressBoth).Error("Invalid address type")),
		validation.Field(&in.FirstName, validation.Required.Error("First name is required"), validation.RuneLength(0, 100)),
		validation.Field(&in.LastName, validation.Required.Error("Last name is required"), validation.RuneLength(0, 100)),
		validation.Field(&in.AddressLine1, validation.Required.Error("Address is required"), validation.RuneLength(0, 255)),
		validation.Field(&in.City, validation.Required.Error("City is required")),
		validation.Field(&in.State, validation.Required.Error("State is required")),
		validation.Field(&in.PostalCode, validation.Required.Error("Postal code is required"), validation.RuneLength(0, 20)),
		validation.Field(&in.Phone, validation.RuneLength(0, 20)),
	)
}

type WishlistInput struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

func (in *WishlistInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		in.Name = DefaultWishlistName
	}
}

func (in WishlistInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.RuneLength(0, 100).Error("Wishlist name is too long")),
	)
}
