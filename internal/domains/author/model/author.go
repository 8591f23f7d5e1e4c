package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Author struct {
	ID        uuid.UUID  `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	FullName  string     `json:"full_name"`
	Bio       string     `json:"bio"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	DeathDate *time.Time `json:"death_date,omitempty"`
	PhotoURL  string     `json:"photo_url"`
	Website   string     `json:"website"`
	BookCount int        `json:"book_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (a *Author) SetFullName() {
	a.FullName = strings.TrimSpace(a.FirstName + " " + a.LastName)
}

type Stats struct {
	Total          int     `json:"total_authors"`
	WithBooks      int     `json:"authors_with_books"`
	WithoutBooks   int     `json:"authors_without_books"`
	MostProductive *Author `json:"most_productive,omitempty"`
}

// AuthorSummary is the compact form embedded in book payloads
type AuthorSummary struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
}
