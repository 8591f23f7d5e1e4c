package model

import (
	"time"

	"github.com/google/uuid"
)

type Publisher struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Website     string    `json:"website"`
	Email       string    `json:"email"`
	FoundedYear *int      `json:"founded_year,omitempty"`
	BookCount   int       `json:"book_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Stats struct {
	Total          int        `json:"total_publishers"`
	WithBooks      int        `json:"publishers_with_books"`
	WithoutBooks   int        `json:"publishers_without_books"`
	MostProductive *Publisher `json:"most_productive,omitempty"`
}

// PublisherSummary is the compact form embedded in book payloads
type PublisherSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
