package model

import (
	"time"

	authormodel "buxta-backend/internal/domains/author/model"
	categorymodel "buxta-backend/internal/domains/category/model"
	publishermodel "buxta-backend/internal/domains/publisher/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const (
	FormatHardcover = "hardcover"
	FormatPaperback = "paperback"
	FormatEbook     = "ebook"
	FormatAudiobook = "audiobook"

	ConditionNew        = "new"
	ConditionLikeNew    = "like_new"
	ConditionGood       = "good"
	ConditionAcceptable = "acceptable"

	DefaultLanguage          = "English"
	DefaultLowStockThreshold = 5
)

type Book struct {
	ID                uuid.UUID        `json:"id"`
	Title             string           `json:"title"`
	Slug              string           `json:"slug"`
	Subtitle          string           `json:"subtitle"`
	ISBN10            *string          `json:"isbn_10"`
	ISBN13            *string          `json:"isbn_13"`
	PublisherID       *uuid.UUID       `json:"publisher_id"`
	Description       string           `json:"description"`
	Excerpt           string           `json:"excerpt"`
	TableOfContents   string           `json:"table_of_contents"`
	Format            string           `json:"format"`
	Pages             *int             `json:"pages"`
	Language          string           `json:"language"`
	Dimensions        string           `json:"dimensions"`
	Weight            *decimal.Decimal `json:"weight"`
	PublicationDate   *time.Time       `json:"publication_date"`
	Edition           string           `json:"edition"`
	Price             decimal.Decimal  `json:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compare_at_price"`
	CostPrice         *decimal.Decimal `json:"cost_price,omitempty"`
	StockQuantity     int              `json:"stock_quantity"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	Condition         string           `json:"condition"`
	MetaTitle         string           `json:"meta_title"`
	MetaDescription   string           `json:"meta_description"`
	MetaKeywords      pq.StringArray   `json:"meta_keywords"`
	IsActive          bool             `json:"is_active"`
	IsFeatured        bool             `json:"is_featured"`
	IsBestseller      bool             `json:"is_bestseller"`
	IsNewArrival      bool             `json:"is_new_arrival"`
	IsOnSale          bool             `json:"is_on_sale"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`

	Authors         []authormodel.AuthorSummary       `json:"authors"`
	Categories      []categorymodel.CategorySummary   `json:"categories"`
	Publisher       *publishermodel.PublisherSummary  `json:"publisher,omitempty"`
	PrimaryImageURL string                            `json:"primary_image_url"`
	AverageRating   float64                           `json:"average_rating"`
	ReviewCount     int                               `json:"review_count"`

	IsInStock          bool `json:"is_in_stock"`
	IsLowStock         bool `json:"is_low_stock"`
	DiscountPercentage int  `json:"discount_percentage"`
}

// Derive fills the computed stock and discount fields
func (b *Book) Derive() {
	b.IsInStock = b.StockQuantity > 0
	b.IsLowStock = b.StockQuantity <= b.LowStockThreshold
	b.DiscountPercentage = DiscountPercentage(b.Price, b.CompareAtPrice)
}

// DiscountPercentage is the rounded saving against compare_at_price, 0 when there is none
func DiscountPercentage(price decimal.Decimal, compareAt *decimal.Decimal) int {
	if compareAt == nil || !compareAt.GreaterThan(price) {
		return 0
	}
	pct := compareAt.Sub(price).Div(*compareAt).Mul(decimal.NewFromInt(100)).Round(0)
	return int(pct.IntPart())
}

type BookImage struct {
	ID           uuid.UUID `json:"id"`
	BookID       uuid.UUID `json:"book_id"`
	ImageURL     string    `json:"image_url"`
	ObjectKey    string    `json:"-"`
	ThumbnailURL string    `json:"thumbnail_url"`
	MediumURL    string    `json:"medium_url"`
	LargeURL     string    `json:"large_url"`
	AltText      string    `json:"alt_text"`
	IsPrimary    bool      `json:"is_primary"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// ObjectPrefix groups the original and every variant of an image in storage
func ObjectPrefix(bookID, imageID uuid.UUID) string {
	return "books/" + bookID.String() + "/" + imageID.String()
}

func BookPrefix(bookID uuid.UUID) string {
	return "books/" + bookID.String() + "/"
}

// BookReview is an approved review shown on the book page
type BookReview struct {
	ID                 uuid.UUID `json:"id"`
	Rating             int       `json:"rating"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	CustomerName       string    `json:"customer_name"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	CreatedAt          time.Time `json:"created_at"`
}

type BookDetail struct {
	Book
	Images  []BookImage  `json:"images"`
	Reviews []BookReview `json:"reviews"`
	Related []Book       `json:"related_books,omitempty"`
}

// AdminStats mirrors the counters shown above the admin book list
type AdminStats struct {
	ActiveBooks int `json:"active_books_count"`
	LowStock    int `json:"low_stock_count"`
	OutOfStock  int `json:"out_of_stock_count"`
}

type HomePage struct {
	FeaturedBooks []Book `json:"featured_books"`
}

type ShopPage struct {
	Books           []Book                   `json:"books"`
	Total           int                      `json:"-"`
	Categories      []categorymodel.Category `json:"categories"`
	CurrentCategory *categorymodel.Category  `json:"current_category,omitempty"`
	Search          string                   `json:"search_query"`
}
