package model

import (
	"regexp"
	"strings"

	"buxta-backend/internal/shared/utils"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	isbn10Pattern = regexp.MustCompile(`^\d{9}[\dX]$`)
	isbn13Pattern = regexp.MustCompile(`^\d{13}$`)
)

// BookInput is the one validator used by both create and update
type BookInput struct {
	Title             string           `json:"title"`
	Subtitle          string           `json:"subtitle"`
	ISBN10            string           `json:"isbn_10"`
	ISBN13            string           `json:"isbn_13"`
	Description       string           `json:"description"`
	Excerpt           string           `json:"excerpt"`
	TableOfContents   string           `json:"table_of_contents"`
	AuthorIDs         []uuid.UUID      `json:"authors"`
	CategoryIDs       []uuid.UUID      `json:"categories"`
	PublisherID       *uuid.UUID       `json:"publisher"`
	Format            string           `json:"format"`
	Condition         string           `json:"condition"`
	Pages             *int             `json:"pages"`
	Language          string           `json:"language"`
	Dimensions        string           `json:"dimensions"`
	Weight            *decimal.Decimal `json:"weight"`
	PublicationDate   string           `json:"publication_date"`
	Edition           string           `json:"edition"`
	Price             *decimal.Decimal `json:"price"`
	CompareAtPrice    *decimal.Decimal `json:"compare_at_price"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	StockQuantity     int              `json:"stock_quantity"`
	LowStockThreshold *int             `json:"low_stock_threshold"`
	MetaTitle         string           `json:"meta_title"`
	MetaDescription   string           `json:"meta_description"`
	MetaKeywords      []string         `json:"meta_keywords"`
	IsActive          *bool            `json:"is_active"`
	IsFeatured        bool             `json:"is_featured"`
	IsBestseller      bool             `json:"is_bestseller"`
	IsNewArrival      bool             `json:"is_new_arrival"`
	IsOnSale          bool             `json:"is_on_sale"`
}

// Normalize trims text and fills defaults
func (in *BookInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	in.ISBN10 = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(in.ISBN10), "-", ""))
	in.ISBN13 = strings.ReplaceAll(strings.TrimSpace(in.ISBN13), "-", "")
	in.Description = strings.TrimSpace(in.Description)
	in.Language = strings.TrimSpace(in.Language)
	if in.Language == "" {
		in.Language = DefaultLanguage
	}
	if in.Format == "" {
		in.Format = FormatPaperback
	}
	if in.Condition == "" {
		in.Condition = ConditionNew
	}
	in.AuthorIDs = dedupe(in.AuthorIDs)
	in.CategoryIDs = dedupe(in.CategoryIDs)
}

func (in BookInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("Title is required"),
			validation.RuneLength(0, 300),
		),
		validation.Field(&in.Description, validation.Required.Error("Description is required")),
		validation.Field(&in.AuthorIDs, validation.Required.Error("At least one author is required")),
		validation.Field(&in.CategoryIDs, validation.Required.Error("At least one category is required")),
		validation.Field(&in.Price, validation.By(positiveDecimal("Valid price is required", true))),
		validation.Field(&in.CompareAtPrice, validation.By(positiveDecimal("Compare-at price must be greater than zero", false))),
		validation.Field(&in.CostPrice, validation.By(positiveDecimal("Cost price must be greater than zero", false))),
		validation.Field(&in.ISBN10, validation.Match(isbn10Pattern).Error("ISBN-10 must be 10 characters")),
		validation.Field(&in.ISBN13, validation.Match(isbn13Pattern).Error("ISBN-13 must be 13 digits")),
		validation.Field(&in.Format, validation.In(FormatHardcover, FormatPaperback, FormatEbook, FormatAudiobook).Error("Invalid format")),
		validation.Field(&in.Condition, validation.In(ConditionNew, ConditionLikeNew, ConditionGood, ConditionAcceptable).Error("Invalid condition")),
		validation.Field(&in.Pages, validation.Min(1).Error("Pages must be a positive number")),
		validation.Field(&in.StockQuantity, validation.Min(0).Error("Stock quantity cannot be negative")),
		validation.Field(&in.LowStockThreshold, validation.Min(0).Error("Low stock threshold cannot be negative")),
		validation.Field(&in.PublicationDate, validation.Date(utils.DateLayout).Error("Please enter a valid publication date (YYYY-MM-DD)")),
		validation.Field(&in.MetaTitle, validation.RuneLength(0, 200)),
	)
}

func positiveDecimal(message string, required bool) validation.RuleFunc {
	return func(value interface{}) error {
		d, _ := value.(*decimal.Decimal)
		if d == nil {
			if required {
				return validation.NewError("validation_decimal", message)
			}
			return nil
		}
		if !d.IsPositive() {
			return validation.NewError("validation_decimal", message)
		}
		return nil
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// Admin list status filter values
const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusLowStock   = "low_stock"
	StatusOutOfStock = "out_of_stock"
)

type AdminListFilter struct {
	Search     string
	CategoryID *uuid.UUID
	Status     string
	Page       int
	Limit      int
}

type ShopFilter struct {
	CategoryID *uuid.UUID
	Search     string
	Page       int
	Limit      int
}

// UploadFile is one image received by the admin upload endpoint
type UploadFile struct {
	Filename string
	Data     []byte
	IsCover  bool
}
