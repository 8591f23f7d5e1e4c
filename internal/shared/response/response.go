package response

import (
	"errors"
	"net/http"
	"sort"

	"buxta-backend/internal/shared/apperror"
	"buxta-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Code    string       `json:"code,omitempty"`
	Meta    *Meta        `json:"meta,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewMeta(page, limit, total int) *Meta {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Meta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, message string, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, statusCode int, message string, code string) {
	c.AbortWithStatusJSON(statusCode, Response{
		Success: false,
		Message: message,
		Code:    code,
	})
}

func ValidationError(c *gin.Context, errs []FieldError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Success: false,
		Message: "Validation failed",
		Code:    "VALIDATION_ERROR",
		Errors:  errs,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message, "BAD_REQUEST")
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, "NOT_FOUND")
}

// HandleError renders any error returned by a service.
// Internal failures are logged and replaced by a generic message.
func HandleError(c *gin.Context, err error) {
	if fields, ok := FieldErrors(err); ok {
		ValidationError(c, fields)
		return
	}
	if e, ok := apperror.From(err); ok {
		Error(c, e.Status, e.Message, e.Code)
		return
	}

	logger.Error("Unhandled error", err)
	Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again.", "INTERNAL_ERROR")
}

// FieldErrors flattens ozzo validation errors into a list sorted by field name.
func FieldErrors(err error) ([]FieldError, bool) {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	fields := make([]FieldError, 0, len(verrs))
	for field, ferr := range verrs {
		if nested, ok := ferr.(validation.Errors); ok {
			sub, _ := FieldErrors(nested)
			for _, s := range sub {
				fields = append(fields, FieldError{Field: field + "." + s.Field, Message: s.Message})
			}
			continue
		}
		fields = append(fields, FieldError{Field: field, Message: ferr.Error()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return fields, true
}
