package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"buxta-backend/internal/shared/apperror"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func render(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, 3, NewMeta(1, 20, 41).TotalPages)
	assert.Equal(t, 0, NewMeta(1, 20, 0).TotalPages)
	assert.Equal(t, 1, NewMeta(1, 20, 20).TotalPages)
}

func TestHandleErrorAppError(t *testing.T) {
	err := fmt.Errorf("wrap: %w", apperror.Conflict("DUP", "Already exists"))
	w, body := render(t, func(c *gin.Context) { HandleError(c, err) })

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Already exists", body.Message)
	assert.Equal(t, "DUP", body.Code)
}

func TestHandleErrorValidation(t *testing.T) {
	err := validation.Errors{
		"title": errors.New("Title is required"),
		"price": errors.New("Valid price is required"),
	}
	w, body := render(t, func(c *gin.Context) { HandleError(c, err) })

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "price", body.Errors[0].Field)
	assert.Equal(t, "Title is required", body.Errors[1].Message)
}

func TestHandleErrorHidesInternals(t *testing.T) {
	w, body := render(t, func(c *gin.Context) { HandleError(c, errors.New("pq: connection refused")) })

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, body.Message, "pq")
}
