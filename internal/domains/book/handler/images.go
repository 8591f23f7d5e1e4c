package handler

import (
	"io"
	"mime/multipart"
	"net/http"

	"buxta-backend/internal/domains/book/model"
	"buxta-backend/internal/domains/book/service"
	"buxta-backend/internal/infrastructure/storage"
	"buxta-backend/internal/shared/response"
	"buxta-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

// maxUploadMemory bounds the multipart form kept in memory, larger parts spill to disk
const maxUploadMemory = 32 << 20

type ImageHandler struct {
	service service.ImageService
}

func NewImageHandler(service service.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

// List handles GET /admin/books/:id/images
func (h *ImageHandler) List(c *gin.Context) {
	bookID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	images, err := h.service.List(c.Request.Context(), bookID)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", images)
}

// Upload handles POST /admin/books/:id/images (multipart: images[], cover)
func (h *ImageHandler) Upload(c *gin.Context) {
	bookID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		response.BadRequest(c, "Invalid multipart form")
		return
	}
	form := c.Request.MultipartForm

	var files []model.UploadFile
	if covers := form.File["cover"]; len(covers) > 0 {
		f, err := readUpload(covers[0], true)
		if err != nil {
			response.HandleError(c, err)
			return
		}
		files = append(files, f)
	}
	for _, fh := range form.File["images"] {
		f, err := readUpload(fh, false)
		if err != nil {
			response.HandleError(c, err)
			return
		}
		files = append(files, f)
	}

	images, err := h.service.Upload(c.Request.Context(), bookID, files)
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Images uploaded successfully", images)
}

func readUpload(fh *multipart.FileHeader, cover bool) (model.UploadFile, error) {
	if fh.Size > storage.DefaultMaxImageSize {
		return model.UploadFile{}, model.ErrInvalidImage.WithMessage("%s: Image size must be less than 5MB", fh.Filename)
	}
	src, err := fh.Open()
	if err != nil {
		return model.UploadFile{}, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return model.UploadFile{}, err
	}
	return model.UploadFile{Filename: fh.Filename, Data: data, IsCover: cover}, nil
}

// SetPrimary handles POST /admin/books/:id/images/:image_id/primary
func (h *ImageHandler) SetPrimary(c *gin.Context) {
	bookID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	imageID, err := utils.ParseUUIDParam(c, "image_id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.SetPrimary(c.Request.Context(), bookID, imageID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Primary image updated", nil)
}

// Delete handles DELETE /admin/books/:id/images/:image_id
func (h *ImageHandler) Delete(c *gin.Context) {
	bookID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.HandleError(c, err)
		return
	}
	imageID, err := utils.ParseUUIDParam(c, "image_id")
	if err != nil {
		response.HandleError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), bookID, imageID); err != nil {
		response.HandleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Image deleted successfully", nil)
}
