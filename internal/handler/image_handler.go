package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/elvinq/carbazar/internal/service"
	"github.com/elvinq/carbazar/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ImageHandler struct {
	imageService *service.ImageService
}

func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
	}
}

type ReorderRequest struct {
	ImageIDs []uint `json:"image_ids" binding:"required"`
}

// Upload accepts a multipart batch under the "files" field and stores each
// image for the listing.
// POST /api/cars/:id/images
func (h *ImageHandler) Upload(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	carID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}

	headers := form.File["files"]
	files := make([]service.UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}()

	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
			return
		}
		opened = append(opened, src)
		files = append(files, service.UploadFile{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Reader:      src,
		})
	}

	images, err := h.imageService.Upload(carID, actor, files)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Log.Info("Images uploaded via API",
		zap.Uint("car_id", carID),
		zap.Int("count", len(headers)),
	)

	c.JSON(http.StatusOK, gin.H{
		"carId":  carID,
		"images": images,
	})
}

// SetMain flags one image as the listing's main image.
// PUT /api/cars/:id/images/:imageId/main
func (h *ImageHandler) SetMain(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	carID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}
	imageID, ok := uintParam(c, "imageId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image id"})
		return
	}

	if err := h.imageService.SetMain(carID, imageID, actor); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete removes one image; the lowest-ordered survivor inherits the main
// flag when needed.
// DELETE /api/cars/:id/images/:imageId
func (h *ImageHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	carID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}
	imageID, ok := uintParam(c, "imageId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image id"})
		return
	}

	if err := h.imageService.Delete(carID, imageID, actor); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Reorder assigns display order by position in the submitted id list.
// PUT /api/cars/:id/images/reorder
func (h *ImageHandler) Reorder(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	carID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.imageService.Reorder(carID, actor, req.ImageIDs); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
