package handler

import (
	"net/http"

	"github.com/elvinq/carbazar/internal/service"
	"github.com/elvinq/carbazar/internal/utils"
	"github.com/elvinq/carbazar/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CarHandler struct {
	carService *service.CarService
}

func NewCarHandler(carService *service.CarService) *CarHandler {
	return &CarHandler{
		carService: carService,
	}
}

// GetAll returns one page of active listings, newest first.
// GET /api/cars?page=&pageSize=
func (h *CarHandler) GetAll(c *gin.Context) {
	p := utils.GetPaginationParams(c)

	page, err := h.carService.List(p.Page, p.PageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    page.Total,
		"page":     page.Page,
		"pageSize": page.PageSize,
		"items":    page.Items,
	})
}

// GetByID returns one active listing with its images and features.
// GET /api/cars/:id
func (h *CarHandler) GetByID(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	car, err := h.carService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, car)
}

// Create stores a new listing owned by the caller.
// POST /api/cars
func (h *CarHandler) Create(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var input service.CarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	car, err := h.carService.Create(actor, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.Log.Info("Listing created via API",
		zap.Uint("car_id", car.ID),
		zap.Uint("user_id", actor.ID),
	)

	c.JSON(http.StatusCreated, gin.H{"id": car.ID})
}

// Update replaces the listing's fields and its whole feature set.
// PUT /api/cars/:id
func (h *CarHandler) Update(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	var input service.CarInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.carService.Update(id, actor, input); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete soft-deletes the listing.
// DELETE /api/cars/:id
func (h *CarHandler) Delete(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	id, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing id"})
		return
	}

	if err := h.carService.SoftDelete(id, actor); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
