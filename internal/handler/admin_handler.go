package handler

import (
	"net/http"
	"strconv"

	"github.com/elvinq/carbazar/internal/service"
	"github.com/elvinq/carbazar/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// BlockUser toggles a user's block flag. The block query param defaults to
// true, so a bare call blocks and ?block=false unblocks.
// PUT /api/admin/users/:id/block?block=
func (h *AdminHandler) BlockUser(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	userID, ok := uintParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	blocked, err := strconv.ParseBool(c.DefaultQuery("block", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid block value"})
		return
	}

	logger.Log.Info("Admin updating user block flag",
		zap.Uint("admin_id", actor.ID),
		zap.Uint("target_user_id", userID),
		zap.Bool("blocked", blocked),
	)

	if err := h.adminService.SetUserBlocked(actor.ID, userID, blocked); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// SetCarActive toggles a listing's active flag, for takedown and
// reinstatement. The active query param defaults to true.
// PUT /api/admin/cars/:id/active?active=
func (h *AdminHandler) SetCarActive(c *gin.Context) {
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

	active, err := strconv.ParseBool(c.DefaultQuery("active", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid active value"})
		return
	}

	logger.Log.Info("Admin updating car active flag",
		zap.Uint("admin_id", actor.ID),
		zap.Uint("car_id", carID),
		zap.Bool("active", active),
	)

	if err := h.adminService.SetCarActive(actor.ID, carID, active); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetAllCars lists every listing for moderation review, inactive ones
// included unless ?active= filters them.
// GET /api/admin/cars?active=
func (h *AdminHandler) GetAllCars(c *gin.Context) {
	var active *bool
	if raw, exists := c.GetQuery("active"); exists {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid active value"})
			return
		}
		active = &v
	}

	cars, err := h.adminService.ListCars(active)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": cars})
}
