package assignment

import (
	"net/http"

	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/middleware"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(r *gin.Engine, auth *middleware.Auth, h *Handler) {
	admin := r.Group("/api/admin", auth.Required(), auth.AdminOnly())
	admin.POST("/trigger-assignment", h.trigger)
	admin.POST("/assign-products", h.assignProducts)
	admin.POST("/assign-product-to-user", h.assignToUser)
}

func (h *Handler) trigger(c *gin.Context) {
	result, err := h.svc.AssignDailyTasks(c.Request.Context(), nil)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) assignProducts(c *gin.Context) {
	var req struct {
		ProductIDs []string `json:"product_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	result, err := h.svc.AssignDailyTasks(c.Request.Context(), req.ProductIDs)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) assignToUser(c *gin.Context) {
	var req struct {
		UserID      string           `json:"user_id"`
		ProductID   string           `json:"product_id"`
		ManualBonus decimal.Decimal  `json:"manual_bonus"`
		CustomPrice *decimal.Decimal `json:"custom_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	if req.UserID == "" || req.ProductID == "" {
		middleware.Abort(c, errutil.ValidationFailed("user_id and product_id are required", nil))
		return
	}
	row, err := h.svc.AssignSingleTask(c.Request.Context(), req.UserID, req.ProductID, req.ManualBonus, req.CustomPrice)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}
