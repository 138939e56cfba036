package settings

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
	admin.GET("/level-settings", h.listLevelSettings)
	admin.POST("/level-settings", h.replaceLevelSettings)
	admin.GET("/commission-rates", h.listCommissionRates)
	admin.POST("/commission-rates", h.replaceCommissionRates)
}

func (h *Handler) listLevelSettings(c *gin.Context) {
	rows, err := h.svc.ListLevelSettings(c.Request.Context())
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) replaceLevelSettings(c *gin.Context) {
	var rows []LevelSetting
	if err := c.ShouldBindJSON(&rows); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	for _, row := range rows {
		if row.Level < 1 {
			middleware.Abort(c, errutil.ValidationFailed("Level must be positive", nil))
			return
		}
	}
	if err := h.svc.ReplaceLevelSettings(c.Request.Context(), rows); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Level settings updated"})
}

func (h *Handler) listCommissionRates(c *gin.Context) {
	rows, err := h.svc.ListCommissionRates(c.Request.Context())
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) replaceCommissionRates(c *gin.Context) {
	var rows []CommissionRate
	if err := c.ShouldBindJSON(&rows); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	for _, row := range rows {
		if row.Level < 1 || row.Rate.LessThan(decimal.Zero) {
			middleware.Abort(c, errutil.ValidationFailed("Invalid commission rate", nil))
			return
		}
	}
	if err := h.svc.ReplaceCommissionRates(c.Request.Context(), rows); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Commission rates updated"})
}
