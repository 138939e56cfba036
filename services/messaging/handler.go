package messaging

import (
	"net/http"

	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/middleware"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(r *gin.Engine, auth *middleware.Auth, h *Handler) {
	api := r.Group("/api", auth.Required())
	api.GET("/popups", h.popups)
	api.POST("/popup/:id/click", h.click)
	api.GET("/notifications", h.notifications)
	api.POST("/notifications/:id/read", h.markRead)

	admin := api.Group("/admin", auth.AdminOnly())
	admin.POST("/popup", h.sendPopup)
	admin.POST("/notify", h.sendNotification)
	admin.GET("/voucher-clicks", h.voucherClicks)
}

func (h *Handler) popups(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	rows, err := h.svc.PendingPopups(c.Request.Context(), claims.UserID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) click(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	isVoucher, err := h.svc.ClickPopup(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Popup clicked", "is_voucher": isVoucher})
}

func (h *Handler) notifications(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	rows, err := h.svc.UnreadNotifications(c.Request.Context(), claims.UserID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) markRead(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	if err := h.svc.MarkRead(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification read"})
}

func (h *Handler) sendPopup(c *gin.Context) {
	var req PopupInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	row, err := h.svc.SendPopup(c.Request.Context(), req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) sendNotification(c *gin.Context) {
	var req struct {
		UserID  string `json:"user_id"`
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	row, err := h.svc.SendNotification(c.Request.Context(), req.UserID, req.Title, req.Message)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) voucherClicks(c *gin.Context) {
	rows, err := h.svc.VoucherClicks(c.Request.Context())
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
