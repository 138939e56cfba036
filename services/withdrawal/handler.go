package withdrawal

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
	api := r.Group("/api", auth.Required())
	api.POST("/withdraw-request", h.request)
	api.GET("/withdrawals", h.listMine)

	admin := api.Group("/admin", auth.AdminOnly())
	admin.GET("/withdrawals", h.list)
	admin.POST("/withdrawals/:id/approve", h.approve)
	admin.POST("/withdrawals/:id/reject", h.reject)
}

func (h *Handler) request(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req struct {
		Amount        decimal.Decimal `json:"amount"`
		WalletAddress string          `json:"wallet_address"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	row, err := h.svc.Request(c.Request.Context(), claims.UserID, req.Amount, req.WalletAddress)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) listMine(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	rows, err := h.svc.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) list(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context())
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) approve(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req)
	row, err := h.svc.Approve(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) reject(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&req)
	row, err := h.svc.Reject(c.Request.Context(), c.Param("id"), req.Notes)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}
