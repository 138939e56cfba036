package admin

import (
	"net/http"
	"strconv"

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
	r.GET("/api/health", h.health)

	admin := r.Group("/api/admin", auth.Required(), auth.AdminOnly())
	admin.GET("/stats", h.stats)
	admin.GET("/negative-balances", h.negativeBalances)
	admin.GET("/balance-events", h.balanceEvents)
}

func (h *Handler) health(c *gin.Context) {
	if err := h.svc.Healthy(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) negativeBalances(c *gin.Context) {
	rows, err := h.svc.NegativeBalances(c.Request.Context())
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) balanceEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.svc.BalanceEvents(c.Request.Context(), c.Query("user_id"), limit)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
