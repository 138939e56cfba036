package submission

import (
	"net/http"

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
	api.GET("/dashboard", h.dashboard)
	api.GET("/history", h.history)
	api.POST("/submit-today", h.submitToday)
	api.POST("/submit-product/:id", h.submitProduct)
}

func (h *Handler) dashboard(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	view, err := h.svc.Dashboard(c.Request.Context(), claims.UserID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) history(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	rows, err := h.svc.History(c.Request.Context(), claims.UserID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) submitToday(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	result, err := h.svc.SubmitAllToday(c.Request.Context(), claims.UserID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) submitProduct(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	result, err := h.svc.SubmitOne(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
