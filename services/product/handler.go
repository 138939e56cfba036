package product

import (
	"fmt"
	"net/http"

	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/middleware"
	"taskrewards-platform/pkg/minio"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	svc     *Service
	storage *minio.Storage
}

func NewHandler(svc *Service, storage *minio.Storage) *Handler {
	return &Handler{svc: svc, storage: storage}
}

func RegisterRoutes(r *gin.Engine, auth *middleware.Auth, h *Handler) {
	api := r.Group("/api", auth.Required())
	api.GET("/products", h.gallery)

	admin := api.Group("/admin", auth.AdminOnly())
	admin.GET("/products", h.list)
	admin.POST("/products", h.create)
	admin.PUT("/products/:id", h.update)
	admin.POST("/products/:id/status", h.setStatus)
}

func (h *Handler) gallery(c *gin.Context) {
	rows, err := h.svc.ListActive(c.Request.Context())
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

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	in.Name = c.PostForm("name")

	for i := 0; i < 5; i++ {
		raw := c.PostForm(fmt.Sprintf("level%d_price", i+1))
		if raw == "" {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			middleware.Abort(c, errutil.ValidationFailed(fmt.Sprintf("Invalid level %d price", i+1), err))
			return
		}
		in.LevelPrices[i] = price
	}

	if fh, err := c.FormFile("image"); err == nil {
		path, err := h.storage.Upload(c.Request.Context(), "products", fh)
		if err != nil {
			middleware.Abort(c, err)
			return
		}
		in.ImagePath = path
	}

	row, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) update(c *gin.Context) {
	values := map[string]any{}

	if name, ok := c.GetPostForm("name"); ok {
		values["name"] = name
	}
	for i := 0; i < 5; i++ {
		field := fmt.Sprintf("level%d_price", i+1)
		raw, ok := c.GetPostForm(field)
		if !ok {
			continue
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			middleware.Abort(c, errutil.ValidationFailed(fmt.Sprintf("Invalid level %d price", i+1), err))
			return
		}
		values[field] = price
	}

	if fh, err := c.FormFile("image"); err == nil {
		path, err := h.storage.Upload(c.Request.Context(), "products", fh)
		if err != nil {
			middleware.Abort(c, err)
			return
		}
		values["image_path"] = path
	}

	row, err := h.svc.Update(c.Request.Context(), c.Param("id"), values)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) setStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	if err := h.svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product status updated"})
}
