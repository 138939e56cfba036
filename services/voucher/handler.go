package voucher

import (
	"net/http"

	"taskrewards-platform/pkg/middleware"
	"taskrewards-platform/pkg/minio"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc     *Service
	storage *minio.Storage
}

func NewHandler(svc *Service, storage *minio.Storage) *Handler {
	return &Handler{svc: svc, storage: storage}
}

func RegisterRoutes(r *gin.Engine, auth *middleware.Auth, h *Handler) {
	admin := r.Group("/api/admin", auth.Required(), auth.AdminOnly())
	admin.GET("/vouchers", h.list)
	admin.POST("/vouchers", h.create)
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
	in := CreateInput{
		Name:        c.PostForm("name"),
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}

	if fh, err := c.FormFile("image"); err == nil {
		path, err := h.storage.Upload(c.Request.Context(), "vouchers", fh)
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
