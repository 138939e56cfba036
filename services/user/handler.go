package user

import (
	"net/http"

	"taskrewards-platform/pkg/errutil"
	"taskrewards-platform/pkg/middleware"
	"taskrewards-platform/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	svc    *Service
	tokens *token.Manager
}

func NewHandler(svc *Service, tokens *token.Manager) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

func RegisterRoutes(r *gin.Engine, auth *middleware.Auth, h *Handler) {
	api := r.Group("/api")
	api.POST("/register", h.register)
	api.POST("/login", h.login)

	authed := api.Group("", auth.Required())
	authed.GET("/me", h.me)
	authed.PUT("/profile", h.updateProfile)
	authed.POST("/password", h.changePassword)
	authed.POST("/deposit", h.deposit)

	admin := authed.Group("/admin", auth.AdminOnly())
	admin.GET("/users", h.list)
	admin.GET("/users/:id", h.get)
	admin.POST("/users/:id/balance", h.setBalance)
	admin.POST("/users/:id/commission", h.setCommission)
	admin.POST("/users/:id/level", h.setLevel)
	admin.POST("/users/:id/status", h.setStatus)
	admin.POST("/users/:id/reset-password", h.resetPassword)
	admin.POST("/create-admin", h.createAdmin)
	admin.POST("/change-password", h.adminChangePassword)
}

func (h *Handler) issue(c *gin.Context, row *User) {
	t, err := h.tokens.Issue(row.ID, row.Username, row.IsAdmin)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": t, "user": row})
}

func (h *Handler) register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	row, err := h.svc.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	h.issue(c, row)
}

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	row, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	h.issue(c, row)
}

func (h *Handler) me(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	row, err := h.svc.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) updateProfile(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	row, err := h.svc.UpdateProfile(c.Request.Context(), claims.UserID, req)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) changePassword(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *Handler) deposit(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	balance, err := h.svc.Deposit(c.Request.Context(), claims.UserID, req.Amount)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deposit recorded", "wallet_balance": balance})
}

func (h *Handler) list(c *gin.Context) {
	rows, err := h.svc.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) get(c *gin.Context) {
	row, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) setBalance(c *gin.Context) {
	var req struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	row, err := h.svc.SetBalance(c.Request.Context(), c.Param("id"), req.Balance)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) setCommission(c *gin.Context) {
	var req struct {
		Commission decimal.Decimal `json:"commission"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	if err := h.svc.SetCommission(c.Request.Context(), c.Param("id"), req.Commission); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Commission updated"})
}

func (h *Handler) setLevel(c *gin.Context) {
	var req struct {
		Level int `json:"level"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	if err := h.svc.SetLevel(c.Request.Context(), c.Param("id"), req.Level); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Level updated"})
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
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *Handler) resetPassword(c *gin.Context) {
	var req struct {
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), c.Param("id"), req.NewPassword); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset"})
}

func (h *Handler) createAdmin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	row, err := h.svc.CreateAdmin(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (h *Handler) adminChangePassword(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.Abort(c, errutil.BadRequest("Invalid request body", err))
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		middleware.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
