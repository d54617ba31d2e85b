package api

import (
	"net/http"

	"github.com/Domenick1991/dirabasi/internal/auth"
	"github.com/Domenick1991/dirabasi/internal/http/middleware"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	service auth.AuthUseCase
}

func NewSessionHandler(service auth.AuthUseCase) *SessionHandler {
	return &SessionHandler{service: service}
}

// Register mounts login on router and logout behind authRequired.
func (h *SessionHandler) Register(router *gin.RouterGroup, authRequired gin.HandlerFunc) {
	router.POST("", h.login)
	router.POST("/logout", authRequired, h.logout)
}

func (h *SessionHandler) login(c *gin.Context) {
	var req auth.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *SessionHandler) logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": "/login"})
}
