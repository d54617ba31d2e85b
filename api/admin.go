package api

import (
	"net/http"

	"github.com/Domenick1991/dirabasi/internal/service/admin"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service admin.AdminUseCase
}

func NewAdminHandler(service admin.AdminUseCase) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/stats", h.stats)
	router.GET("/routes", h.routes)
	router.GET("/routes/:id/stations", h.stations)
	router.GET("/buses", h.buses)
	router.GET("/users", h.users)
}

func (h *AdminHandler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) routes(c *gin.Context) {
	routes, err := h.service.Routes(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

func (h *AdminHandler) stations(c *gin.Context) {
	id, ok := routeID(c)
	if !ok {
		return
	}
	stations, err := h.service.RouteStations(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stations)
}

func (h *AdminHandler) buses(c *gin.Context) {
	buses, err := h.service.Buses(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buses)
}

func (h *AdminHandler) users(c *gin.Context) {
	var filter admin.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, err.Error())
		return
	}
	users, err := h.service.Users(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
