package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/gin-gonic/gin"
)

var sectionDefaults = []struct {
	prefix string
	screen string
}{
	{"/api/dashboard", domain.StepRouteChoice.Path()},
	{"/api/conductor", "/conductor"},
	{"/api/admin", "/admin"},
}

// NotFound answers unknown paths with the default screen of their section.
func NotFound(c *gin.Context) {
	path := c.Request.URL.Path
	screen := "/login"
	for _, s := range sectionDefaults {
		if path == s.prefix || strings.HasPrefix(path, s.prefix+"/") {
			screen = s.screen
			break
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found", "redirect": screen})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
