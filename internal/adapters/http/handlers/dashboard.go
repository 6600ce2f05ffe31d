package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/questboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/questboard/internal/app"
)

// DashboardHandler serves the home and profile view models.
type DashboardHandler struct {
	service *app.DashboardService
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(service *app.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Home handles GET /api/v1/users/:userID/home.
func (h *DashboardHandler) Home(c *gin.Context) {
	var uri dto.UserURI
	if !bindURI(c, &uri) {
		return
	}

	view, err := h.service.Home(c.Request.Context(), uri.UserID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Profile handles GET /api/v1/users/:userID/profile.
func (h *DashboardHandler) Profile(c *gin.Context) {
	var uri dto.UserURI
	if !bindURI(c, &uri) {
		return
	}

	view, err := h.service.Profile(c.Request.Context(), uri.UserID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// RegisterRoutes mounts the dashboard routes under rg.
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users/:userID")
	users.GET("/home", h.Home)
	users.GET("/profile", h.Profile)
}
