package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/questboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/questboard/internal/app"
)

// AchievementHandler serves the achievement showcase and title changes.
type AchievementHandler struct {
	service *app.AchievementService
}

// NewAchievementHandler creates an achievement handler.
func NewAchievementHandler(service *app.AchievementService) *AchievementHandler {
	return &AchievementHandler{service: service}
}

// Showcase handles GET /api/v1/users/:userID/achievements.
func (h *AchievementHandler) Showcase(c *gin.Context) {
	var uri dto.UserURI
	if !bindURI(c, &uri) {
		return
	}

	view, err := h.service.Showcase(c.Request.Context(), uri.UserID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SetTitle handles PUT /api/v1/users/:userID/title.
func (h *AchievementHandler) SetTitle(c *gin.Context) {
	var uri dto.UserURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.SetTitleRequest
	if !bindJSON(c, &req) {
		return
	}

	achievementID := ""
	if req.AchievementID != nil {
		achievementID = *req.AchievementID
	}

	title, err := h.service.SetActiveTitle(c.Request.Context(), uri.UserID, achievementID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTitleResponse(title))
}

// RegisterRoutes mounts the achievement routes under rg.
func (h *AchievementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users/:userID")
	users.GET("/achievements", h.Showcase)
	users.PUT("/title", h.SetTitle)
}
