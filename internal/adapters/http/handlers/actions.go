package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/questboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/questboard/internal/app"
)

// ActionHandler serves the player's quest and shop actions.
type ActionHandler struct {
	service *app.ActionService
}

// NewActionHandler creates an action handler.
func NewActionHandler(service *app.ActionService) *ActionHandler {
	return &ActionHandler{service: service}
}

// StartQuest handles POST /api/v1/users/:userID/quests.
func (h *ActionHandler) StartQuest(c *gin.Context) {
	var uri dto.UserURI
	if !bindURI(c, &uri) {
		return
	}

	var req dto.StartQuestRequest
	if !bindJSON(c, &req) {
		return
	}

	uq, err := h.service.StartQuest(c.Request.Context(), uri.UserID, req.QuestID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserQuestResponse(uq))
}

// CompleteQuest handles POST /api/v1/users/:userID/quests/:userQuestID/complete.
func (h *ActionHandler) CompleteQuest(c *gin.Context) {
	var uri dto.UserQuestURI
	if !bindURI(c, &uri) {
		return
	}

	completion, err := h.service.CompleteQuest(c.Request.Context(), uri.UserID, uri.UserQuestID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompletionResponse(completion))
}

// AbandonQuest handles DELETE /api/v1/users/:userID/quests/:userQuestID.
func (h *ActionHandler) AbandonQuest(c *gin.Context) {
	var uri dto.UserQuestURI
	if !bindURI(c, &uri) {
		return
	}

	if err := h.service.AbandonQuest(c.Request.Context(), uri.UserID, uri.UserQuestID); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PurchaseItem handles POST /api/v1/users/:userID/items/:itemID/purchase.
func (h *ActionHandler) PurchaseItem(c *gin.Context) {
	var uri dto.PurchaseURI
	if !bindURI(c, &uri) {
		return
	}

	result, err := h.service.PurchaseItem(c.Request.Context(), uri.UserID, uri.ItemID)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseResponse(result))
}

// RegisterRoutes mounts the action routes under rg.
func (h *ActionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users/:userID")
	users.POST("/quests", h.StartQuest)
	users.POST("/quests/:userQuestID/complete", h.CompleteQuest)
	users.DELETE("/quests/:userQuestID", h.AbandonQuest)
	users.POST("/items/:itemID/purchase", h.PurchaseItem)
}
