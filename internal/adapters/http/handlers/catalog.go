package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/questboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/ports"
)

// CatalogHandler pages through the quest and item catalogues.
type CatalogHandler struct {
	quests ports.QuestAPI
	items  ports.ItemAPI
}

// NewCatalogHandler creates a catalogue handler.
func NewCatalogHandler(quests ports.QuestAPI, items ports.ItemAPI) *CatalogHandler {
	return &CatalogHandler{quests: quests, items: items}
}

// ListQuests handles GET /api/v1/quests?tier=&limit=&cursor=.
func (h *CatalogHandler) ListQuests(c *gin.Context) {
	var q dto.QuestListQuery
	offset, ok := bindPage(c, &q, &q.PaginationRequest)
	if !ok {
		return
	}

	limit := q.GetLimit()

	quests, err := h.quests.FetchAll(c.Request.Context(), ports.QuestQuery{
		Tier:   domain.QuestTier(q.Tier),
		Limit:  limit + 1,
		Offset: offset,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	out := make([]dto.QuestResponse, len(quests))
	for i := range quests {
		out[i] = dto.ToQuestResponse(&quests[i])
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(out, offset, limit))
}

// ListItems handles GET /api/v1/items?tier=&min_price=&max_price=&limit=&cursor=.
func (h *CatalogHandler) ListItems(c *gin.Context) {
	var q dto.ItemListQuery
	offset, ok := bindPage(c, &q, &q.PaginationRequest)
	if !ok {
		return
	}

	limit := q.GetLimit()

	items, err := h.items.FetchAll(c.Request.Context(), ports.ItemQuery{
		Tier:     domain.RarityTier(q.Tier),
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Limit:    limit + 1,
		Offset:   offset,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	out := make([]dto.ItemResponse, len(items))
	for i := range items {
		out[i] = dto.ToItemResponse(&items[i])
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(out, offset, limit))
}

// RegisterRoutes mounts the catalogue routes under rg.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quests", h.ListQuests)
	rg.GET("/items", h.ListItems)
}
