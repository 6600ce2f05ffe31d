package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/questboard/internal/adapters/http/dto"
	"github.com/jsamuelsen/questboard/internal/app"
	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/mocks"
	"github.com/jsamuelsen/questboard/internal/ports"
)

const (
	userID      = "3f1c2a9e-8d4b-4c6a-9f0e-1b2c3d4e5f60"
	questID     = "0b7e2d4c-5a6f-4e8d-9c1b-2a3f4e5d6c7b"
	userQuestID = "9e8d7c6b-5a4f-4e3d-8c2b-1a0f9e8d7c6b"
	itemID      = "7a8b9c0d-1e2f-4a3b-8c4d-5e6f7a8b9c0d"
)

var now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

type gateway struct {
	quests *mocks.QuestAPI
	items  *mocks.ItemAPI
	users  *mocks.UserAPI
	badges *mocks.AchievementAPI
	router *gin.Engine
}

func newGateway(t *testing.T) *gateway {
	t.Helper()

	g := &gateway{
		quests: mocks.NewQuestAPI(t),
		items:  mocks.NewItemAPI(t),
		users:  mocks.NewUserAPI(t),
		badges: mocks.NewAchievementAPI(t),
		router: gin.New(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return now }

	dashboard := app.NewDashboardService(app.DashboardConfig{
		Quests: g.quests, Items: g.items, Users: g.users, Logger: logger, Now: clock,
	})
	actions := app.NewActionService(app.ActionConfig{
		Quests: g.quests, Items: g.items, Users: g.users, Logger: logger, Now: clock,
	})

	api := g.router.Group("/api/v1")
	NewDashboardHandler(dashboard).RegisterRoutes(api)
	NewActionHandler(actions).RegisterRoutes(api)
	NewCatalogHandler(g.quests, g.items).RegisterRoutes(api)
	NewAchievementHandler(app.NewAchievementService(app.AchievementConfig{
		Achievements: g.badges, Logger: logger,
	})).RegisterRoutes(api)

	return g
}

func (g *gateway) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)

	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp
}

func player() *domain.User {
	return &domain.User{
		ID:         userID,
		Username:   "dragon slayer",
		TotalGlory: 12500,
		TotalXP:    700,
		CreatedAt:  now.AddDate(0, 0, -30),
	}
}

func activeRun() domain.UserQuest {
	return domain.UserQuest{
		ID:         userQuestID,
		UserID:     userID,
		QuestID:    questID,
		Quest:      &domain.Quest{ID: questID, Title: "Morning Run", Tier: 1, GloryReward: 100},
		StartedAt:  now.Add(-time.Hour),
		DeadlineAt: now.Add(23 * time.Hour),
		IsActive:   true,
	}
}

func TestDashboardHandler_Home(t *testing.T) {
	g := newGateway(t)
	g.users.On("FetchByID", mock.Anything, userID).Return(player(), nil)
	g.quests.On("FetchActiveQuests", mock.Anything, userID).Return([]domain.UserQuest{})
	g.items.On("FetchUserItems", mock.Anything, userID).Return([]domain.UserItem{}, nil)

	w := g.do(http.MethodGet, "/api/v1/users/"+userID+"/home", "")

	require.Equal(t, http.StatusOK, w.Code)

	var view app.HomeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "DS", view.User.Initials)
	assert.Equal(t, "12,500", view.Glory)
	assert.Equal(t, app.CTAFindQuest, view.CallToAction)
	assert.True(t, view.LargeCTA)
	assert.Empty(t, view.ActiveQuests)
}

func TestDashboardHandler_Home_UserMissing(t *testing.T) {
	g := newGateway(t)
	g.users.On("FetchByID", mock.Anything, userID).
		Return(nil, domain.NewAPIError(domain.KindServer, "User not found", http.StatusNotFound, nil))
	g.quests.On("FetchActiveQuests", mock.Anything, userID).Return([]domain.UserQuest{}).Maybe()
	g.items.On("FetchUserItems", mock.Anything, userID).Return([]domain.UserItem{}, nil).Maybe()

	w := g.do(http.MethodGet, "/api/v1/users/"+userID+"/home", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeNotFound, resp.Error.Code)
	assert.Equal(t, "User not found", resp.Error.Message)
}

func TestDashboardHandler_BadUserID(t *testing.T) {
	g := newGateway(t)

	w := g.do(http.MethodGet, "/api/v1/users/not-a-uuid/profile", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeValidation, resp.Error.Code)
	assert.Equal(t, "must be a valid UUID", resp.Error.Details["userID"])
}

func TestDashboardHandler_Profile(t *testing.T) {
	done := now.Add(-48 * time.Hour)

	g := newGateway(t)
	g.users.On("FetchByID", mock.Anything, userID).Return(player(), nil)
	g.quests.On("FetchQuestHistory", mock.Anything, userID, ports.DefaultHistoryLimit).
		Return([]domain.UserQuest{{ID: "uq-0", QuestID: questID, CompletedAt: &done}}, nil)
	g.items.On("FetchUserItems", mock.Anything, userID).Return([]domain.UserItem{}, nil)

	w := g.do(http.MethodGet, "/api/v1/users/"+userID+"/profile", "")

	require.Equal(t, http.StatusOK, w.Code)

	var view app.ProfileView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotEmpty(t, view.Stats)
	assert.Equal(t, "quests_done", view.Stats[0].Key)
	assert.Equal(t, int64(1), view.Stats[0].Raw)
}

func TestActionHandler_StartQuest(t *testing.T) {
	g := newGateway(t)
	g.quests.On("FetchByID", mock.Anything, questID).Return(&domain.Quest{ID: questID, Title: "Morning Run", Tier: 1}, nil)
	g.quests.On("FetchActiveQuests", mock.Anything, userID).Return([]domain.UserQuest{})

	run := activeRun()
	run.Quest = nil
	g.quests.On("Start", mock.Anything, userID, questID).Return(&run, nil)

	w := g.do(http.MethodPost, "/api/v1/users/"+userID+"/quests", `{"quest_id":"`+questID+`"}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.UserQuestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, userQuestID, resp.ID)
	assert.Equal(t, "active", resp.Status)
	require.NotNil(t, resp.Quest)
	assert.Equal(t, "Novice", resp.Quest.TierName)
}

func TestActionHandler_StartQuest_AlreadyActive(t *testing.T) {
	g := newGateway(t)
	g.quests.On("FetchByID", mock.Anything, questID).Return(&domain.Quest{ID: questID}, nil)
	g.quests.On("FetchActiveQuests", mock.Anything, userID).Return([]domain.UserQuest{activeRun()})

	w := g.do(http.MethodPost, "/api/v1/users/"+userID+"/quests", `{"quest_id":"`+questID+`"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domain.ReasonQuestAlreadyActive, decodeError(t, w).Error.Message)
	g.quests.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
}

func TestActionHandler_StartQuest_BadBody(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing quest id", `{}`, dto.ErrorCodeValidation},
		{"not a uuid", `{"quest_id":"abc"}`, dto.ErrorCodeValidation},
		{"malformed json", `{"quest_id":`, dto.ErrorCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway(t)

			w := g.do(http.MethodPost, "/api/v1/users/"+userID+"/quests", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, w).Error.Code)
		})
	}
}

func TestActionHandler_CompleteQuest(t *testing.T) {
	completed := activeRun()
	completed.IsActive = false
	completed.CompletedAt = &now

	g := newGateway(t)
	g.quests.On("FetchActiveQuests", mock.Anything, userID).Return([]domain.UserQuest{activeRun()})
	g.quests.On("Complete", mock.Anything, userID, userQuestID).Return(&domain.QuestCompletion{
		UserQuest:           completed,
		AwardedAchievements: []domain.Achievement{{ID: "a-1", Title: "Early Riser"}},
	}, nil)

	w := g.do(http.MethodPost, "/api/v1/users/"+userID+"/quests/"+userQuestID+"/complete", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.CompletionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.UserQuest.Status)
	assert.Len(t, resp.Achievements, 1)
	assert.Nil(t, resp.AwardedItem)
}

func TestActionHandler_CompleteQuest_NotActive(t *testing.T) {
	g := newGateway(t)
	g.quests.On("FetchActiveQuests", mock.Anything, userID).Return([]domain.UserQuest{})

	w := g.do(http.MethodPost, "/api/v1/users/"+userID+"/quests/"+userQuestID+"/complete", "")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domain.ReasonQuestNotActive, decodeError(t, w).Error.Message)
}

func TestActionHandler_AbandonQuest(t *testing.T) {
	g := newGateway(t)
	g.quests.On("FetchActiveQuests", mock.Anything, userID).Return([]domain.UserQuest{activeRun()})
	g.quests.On("Abandon", mock.Anything, userID, userQuestID).Return(nil)

	w := g.do(http.MethodDelete, "/api/v1/users/"+userID+"/quests/"+userQuestID, "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestActionHandler_AbandonQuest_BackendDown(t *testing.T) {
	g := newGateway(t)
	g.quests.On("FetchActiveQuests", mock.Anything, userID).Return([]domain.UserQuest{activeRun()})
	g.quests.On("Abandon", mock.Anything, userID, userQuestID).
		Return(domain.NewAPIError(domain.KindNetwork, "service temporarily unavailable", 0, nil))

	w := g.do(http.MethodDelete, "/api/v1/users/"+userID+"/quests/"+userQuestID, "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "service temporarily unavailable", decodeError(t, w).Error.Message)
}

func TestActionHandler_PurchaseItem(t *testing.T) {
	item := &domain.Item{ID: itemID, Name: "Golden Sneakers", RarityTier: 3, Price: 2500}

	g := newGateway(t)
	g.users.On("FetchByID", mock.Anything, userID).Return(player(), nil)
	g.items.On("FetchByID", mock.Anything, itemID).Return(item, nil)
	g.items.On("FetchUserItems", mock.Anything, userID).Return([]domain.UserItem{}, nil)
	g.items.On("Purchase", mock.Anything, userID, itemID).Return(&domain.PurchaseResult{
		UserItem:  domain.UserItem{ID: "ui-1", UserID: userID, ItemID: itemID},
		NewGlory:  10000,
		ItemPrice: 2500,
	}, nil)

	w := g.do(http.MethodPost, "/api/v1/users/"+userID+"/items/"+itemID+"/purchase", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.PurchaseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(10000), resp.NewGlory)
	require.NotNil(t, resp.UserItem.Item)
	assert.Equal(t, "Rare", resp.UserItem.Item.Rarity)
	assert.Equal(t, "2,500", resp.UserItem.Item.PriceDisplay)
}

func TestActionHandler_PurchaseItem_InsufficientGlory(t *testing.T) {
	g := newGateway(t)
	g.users.On("FetchByID", mock.Anything, userID).Return(player(), nil)
	g.items.On("FetchByID", mock.Anything, itemID).Return(&domain.Item{ID: itemID, Price: 13000}, nil)
	g.items.On("FetchUserItems", mock.Anything, userID).Return([]domain.UserItem{}, nil)

	w := g.do(http.MethodPost, "/api/v1/users/"+userID+"/items/"+itemID+"/purchase", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Insufficient glory. Need 500 more glory.", decodeError(t, w).Error.Message)
	g.items.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything, mock.Anything)
}

func TestCatalogHandler_ListQuests(t *testing.T) {
	g := newGateway(t)
	g.quests.On("FetchAll", mock.Anything, ports.QuestQuery{Tier: 2, Limit: 3, Offset: 0}).Return([]domain.Quest{
		{ID: "q-1", Title: "One", Tier: 2},
		{ID: "q-2", Title: "Two", Tier: 2},
		{ID: "q-3", Title: "Three", Tier: 2},
	}, nil)

	w := g.do(http.MethodGet, "/api/v1/quests?tier=2&limit=2", "")

	require.Equal(t, http.StatusOK, w.Code)

	var page dto.PaginatedResponse[dto.QuestResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, "Adventurer", page.Items[0].TierName)

	next, err := dto.DecodeCursor(page.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, 2, next)
}

func TestCatalogHandler_ListItems_SecondPage(t *testing.T) {
	g := newGateway(t)
	g.items.On("FetchAll", mock.Anything, ports.ItemQuery{MaxPrice: 5000, Limit: dto.DefaultLimit + 1, Offset: 20}).
		Return([]domain.Item{{ID: "i-21", Name: "Cape", RarityTier: 1, Price: 300}}, nil)

	w := g.do(http.MethodGet, "/api/v1/items?max_price=5000&cursor="+dto.EncodeCursor(20), "")

	require.Equal(t, http.StatusOK, w.Code)

	var page dto.PaginatedResponse[dto.ItemResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
	assert.Equal(t, "Common", page.Items[0].Rarity)
}

func TestCatalogHandler_BadQuery(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantField string
	}{
		{"tier out of range", "/api/v1/quests?tier=7", "tier"},
		{"limit too large", "/api/v1/items?limit=1000", "limit"},
		{"garbled cursor", "/api/v1/quests?cursor=***", "cursor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway(t)

			w := g.do(http.MethodGet, tt.path, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeError(t, w).Error.Details, tt.wantField)
		})
	}
}

func TestCatalogHandler_BackendError(t *testing.T) {
	g := newGateway(t)
	g.quests.On("FetchAll", mock.Anything, mock.Anything).
		Return(nil, domain.NewAPIError(domain.KindServer, "Failed to fetch quests", http.StatusInternalServerError, nil))

	w := g.do(http.MethodGet, "/api/v1/quests", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "Failed to fetch quests", decodeError(t, w).Error.Message)
}

func BenchmarkLiveness(b *testing.B) {
	handler := NewHealthHandler(ports.NewHealthRegistry(0), BuildInfo{})
	router := gin.New()
	handler.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/-/live", nil)

	b.ResetTimer()
	for b.Loop() {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
}

const achievementID = "5c4b3a29-1807-4f6e-9d5c-4b3a29180706"

func TestAchievementHandler_Showcase(t *testing.T) {
	g := newGateway(t)
	title := &domain.Achievement{ID: achievementID, Title: "Dragonslayer"}
	g.badges.On("FetchAll", mock.Anything).Return([]domain.Achievement{*title}, nil)
	g.badges.On("FetchUserAchievements", mock.Anything, userID).Return([]domain.UserAchievement{
		{AchievementID: achievementID, UnlockedAt: now},
	}, nil)
	g.badges.On("FetchActiveTitle", mock.Anything, userID).Return(title, nil)

	w := g.do(http.MethodGet, "/api/v1/users/"+userID+"/achievements", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view app.AchievementsView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Dragonslayer", view.ActiveTitle)
	assert.Equal(t, "100%", view.Progress)
	require.Len(t, view.All, 1)
	assert.True(t, view.All[0].Active)
}

func TestAchievementHandler_SetTitle(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*gateway)
		wantStatus int
		wantCode   string
		wantTitle  string
	}{
		{
			name: "unlocked title is worn",
			body: `{"achievement_id":"` + achievementID + `"}`,
			setup: func(g *gateway) {
				g.badges.On("FetchAll", mock.Anything).Return([]domain.Achievement{{ID: achievementID, Title: "Dragonslayer"}}, nil)
				g.badges.On("FetchUserAchievements", mock.Anything, userID).
					Return([]domain.UserAchievement{{AchievementID: achievementID}}, nil)
				g.badges.On("SetActiveTitle", mock.Anything, userID, achievementID).Return(achievementID, nil)
			},
			wantStatus: http.StatusOK,
			wantTitle:  "Dragonslayer",
		},
		{
			name: "null clears the title",
			body: `{"achievement_id":null}`,
			setup: func(g *gateway) {
				g.badges.On("SetActiveTitle", mock.Anything, userID, "").Return("", nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "locked title is forbidden",
			body: `{"achievement_id":"` + achievementID + `"}`,
			setup: func(g *gateway) {
				g.badges.On("FetchAll", mock.Anything).Return([]domain.Achievement{{ID: achievementID}}, nil)
				g.badges.On("FetchUserAchievements", mock.Anything, userID).Return([]domain.UserAchievement{}, nil)
			},
			wantStatus: http.StatusForbidden,
			wantCode:   dto.ErrorCodeForbidden,
		},
		{
			name:       "id must be a uuid",
			body:       `{"achievement_id":"nope"}`,
			setup:      func(*gateway) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrorCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGateway(t)
			tt.setup(g)

			w := g.do(http.MethodPut, "/api/v1/users/"+userID+"/title", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error.Code)
				return
			}

			var resp dto.TitleResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			if tt.wantTitle == "" {
				assert.Nil(t, resp.ActiveTitle)
				return
			}

			require.NotNil(t, resp.ActiveTitle)
			assert.Equal(t, tt.wantTitle, resp.ActiveTitle.Title)
		})
	}
}
