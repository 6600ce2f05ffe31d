// Package mocks provides testify mocks for the ports interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/ports"
)

var (
	_ ports.QuestAPI = (*QuestAPI)(nil)
	_ ports.ItemAPI  = (*ItemAPI)(nil)
	_ ports.UserAPI  = (*UserAPI)(nil)

	_ ports.AchievementAPI = (*AchievementAPI)(nil)
	_ ports.AuthAPI        = (*AuthAPI)(nil)
)

// QuestAPI mocks ports.QuestAPI.
type QuestAPI struct {
	mock.Mock
}

// NewQuestAPI creates a QuestAPI mock whose expectations are asserted when
// the test ends.
func NewQuestAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *QuestAPI {
	m := &QuestAPI{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *QuestAPI) FetchAll(ctx context.Context, q ports.QuestQuery) ([]domain.Quest, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Quest), args.Error(1)
}

func (m *QuestAPI) FetchByID(ctx context.Context, id string) (*domain.Quest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quest), args.Error(1)
}

func (m *QuestAPI) FetchActiveQuests(ctx context.Context, userID string) []domain.UserQuest {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return []domain.UserQuest{}
	}
	return args.Get(0).([]domain.UserQuest)
}

func (m *QuestAPI) FetchQuestHistory(ctx context.Context, userID string, limit int) ([]domain.UserQuest, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserQuest), args.Error(1)
}

func (m *QuestAPI) Start(ctx context.Context, userID, questID string) (*domain.UserQuest, error) {
	args := m.Called(ctx, userID, questID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserQuest), args.Error(1)
}

func (m *QuestAPI) Complete(ctx context.Context, userID, userQuestID string) (*domain.QuestCompletion, error) {
	args := m.Called(ctx, userID, userQuestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuestCompletion), args.Error(1)
}

func (m *QuestAPI) Abandon(ctx context.Context, userID, userQuestID string) error {
	return m.Called(ctx, userID, userQuestID).Error(0)
}

func (m *QuestAPI) Chat(
	ctx context.Context,
	userID, userQuestID, message string,
	history []domain.ChatMessage,
) (string, error) {
	args := m.Called(ctx, userID, userQuestID, message, history)
	return args.String(0), args.Error(1)
}

func (m *QuestAPI) Create(ctx context.Context, in domain.QuestInput) (*domain.Quest, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quest), args.Error(1)
}

func (m *QuestAPI) Update(ctx context.Context, id string, patch domain.QuestPatch) (*domain.Quest, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quest), args.Error(1)
}

func (m *QuestAPI) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// ItemAPI mocks ports.ItemAPI.
type ItemAPI struct {
	mock.Mock
}

// NewItemAPI creates an ItemAPI mock whose expectations are asserted when
// the test ends.
func NewItemAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *ItemAPI {
	m := &ItemAPI{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *ItemAPI) FetchAll(ctx context.Context, q ports.ItemQuery) ([]domain.Item, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Item), args.Error(1)
}

func (m *ItemAPI) FetchByID(ctx context.Context, id string) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *ItemAPI) FetchUserItems(ctx context.Context, userID string) ([]domain.UserItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserItem), args.Error(1)
}

func (m *ItemAPI) Purchase(ctx context.Context, userID, itemID string) (*domain.PurchaseResult, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseResult), args.Error(1)
}

func (m *ItemAPI) SetFeatured(ctx context.Context, userID, userItemID string, featured bool) (*domain.UserItem, error) {
	args := m.Called(ctx, userID, userItemID, featured)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserItem), args.Error(1)
}

func (m *ItemAPI) Create(ctx context.Context, in domain.ItemInput) (*domain.Item, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *ItemAPI) Update(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Item), args.Error(1)
}

func (m *ItemAPI) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// UserAPI mocks ports.UserAPI.
type UserAPI struct {
	mock.Mock
}

// NewUserAPI creates a UserAPI mock whose expectations are asserted when
// the test ends.
func NewUserAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserAPI {
	m := &UserAPI{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *UserAPI) FetchAll(ctx context.Context, page domain.Page) ([]domain.User, error) {
	args := m.Called(ctx, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *UserAPI) FetchByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserAPI) FetchByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserAPI) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserAPI) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *UserAPI) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// AchievementAPI mocks ports.AchievementAPI.
type AchievementAPI struct {
	mock.Mock
}

// NewAchievementAPI creates an AchievementAPI mock whose expectations are
// asserted when the test ends.
func NewAchievementAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *AchievementAPI {
	m := &AchievementAPI{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *AchievementAPI) FetchAll(ctx context.Context) ([]domain.Achievement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Achievement), args.Error(1)
}

func (m *AchievementAPI) FetchUserAchievements(ctx context.Context, userID string) ([]domain.UserAchievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserAchievement), args.Error(1)
}

func (m *AchievementAPI) FetchActiveTitle(ctx context.Context, userID string) (*domain.Achievement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Achievement), args.Error(1)
}

func (m *AchievementAPI) SetActiveTitle(ctx context.Context, userID, achievementID string) (string, error) {
	args := m.Called(ctx, userID, achievementID)
	return args.String(0), args.Error(1)
}

// AuthAPI mocks ports.AuthAPI.
type AuthAPI struct {
	mock.Mock
}

// NewAuthAPI creates an AuthAPI mock whose expectations are asserted when
// the test ends.
func NewAuthAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthAPI {
	m := &AuthAPI{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *AuthAPI) Login(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *AuthAPI) Signup(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
