package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/mocks"
)

func catalogue() []domain.Achievement {
	return []domain.Achievement{
		{ID: "a-1", Title: "Wanderer", Type: domain.AchievementDefault},
		{ID: "a-2", Title: "Dragonslayer", Type: domain.AchievementQuest, Topic: "dragons", IsRare: true},
		{ID: "a-3", Title: "Hoarder", Type: domain.AchievementCollection},
		{ID: "a-4", Title: "Legend", Type: domain.AchievementTier},
	}
}

func unlockedAt(id string, at time.Time) domain.UserAchievement {
	return domain.UserAchievement{ID: "ua-" + id, UserID: "u-1", AchievementID: id, UnlockedAt: at}
}

func newAchievements(t *testing.T) (*AchievementService, *mocks.AchievementAPI) {
	t.Helper()

	m := mocks.NewAchievementAPI(t)

	return NewAchievementService(AchievementConfig{Achievements: m, Logger: discardLogger()}), m
}

func TestAchievementService_Showcase(t *testing.T) {
	svc, m := newAchievements(t)
	all := catalogue()

	m.On("FetchAll", mock.Anything).Return(all, nil)
	m.On("FetchUserAchievements", mock.Anything, "u-1").Return([]domain.UserAchievement{
		unlockedAt("a-1", now.AddDate(0, 0, -10)),
		{ID: "ua-a-2", AchievementID: "a-2", UnlockedAt: now.AddDate(0, 0, -1), Achievement: &all[1]},
	}, nil)
	m.On("FetchActiveTitle", mock.Anything, "u-1").Return(&all[1], nil)

	view, err := svc.Showcase(context.Background(), "u-1")
	require.NoError(t, err)

	assert.Equal(t, "Dragonslayer", view.ActiveTitle)
	assert.Equal(t, 2, view.Unlocked)
	assert.Equal(t, 4, view.Total)
	assert.Equal(t, "50%", view.Progress)

	require.Len(t, view.All, 4)
	assert.True(t, view.All[0].Unlocked)
	assert.Equal(t, now.AddDate(0, 0, -10).Format("2006-01-02"), view.All[0].UnlockedOn)
	assert.True(t, view.All[1].Active)
	assert.True(t, view.All[1].Rare)
	assert.Equal(t, "Quest", view.All[1].Type)
	assert.False(t, view.All[2].Unlocked)
	assert.Empty(t, view.All[2].UnlockedOn)

	require.Len(t, view.Recent, 2)
	assert.Equal(t, "a-2", view.Recent[0].ID, "newest first")
	assert.Equal(t, "Dragonslayer", view.Recent[0].Title)
	assert.Equal(t, "a-1", view.Recent[1].ID)
}

func TestAchievementService_Showcase_NothingUnlocked(t *testing.T) {
	svc, m := newAchievements(t)

	m.On("FetchAll", mock.Anything).Return([]domain.Achievement{}, nil)
	m.On("FetchUserAchievements", mock.Anything, "u-1").Return([]domain.UserAchievement{}, nil)
	m.On("FetchActiveTitle", mock.Anything, "u-1").Return(nil, nil)

	view, err := svc.Showcase(context.Background(), "u-1")
	require.NoError(t, err)

	assert.Empty(t, view.ActiveTitle)
	assert.Equal(t, "0%", view.Progress)
	assert.NotNil(t, view.All)
	assert.NotNil(t, view.Recent)
}

func TestAchievementService_Showcase_BackendFailure(t *testing.T) {
	svc, m := newAchievements(t)
	boom := domain.NewAPIError(domain.KindServer, "Failed to fetch achievements", 500, nil)

	m.On("FetchAll", mock.Anything).Return(nil, boom)
	m.On("FetchUserAchievements", mock.Anything, "u-1").Return([]domain.UserAchievement{}, nil).Maybe()
	m.On("FetchActiveTitle", mock.Anything, "u-1").Return(nil, nil).Maybe()

	_, err := svc.Showcase(context.Background(), "u-1")
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
}

func TestAchievementService_SetActiveTitle(t *testing.T) {
	svc, m := newAchievements(t)

	m.On("FetchAll", mock.Anything).Return(catalogue(), nil)
	m.On("FetchUserAchievements", mock.Anything, "u-1").Return([]domain.UserAchievement{unlockedAt("a-2", now)}, nil)
	m.On("SetActiveTitle", mock.Anything, "u-1", "a-2").Return("a-2", nil)

	title, err := svc.SetActiveTitle(context.Background(), "u-1", "a-2")
	require.NoError(t, err)
	require.NotNil(t, title)
	assert.Equal(t, "Dragonslayer", title.Title)
}

func TestAchievementService_SetActiveTitle_Clear(t *testing.T) {
	svc, m := newAchievements(t)

	m.On("SetActiveTitle", mock.Anything, "u-1", "").Return("", nil)

	title, err := svc.SetActiveTitle(context.Background(), "u-1", "")
	require.NoError(t, err)
	assert.Nil(t, title)
	m.AssertNotCalled(t, "FetchAll", mock.Anything)
}

func TestAchievementService_SetActiveTitle_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		unlocked  []domain.UserAchievement
		wantCheck func(error) bool
	}{
		{"locked title", "a-3", []domain.UserAchievement{unlockedAt("a-2", now)}, domain.IsForbidden},
		{"unknown title", "a-99", nil, domain.IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAchievements(t)

			m.On("FetchAll", mock.Anything).Return(catalogue(), nil)
			m.On("FetchUserAchievements", mock.Anything, "u-1").Return(tt.unlocked, nil)

			_, err := svc.SetActiveTitle(context.Background(), "u-1", tt.id)
			require.Error(t, err)
			assert.True(t, tt.wantCheck(err))

			step, ok := FailedStep(err)
			require.True(t, ok)
			assert.Equal(t, StepValidate, step)
			m.AssertNotCalled(t, "SetActiveTitle", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAchievementService_SetActiveTitle_BackendDisagrees(t *testing.T) {
	svc, m := newAchievements(t)

	m.On("FetchAll", mock.Anything).Return(catalogue(), nil)
	m.On("FetchUserAchievements", mock.Anything, "u-1").Return([]domain.UserAchievement{unlockedAt("a-2", now)}, nil)
	m.On("SetActiveTitle", mock.Anything, "u-1", "a-2").Return("a-1", nil)

	_, err := svc.SetActiveTitle(context.Background(), "u-1", "a-2")

	step, ok := FailedStep(err)
	require.True(t, ok)
	assert.Equal(t, StepVerify, step)
}

func TestNewAchievementService_PanicsWithoutService(t *testing.T) {
	assert.Panics(t, func() { NewAchievementService(AchievementConfig{}) })
	assert.NotPanics(t, func() {
		NewAchievementService(AchievementConfig{Achievements: mocks.NewAchievementAPI(t)})
	})
}
