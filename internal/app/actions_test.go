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

func (d deps) actions() *ActionService {
	return NewActionService(ActionConfig{
		Quests: d.quests,
		Items:  d.items,
		Users:  d.users,
		Logger: discardLogger(),
		Now:    func() time.Time { return now },
	})
}

func activeRun(id, questID string, deadline time.Time) domain.UserQuest {
	return domain.UserQuest{
		ID:         id,
		UserID:     "u-1",
		QuestID:    questID,
		IsActive:   true,
		StartedAt:  now.Add(-time.Hour),
		DeadlineAt: deadline,
	}
}

func TestNewActionService_PanicsWithoutServices(t *testing.T) {
	assert.Panics(t, func() {
		NewActionService(ActionConfig{Quests: &mocks.QuestAPI{}})
	})
}

func TestActionService_StartQuest(t *testing.T) {
	d := newDeps(t)
	quest := &domain.Quest{ID: "q-7", Title: "Find the relic", Tier: 2}
	started := &domain.UserQuest{ID: "uq-7", QuestID: "q-7", IsActive: true}

	d.quests.On("FetchByID", mock.Anything, "q-7").Return(quest, nil)
	d.quests.On("FetchActiveQuests", mock.Anything, "u-1").Return([]domain.UserQuest{})
	d.quests.On("Start", mock.Anything, "u-1", "q-7").Return(started, nil)

	uq, err := d.actions().StartQuest(context.Background(), "u-1", "q-7")
	require.NoError(t, err)

	assert.Equal(t, "uq-7", uq.ID)
	require.NotNil(t, uq.Quest, "quest details are filled from the validated quest")
	assert.Equal(t, "Find the relic", uq.Quest.Title)
}

func TestActionService_StartQuest_Rejected(t *testing.T) {
	full := []domain.UserQuest{
		activeRun("uq-1", "q-1", now.Add(time.Hour)),
		activeRun("uq-2", "q-2", now.Add(time.Hour)),
		activeRun("uq-3", "q-3", now.Add(time.Hour)),
		activeRun("uq-4", "q-4", now.Add(time.Hour)),
	}

	tests := []struct {
		name       string
		questID    string
		active     []domain.UserQuest
		wantReason string
	}{
		{
			name:       "already running",
			questID:    "q-1",
			active:     full[:1],
			wantReason: domain.ReasonQuestAlreadyActive,
		},
		{
			name:       "cap reached",
			questID:    "q-9",
			active:     full,
			wantReason: "You already have the maximum number of active quests (4)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			d.quests.On("FetchByID", mock.Anything, tt.questID).Return(&domain.Quest{ID: tt.questID}, nil)
			d.quests.On("FetchActiveQuests", mock.Anything, "u-1").Return(tt.active)

			_, err := d.actions().StartQuest(context.Background(), "u-1", tt.questID)

			require.Error(t, err)
			assert.True(t, domain.IsConflict(err))
			assert.Contains(t, err.Error(), tt.wantReason)

			step, _ := FailedStep(err)
			assert.Equal(t, StepValidate, step)
			d.quests.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestActionService_StartQuest_EmptyID(t *testing.T) {
	d := newDeps(t)

	_, err := d.actions().StartQuest(context.Background(), "u-1", "")

	assert.True(t, domain.IsValidation(err))
}

func TestActionService_StartQuest_BackendRejects(t *testing.T) {
	d := newDeps(t)
	conflict := domain.NewAPIError(domain.KindServer, "Quest already active", 409, nil)

	d.quests.On("FetchByID", mock.Anything, "q-1").Return(&domain.Quest{ID: "q-1"}, nil)
	d.quests.On("FetchActiveQuests", mock.Anything, "u-1").Return([]domain.UserQuest{})
	d.quests.On("Start", mock.Anything, "u-1", "q-1").Return(nil, conflict)

	_, err := d.actions().StartQuest(context.Background(), "u-1", "q-1")

	assert.ErrorIs(t, err, conflict)
	step, _ := FailedStep(err)
	assert.Equal(t, StepPerform, step)
}

func TestActionService_CompleteQuest(t *testing.T) {
	d := newDeps(t)
	completedAt := now
	completion := &domain.QuestCompletion{
		UserQuest:   domain.UserQuest{ID: "uq-1", CompletedAt: &completedAt},
		AwardedItem: &domain.UserItem{ID: "ui-9"},
	}

	d.quests.On("FetchActiveQuests", mock.Anything, "u-1").
		Return([]domain.UserQuest{activeRun("uq-1", "q-1", now.Add(time.Hour))})
	d.quests.On("Complete", mock.Anything, "u-1", "uq-1").Return(completion, nil)

	out, err := d.actions().CompleteQuest(context.Background(), "u-1", "uq-1")
	require.NoError(t, err)
	assert.Equal(t, "ui-9", out.AwardedItem.ID)
}

func TestActionService_CompleteQuest_Rejected(t *testing.T) {
	tests := []struct {
		name       string
		active     []domain.UserQuest
		wantReason string
	}{
		{
			name:       "not active",
			active:     []domain.UserQuest{},
			wantReason: domain.ReasonQuestNotActive,
		},
		{
			name:       "deadline passed",
			active:     []domain.UserQuest{activeRun("uq-1", "q-1", now.Add(-time.Minute))},
			wantReason: domain.ReasonQuestDeadlinePast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			d.quests.On("FetchActiveQuests", mock.Anything, "u-1").Return(tt.active)

			_, err := d.actions().CompleteQuest(context.Background(), "u-1", "uq-1")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantReason)
			d.quests.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestActionService_CompleteQuest_VerifyCatchesActiveRun(t *testing.T) {
	d := newDeps(t)

	d.quests.On("FetchActiveQuests", mock.Anything, "u-1").
		Return([]domain.UserQuest{activeRun("uq-1", "q-1", now.Add(time.Hour))})
	d.quests.On("Complete", mock.Anything, "u-1", "uq-1").
		Return(&domain.QuestCompletion{UserQuest: domain.UserQuest{ID: "uq-1", IsActive: true}}, nil)

	_, err := d.actions().CompleteQuest(context.Background(), "u-1", "uq-1")

	step, ok := FailedStep(err)
	require.True(t, ok)
	assert.Equal(t, StepVerify, step)
}

func TestActionService_AbandonQuest(t *testing.T) {
	d := newDeps(t)

	// Expired runs can still be abandoned.
	d.quests.On("FetchActiveQuests", mock.Anything, "u-1").
		Return([]domain.UserQuest{activeRun("uq-1", "q-1", now.Add(-time.Hour))})
	d.quests.On("Abandon", mock.Anything, "u-1", "uq-1").Return(nil)

	require.NoError(t, d.actions().AbandonQuest(context.Background(), "u-1", "uq-1"))
}

func TestActionService_AbandonQuest_NotActive(t *testing.T) {
	d := newDeps(t)
	d.quests.On("FetchActiveQuests", mock.Anything, "u-1").Return([]domain.UserQuest{})

	err := d.actions().AbandonQuest(context.Background(), "u-1", "uq-1")

	assert.True(t, domain.IsConflict(err))
	d.quests.AssertNotCalled(t, "Abandon", mock.Anything, mock.Anything, mock.Anything)
}

func TestActionService_PurchaseItem(t *testing.T) {
	d := newDeps(t)
	user := testUser()
	user.TotalGlory = 500
	item := &domain.Item{ID: "i-1", Name: "Cloak", RarityTier: 3, Price: 200}

	d.users.On("FetchByID", mock.Anything, "u-1").Return(user, nil)
	d.items.On("FetchByID", mock.Anything, "i-1").Return(item, nil)
	d.items.On("FetchUserItems", mock.Anything, "u-1").Return([]domain.UserItem{}, nil)
	d.items.On("Purchase", mock.Anything, "u-1", "i-1").Return(&domain.PurchaseResult{
		UserItem:  domain.UserItem{ID: "ui-1", ItemID: "i-1"},
		NewGlory:  300,
		ItemPrice: 200,
	}, nil)

	result, err := d.actions().PurchaseItem(context.Background(), "u-1", "i-1")
	require.NoError(t, err)

	assert.Equal(t, int64(300), result.NewGlory)
	require.NotNil(t, result.UserItem.Item)
	assert.Equal(t, "Cloak", result.UserItem.Item.Name)
}

func TestActionService_PurchaseItem_Rejected(t *testing.T) {
	item := &domain.Item{ID: "i-1", Price: 500}

	tests := []struct {
		name      string
		glory     int64
		owned     []domain.UserItem
		wantErr   func(error) bool
		wantInMsg string
	}{
		{
			name:      "insufficient glory",
			glory:     350,
			owned:     []domain.UserItem{},
			wantErr:   domain.IsForbidden,
			wantInMsg: "Insufficient glory. Need 150 more glory.",
		},
		{
			name:      "already owned",
			glory:     1000,
			owned:     []domain.UserItem{{ID: "ui-1", ItemID: "i-1"}},
			wantErr:   domain.IsConflict,
			wantInMsg: domain.ReasonItemAlreadyOwned,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeps(t)
			user := testUser()
			user.TotalGlory = tt.glory

			d.users.On("FetchByID", mock.Anything, "u-1").Return(user, nil)
			d.items.On("FetchByID", mock.Anything, "i-1").Return(item, nil)
			d.items.On("FetchUserItems", mock.Anything, "u-1").Return(tt.owned, nil)

			_, err := d.actions().PurchaseItem(context.Background(), "u-1", "i-1")

			require.Error(t, err)
			assert.True(t, tt.wantErr(err))
			assert.Contains(t, err.Error(), tt.wantInMsg)
			d.items.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestActionService_PurchaseItem_BalanceDriftIsAccepted(t *testing.T) {
	d := newDeps(t)
	user := testUser()
	user.TotalGlory = 500

	d.users.On("FetchByID", mock.Anything, "u-1").Return(user, nil)
	d.items.On("FetchByID", mock.Anything, "i-1").Return(&domain.Item{ID: "i-1", Price: 200}, nil)
	d.items.On("FetchUserItems", mock.Anything, "u-1").Return([]domain.UserItem{}, nil)
	d.items.On("Purchase", mock.Anything, "u-1", "i-1").Return(&domain.PurchaseResult{
		UserItem:  domain.UserItem{ID: "ui-1", ItemID: "i-1"},
		NewGlory:  100,
		ItemPrice: 200,
	}, nil)

	result, err := d.actions().PurchaseItem(context.Background(), "u-1", "i-1")

	require.NoError(t, err)
	assert.Equal(t, int64(100), result.NewGlory)
}

func TestActionService_PurchaseItem_WrongItemFailsVerify(t *testing.T) {
	d := newDeps(t)

	d.users.On("FetchByID", mock.Anything, "u-1").Return(testUser(), nil)
	d.items.On("FetchByID", mock.Anything, "i-1").Return(&domain.Item{ID: "i-1", Price: 10}, nil)
	d.items.On("FetchUserItems", mock.Anything, "u-1").Return([]domain.UserItem{}, nil)
	d.items.On("Purchase", mock.Anything, "u-1", "i-1").Return(&domain.PurchaseResult{
		UserItem: domain.UserItem{ID: "ui-1", ItemID: "i-2"},
	}, nil)

	_, err := d.actions().PurchaseItem(context.Background(), "u-1", "i-1")

	step, _ := FailedStep(err)
	assert.Equal(t, StepVerify, step)
}
