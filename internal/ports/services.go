// Package ports defines the contracts the application layer depends on.
// Adapters implement them; every method takes a context, returns domain
// types, and reports failures as domain errors.
package ports

import (
	"context"

	"github.com/jsamuelsen/questboard/internal/domain"
)

// Default page sizes used when a query leaves Limit at zero.
const (
	DefaultListLimit    = 100
	DefaultHistoryLimit = 50
)

// QuestQuery filters the quest catalogue. A zero Tier means any tier.
type QuestQuery struct {
	Tier   domain.QuestTier
	Limit  int
	Offset int
}

// ItemQuery filters the item catalogue. Zero values disable a filter.
type ItemQuery struct {
	Tier     domain.RarityTier
	MinPrice int64
	MaxPrice int64
	Limit    int
	Offset   int
}

// ProgressStep names a stage of a quest action.
type ProgressStep string

// Progress steps.
const (
	StepRequesting ProgressStep = "requesting"
	StepReceived   ProgressStep = "received"
	StepFailed     ProgressStep = "failed"
)

// ProgressFunc observes the stages of completing or abandoning a quest.
// It cannot influence the outcome.
type ProgressFunc func(ctx context.Context, action string, step ProgressStep)

// QuestAPI is the quest backend's quest surface.
type QuestAPI interface {
	FetchAll(ctx context.Context, q QuestQuery) ([]domain.Quest, error)
	FetchByID(ctx context.Context, id string) (*domain.Quest, error)

	// FetchActiveQuests never fails: a backend error yields an empty slice
	// so a transient outage cannot break the quest board.
	FetchActiveQuests(ctx context.Context, userID string) []domain.UserQuest

	// FetchQuestHistory returns up to limit finished runs, newest first.
	// A limit of zero means DefaultHistoryLimit.
	FetchQuestHistory(ctx context.Context, userID string, limit int) ([]domain.UserQuest, error)

	Start(ctx context.Context, userID, questID string) (*domain.UserQuest, error)
	Complete(ctx context.Context, userID, userQuestID string) (*domain.QuestCompletion, error)
	Abandon(ctx context.Context, userID, userQuestID string) error

	// Chat sends a message to the quest helper for an active run and
	// returns its reply.
	Chat(ctx context.Context, userID, userQuestID, message string, history []domain.ChatMessage) (string, error)

	Create(ctx context.Context, in domain.QuestInput) (*domain.Quest, error)
	Update(ctx context.Context, id string, patch domain.QuestPatch) (*domain.Quest, error)
	Delete(ctx context.Context, id string) error
}

// ItemAPI is the quest backend's item surface.
type ItemAPI interface {
	FetchAll(ctx context.Context, q ItemQuery) ([]domain.Item, error)
	FetchByID(ctx context.Context, id string) (*domain.Item, error)
	FetchUserItems(ctx context.Context, userID string) ([]domain.UserItem, error)

	// Purchase buys an item, debiting the user's glory on the backend.
	Purchase(ctx context.Context, userID, itemID string) (*domain.PurchaseResult, error)
	SetFeatured(ctx context.Context, userID, userItemID string, featured bool) (*domain.UserItem, error)

	Create(ctx context.Context, in domain.ItemInput) (*domain.Item, error)
	Update(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error)
	Delete(ctx context.Context, id string) error
}

// UserAPI is the quest backend's user surface.
type UserAPI interface {
	FetchAll(ctx context.Context, page domain.Page) ([]domain.User, error)
	FetchByID(ctx context.Context, id string) (*domain.User, error)
	FetchByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, in domain.UserInput) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}

// AchievementAPI is the quest backend's achievement surface.
type AchievementAPI interface {
	FetchAll(ctx context.Context) ([]domain.Achievement, error)
	FetchUserAchievements(ctx context.Context, userID string) ([]domain.UserAchievement, error)

	// FetchActiveTitle returns the achievement the user wears as a title,
	// or nil when none is set.
	FetchActiveTitle(ctx context.Context, userID string) (*domain.Achievement, error)

	// SetActiveTitle wears achievementID as the user's title; an empty ID
	// clears it. It returns the title ID the backend stored.
	SetActiveTitle(ctx context.Context, userID, achievementID string) (string, error)
}

// AuthAPI is the quest backend's sign-in surface. Sign-in is by email only;
// the backend issues no session, so the returned user is the whole result.
type AuthAPI interface {
	Login(ctx context.Context, email string) (*domain.User, error)
	Signup(ctx context.Context, in domain.UserInput) (*domain.User, error)
}
