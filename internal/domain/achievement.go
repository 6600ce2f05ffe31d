package domain

import (
	"slices"
	"time"
)

// ReasonTitleLocked is shown when a player picks a title they have not earned.
const ReasonTitleLocked = "You have not unlocked this achievement"

// Achievement types.
const (
	AchievementDefault    = "default"
	AchievementTier       = "tier"
	AchievementQuestline  = "questline"
	AchievementQuest      = "quest"
	AchievementCollection = "collection"
)

// Achievement is a badge unlocked by completing quests. Its title can be
// worn on the profile.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Type        string
	Tier        int
	Topic       string
	ColorTier   int
	IsRare      bool
	QuestID     string
	CreatedAt   time.Time
}

// UserAchievement records when a player unlocked an achievement.
type UserAchievement struct {
	ID            string
	UserID        string
	AchievementID string
	UnlockedAt    time.Time
	Achievement   *Achievement
}

// HasUnlocked reports whether achievementID is among unlocked.
func HasUnlocked(achievementID string, unlocked []UserAchievement) bool {
	for i := range unlocked {
		if unlocked[i].AchievementID == achievementID {
			return true
		}
	}

	return false
}

// CanSetActiveTitle checks that the player earned the title. An empty
// achievementID clears the title and is always allowed.
func CanSetActiveTitle(achievementID string, unlocked []UserAchievement) error {
	if achievementID == "" || HasUnlocked(achievementID, unlocked) {
		return nil
	}

	return NewForbiddenError("set title", ReasonTitleLocked)
}

// RecentUnlocks returns up to n unlocks, newest first. Ties keep their
// backend order.
func RecentUnlocks(unlocked []UserAchievement, n int) []UserAchievement {
	out := slices.Clone(unlocked)
	slices.SortStableFunc(out, func(a, b UserAchievement) int {
		return b.UnlockedAt.Compare(a.UnlockedAt)
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}

	return out
}
