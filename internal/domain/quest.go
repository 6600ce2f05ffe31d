package domain

import "time"

// QuestTier is a quest's difficulty bucket, 1 (Novice) to 6 (Conqueror).
type QuestTier int

// Tier bounds shared by quests and items.
const (
	MinTier = 1
	MaxTier = 6
)

var questTierNames = [...]string{"Novice", "Adventurer", "Warrior", "Champion", "Master", "Conqueror"}

// Name returns the tier's display name, or "Unknown" outside 1..6.
func (t QuestTier) Name() string {
	if t < MinTier || t > MaxTier {
		return "Unknown"
	}

	return questTierNames[t-1]
}

// Valid reports whether t is within 1..6.
func (t QuestTier) Valid() bool {
	return t >= MinTier && t <= MaxTier
}

// Quest is an activity definition a player can take on.
type Quest struct {
	ID             string
	Title          string
	Description    string
	Tier           QuestTier
	GloryReward    int64
	XPReward       int64
	TimeLimitHours float64
	RewardItemID   string
	CreatedAt      time.Time
}

// QuestStatus is derived from a UserQuest's fields.
type QuestStatus string

// Quest statuses.
const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestAbandoned QuestStatus = "abandoned"
)

// UserQuest tracks one player's run at one quest.
type UserQuest struct {
	ID          string
	UserID      string
	QuestID     string
	Quest       *Quest
	StartedAt   time.Time
	CompletedAt *time.Time
	DeadlineAt  time.Time
	IsActive    bool
}

// Status derives the run's state: active, completed, or abandoned (which
// also covers runs that lapsed past their deadline).
func (uq *UserQuest) Status() QuestStatus {
	switch {
	case uq.IsActive:
		return QuestActive
	case uq.CompletedAt != nil:
		return QuestCompleted
	default:
		return QuestAbandoned
	}
}

// Expired reports whether the deadline has passed at now.
func (uq *UserQuest) Expired(now time.Time) bool {
	return now.After(uq.DeadlineAt)
}

// QuestCompletion is what the backend hands back when a quest is completed.
type QuestCompletion struct {
	UserQuest           UserQuest
	AwardedItem         *UserItem
	AwardedAchievements []Achievement
}

// QuestInput creates a quest.
type QuestInput struct {
	Title          string
	Description    string
	Tier           QuestTier
	GloryReward    int64
	XPReward       int64
	TimeLimitHours float64
	RewardItemID   string
}

// QuestPatch updates a quest; nil fields are left untouched.
type QuestPatch struct {
	Title          *string
	Description    *string
	Tier           *QuestTier
	GloryReward    *int64
	XPReward       *int64
	TimeLimitHours *float64
	RewardItemID   *string
}

// Chat roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation with the quest helper.
type ChatMessage struct {
	Role      string
	Content   string
	Timestamp time.Time
}
