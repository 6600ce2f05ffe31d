package dto

import (
	"time"

	"github.com/jsamuelsen/questboard/internal/domain"
	"github.com/jsamuelsen/questboard/internal/platform/format"
)

// QuestResponse is a catalogue quest.
type QuestResponse struct {
	ID             string    `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Description    string    `json:"description" yaml:"description"`
	Tier           int       `json:"tier" yaml:"tier"`
	TierName       string    `json:"tier_name" yaml:"tier_name"`
	GloryReward    int64     `json:"glory_reward" yaml:"glory_reward"`
	GloryDisplay   string    `json:"glory_display" yaml:"glory_display"`
	XPReward       int64     `json:"xp_reward" yaml:"xp_reward"`
	TimeLimitHours float64   `json:"time_limit_hours" yaml:"time_limit_hours"`
	RewardItemID   string    `json:"reward_item_id,omitempty" yaml:"reward_item_id,omitempty"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// UserQuestResponse is one player's run at a quest.
type UserQuestResponse struct {
	ID          string         `json:"id" yaml:"id"`
	QuestID     string         `json:"quest_id" yaml:"quest_id"`
	Quest       *QuestResponse `json:"quest,omitempty" yaml:"quest,omitempty"`
	Status      string         `json:"status" yaml:"status"`
	StartedAt   time.Time      `json:"started_at" yaml:"started_at"`
	DeadlineAt  time.Time      `json:"deadline_at" yaml:"deadline_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// AchievementResponse is an unlocked badge or the worn title.
type AchievementResponse struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"achievement_type" yaml:"achievement_type"`
	ColorTier   int    `json:"color_tier" yaml:"color_tier"`
	IsRare      bool   `json:"is_rare" yaml:"is_rare"`
}

// CompletionResponse is returned by the complete route.
type CompletionResponse struct {
	UserQuest    UserQuestResponse     `json:"user_quest" yaml:"user_quest"`
	AwardedItem  *UserItemResponse     `json:"awarded_item,omitempty" yaml:"awarded_item,omitempty"`
	Achievements []AchievementResponse `json:"awarded_achievements" yaml:"awarded_achievements"`
}

// ItemResponse is a shop item.
type ItemResponse struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	RarityTier   int    `json:"rarity_tier" yaml:"rarity_tier"`
	Rarity       string `json:"rarity" yaml:"rarity"`
	RarityStars  int    `json:"rarity_stars" yaml:"rarity_stars"`
	ImageURL     string `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Price        int64  `json:"price" yaml:"price"`
	PriceDisplay string `json:"price_display" yaml:"price_display"`
}

// UserItemResponse is an owned item.
type UserItemResponse struct {
	ID         string        `json:"id" yaml:"id"`
	ItemID     string        `json:"item_id" yaml:"item_id"`
	Item       *ItemResponse `json:"item,omitempty" yaml:"item,omitempty"`
	AcquiredAt time.Time     `json:"acquired_at" yaml:"acquired_at"`
	IsFeatured bool          `json:"is_featured" yaml:"is_featured"`
}

// PurchaseResponse is returned by the purchase route.
type PurchaseResponse struct {
	UserItem  UserItemResponse `json:"user_item" yaml:"user_item"`
	NewGlory  int64            `json:"new_glory" yaml:"new_glory"`
	ItemPrice int64            `json:"item_price" yaml:"item_price"`
}

// UserResponse is a player record.
type UserResponse struct {
	ID           string    `json:"id" yaml:"id"`
	Username     string    `json:"username" yaml:"username"`
	Email        string    `json:"email" yaml:"email"`
	TotalGlory   int64     `json:"total_glory" yaml:"total_glory"`
	GloryDisplay string    `json:"glory_display" yaml:"glory_display"`
	TotalXP      int64     `json:"total_xp" yaml:"total_xp"`
	Level        int       `json:"level" yaml:"level"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// TitleResponse reports the worn title; ActiveTitle is null once cleared.
type TitleResponse struct {
	ActiveTitle *AchievementResponse `json:"active_title" yaml:"active_title"`
}

// ToQuestResponse converts a quest.
func ToQuestResponse(q *domain.Quest) QuestResponse {
	return QuestResponse{
		ID:             q.ID,
		Title:          q.Title,
		Description:    q.Description,
		Tier:           int(q.Tier),
		TierName:       q.Tier.Name(),
		GloryReward:    q.GloryReward,
		GloryDisplay:   format.Glory(q.GloryReward),
		XPReward:       q.XPReward,
		TimeLimitHours: q.TimeLimitHours,
		RewardItemID:   q.RewardItemID,
		CreatedAt:      q.CreatedAt,
	}
}

// ToUserQuestResponse converts a run.
func ToUserQuestResponse(uq *domain.UserQuest) UserQuestResponse {
	out := UserQuestResponse{
		ID:          uq.ID,
		QuestID:     uq.QuestID,
		Status:      string(uq.Status()),
		StartedAt:   uq.StartedAt,
		DeadlineAt:  uq.DeadlineAt,
		CompletedAt: uq.CompletedAt,
	}

	if uq.Quest != nil {
		q := ToQuestResponse(uq.Quest)
		out.Quest = &q
	}

	return out
}

// ToCompletionResponse converts a completion.
func ToCompletionResponse(c *domain.QuestCompletion) CompletionResponse {
	out := CompletionResponse{
		UserQuest:    ToUserQuestResponse(&c.UserQuest),
		Achievements: make([]AchievementResponse, len(c.AwardedAchievements)),
	}

	for i, a := range c.AwardedAchievements {
		out.Achievements[i] = AchievementResponse{
			ID:          a.ID,
			Title:       a.Title,
			Description: a.Description,
			Type:        a.Type,
			ColorTier:   a.ColorTier,
			IsRare:      a.IsRare,
		}
	}

	if c.AwardedItem != nil {
		ui := ToUserItemResponse(c.AwardedItem)
		out.AwardedItem = &ui
	}

	return out
}

// ToItemResponse converts an item.
func ToItemResponse(it *domain.Item) ItemResponse {
	return ItemResponse{
		ID:           it.ID,
		Name:         it.Name,
		Description:  it.Description,
		RarityTier:   int(it.RarityTier),
		Rarity:       it.RarityTier.Name(),
		RarityStars:  it.RarityStars,
		ImageURL:     it.ImageURL,
		Price:        it.Price,
		PriceDisplay: format.Glory(it.Price),
	}
}

// ToUserItemResponse converts an owned item.
func ToUserItemResponse(ui *domain.UserItem) UserItemResponse {
	out := UserItemResponse{
		ID:         ui.ID,
		ItemID:     ui.ItemID,
		AcquiredAt: ui.AcquiredAt,
		IsFeatured: ui.IsFeatured,
	}

	if ui.Item != nil {
		it := ToItemResponse(ui.Item)
		out.Item = &it
	}

	return out
}

// ToPurchaseResponse converts a purchase result.
func ToPurchaseResponse(r *domain.PurchaseResult) PurchaseResponse {
	return PurchaseResponse{
		UserItem:  ToUserItemResponse(&r.UserItem),
		NewGlory:  r.NewGlory,
		ItemPrice: r.ItemPrice,
	}
}

// ToUserResponse converts a user.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		TotalGlory:   u.TotalGlory,
		GloryDisplay: format.Glory(u.TotalGlory),
		TotalXP:      u.TotalXP,
		Level:        u.Level,
		CreatedAt:    u.CreatedAt,
	}
}

// ToTitleResponse converts the worn title, which may be nil.
func ToTitleResponse(a *domain.Achievement) TitleResponse {
	if a == nil {
		return TitleResponse{}
	}

	return TitleResponse{ActiveTitle: &AchievementResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Type:        a.Type,
		ColorTier:   a.ColorTier,
		IsRare:      a.IsRare,
	}}
}
