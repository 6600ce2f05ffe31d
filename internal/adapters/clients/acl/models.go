package acl

import (
	"github.com/jsamuelsen/questboard/internal/domain"
)

// Wire types mirror the backend's JSON. They never leave this package.

type questDTO struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Tier           int     `json:"tier"`
	GloryReward    int64   `json:"glory_reward"`
	XPReward       int64   `json:"xp_reward"`
	TimeLimitHours float64 `json:"time_limit_hours"`
	RewardItemID   *string `json:"reward_item_id"`
	CreatedAt      string  `json:"created_at"`
}

type userQuestDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	QuestID     string    `json:"quest_id"`
	Quest       *questDTO `json:"quest,omitempty"`
	StartedAt   string    `json:"started_at"`
	CompletedAt *string   `json:"completed_at"`
	DeadlineAt  string    `json:"deadline_at"`
	IsActive    bool      `json:"is_active"`
}

type achievementDTO struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"achievement_type"`
	Tier        *int    `json:"tier"`
	Topic       *string `json:"topic"`
	ColorTier   int     `json:"color_tier"`
	IsRare      bool    `json:"is_rare"`
	QuestID     *string `json:"quest_id"`
	CreatedAt   string  `json:"created_at"`
}

type userAchievementDTO struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	AchievementID string          `json:"achievement_id"`
	UnlockedAt    string          `json:"unlocked_at"`
	Achievement   *achievementDTO `json:"achievement,omitempty"`
}

// activeTitleRequest sends a JSON null to clear the title.
type activeTitleRequest struct {
	AchievementID *string `json:"achievement_id"`
}

type activeTitleResponse struct {
	Message       string  `json:"message"`
	ActiveTitleID *string `json:"active_title_id"`
}

type loginRequest struct {
	Email string `json:"email"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type completionDTO struct {
	UserQuest           userQuestDTO     `json:"user_quest"`
	AwardedItem         *userItemDTO     `json:"awarded_item"`
	AwardedAchievements []achievementDTO `json:"awarded_achievements"`
}

type startQuestRequest struct {
	QuestID string `json:"quest_id"`
}

type chatMessageDTO struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
}

type chatRequest struct {
	Message     string           `json:"message"`
	ChatHistory []chatMessageDTO `json:"chat_history"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type questWriteDTO struct {
	Title          *string  `json:"title,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Tier           *int     `json:"tier,omitempty"`
	GloryReward    *int64   `json:"glory_reward,omitempty"`
	XPReward       *int64   `json:"xp_reward,omitempty"`
	TimeLimitHours *float64 `json:"time_limit_hours,omitempty"`
	RewardItemID   *string  `json:"reward_item_id,omitempty"`
}

type itemDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	RarityTier  int     `json:"rarity_tier"`
	RarityStars int     `json:"rarity_stars"`
	ImageURL    *string `json:"image_url"`
	Price       int64   `json:"price"`
	CreatedAt   string  `json:"created_at"`
}

type userItemDTO struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	ItemID     string   `json:"item_id"`
	Item       *itemDTO `json:"item,omitempty"`
	AcquiredAt string   `json:"acquired_at"`
	IsFeatured bool     `json:"is_featured"`
}

type purchaseDTO struct {
	UserItem  userItemDTO `json:"user_item"`
	NewGlory  int64       `json:"new_glory"`
	ItemPrice int64       `json:"item_price"`
}

type featureRequest struct {
	IsFeatured bool `json:"is_featured"`
}

type itemWriteDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	RarityTier  *int    `json:"rarity_tier,omitempty"`
	RarityStars *int    `json:"rarity_stars,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Price       *int64  `json:"price,omitempty"`
}

type userDTO struct {
	ID                  string `json:"id"`
	Username            string `json:"username"`
	Email               string `json:"email"`
	TotalGlory          int64  `json:"total_glory"`
	TotalXP             int64  `json:"total_xp"`
	Level               int    `json:"level"`
	LifetimeGloryGained *int64 `json:"lifetime_glory_gained"`
	CreatedAt           string `json:"created_at"`
}

type userWriteDTO struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
}

func translateQuest(ext *questDTO) (domain.Quest, error) {
	if ext.ID == "" {
		return domain.Quest{}, missingField("id")
	}

	return domain.Quest{
		ID:             ext.ID,
		Title:          ext.Title,
		Description:    ext.Description,
		Tier:           domain.QuestTier(ext.Tier),
		GloryReward:    ext.GloryReward,
		XPReward:       ext.XPReward,
		TimeLimitHours: ext.TimeLimitHours,
		RewardItemID:   deref(ext.RewardItemID),
		CreatedAt:      parseTimestamp(ext.CreatedAt),
	}, nil
}

func translateUserQuest(ext *userQuestDTO) (domain.UserQuest, error) {
	if ext.ID == "" {
		return domain.UserQuest{}, missingField("id")
	}

	uq := domain.UserQuest{
		ID:          ext.ID,
		UserID:      ext.UserID,
		QuestID:     ext.QuestID,
		StartedAt:   parseTimestamp(ext.StartedAt),
		CompletedAt: parseOptionalTimestamp(ext.CompletedAt),
		DeadlineAt:  parseTimestamp(ext.DeadlineAt),
		IsActive:    ext.IsActive,
	}

	if ext.Quest != nil {
		q, err := translateQuest(ext.Quest)
		if err != nil {
			return domain.UserQuest{}, err
		}

		uq.Quest = &q
	}

	return uq, nil
}

func translateAchievement(ext *achievementDTO) (domain.Achievement, error) {
	if ext.ID == "" {
		return domain.Achievement{}, missingField("id")
	}

	return domain.Achievement{
		ID:          ext.ID,
		Title:       ext.Title,
		Description: ext.Description,
		Type:        ext.Type,
		Tier:        deref(ext.Tier),
		Topic:       deref(ext.Topic),
		ColorTier:   ext.ColorTier,
		IsRare:      ext.IsRare,
		QuestID:     deref(ext.QuestID),
		CreatedAt:   parseTimestamp(ext.CreatedAt),
	}, nil
}

func translateUserAchievement(ext *userAchievementDTO) (domain.UserAchievement, error) {
	if ext.AchievementID == "" {
		return domain.UserAchievement{}, missingField("achievement_id")
	}

	ua := domain.UserAchievement{
		ID:            ext.ID,
		UserID:        ext.UserID,
		AchievementID: ext.AchievementID,
		UnlockedAt:    parseTimestamp(ext.UnlockedAt),
	}

	if ext.Achievement != nil {
		a, err := translateAchievement(ext.Achievement)
		if err != nil {
			return domain.UserAchievement{}, err
		}

		ua.Achievement = &a
	}

	return ua, nil
}

func translateCompletion(ext *completionDTO) (*domain.QuestCompletion, error) {
	uq, err := translateUserQuest(&ext.UserQuest)
	if err != nil {
		return nil, err
	}

	achievements, err := TranslateSlice(ext.AwardedAchievements, translateAchievement)
	if err != nil {
		return nil, err
	}

	out := &domain.QuestCompletion{UserQuest: uq, AwardedAchievements: achievements}

	if ext.AwardedItem != nil {
		item, err := translateUserItem(ext.AwardedItem)
		if err != nil {
			return nil, err
		}

		out.AwardedItem = &item
	}

	return out, nil
}

func translateItem(ext *itemDTO) (domain.Item, error) {
	if ext.ID == "" {
		return domain.Item{}, missingField("id")
	}

	return domain.Item{
		ID:          ext.ID,
		Name:        ext.Name,
		Description: ext.Description,
		RarityTier:  domain.RarityTier(ext.RarityTier),
		RarityStars: ext.RarityStars,
		ImageURL:    deref(ext.ImageURL),
		Price:       ext.Price,
		CreatedAt:   parseTimestamp(ext.CreatedAt),
	}, nil
}

func translateUserItem(ext *userItemDTO) (domain.UserItem, error) {
	if ext.ID == "" {
		return domain.UserItem{}, missingField("id")
	}

	ui := domain.UserItem{
		ID:         ext.ID,
		UserID:     ext.UserID,
		ItemID:     ext.ItemID,
		AcquiredAt: parseTimestamp(ext.AcquiredAt),
		IsFeatured: ext.IsFeatured,
	}

	if ext.Item != nil {
		item, err := translateItem(ext.Item)
		if err != nil {
			return domain.UserItem{}, err
		}

		ui.Item = &item
	}

	return ui, nil
}

func translatePurchase(ext *purchaseDTO) (*domain.PurchaseResult, error) {
	ui, err := translateUserItem(&ext.UserItem)
	if err != nil {
		return nil, err
	}

	return &domain.PurchaseResult{UserItem: ui, NewGlory: ext.NewGlory, ItemPrice: ext.ItemPrice}, nil
}

func translateUser(ext *userDTO) (domain.User, error) {
	if ext.ID == "" {
		return domain.User{}, missingField("id")
	}

	return domain.User{
		ID:                  ext.ID,
		Username:            ext.Username,
		Email:               ext.Email,
		TotalGlory:          ext.TotalGlory,
		TotalXP:             ext.TotalXP,
		Level:               ext.Level,
		LifetimeGloryGained: deref(ext.LifetimeGloryGained),
		CreatedAt:           parseTimestamp(ext.CreatedAt),
	}, nil
}

func questWriteFromInput(in domain.QuestInput) questWriteDTO {
	tier := int(in.Tier)
	w := questWriteDTO{
		Title:          &in.Title,
		Description:    &in.Description,
		Tier:           &tier,
		GloryReward:    &in.GloryReward,
		XPReward:       &in.XPReward,
		TimeLimitHours: &in.TimeLimitHours,
	}

	if in.RewardItemID != "" {
		w.RewardItemID = &in.RewardItemID
	}

	return w
}

func questWriteFromPatch(p domain.QuestPatch) questWriteDTO {
	w := questWriteDTO{
		Title:          p.Title,
		Description:    p.Description,
		GloryReward:    p.GloryReward,
		XPReward:       p.XPReward,
		TimeLimitHours: p.TimeLimitHours,
		RewardItemID:   p.RewardItemID,
	}

	if p.Tier != nil {
		tier := int(*p.Tier)
		w.Tier = &tier
	}

	return w
}

func itemWriteFromInput(in domain.ItemInput) itemWriteDTO {
	tier := int(in.RarityTier)
	w := itemWriteDTO{
		Name:        &in.Name,
		Description: &in.Description,
		RarityTier:  &tier,
		RarityStars: &in.RarityStars,
		Price:       &in.Price,
	}

	if in.ImageURL != "" {
		w.ImageURL = &in.ImageURL
	}

	return w
}

func itemWriteFromPatch(p domain.ItemPatch) itemWriteDTO {
	w := itemWriteDTO{
		Name:        p.Name,
		Description: p.Description,
		RarityStars: p.RarityStars,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
	}

	if p.RarityTier != nil {
		tier := int(*p.RarityTier)
		w.RarityTier = &tier
	}

	return w
}

func chatHistoryDTO(history []domain.ChatMessage) []chatMessageDTO {
	out := make([]chatMessageDTO, len(history))
	for i, m := range history {
		out[i] = chatMessageDTO{Role: m.Role, Content: m.Content}
		if !m.Timestamp.IsZero() {
			out[i].Timestamp = m.Timestamp.UTC().Format(timestampLayouts[0])
		}
	}

	return out
}
